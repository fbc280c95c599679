// Copyright 2026 The Pet Pro Suite Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/auth"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/identity"
)

// UserByID retrieves a user by ID
func (s *Store) UserByID(ctx context.Context, id string) (*identity.User, error) {
	var user identity.User

	err := s.q.QueryRow(ctx, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// UserByEmail retrieves a user by its lowercased email
func (s *Store) UserByEmail(ctx context.Context, email string) (*identity.User, error) {
	var user identity.User

	err := s.q.QueryRow(ctx, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// CreateUser inserts a new user
func (s *Store) CreateUser(ctx context.Context, u *identity.User) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "insert user")
	}
	return nil
}

// UpdatePassword updates user password
func (s *Store) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	result, err := s.q.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = NOW()
		WHERE id = $1
	`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return auth.ErrNotFound
	}
	return nil
}

// EmailTaken reports whether a user row already holds the email
func (s *Store) EmailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`, email).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return taken, nil
}

// ProfileByUserID retrieves the tenant-binding profile of a user
func (s *Store) ProfileByUserID(ctx context.Context, userID string) (*identity.Profile, error) {
	var profile identity.Profile

	err := s.q.QueryRow(ctx, `
		SELECT user_id, tenant_id, created_at
		FROM profiles
		WHERE user_id = $1
	`, userID).Scan(&profile.UserID, &profile.TenantID, &profile.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// CreateProfile inserts a profile
func (s *Store) CreateProfile(ctx context.Context, p *identity.Profile) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO profiles (user_id, tenant_id, created_at)
		VALUES ($1, $2, $3)
	`, p.UserID, p.TenantID, p.CreatedAt)
	if err != nil {
		return mapWriteError(err, "insert profile")
	}
	return nil
}

// TenantIDForUser returns the tenant binding from the user's profile
func (s *Store) TenantIDForUser(ctx context.Context, userID string) (*string, error) {
	var tenantID *string
	err := s.q.QueryRow(ctx, `
		SELECT tenant_id FROM profiles WHERE user_id = $1
	`, userID).Scan(&tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile tenant: %w", err)
	}
	return tenantID, nil
}
