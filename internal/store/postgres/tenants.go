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
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/tenant"
)

// TenantByID retrieves a tenant by ID
func (s *Store) TenantByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	var cnpj *string

	err := s.q.QueryRow(ctx, `
		SELECT id, name, email, phone, cnpj, status, plan_id, trial_ends_at, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`, id).Scan(
		&t.ID, &t.Name, &t.Email, &t.Phone, &cnpj, &t.Status,
		&t.PlanID, &t.TrialEndsAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	if cnpj != nil {
		t.CNPJ = *cnpj
	}
	return &t, nil
}

// CreateTenant inserts a new tenant. The CNPJ column stores NULL for an
// absent CNPJ so the unique constraint only binds real values.
func (s *Store) CreateTenant(ctx context.Context, t *tenant.Tenant) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO tenants (id, name, email, phone, cnpj, status, plan_id, trial_ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		t.ID, t.Name, t.Email, t.Phone, nullable(t.CNPJ), t.Status,
		t.PlanID, t.TrialEndsAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "insert tenant")
	}
	return nil
}

// CNPJTaken reports whether a tenant already registered the CNPJ
func (s *Store) CNPJTaken(ctx context.Context, cnpj string) (bool, error) {
	var taken bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM tenants WHERE cnpj = $1)
	`, cnpj).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check cnpj: %w", err)
	}
	return taken, nil
}
