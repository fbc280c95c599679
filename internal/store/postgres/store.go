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

// Package postgres implements the persistence interfaces over pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/apperror"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/auth"
)

// Querier is the query surface shared by the pool and a transaction, so
// every repository method runs unchanged inside WithinTx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements auth.Store, auth.Directory, plan.Store and the audit
// persistence over a single pool.
type Store struct {
	db *DB
	q  Querier
}

// NewStore creates the store bound to the pool.
func NewStore(db *DB) *Store {
	return &Store{db: db, q: db.pool}
}

// WithinTx runs fn against a store bound to one transaction. Nested
// calls reuse the enclosing transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(auth.Store) error) error {
	if _, ok := s.q.(pgx.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// uniqueViolation is the PostgreSQL class 23 code raised when an insert
// loses a race the application-level pre-check did not catch.
const uniqueViolation = "23505"

// mapWriteError turns constraint violations into CONFLICT responses and
// wraps everything else.
func mapWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch {
		case strings.Contains(pgErr.ConstraintName, "email"):
			return apperror.Conflict("email", "e-mail já cadastrado")
		case strings.Contains(pgErr.ConstraintName, "cnpj"):
			return apperror.Conflict("cnpj", "CNPJ já cadastrado")
		default:
			return apperror.Conflict("", "registro duplicado")
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// nullable maps the empty string to SQL NULL for UUID columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
