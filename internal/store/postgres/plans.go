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
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/plan"
)

const planColumns = `id, name, price, trial_days, max_users, max_pets, features, is_active`

func scanPlan(row pgx.Row) (*plan.Plan, error) {
	var p plan.Plan
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.TrialDays,
		&p.MaxUsers, &p.MaxPets, &p.Features, &p.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// TrialPlan resolves the active plan named "trial" with the greatest
// trial window
func (s *Store) TrialPlan(ctx context.Context) (*plan.Plan, error) {
	p, err := scanPlan(s.q.QueryRow(ctx, `
		SELECT `+planColumns+`
		FROM plans
		WHERE name = 'trial' AND is_active = TRUE
		ORDER BY trial_days DESC
		LIMIT 1
	`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trial plan: %w", err)
	}
	return p, nil
}

// PlanForTenant resolves the tenant's current plan. A missing tenant
// row, a NULL plan reference and a dangling reference all come back as
// plan.ErrPlanNotFound.
func (s *Store) PlanForTenant(ctx context.Context, tenantID string) (*plan.Plan, error) {
	p, err := scanPlan(s.q.QueryRow(ctx, `
		SELECT p.id, p.name, p.price, p.trial_days, p.max_users, p.max_pets, p.features, p.is_active
		FROM tenants t
		JOIN plans p ON p.id = t.plan_id
		WHERE t.id = $1
	`, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, plan.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get tenant plan: %w", err)
	}
	return p, nil
}

// ResourceCount counts the tenant's current rows of a plan-limited
// resource
func (s *Store) ResourceCount(ctx context.Context, tenantID string, res plan.Resource) (int, error) {
	var query string
	switch res {
	case plan.ResourceUsers:
		query = `SELECT COUNT(*) FROM profiles WHERE tenant_id = $1`
	case plan.ResourcePets:
		query = `SELECT COUNT(*) FROM pets WHERE tenant_id = $1`
	default:
		return 0, fmt.Errorf("unknown resource %q", res)
	}

	var count int
	if err := s.q.QueryRow(ctx, query, tenantID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", res, err)
	}
	return count, nil
}
