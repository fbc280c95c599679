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

package plan

import (
	"context"
	"errors"
	"fmt"

	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/apperror"
)

// ErrPlanNotFound is returned by a Store when the tenant or its plan
// cannot be resolved.
var ErrPlanNotFound = errors.New("plan not found for tenant")

// Store resolves the policy inputs for a tenant.
type Store interface {
	// PlanForTenant returns the tenant's current plan, or
	// ErrPlanNotFound when the tenant row or its plan reference cannot
	// be resolved.
	PlanForTenant(ctx context.Context, tenantID string) (*Plan, error)

	// ResourceCount counts the tenant's current rows of a resource.
	ResourceCount(ctx context.Context, tenantID string, res Resource) (int, error)
}

// Guard evaluates plan policies for tenants.
//
// The defaults are deliberately asymmetric: a missing feature flag
// fails open (plans without explicit flags keep base functionality),
// while an unresolvable tenant/plan fails closed (that is a
// data-integrity problem, not an absent flag).
type Guard struct {
	store Store
}

// NewGuard creates a plan access guard.
func NewGuard(store Store) *Guard {
	return &Guard{store: store}
}

// CheckModule allows the action unless the tenant's plan explicitly
// disables the module key.
func (g *Guard) CheckModule(ctx context.Context, tenantID, module string) error {
	p, err := g.resolve(ctx, tenantID)
	if err != nil {
		return err
	}
	if !p.Features.ModuleEnabled(module) {
		return apperror.PlanLimit(fmt.Sprintf("o plano %s não inclui o módulo %s", p.Name, module))
	}
	return nil
}

// CheckLimit allows creating one more row of res. The comparison is
// strict: the new row would be the limit-th, so equality blocks.
func (g *Guard) CheckLimit(ctx context.Context, tenantID string, res Resource) error {
	p, err := g.resolve(ctx, tenantID)
	if err != nil {
		return err
	}

	limit := p.Limit(res)
	if limit == nil {
		return nil
	}

	current, err := g.store.ResourceCount(ctx, tenantID, res)
	if err != nil {
		return apperror.Internal(err)
	}
	if current >= *limit {
		return apperror.PlanLimit(fmt.Sprintf("limite de %d %s do plano %s atingido", *limit, res, p.Name))
	}
	return nil
}

func (g *Guard) resolve(ctx context.Context, tenantID string) (*Plan, error) {
	p, err := g.store.PlanForTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			return nil, apperror.Forbidden("plano da empresa não encontrado, entre em contato com o suporte")
		}
		return nil, apperror.Internal(err)
	}
	return p, nil
}
