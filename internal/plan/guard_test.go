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
	"testing"

	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/apperror"
)

// mockPlanStore is a simple in-memory implementation of Store
type mockPlanStore struct {
	plans  map[string]*Plan
	counts map[string]int
}

func newMockPlanStore() *mockPlanStore {
	return &mockPlanStore{
		plans:  make(map[string]*Plan),
		counts: make(map[string]int),
	}
}

func (m *mockPlanStore) PlanForTenant(ctx context.Context, tenantID string) (*Plan, error) {
	p, ok := m.plans[tenantID]
	if !ok {
		return nil, ErrPlanNotFound
	}
	return p, nil
}

func (m *mockPlanStore) ResourceCount(ctx context.Context, tenantID string, res Resource) (int, error) {
	return m.counts[tenantID+":"+string(res)], nil
}

func intPtr(n int) *int { return &n }

func TestGuard_ModuleFailOpen(t *testing.T) {
	store := newMockPlanStore()
	store.plans["t1"] = &Plan{Name: "basic", Features: Features{}}
	g := NewGuard(store)

	// Missing key defaults to enabled.
	if err := g.CheckModule(context.Background(), "t1", "financeiro"); err != nil {
		t.Errorf("expected fail-open for missing key, got %v", err)
	}
}

func TestGuard_ModuleExplicitlyDisabled(t *testing.T) {
	store := newMockPlanStore()
	store.plans["t1"] = &Plan{
		Name: "basic",
		Features: Features{
			"financeiro": false,
			"estoque":    "false",
			"agenda":     float64(0),
			"vendas":     true,
		},
	}
	g := NewGuard(store)
	ctx := context.Background()

	for _, disabled := range []string{"financeiro", "estoque", "agenda"} {
		err := g.CheckModule(ctx, "t1", disabled)
		if err == nil {
			t.Errorf("module %s: expected PLAN_LIMIT, got nil", disabled)
			continue
		}
		if apperror.From(err).Code != apperror.CodePlanLimit {
			t.Errorf("module %s: expected PLAN_LIMIT, got %s", disabled, apperror.From(err).Code)
		}
	}

	if err := g.CheckModule(ctx, "t1", "vendas"); err != nil {
		t.Errorf("enabled module blocked: %v", err)
	}
}

func TestGuard_UnresolvableTenantFailsClosed(t *testing.T) {
	g := NewGuard(newMockPlanStore())
	ctx := context.Background()

	err := g.CheckModule(ctx, "missing", "financeiro")
	if err == nil || apperror.From(err).Code != apperror.CodeForbidden {
		t.Errorf("expected FORBIDDEN for unresolvable tenant, got %v", err)
	}

	err = g.CheckLimit(ctx, "missing", ResourceUsers)
	if err == nil || apperror.From(err).Code != apperror.CodeForbidden {
		t.Errorf("expected FORBIDDEN for unresolvable tenant, got %v", err)
	}
}

func TestGuard_LimitStrictlyLess(t *testing.T) {
	store := newMockPlanStore()
	store.plans["t1"] = &Plan{Name: "pro", MaxUsers: intPtr(3)}
	g := NewGuard(store)
	ctx := context.Background()

	// 2 of 3: the new row would be the 3rd, allowed.
	store.counts["t1:users"] = 2
	if err := g.CheckLimit(ctx, "t1", ResourceUsers); err != nil {
		t.Errorf("expected allow at 2/3, got %v", err)
	}

	// 3 of 3: equality must block.
	store.counts["t1:users"] = 3
	err := g.CheckLimit(ctx, "t1", ResourceUsers)
	if err == nil || apperror.From(err).Code != apperror.CodePlanLimit {
		t.Errorf("expected PLAN_LIMIT at 3/3, got %v", err)
	}
}

func TestGuard_NilLimitIsUnlimited(t *testing.T) {
	store := newMockPlanStore()
	store.plans["t1"] = &Plan{Name: "enterprise"}
	store.counts["t1:pets"] = 100000
	g := NewGuard(store)

	if err := g.CheckLimit(context.Background(), "t1", ResourcePets); err != nil {
		t.Errorf("expected unlimited, got %v", err)
	}
}

func TestPlan_LimitResolutionOrder(t *testing.T) {
	// Explicit column wins over features key.
	p := &Plan{MaxUsers: intPtr(5), Features: Features{"max_users": float64(2)}}
	if got := p.Limit(ResourceUsers); got == nil || *got != 5 {
		t.Errorf("expected column value 5, got %v", got)
	}

	// Features key used when column absent.
	p = &Plan{Features: Features{"max_pets": float64(7)}}
	if got := p.Limit(ResourcePets); got == nil || *got != 7 {
		t.Errorf("expected features value 7, got %v", got)
	}

	// Both absent: unlimited.
	p = &Plan{}
	if got := p.Limit(ResourceUsers); got != nil {
		t.Errorf("expected nil limit, got %d", *got)
	}
}
