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

// Package auth composes token verification, tenant resolution and the
// user-facing credential flows: registration, login, invite, password
// change.
package auth

import (
	"context"
	"errors"

	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/identity"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/plan"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/rbac"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/tenant"
)

// ErrNotFound is returned by Store lookups that match no row.
var ErrNotFound = errors.New("not found")

// Store is the credential-store surface the orchestrators need. Email
// lookups match case-insensitively against the lowercased stored value.
type Store interface {
	// WithinTx runs fn against a store bound to one transaction. Any
	// error rolls every write back.
	WithinTx(ctx context.Context, fn func(Store) error) error

	UserByID(ctx context.Context, id string) (*identity.User, error)
	UserByEmail(ctx context.Context, email string) (*identity.User, error)
	CreateUser(ctx context.Context, u *identity.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	EmailTaken(ctx context.Context, email string) (bool, error)

	ProfileByUserID(ctx context.Context, userID string) (*identity.Profile, error)
	CreateProfile(ctx context.Context, p *identity.Profile) error

	TenantByID(ctx context.Context, id string) (*tenant.Tenant, error)
	CreateTenant(ctx context.Context, t *tenant.Tenant) error
	CNPJTaken(ctx context.Context, cnpj string) (bool, error)

	AssignRole(ctx context.Context, a *rbac.Assignment) error

	// TrialPlan resolves the active plan named "trial" with the
	// greatest trial_days, or ErrNotFound when no such plan exists.
	TrialPlan(ctx context.Context) (*plan.Plan, error)
}

// Directory exposes the three per-request identity lookups as explicit,
// named steps. The profile lookup is the single source of truth for
// tenant scoping; no header or body field may ever substitute for it.
type Directory interface {
	// TenantIDForUser returns the tenant binding from the user's
	// profile. Nil when the profile exists without a tenant;
	// ErrNotFound when the user has no profile row.
	TenantIDForUser(ctx context.Context, userID string) (*string, error)

	// IsSuperAdmin reports a superadmin role assignment with a nil
	// tenant.
	IsSuperAdmin(ctx context.Context, userID string) (bool, error)

	// IsTenantAdmin reports an admin or superadmin role assignment
	// scoped to the given tenant.
	IsTenantAdmin(ctx context.Context, userID, tenantID string) (bool, error)
}
