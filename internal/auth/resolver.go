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

package auth

import (
	"context"
	"errors"

	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/apperror"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/token"
)

// Identity is the per-request authentication context attached by the
// transport middleware and consumed by downstream handlers.
type Identity struct {
	UserID       string
	TenantID     *string
	IsAdmin      bool
	IsSuperAdmin bool
}

// Resolver turns a bearer token into an Identity. Tenant and role state
// are looked up from the store on every request rather than embedded in
// the token, so revoking a role or moving a user across tenants takes
// effect immediately without a token blacklist.
type Resolver struct {
	tokens *token.Service
	dir    Directory
}

// NewResolver creates an identity resolver.
func NewResolver(tokens *token.Service, dir Directory) *Resolver {
	return &Resolver{tokens: tokens, dir: dir}
}

// Resolve verifies the bearer token and populates the identity context.
func (r *Resolver) Resolve(ctx context.Context, bearer string) (*Identity, error) {
	userID, err := r.tokens.Verify(bearer)
	if err != nil {
		return nil, err
	}

	tenantID, err := r.dir.TenantIDForUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, apperror.Internal(err)
		}
		tenantID = nil
	}

	isSuperAdmin, err := r.dir.IsSuperAdmin(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	isAdmin := isSuperAdmin
	if !isAdmin && tenantID != nil {
		isAdmin, err = r.dir.IsTenantAdmin(ctx, userID, *tenantID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
	}

	return &Identity{
		UserID:       userID,
		TenantID:     tenantID,
		IsAdmin:      isAdmin,
		IsSuperAdmin: isSuperAdmin,
	}, nil
}
