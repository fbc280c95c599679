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
	"testing"
	"time"

	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/apperror"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/identity"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/rbac"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/token"
)

func TestResolver_Resolve(t *testing.T) {
	store := newFakeStore()
	tokens := token.NewService("test-secret", time.Hour)
	resolver := NewResolver(tokens, store)
	ctx := context.Background()

	tenantID := "t1"
	store.users["u1"] = &identity.User{ID: "u1", Email: "ana@example.com"}
	store.profiles["u1"] = &identity.Profile{UserID: "u1", TenantID: &tenantID}
	store.assignments = append(store.assignments, &rbac.Assignment{
		UserID: "u1", TenantID: &tenantID, Role: rbac.RoleAdmin,
	})

	bearer, err := tokens.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	id, err := resolver.Resolve(ctx, bearer)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id.UserID != "u1" {
		t.Errorf("user = %q, want u1", id.UserID)
	}
	if id.TenantID == nil || *id.TenantID != tenantID {
		t.Error("tenant not resolved from the profile")
	}
	if !id.IsAdmin || id.IsSuperAdmin {
		t.Errorf("roles = admin:%v super:%v, want admin only", id.IsAdmin, id.IsSuperAdmin)
	}
}

func TestResolver_Resolve_NoProfile(t *testing.T) {
	store := newFakeStore()
	tokens := token.NewService("test-secret", time.Hour)
	resolver := NewResolver(tokens, store)

	store.users["u1"] = &identity.User{ID: "u1"}
	bearer, _ := tokens.Issue("u1")

	id, err := resolver.Resolve(context.Background(), bearer)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id.TenantID != nil {
		t.Error("expected nil tenant for a user without a profile")
	}
	if id.IsAdmin {
		t.Error("tenant-less user cannot be tenant admin")
	}
}

func TestResolver_Resolve_SuperAdmin(t *testing.T) {
	store := newFakeStore()
	tokens := token.NewService("test-secret", time.Hour)
	resolver := NewResolver(tokens, store)

	store.users["u1"] = &identity.User{ID: "u1"}
	store.profiles["u1"] = &identity.Profile{UserID: "u1"}
	store.assignments = append(store.assignments, &rbac.Assignment{
		UserID: "u1", Role: rbac.RoleSuperAdmin,
	})
	bearer, _ := tokens.Issue("u1")

	id, err := resolver.Resolve(context.Background(), bearer)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !id.IsSuperAdmin || !id.IsAdmin {
		t.Errorf("roles = admin:%v super:%v, want both", id.IsAdmin, id.IsSuperAdmin)
	}
}

func TestResolver_Resolve_BadToken(t *testing.T) {
	resolver := NewResolver(token.NewService("test-secret", time.Hour), newFakeStore())

	_, err := resolver.Resolve(context.Background(), "not-a-token")
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}
