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
	"fmt"

	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/rbac"
)

// AssignRole inserts a role assignment
func (s *Store) AssignRole(ctx context.Context, a *rbac.Assignment) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO role_assignments (id, user_id, tenant_id, role, granted_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.UserID, a.TenantID, a.Role, a.GrantedBy, a.CreatedAt)
	if err != nil {
		return mapWriteError(err, "insert role assignment")
	}
	return nil
}

// IsSuperAdmin reports a superadmin assignment with a NULL tenant
func (s *Store) IsSuperAdmin(ctx context.Context, userID string) (bool, error) {
	var is bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM role_assignments
			WHERE user_id = $1 AND tenant_id IS NULL AND role = $2
		)
	`, userID, rbac.RoleSuperAdmin).Scan(&is)
	if err != nil {
		return false, fmt.Errorf("failed to check superadmin role: %w", err)
	}
	return is, nil
}

// IsTenantAdmin reports an admin-level assignment scoped to the tenant
func (s *Store) IsTenantAdmin(ctx context.Context, userID, tenantID string) (bool, error) {
	var is bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM role_assignments
			WHERE user_id = $1 AND tenant_id = $2 AND role IN ($3, $4)
		)
	`, userID, tenantID, rbac.RoleAdmin, rbac.RoleSuperAdmin).Scan(&is)
	if err != nil {
		return false, fmt.Errorf("failed to check admin role: %w", err)
	}
	return is, nil
}
