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

// Package rbac defines the role vocabulary and role-assignment model.
//
// A super-admin assignment carries a nil tenant and grants cross-tenant
// authority. Every other role is scoped to exactly one tenant. Only
// admin and superadmin bypass per-module permission checks.
package rbac

import "time"

// Role names are stable wire values (pt-BR set used by the product).
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleAttendant  Role = "atendente"
	RoleUser       Role = "usuario"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleSupervisor, RoleAttendant, RoleUser:
		return true
	}
	return false
}

// Privileged reports whether r bypasses per-module permission checks.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Assignment grants a user a role, optionally scoped to a tenant.
// TenantID is nil only for superadmin assignments.
type Assignment struct {
	ID        string
	UserID    string
	TenantID  *string
	Role      Role
	GrantedBy string
	CreatedAt time.Time
}
