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

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/audit"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/auth"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/identity"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/plan"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/ratelimit"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/rbac"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/tenant"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/token"
)

// memStore is an in-memory backend for handler tests. It implements
// auth.Store, auth.Directory, plan.Store and audit.Reader.
type memStore struct {
	users       map[string]*identity.User
	profiles    map[string]*identity.Profile
	tenants     map[string]*tenant.Tenant
	assignments []*rbac.Assignment
	records     []audit.Record
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*identity.User),
		profiles: make(map[string]*identity.Profile),
		tenants:  make(map[string]*tenant.Tenant),
	}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(auth.Store) error) error {
	return fn(m)
}

func (m *memStore) UserByID(ctx context.Context, id string) (*identity.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, auth.ErrNotFound
}

func (m *memStore) UserByEmail(ctx context.Context, email string) (*identity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (m *memStore) CreateUser(ctx context.Context, u *identity.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *memStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	u, ok := m.users[userID]
	if !ok {
		return auth.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *memStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := m.UserByEmail(ctx, email)
	return err == nil, nil
}

func (m *memStore) ProfileByUserID(ctx context.Context, userID string) (*identity.Profile, error) {
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return nil, auth.ErrNotFound
}

func (m *memStore) CreateProfile(ctx context.Context, p *identity.Profile) error {
	m.profiles[p.UserID] = p
	return nil
}

func (m *memStore) TenantByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	if t, ok := m.tenants[id]; ok {
		return t, nil
	}
	return nil, auth.ErrNotFound
}

func (m *memStore) CreateTenant(ctx context.Context, t *tenant.Tenant) error {
	m.tenants[t.ID] = t
	return nil
}

func (m *memStore) CNPJTaken(ctx context.Context, cnpj string) (bool, error) {
	for _, t := range m.tenants {
		if t.CNPJ == cnpj {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) AssignRole(ctx context.Context, a *rbac.Assignment) error {
	m.assignments = append(m.assignments, a)
	return nil
}

func (m *memStore) TrialPlan(ctx context.Context) (*plan.Plan, error) {
	return nil, auth.ErrNotFound
}

func (m *memStore) TenantIDForUser(ctx context.Context, userID string) (*string, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return p.TenantID, nil
}

func (m *memStore) IsSuperAdmin(ctx context.Context, userID string) (bool, error) {
	for _, a := range m.assignments {
		if a.UserID == userID && a.TenantID == nil && a.Role == rbac.RoleSuperAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) IsTenantAdmin(ctx context.Context, userID, tenantID string) (bool, error) {
	for _, a := range m.assignments {
		if a.UserID == userID && a.TenantID != nil && *a.TenantID == tenantID && a.Role.Privileged() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) PlanForTenant(ctx context.Context, tenantID string) (*plan.Plan, error) {
	return &plan.Plan{ID: "p1", Name: "pro", Features: plan.Features{}}, nil
}

func (m *memStore) ResourceCount(ctx context.Context, tenantID string, res plan.Resource) (int, error) {
	return 0, nil
}

func (m *memStore) Recent(ctx context.Context, tenantID string, limit int) ([]audit.Record, error) {
	var out []audit.Record
	for _, r := range m.records {
		if r.TenantID == tenantID {
			out = append(out, r)
		}
	}
	return out, nil
}

type noopAudit struct{}

func (noopAudit) Log(ctx context.Context, event audit.Event) {}

func newTestRouter(t *testing.T, store *memStore, loginMax int) http.Handler {
	t.Helper()

	hasher := identity.NewHasher(bcrypt.MinCost)
	tokens := token.NewService("test-secret", time.Hour)
	guard := plan.NewGuard(store)
	svc := auth.NewService(store, hasher, tokens, guard, noopAudit{})
	resolver := auth.NewResolver(tokens, store)

	h := NewHandler(svc, resolver, store, nil)
	loginLimiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), loginMax, time.Minute)
	return NewRouter(h, NewRateLimiter(1000, 1000), loginLimiter)
}

func doJSON(t *testing.T, router http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerPayload() map[string]string {
	return map[string]string{
		"company_name": "Clínica Bicho Feliz",
		"cnpj":         "12345678000195",
		"phone":        "11987654321",
		"name":         "Ana Souza",
		"email":        "ana@bichofeliz.com.br",
		"password":     "segredo123",
	}
}

func TestRouter_RegisterLoginMe(t *testing.T) {
	router := newTestRouter(t, newMemStore(), 100)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", registerPayload())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var reg struct {
		Token   string `json:"token"`
		User    struct{ ID, Email string }
		Company struct{ ID, Status string }
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "trial", reg.Company.Status)

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "ana@bichofeliz.com.br",
		"password": "segredo123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = doJSON(t, router, http.MethodGet, "/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var me struct {
		User    struct{ Email string }
		IsAdmin bool `json:"is_admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "ana@bichofeliz.com.br", me.User.Email)
	assert.True(t, me.IsAdmin)
}

func TestRouter_LoginFailureEnvelope(t *testing.T) {
	router := newTestRouter(t, newMemStore(), 100)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "x",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UNAUTHORIZED", body.Code)
	assert.NotEmpty(t, body.Error)
	assert.Empty(t, body.Field)
}

func TestRouter_LoginRateLimit(t *testing.T) {
	router := newTestRouter(t, newMemStore(), 3)

	payload := map[string]string{"email": "nobody@example.com", "password": "x"}
	for i := 0; i < 3; i++ {
		rec := doJSON(t, router, http.MethodPost, "/auth/login", "", payload)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", payload)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	retry := rec.Header().Get("Retry-After")
	require.NotEmpty(t, retry)
	assert.Regexp(t, `^\d+$`, retry)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMITED", body.Code)
}

func TestRouter_CheckEmail(t *testing.T) {
	router := newTestRouter(t, newMemStore(), 100)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", registerPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/auth/check-email?email=ana@bichofeliz.com.br", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"available": false}`, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/auth/check-email?email=livre@example.com", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"available": true}`, rec.Body.String())
}

func TestRouter_DuplicateRegisterConflict(t *testing.T) {
	router := newTestRouter(t, newMemStore(), 100)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", registerPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	payload := registerPayload()
	payload["cnpj"] = "98765432000110"
	rec = doJSON(t, router, http.MethodPost, "/auth/register", "", payload)
	require.Equal(t, http.StatusConflict, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "CONFLICT", body.Code)
	assert.Equal(t, "email", body.Field)
}

func TestRouter_InviteFlow(t *testing.T) {
	store := newMemStore()
	router := newTestRouter(t, store, 100)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", registerPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	var reg struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))

	rec = doJSON(t, router, http.MethodPost, "/api/invite", reg.Token, map[string]string{
		"name":     "Bruno Lima",
		"email":    "bruno@bichofeliz.com.br",
		"password": "outrasenha",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// The invited attendant cannot invite anyone.
	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "bruno@bichofeliz.com.br",
		"password": "outrasenha",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = doJSON(t, router, http.MethodPost, "/api/invite", login.Token, map[string]string{
		"name":     "Carla Dias",
		"email":    "carla@bichofeliz.com.br",
		"password": "maisoutra",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}
