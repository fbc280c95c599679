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
	"time"

	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/apperror"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/audit"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/id"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/identity"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/plan"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/rbac"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/tenant"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/token"
)

// Service implements the registration, login, invite and password
// flows.
type Service struct {
	store  Store
	hasher *identity.Hasher
	tokens *token.Service
	guard  *plan.Guard
	audit  audit.Logger

	// dummyHash is compared against when a login email matches no
	// user, so unknown-email and wrong-password take the same time.
	dummyHash string
}

// NewService creates the auth service.
func NewService(store Store, hasher *identity.Hasher, tokens *token.Service, guard *plan.Guard, auditLogger audit.Logger) *Service {
	dummy, _ := hasher.Hash(id.NewUUIDv7())
	return &Service{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		guard:     guard,
		audit:     auditLogger,
		dummyHash: dummy,
	}
}

// RequestMeta carries the caller context handed to the audit sink.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// Result is the authenticated response payload of register and login.
type Result struct {
	Token   string         `json:"token"`
	User    *identity.User `json:"user"`
	Company *tenant.Tenant `json:"company"`
}

// RegisterInput is the self-service tenant registration payload.
type RegisterInput struct {
	CompanyName string `json:"company_name"`
	CNPJ        string `json:"cnpj"`
	Phone       string `json:"phone"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

func (in *RegisterInput) validate() error {
	if err := requireField("company_name", in.CompanyName, "nome da empresa é obrigatório"); err != nil {
		return err
	}
	if err := requireField("name", in.Name, "nome é obrigatório"); err != nil {
		return err
	}
	if err := requireField("email", in.Email, "e-mail é obrigatório"); err != nil {
		return err
	}
	if err := requireField("password", in.Password, "senha é obrigatória"); err != nil {
		return err
	}
	if err := requireField("phone", in.Phone, "telefone é obrigatório"); err != nil {
		return err
	}

	phone, err := normalizePhone(in.Phone)
	if err != nil {
		return err
	}
	cnpj, err := normalizeCNPJ(in.CNPJ)
	if err != nil {
		return err
	}

	in.Phone = phone
	in.CNPJ = cnpj
	in.Email = normalizeEmail(in.Email)
	return nil
}

// Register creates a tenant, its admin user, the profile binding and
// the admin role assignment in one transaction, then issues a token.
//
// The email/CNPJ pre-checks are a fast path for better error messages;
// the store's unique constraints are the correctness backstop under
// concurrent registration, and their violation surfaces as CONFLICT.
func (s *Service) Register(ctx context.Context, in RegisterInput, meta RequestMeta) (*Result, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if taken, err := s.store.EmailTaken(ctx, in.Email); err != nil {
		return nil, apperror.Internal(err)
	} else if taken {
		return nil, apperror.Conflict("email", "e-mail já cadastrado")
	}
	if in.CNPJ != "" {
		if taken, err := s.store.CNPJTaken(ctx, in.CNPJ); err != nil {
			return nil, apperror.Internal(err)
		} else if taken {
			return nil, apperror.Conflict("cnpj", "CNPJ já cadastrado")
		}
	}

	trialDays := tenant.DefaultTrialDays
	var planID *string
	trialPlan, err := s.store.TrialPlan(ctx)
	switch {
	case err == nil:
		planID = &trialPlan.ID
		if trialPlan.TrialDays > 0 {
			trialDays = trialPlan.TrialDays
		}
	case errors.Is(err, ErrNotFound):
		// Tolerated: tenant starts planless on the default trial window.
	default:
		return nil, apperror.Internal(err)
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := time.Now()
	trialEnds := now.AddDate(0, 0, trialDays)
	company := &tenant.Tenant{
		ID:          id.NewUUIDv7(),
		Name:        in.CompanyName,
		Email:       in.Email,
		Phone:       in.Phone,
		CNPJ:        in.CNPJ,
		Status:      tenant.StatusTrial,
		PlanID:      planID,
		TrialEndsAt: &trialEnds,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	user := &identity.User{
		ID:           id.NewUUIDv7(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.store.WithinTx(ctx, func(tx Store) error {
		if err := tx.CreateTenant(ctx, company); err != nil {
			return err
		}
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		if err := tx.CreateProfile(ctx, &identity.Profile{
			UserID:    user.ID,
			TenantID:  &company.ID,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		return tx.AssignRole(ctx, &rbac.Assignment{
			ID:        id.NewUUIDv7(),
			UserID:    user.ID,
			TenantID:  &company.ID,
			Role:      rbac.RoleAdmin,
			GrantedBy: user.ID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, apperror.From(err)
	}

	s.audit.Log(ctx, audit.Event{
		Action:     audit.ActionRegister,
		TenantID:   company.ID,
		ActorID:    user.ID,
		EntityType: "company",
		EntityID:   company.ID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Metadata:   map[string]any{"email": user.Email, "company_name": company.Name},
	})

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperror.From(err)
	}

	return &Result{Token: signed, User: user, Company: company}, nil
}

// LoginInput is the credential payload of a login attempt.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user by email and password. Unknown email and
// wrong password are indistinguishable to the caller: same status, same
// code, same message, and a dummy hash comparison equalizing timing.
func (s *Service) Login(ctx context.Context, in LoginInput, meta RequestMeta) (*Result, error) {
	if err := requireField("email", in.Email, "e-mail é obrigatório"); err != nil {
		return nil, err
	}
	if err := requireField("password", in.Password, "senha é obrigatória"); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)

	user, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.hasher.Verify(in.Password, s.dummyHash)
			s.auditLoginFailed(ctx, "", email, "user_not_found", meta)
			return nil, errInvalidCredentials()
		}
		return nil, apperror.Internal(err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.auditLoginFailed(ctx, user.ID, email, "invalid_password", meta)
		return nil, errInvalidCredentials()
	}

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperror.From(err)
	}

	// Tenant resolution is best-effort here; a tenant-less user still
	// logs in and is gated later by requireTenant.
	company := s.companyForUser(ctx, user.ID)

	tenantID := ""
	if company != nil {
		tenantID = company.ID
	}
	s.audit.Log(ctx, audit.Event{
		Action:     audit.ActionLoginSuccess,
		TenantID:   tenantID,
		ActorID:    user.ID,
		EntityType: "user",
		EntityID:   user.ID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})

	return &Result{Token: signed, User: user, Company: company}, nil
}

func errInvalidCredentials() error {
	return apperror.Unauthorized("credenciais inválidas")
}

func (s *Service) auditLoginFailed(ctx context.Context, actorID, email, reason string, meta RequestMeta) {
	s.audit.Log(ctx, audit.Event{
		Action:     audit.ActionLoginFailed,
		ActorID:    actorID,
		EntityType: "user",
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Metadata:   map[string]any{"email": email, "reason": reason},
	})
}

func (s *Service) companyForUser(ctx context.Context, userID string) *tenant.Tenant {
	profile, err := s.store.ProfileByUserID(ctx, userID)
	if err != nil || profile.TenantID == nil {
		return nil
	}
	company, err := s.store.TenantByID(ctx, *profile.TenantID)
	if err != nil {
		return nil
	}
	return company
}

// MeResult is the identity payload of GET /auth/me.
type MeResult struct {
	User         *identity.User `json:"user"`
	Company      *tenant.Tenant `json:"company"`
	IsAdmin      bool           `json:"is_admin"`
	IsSuperAdmin bool           `json:"is_superadmin"`
}

// Me returns the authenticated actor's identity context.
func (s *Service) Me(ctx context.Context, actor Identity) (*MeResult, error) {
	user, err := s.store.UserByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.Unauthorized("usuário não encontrado")
		}
		return nil, apperror.Internal(err)
	}

	var company *tenant.Tenant
	if actor.TenantID != nil {
		company, err = s.store.TenantByID(ctx, *actor.TenantID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, apperror.Internal(err)
		}
	}

	return &MeResult{
		User:         user,
		Company:      company,
		IsAdmin:      actor.IsAdmin,
		IsSuperAdmin: actor.IsSuperAdmin,
	}, nil
}

// ChangePassword verifies the current password before storing the new
// hash.
func (s *Service) ChangePassword(ctx context.Context, actor Identity, current, newPassword string, meta RequestMeta) error {
	if err := requireField("new_password", newPassword, "nova senha é obrigatória"); err != nil {
		return err
	}
	if len(newPassword) < 6 {
		return apperror.Validation("new_password", "nova senha deve ter pelo menos 6 caracteres")
	}

	user, err := s.store.UserByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperror.Unauthorized("usuário não encontrado")
		}
		return apperror.Internal(err)
	}

	if !s.hasher.Verify(current, user.PasswordHash) {
		return apperror.Unauthorized("senha atual incorreta")
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := s.store.UpdatePassword(ctx, user.ID, newHash); err != nil {
		return apperror.From(err)
	}

	tenantID := ""
	if actor.TenantID != nil {
		tenantID = *actor.TenantID
	}
	s.audit.Log(ctx, audit.Event{
		Action:     audit.ActionPasswordChanged,
		TenantID:   tenantID,
		ActorID:    user.ID,
		EntityType: "user",
		EntityID:   user.ID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return nil
}

// EmailAvailable reports whether an email can still be registered.
func (s *Service) EmailAvailable(ctx context.Context, email string) (bool, error) {
	if err := requireField("email", email, "e-mail é obrigatório"); err != nil {
		return false, err
	}
	taken, err := s.store.EmailTaken(ctx, normalizeEmail(email))
	if err != nil {
		return false, apperror.Internal(err)
	}
	return !taken, nil
}

// InviteInput is the admin-initiated user invite payload.
type InviteInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Invite provisions a user inside the inviter's tenant. The plan
// users-limit check runs before any write, so a rejected invite leaves
// no partial state.
func (s *Service) Invite(ctx context.Context, actor Identity, in InviteInput, meta RequestMeta) (*identity.User, error) {
	if actor.TenantID == nil {
		return nil, apperror.Forbidden("usuário sem empresa vinculada, entre em contato com o suporte")
	}
	tenantID := *actor.TenantID

	if err := requireField("name", in.Name, "nome é obrigatório"); err != nil {
		return nil, err
	}
	if err := requireField("email", in.Email, "e-mail é obrigatório"); err != nil {
		return nil, err
	}
	if err := requireField("password", in.Password, "senha é obrigatória"); err != nil {
		return nil, err
	}

	role := rbac.Role(in.Role)
	if in.Role == "" {
		role = rbac.RoleAttendant
	}
	if !role.Valid() || role.Privileged() {
		return nil, apperror.Validation("role", "perfil inválido para convite")
	}

	if err := s.guard.CheckLimit(ctx, tenantID, plan.ResourceUsers); err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)
	if taken, err := s.store.EmailTaken(ctx, email); err != nil {
		return nil, apperror.Internal(err)
	} else if taken {
		return nil, apperror.Conflict("email", "e-mail já cadastrado")
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := time.Now()
	user := &identity.User{
		ID:           id.NewUUIDv7(),
		Email:        email,
		Name:         in.Name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.store.WithinTx(ctx, func(tx Store) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		if err := tx.CreateProfile(ctx, &identity.Profile{
			UserID:    user.ID,
			TenantID:  &tenantID,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		return tx.AssignRole(ctx, &rbac.Assignment{
			ID:        id.NewUUIDv7(),
			UserID:    user.ID,
			TenantID:  &tenantID,
			Role:      role,
			GrantedBy: actor.UserID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, apperror.From(err)
	}

	s.audit.Log(ctx, audit.Event{
		Action:     audit.ActionUserInvited,
		TenantID:   tenantID,
		ActorID:    actor.UserID,
		EntityType: "user",
		EntityID:   user.ID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Metadata:   map[string]any{"email": user.Email, "role": string(role)},
	})

	return user, nil
}
