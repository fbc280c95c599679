// @title Pet Pro Suite API
// @version 1.0.0
// @description Multi-tenant veterinary ERP — authentication and tenancy core
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url https://www.apache.org/licenses/LICENSE-2.0

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/apperror"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/audit"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/auth"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/observability/metrics"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/ratelimit"
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	authService *auth.Service
	resolver    *auth.Resolver
	auditReader audit.Reader

	loginAttempts metric.Int64Counter
}

// NewHandler creates a new HTTP handler
func NewHandler(
	authService *auth.Service,
	resolver *auth.Resolver,
	auditReader audit.Reader,
	meter *metrics.Meter,
) *Handler {
	h := &Handler{
		authService: authService,
		resolver:    resolver,
		auditReader: auditReader,
	}
	if meter != nil {
		h.loginAttempts, _ = meter.CreateCounter(
			"auth_login_attempts_total",
			"Login attempts by outcome",
		)
	}
	return h
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter, loginLimiter *ratelimit.Limiter) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", h.HealthCheck)

	// Public auth routes
	r.Route("/auth", func(r chi.Router) {
		r.With(LoginRateLimitMiddleware(loginLimiter)).Post("/login", h.Login)
		r.Post("/register", h.Register)
		r.Get("/check-email", h.CheckEmail)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.Get("/me", h.Me)
			r.Post("/change-password", h.ChangePassword)
		})
	})

	// Tenant-scoped API (fail-closed)
	r.Route("/api", func(r chi.Router) {
		r.Use(h.AuthMiddleware)
		r.Use(RequireTenant)

		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Post("/invite", h.Invite)
			r.Get("/logs", h.Logs)
		})
	})

	return r
}

// HealthCheck returns the health status
// @Summary Health Check
// @Description Checks if the service is up and running
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "pet-pro-suite",
	})
}

func requestMeta(r *http.Request) auth.RequestMeta {
	return auth.RequestMeta{
		IPAddress: getIPAddress(r),
		UserAgent: r.UserAgent(),
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.Validation("", "corpo da requisição inválido")
	}
	return nil
}

// Register handles self-service tenant registration
// @Summary Register a company and its admin user
// @Description Creates the company, its first user and the admin role in one step
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body auth.RegisterInput true "Registration Data"
// @Success 201 {object} auth.Result
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in auth.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.authService.Register(r.Context(), in, requestMeta(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// Login authenticates a user
// @Summary Login
// @Description Authenticates by email and password, returning a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body auth.LoginInput true "Credentials"
// @Success 200 {object} auth.Result
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in auth.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), in, requestMeta(r))
	h.countLogin(r, err)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) countLogin(r *http.Request, err error) {
	if h.loginAttempts == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	h.loginAttempts.Add(r.Context(), 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// CheckEmail reports whether an email is free to register
// @Summary Check email availability
// @Tags Auth
// @Produce json
// @Param email query string true "Email"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Router /auth/check-email [get]
func (h *Handler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	available, err := h.authService.EmailAvailable(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"available": available})
}

// Me returns the authenticated identity
// @Summary Current user
// @Description Returns the authenticated user, company and role flags
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.MeResult
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id := GetIdentity(r.Context())

	result, err := h.authService.Me(r.Context(), *id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ChangePasswordRequest carries the password change payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword updates the caller's password
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} ErrorResponse
// @Router /auth/change-password [post]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	id := GetIdentity(r.Context())
	if err := h.authService.ChangePassword(r.Context(), *id, req.CurrentPassword, req.NewPassword, requestMeta(r)); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Invite provisions a user in the caller's company
// @Summary Invite a user
// @Description Creates a user bound to the admin's company, subject to the plan's user limit
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body auth.InviteInput true "Invite Data"
// @Success 201 {object} identity.User
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/invite [post]
func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	var in auth.InviteInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, r, err)
		return
	}

	id := GetIdentity(r.Context())
	user, err := h.authService.Invite(r.Context(), *id, in, requestMeta(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// Logs lists the company's recent audit records
// @Summary Audit logs
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max records (default 50)"
// @Success 200 {array} audit.Record
// @Failure 403 {object} ErrorResponse
// @Router /api/logs [get]
func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	id := GetIdentity(r.Context())
	if id.TenantID == nil {
		respondError(w, r, apperror.Forbidden("usuário sem empresa vinculada, entre em contato com o suporte"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.auditReader.Recent(r.Context(), *id.TenantID, limit)
	if err != nil {
		respondError(w, r, apperror.Internal(err))
		return
	}
	if records == nil {
		records = []audit.Record{}
	}

	respondJSON(w, http.StatusOK, records)
}
