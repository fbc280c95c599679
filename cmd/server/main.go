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

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/audit"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/auth"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/config"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/identity"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/observability/logger"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/observability/metrics"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/observability/tracing"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/plan"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/ratelimit"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/store/postgres"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/token"
	transportHTTP "github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/transport/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.InitLogger(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})
	slog.Info("starting pet pro suite auth core")

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(cfg); err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Initialize context
	ctx := context.Background()

	// Initialize tracer
	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		SamplingRate:   1.0,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	}
	defer tracer.Shutdown(ctx)

	// Initialize meter
	meter, err := metrics.New(ctx, metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to initialize meter", logger.Error(err))
	}

	// Initialize database
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to database")

	store := postgres.NewStore(db)

	// Audit: structured log plus the database sink read by /api/logs
	auditLogger := audit.NewMultiLogger(
		audit.NewSlogLogger(),
		postgres.NewAuditSink(db),
	)

	// Initialize helpers
	hasher := identity.NewHasher(cfg.Security.BcryptCost)
	tokens := token.NewService(cfg.Token.Secret, cfg.Token.TTL)
	guard := plan.NewGuard(store)

	// Initialize services
	authService := auth.NewService(store, hasher, tokens, guard, auditLogger)
	resolver := auth.NewResolver(tokens, store)

	// Rate limiters: global per-IP throttle plus the login fixed window
	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	var loginStore ratelimit.Store
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			slog.Error("failed to connect to redis", logger.Error(err))
			os.Exit(1)
		}
		loginStore = ratelimit.NewRedisStore(client, "ratelimit")
		slog.Info("login rate limiter backed by redis")
	} else {
		loginStore = ratelimit.NewMemoryStore()
	}
	loginLimiter := ratelimit.NewLimiter(loginStore, cfg.RateLimit.LoginMaxAttempts, cfg.RateLimit.LoginWindow)

	// Initialize HTTP handler
	handler := transportHTTP.NewHandler(authService, resolver, store, meter)

	// Create router
	router := transportHTTP.NewRouter(handler, rateLimiter, loginLimiter)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"))
		slog.Info(fmt.Sprintf("listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", logger.Error(err))
	}

	slog.Info("server stopped")
}

func runMigrate(cfg *config.Config) error {
	ctx := context.Background()
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("Applying initial schema...")
	if err := db.Migrate(ctx, postgres.InitialSchema); err != nil {
		return err
	}
	fmt.Println("Migration successful.")
	return nil
}
