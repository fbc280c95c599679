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

// Package audit is the fire-and-forget audit sink. Sink failures are
// logged and swallowed; they never abort the calling operation.
package audit

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Actions
const (
	ActionLoginSuccess    = "login_success"
	ActionLoginFailed     = "login_failed"
	ActionRegister        = "register"
	ActionUserInvited     = "user_invited"
	ActionPasswordChanged = "password_changed"
	ActionRoleAssigned    = "role_assigned"
)

// Event represents an auditable action.
type Event struct {
	Action     string
	TenantID   string
	ActorID    string
	EntityType string
	EntityID   string
	IPAddress  string
	UserAgent  string
	Metadata   map[string]any
	Timestamp  time.Time
}

// Record is a persisted audit event, as read back by admin tooling.
type Record struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	TenantID   string         `json:"tenant_id"`
	ActorID    string         `json:"actor_id"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	IPAddress  string         `json:"ip_address"`
	UserAgent  string         `json:"user_agent"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Logger defines the interface for audit logging.
type Logger interface {
	Log(ctx context.Context, event Event)
}

// Reader lists persisted audit records for admin endpoints.
type Reader interface {
	Recent(ctx context.Context, tenantID string, limit int) ([]Record, error)
}

// SlogLogger implements Logger using slog.
type SlogLogger struct{}

// NewSlogLogger creates a new audit logger.
func NewSlogLogger() *SlogLogger {
	return &SlogLogger{}
}

// Log records an audit event.
func (l *SlogLogger) Log(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	attrs := []any{
		slog.String("action", event.Action),
		slog.String("tenant_id", event.TenantID),
		slog.String("actor_id", event.ActorID),
		slog.String("entity_type", event.EntityType),
		slog.String("entity_id", event.EntityID),
		slog.Time("timestamp", event.Timestamp),
	}

	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.UserAgent != "" {
		attrs = append(attrs, slog.String("user_agent", event.UserAgent))
	}

	if len(event.Metadata) > 0 {
		group := []any{}
		for k, v := range event.Metadata {
			// Redact secrets
			if isSecret(k) {
				v = "[REDACTED]"
			}
			group = append(group, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("metadata", group...))
	}

	slog.InfoContext(ctx, "AUDIT_EVENT", append(attrs, slog.String("component", "audit"))...)
}

// MultiLogger fans an event out to several sinks.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a logger that writes to every sink.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

// Log implements Logger.
func (l *MultiLogger) Log(ctx context.Context, event Event) {
	for _, sink := range l.loggers {
		sink.Log(ctx, event)
	}
}

// isSecret checks if a key likely contains a secret
func isSecret(key string) bool {
	lower := strings.ToLower(key)
	secrets := []string{"password", "secret", "token", "key", "hash", "credential", "authorization", "senha"}
	for _, s := range secrets {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
