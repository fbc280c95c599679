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
	"log/slog"
	"time"

	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/audit"
	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/id"
)

// AuditSink persists audit events. It always writes through the pool,
// outside any caller transaction, so failed-attempt events survive the
// rollback of the operation they describe.
type AuditSink struct {
	db *DB
}

// NewAuditSink creates the database audit sink.
func NewAuditSink(db *DB) *AuditSink {
	return &AuditSink{db: db}
}

// Log implements audit.Logger. Failures are logged and swallowed.
func (a *AuditSink) Log(ctx context.Context, event audit.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	_, err := a.db.pool.Exec(ctx, `
		INSERT INTO audit_logs (id, tenant_id, actor_id, action, entity_type, entity_id, ip_address, user_agent, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		id.NewUUIDv7(), nullable(event.TenantID), nullable(event.ActorID),
		event.Action, event.EntityType, nullable(event.EntityID),
		event.IPAddress, event.UserAgent, metadata, event.Timestamp,
	)
	if err != nil {
		slog.ErrorContext(ctx, "failed to persist audit event",
			slog.String("action", event.Action),
			slog.String("error", err.Error()),
		)
	}
}

// Recent implements audit.Reader for the admin logs endpoint.
func (s *Store) Recent(ctx context.Context, tenantID string, limit int) ([]audit.Record, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := s.q.Query(ctx, `
		SELECT id, COALESCE(tenant_id::text, ''), COALESCE(actor_id::text, ''),
			action, entity_type, COALESCE(entity_id::text, ''),
			ip_address, user_agent, metadata, created_at
		FROM audit_logs
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var records []audit.Record
	for rows.Next() {
		var r audit.Record
		if err := rows.Scan(
			&r.ID, &r.TenantID, &r.ActorID,
			&r.Action, &r.EntityType, &r.EntityID,
			&r.IPAddress, &r.UserAgent, &r.Metadata, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// PruneAuditLogs deletes audit rows older than the retention window and
// returns the number removed.
func (s *Store) PruneAuditLogs(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.q.Exec(ctx, `
		DELETE FROM audit_logs WHERE created_at < $1
	`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit logs: %w", err)
	}
	return tag.RowsAffected(), nil
}
