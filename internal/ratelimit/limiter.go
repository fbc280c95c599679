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

// Package ratelimit gates repeated login attempts with a fixed-window
// counter keyed by client address. The counter store is injectable: the
// in-memory store fits a single-instance deployment, the Redis store is
// the shared-counter path for multi-instance deployments.
package ratelimit

import (
	"context"
	"time"
)

// Entry is the counter state for one key within the current window.
type Entry struct {
	Count   int
	ResetAt time.Time
}

// Store holds fixed-window counters. Implementations are best-effort;
// the limiter fails open on store errors.
type Store interface {
	// Incr increments the counter for key, creating or resetting the
	// window when absent or elapsed, and returns the resulting entry.
	Incr(ctx context.Context, key string, window time.Duration) (Entry, error)

	// Reset clears all entries. Test-only.
	Reset(ctx context.Context) error
}

// Limiter applies a max-attempts-per-window policy.
type Limiter struct {
	store  Store
	max    int
	window time.Duration
}

// NewLimiter creates a limiter allowing max attempts per window.
func NewLimiter(store Store, max int, window time.Duration) *Limiter {
	return &Limiter{store: store, max: max, window: window}
}

// Allow records one attempt for key. When the attempt exceeds the
// window's maximum it returns false plus the Retry-After duration,
// ceiled to whole seconds with a one-second floor. Store failures never
// block the request.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	entry, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return true, 0
	}

	if entry.Count > l.max {
		retry := time.Until(entry.ResetAt)
		if retry <= 0 {
			retry = time.Second
		} else {
			retry = retry.Truncate(time.Second)
			if retry < time.Until(entry.ResetAt) {
				retry += time.Second
			}
			if retry < time.Second {
				retry = time.Second
			}
		}
		return false, retry
	}
	return true, 0
}

// Reset clears all counter state. Test-only.
func (l *Limiter) Reset(ctx context.Context) error {
	return l.store.Reset(ctx)
}
