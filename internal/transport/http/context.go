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
	"context"

	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/auth"
)

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity attaches the resolved identity to the context.
func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// GetIdentity retrieves the authenticated identity from context, or nil
// on unauthenticated requests.
func GetIdentity(ctx context.Context) *auth.Identity {
	if val, ok := ctx.Value(identityKey).(*auth.Identity); ok {
		return val
	}
	return nil
}
