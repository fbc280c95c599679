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

// Package token issues and verifies the signed bearer tokens that bind
// a request to a user identity. Tokens are HS256 JWTs with subject =
// user ID and a fixed validity window; there is no refresh or
// revocation path, re-login is the only renewal. Rotating the signing
// secret invalidates every outstanding token.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/apperror"
)

// DefaultTTL is the token validity window.
const DefaultTTL = 7 * 24 * time.Hour

// Service signs and verifies bearer tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token service. The secret is process-wide
// configuration loaded once at startup.
func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token for userID.
func (s *Service) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", apperror.Internal(err)
	}
	return signed, nil
}

// Verify validates tokenStr and returns its subject. Malformed,
// tampered and expired tokens all fail with UNAUTHORIZED.
func (s *Service) Verify(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", apperror.Unauthorized("token inválido ou expirado")
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", apperror.Unauthorized("token inválido ou expirado")
	}
	return claims.Subject, nil
}
