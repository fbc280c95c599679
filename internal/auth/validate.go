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
	"strings"

	"github.com/luccas-carvalho13/pet-pro-suite-sub001/internal/apperror"
)

// normalizeEmail trims and lowercases an email for case-insensitive
// matching against the stored value.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// digitsOnly strips every non-digit rune.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func requireField(field, value, message string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.Validation(field, message)
	}
	return nil
}

// normalizePhone validates and normalizes a phone number to its digits.
// Brazilian numbers carry 10-13 digits depending on area and country
// code presence.
func normalizePhone(phone string) (string, error) {
	digits := digitsOnly(phone)
	if len(digits) < 10 || len(digits) > 13 {
		return "", apperror.Validation("phone", "telefone deve conter entre 10 e 13 dígitos")
	}
	return digits, nil
}

// normalizeCNPJ validates and normalizes an optional CNPJ to its 14
// digits. Empty input stays empty.
func normalizeCNPJ(cnpj string) (string, error) {
	if strings.TrimSpace(cnpj) == "" {
		return "", nil
	}
	digits := digitsOnly(cnpj)
	if len(digits) != 14 {
		return "", apperror.Validation("cnpj", "CNPJ deve conter exatamente 14 dígitos")
	}
	return digits, nil
}
