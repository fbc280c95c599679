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

// Package plan evaluates subscription-plan policies for tenants:
// module feature flags and numeric resource caps.
package plan

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Resource is a countable entity kind capped by a plan.
type Resource string

const (
	ResourceUsers Resource = "users"
	ResourcePets  Resource = "pets"
)

// Features is the generic feature map of a plan. Keys may hold booleans
// (module flags) or numbers (caps). JSON decoding yields bool, float64
// and string values.
type Features map[string]any

// Plan is a billing tier. Read-only input to the access guard; owned by
// the billing domain.
type Plan struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	TrialDays int             `json:"trial_days"`
	MaxUsers  *int            `json:"max_users"`
	MaxPets   *int            `json:"max_pets"`
	Features  Features        `json:"features"`
	IsActive  bool            `json:"is_active"`
}

// ModuleEnabled reports whether a feature/module key is enabled. A
// missing key defaults to enabled; an explicit false, zero or falsey
// string disables it.
func (f Features) ModuleEnabled(key string) bool {
	v, ok := f[key]
	if !ok {
		return true
	}
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		return s != "" && s != "false" && s != "0" && s != "no"
	case nil:
		return false
	default:
		return true
	}
}

// Limit resolves the numeric cap for a resource. An explicit plan
// column takes precedence; absent that, the same key inside Features;
// nil means unlimited.
func (p *Plan) Limit(res Resource) *int {
	switch res {
	case ResourceUsers:
		if p.MaxUsers != nil {
			return p.MaxUsers
		}
	case ResourcePets:
		if p.MaxPets != nil {
			return p.MaxPets
		}
	}

	v, ok := p.Features["max_"+string(res)]
	if !ok {
		return nil
	}
	switch val := v.(type) {
	case float64:
		n := int(val)
		return &n
	case int:
		n := val
		return &n
	}
	return nil
}
