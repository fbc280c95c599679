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

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"(11) 98765-4321", "11987654321", false},
		{"1133334444", "1133334444", false},
		{"+55 11 98765-4321", "5511987654321", false},
		{"123", "", true},
		{"12345678901234", "", true},
		{"abc", "", true},
	}

	for _, tt := range tests {
		got, err := normalizePhone(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("normalizePhone(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("normalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeCNPJ(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"   ", "", false},
		{"12.345.678/0001-95", "12345678000195", false},
		{"12345678000195", "12345678000195", false},
		{"1234567800019", "", true},
		{"123456780001950", "", true},
	}

	for _, tt := range tests {
		got, err := normalizeCNPJ(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("normalizeCNPJ(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("normalizeCNPJ(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := normalizeEmail("  Ana@Example.COM "); got != "ana@example.com" {
		t.Errorf("normalizeEmail = %q", got)
	}
}
