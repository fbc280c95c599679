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

package identity

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	for _, password := range []string{"s", "senha-forte-123", "ção áé ü 🐶"} {
		hash, err := h.Hash(password)
		if err != nil {
			t.Fatalf("hash failed for %q: %v", password, err)
		}
		if hash == password {
			t.Fatal("hash must not equal plaintext")
		}
		if !h.Verify(password, hash) {
			t.Errorf("verify(%q) = false, want true", password)
		}
		if h.Verify(password+"x", hash) {
			t.Errorf("verify with wrong password succeeded for %q", password)
		}
	}
}

func TestHasher_MalformedHashIsFalseNotPanic(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	for _, bad := range []string{"", "not-a-hash", "$2a$broken", "$argon2id$v=19$x"} {
		if h.Verify("qualquer", bad) {
			t.Errorf("verify against malformed hash %q returned true", bad)
		}
	}
}

func TestNewHasher_ClampsInvalidCost(t *testing.T) {
	h := NewHasher(99)
	hash, err := h.Hash("abc")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost parse failed: %v", err)
	}
	if cost != DefaultHashCost {
		t.Errorf("expected cost %d, got %d", DefaultHashCost, cost)
	}
}
