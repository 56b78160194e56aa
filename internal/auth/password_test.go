// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty hash")
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}
}

func TestCheckPassword_Correct(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	valid, err := CheckPassword("changeme", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if !valid {
		t.Fatal("Correct password was rejected")
	}
}

func TestCheckPassword_Wrong(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	valid, err := CheckPassword("wrongpassword", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if valid {
		t.Fatal("Wrong password was accepted")
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	if _, err := CheckPassword("changeme", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestCheckPassword_EmptyStoredHash(t *testing.T) {
	// Invited accounts store an empty hash until the invite is accepted.
	valid, err := CheckPassword("anything", "")
	if err == nil && valid {
		t.Fatal("empty stored hash must never validate")
	}
}

func TestNeedsRehash(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if NeedsRehash(hash) {
		t.Error("freshly generated hash should not need a rehash")
	}

	// Hash produced with weaker parameters than the current defaults.
	weak := "$argon2id$v=19$m=16384,t=1,p=1$mucMvOaS6lZ2LWNS1OEFKw$UYEWv8cvCOO6l2zGeqv3JPVe1nyy0x9GXBfYEuDM544"
	if !NeedsRehash(weak) {
		t.Error("hash with outdated parameters should need a rehash")
	}

	if !NeedsRehash("garbage") {
		t.Error("unparseable hash should need a rehash")
	}
}

func TestNewInviteToken(t *testing.T) {
	seen := make(map[string]bool)
	for range 10 {
		token, err := NewInviteToken()
		if err != nil {
			t.Fatalf("NewInviteToken error: %v", err)
		}
		if token == "" {
			t.Fatal("NewInviteToken returned empty token")
		}
		if strings.ContainsAny(token, "+/=") {
			t.Errorf("token %q is not URL-safe", token)
		}
		if seen[token] {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = true
	}
}
