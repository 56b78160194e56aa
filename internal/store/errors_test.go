// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindInternal},
		{"no rows", sql.ErrNoRows, KindNotFound},
		{"wrapped no rows", fmt.Errorf("query: %w", sql.ErrNoRows), KindNotFound},
		{"unique constraint", errors.New("constraint failed: UNIQUE constraint failed: users.email"), KindConflict},
		{"foreign key constraint", errors.New("constraint failed: FOREIGN KEY constraint failed"), KindConflict},
		{"tagged error", E(KindValidation, "store.CreateEvent", errors.New("bad slug")), KindValidation},
		{"wrapped tagged error", fmt.Errorf("outer: %w", E(KindUnavailable, "cache.Get", nil)), KindUnavailable},
		{"plain error", errors.New("disk full"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(sql.ErrNoRows) {
		t.Error("sql.ErrNoRows should be not-found")
	}
	if IsNotFound(errors.New("boom")) {
		t.Error("plain error should not be not-found")
	}
	if IsNotFound(nil) {
		t.Error("nil should not be not-found")
	}
}

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("boom")
	err := E(KindConflict, "store.CreateUser", cause)

	if err.Error() != "store.CreateUser: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}

	bare := E(KindNotFound, "store.GetEventBySlug", nil)
	if bare.Error() != "store.GetEventBySlug: not_found" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindInternal, "internal"},
		{KindValidation, "validation"},
		{KindNotFound, "not_found"},
		{KindConflict, "conflict"},
		{KindPermission, "permission"},
		{KindUnavailable, "unavailable"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q; want %q", tt.kind, got, tt.want)
		}
	}
}
