// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a data-access failure so callers can branch on a
// discriminated tag instead of matching on error message text.
type Kind int

const (
	// KindInternal is an unclassified failure.
	KindInternal Kind = iota
	// KindValidation means the input was rejected before any write.
	KindValidation
	// KindNotFound means the requested row does not exist.
	KindNotFound
	// KindConflict means a uniqueness or foreign-key constraint was violated.
	KindConflict
	// KindPermission means the caller is not allowed to perform the operation.
	KindPermission
	// KindUnavailable means a required external service is not reachable or
	// not configured.
	KindUnavailable
)

// String returns a short tag for logging.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPermission:
		return "permission"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error wraps a cause with a Kind and an operation name.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an *Error. A nil cause is allowed for pure classification errors.
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf classifies any error. sql.ErrNoRows maps to KindNotFound and SQLite
// constraint violations map to KindConflict so call sites never need to
// inspect driver error strings themselves.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, sql.ErrNoRows) {
		return KindNotFound
	}
	// modernc.org/sqlite exposes constraint failures only through the error
	// text; classify them here, once, so handlers stay string-free.
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return KindConflict
	}
	return KindInternal
}

// IsNotFound reports whether err classifies as KindNotFound.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsConflict reports whether err classifies as KindConflict.
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}
