// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application: admin users, church events, gallery images, newsletters,
// emergency alerts, and audit log entries.
package model

import (
	"database/sql"
	"strings"
	"time"
)

// RoleAdmin is the only role with back-office access.
const RoleAdmin = "admin"

// User represents an admin account.
type User struct {
	ID           int64          `json:"id"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"` // Never expose in JSON
	Role         string         `json:"role"`
	Name         string         `json:"name"`
	InviteToken  sql.NullString `json:"-"`
	InviteSentAt sql.NullTime   `json:"invite_sent_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	LastLoginAt  sql.NullTime   `json:"last_login_at,omitempty"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// InvitePending returns true if the account was created by invite and has
// not set a password yet.
func (u *User) InvitePending() bool {
	return u.PasswordHash == "" && u.InviteToken.Valid
}

// NormalizeEmail lowercases and trims an email address. Emails are unique
// case-insensitively, so every lookup and insert goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
