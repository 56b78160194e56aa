// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Audit levels
const (
	AuditLevelInfo    = "info"
	AuditLevelWarning = "warning"
	AuditLevelError   = "error"
)

// Audit categories
const (
	AuditCategoryAuth    = "auth"
	AuditCategoryContent = "content"
	AuditCategoryUser    = "user"
	AuditCategoryMail    = "mail"
	AuditCategorySystem  = "system"
)

// AuditEntry represents an audit log entry.
type AuditEntry struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	IPAddress string
	Metadata  string // JSON string
	CreatedAt time.Time
}
