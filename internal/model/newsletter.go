// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Newsletter represents a monthly newsletter with an uploaded PDF.
type Newsletter struct {
	ID          int64
	Title       string
	Month       int64 // 1-12
	Year        int64
	PdfPath     string
	Description sql.NullString
	IsFeatured  bool
	CreatedBy   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MonthName returns the English month name for display.
func (n *Newsletter) MonthName() string {
	if n.Month < 1 || n.Month > 12 {
		return ""
	}
	return time.Month(n.Month).String()
}
