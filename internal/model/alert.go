// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Alert severities.
const (
	AlertSeverityInfo    = "info"
	AlertSeverityWarning = "warning"
	AlertSeverityUrgent  = "urgent"
)

// ValidAlertSeverities contains all valid alert severities.
var ValidAlertSeverities = []string{
	AlertSeverityInfo,
	AlertSeverityWarning,
	AlertSeverityUrgent,
}

// IsValidAlertSeverity checks whether a severity tag is known.
func IsValidAlertSeverity(s string) bool {
	for _, v := range ValidAlertSeverities {
		if v == s {
			return true
		}
	}
	return false
}

// Alert represents an emergency banner shown on the public site while active.
type Alert struct {
	ID        int64
	Message   string
	Severity  string
	IsActive  bool
	CreatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
