// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Recurrence descriptors for church events.
const (
	RecurrenceNone          = "none"
	RecurrenceWeekly        = "weekly"
	RecurrenceMonthly       = "monthly"
	RecurrenceFirstSaturday = "first_saturday"
	RecurrenceThirdSaturday = "third_saturday"
	RecurrenceLastWednesday = "last_wednesday"
)

// ValidRecurrences contains all valid recurrence descriptors.
var ValidRecurrences = []string{
	RecurrenceNone,
	RecurrenceWeekly,
	RecurrenceMonthly,
	RecurrenceFirstSaturday,
	RecurrenceThirdSaturday,
	RecurrenceLastWednesday,
}

// IsValidRecurrence checks whether a recurrence descriptor is known.
func IsValidRecurrence(r string) bool {
	for _, v := range ValidRecurrences {
		if v == r {
			return true
		}
	}
	return false
}

// Event represents a church calendar event.
type Event struct {
	ID          int64
	Title       string
	Slug        string
	Description sql.NullString // markdown
	EventDate   time.Time      // date portion only
	StartTime   string         // "15:04"
	EndTime     sql.NullString
	Location    sql.NullString
	Recurrence  string
	IsFeatured  bool
	ImagePath   sql.NullString
	CreatedBy   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Recurring returns true if the event repeats.
func (e *Event) Recurring() bool {
	return e.Recurrence != "" && e.Recurrence != RecurrenceNone
}
