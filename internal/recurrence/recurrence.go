// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

// Package recurrence computes upcoming dates for repeating church events.
package recurrence

import (
	"time"

	"github.com/gracechapel/churchsite/internal/model"
)

// Labels for display on the public calendar.
var labels = map[string]string{
	model.RecurrenceNone:          "",
	model.RecurrenceWeekly:        "Every week",
	model.RecurrenceMonthly:       "Every month",
	model.RecurrenceFirstSaturday: "First Saturday of the month",
	model.RecurrenceThirdSaturday: "Third Saturday of the month",
	model.RecurrenceLastWednesday: "Last Wednesday of the month",
}

// Label returns a human-readable description of a recurrence descriptor.
func Label(recurrence string) string {
	return labels[recurrence]
}

// NextOccurrence returns the next date an event occurs on or after the
// given day. For non-recurring events this is the event date itself, or
// the zero time if the date has passed. Time-of-day is not considered.
func NextOccurrence(e *model.Event, after time.Time) time.Time {
	after = truncateToDay(after)
	eventDate := truncateToDay(e.EventDate)

	if !e.Recurring() {
		if eventDate.Before(after) {
			return time.Time{}
		}
		return eventDate
	}

	// A recurring series does not start before its anchor date.
	if after.Before(eventDate) {
		after = eventDate
	}

	switch e.Recurrence {
	case model.RecurrenceWeekly:
		days := int(eventDate.Weekday()) - int(after.Weekday())
		if days < 0 {
			days += 7
		}
		return after.AddDate(0, 0, days)

	case model.RecurrenceMonthly:
		day := eventDate.Day()
		candidate := clampedMonthDay(after.Year(), after.Month(), day, after.Location())
		if candidate.Before(after) {
			next := after.AddDate(0, 1, 0)
			candidate = clampedMonthDay(next.Year(), next.Month(), day, after.Location())
		}
		return candidate

	case model.RecurrenceFirstSaturday:
		return nextNthWeekday(after, time.Saturday, 1)

	case model.RecurrenceThirdSaturday:
		return nextNthWeekday(after, time.Saturday, 3)

	case model.RecurrenceLastWednesday:
		return nextLastWeekday(after, time.Wednesday)

	default:
		return time.Time{}
	}
}

// nextNthWeekday finds the nth weekday of the month containing after,
// rolling into the next month when that date has already passed.
func nextNthWeekday(after time.Time, weekday time.Weekday, n int) time.Time {
	candidate := nthWeekdayOfMonth(after.Year(), after.Month(), weekday, n, after.Location())
	if candidate.Before(after) {
		next := time.Date(after.Year(), after.Month(), 1, 0, 0, 0, 0, after.Location()).AddDate(0, 1, 0)
		candidate = nthWeekdayOfMonth(next.Year(), next.Month(), weekday, n, after.Location())
	}
	return candidate
}

// nextLastWeekday finds the last weekday of the month containing after,
// rolling into the next month when that date has already passed.
func nextLastWeekday(after time.Time, weekday time.Weekday) time.Time {
	candidate := lastWeekdayOfMonth(after.Year(), after.Month(), weekday, after.Location())
	if candidate.Before(after) {
		next := time.Date(after.Year(), after.Month(), 1, 0, 0, 0, 0, after.Location()).AddDate(0, 1, 0)
		candidate = lastWeekdayOfMonth(next.Year(), next.Month(), weekday, after.Location())
	}
	return candidate
}

// nthWeekdayOfMonth returns the nth occurrence of weekday in the month.
func nthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	offset := int(weekday) - int(first.Weekday())
	if offset < 0 {
		offset += 7
	}
	return first.AddDate(0, 0, offset+(n-1)*7)
}

// lastWeekdayOfMonth returns the final occurrence of weekday in the month.
func lastWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, loc *time.Location) time.Time {
	last := time.Date(year, month, 1, 0, 0, 0, 0, loc).AddDate(0, 1, -1)
	offset := int(last.Weekday()) - int(weekday)
	if offset < 0 {
		offset += 7
	}
	return last.AddDate(0, 0, -offset)
}

// clampedMonthDay returns the given day of the month, clamped to the
// month's length so a day-31 anchor lands on Feb 28 rather than Mar 3.
func clampedMonthDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	lastDay := time.Date(year, month, 1, 0, 0, 0, 0, loc).AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
