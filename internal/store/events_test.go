// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/gracechapel/churchsite/internal/model"
	"github.com/gracechapel/churchsite/internal/store"
)

func createTestEvent(t *testing.T, q *store.Queries, createdBy int64, arg store.CreateEventParams) model.Event {
	t.Helper()

	now := time.Now()
	arg.CreatedBy = createdBy
	arg.CreatedAt = now
	arg.UpdatedAt = now
	if arg.Recurrence == "" {
		arg.Recurrence = model.RecurrenceNone
	}
	if arg.StartTime == "" {
		arg.StartTime = "10:00"
	}

	ev, err := q.CreateEvent(context.Background(), arg)
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	return ev
}

func TestEventRoundTrip_OptionalFieldsAbsent(t *testing.T) {
	q, _ := testQueries(t)
	admin := createTestAdmin(t, q, "admin@example.com")

	ev := createTestEvent(t, q, admin.ID, store.CreateEventParams{
		Title:     "Prayer Meeting",
		Slug:      "prayer-meeting",
		EventDate: time.Date(2026, time.October, 7, 0, 0, 0, 0, time.UTC),
		StartTime: "19:00",
	})

	if ev.Description.Valid {
		t.Error("absent description should stay NULL")
	}
	if ev.EndTime.Valid {
		t.Error("absent end time should stay NULL")
	}
	if ev.Location.Valid {
		t.Error("absent location should stay NULL")
	}
	if ev.ImagePath.Valid {
		t.Error("absent image should stay NULL")
	}

	got, err := q.GetEventBySlug(context.Background(), "prayer-meeting")
	if err != nil {
		t.Fatalf("GetEventBySlug: %v", err)
	}
	if got.ID != ev.ID || got.Title != "Prayer Meeting" || got.StartTime != "19:00" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestEventRoundTrip_OptionalFieldsPresent(t *testing.T) {
	q, _ := testQueries(t)
	admin := createTestAdmin(t, q, "admin@example.com")

	ev := createTestEvent(t, q, admin.ID, store.CreateEventParams{
		Title:       "Harvest Dinner",
		Slug:        "harvest-dinner",
		Description: sql.NullString{String: "Bring a dish to **share**.", Valid: true},
		EventDate:   time.Date(2026, time.November, 20, 0, 0, 0, 0, time.UTC),
		StartTime:   "18:00",
		EndTime:     sql.NullString{String: "20:30", Valid: true},
		Location:    sql.NullString{String: "Fellowship Hall", Valid: true},
		IsFeatured:  true,
	})

	got, err := q.GetEventByID(context.Background(), ev.ID)
	if err != nil {
		t.Fatalf("GetEventByID: %v", err)
	}
	if got.EndTime.String != "20:30" || got.Location.String != "Fellowship Hall" {
		t.Errorf("optional fields lost: %+v", got)
	}
	if !got.IsFeatured {
		t.Error("featured flag lost")
	}
}

func TestUpdateEvent_ColumnsChange(t *testing.T) {
	q, _ := testQueries(t)
	admin := createTestAdmin(t, q, "admin@example.com")
	ctx := context.Background()

	ev := createTestEvent(t, q, admin.ID, store.CreateEventParams{
		Title:     "Old Title",
		Slug:      "old-title",
		EventDate: time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
	})

	err := q.UpdateEvent(ctx, store.UpdateEventParams{
		Title:      "New Title",
		Slug:       "new-title",
		EventDate:  ev.EventDate,
		StartTime:  ev.StartTime,
		Recurrence: model.RecurrenceWeekly,
		Location:   sql.NullString{String: "Chapel", Valid: true},
		UpdatedAt:  time.Now(),
		ID:         ev.ID,
	})
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}

	got, err := q.GetEventByID(ctx, ev.ID)
	if err != nil {
		t.Fatalf("GetEventByID: %v", err)
	}
	if got.Title != "New Title" || got.Slug != "new-title" {
		t.Errorf("update not applied: %+v", got)
	}
	if !got.Recurring() {
		t.Error("recurrence not applied")
	}
	if _, err := q.GetEventBySlug(ctx, "old-title"); !store.IsNotFound(err) {
		t.Error("old slug should no longer resolve")
	}
}

func TestDeleteEvent_RemovedFromLists(t *testing.T) {
	q, _ := testQueries(t)
	admin := createTestAdmin(t, q, "admin@example.com")
	ctx := context.Background()

	ev := createTestEvent(t, q, admin.ID, store.CreateEventParams{
		Title:     "Gone Soon",
		Slug:      "gone-soon",
		EventDate: time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
	})

	if err := q.DeleteEvent(ctx, ev.ID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}

	if _, err := q.GetEventByID(ctx, ev.ID); !store.IsNotFound(err) {
		t.Fatalf("deleted event should be gone, got %v", err)
	}

	all, err := q.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	for _, e := range all {
		if e.ID == ev.ID {
			t.Error("deleted event still listed")
		}
	}
}

func TestListUpcomingEvents_KeepsRecurring(t *testing.T) {
	q, _ := testQueries(t)
	admin := createTestAdmin(t, q, "admin@example.com")
	ctx := context.Background()

	createTestEvent(t, q, admin.ID, store.CreateEventParams{
		Title:     "Past One-Off",
		Slug:      "past-one-off",
		EventDate: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	createTestEvent(t, q, admin.ID, store.CreateEventParams{
		Title:      "Old Weekly Series",
		Slug:       "old-weekly-series",
		EventDate:  time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		Recurrence: model.RecurrenceWeekly,
	})
	createTestEvent(t, q, admin.ID, store.CreateEventParams{
		Title:     "Future One-Off",
		Slug:      "future-one-off",
		EventDate: time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC),
	})

	upcoming, err := q.ListUpcomingEvents(ctx, store.ListUpcomingEventsParams{
		From:  time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		Limit: 50,
	})
	if err != nil {
		t.Fatalf("ListUpcomingEvents: %v", err)
	}

	slugs := make(map[string]bool)
	for _, e := range upcoming {
		slugs[e.Slug] = true
	}
	if slugs["past-one-off"] {
		t.Error("past one-off event should be excluded")
	}
	if !slugs["old-weekly-series"] {
		t.Error("recurring series should always be included")
	}
	if !slugs["future-one-off"] {
		t.Error("future one-off event should be included")
	}
}

func TestListFeaturedEvents(t *testing.T) {
	q, _ := testQueries(t)
	admin := createTestAdmin(t, q, "admin@example.com")
	ctx := context.Background()

	createTestEvent(t, q, admin.ID, store.CreateEventParams{
		Title:     "Plain",
		Slug:      "plain",
		EventDate: time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
	})
	createTestEvent(t, q, admin.ID, store.CreateEventParams{
		Title:      "Featured",
		Slug:       "featured",
		EventDate:  time.Date(2026, time.October, 2, 0, 0, 0, 0, time.UTC),
		IsFeatured: true,
	})

	featured, err := q.ListFeaturedEvents(ctx, 3)
	if err != nil {
		t.Fatalf("ListFeaturedEvents: %v", err)
	}
	if len(featured) != 1 || featured[0].Slug != "featured" {
		t.Errorf("featured list = %+v", featured)
	}
}

func TestCountEventsBySlug(t *testing.T) {
	q, _ := testQueries(t)
	admin := createTestAdmin(t, q, "admin@example.com")
	ctx := context.Background()

	ev := createTestEvent(t, q, admin.ID, store.CreateEventParams{
		Title:     "Picnic",
		Slug:      "picnic",
		EventDate: time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
	})

	count, err := q.CountEventsBySlug(ctx, "picnic", 0)
	if err != nil {
		t.Fatalf("CountEventsBySlug: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d; want 1", count)
	}

	// Excluding the event's own ID makes the slug available for updates.
	count, err = q.CountEventsBySlug(ctx, "picnic", ev.ID)
	if err != nil {
		t.Fatalf("CountEventsBySlug exclude: %v", err)
	}
	if count != 0 {
		t.Errorf("count excluding self = %d; want 0", count)
	}
}

func TestCreateEvent_DuplicateSlugConflicts(t *testing.T) {
	q, _ := testQueries(t)
	admin := createTestAdmin(t, q, "admin@example.com")

	createTestEvent(t, q, admin.ID, store.CreateEventParams{
		Title:     "First",
		Slug:      "same-slug",
		EventDate: time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
	})

	now := time.Now()
	_, err := q.CreateEvent(context.Background(), store.CreateEventParams{
		Title:      "Second",
		Slug:       "same-slug",
		EventDate:  time.Date(2026, time.October, 2, 0, 0, 0, 0, time.UTC),
		StartTime:  "10:00",
		Recurrence: model.RecurrenceNone,
		CreatedBy:  admin.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if !store.IsConflict(err) {
		t.Fatalf("expected slug conflict, got %v", err)
	}
}
