// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gracechapel/churchsite/internal/cache"
	"github.com/gracechapel/churchsite/internal/model"
	"github.com/gracechapel/churchsite/internal/store"
)

func newFrontendHandler(t *testing.T) (*FrontendHandler, *sql.DB, *chi.Mux) {
	t.Helper()

	db := testDB(t)
	sm := testSessionManager(t)
	h := NewFrontendHandler(db, testRenderer(t, sm), nil, "https://gracechapel.example.com")

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Get("/", h.Home)
	r.Get("/events", h.Events)
	r.Get("/events/{slug}", h.Event)
	r.Get("/gallery", h.Gallery)
	r.Get("/newsletters", h.Newsletters)
	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/robots.txt", h.Robots)
	r.NotFound(h.NotFound)

	return h, db, r
}

func createFrontendEvent(t *testing.T, db *sql.DB, createdBy int64, title, slug string, date time.Time, rec string) model.Event {
	t.Helper()

	now := time.Now()
	ev, err := store.New(db).CreateEvent(context.Background(), store.CreateEventParams{
		Title:      title,
		Slug:       slug,
		EventDate:  date,
		StartTime:  "10:00",
		Recurrence: rec,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	return ev
}

func TestFrontendHome(t *testing.T) {
	_, db, r := newFrontendHandler(t)
	admin := createAdminUser(t, db, "pastor@example.com", "changeme")
	createFrontendEvent(t, db, admin.ID, "Sunday Worship", "sunday-worship",
		time.Now().AddDate(0, 0, 7), model.RecurrenceWeekly)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, "Grace Chapel") {
		t.Error("homepage should carry the site name")
	}
}

func TestFrontendEvent(t *testing.T) {
	_, db, r := newFrontendHandler(t)
	admin := createAdminUser(t, db, "pastor@example.com", "changeme")
	createFrontendEvent(t, db, admin.ID, "Harvest Dinner", "harvest-dinner",
		time.Now().AddDate(0, 1, 0), model.RecurrenceNone)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/harvest-dinner", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Harvest Dinner") {
		t.Error("event page should show the event title")
	}
}

func TestFrontendEvent_UnknownSlug(t *testing.T) {
	_, _, r := newFrontendHandler(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/no-such-event", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", w.Code)
	}
}

func TestFrontendNotFound(t *testing.T) {
	_, _, r := newFrontendHandler(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/no/such/page", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", w.Code)
	}
}

func TestFrontendSitemap(t *testing.T) {
	_, db, r := newFrontendHandler(t)
	admin := createAdminUser(t, db, "pastor@example.com", "changeme")
	createFrontendEvent(t, db, admin.ID, "Harvest Dinner", "harvest-dinner",
		time.Now().AddDate(0, 1, 0), model.RecurrenceNone)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "https://gracechapel.example.com/events/harvest-dinner") {
		t.Error("sitemap should list the event page")
	}
}

func TestFrontendRobots(t *testing.T) {
	_, _, r := newFrontendHandler(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Disallow: /admin") {
		t.Error("robots.txt should block the admin area")
	}
	if !strings.Contains(body, "Sitemap: https://gracechapel.example.com/sitemap.xml") {
		t.Error("robots.txt should reference the sitemap")
	}
}

func TestActiveAlerts_CachesAcrossRequests(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	c := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	h := NewFrontendHandler(db, testRenderer(t, sm), c, "https://gracechapel.example.com")

	admin := createAdminUser(t, db, "pastor@example.com", "changeme")
	now := time.Now()
	alert, err := store.New(db).CreateAlert(context.Background(), store.CreateAlertParams{
		Message:   "Service moved to the fellowship hall",
		Severity:  model.AlertSeverityInfo,
		IsActive:  true,
		CreatedBy: admin.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateAlert: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	alerts := h.activeAlerts(req)
	if len(alerts) != 1 || alerts[0].Message != alert.Message {
		t.Fatalf("active alerts = %+v", alerts)
	}

	// Deactivate in the database. The cached copy still serves until the
	// alert handlers invalidate the key on write.
	if err := store.New(db).ToggleAlert(context.Background(), store.ToggleAlertParams{
		ID:        alert.ID,
		UpdatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("ToggleAlert: %v", err)
	}

	if got := h.activeAlerts(req); len(got) != 1 {
		t.Errorf("cached alerts = %d entries; want 1", len(got))
	}

	if err := c.Delete(context.Background(), cache.KeyActiveAlerts); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := h.activeAlerts(req); len(got) != 0 {
		t.Errorf("after invalidation alerts = %d entries; want 0", len(got))
	}
}

func TestUpcomingOccurrences(t *testing.T) {
	now := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)

	events := []model.Event{
		{ID: 1, Title: "Past Potluck", EventDate: now.AddDate(0, 0, -3), StartTime: "18:00", Recurrence: model.RecurrenceNone},
		{ID: 2, Title: "Weekly Study", EventDate: now.AddDate(0, 0, -30), StartTime: "19:00", Recurrence: model.RecurrenceWeekly},
		{ID: 3, Title: "Concert", EventDate: now.AddDate(0, 0, 2), StartTime: "17:00", Recurrence: model.RecurrenceNone},
	}

	got := upcomingOccurrences(events, now, 10)
	if len(got) != 2 {
		t.Fatalf("occurrences = %d; want 2 (past one-off dropped)", len(got))
	}
	for _, occ := range got {
		if occ.Event.ID == 1 {
			t.Error("past non-recurring event should be dropped")
		}
		if occ.Next.Before(now.Truncate(24 * time.Hour)) {
			t.Errorf("occurrence %q in the past: %v", occ.Event.Title, occ.Next)
		}
	}

	if got := upcomingOccurrences(events, now, 1); len(got) != 1 {
		t.Errorf("limit not applied, got %d", len(got))
	}
}
