// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gracechapel/churchsite/internal/cache"
	"github.com/gracechapel/churchsite/internal/model"
	"github.com/gracechapel/churchsite/internal/recurrence"
	"github.com/gracechapel/churchsite/internal/render"
	"github.com/gracechapel/churchsite/internal/seo"
	"github.com/gracechapel/churchsite/internal/store"
)

// Visitor-facing list sizes.
const (
	homeFeaturedEvents = 3
	upcomingEventLimit = 50
)

// FrontendHandler serves the public site.
type FrontendHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	cache    cache.Cacher
	siteURL  string
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(db *sql.DB, renderer *render.Renderer, c cache.Cacher, siteURL string) *FrontendHandler {
	return &FrontendHandler{
		queries:  store.New(db),
		renderer: renderer,
		cache:    c,
		siteURL:  siteURL,
	}
}

// EventOccurrence pairs an event with its next calendar date.
type EventOccurrence struct {
	Event model.Event
	Next  time.Time
}

// Home renders the homepage. GET /
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	heroImage, err := h.queries.GetSetting(r.Context(), store.SettingHeroImage)
	if err != nil && !store.IsNotFound(err) {
		logAndInternalError(w, "failed to load hero image setting", "error", err)
		return
	}

	featured, err := h.queries.ListFeaturedEvents(r.Context(), homeFeaturedEvents)
	if err != nil {
		logAndInternalError(w, "failed to load featured events", "error", err)
		return
	}
	occurrences := upcomingOccurrences(featured, time.Now(), homeFeaturedEvents)

	var newsletter *model.Newsletter
	if n, err := h.queries.GetFeaturedNewsletter(r.Context()); err == nil {
		newsletter = &n
	} else if !store.IsNotFound(err) {
		logAndInternalError(w, "failed to load featured newsletter", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "public/home", render.TemplateData{
		Title:  "Welcome",
		Alerts: h.activeAlerts(r),
		Data: map[string]any{
			"HeroImage":      heroImage,
			"FeaturedEvents": occurrences,
			"Newsletter":     newsletter,
		},
	}); err != nil {
		logAndInternalError(w, "render home", "error", err)
	}
}

// Events renders the upcoming events listing. GET /events
func (h *FrontendHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.queries.ListUpcomingEvents(r.Context(), store.ListUpcomingEventsParams{
		From:  time.Now(),
		Limit: upcomingEventLimit,
	})
	if err != nil {
		logAndInternalError(w, "failed to load events", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "public/events", render.TemplateData{
		Title:  "Events",
		Alerts: h.activeAlerts(r),
		Data: map[string]any{
			"Events": upcomingOccurrences(events, time.Now(), upcomingEventLimit),
		},
	}); err != nil {
		logAndInternalError(w, "render events", "error", err)
	}
}

// Event renders one event's detail page. GET /events/{slug}
func (h *FrontendHandler) Event(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	event, err := h.queries.GetEventBySlug(r.Context(), slug)
	if err != nil {
		if store.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to load event", "error", err, "slug", slug)
		return
	}

	next := recurrence.NextOccurrence(&event, time.Now())

	if err := h.renderer.Render(w, r, "public/event", render.TemplateData{
		Title:  event.Title,
		Alerts: h.activeAlerts(r),
		Data: map[string]any{
			"Event": event,
			"Next":  next,
		},
	}); err != nil {
		logAndInternalError(w, "render event", "error", err)
	}
}

// Gallery renders the photo gallery, optionally filtered by category.
// GET /gallery
func (h *FrontendHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	var (
		images []model.GalleryImage
		err    error
	)
	if category != "" {
		images, err = h.queries.ListGalleryImagesByCategory(r.Context(), category)
	} else {
		images, err = h.queries.ListGalleryImages(r.Context())
	}
	if err != nil {
		logAndInternalError(w, "failed to load gallery", "error", err)
		return
	}

	categories, err := h.queries.ListGalleryCategories(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load gallery categories", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "public/gallery", render.TemplateData{
		Title:  "Photo Gallery",
		Alerts: h.activeAlerts(r),
		Data: map[string]any{
			"Images":     images,
			"Categories": categories,
			"Current":    category,
		},
	}); err != nil {
		logAndInternalError(w, "render gallery", "error", err)
	}
}

// Newsletters renders the newsletter archive. GET /newsletters
func (h *FrontendHandler) Newsletters(w http.ResponseWriter, r *http.Request) {
	newsletters, err := h.queries.ListNewsletters(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load newsletters", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "public/newsletters", render.TemplateData{
		Title:  "Newsletters",
		Alerts: h.activeAlerts(r),
		Data:   map[string]any{"Newsletters": newsletters},
	}); err != nil {
		logAndInternalError(w, "render newsletters", "error", err)
	}
}

// Sitemap serves sitemap.xml. GET /sitemap.xml
func (h *FrontendHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	events, err := h.queries.ListEvents(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load events for sitemap", "error", err)
		return
	}

	sitemapEvents := make([]seo.SitemapEvent, 0, len(events))
	for _, e := range events {
		sitemapEvents = append(sitemapEvents, seo.SitemapEvent{
			Slug:      e.Slug,
			UpdatedAt: e.UpdatedAt,
		})
	}

	xml, err := seo.GenerateSitemap(h.siteURL, sitemapEvents)
	if err != nil {
		logAndInternalError(w, "failed to build sitemap", "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(xml)
}

// Robots serves robots.txt. GET /robots.txt
func (h *FrontendHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.GenerateRobots(h.siteURL, false)))
}

// NotFound renders the branded 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	if err := h.renderer.Render(w, r, "public/404", render.TemplateData{
		Title:  "Page Not Found",
		Alerts: h.activeAlerts(r),
	}); err != nil {
		slog.Error("render 404", "error", err)
		http.Error(w, "Page not found", http.StatusNotFound)
	}
}

// activeAlerts returns the active alert banners, cached briefly so every
// public page view doesn't hit the database.
func (h *FrontendHandler) activeAlerts(r *http.Request) []model.Alert {
	ctx := r.Context()

	if h.cache != nil {
		if data, err := h.cache.Get(ctx, cache.KeyActiveAlerts); err == nil {
			var alerts []model.Alert
			if err := json.Unmarshal(data, &alerts); err == nil {
				return alerts
			}
		}
	}

	alerts, err := h.queries.ListActiveAlerts(ctx)
	if err != nil {
		slog.Error("failed to load active alerts", "error", err)
		return nil
	}

	if h.cache != nil {
		if data, err := json.Marshal(alerts); err == nil {
			_ = h.cache.Set(ctx, cache.KeyActiveAlerts, data, 0)
		}
	}
	return alerts
}

// upcomingOccurrences computes each event's next date, drops past
// non-recurring events, and sorts soonest first.
func upcomingOccurrences(events []model.Event, now time.Time, limit int) []EventOccurrence {
	occurrences := make([]EventOccurrence, 0, len(events))
	for _, e := range events {
		next := recurrence.NextOccurrence(&e, now)
		if next.IsZero() {
			continue
		}
		occurrences = append(occurrences, EventOccurrence{Event: e, Next: next})
	}

	sort.Slice(occurrences, func(i, j int) bool {
		if occurrences[i].Next.Equal(occurrences[j].Next) {
			return occurrences[i].Event.StartTime < occurrences[j].Event.StartTime
		}
		return occurrences[i].Next.Before(occurrences[j].Next)
	})

	if len(occurrences) > limit {
		occurrences = occurrences[:limit]
	}
	return occurrences
}
