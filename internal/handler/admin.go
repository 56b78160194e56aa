// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/gracechapel/churchsite/internal/analytics"
	"github.com/gracechapel/churchsite/internal/middleware"
	"github.com/gracechapel/churchsite/internal/model"
	"github.com/gracechapel/churchsite/internal/render"
	"github.com/gracechapel/churchsite/internal/service"
	"github.com/gracechapel/churchsite/internal/store"
)

// AdminHandler serves the dashboard, audit log, and site settings.
type AdminHandler struct {
	queries   *store.Queries
	renderer  *render.Renderer
	storage   *service.StorageService
	auditor   *service.AuditService
	analytics *analytics.Client
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer, storage *service.StorageService, ac *analytics.Client) *AdminHandler {
	return &AdminHandler{
		queries:   store.New(db),
		renderer:  renderer,
		storage:   storage,
		auditor:   service.NewAuditService(db),
		analytics: ac,
	}
}

// Dashboard renders the admin landing page. GET /admin
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := h.queries.GetDashboardCounts(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load dashboard counts", "error", err)
		return
	}

	upcoming, err := h.queries.ListUpcomingEvents(r.Context(), store.ListUpcomingEventsParams{
		From:  time.Now(),
		Limit: 5,
	})
	if err != nil {
		logAndInternalError(w, "failed to load upcoming events", "error", err)
		return
	}

	data := map[string]any{
		"Counts":           counts,
		"UpcomingEvents":   upcoming,
		"AnalyticsEnabled": h.analytics.Enabled(),
	}

	if err := h.renderer.Render(w, r, "admin/dashboard", render.TemplateData{
		Title: "Dashboard",
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render dashboard", "error", err)
	}
}

// Visitors returns the current month's visitor stats as JSON, fetched
// lazily so a slow analytics backend never blocks the dashboard render.
// GET /admin/api/visitors
func (h *AdminHandler) Visitors(w http.ResponseWriter, r *http.Request) {
	if !h.analytics.Enabled() {
		writeJSONError(w, http.StatusNotFound, "analytics not configured")
		return
	}

	stats, err := h.analytics.CurrentMonth(r.Context())
	if err != nil {
		slog.Error("analytics fetch failed", "error", err)
		writeJSONError(w, http.StatusBadGateway, "analytics unavailable")
		return
	}

	writeJSONSuccess(w, map[string]any{
		"visitors":  stats.Visitors,
		"pageviews": stats.Pageviews,
	})
}

// AuditLog renders the paginated audit trail. GET /admin/audit
func (h *AdminHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	total, err := h.queries.CountAuditEntries(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to count audit entries", "error", err)
		return
	}

	entries, err := h.queries.ListAuditEntries(r.Context(), store.ListAuditEntriesParams{
		Limit:  int64(defaultPerPage),
		Offset: int64((page - 1) * defaultPerPage),
	})
	if err != nil {
		logAndInternalError(w, "failed to list audit entries", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/audit", render.TemplateData{
		Title: "Audit Log",
		Data: map[string]any{
			"Entries":    entries,
			"Pagination": BuildAdminPagination(page, total, defaultPerPage, redirectAdmin+RouteAudit),
		},
	}); err != nil {
		logAndInternalError(w, "render audit log", "error", err)
	}
}

// Settings renders the site settings page. GET /admin/settings
func (h *AdminHandler) Settings(w http.ResponseWriter, r *http.Request) {
	heroImage, err := h.queries.GetSetting(r.Context(), store.SettingHeroImage)
	if err != nil && !store.IsNotFound(err) {
		logAndInternalError(w, "failed to load settings", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/settings", render.TemplateData{
		Title: "Site Settings",
		Data:  map[string]any{"HeroImage": heroImage},
	}); err != nil {
		logAndInternalError(w, "render settings", "error", err)
	}
}

// UploadHero replaces the homepage hero image. POST /admin/settings/hero
func (h *AdminHandler) UploadHero(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		flashError(w, r, h.renderer, redirectAdminSettings, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminSettings, "Choose an image to upload")
		return
	}
	defer file.Close()

	path, err := h.storage.UploadHeroImage(r.Context(), file, header)
	if err != nil {
		slog.Error("hero image upload failed", "error", err)
		flashError(w, r, h.renderer, redirectAdminSettings, "The image could not be processed. Use a JPEG, PNG, GIF, or WebP under 10 MB.")
		return
	}

	_ = h.auditor.LogContent(r.Context(), model.AuditLevelInfo, "Hero image replaced", middleware.GetUserIDPtr(r), middleware.GetClientIP(r), map[string]any{"path": path})
	flashSuccess(w, r, h.renderer, redirectAdminSettings, "Hero image updated")
}
