// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gracechapel/churchsite/internal/cache"
	"github.com/gracechapel/churchsite/internal/middleware"
	"github.com/gracechapel/churchsite/internal/model"
	"github.com/gracechapel/churchsite/internal/render"
	"github.com/gracechapel/churchsite/internal/service"
	"github.com/gracechapel/churchsite/internal/store"
)

// AlertsHandler manages site-wide announcement banners.
type AlertsHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	auditor  *service.AuditService
	cache    cache.Cacher
}

// NewAlertsHandler creates a new AlertsHandler.
func NewAlertsHandler(db *sql.DB, renderer *render.Renderer, c cache.Cacher) *AlertsHandler {
	return &AlertsHandler{
		queries:  store.New(db),
		renderer: renderer,
		auditor:  service.NewAuditService(db),
		cache:    c,
	}
}

// List renders all alerts, newest first. GET /admin/alerts
func (h *AlertsHandler) List(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.queries.ListAlerts(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list alerts", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/alerts", render.TemplateData{
		Title: "Alerts",
		Data: map[string]any{
			"AllAlerts":  alerts,
			"Severities": model.ValidAlertSeverities,
		},
	}); err != nil {
		logAndInternalError(w, "render alerts list", "error", err)
	}
}

// Create adds an alert. POST /admin/alerts
func (h *AlertsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminAlerts) {
		return
	}

	message := strings.TrimSpace(r.FormValue("message"))
	severity := r.FormValue("severity")
	isActive := r.FormValue("is_active") == "on"

	if message == "" {
		flashError(w, r, h.renderer, redirectAdminAlerts, "Alert message is required")
		return
	}
	if !model.IsValidAlertSeverity(severity) {
		flashError(w, r, h.renderer, redirectAdminAlerts, "Unknown alert severity")
		return
	}

	now := time.Now()
	alert, err := h.queries.CreateAlert(r.Context(), store.CreateAlertParams{
		Message:   message,
		Severity:  severity,
		IsActive:  isActive,
		CreatedBy: middleware.GetUserID(r),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create alert", "error", err)
		return
	}

	h.invalidate(r.Context())
	_ = h.auditor.LogContent(r.Context(), model.AuditLevelInfo, "Alert created", middleware.GetUserIDPtr(r), middleware.GetClientIP(r), map[string]any{"alert_id": alert.ID, "severity": severity})
	flashSuccess(w, r, h.renderer, redirectAdminAlerts, "Alert created")
}

// Update edits an alert. POST /admin/alerts/{id}
func (h *AlertsHandler) Update(w http.ResponseWriter, r *http.Request) {
	alert, ok := h.requireAlert(w, r)
	if !ok {
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminAlerts) {
		return
	}

	message := strings.TrimSpace(r.FormValue("message"))
	severity := r.FormValue("severity")
	isActive := r.FormValue("is_active") == "on"

	if message == "" {
		flashError(w, r, h.renderer, redirectAdminAlerts, "Alert message is required")
		return
	}
	if !model.IsValidAlertSeverity(severity) {
		flashError(w, r, h.renderer, redirectAdminAlerts, "Unknown alert severity")
		return
	}

	if err := h.queries.UpdateAlert(r.Context(), store.UpdateAlertParams{
		Message:   message,
		Severity:  severity,
		IsActive:  isActive,
		UpdatedAt: time.Now(),
		ID:        alert.ID,
	}); err != nil {
		logAndInternalError(w, "failed to update alert", "error", err, "alert_id", alert.ID)
		return
	}

	h.invalidate(r.Context())
	_ = h.auditor.LogContent(r.Context(), model.AuditLevelInfo, "Alert updated", middleware.GetUserIDPtr(r), middleware.GetClientIP(r), map[string]any{"alert_id": alert.ID})
	flashSuccess(w, r, h.renderer, redirectAdminAlerts, "Alert updated")
}

// Toggle flips an alert's active state. POST /admin/alerts/{id}/toggle
func (h *AlertsHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	alert, ok := h.requireAlert(w, r)
	if !ok {
		return
	}

	if err := h.queries.ToggleAlert(r.Context(), store.ToggleAlertParams{
		UpdatedAt: time.Now(),
		ID:        alert.ID,
	}); err != nil {
		logAndInternalError(w, "failed to toggle alert", "error", err, "alert_id", alert.ID)
		return
	}

	h.invalidate(r.Context())
	state := "activated"
	if alert.IsActive {
		state = "deactivated"
	}
	_ = h.auditor.LogContent(r.Context(), model.AuditLevelInfo, "Alert "+state, middleware.GetUserIDPtr(r), middleware.GetClientIP(r), map[string]any{"alert_id": alert.ID})
	flashSuccess(w, r, h.renderer, redirectAdminAlerts, "Alert "+state)
}

// Delete removes an alert. POST /admin/alerts/{id}/delete
func (h *AlertsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	alert, ok := h.requireAlert(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeleteAlert(r.Context(), alert.ID); err != nil {
		logAndInternalError(w, "failed to delete alert", "error", err, "alert_id", alert.ID)
		return
	}

	h.invalidate(r.Context())
	_ = h.auditor.LogContent(r.Context(), model.AuditLevelInfo, "Alert deleted", middleware.GetUserIDPtr(r), middleware.GetClientIP(r), map[string]any{"alert_id": alert.ID})
	flashSuccess(w, r, h.renderer, redirectAdminAlerts, "Alert deleted")
}

// invalidate drops the cached active-alert list so the public site picks up
// the change immediately.
func (h *AlertsHandler) invalidate(ctx context.Context) {
	if h.cache != nil {
		_ = h.cache.Delete(ctx, cache.KeyActiveAlerts)
	}
}

func (h *AlertsHandler) requireAlert(w http.ResponseWriter, r *http.Request) (model.Alert, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminAlerts, "Invalid alert ID")
		return model.Alert{}, false
	}
	return requireEntityWithRedirect(w, r, h.renderer, redirectAdminAlerts, "alert",
		id, func(id int64) (model.Alert, error) {
			return h.queries.GetAlertByID(r.Context(), id)
		})
}
