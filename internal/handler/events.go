// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gracechapel/churchsite/internal/middleware"
	"github.com/gracechapel/churchsite/internal/model"
	"github.com/gracechapel/churchsite/internal/render"
	"github.com/gracechapel/churchsite/internal/service"
	"github.com/gracechapel/churchsite/internal/store"
	"github.com/gracechapel/churchsite/internal/util"
)

// maxFormMemory caps the in-memory portion of multipart form parsing.
const maxFormMemory = 32 << 20

// EventsHandler manages calendar events in the admin area.
type EventsHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	storage  *service.StorageService
	auditor  *service.AuditService
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(db *sql.DB, renderer *render.Renderer, storage *service.StorageService) *EventsHandler {
	return &EventsHandler{
		queries:  store.New(db),
		renderer: renderer,
		storage:  storage,
		auditor:  service.NewAuditService(db),
	}
}

// List renders all events, soonest first. GET /admin/events
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.queries.ListEvents(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list events", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/events", render.TemplateData{
		Title: "Events",
		Data:  map[string]any{"Events": events},
	}); err != nil {
		logAndInternalError(w, "render events list", "error", err)
	}
}

// NewForm renders the new event form. GET /admin/events/new
func (h *EventsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "admin/event_form", render.TemplateData{
		Title: "New Event",
		Data: map[string]any{
			"IsNew":       true,
			"Recurrences": model.ValidRecurrences,
		},
	}); err != nil {
		logAndInternalError(w, "render event form", "error", err)
	}
}

// eventForm holds a parsed and validated event submission.
type eventForm struct {
	title       string
	slug        string
	description string
	eventDate   time.Time
	startTime   string
	endTime     string
	location    string
	recurrence  string
	isFeatured  bool
}

// parseEventForm validates the submitted fields. Returns a user-facing
// error message when the submission is unusable.
func parseEventForm(r *http.Request) (eventForm, string) {
	var f eventForm

	f.title = strings.TrimSpace(r.FormValue("title"))
	if f.title == "" {
		return f, "Title is required"
	}

	f.slug = strings.TrimSpace(r.FormValue("slug"))
	if f.slug == "" {
		f.slug = util.Slugify(f.title)
	}

	dateStr := r.FormValue("event_date")
	eventDate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return f, "A valid event date is required"
	}
	f.eventDate = eventDate

	f.startTime = strings.TrimSpace(r.FormValue("start_time"))
	if _, err := time.Parse("15:04", f.startTime); err != nil {
		return f, "A valid start time is required"
	}

	f.endTime = strings.TrimSpace(r.FormValue("end_time"))
	if f.endTime != "" {
		if _, err := time.Parse("15:04", f.endTime); err != nil {
			return f, "End time must be in HH:MM format"
		}
	}

	f.recurrence = r.FormValue("recurrence")
	if f.recurrence == "" {
		f.recurrence = model.RecurrenceNone
	}
	if !model.IsValidRecurrence(f.recurrence) {
		return f, "Unknown recurrence option"
	}

	f.description = strings.TrimSpace(r.FormValue("description"))
	f.location = strings.TrimSpace(r.FormValue("location"))
	f.isFeatured = r.FormValue("is_featured") == "on"

	return f, ""
}

// Create adds an event. POST /admin/events
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		flashError(w, r, h.renderer, redirectAdminEventsNew, "Invalid form data")
		return
	}

	f, msg := parseEventForm(r)
	if msg != "" {
		flashError(w, r, h.renderer, redirectAdminEventsNew, msg)
		return
	}

	if msg := ValidateSlugWithChecker(f.slug, func() (int64, error) {
		return h.queries.CountEventsBySlug(r.Context(), f.slug, 0)
	}); msg != "" {
		flashError(w, r, h.renderer, redirectAdminEventsNew, msg)
		return
	}

	imagePath, msg := h.optionalImage(r)
	if msg != "" {
		flashError(w, r, h.renderer, redirectAdminEventsNew, msg)
		return
	}

	now := time.Now()
	event, err := h.queries.CreateEvent(r.Context(), store.CreateEventParams{
		Title:       f.title,
		Slug:        f.slug,
		Description: util.NullStringFromValue(f.description),
		EventDate:   f.eventDate,
		StartTime:   f.startTime,
		EndTime:     util.NullStringFromValue(f.endTime),
		Location:    util.NullStringFromValue(f.location),
		Recurrence:  f.recurrence,
		IsFeatured:  f.isFeatured,
		ImagePath:   util.NullStringFromValue(imagePath),
		CreatedBy:   middleware.GetUserID(r),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if store.IsConflict(err) {
			flashError(w, r, h.renderer, redirectAdminEventsNew, "Slug already exists")
			return
		}
		logAndInternalError(w, "failed to create event", "error", err)
		return
	}

	_ = h.auditor.LogContent(r.Context(), model.AuditLevelInfo, "Event created", middleware.GetUserIDPtr(r), middleware.GetClientIP(r), map[string]any{"event_id": event.ID, "slug": event.Slug})
	flashSuccess(w, r, h.renderer, redirectAdminEvents, "Event created")
}

// EditForm renders the edit form for one event. GET /admin/events/{id}
func (h *EventsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	event, ok := h.requireEvent(w, r)
	if !ok {
		return
	}

	if err := h.renderer.Render(w, r, "admin/event_form", render.TemplateData{
		Title: "Edit Event",
		Data: map[string]any{
			"Event":       event,
			"IsNew":       false,
			"Recurrences": model.ValidRecurrences,
		},
	}); err != nil {
		logAndInternalError(w, "render event form", "error", err)
	}
}

// Update saves changes to an event. POST /admin/events/{id}
func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	event, ok := h.requireEvent(w, r)
	if !ok {
		return
	}
	editURL := fmt.Sprintf(redirectAdminEventsID, event.ID)

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		flashError(w, r, h.renderer, editURL, "Invalid form data")
		return
	}

	f, msg := parseEventForm(r)
	if msg != "" {
		flashError(w, r, h.renderer, editURL, msg)
		return
	}

	if msg := ValidateSlugForUpdate(f.slug, event.Slug, func() (int64, error) {
		return h.queries.CountEventsBySlug(r.Context(), f.slug, event.ID)
	}); msg != "" {
		flashError(w, r, h.renderer, editURL, msg)
		return
	}

	imagePath := event.ImagePath
	if newPath, msg := h.optionalImage(r); msg != "" {
		flashError(w, r, h.renderer, editURL, msg)
		return
	} else if newPath != "" {
		if event.ImagePath.Valid {
			if err := h.storage.DeleteFile(event.ImagePath.String); err != nil {
				slog.Warn("failed to delete replaced event image", "error", err, "path", event.ImagePath.String)
			}
		}
		imagePath = util.NullStringFromValue(newPath)
	} else if r.FormValue("remove_image") == "on" && event.ImagePath.Valid {
		if err := h.storage.DeleteFile(event.ImagePath.String); err != nil {
			slog.Warn("failed to delete event image", "error", err, "path", event.ImagePath.String)
		}
		imagePath = sql.NullString{}
	}

	if err := h.queries.UpdateEvent(r.Context(), store.UpdateEventParams{
		Title:       f.title,
		Slug:        f.slug,
		Description: util.NullStringFromValue(f.description),
		EventDate:   f.eventDate,
		StartTime:   f.startTime,
		EndTime:     util.NullStringFromValue(f.endTime),
		Location:    util.NullStringFromValue(f.location),
		Recurrence:  f.recurrence,
		IsFeatured:  f.isFeatured,
		ImagePath:   imagePath,
		UpdatedAt:   time.Now(),
		ID:          event.ID,
	}); err != nil {
		if store.IsConflict(err) {
			flashError(w, r, h.renderer, editURL, "Slug already exists")
			return
		}
		logAndInternalError(w, "failed to update event", "error", err, "event_id", event.ID)
		return
	}

	_ = h.auditor.LogContent(r.Context(), model.AuditLevelInfo, "Event updated", middleware.GetUserIDPtr(r), middleware.GetClientIP(r), map[string]any{"event_id": event.ID, "slug": f.slug})
	flashSuccess(w, r, h.renderer, redirectAdminEvents, "Event updated")
}

// Delete removes an event and its image. POST /admin/events/{id}/delete
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	event, ok := h.requireEvent(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeleteEvent(r.Context(), event.ID); err != nil {
		logAndInternalError(w, "failed to delete event", "error", err, "event_id", event.ID)
		return
	}

	if event.ImagePath.Valid {
		if err := h.storage.DeleteFile(event.ImagePath.String); err != nil {
			slog.Warn("failed to delete event image", "error", err, "path", event.ImagePath.String)
		}
	}

	_ = h.auditor.LogContent(r.Context(), model.AuditLevelInfo, "Event deleted", middleware.GetUserIDPtr(r), middleware.GetClientIP(r), map[string]any{"event_id": event.ID, "slug": event.Slug})
	flashSuccess(w, r, h.renderer, redirectAdminEvents, "Event deleted")
}

// optionalImage stores an uploaded event image when one was submitted.
// Returns the stored relative path, or an error message for the user.
func (h *EventsHandler) optionalImage(r *http.Request) (string, string) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", ""
		}
		return "", "Could not read the uploaded image"
	}
	defer file.Close()

	path, err := h.storage.UploadEventImage(file, header)
	if err != nil {
		slog.Error("event image upload failed", "error", err)
		return "", "The image could not be processed. Use a JPEG, PNG, GIF, or WebP under 10 MB."
	}
	return path, ""
}

func (h *EventsHandler) requireEvent(w http.ResponseWriter, r *http.Request) (model.Event, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminEvents, "Invalid event ID")
		return model.Event{}, false
	}
	return requireEntityWithRedirect(w, r, h.renderer, redirectAdminEvents, "event",
		id, func(id int64) (model.Event, error) {
			return h.queries.GetEventByID(r.Context(), id)
		})
}
