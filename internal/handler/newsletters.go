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

// NewslettersHandler manages monthly newsletter PDFs in the admin area.
type NewslettersHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	storage  *service.StorageService
	auditor  *service.AuditService
}

// NewNewslettersHandler creates a new NewslettersHandler.
func NewNewslettersHandler(db *sql.DB, renderer *render.Renderer, storage *service.StorageService) *NewslettersHandler {
	return &NewslettersHandler{
		queries:  store.New(db),
		renderer: renderer,
		storage:  storage,
		auditor:  service.NewAuditService(db),
	}
}

// List renders all newsletters, newest issue first. GET /admin/newsletters
func (h *NewslettersHandler) List(w http.ResponseWriter, r *http.Request) {
	newsletters, err := h.queries.ListNewsletters(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list newsletters", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/newsletters", render.TemplateData{
		Title: "Newsletters",
		Data:  map[string]any{"Newsletters": newsletters},
	}); err != nil {
		logAndInternalError(w, "render newsletters list", "error", err)
	}
}

// NewForm renders the new newsletter form. GET /admin/newsletters/new
func (h *NewslettersHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if err := h.renderer.Render(w, r, "admin/newsletter_form", render.TemplateData{
		Title: "New Newsletter",
		Data: map[string]any{
			"IsNew":        true,
			"DefaultMonth": int64(now.Month()),
			"DefaultYear":  int64(now.Year()),
		},
	}); err != nil {
		logAndInternalError(w, "render newsletter form", "error", err)
	}
}

// newsletterForm holds a parsed newsletter submission.
type newsletterForm struct {
	title       string
	month       int64
	year        int64
	description string
	isFeatured  bool
}

func parseNewsletterForm(r *http.Request) (newsletterForm, string) {
	var f newsletterForm

	f.title = strings.TrimSpace(r.FormValue("title"))
	if f.title == "" {
		return f, "Title is required"
	}

	month, err := strconv.ParseInt(r.FormValue("month"), 10, 64)
	if err != nil || month < 1 || month > 12 {
		return f, "Month must be between 1 and 12"
	}
	f.month = month

	year, err := strconv.ParseInt(r.FormValue("year"), 10, 64)
	if err != nil || year < 2000 || year > 2100 {
		return f, "A valid year is required"
	}
	f.year = year

	f.description = strings.TrimSpace(r.FormValue("description"))
	f.isFeatured = r.FormValue("is_featured") == "on"

	return f, ""
}

// Create adds a newsletter with its PDF. POST /admin/newsletters
func (h *NewslettersHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		flashError(w, r, h.renderer, redirectAdminNewslettersNew, "Invalid form data")
		return
	}

	f, msg := parseNewsletterForm(r)
	if msg != "" {
		flashError(w, r, h.renderer, redirectAdminNewslettersNew, msg)
		return
	}

	file, header, err := r.FormFile("pdf")
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminNewslettersNew, "Choose a PDF to upload")
		return
	}
	defer file.Close()

	pdfPath, err := h.storage.UploadNewsletterPDF(file, header)
	if err != nil {
		slog.Error("newsletter PDF upload failed", "error", err)
		flashError(w, r, h.renderer, redirectAdminNewslettersNew, "The file could not be stored. Upload a PDF under 20 MB.")
		return
	}

	now := time.Now()
	newsletter, err := h.queries.CreateNewsletter(r.Context(), store.CreateNewsletterParams{
		Title:       f.title,
		Month:       f.month,
		Year:        f.year,
		PdfPath:     pdfPath,
		Description: util.NullStringFromValue(f.description),
		IsFeatured:  f.isFeatured,
		CreatedBy:   middleware.GetUserID(r),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create newsletter", "error", err)
		return
	}

	_ = h.auditor.LogContent(r.Context(), model.AuditLevelInfo, "Newsletter created", middleware.GetUserIDPtr(r), middleware.GetClientIP(r), map[string]any{"newsletter_id": newsletter.ID, "month": f.month, "year": f.year})
	flashSuccess(w, r, h.renderer, redirectAdminNewsletters, "Newsletter created")
}

// EditForm renders the edit form. GET /admin/newsletters/{id}
func (h *NewslettersHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	newsletter, ok := h.requireNewsletter(w, r)
	if !ok {
		return
	}

	if err := h.renderer.Render(w, r, "admin/newsletter_form", render.TemplateData{
		Title: "Edit Newsletter",
		Data: map[string]any{
			"Newsletter": newsletter,
			"IsNew":      false,
		},
	}); err != nil {
		logAndInternalError(w, "render newsletter form", "error", err)
	}
}

// Update saves changes, optionally replacing the PDF. POST /admin/newsletters/{id}
func (h *NewslettersHandler) Update(w http.ResponseWriter, r *http.Request) {
	newsletter, ok := h.requireNewsletter(w, r)
	if !ok {
		return
	}
	editURL := fmt.Sprintf(redirectAdminNewslettersID, newsletter.ID)

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		flashError(w, r, h.renderer, editURL, "Invalid form data")
		return
	}

	f, msg := parseNewsletterForm(r)
	if msg != "" {
		flashError(w, r, h.renderer, editURL, msg)
		return
	}

	pdfPath := newsletter.PdfPath
	if file, header, err := r.FormFile("pdf"); err == nil {
		defer file.Close()
		newPath, err := h.storage.UploadNewsletterPDF(file, header)
		if err != nil {
			slog.Error("newsletter PDF upload failed", "error", err)
			flashError(w, r, h.renderer, editURL, "The file could not be stored. Upload a PDF under 20 MB.")
			return
		}
		if err := h.storage.DeleteFile(newsletter.PdfPath); err != nil {
			slog.Warn("failed to delete replaced newsletter PDF", "error", err, "path", newsletter.PdfPath)
		}
		pdfPath = newPath
	} else if !errors.Is(err, http.ErrMissingFile) {
		flashError(w, r, h.renderer, editURL, "Could not read the uploaded file")
		return
	}

	if err := h.queries.UpdateNewsletter(r.Context(), store.UpdateNewsletterParams{
		Title:       f.title,
		Month:       f.month,
		Year:        f.year,
		PdfPath:     pdfPath,
		Description: util.NullStringFromValue(f.description),
		IsFeatured:  f.isFeatured,
		UpdatedAt:   time.Now(),
		ID:          newsletter.ID,
	}); err != nil {
		logAndInternalError(w, "failed to update newsletter", "error", err, "newsletter_id", newsletter.ID)
		return
	}

	_ = h.auditor.LogContent(r.Context(), model.AuditLevelInfo, "Newsletter updated", middleware.GetUserIDPtr(r), middleware.GetClientIP(r), map[string]any{"newsletter_id": newsletter.ID})
	flashSuccess(w, r, h.renderer, redirectAdminNewsletters, "Newsletter updated")
}

// Delete removes a newsletter and its PDF. POST /admin/newsletters/{id}/delete
func (h *NewslettersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	newsletter, ok := h.requireNewsletter(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeleteNewsletter(r.Context(), newsletter.ID); err != nil {
		logAndInternalError(w, "failed to delete newsletter", "error", err, "newsletter_id", newsletter.ID)
		return
	}

	if err := h.storage.DeleteFile(newsletter.PdfPath); err != nil {
		slog.Warn("failed to delete newsletter PDF", "error", err, "path", newsletter.PdfPath)
	}

	_ = h.auditor.LogContent(r.Context(), model.AuditLevelInfo, "Newsletter deleted", middleware.GetUserIDPtr(r), middleware.GetClientIP(r), map[string]any{"newsletter_id": newsletter.ID})
	flashSuccess(w, r, h.renderer, redirectAdminNewsletters, "Newsletter deleted")
}

func (h *NewslettersHandler) requireNewsletter(w http.ResponseWriter, r *http.Request) (model.Newsletter, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminNewsletters, "Invalid newsletter ID")
		return model.Newsletter{}, false
	}
	return requireEntityWithRedirect(w, r, h.renderer, redirectAdminNewsletters, "newsletter",
		id, func(id int64) (model.Newsletter, error) {
			return h.queries.GetNewsletterByID(r.Context(), id)
		})
}
