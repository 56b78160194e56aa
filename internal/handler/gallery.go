// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gracechapel/churchsite/internal/middleware"
	"github.com/gracechapel/churchsite/internal/model"
	"github.com/gracechapel/churchsite/internal/render"
	"github.com/gracechapel/churchsite/internal/service"
	"github.com/gracechapel/churchsite/internal/store"
)

// GalleryHandler manages photo gallery uploads in the admin area.
type GalleryHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	storage  *service.StorageService
	auditor  *service.AuditService
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(db *sql.DB, renderer *render.Renderer, storage *service.StorageService) *GalleryHandler {
	return &GalleryHandler{
		queries:  store.New(db),
		renderer: renderer,
		storage:  storage,
		auditor:  service.NewAuditService(db),
	}
}

// List renders all gallery images, newest first. GET /admin/gallery
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	images, err := h.queries.ListGalleryImages(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list gallery images", "error", err)
		return
	}

	categories, err := h.queries.ListGalleryCategories(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list gallery categories", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/gallery", render.TemplateData{
		Title: "Photo Gallery",
		Data: map[string]any{
			"Images":     images,
			"Categories": categories,
		},
	}); err != nil {
		logAndInternalError(w, "render gallery list", "error", err)
	}
}

// Upload processes one new photo. POST /admin/gallery
func (h *GalleryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		flashError(w, r, h.renderer, redirectAdminGallery, "Invalid form data")
		return
	}

	altText := strings.TrimSpace(r.FormValue("alt_text"))
	category := strings.TrimSpace(strings.ToLower(r.FormValue("category")))
	if altText == "" {
		flashError(w, r, h.renderer, redirectAdminGallery, "A photo description is required")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminGallery, "Choose a photo to upload")
		return
	}
	defer file.Close()

	image, err := h.storage.UploadGalleryImage(r.Context(), file, header, altText, category, middleware.GetUserID(r))
	if err != nil {
		slog.Error("gallery upload failed", "error", err)
		flashError(w, r, h.renderer, redirectAdminGallery, "The photo could not be processed. Use a JPEG, PNG, GIF, or WebP under 10 MB.")
		return
	}

	_ = h.auditor.LogContent(r.Context(), model.AuditLevelInfo, "Gallery photo uploaded", middleware.GetUserIDPtr(r), middleware.GetClientIP(r), map[string]any{"image_id": image.ID, "category": category})
	flashSuccess(w, r, h.renderer, redirectAdminGallery, "Photo uploaded")
}

// Update edits a photo's description and category. POST /admin/gallery/{id}
func (h *GalleryHandler) Update(w http.ResponseWriter, r *http.Request) {
	image, ok := h.requireImage(w, r)
	if !ok {
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminGallery) {
		return
	}

	altText := strings.TrimSpace(r.FormValue("alt_text"))
	category := strings.TrimSpace(strings.ToLower(r.FormValue("category")))
	if altText == "" {
		flashError(w, r, h.renderer, redirectAdminGallery, "A photo description is required")
		return
	}

	if err := h.queries.UpdateGalleryImage(r.Context(), store.UpdateGalleryImageParams{
		AltText:  altText,
		Category: category,
		ID:       image.ID,
	}); err != nil {
		logAndInternalError(w, "failed to update gallery image", "error", err, "image_id", image.ID)
		return
	}

	_ = h.auditor.LogContent(r.Context(), model.AuditLevelInfo, "Gallery photo updated", middleware.GetUserIDPtr(r), middleware.GetClientIP(r), map[string]any{"image_id": image.ID})
	flashSuccess(w, r, h.renderer, redirectAdminGallery, "Photo updated")
}

// Delete removes a photo and its files. POST /admin/gallery/{id}/delete
func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	image, ok := h.requireImage(w, r)
	if !ok {
		return
	}

	if err := h.storage.DeleteGalleryImage(r.Context(), image.ID); err != nil {
		logAndInternalError(w, "failed to delete gallery image", "error", err, "image_id", image.ID)
		return
	}

	_ = h.auditor.LogContent(r.Context(), model.AuditLevelInfo, "Gallery photo deleted", middleware.GetUserIDPtr(r), middleware.GetClientIP(r), map[string]any{"image_id": image.ID})
	flashSuccess(w, r, h.renderer, redirectAdminGallery, "Photo deleted")
}

func (h *GalleryHandler) requireImage(w http.ResponseWriter, r *http.Request) (model.GalleryImage, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminGallery, "Invalid photo ID")
		return model.GalleryImage{}, false
	}
	return requireEntityWithRedirect(w, r, h.renderer, redirectAdminGallery, "photo",
		id, func(id int64) (model.GalleryImage, error) {
			return h.queries.GetGalleryImageByID(r.Context(), id)
		})
}
