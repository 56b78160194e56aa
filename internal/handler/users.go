// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gracechapel/churchsite/internal/auth"
	"github.com/gracechapel/churchsite/internal/mailer"
	"github.com/gracechapel/churchsite/internal/middleware"
	"github.com/gracechapel/churchsite/internal/model"
	"github.com/gracechapel/churchsite/internal/render"
	"github.com/gracechapel/churchsite/internal/service"
	"github.com/gracechapel/churchsite/internal/store"
)

// UsersHandler manages administrator accounts.
type UsersHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	auditor  *service.AuditService
	mail     *mailer.Client
	baseURL  string
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(db *sql.DB, renderer *render.Renderer, mail *mailer.Client, baseURL string) *UsersHandler {
	return &UsersHandler{
		queries:  store.New(db),
		renderer: renderer,
		auditor:  service.NewAuditService(db),
		mail:     mail,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// List renders the administrator list. GET /admin/users
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	total, err := h.queries.CountUsers(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to count users", "error", err)
		return
	}

	users, err := h.queries.ListUsers(r.Context(), store.ListUsersParams{
		Limit:  int64(defaultPerPage),
		Offset: int64((page - 1) * defaultPerPage),
	})
	if err != nil {
		logAndInternalError(w, "failed to list users", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/users", render.TemplateData{
		Title: "Administrators",
		Data: map[string]any{
			"Users":      users,
			"Pagination": BuildAdminPagination(page, total, defaultPerPage, redirectAdminUsers),
		},
	}); err != nil {
		logAndInternalError(w, "render users list", "error", err)
	}
}

// NewForm renders the new administrator form. GET /admin/users/new
func (h *UsersHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "admin/user_form", render.TemplateData{
		Title: "Add Administrator",
		Data:  map[string]any{"IsNew": true},
	}); err != nil {
		logAndInternalError(w, "render user form", "error", err)
	}
}

// Create adds an administrator. POST /admin/users
//
// Three cases, tried in order: an existing account with the given email is
// promoted; a submission with a password creates an active account; a
// submission without one creates an invited account and emails a setup link.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsersNew) {
		return
	}

	email := model.NormalizeEmail(r.FormValue("email"))
	name := strings.TrimSpace(r.FormValue("name"))
	password := r.FormValue("password")

	if email == "" || name == "" {
		flashError(w, r, h.renderer, redirectAdminUsersNew, "Email and name are required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		flashError(w, r, h.renderer, redirectAdminUsersNew, "Invalid email address")
		return
	}
	if password != "" && len(password) < 8 {
		flashError(w, r, h.renderer, redirectAdminUsersNew, "Password must be at least 8 characters")
		return
	}

	actorID := middleware.GetUserIDPtr(r)
	clientIP := middleware.GetClientIP(r)

	// Promote an existing account rather than failing on the duplicate
	if existing, err := h.queries.GetUserByEmail(r.Context(), email); err == nil {
		if existing.IsAdmin() {
			flashError(w, r, h.renderer, redirectAdminUsers, "That account is already an administrator")
			return
		}
		if err := h.queries.UpdateUserRole(r.Context(), store.UpdateUserRoleParams{
			Role:      model.RoleAdmin,
			UpdatedAt: time.Now(),
			ID:        existing.ID,
		}); err != nil {
			logAndInternalError(w, "failed to promote user", "error", err, "user_id", existing.ID)
			return
		}
		_ = h.auditor.LogUser(r.Context(), model.AuditLevelInfo, "User promoted to administrator", actorID, clientIP, map[string]any{"email": email, "user_id": existing.ID})
		flashSuccess(w, r, h.renderer, redirectAdminUsers, existing.Name+" is now an administrator")
		return
	} else if !store.IsNotFound(err) {
		logAndInternalError(w, "failed to check existing user", "error", err)
		return
	}

	if password != "" {
		h.createActive(w, r, email, name, password, actorID, clientIP)
		return
	}
	h.createInvited(w, r, email, name, actorID, clientIP)
}

// createActive creates an administrator with a working password.
func (h *UsersHandler) createActive(w http.ResponseWriter, r *http.Request, email, name, password string, actorID *int64, clientIP string) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		logAndInternalError(w, "failed to hash password", "error", err)
		return
	}

	now := time.Now()
	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if store.IsConflict(err) {
			flashError(w, r, h.renderer, redirectAdminUsersNew, "An account with that email already exists")
			return
		}
		logAndInternalError(w, "failed to create user", "error", err)
		return
	}

	_ = h.auditor.LogUser(r.Context(), model.AuditLevelInfo, "Administrator created", actorID, clientIP, map[string]any{"email": email, "user_id": user.ID})
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "Administrator "+name+" created")
}

// createInvited creates a pending account and sends the invite link.
func (h *UsersHandler) createInvited(w http.ResponseWriter, r *http.Request, email, name string, actorID *int64, clientIP string) {
	token, err := auth.NewInviteToken()
	if err != nil {
		logAndInternalError(w, "failed to generate invite token", "error", err)
		return
	}

	now := time.Now()
	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Email:        email,
		PasswordHash: "",
		Role:         model.RoleAdmin,
		Name:         name,
		InviteToken:  sql.NullString{String: token, Valid: true},
		InviteSentAt: sql.NullTime{Time: now, Valid: true},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if store.IsConflict(err) {
			flashError(w, r, h.renderer, redirectAdminUsersNew, "An account with that email already exists")
			return
		}
		logAndInternalError(w, "failed to create invited user", "error", err)
		return
	}

	inviteURL := h.baseURL + RouteInvite + "/" + token
	if err := h.mail.SendAdminInvite(r.Context(), email, name, inviteURL); err != nil {
		slog.Error("failed to send invite email", "error", err, "email", email)
		_ = h.auditor.LogMail(r.Context(), model.AuditLevelError, "Invite email failed to send", actorID, clientIP, map[string]any{"email": email})
		flashAndRedirect(w, r, h.renderer, redirectAdminUsers, "Account created, but the invite email could not be sent", "error")
		return
	}

	_ = h.auditor.LogUser(r.Context(), model.AuditLevelInfo, "Administrator invited", actorID, clientIP, map[string]any{"email": email, "user_id": user.ID})
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "Invitation sent to "+email)
}

// EditForm renders the edit form for one administrator. GET /admin/users/{id}
func (h *UsersHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if err := h.renderer.Render(w, r, "admin/user_form", render.TemplateData{
		Title: "Edit Administrator",
		Data:  map[string]any{"EditUser": user, "IsNew": false},
	}); err != nil {
		logAndInternalError(w, "render user form", "error", err)
	}
}

// Update saves changes to an administrator. POST /admin/users/{id}
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	editURL := fmt.Sprintf(redirectAdminUsersID, user.ID)

	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	email := model.NormalizeEmail(r.FormValue("email"))
	name := strings.TrimSpace(r.FormValue("name"))
	if email == "" || name == "" {
		flashError(w, r, h.renderer, editURL, "Email and name are required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		flashError(w, r, h.renderer, editURL, "Invalid email address")
		return
	}

	if err := h.queries.UpdateUser(r.Context(), store.UpdateUserParams{
		Email:     email,
		Name:      name,
		Role:      user.Role,
		UpdatedAt: time.Now(),
		ID:        user.ID,
	}); err != nil {
		if store.IsConflict(err) {
			flashError(w, r, h.renderer, editURL, "Another account already uses that email")
			return
		}
		logAndInternalError(w, "failed to update user", "error", err, "user_id", user.ID)
		return
	}

	_ = h.auditor.LogUser(r.Context(), model.AuditLevelInfo, "Administrator updated", middleware.GetUserIDPtr(r), middleware.GetClientIP(r), map[string]any{"user_id": user.ID})
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "Administrator updated")
}

// Delete removes an administrator. POST /admin/users/{id}/delete
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	// No deleting yourself
	if actorID := middleware.GetUserID(r); actorID == user.ID {
		flashError(w, r, h.renderer, redirectAdminUsers, "You cannot delete your own account")
		return
	}

	if err := h.queries.DeleteUser(r.Context(), user.ID); err != nil {
		logAndInternalError(w, "failed to delete user", "error", err, "user_id", user.ID)
		return
	}

	_ = h.auditor.LogUser(r.Context(), model.AuditLevelWarning, "Administrator deleted", middleware.GetUserIDPtr(r), middleware.GetClientIP(r), map[string]any{"email": user.Email, "user_id": user.ID})
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "Administrator "+user.Name+" deleted")
}

// ResendInvite sends a fresh invite link to a pending account.
// POST /admin/users/{id}/resend
func (h *UsersHandler) ResendInvite(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if !user.InvitePending() {
		flashError(w, r, h.renderer, redirectAdminUsers, "That account has already set a password")
		return
	}

	token, err := auth.NewInviteToken()
	if err != nil {
		logAndInternalError(w, "failed to generate invite token", "error", err)
		return
	}
	if err := h.queries.UpdateUserInvite(r.Context(), store.UpdateUserInviteParams{
		InviteToken:  sql.NullString{String: token, Valid: true},
		InviteSentAt: sql.NullTime{Time: time.Now(), Valid: true},
		UpdatedAt:    time.Now(),
		ID:           user.ID,
	}); err != nil {
		logAndInternalError(w, "failed to refresh invite token", "error", err, "user_id", user.ID)
		return
	}

	inviteURL := h.baseURL + RouteInvite + "/" + token
	if err := h.mail.SendAdminInvite(r.Context(), user.Email, user.Name, inviteURL); err != nil {
		slog.Error("failed to resend invite email", "error", err, "email", user.Email)
		flashError(w, r, h.renderer, redirectAdminUsers, "The invite email could not be sent")
		return
	}

	_ = h.auditor.LogUser(r.Context(), model.AuditLevelInfo, "Invitation resent", middleware.GetUserIDPtr(r), middleware.GetClientIP(r), map[string]any{"email": user.Email})
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "Invitation resent to "+user.Email)
}

// requireUser loads the user named by the route or redirects with a flash.
func (h *UsersHandler) requireUser(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminUsers, "Invalid user ID")
		return model.User{}, false
	}
	return requireEntityWithRedirect(w, r, h.renderer, redirectAdminUsers, "administrator", id,
		func(id int64) (model.User, error) {
			return h.queries.GetUserByID(r.Context(), id)
		})
}
