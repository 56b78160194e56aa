// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/gracechapel/churchsite/internal/auth"
	"github.com/gracechapel/churchsite/internal/middleware"
	"github.com/gracechapel/churchsite/internal/model"
	"github.com/gracechapel/churchsite/internal/render"
	"github.com/gracechapel/churchsite/internal/service"
	"github.com/gracechapel/churchsite/internal/store"
)

// AuthHandler handles sign-in, sign-out, and invite acceptance.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	auditor         *service.AuditService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		auditor:         service.NewAuditService(db),
		loginProtection: lp,
	}
}

// LoginForm renders the login page. Authenticated admins go straight to
// the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID); userID > 0 {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "auth/login", render.TemplateData{
		Title: "Sign In",
	}); err != nil {
		logAndInternalError(w, "render login form", "error", err)
	}
}

// Login handles the login form submission. Only administrators may hold a
// session; a valid password on a non-admin account is rejected without
// establishing one.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	email := model.NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, "Email and password are required")
		return
	}

	clientIP := middleware.GetClientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			_ = h.auditor.LogAuth(r.Context(), model.AuditLevelWarning, "Login attempt on locked account", nil, clientIP, map[string]any{"email": email})
			flashError(w, r, h.renderer, redirectLogin, fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if store.IsNotFound(err) {
			slog.Debug("login attempt for non-existent user", "email", email)
			_ = h.auditor.LogAuth(r.Context(), model.AuditLevelWarning, "Login failed: user not found", nil, clientIP, map[string]any{"email": email})
		} else {
			slog.Error("database error during login", "error", err)
		}
		// Record the failure for unknown emails too, to prevent enumeration
		h.recordFailure(w, r, email)
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !valid {
		if err != nil {
			slog.Debug("password check failed", "email", email, "error", err)
		}
		_ = h.auditor.LogAuth(r.Context(), model.AuditLevelWarning, "Login failed: invalid password", &user.ID, clientIP, map[string]any{"email": email})
		h.recordFailure(w, r, email)
		return
	}

	// Correct password is not enough. The admin area is the only thing a
	// session unlocks, so non-admin accounts never get one.
	if !user.IsAdmin() {
		_ = h.sessionManager.Destroy(r.Context())
		_ = h.auditor.LogAuth(r.Context(), model.AuditLevelWarning, "Login rejected: not an administrator", &user.ID, clientIP, map[string]any{"email": email})
		flashError(w, r, h.renderer, redirectLogin, "This account does not have administrator access")
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	// Re-hash if stored parameters are outdated
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    time.Now(),
				ID:           user.ID,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			}
		}
	}

	if err := h.queries.UpdateUserLastLogin(r.Context(), store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: time.Now(), Valid: true},
		ID:          user.ID,
	}); err != nil {
		// Don't block login on this error
		slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	slog.Info("admin signed in", "user_id", user.ID, "email", user.Email)
	_ = h.auditor.LogAuth(r.Context(), model.AuditLevelInfo, "Admin signed in", &user.ID, clientIP, map[string]any{"email": user.Email})

	h.renderer.SetFlash(r, "Welcome back, "+user.Name, "success")
	http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
}

// recordFailure tracks a failed attempt and redirects with the right message.
func (h *AuthHandler) recordFailure(w http.ResponseWriter, r *http.Request, email string) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			flashError(w, r, h.renderer, redirectLogin, fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(lockDuration)))
			return
		}
		remaining := h.loginProtection.GetRemainingAttempts(email)
		if remaining <= 3 && remaining > 0 {
			flashError(w, r, h.renderer, redirectLogin, fmt.Sprintf("Invalid email or password. %d attempts remaining.", remaining))
			return
		}
	}
	flashError(w, r, h.renderer, redirectLogin, "Invalid email or password")
}

// Logout destroys the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID)

	if userID > 0 {
		_ = h.auditor.LogAuth(r.Context(), model.AuditLevelInfo, "Admin signed out", &userID, middleware.GetClientIP(r), nil)
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	flashAndRedirect(w, r, h.renderer, redirectLogin, "You have been signed out", "info")
}

// InviteForm renders the password-setup page for an invited administrator.
// GET /invite/{token}
func (h *AuthHandler) InviteForm(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	user, err := h.queries.GetUserByInviteToken(r.Context(), token)
	if err != nil {
		if !store.IsNotFound(err) {
			slog.Error("failed to look up invite token", "error", err)
		}
		flashError(w, r, h.renderer, redirectLogin, "This invitation link is invalid or has already been used")
		return
	}

	if err := h.renderer.Render(w, r, "auth/invite", render.TemplateData{
		Title: "Set Your Password",
		Data: map[string]any{
			"Token": token,
			"Email": user.Email,
			"Name":  user.Name,
		},
	}); err != nil {
		logAndInternalError(w, "render invite form", "error", err)
	}
}

// InviteSubmit sets the invited administrator's password and activates the
// account. POST /invite/{token}
func (h *AuthHandler) InviteSubmit(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	inviteURL := RouteInvite + "/" + token

	if !parseFormOrRedirect(w, r, h.renderer, inviteURL) {
		return
	}

	user, err := h.queries.GetUserByInviteToken(r.Context(), token)
	if err != nil {
		if !store.IsNotFound(err) {
			slog.Error("failed to look up invite token", "error", err)
		}
		flashError(w, r, h.renderer, redirectLogin, "This invitation link is invalid or has already been used")
		return
	}

	password := r.FormValue("password")
	confirm := r.FormValue("password_confirm")

	if len(password) < 8 {
		flashError(w, r, h.renderer, inviteURL, "Password must be at least 8 characters")
		return
	}
	if password != confirm {
		flashError(w, r, h.renderer, inviteURL, "Passwords do not match")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logAndInternalError(w, "failed to hash password", "error", err)
		return
	}

	// Clears the invite token so the link is single use
	if err := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
		PasswordHash: hash,
		UpdatedAt:    time.Now(),
		ID:           user.ID,
	}); err != nil {
		logAndInternalError(w, "failed to activate invited account", "error", err, "user_id", user.ID)
		return
	}

	_ = h.auditor.LogAuth(r.Context(), model.AuditLevelInfo, "Invited admin set password", &user.ID, middleware.GetClientIP(r), map[string]any{"email": user.Email})

	flashSuccess(w, r, h.renderer, redirectLogin, "Your password is set. You can sign in now.")
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
