// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gracechapel/churchsite/internal/mailer"
	"github.com/gracechapel/churchsite/internal/middleware"
	"github.com/gracechapel/churchsite/internal/model"
	"github.com/gracechapel/churchsite/internal/render"
	"github.com/gracechapel/churchsite/internal/service"
)

// maxContactMessageLen caps the contact form message body.
const maxContactMessageLen = 5000

// ContactHandler serves the public contact form.
type ContactHandler struct {
	renderer    *render.Renderer
	mail        *mailer.Client
	auditor     *service.AuditService
	officeEmail string
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(db *sql.DB, renderer *render.Renderer, mail *mailer.Client, officeEmail string) *ContactHandler {
	return &ContactHandler{
		renderer:    renderer,
		mail:        mail,
		auditor:     service.NewAuditService(db),
		officeEmail: officeEmail,
	}
}

// Form renders the contact page. GET /contact
func (h *ContactHandler) Form(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "public/contact", render.TemplateData{
		Title: "Contact Us",
		Data:  map[string]any{"MailEnabled": h.mail.Enabled()},
	}); err != nil {
		logAndInternalError(w, "render contact form", "error", err)
	}
}

// Submit handles a contact form submission. POST /contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteContact) {
		return
	}

	// Honeypot field, hidden from people but filled by bots
	if r.FormValue("website") != "" {
		_ = h.auditor.LogMail(r.Context(), model.AuditLevelWarning, "Contact form honeypot tripped", nil, middleware.GetClientIP(r), nil)
		flashSuccess(w, r, h.renderer, RouteContact, "Thanks for reaching out. We'll get back to you soon.")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	message := strings.TrimSpace(r.FormValue("message"))

	if name == "" || email == "" || message == "" {
		flashError(w, r, h.renderer, RouteContact, "Please fill in your name, email, and message")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		flashError(w, r, h.renderer, RouteContact, "Please enter a valid email address")
		return
	}
	if len(message) > maxContactMessageLen {
		flashError(w, r, h.renderer, RouteContact, "Your message is too long. Please keep it under 5000 characters.")
		return
	}

	if !h.mail.Enabled() || h.officeEmail == "" {
		slog.Warn("contact form submitted but mail is not configured")
		flashError(w, r, h.renderer, RouteContact, "The contact form is unavailable right now. Please call the church office.")
		return
	}

	clientIP := middleware.GetClientIP(r)

	if err := h.mail.SendContactNotification(r.Context(), h.officeEmail, name, email, message); err != nil {
		slog.Error("contact notification failed", "error", err)
		_ = h.auditor.LogMail(r.Context(), model.AuditLevelError, "Contact notification failed to send", nil, clientIP, map[string]any{"visitor_email": email})
		flashError(w, r, h.renderer, RouteContact, "Your message could not be sent. Please try again later.")
		return
	}

	// Best effort; the office already has the message
	if err := h.mail.SendContactAcknowledgment(r.Context(), name, email); err != nil {
		slog.Warn("contact acknowledgment failed", "error", err, "visitor_email", email)
	}

	_ = h.auditor.LogMail(r.Context(), model.AuditLevelInfo, "Contact message relayed", nil, clientIP, map[string]any{"visitor_email": email})
	flashSuccess(w, r, h.renderer, RouteContact, "Thanks for reaching out. We'll get back to you soon.")
}
