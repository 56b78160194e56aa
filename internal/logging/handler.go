// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors WARN level and
// above into the database-backed audit log.
package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/gracechapel/churchsite/internal/model"
	"github.com/gracechapel/churchsite/internal/store"
)

// AuditLogHandler is a slog.Handler that wraps another handler and also
// writes WARN and ERROR level logs to the audit log.
type AuditLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
}

// NewAuditLogHandler creates an AuditLogHandler that wraps the given handler.
// Logs at WARN level and above are written to both the wrapped handler and
// the audit log.
func NewAuditLogHandler(inner slog.Handler, db *sql.DB) *AuditLogHandler {
	return &AuditLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   slog.LevelWarn,
	}
}

// NewAuditLogHandlerWithLevel creates an AuditLogHandler with a custom
// minimum level.
func NewAuditLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *AuditLogHandler {
	return &AuditLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *AuditLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *AuditLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeToAuditLog(r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *AuditLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AuditLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *AuditLogHandler) WithGroup(name string) slog.Handler {
	return &AuditLogHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
	}
}

// writeToAuditLog writes a log record to the audit log. A background
// context is used so the entry lands even if the request context is
// already cancelled.
func (h *AuditLogHandler) writeToAuditLog(r slog.Record) {
	_, _ = h.queries.CreateAuditEntry(context.Background(), store.CreateAuditEntryParams{
		Level:     slogLevelToAuditLevel(r.Level),
		Category:  extractCategory(r),
		Message:   r.Message,
		UserID:    sql.NullInt64{}, // no user context available from slog
		Metadata:  extractMetadata(r),
		CreatedAt: r.Time,
	})
}

// slogLevelToAuditLevel converts a slog.Level to an audit log level.
func slogLevelToAuditLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.AuditLevelError
	case level >= slog.LevelWarn:
		return model.AuditLevelWarning
	default:
		return model.AuditLevelInfo
	}
}

// extractCategory looks for a "category" attribute and falls back to
// inferring one from the message text.
func extractCategory(r slog.Record) string {
	var category string

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return false
		}
		return true
	})

	if category != "" {
		return category
	}

	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "auth") || strings.Contains(msg, "login") || strings.Contains(msg, "logout") || strings.Contains(msg, "invite"):
		return model.AuditCategoryAuth
	case strings.Contains(msg, "event") || strings.Contains(msg, "gallery") || strings.Contains(msg, "newsletter") || strings.Contains(msg, "alert"):
		return model.AuditCategoryContent
	case strings.Contains(msg, "user"):
		return model.AuditCategoryUser
	case strings.Contains(msg, "mail") || strings.Contains(msg, "email"):
		return model.AuditCategoryMail
	default:
		return model.AuditCategorySystem
	}
}

// extractMetadata collects log attributes into a JSON string.
func extractMetadata(r slog.Record) string {
	if r.NumAttrs() == 0 {
		return "{}"
	}

	var sb strings.Builder
	sb.WriteString("{")
	first := true

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			return true // already extracted
		}
		if !first {
			sb.WriteString(",")
		}
		first = false
		sb.WriteString(`"`)
		sb.WriteString(escapeJSON(a.Key))
		sb.WriteString(`":"`)
		sb.WriteString(escapeJSON(a.Value.String()))
		sb.WriteString(`"`)
		return true
	})

	sb.WriteString("}")
	return sb.String()
}

// escapeJSON escapes special characters in a string for JSON.
func escapeJSON(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
