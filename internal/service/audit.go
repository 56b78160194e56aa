// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic and service layer functionality
// including audit logging and upload storage.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/gracechapel/churchsite/internal/model"
	"github.com/gracechapel/churchsite/internal/store"
)

// AuditService records admin and system actions to the audit log.
type AuditService struct {
	queries *store.Queries
}

// NewAuditService creates a new AuditService.
func NewAuditService(db *sql.DB) *AuditService {
	return &AuditService{
		queries: store.New(db),
	}
}

// Log creates a new audit log entry.
func (s *AuditService) Log(ctx context.Context, level, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	var nullUserID sql.NullInt64
	if userID != nil {
		nullUserID = sql.NullInt64{Int64: *userID, Valid: true}
	}

	metadataJSON := "{}"
	if metadata != nil {
		jsonBytes, err := json.Marshal(metadata)
		if err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	_, err := s.queries.CreateAuditEntry(ctx, store.CreateAuditEntryParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    nullUserID,
		Metadata:  metadataJSON,
		IPAddress: ipAddress,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Printf("Failed to write audit entry: %v", err)
		return err
	}

	return nil
}

// LogInfo records an info-level entry.
func (s *AuditService) LogInfo(ctx context.Context, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, model.AuditLevelInfo, category, message, userID, ipAddress, metadata)
}

// LogWarning records a warning-level entry.
func (s *AuditService) LogWarning(ctx context.Context, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, model.AuditLevelWarning, category, message, userID, ipAddress, metadata)
}

// LogError records an error-level entry.
func (s *AuditService) LogError(ctx context.Context, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, model.AuditLevelError, category, message, userID, ipAddress, metadata)
}

// LogAuth records an authentication-related entry.
func (s *AuditService) LogAuth(ctx context.Context, level, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, level, model.AuditCategoryAuth, message, userID, ipAddress, metadata)
}

// LogContent records a content-related entry.
func (s *AuditService) LogContent(ctx context.Context, level, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, level, model.AuditCategoryContent, message, userID, ipAddress, metadata)
}

// LogUser records a user-management entry.
func (s *AuditService) LogUser(ctx context.Context, level, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, level, model.AuditCategoryUser, message, userID, ipAddress, metadata)
}

// LogMail records a mail-delivery entry.
func (s *AuditService) LogMail(ctx context.Context, level, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, level, model.AuditCategoryMail, message, userID, ipAddress, metadata)
}

// LogSystem records a system-level entry.
func (s *AuditService) LogSystem(ctx context.Context, level, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, level, model.AuditCategorySystem, message, userID, ipAddress, metadata)
}

// DeleteOldEntries removes audit entries older than the specified duration
// and returns the number of rows removed.
func (s *AuditService) DeleteOldEntries(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	return s.queries.DeleteAuditEntriesBefore(ctx, cutoff)
}
