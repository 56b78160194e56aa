// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

// Package maintenance runs recurring housekeeping jobs: pruning old audit
// entries and checkpointing the SQLite WAL.
package maintenance

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gracechapel/churchsite/internal/service"
)

// Scheduler runs the nightly housekeeping jobs.
type Scheduler struct {
	db             *sql.DB
	auditor        *service.AuditService
	cron           *cron.Cron
	logger         *slog.Logger
	auditRetention time.Duration
}

// New creates a scheduler. auditRetention controls how long audit log
// entries are kept.
func New(db *sql.DB, auditor *service.AuditService, auditRetention time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:             db,
		auditor:        auditor,
		cron:           cron.New(),
		logger:         logger,
		auditRetention: auditRetention,
	}
}

// Start registers the jobs and begins the scheduler.
func (s *Scheduler) Start() error {
	// Prune the audit log nightly at 03:10
	if _, err := s.cron.AddFunc("10 3 * * *", func() {
		if err := s.pruneAuditLog(); err != nil {
			s.logger.Error("failed to prune audit log", "error", err)
		}
	}); err != nil {
		return err
	}

	// Checkpoint the WAL hourly to keep the -wal file small
	if _, err := s.cron.AddFunc("0 * * * *", func() {
		if err := s.checkpointWAL(); err != nil {
			s.logger.Error("failed to checkpoint WAL", "error", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("maintenance scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("maintenance scheduler stopped")
}

// pruneAuditLog deletes audit entries past the retention window.
func (s *Scheduler) pruneAuditLog() error {
	if s.auditRetention <= 0 {
		return nil
	}

	removed, err := s.auditor.DeleteOldEntries(context.Background(), s.auditRetention)
	if err != nil {
		return err
	}

	if removed > 0 {
		s.logger.Info("pruned audit log",
			"removed", removed,
			"retention", s.auditRetention.String(),
		)
	}
	return nil
}

// checkpointWAL folds the write-ahead log back into the main database file.
func (s *Scheduler) checkpointWAL() error {
	_, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}
