// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/gracechapel/churchsite/internal/model"
)

const auditColumns = `id, level, category, message, user_id, ip_address, metadata, created_at`

func scanAuditEntry(row interface{ Scan(...any) error }) (model.AuditEntry, error) {
	var a model.AuditEntry
	err := row.Scan(
		&a.ID, &a.Level, &a.Category, &a.Message, &a.UserID, &a.IPAddress,
		&a.Metadata, &a.CreatedAt,
	)
	return a, err
}

// CreateAuditEntryParams holds the fields for CreateAuditEntry.
type CreateAuditEntryParams struct {
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	IPAddress string
	Metadata  string
	CreatedAt time.Time
}

// CreateAuditEntry inserts an audit log entry.
func (q *Queries) CreateAuditEntry(ctx context.Context, arg CreateAuditEntryParams) (model.AuditEntry, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO audit_log (level, category, message, user_id, ip_address, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.Level, arg.Category, arg.Message, arg.UserID, arg.IPAddress,
		arg.Metadata, arg.CreatedAt)
	if err != nil {
		return model.AuditEntry{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.AuditEntry{}, err
	}
	row := q.db.QueryRowContext(ctx,
		`SELECT `+auditColumns+` FROM audit_log WHERE id = ?`, id)
	return scanAuditEntry(row)
}

// ListAuditEntriesParams holds pagination parameters for ListAuditEntries.
type ListAuditEntriesParams struct {
	Limit  int64
	Offset int64
}

// ListAuditEntries returns audit entries, newest first.
func (q *Queries) ListAuditEntries(ctx context.Context, arg ListAuditEntriesParams) ([]model.AuditEntry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+auditColumns+` FROM audit_log ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []model.AuditEntry
	for rows.Next() {
		a, err := scanAuditEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}

// CountAuditEntries returns the total number of audit entries.
func (q *Queries) CountAuditEntries(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log`).Scan(&count)
	return count, err
}

// DeleteAuditEntriesBefore removes audit entries older than the cutoff and
// returns how many rows were deleted. Used by the maintenance scheduler.
func (q *Queries) DeleteAuditEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`DELETE FROM audit_log WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
