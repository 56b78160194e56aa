// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/gracechapel/churchsite/internal/model"
)

const alertColumns = `id, message, severity, is_active, created_by, created_at, updated_at`

func scanAlert(row interface{ Scan(...any) error }) (model.Alert, error) {
	var a model.Alert
	err := row.Scan(
		&a.ID, &a.Message, &a.Severity, &a.IsActive, &a.CreatedBy,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func scanAlerts(rows *sql.Rows) ([]model.Alert, error) {
	defer rows.Close()
	var alerts []model.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// GetAlertByID fetches an alert by primary key.
func (q *Queries) GetAlertByID(ctx context.Context, id int64) (model.Alert, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = ?`, id)
	return scanAlert(row)
}

// ListAlerts returns all alerts, newest first.
func (q *Queries) ListAlerts(ctx context.Context) ([]model.Alert, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+alertColumns+` FROM alerts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return scanAlerts(rows)
}

// ListActiveAlerts returns active alerts for the public banner, newest first.
func (q *Queries) ListActiveAlerts(ctx context.Context) ([]model.Alert, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE is_active = 1 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return scanAlerts(rows)
}

// CreateAlertParams holds the fields for CreateAlert.
type CreateAlertParams struct {
	Message   string
	Severity  string
	IsActive  bool
	CreatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateAlert inserts an alert and returns the stored row.
func (q *Queries) CreateAlert(ctx context.Context, arg CreateAlertParams) (model.Alert, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO alerts (message, severity, is_active, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Message, arg.Severity, arg.IsActive, arg.CreatedBy, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Alert{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.Alert{}, err
	}
	return q.GetAlertByID(ctx, id)
}

// UpdateAlertParams holds the fields for UpdateAlert.
type UpdateAlertParams struct {
	Message   string
	Severity  string
	IsActive  bool
	UpdatedAt time.Time
	ID        int64
}

// UpdateAlert updates all mutable alert fields.
func (q *Queries) UpdateAlert(ctx context.Context, arg UpdateAlertParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE alerts SET message = ?, severity = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		arg.Message, arg.Severity, arg.IsActive, arg.UpdatedAt, arg.ID)
	return err
}

// ToggleAlertParams holds the fields for ToggleAlert.
type ToggleAlertParams struct {
	UpdatedAt time.Time
	ID        int64
}

// ToggleAlert flips the active flag in place. Applying it twice restores the
// original state.
func (q *Queries) ToggleAlert(ctx context.Context, arg ToggleAlertParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE alerts SET is_active = NOT is_active, updated_at = ? WHERE id = ?`,
		arg.UpdatedAt, arg.ID)
	return err
}

// DeleteAlert removes an alert row.
func (q *Queries) DeleteAlert(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = ?`, id)
	return err
}
