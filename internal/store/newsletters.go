// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/gracechapel/churchsite/internal/model"
)

const newsletterColumns = `id, title, month, year, pdf_path, description,
	is_featured, created_by, created_at, updated_at`

func scanNewsletter(row interface{ Scan(...any) error }) (model.Newsletter, error) {
	var n model.Newsletter
	err := row.Scan(
		&n.ID, &n.Title, &n.Month, &n.Year, &n.PdfPath, &n.Description,
		&n.IsFeatured, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt,
	)
	return n, err
}

// GetNewsletterByID fetches a newsletter by primary key.
func (q *Queries) GetNewsletterByID(ctx context.Context, id int64) (model.Newsletter, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+newsletterColumns+` FROM newsletters WHERE id = ?`, id)
	return scanNewsletter(row)
}

// ListNewsletters returns newsletters ordered by issue, newest first.
func (q *Queries) ListNewsletters(ctx context.Context) ([]model.Newsletter, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+newsletterColumns+` FROM newsletters ORDER BY year DESC, month DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var newsletters []model.Newsletter
	for rows.Next() {
		n, err := scanNewsletter(rows)
		if err != nil {
			return nil, err
		}
		newsletters = append(newsletters, n)
	}
	return newsletters, rows.Err()
}

// GetFeaturedNewsletter returns the most recent featured newsletter.
func (q *Queries) GetFeaturedNewsletter(ctx context.Context) (model.Newsletter, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+newsletterColumns+` FROM newsletters WHERE is_featured = 1
		 ORDER BY year DESC, month DESC LIMIT 1`)
	return scanNewsletter(row)
}

// CreateNewsletterParams holds the fields for CreateNewsletter.
type CreateNewsletterParams struct {
	Title       string
	Month       int64
	Year        int64
	PdfPath     string
	Description sql.NullString
	IsFeatured  bool
	CreatedBy   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateNewsletter inserts a newsletter and returns the stored row.
func (q *Queries) CreateNewsletter(ctx context.Context, arg CreateNewsletterParams) (model.Newsletter, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO newsletters (title, month, year, pdf_path, description, is_featured, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Month, arg.Year, arg.PdfPath, arg.Description, arg.IsFeatured,
		arg.CreatedBy, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Newsletter{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.Newsletter{}, err
	}
	return q.GetNewsletterByID(ctx, id)
}

// UpdateNewsletterParams holds the fields for UpdateNewsletter.
type UpdateNewsletterParams struct {
	Title       string
	Month       int64
	Year        int64
	PdfPath     string
	Description sql.NullString
	IsFeatured  bool
	UpdatedAt   time.Time
	ID          int64
}

// UpdateNewsletter updates all mutable newsletter fields.
func (q *Queries) UpdateNewsletter(ctx context.Context, arg UpdateNewsletterParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE newsletters SET title = ?, month = ?, year = ?, pdf_path = ?,
		 description = ?, is_featured = ?, updated_at = ? WHERE id = ?`,
		arg.Title, arg.Month, arg.Year, arg.PdfPath, arg.Description, arg.IsFeatured,
		arg.UpdatedAt, arg.ID)
	return err
}

// DeleteNewsletter removes a newsletter row.
func (q *Queries) DeleteNewsletter(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM newsletters WHERE id = ?`, id)
	return err
}
