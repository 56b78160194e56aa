// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/gracechapel/churchsite/internal/model"
)

const galleryColumns = `id, file_path, thumb_path, alt_text, category, width,
	height, created_by, created_at`

func scanGalleryImage(row interface{ Scan(...any) error }) (model.GalleryImage, error) {
	var g model.GalleryImage
	err := row.Scan(
		&g.ID, &g.FilePath, &g.ThumbPath, &g.AltText, &g.Category, &g.Width,
		&g.Height, &g.CreatedBy, &g.CreatedAt,
	)
	return g, err
}

func scanGalleryImages(rows *sql.Rows) ([]model.GalleryImage, error) {
	defer rows.Close()
	var images []model.GalleryImage
	for rows.Next() {
		g, err := scanGalleryImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, g)
	}
	return images, rows.Err()
}

// GetGalleryImageByID fetches a gallery image by primary key.
func (q *Queries) GetGalleryImageByID(ctx context.Context, id int64) (model.GalleryImage, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+galleryColumns+` FROM gallery_images WHERE id = ?`, id)
	return scanGalleryImage(row)
}

// ListGalleryImages returns gallery images, newest first.
func (q *Queries) ListGalleryImages(ctx context.Context) ([]model.GalleryImage, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+galleryColumns+` FROM gallery_images ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return scanGalleryImages(rows)
}

// ListGalleryImagesByCategory returns gallery images in a category, newest first.
func (q *Queries) ListGalleryImagesByCategory(ctx context.Context, category string) ([]model.GalleryImage, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+galleryColumns+` FROM gallery_images WHERE category = ?
		 ORDER BY created_at DESC`, category)
	if err != nil {
		return nil, err
	}
	return scanGalleryImages(rows)
}

// ListGalleryCategories returns the distinct categories in use.
func (q *Queries) ListGalleryCategories(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM gallery_images ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateGalleryImageParams holds the fields for CreateGalleryImage.
type CreateGalleryImageParams struct {
	FilePath  string
	ThumbPath string
	AltText   string
	Category  string
	Width     int64
	Height    int64
	CreatedBy int64
	CreatedAt time.Time
}

// CreateGalleryImage inserts a gallery image and returns the stored row.
func (q *Queries) CreateGalleryImage(ctx context.Context, arg CreateGalleryImageParams) (model.GalleryImage, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO gallery_images (file_path, thumb_path, alt_text, category, width, height, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.FilePath, arg.ThumbPath, arg.AltText, arg.Category, arg.Width, arg.Height,
		arg.CreatedBy, arg.CreatedAt)
	if err != nil {
		return model.GalleryImage{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.GalleryImage{}, err
	}
	return q.GetGalleryImageByID(ctx, id)
}

// UpdateGalleryImageParams holds the fields for UpdateGalleryImage.
type UpdateGalleryImageParams struct {
	AltText  string
	Category string
	ID       int64
}

// UpdateGalleryImage updates the caption fields of a gallery image. The file
// itself is immutable; replacing a photo is delete plus re-upload.
func (q *Queries) UpdateGalleryImage(ctx context.Context, arg UpdateGalleryImageParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE gallery_images SET alt_text = ?, category = ? WHERE id = ?`,
		arg.AltText, arg.Category, arg.ID)
	return err
}

// DeleteGalleryImage removes a gallery image row.
func (q *Queries) DeleteGalleryImage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM gallery_images WHERE id = ?`, id)
	return err
}
