// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/gracechapel/churchsite/internal/model"
)

const eventColumns = `id, title, slug, description, event_date, start_time,
	end_time, location, recurrence, is_featured, image_path, created_by,
	created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Slug, &e.Description, &e.EventDate, &e.StartTime,
		&e.EndTime, &e.Location, &e.Recurrence, &e.IsFeatured, &e.ImagePath,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	defer rows.Close()
	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetEventByID fetches an event by primary key.
func (q *Queries) GetEventByID(ctx context.Context, id int64) (model.Event, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	return scanEvent(row)
}

// GetEventBySlug fetches an event by its public slug.
func (q *Queries) GetEventBySlug(ctx context.Context, slug string) (model.Event, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE slug = ?`, slug)
	return scanEvent(row)
}

// ListEvents returns all events ordered by date ascending, the natural order
// for a calendar listing.
func (q *Queries) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY event_date ASC, start_time ASC`)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// ListUpcomingEventsParams holds parameters for ListUpcomingEvents.
type ListUpcomingEventsParams struct {
	From  time.Time
	Limit int64
}

// ListUpcomingEvents returns non-recurring events on or after the given date
// plus all recurring events, date ascending. Recurring events always appear
// because their next occurrence is computed at render time.
func (q *Queries) ListUpcomingEvents(ctx context.Context, arg ListUpcomingEventsParams) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE event_date >= ? OR recurrence != 'none'
		 ORDER BY event_date ASC, start_time ASC LIMIT ?`,
		arg.From, arg.Limit)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// ListFeaturedEvents returns featured events, date ascending.
func (q *Queries) ListFeaturedEvents(ctx context.Context, limit int64) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE is_featured = 1
		 ORDER BY event_date ASC, start_time ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// CountEventsBySlug returns how many events use the given slug, excluding one ID.
func (q *Queries) CountEventsBySlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&count)
	return count, err
}

// CreateEventParams holds the fields for CreateEvent.
type CreateEventParams struct {
	Title       string
	Slug        string
	Description sql.NullString
	EventDate   time.Time
	StartTime   string
	EndTime     sql.NullString
	Location    sql.NullString
	Recurrence  string
	IsFeatured  bool
	ImagePath   sql.NullString
	CreatedBy   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateEvent inserts an event and returns the stored row.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (model.Event, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO events (title, slug, description, event_date, start_time, end_time,
		 location, recurrence, is_featured, image_path, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Slug, arg.Description, arg.EventDate, arg.StartTime, arg.EndTime,
		arg.Location, arg.Recurrence, arg.IsFeatured, arg.ImagePath, arg.CreatedBy,
		arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Event{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.Event{}, err
	}
	return q.GetEventByID(ctx, id)
}

// UpdateEventParams holds the fields for UpdateEvent.
type UpdateEventParams struct {
	Title       string
	Slug        string
	Description sql.NullString
	EventDate   time.Time
	StartTime   string
	EndTime     sql.NullString
	Location    sql.NullString
	Recurrence  string
	IsFeatured  bool
	ImagePath   sql.NullString
	UpdatedAt   time.Time
	ID          int64
}

// UpdateEvent updates all mutable event fields.
func (q *Queries) UpdateEvent(ctx context.Context, arg UpdateEventParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE events SET title = ?, slug = ?, description = ?, event_date = ?,
		 start_time = ?, end_time = ?, location = ?, recurrence = ?, is_featured = ?,
		 image_path = ?, updated_at = ? WHERE id = ?`,
		arg.Title, arg.Slug, arg.Description, arg.EventDate, arg.StartTime, arg.EndTime,
		arg.Location, arg.Recurrence, arg.IsFeatured, arg.ImagePath, arg.UpdatedAt, arg.ID)
	return err
}

// DeleteEvent removes an event.
func (q *Queries) DeleteEvent(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	return err
}
