// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// Setting keys used by the admin UI.
const (
	SettingHeroImage = "hero_image"
)

// GetSetting fetches a setting value by key.
func (q *Queries) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	return value, err
}

// UpsertSettingParams holds the fields for UpsertSetting.
type UpsertSettingParams struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// UpsertSetting inserts or replaces a setting value.
func (q *Queries) UpsertSetting(ctx context.Context, arg UpsertSettingParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		arg.Key, arg.Value, arg.UpdatedAt, arg.UpdatedAt)
	return err
}
