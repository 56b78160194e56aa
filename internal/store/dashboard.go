// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "context"

// DashboardCounts holds the content totals shown on the admin dashboard.
type DashboardCounts struct {
	Events        int64
	GalleryImages int64
	Newsletters   int64
	ActiveAlerts  int64
	Users         int64
}

// GetDashboardCounts gathers content totals in one round trip.
func (q *Queries) GetDashboardCounts(ctx context.Context) (DashboardCounts, error) {
	var c DashboardCounts
	err := q.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM events),
			(SELECT COUNT(*) FROM gallery_images),
			(SELECT COUNT(*) FROM newsletters),
			(SELECT COUNT(*) FROM alerts WHERE is_active = 1),
			(SELECT COUNT(*) FROM users)`,
	).Scan(&c.Events, &c.GalleryImages, &c.Newsletters, &c.ActiveAlerts, &c.Users)
	return c, err
}
