// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/gracechapel/churchsite/internal/model"
	"github.com/gracechapel/churchsite/internal/store"
)

func createTestNewsletter(t *testing.T, q *store.Queries, createdBy int64, month, year int64, featured bool) model.Newsletter {
	t.Helper()

	now := time.Now()
	n, err := q.CreateNewsletter(context.Background(), store.CreateNewsletterParams{
		Title:      "Monthly Newsletter",
		Month:      month,
		Year:       year,
		PdfPath:    "newsletters/test.pdf",
		IsFeatured: featured,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateNewsletter: %v", err)
	}
	return n
}

func TestNewsletterRoundTrip(t *testing.T) {
	q, _ := testQueries(t)
	admin := createTestAdmin(t, q, "admin@example.com")
	ctx := context.Background()

	n := createTestNewsletter(t, q, admin.ID, 3, 2026, false)

	got, err := q.GetNewsletterByID(ctx, n.ID)
	if err != nil {
		t.Fatalf("GetNewsletterByID: %v", err)
	}
	if got.Month != 3 || got.Year != 2026 || got.PdfPath != "newsletters/test.pdf" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Description.Valid {
		t.Error("absent description should stay NULL")
	}
	if got.MonthName() != "March" {
		t.Errorf("MonthName() = %q", got.MonthName())
	}
}

func TestGetFeaturedNewsletter_PicksNewest(t *testing.T) {
	q, _ := testQueries(t)
	admin := createTestAdmin(t, q, "admin@example.com")
	ctx := context.Background()

	createTestNewsletter(t, q, admin.ID, 1, 2026, true)
	createTestNewsletter(t, q, admin.ID, 6, 2026, true)
	createTestNewsletter(t, q, admin.ID, 12, 2025, true)

	featured, err := q.GetFeaturedNewsletter(ctx)
	if err != nil {
		t.Fatalf("GetFeaturedNewsletter: %v", err)
	}
	if featured.Year != 2026 || featured.Month != 6 {
		t.Errorf("featured = %d/%d; want 6/2026", featured.Month, featured.Year)
	}
}

func TestGetFeaturedNewsletter_NoneFeatured(t *testing.T) {
	q, _ := testQueries(t)
	admin := createTestAdmin(t, q, "admin@example.com")

	createTestNewsletter(t, q, admin.ID, 1, 2026, false)

	_, err := q.GetFeaturedNewsletter(context.Background())
	if !store.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestUpdateNewsletter(t *testing.T) {
	q, _ := testQueries(t)
	admin := createTestAdmin(t, q, "admin@example.com")
	ctx := context.Background()

	n := createTestNewsletter(t, q, admin.ID, 2, 2026, false)

	err := q.UpdateNewsletter(ctx, store.UpdateNewsletterParams{
		Title:       "February Update",
		Month:       2,
		Year:        2026,
		PdfPath:     "newsletters/feb.pdf",
		Description: sql.NullString{String: "Lent schedule inside", Valid: true},
		IsFeatured:  true,
		UpdatedAt:   time.Now(),
		ID:          n.ID,
	})
	if err != nil {
		t.Fatalf("UpdateNewsletter: %v", err)
	}

	got, err := q.GetNewsletterByID(ctx, n.ID)
	if err != nil {
		t.Fatalf("GetNewsletterByID: %v", err)
	}
	if got.Title != "February Update" || got.PdfPath != "newsletters/feb.pdf" || !got.IsFeatured {
		t.Errorf("update not applied: %+v", got)
	}
	if got.Description.String != "Lent schedule inside" {
		t.Errorf("description = %q", got.Description.String)
	}
}

func TestDeleteNewsletter(t *testing.T) {
	q, _ := testQueries(t)
	admin := createTestAdmin(t, q, "admin@example.com")
	ctx := context.Background()

	n := createTestNewsletter(t, q, admin.ID, 4, 2026, false)

	if err := q.DeleteNewsletter(ctx, n.ID); err != nil {
		t.Fatalf("DeleteNewsletter: %v", err)
	}
	if _, err := q.GetNewsletterByID(ctx, n.ID); !store.IsNotFound(err) {
		t.Fatalf("deleted newsletter should be gone, got %v", err)
	}
}

func TestListNewsletters_NewestFirst(t *testing.T) {
	q, _ := testQueries(t)
	admin := createTestAdmin(t, q, "admin@example.com")

	createTestNewsletter(t, q, admin.ID, 5, 2025, false)
	createTestNewsletter(t, q, admin.ID, 2, 2026, false)
	createTestNewsletter(t, q, admin.ID, 11, 2025, false)

	list, err := q.ListNewsletters(context.Background())
	if err != nil {
		t.Fatalf("ListNewsletters: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d newsletters; want 3", len(list))
	}
	if list[0].Year != 2026 || list[0].Month != 2 {
		t.Errorf("first = %d/%d; want 2/2026", list[0].Month, list[0].Year)
	}
	if list[2].Year != 2025 || list[2].Month != 5 {
		t.Errorf("last = %d/%d; want 5/2025", list[2].Month, list[2].Year)
	}
}
