// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/gracechapel/churchsite/internal/auth"
	"github.com/gracechapel/churchsite/internal/model"
	"github.com/gracechapel/churchsite/internal/store"
	"github.com/gracechapel/churchsite/internal/testutil"
)

// testQueries opens a migrated test database and returns a Queries wrapper.
func testQueries(t *testing.T) (*store.Queries, *sql.DB) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	return store.New(db), db
}

// createTestAdmin inserts an admin account and returns it. Events, alerts,
// and uploads all reference a creating user, so most tests need one.
func createTestAdmin(t *testing.T, q *store.Queries, email string) model.User {
	t.Helper()

	hash, err := auth.HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	now := time.Now()
	user, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Name:         "Test Admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}
