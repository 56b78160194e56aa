// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gracechapel/churchsite/internal/auth"
	"github.com/gracechapel/churchsite/internal/model"
)

// Seed creates the bootstrap admin account from configured credentials.
// It is a no-op when the account already exists or when no credentials are
// configured, so running it on every start is safe.
func Seed(ctx context.Context, db *sql.DB, email, password string) error {
	if email == "" || password == "" {
		slog.Debug("no bootstrap admin credentials configured, skipping seed")
		return nil
	}

	queries := New(db)
	email = model.NormalizeEmail(email)

	_, err := queries.GetUserByEmail(ctx, email)
	if err == nil {
		slog.Info("bootstrap admin already exists, skipping seed", "email", email)
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for bootstrap admin: %w", err)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		Name:         "Administrator",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating bootstrap admin: %w", err)
	}

	slog.Info("created bootstrap admin", "id", user.ID, "email", user.Email)
	return nil
}
