// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/gracechapel/churchsite/internal/model"
)

const userColumns = `id, email, password_hash, role, name, invite_token,
	invite_sent_at, created_at, updated_at, last_login_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Name, &u.InviteToken,
		&u.InviteSentAt, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt,
	)
	return u, err
}

// GetUserByID fetches a user by primary key.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail fetches a user by normalized email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, model.NormalizeEmail(email))
	return scanUser(row)
}

// GetUserByInviteToken fetches a user by their pending invite token.
func (q *Queries) GetUserByInviteToken(ctx context.Context, token string) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE invite_token = ? AND password_hash = ''`, token)
	return scanUser(row)
}

// ListUsersParams holds pagination parameters for ListUsers.
type ListUsersParams struct {
	Limit  int64
	Offset int64
}

// ListUsers returns users ordered by creation time, newest first.
func (q *Queries) ListUsers(ctx context.Context, arg ListUsersParams) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountUsers returns the total number of users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// CreateUserParams holds the fields for CreateUser.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Role         string
	Name         string
	InviteToken  sql.NullString
	InviteSentAt sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser inserts a user and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, role, name, invite_token, invite_sent_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		model.NormalizeEmail(arg.Email), arg.PasswordHash, arg.Role, arg.Name,
		arg.InviteToken, arg.InviteSentAt, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return q.GetUserByID(ctx, id)
}

// UpdateUserParams holds the fields for UpdateUser.
type UpdateUserParams struct {
	Email     string
	Name      string
	Role      string
	UpdatedAt time.Time
	ID        int64
}

// UpdateUser updates a user's mutable profile fields.
func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET email = ?, name = ?, role = ?, updated_at = ? WHERE id = ?`,
		model.NormalizeEmail(arg.Email), arg.Name, arg.Role, arg.UpdatedAt, arg.ID)
	return err
}

// UpdateUserPasswordParams holds the fields for UpdateUserPassword.
type UpdateUserPasswordParams struct {
	PasswordHash string
	UpdatedAt    time.Time
	ID           int64
}

// UpdateUserPassword sets a new password hash and clears any pending invite.
func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, invite_token = NULL, updated_at = ? WHERE id = ?`,
		arg.PasswordHash, arg.UpdatedAt, arg.ID)
	return err
}

// UpdateUserInviteParams holds the fields for UpdateUserInvite.
type UpdateUserInviteParams struct {
	InviteToken  sql.NullString
	InviteSentAt sql.NullTime
	UpdatedAt    time.Time
	ID           int64
}

// UpdateUserInvite replaces a pending invite token, invalidating any
// previously sent link.
func (q *Queries) UpdateUserInvite(ctx context.Context, arg UpdateUserInviteParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET invite_token = ?, invite_sent_at = ?, updated_at = ? WHERE id = ?`,
		arg.InviteToken, arg.InviteSentAt, arg.UpdatedAt, arg.ID)
	return err
}

// UpdateUserRoleParams holds the fields for UpdateUserRole.
type UpdateUserRoleParams struct {
	Role      string
	UpdatedAt time.Time
	ID        int64
}

// UpdateUserRole changes a user's role. Used by the direct-promotion
// admin-creation strategy.
func (q *Queries) UpdateUserRole(ctx context.Context, arg UpdateUserRoleParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		arg.Role, arg.UpdatedAt, arg.ID)
	return err
}

// UpdateUserLastLoginParams holds the fields for UpdateUserLastLogin.
type UpdateUserLastLoginParams struct {
	LastLoginAt sql.NullTime
	ID          int64
}

// UpdateUserLastLogin records a successful sign-in.
func (q *Queries) UpdateUserLastLogin(ctx context.Context, arg UpdateUserLastLoginParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, arg.LastLoginAt, arg.ID)
	return err
}

// DeleteUser removes a user.
func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}
