// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/gracechapel/churchsite/internal/mailer"
	"github.com/gracechapel/churchsite/internal/middleware"
	"github.com/gracechapel/churchsite/internal/model"
	"github.com/gracechapel/churchsite/internal/store"
	"github.com/gracechapel/churchsite/internal/testutil"
)

func newUsersHandler(t *testing.T) (*UsersHandler, *store.Queries, *sql.DB, *scs.SessionManager) {
	t.Helper()

	db := testDB(t)
	sm := testSessionManager(t)
	renderer := testRenderer(t, sm)
	// An unconfigured mail client logs instead of sending.
	mail := mailer.New("", "", "office@example.com", testutil.TestLogger())

	return NewUsersHandler(db, renderer, mail, "https://gracechapel.example.com"), store.New(db), db, sm
}

func userCreateRequest(email, name, password string) *http.Request {
	form := url.Values{}
	form.Set("email", email)
	form.Set("name", name)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/admin/users", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// requestWithUser attaches an authenticated user the way the auth
// middleware does.
func requestWithUser(req *http.Request, user model.User) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyUser, user)
	return req.WithContext(ctx)
}

func TestUsersCreate_WithPassword(t *testing.T) {
	h, q, _, sm := newUsersHandler(t)

	w := doRequest(sm, http.HandlerFunc(h.Create), userCreateRequest("NewAdmin@example.com", "New Admin", "longenoughpw"))

	if loc := w.Header().Get("Location"); loc != "/admin/users" {
		t.Fatalf("redirect = %q; want /admin/users", loc)
	}

	user, err := q.GetUserByEmail(context.Background(), "newadmin@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if !user.IsAdmin() {
		t.Error("created user should be an admin")
	}
	if user.InvitePending() {
		t.Error("account with a password is active, not invited")
	}
	if user.PasswordHash == "" {
		t.Error("password hash missing")
	}
}

func TestUsersCreate_WithoutPasswordInvites(t *testing.T) {
	h, q, _, sm := newUsersHandler(t)

	w := doRequest(sm, http.HandlerFunc(h.Create), userCreateRequest("NewAdmin@example.com", "New Admin", ""))

	if loc := w.Header().Get("Location"); loc != "/admin/users" {
		t.Fatalf("redirect = %q; want /admin/users", loc)
	}

	// The email is stored lowercased and the account waits on its invite.
	user, err := q.GetUserByEmail(context.Background(), "newadmin@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if !user.InvitePending() {
		t.Error("account without a password should have a pending invite")
	}
	if !user.InviteToken.Valid || user.InviteToken.String == "" {
		t.Error("invite token missing")
	}
	if !user.InviteSentAt.Valid {
		t.Error("invite sent timestamp missing")
	}
}

func TestUsersCreate_PromotesExistingAccount(t *testing.T) {
	h, q, db, sm := newUsersHandler(t)

	existing := createUserWithRole(t, db, "member@example.com", "changeme", "member")

	doRequest(sm, http.HandlerFunc(h.Create), userCreateRequest("Member@Example.com", "Member", ""))

	promoted, err := q.GetUserByID(context.Background(), existing.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if !promoted.IsAdmin() {
		t.Error("existing account should be promoted instead of duplicated")
	}

	count, err := q.CountUsers(context.Background())
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 1 {
		t.Errorf("user count = %d; want 1 (no duplicate created)", count)
	}
}

func TestUsersCreate_AlreadyAdmin(t *testing.T) {
	h, q, db, sm := newUsersHandler(t)

	createAdminUser(t, db, "pastor@example.com", "changeme")

	w := doRequest(sm, http.HandlerFunc(h.Create), userCreateRequest("pastor@example.com", "Pastor", ""))

	if loc := w.Header().Get("Location"); loc != "/admin/users" {
		t.Errorf("redirect = %q", loc)
	}
	count, err := q.CountUsers(context.Background())
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 1 {
		t.Errorf("user count = %d; want 1", count)
	}
}

func TestUsersCreate_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		userName string
		password string
	}{
		{"missing email", "", "Name", ""},
		{"missing name", "a@example.com", "", ""},
		{"invalid email", "not-an-email", "Name", ""},
		{"short password", "a@example.com", "Name", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, q, _, sm := newUsersHandler(t)

			w := doRequest(sm, http.HandlerFunc(h.Create), userCreateRequest(tt.email, tt.userName, tt.password))

			if loc := w.Header().Get("Location"); loc != "/admin/users/new" {
				t.Errorf("redirect = %q; want back to the form", loc)
			}
			count, err := q.CountUsers(context.Background())
			if err != nil {
				t.Fatalf("CountUsers: %v", err)
			}
			if count != 0 {
				t.Errorf("rejected submission created %d users", count)
			}
		})
	}
}

func TestUsersDelete_SelfDeleteGuard(t *testing.T) {
	h, q, db, sm := newUsersHandler(t)

	self := createAdminUser(t, db, "self@example.com", "changeme")

	r := chi.NewRouter()
	r.Post("/admin/users/{id}/delete", func(w http.ResponseWriter, req *http.Request) {
		h.Delete(w, requestWithUser(req, self))
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/users/"+strconv.FormatInt(self.ID, 10)+"/delete", nil)
	doRequest(sm, r, req)

	if _, err := q.GetUserByID(context.Background(), self.ID); err != nil {
		t.Error("account should survive a self-delete attempt")
	}
}

func TestUsersDelete_RemovesOtherAccount(t *testing.T) {
	h, q, db, sm := newUsersHandler(t)

	actor := createAdminUser(t, db, "actor@example.com", "changeme")
	victim := createAdminUser(t, db, "other@example.com", "changeme")

	r := chi.NewRouter()
	r.Post("/admin/users/{id}/delete", func(w http.ResponseWriter, req *http.Request) {
		h.Delete(w, requestWithUser(req, actor))
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/users/"+strconv.FormatInt(victim.ID, 10)+"/delete", nil)
	doRequest(sm, r, req)

	if _, err := q.GetUserByID(context.Background(), victim.ID); !store.IsNotFound(err) {
		t.Errorf("deleted account should be gone, got %v", err)
	}
}
