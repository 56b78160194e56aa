// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/gracechapel/churchsite/internal/auth"
	"github.com/gracechapel/churchsite/internal/middleware"
	"github.com/gracechapel/churchsite/internal/model"
	"github.com/gracechapel/churchsite/internal/render"
	"github.com/gracechapel/churchsite/internal/siteconfig"
	"github.com/gracechapel/churchsite/internal/store"
	"github.com/gracechapel/churchsite/internal/testutil"
	"github.com/gracechapel/churchsite/web"
)

// testDB opens a migrated temporary database.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return db
}

// testSessionManager returns an in-memory session manager.
func testSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()

	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	return sm
}

// testSite returns a minimal valid church identity document.
func testSite() *siteconfig.Site {
	return &siteconfig.Site{
		Name:    "Grace Chapel",
		Tagline: "A church family for everyone",
		Address: siteconfig.Address{
			Street: "100 Chapel Lane",
			City:   "Springfield",
			State:  "OH",
			Zip:    "45501",
		},
		Phone: "(555) 555-0100",
		Email: "office@example.com",
		ServiceTimes: []siteconfig.ServiceTime{
			{Day: "Sunday", Time: "10:00", Label: "Worship Service"},
		},
	}
}

// testRenderer parses the real embedded templates so handler tests exercise
// the same rendering path as production.
func testRenderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()

	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templates,
		SessionManager: sm,
		Site:           testSite(),
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return renderer
}

// createAdminUser inserts an admin account with the given password.
func createAdminUser(t *testing.T, db *sql.DB, email, password string) model.User {
	t.Helper()
	return createUserWithRole(t, db, email, password, model.RoleAdmin)
}

func createUserWithRole(t *testing.T, db *sql.DB, email, password, role string) model.User {
	t.Helper()

	hash := ""
	if password != "" {
		var err error
		hash, err = auth.HashPassword(password)
		if err != nil {
			t.Fatalf("HashPassword: %v", err)
		}
	}

	now := time.Now()
	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         "Test User",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

// doRequest runs a request through the session middleware and returns the
// recorded response.
func doRequest(sm *scs.SessionManager, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	sm.LoadAndSave(h).ServeHTTP(w, req)
	return w
}

// sessionUserID extracts the stored user ID from the response's session
// cookie by replaying it through the session middleware.
func sessionUserID(t *testing.T, sm *scs.SessionManager, res *http.Response) int64 {
	t.Helper()

	var userID int64
	probe := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID = sm.GetInt64(r.Context(), middleware.SessionKeyUserID)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	for _, c := range res.Cookies() {
		req.AddCookie(c)
	}
	doRequest(sm, probe, req)
	return userID
}
