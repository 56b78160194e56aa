// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealth(t *testing.T) {
	db := testDB(t)
	h := NewHealthHandler(db)

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}

	var body struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("status = %q; want healthy", body.Status)
	}
	if body.Uptime == "" {
		t.Error("uptime missing")
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	db := testDB(t)
	h := NewHealthHandler(db)
	_ = db.Close()

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d; want 503", w.Code)
	}
}

func TestLiveness(t *testing.T) {
	db := testDB(t)
	h := NewHealthHandler(db)
	_ = db.Close()

	w := httptest.NewRecorder()
	h.Liveness(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	// Liveness only reports that the process runs; a dead database does
	// not fail it.
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
}

func TestReadiness(t *testing.T) {
	db := testDB(t)
	h := NewHealthHandler(db)

	w := httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}

	_ = db.Close()

	w = httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status after close = %d; want 503", w.Code)
	}
}
