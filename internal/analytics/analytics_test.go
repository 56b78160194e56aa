// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCurrentMonth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/stats/aggregate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer stats-key" {
			t.Errorf("Authorization = %q", got)
		}
		q := r.URL.Query()
		if q.Get("site_id") != "gracechapel.example.com" {
			t.Errorf("site_id = %q", q.Get("site_id"))
		}
		if q.Get("period") != "month" {
			t.Errorf("period = %q", q.Get("period"))
		}
		if q.Get("metrics") != "visitors,pageviews" {
			t.Errorf("metrics = %q", q.Get("metrics"))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":{"visitors":{"value":412},"pageviews":{"value":1893}}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "stats-key", "gracechapel.example.com")
	stats, err := c.CurrentMonth(context.Background())
	if err != nil {
		t.Fatalf("CurrentMonth: %v", err)
	}
	if stats.Visitors != 412 {
		t.Errorf("visitors = %d; want 412", stats.Visitors)
	}
	if stats.Pageviews != 1893 {
		t.Errorf("pageviews = %d; want 1893", stats.Pageviews)
	}
}

func TestCurrentMonth_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid key"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-key", "gracechapel.example.com")
	_, err := c.CurrentMonth(context.Background())
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestCurrentMonth_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := New(srv.URL, "key", "site")
	if _, err := c.CurrentMonth(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestCurrentMonth_DisabledReturnsZero(t *testing.T) {
	c := New("", "", "")
	if c.Enabled() {
		t.Fatal("client without credentials should report disabled")
	}
	stats, err := c.CurrentMonth(context.Background())
	if err != nil {
		t.Fatalf("disabled client should not error: %v", err)
	}
	if stats != (MonthlyStats{}) {
		t.Errorf("stats = %+v; want zero", stats)
	}
}
