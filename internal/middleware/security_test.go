// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveWithHeaders(cfg SecurityHeadersConfig, target string) *httptest.ResponseRecorder {
	h := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestSecurityHeaders_Production(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	w := serveWithHeaders(cfg, "/")

	hsts := w.Header().Get("Strict-Transport-Security")
	if !strings.Contains(hsts, "max-age=31536000") {
		t.Errorf("HSTS = %q", hsts)
	}
	if !strings.Contains(hsts, "includeSubDomains") {
		t.Errorf("HSTS should cover subdomains in production: %q", hsts)
	}

	csp := w.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "default-src 'self'") {
		t.Errorf("CSP = %q", csp)
	}
	if strings.Contains(csp, "unsafe-eval") {
		t.Error("production CSP must not allow unsafe-eval")
	}

	if got := w.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := w.Header().Get("Referrer-Policy"); got != "strict-origin-when-cross-origin" {
		t.Errorf("Referrer-Policy = %q", got)
	}
	if got := w.Header().Get("Permissions-Policy"); !strings.Contains(got, "camera=()") {
		t.Errorf("Permissions-Policy = %q", got)
	}
}

func TestSecurityHeaders_Development(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(true)
	w := serveWithHeaders(cfg, "/")

	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS should be absent in development, got %q", got)
	}
	if csp := w.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "unsafe-eval") {
		t.Errorf("dev CSP should be permissive, got %q", csp)
	}
}

func TestSecurityHeaders_ExcludePaths(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/static/"}
	w := serveWithHeaders(cfg, "/static/css/site.css")

	if got := w.Header().Get("Content-Security-Policy"); got != "" {
		t.Errorf("excluded path should skip headers, got CSP %q", got)
	}
}

func TestStaticCache(t *testing.T) {
	h := StaticCache(86400)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/js/admin.js", nil))

	if got := w.Header().Get("Cache-Control"); got != "public, max-age=86400" {
		t.Errorf("Cache-Control = %q", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
}

func TestStripTrailingSlash(t *testing.T) {
	h := StripTrailingSlash(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		target       string
		wantStatus   int
		wantLocation string
	}{
		{"/events/", http.StatusMovedPermanently, "/events"},
		{"/events/?page=2", http.StatusMovedPermanently, "/events?page=2"},
		{"/events", http.StatusOK, ""},
		{"/", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d; want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Location"); got != tt.wantLocation {
				t.Errorf("Location = %q; want %q", got, tt.wantLocation)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name      string
		realIP    string
		forwarded string
		remote    string
		want      string
	}{
		{"real ip wins", "203.0.113.9", "198.51.100.1", "10.0.0.1:1234", "203.0.113.9"},
		{"forwarded single", "", "198.51.100.1", "10.0.0.1:1234", "198.51.100.1"},
		{"forwarded chain takes first", "", "198.51.100.1, 10.0.0.2", "10.0.0.1:1234", "198.51.100.1"},
		{"falls back to remote addr", "", "", "10.0.0.1:1234", "10.0.0.1:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := GetClientIP(r); got != tt.want {
				t.Errorf("GetClientIP() = %q; want %q", got, tt.want)
			}
		})
	}
}
