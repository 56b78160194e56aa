// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"strings"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "CHURCH_SESSION_SECRET", "test-secret-key-32-bytes-long!!!")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/churchsite.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/churchsite.db")
	}
	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.AuditRetentionDays != 180 {
		t.Errorf("AuditRetentionDays = %d, want 180", cfg.AuditRetentionDays)
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if cfg.MailEnabled() {
		t.Error("MailEnabled() = true with no mail config")
	}
	if cfg.AnalyticsEnabled() {
		t.Error("AnalyticsEnabled() = true with no analytics config")
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache() = true with no Redis URL")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "CHURCH_SESSION_SECRET", "custom-secret-key-32-bytes-long!")
	setEnv(t, "CHURCH_DB_PATH", "/custom/path.db")
	setEnv(t, "CHURCH_SERVER_HOST", "0.0.0.0")
	setEnv(t, "CHURCH_SERVER_PORT", "3000")
	setEnv(t, "CHURCH_ENV", "production")
	setEnv(t, "CHURCH_REDIS_URL", "redis://localhost:6379/0")
	setEnv(t, "CHURCH_MAIL_API_URL", "https://mail.example.com/send")
	setEnv(t, "CHURCH_MAIL_API_KEY", "key")
	setEnv(t, "CHURCH_MAIL_FROM", "office@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if got := cfg.ServerAddr(); got != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", got, "0.0.0.0:3000")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true for production env")
	}
	if !cfg.MailEnabled() {
		t.Error("MailEnabled() = false with full mail config")
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() = false with Redis URL set")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail without CHURCH_SESSION_SECRET")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "CHURCH_SESSION_SECRET", "too-short")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should reject a short secret")
	}
	if !strings.Contains(err.Error(), "at least 32 bytes") {
		t.Errorf("error = %v", err)
	}
}

func TestLoad_KnownWeakSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "CHURCH_SESSION_SECRET", "change-me-to-32-byte-secret-key!")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a known default secret")
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"Ab3!defghij", true},
		{"abcdefghijklmnop", false},
		{"abcDEFghiJKL", false},
		{"abc123DEF456", true},
	}

	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
		}
	}
}
