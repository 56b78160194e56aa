// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"CHURCH_DB_PATH" envDefault:"./data/churchsite.db"`
	SessionSecret string `env:"CHURCH_SESSION_SECRET,required"`
	ServerHost    string `env:"CHURCH_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"CHURCH_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"CHURCH_ENV" envDefault:"development"`
	LogLevel      string `env:"CHURCH_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"CHURCH_UPLOADS_DIR" envDefault:"./uploads"`
	SiteConfig    string `env:"CHURCH_SITE_CONFIG" envDefault:"./site.json"`
	BaseURL       string `env:"CHURCH_BASE_URL" envDefault:"http://localhost:8080"`

	// Bootstrap admin credentials (optional; seeded once on first start)
	AdminEmail    string `env:"CHURCH_ADMIN_EMAIL"`
	AdminPassword string `env:"CHURCH_ADMIN_PASSWORD"`

	// Transactional email provider
	MailAPIURL  string `env:"CHURCH_MAIL_API_URL"`
	MailAPIKey  string `env:"CHURCH_MAIL_API_KEY"`
	MailFrom    string `env:"CHURCH_MAIL_FROM"`
	OfficeEmail string `env:"CHURCH_OFFICE_EMAIL"`

	// Analytics provider (monthly visitors widget)
	AnalyticsAPIURL string `env:"CHURCH_ANALYTICS_API_URL"`
	AnalyticsAPIKey string `env:"CHURCH_ANALYTICS_API_KEY"`
	AnalyticsSiteID string `env:"CHURCH_ANALYTICS_SITE_ID"`

	// Cache configuration
	RedisURL    string `env:"CHURCH_REDIS_URL"`                       // Optional Redis URL for shared caching
	CachePrefix string `env:"CHURCH_CACHE_PREFIX" envDefault:"chs:"`  // Redis key prefix
	CacheTTL    int    `env:"CHURCH_CACHE_TTL" envDefault:"60"`       // Default cache TTL in seconds

	// Audit log retention, in days. Entries older than this are pruned nightly.
	AuditRetentionDays int `env:"CHURCH_AUDIT_RETENTION_DAYS" envDefault:"180"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// MailEnabled returns true if the transactional email provider is configured.
func (c Config) MailEnabled() bool {
	return c.MailAPIURL != "" && c.MailAPIKey != "" && c.MailFrom != ""
}

// AnalyticsEnabled returns true if the analytics provider is configured.
func (c Config) AnalyticsEnabled() bool {
	return c.AnalyticsAPIURL != "" && c.AnalyticsAPIKey != ""
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("CHURCH_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("CHURCH_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("CHURCH_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
