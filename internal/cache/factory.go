// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import "time"

// Options configures cache creation.
type Options struct {
	// RedisURL selects the Redis backend when non-empty
	// (e.g. redis://localhost:6379/0).
	RedisURL string

	// Prefix is the key prefix for the Redis backend.
	Prefix string

	// DefaultTTL is the default TTL for cache entries.
	DefaultTTL time.Duration
}

// New creates a cache from the provided options. A Redis cache is created
// when RedisURL is set, otherwise an in-memory cache.
func New(opts Options) (Cacher, error) {
	if opts.DefaultTTL == 0 {
		opts.DefaultTTL = time.Minute
	}

	if opts.RedisURL != "" {
		return NewRedisCache(opts.RedisURL, opts.Prefix, opts.DefaultTTL)
	}

	return NewMemoryCache(opts.DefaultTTL), nil
}
