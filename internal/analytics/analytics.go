// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

// Package analytics fetches visitor statistics from a Plausible-compatible
// stats API for the admin dashboard.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const requestTimeout = 10 * time.Second

// MonthlyStats holds aggregate visitor numbers for the current month.
type MonthlyStats struct {
	Visitors  int64 `json:"visitors"`
	Pageviews int64 `json:"pageviews"`
}

// Client queries the stats API using bearer authentication.
type Client struct {
	apiURL string
	apiKey string
	siteID string
	http   *http.Client
}

// New creates an analytics client. An empty apiURL or apiKey produces a
// disabled client whose queries return zero stats.
func New(apiURL, apiKey, siteID string) *Client {
	return &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		siteID: siteID,
		http: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Enabled reports whether a stats API is configured.
func (c *Client) Enabled() bool {
	return c.apiURL != "" && c.apiKey != ""
}

// aggregateResponse mirrors the Plausible aggregate endpoint shape.
type aggregateResponse struct {
	Results struct {
		Visitors struct {
			Value int64 `json:"value"`
		} `json:"visitors"`
		Pageviews struct {
			Value int64 `json:"value"`
		} `json:"pageviews"`
	} `json:"results"`
}

// CurrentMonth returns visitor stats for the month to date.
func (c *Client) CurrentMonth(ctx context.Context) (MonthlyStats, error) {
	if !c.Enabled() {
		return MonthlyStats{}, nil
	}

	q := url.Values{}
	q.Set("site_id", c.siteID)
	q.Set("period", "month")
	q.Set("metrics", "visitors,pageviews")

	endpoint := c.apiURL + "/api/v1/stats/aggregate?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return MonthlyStats{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return MonthlyStats{}, fmt.Errorf("stats request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return MonthlyStats{}, fmt.Errorf("stats API returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	var parsed aggregateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return MonthlyStats{}, fmt.Errorf("failed to decode stats response: %w", err)
	}

	return MonthlyStats{
		Visitors:  parsed.Results.Visitors.Value,
		Pageviews: parsed.Results.Pageviews.Value,
	}, nil
}
