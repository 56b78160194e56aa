// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mailer sends transactional email through an HTTPS mail API.
// When no API credentials are configured, sends are logged and dropped so
// development setups work without a mail account.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	requestTimeout = 30 * time.Second
	maxResponseLen = 10 * 1024 // response body kept for error messages
	userAgent      = "churchsite/1.0"
)

// Message is a single email to deliver.
type Message struct {
	To       string `json:"to"`
	From     string `json:"from"`
	ReplyTo  string `json:"reply_to,omitempty"`
	Subject  string `json:"subject"`
	TextBody string `json:"text_body"`
}

// Client delivers email via an HTTP JSON API using bearer authentication.
type Client struct {
	apiURL string
	apiKey string
	from   string
	http   *http.Client
	logger *slog.Logger
}

// New creates a mail client. An empty apiURL or apiKey produces a client
// that logs messages instead of sending them.
func New(apiURL, apiKey, from string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
		logger: logger,
		http: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Enabled reports whether a mail API is configured.
func (c *Client) Enabled() bool {
	return c.apiURL != "" && c.apiKey != ""
}

// From returns the configured sender address.
func (c *Client) From() string {
	return c.from
}

// Send delivers a single message.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if msg.From == "" {
		msg.From = c.from
	}

	if !c.Enabled() {
		c.logger.Info("mail delivery skipped, no API configured",
			"to", msg.To,
			"subject", msg.Subject,
		)
		return nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mail request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseLen))
		return fmt.Errorf("mail API returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	c.logger.Info("mail delivered",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
