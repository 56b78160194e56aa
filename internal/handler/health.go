// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

// healthCheckTimeout bounds the database probe.
const healthCheckTimeout = 2 * time.Second

// HealthHandler answers health probes for uptime monitoring.
type HealthHandler struct {
	db        *sql.DB
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db, startTime: time.Now()}
}

// healthStatus is the health response body.
type healthStatus struct {
	Status string `json:"status"`
	Uptime string `json:"uptime,omitempty"`
}

// Health reports overall service health. GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if !h.databaseOK(r.Context()) {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(healthStatus{
		Status: status,
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Liveness reports that the process is running. GET /health/live
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthStatus{Status: "alive"})
}

// Readiness reports whether the service can take traffic. GET /health/ready
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !h.databaseOK(r.Context()) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthStatus{Status: "not ready"})
		return
	}
	_ = json.NewEncoder(w).Encode(healthStatus{Status: "ready"})
}

func (h *HealthHandler) databaseOK(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return h.db.PingContext(ctx) == nil
}
