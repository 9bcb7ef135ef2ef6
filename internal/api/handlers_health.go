// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/adcompass/internal/recommend"
)

// readyTimeout bounds the readiness database ping.
const readyTimeout = 2 * time.Second

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime"`
	Checks map[string]string `json:"checks,omitempty"`
	Engine *recommend.Stats  `json:"engine,omitempty"`
}

// Live handles GET /api/v1/health/live. It never touches dependencies.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ready handles GET /api/v1/health/ready.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Database unavailable",
			map[string]string{"database": err.Error()})
		return
	}

	stats := h.recommender.Stats()
	rw.Success(HealthResponse{
		Status: "ready",
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
		Checks: map[string]string{"database": "ok"},
		Engine: &stats,
	})
}
