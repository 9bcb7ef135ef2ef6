// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/adcompass/internal/middleware"
)

// apiPrefix is the versioned API mount point.
const apiPrefix = "/api/v1"

// compressionLevel is the gzip level for JSON responses.
const compressionLevel = 5

// NewRouter builds the chi router.
//
// The request id middleware runs first so every later log line carries it.
// Health probes and /metrics sit outside the rate limiter.
func NewRouter(h *Handler, mwCfg *ChiMiddlewareConfig) chi.Router {
	chiMw := NewChiMiddleware(mwCfg)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.SecurityHeaders)
	r.Use(chiMw.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route(apiPrefix, func(r chi.Router) {
		r.Get("/health/live", h.Live)
		r.Get("/health/ready", h.Ready)

		r.Group(func(r chi.Router) {
			r.Use(chiMw.RateLimit())
			r.Use(chimiddleware.Compress(compressionLevel, "application/json"))

			r.Get("/options", h.GetOptions)
			r.Get("/clusters/lookup", h.LookupCluster)
			r.Get("/clusters/{id}/summary", h.ClusterSummary)
			r.Get("/recommendations", h.GetRecommendations)
			r.Post("/recommendations", h.PostRecommendations)
		})
	})

	return r
}
