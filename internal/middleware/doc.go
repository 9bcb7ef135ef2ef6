// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

// Package middleware provides the HTTP middleware shared by the API router.
//
// Every middleware has the chi signature func(http.Handler) http.Handler:
//
//   - RequestID: reads or generates X-Request-ID and stores it in the
//     request context for logging
//   - AccessLog: logs one line per request through the context logger
//   - PrometheusMetrics: request count, latency and in-flight gauge,
//     labelled by chi route pattern so path parameters do not explode
//     label cardinality
//   - SecurityHeaders: nosniff, frame denial, referrer policy and HSTS
//     behind TLS
package middleware
