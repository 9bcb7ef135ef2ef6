// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

// Package api serves the AdCompass HTTP API.
//
// All endpoints live under /api/v1 and answer with the APIResponse
// envelope:
//
//	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
//	{"success": false, "error": {"code": "NO_DATA", "message": "..."}, "meta": {...}}
//
// Routes:
//
//	GET      /api/v1/health/live
//	GET      /api/v1/health/ready
//	GET      /api/v1/options
//	GET      /api/v1/clusters/lookup?industry=&os_type=&limit_type=
//	GET      /api/v1/clusters/{id}/summary
//	GET|POST /api/v1/recommendations
//	GET      /metrics
//
// Recommendation errors map to a status and code in errorStatus; handlers
// never choose status codes for engine errors themselves.
package api
