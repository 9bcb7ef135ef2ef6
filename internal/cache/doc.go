// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

// Package cache provides the bounded in-memory cache used for fetched
// cluster data.
//
// LRU is generic over key and value, bounded by entry count, and supports
// lazy TTL expiry:
//
//	clusters := cache.NewLRU[int, recommend.ClusterData](1, time.Hour)
//	clusters.Add(7, data)
//	if data, ok := clusters.Get(7); ok {
//	    ...
//	}
//
// All methods are safe for concurrent use.
package cache
