// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package cache

import (
	"time"

	"github.com/tomtom215/adcompass/internal/metrics"
	"github.com/tomtom215/adcompass/internal/recommend"
)

// ClusterCache is the engine's fetched-cluster cache. It satisfies
// recommend.ClusterCache.
type ClusterCache = LRU[int, recommend.ClusterData]

// NewClusterCache returns a cache of at most maxClusters entries that
// counts evictions in metrics.
func NewClusterCache(maxClusters int, ttl time.Duration) *ClusterCache {
	return NewLRU[int, recommend.ClusterData](maxClusters, ttl,
		WithEvictCallback(func(int, recommend.ClusterData) {
			metrics.CacheEvictions.WithLabelValues(metrics.CacheTypeCluster).Inc()
		}),
	)
}
