// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package cache

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/adcompass/internal/metrics"
	"github.com/tomtom215/adcompass/internal/recommend"
)

var _ recommend.ClusterCache = (*ClusterCache)(nil)

func TestClusterCache_EvictionCounted(t *testing.T) {
	counter := metrics.CacheEvictions.WithLabelValues(metrics.CacheTypeCluster)
	before := testutil.ToFloat64(counter)

	c := NewClusterCache(1, time.Hour)
	c.Add(1, recommend.ClusterData{Rows: []recommend.HistoricalRow{{Shape: "a"}}})
	c.Add(2, recommend.ClusterData{})

	if _, ok := c.Get(1); ok {
		t.Error("cluster 1 should have been evicted")
	}
	if _, ok := c.Get(2); !ok {
		t.Error("cluster 2 should be cached")
	}
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("evictions delta = %v, want 1", got)
	}

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() after Purge = %d, want 0", c.Len())
	}
}
