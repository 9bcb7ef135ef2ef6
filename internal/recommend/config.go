// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package recommend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Order selects whether the support filter runs before normalization.
type Order string

const (
	// OrderFilterFirst normalizes over supported candidates only.
	OrderFilterFirst Order = "filter_first"

	// OrderNormalizeFirst normalizes over every candidate, then filters.
	OrderNormalizeFirst Order = "normalize_first"
)

// Options configures one Pipeline.
type Options struct {
	// MinSupport is the minimum historical row count per configuration.
	// Default: 10.
	MinSupport int `json:"min_support"`

	// TopK is the size of the labelled, share-bearing slice.
	// Default: 3.
	TopK int `json:"top_k"`

	// TopN is the size of the full ranked table.
	// Default: 10.
	TopN int `json:"top_n"`

	// Normalization is the rescaling strategy.
	// Default: minmax.
	Normalization NormalizationStrategy `json:"normalization"`

	// Degenerate is the output for a metric with zero spread.
	// Default: zero.
	Degenerate DegeneratePolicy `json:"degenerate"`

	// Order is the filter-vs-normalize order.
	// Default: filter_first.
	Order Order `json:"order"`

	// Weighting selects policy-driven or always-equal weights.
	// Default: policy.
	Weighting WeightingMode `json:"weighting"`
}

// DefaultOptions returns the production pipeline options.
func DefaultOptions() Options {
	return Options{
		MinSupport:    DefaultMinSupport,
		TopK:          DefaultTopK,
		TopN:          DefaultTopN,
		Normalization: NormalizeMinMax,
		Degenerate:    DegenerateZero,
		Order:         OrderFilterFirst,
		Weighting:     WeightingPolicy,
	}
}

// Validate checks the options for consistency.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (o Options) Validate() error {
	if o.MinSupport < 1 {
		return fmt.Errorf("min_support must be positive, got %d", o.MinSupport)
	}
	if o.TopK < 1 {
		return fmt.Errorf("top_k must be positive, got %d", o.TopK)
	}
	if o.TopN < o.TopK {
		return fmt.Errorf("top_n must be >= top_k (%d), got %d", o.TopK, o.TopN)
	}
	if _, err := NewNormalizer(o.Normalization, o.Degenerate); err != nil {
		return err
	}
	switch o.Order {
	case OrderFilterFirst, OrderNormalizeFirst:
	default:
		return fmt.Errorf("order must be %q or %q, got %q", OrderFilterFirst, OrderNormalizeFirst, o.Order)
	}
	switch o.Weighting {
	case WeightingPolicy, WeightingEqual:
	default:
		return fmt.Errorf("weighting must be %q or %q, got %q", WeightingPolicy, WeightingEqual, o.Weighting)
	}
	return nil
}

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Pipeline is passed to every pipeline run.
	Pipeline Options `json:"pipeline"`

	// DefaultPolicy applies when a request names no policy.
	// Default: profit.
	DefaultPolicy Policy `json:"default_policy"`

	// RequestTimeout bounds one Recommend call, including fetches.
	// Default: 10s.
	RequestTimeout time.Duration `json:"request_timeout"`

	// Cache contains cluster cache parameters.
	Cache CacheConfig `json:"cache"`
}

// CacheConfig contains caching parameters for fetched cluster data.
type CacheConfig struct {
	// Enabled controls whether caching is active.
	// Default: true.
	Enabled bool `json:"enabled"`

	// MaxClusters bounds how many clusters are held at once.
	// Default: 1.
	MaxClusters int `json:"max_clusters"`

	// TTL is the cache entry time-to-live.
	// Default: 1h.
	TTL time.Duration `json:"ttl"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Pipeline:       DefaultOptions(),
		DefaultPolicy:  PolicyProfit,
		RequestTimeout: 10 * time.Second,
		Cache: CacheConfig{
			Enabled:     true,
			MaxClusters: 1,
			TTL:         time.Hour,
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := c.Pipeline.Validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if _, err := WeightsFor(c.DefaultPolicy); err != nil {
		return fmt.Errorf("default_policy: %w", err)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", c.RequestTimeout)
	}
	if c.Cache.Enabled {
		if c.Cache.MaxClusters < 1 {
			return fmt.Errorf("cache.max_clusters must be positive, got %d", c.Cache.MaxClusters)
		}
		if c.Cache.TTL < 0 {
			return fmt.Errorf("cache.ttl must be non-negative, got %v", c.Cache.TTL)
		}
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type cacheJSON struct {
		Enabled     bool   `json:"enabled"`
		MaxClusters int    `json:"max_clusters"`
		TTL         string `json:"ttl"`
	}
	return json.Marshal(&struct {
		Pipeline       Options   `json:"pipeline"`
		DefaultPolicy  Policy    `json:"default_policy"`
		RequestTimeout string    `json:"request_timeout"`
		Cache          cacheJSON `json:"cache"`
	}{
		Pipeline:       c.Pipeline,
		DefaultPolicy:  c.DefaultPolicy,
		RequestTimeout: c.RequestTimeout.String(),
		Cache: cacheJSON{
			Enabled:     c.Cache.Enabled,
			MaxClusters: c.Cache.MaxClusters,
			TTL:         c.Cache.TTL.String(),
		},
	})
}
