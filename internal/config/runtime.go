// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package config

import (
	"github.com/tomtom215/adcompass/internal/breaker"
	"github.com/tomtom215/adcompass/internal/recommend"
)

// EngineConfig converts the recommend and cache sections into the engine's
// configuration. The result still needs recommend.Config.Validate.
func (c *Config) EngineConfig() *recommend.Config {
	r := c.Recommend
	return &recommend.Config{
		Pipeline: recommend.Options{
			MinSupport:    r.MinSupport,
			TopK:          r.TopK,
			TopN:          r.TopN,
			Normalization: recommend.NormalizationStrategy(r.Normalization),
			Degenerate:    recommend.DegeneratePolicy(r.Degenerate),
			Order:         recommend.Order(r.Order),
			Weighting:     recommend.WeightingMode(r.Weighting),
		},
		DefaultPolicy:  recommend.Policy(r.DefaultPolicy),
		RequestTimeout: r.RequestTimeout,
		Cache: recommend.CacheConfig{
			Enabled:     c.Cache.Enabled,
			MaxClusters: c.Cache.MaxClusters,
			TTL:         c.Cache.TTL,
		},
	}
}

// BreakerSettings returns the breaker settings, or nil when breakers are
// disabled.
func (c *Config) BreakerSettings() *breaker.Settings {
	if !c.Breaker.Enabled {
		return nil
	}
	return &breaker.Settings{
		MaxRequests:  c.Breaker.MaxRequests,
		Interval:     c.Breaker.Interval,
		Timeout:      c.Breaker.Timeout,
		MinRequests:  c.Breaker.MinRequests,
		FailureRatio: c.Breaker.FailureRatio,
	}
}
