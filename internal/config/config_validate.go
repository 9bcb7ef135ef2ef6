// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package config

import (
	"fmt"
	"strings"
)

// Validate checks that configuration values are present and consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateData(); err != nil {
		return err
	}
	if err := c.validateModels(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateBreaker(); err != nil {
		return err
	}
	return c.validateSecurity()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP read and write timeouts must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if err := oneOf("LOG_LEVEL", strings.ToLower(c.Logging.Level),
		"trace", "debug", "info", "warn", "warning", "error"); err != nil {
		return err
	}
	return oneOf("LOG_FORMAT", c.Logging.Format, "json", "console")
}

func (c *Config) validateData() error {
	if c.Data.ImportOnStartup {
		if c.Data.MappingFile == "" {
			return fmt.Errorf("DATA_MAPPING_FILE is required when DATA_IMPORT_ON_STARTUP=true")
		}
		if c.Data.ClusterDir == "" {
			return fmt.Errorf("DATA_CLUSTER_DIR is required when DATA_IMPORT_ON_STARTUP=true")
		}
	}
	if strings.Count(c.Data.ClusterPattern, "%d") != 1 {
		return fmt.Errorf("DATA_CLUSTER_PATTERN must contain exactly one %%d, got %q", c.Data.ClusterPattern)
	}
	return nil
}

func (c *Config) validateModels() error {
	if err := oneOf("MODELS_BACKEND", c.Models.Backend, "file", "badger"); err != nil {
		return err
	}
	if c.Models.Dir == "" {
		return fmt.Errorf("MODELS_DIR is required")
	}
	if c.Models.RefreshInterval < 0 {
		return fmt.Errorf("MODELS_REFRESH_INTERVAL must be non-negative, got %v", c.Models.RefreshInterval)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.MinSupport < 1 {
		return fmt.Errorf("RECOMMEND_MIN_SUPPORT must be positive, got %d", r.MinSupport)
	}
	if r.TopK < 1 {
		return fmt.Errorf("RECOMMEND_TOP_K must be positive, got %d", r.TopK)
	}
	if r.TopN < r.TopK {
		return fmt.Errorf("RECOMMEND_TOP_N (%d) must be >= RECOMMEND_TOP_K (%d)", r.TopN, r.TopK)
	}
	if err := oneOf("RECOMMEND_NORMALIZATION", r.Normalization, "minmax", "robust"); err != nil {
		return err
	}
	if err := oneOf("RECOMMEND_DEGENERATE", r.Degenerate, "zero", "midpoint", "error"); err != nil {
		return err
	}
	if err := oneOf("RECOMMEND_ORDER", r.Order, "filter_first", "normalize_first"); err != nil {
		return err
	}
	if err := oneOf("RECOMMEND_WEIGHTING", r.Weighting, "policy", "equal"); err != nil {
		return err
	}
	if err := oneOf("RECOMMEND_DEFAULT_POLICY", r.DefaultPolicy, "profit", "cost", "stability", "equal"); err != nil {
		return err
	}
	if r.RequestTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_REQUEST_TIMEOUT must be positive, got %v", r.RequestTimeout)
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.MaxClusters < 1 {
		return fmt.Errorf("CACHE_MAX_CLUSTERS must be positive, got %d", c.Cache.MaxClusters)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("CACHE_TTL must be non-negative, got %v", c.Cache.TTL)
	}
	return nil
}

func (c *Config) validateBreaker() error {
	if !c.Breaker.Enabled {
		return nil
	}
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1], got %v", c.Breaker.FailureRatio)
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive, got %v", c.Breaker.Timeout)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func oneOf(name, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", name, strings.Join(allowed, ", "), value)
}
