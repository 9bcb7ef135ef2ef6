// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

// Package config loads AdCompass configuration from layered sources:
// built-in defaults, an optional YAML file and environment variables, in
// increasing order of precedence. See LoadWithKoanf.
package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Database  DatabaseConfig  `koanf:"database"`
	Data      DataConfig      `koanf:"data"`
	Models    ModelsConfig    `koanf:"models"`
	Recommend RecommendConfig `koanf:"recommend"`
	Cache     CacheConfig     `koanf:"cache"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json, console
	Caller bool   `koanf:"caller"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`       // Empty or ":memory:" opens an in-memory database
	MaxMemory string `koanf:"max_memory"` // DuckDB memory_limit, e.g. "1GB"
	Threads   int    `koanf:"threads"`    // 0 = runtime.NumCPU()
}

// DataConfig locates the cluster mapping table and per-cluster row files.
type DataConfig struct {
	// MappingFile is a parquet or CSV file of (industry, os_type, limit_type, cluster).
	MappingFile string `koanf:"mapping_file"`

	// ClusterDir holds one file per cluster.
	ClusterDir string `koanf:"cluster_dir"`

	// ClusterPattern names a cluster file; %d is replaced by the cluster id.
	ClusterPattern string `koanf:"cluster_pattern"`

	// ImportOnStartup loads MappingFile and ClusterDir before serving.
	ImportOnStartup bool `koanf:"import_on_startup"`
}

// ModelsConfig selects where predictor bundles are stored.
type ModelsConfig struct {
	Backend         string        `koanf:"backend"` // file, badger
	Dir             string        `koanf:"dir"`
	RefreshInterval time.Duration `koanf:"refresh_interval"` // 0 disables the refresh service
}

// RecommendConfig holds ranking pipeline settings.
type RecommendConfig struct {
	MinSupport     int           `koanf:"min_support"`
	TopN           int           `koanf:"top_n"`
	TopK           int           `koanf:"top_k"`
	Normalization  string        `koanf:"normalization"` // minmax, robust
	Degenerate     string        `koanf:"degenerate"`    // zero, midpoint, error
	Order          string        `koanf:"order"`         // filter_first, normalize_first
	Weighting      string        `koanf:"weighting"`     // policy, equal
	DefaultPolicy  string        `koanf:"default_policy"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// CacheConfig bounds the per-cluster data cache.
type CacheConfig struct {
	Enabled     bool          `koanf:"enabled"`
	MaxClusters int           `koanf:"max_clusters"`
	TTL         time.Duration `koanf:"ttl"`
}

// BreakerConfig configures the circuit breakers guarding data and model fetches.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"` // Allowed in half-open state
	Interval     time.Duration `koanf:"interval"`     // Closed-state counter reset period
	Timeout      time.Duration `koanf:"timeout"`      // Open-state duration before half-open
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// Load reads configuration from defaults, the optional config file and the
// environment. It is the entry point used by cmd/server and cmd/adctl.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
