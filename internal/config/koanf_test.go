// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolateEnv points CONFIG_PATH at a missing file and clears every mapped
// variable so host settings cannot leak into a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	for key := range envMappings {
		upper := strings.ToUpper(key)
		if _, ok := os.LookupEnv(upper); ok {
			t.Setenv(upper, "")
			os.Unsetenv(upper)
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8501 {
		t.Errorf("Server.Port = %d, want 8501", cfg.Server.Port)
	}
	if cfg.Database.Path != "/data/adcompass.duckdb" {
		t.Errorf("Database.Path = %q, want /data/adcompass.duckdb", cfg.Database.Path)
	}
	if cfg.Recommend.MinSupport != 10 {
		t.Errorf("Recommend.MinSupport = %d, want 10", cfg.Recommend.MinSupport)
	}
	if cfg.Recommend.TopK != 3 || cfg.Recommend.TopN != 10 {
		t.Errorf("Recommend top sizes = %d/%d, want 3/10", cfg.Recommend.TopK, cfg.Recommend.TopN)
	}
	if cfg.Recommend.Normalization != "minmax" {
		t.Errorf("Recommend.Normalization = %q, want minmax", cfg.Recommend.Normalization)
	}
	if cfg.Recommend.Order != "filter_first" {
		t.Errorf("Recommend.Order = %q, want filter_first", cfg.Recommend.Order)
	}
	if cfg.Cache.MaxClusters != 1 {
		t.Errorf("Cache.MaxClusters = %d, want 1", cfg.Cache.MaxClusters)
	}
	if cfg.Data.ClusterPattern != "IVE_ANALYTICS_CLUSTER_%d.parquet" {
		t.Errorf("Data.ClusterPattern = %q", cfg.Data.ClusterPattern)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"DUCKDB_PATH", "database.path"},
		{"RECOMMEND_MIN_SUPPORT", "recommend.min_support"},
		{"CACHE_MAX_CLUSTERS", "cache.max_clusters"},
		{"MODELS_BACKEND", "models.backend"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolateEnv(t)

	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECOMMEND_MIN_SUPPORT", "5")
	t.Setenv("RECOMMEND_NORMALIZATION", "robust")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.MinSupport != 5 {
		t.Errorf("Recommend.MinSupport = %d, want 5", cfg.Recommend.MinSupport)
	}
	if cfg.Recommend.Normalization != "robust" {
		t.Errorf("Recommend.Normalization = %q, want robust", cfg.Recommend.Normalization)
	}
	if cfg.Cache.TTL != 15*time.Minute {
		t.Errorf("Cache.TTL = %v, want 15m", cfg.Cache.TTL)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}

	// Unset values keep their defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
	if cfg.Recommend.DefaultPolicy != "profit" {
		t.Errorf("Recommend.DefaultPolicy = %q, want profit (default)", cfg.Recommend.DefaultPolicy)
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	isolateEnv(t)

	configContent := `
server:
  port: 8888
  host: "127.0.0.1"

recommend:
  weighting: "equal"
  order: "normalize_first"

models:
  backend: "badger"
  dir: "/tmp/models"

logging:
  level: "warn"
`
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, configPath)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8888 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server = %s, want 127.0.0.1:8888", cfg.Server.Addr())
	}
	if cfg.Recommend.Weighting != "equal" {
		t.Errorf("Recommend.Weighting = %q, want equal", cfg.Recommend.Weighting)
	}
	if cfg.Recommend.Order != "normalize_first" {
		t.Errorf("Recommend.Order = %q, want normalize_first", cfg.Recommend.Order)
	}
	if cfg.Models.Backend != "badger" {
		t.Errorf("Models.Backend = %q, want badger", cfg.Models.Backend)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Database.Path != "/data/adcompass.duckdb" {
		t.Errorf("Database.Path = %q, want default", cfg.Database.Path)
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	isolateEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("server:\n  port: 7000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("HTTP_PORT", "7001")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("Server.Port = %d, want 7001 (env wins)", cfg.Server.Port)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"HTTP_PORT": "70000"}},
		{"bad normalization", map[string]string{"RECOMMEND_NORMALIZATION": "zscore"}},
		{"bad policy", map[string]string{"RECOMMEND_DEFAULT_POLICY": "growth"}},
		{"top_n below top_k", map[string]string{"RECOMMEND_TOP_N": "2"}},
		{"bad backend", map[string]string{"MODELS_BACKEND": "s3"}},
		{"zero clusters", map[string]string{"CACHE_MAX_CLUSTERS": "0"}},
		{"bad failure ratio", map[string]string{"BREAKER_FAILURE_RATIO": "1.5"}},
		{"pattern without placeholder", map[string]string{"DATA_CLUSTER_PATTERN": "cluster.parquet"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadWithKoanf(); err == nil {
				t.Error("LoadWithKoanf() expected validation error")
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	isolateEnv(t)

	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty", got)
	}

	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8501}
	if got := s.Addr(); got != "127.0.0.1:8501" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8501", got)
	}
}
