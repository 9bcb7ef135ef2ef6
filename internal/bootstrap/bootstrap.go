// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

// Package bootstrap assembles the recommendation stack from configuration.
// cmd/server and cmd/adctl share it so both binaries see the same database,
// model store and engine wiring.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/adcompass/internal/breaker"
	"github.com/tomtom215/adcompass/internal/cache"
	"github.com/tomtom215/adcompass/internal/config"
	"github.com/tomtom215/adcompass/internal/database"
	"github.com/tomtom215/adcompass/internal/metrics"
	"github.com/tomtom215/adcompass/internal/recommend"
	"github.com/tomtom215/adcompass/internal/recommend/storage"
)

// Breaker names, also used as metric labels.
const (
	BreakerDatabase = "duckdb"
	BreakerModels   = "models"
)

// Components holds the wired recommendation stack.
type Components struct {
	DB     *database.DB
	Store  storage.Store
	Models *storage.ModelSource
	Engine *recommend.Engine
	Cache  *cache.ClusterCache // nil when caching is disabled
}

// Build opens the database and model store and wires the engine. On error
// everything opened so far is closed.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Build(cfg *config.Config, logger zerolog.Logger) (*Components, error) {
	engineCfg := cfg.EngineConfig()
	if err := engineCfg.Validate(); err != nil {
		return nil, fmt.Errorf("recommend config: %w", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store, err := storage.Open(cfg.Models.Backend, cfg.Models.Dir)
	if err != nil {
		closeAll(logger, db)
		return nil, fmt.Errorf("open model store: %w", err)
	}

	var dbBreaker, modelBreaker *breaker.Breaker
	if s := cfg.BreakerSettings(); s != nil {
		dbBreaker = breaker.New(BreakerDatabase, *s, nil)
		// A missing bundle is an answer, not an outage.
		modelBreaker = breaker.New(BreakerModels, *s, storage.IsNotFound)
	}
	db.SetBreaker(dbBreaker)
	models := storage.NewModelSource(store, cfg.Models.Backend, modelBreaker)

	engine, err := recommend.NewEngine(engineCfg, logger)
	if err != nil {
		closeAll(logger, store, db)
		return nil, fmt.Errorf("create engine: %w", err)
	}
	engine.SetSources(db, db, models)
	engine.SetObserver(metrics.RecommendObserver{})

	c := &Components{DB: db, Store: store, Models: models, Engine: engine}
	if engineCfg.Cache.Enabled {
		c.Cache = cache.NewClusterCache(engineCfg.Cache.MaxClusters, engineCfg.Cache.TTL)
		engine.SetCache(c.Cache)
	}

	logger.Info().
		Str("database", db.Path()).
		Str("models_backend", cfg.Models.Backend).
		Str("models_dir", cfg.Models.Dir).
		Bool("cache", c.Cache != nil).
		Bool("breakers", dbBreaker != nil).
		Msg("recommendation stack ready")

	return c, nil
}

// Import loads the configured mapping file and cluster directory.
func (c *Components) Import(ctx context.Context, data config.DataConfig) (*database.ImportStats, error) {
	return c.DB.ImportDir(ctx, data.MappingFile, data.ClusterDir, data.ClusterPattern)
}

// Close releases the model store and database.
func (c *Components) Close() error {
	return errors.Join(c.Store.Close(), c.DB.Close())
}

type closer interface {
	Close() error
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func closeAll(logger zerolog.Logger, cs ...closer) {
	for _, c := range cs {
		if err := c.Close(); err != nil {
			logger.Warn().Err(err).Msg("close after failed bootstrap")
		}
	}
}
