// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

// Package main is the AdCompass HTTP server.
//
// Startup order:
//
//  1. Configuration: defaults, optional YAML file, environment (koanf v2)
//  2. Logging: zerolog, level and format from config
//  3. Recommendation stack: DuckDB, model store, breakers, cluster cache, engine
//  4. Optional import of the mapping file and cluster files
//  5. Supervisor tree: HTTP server (api layer) and refresh service (data layer)
//
// SIGINT and SIGTERM cancel the tree; the HTTP server drains within
// server.shutdown_timeout and the database is checkpointed on close.
//
// Example:
//
//	export DATABASE_PATH=/data/adcompass.duckdb
//	export DATA_IMPORT_ON_STARTUP=true
//	export MODELS_BACKEND=badger
//	./adcompass-server
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/adcompass/internal/api"
	"github.com/tomtom215/adcompass/internal/bootstrap"
	"github.com/tomtom215/adcompass/internal/config"
	"github.com/tomtom215/adcompass/internal/logging"
	"github.com/tomtom215/adcompass/internal/recommend"
	"github.com/tomtom215/adcompass/internal/supervisor"
	"github.com/tomtom215/adcompass/internal/supervisor/services"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("db_path", cfg.Database.Path).
		Str("models_backend", cfg.Models.Backend).
		Msg("Starting AdCompass")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	comp, err := bootstrap.Build(cfg, logging.Logger())
	if err != nil {
		logging.Error().Err(err).Msg("Failed to build recommendation stack")
		return 1
	}
	defer func() {
		if err := comp.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing recommendation stack")
		}
	}()

	if cfg.Data.ImportOnStartup {
		if _, err := comp.Import(ctx, cfg.Data); err != nil {
			logging.Error().Err(err).Msg("Startup import failed")
			return 1
		}
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + time.Second,
	})

	handler := api.NewHandler(comp.Engine, comp.DB, dashboardDefaults(cfg))
	router := api.NewRouter(handler, api.MiddlewareConfigFromSecurity(cfg.Security))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPService(server, server.Addr, cfg.Server.ShutdownTimeout, logging.Logger()))

	if cfg.Models.RefreshInterval > 0 {
		var reload services.ImportFunc
		if cfg.Data.ImportOnStartup {
			reload = func(ctx context.Context) error {
				_, err := comp.Import(ctx, cfg.Data)
				return err
			}
		}
		tree.AddDataService(services.NewRefreshService(comp.Engine, reload,
			services.RefreshConfig{Interval: cfg.Models.RefreshInterval}, logging.Logger()))
	}

	logging.Info().Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
		return 1
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("AdCompass stopped")
	return 0
}

// dashboardDefaults keeps the dashboard's preselected selection and uses the
// configured default policy.
func dashboardDefaults(cfg *config.Config) api.Defaults {
	d := api.DefaultSelection()
	d.Policy = recommend.Policy(cfg.Recommend.DefaultPolicy)
	return d
}
