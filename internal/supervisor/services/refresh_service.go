// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/adcompass/internal/metrics"
)

// CachePurger drops cached cluster data. *recommend.Engine implements it.
type CachePurger interface {
	PurgeCache()
}

// ImportFunc reloads source data into the database.
type ImportFunc func(ctx context.Context) error

// Refresh results.
const (
	RefreshSuccess = "success"
	RefreshError   = "error"
)

// RefreshConfig controls the refresh cycle.
type RefreshConfig struct {
	// Interval between cycles. Values <= 0 use one hour.
	Interval time.Duration

	// ImportTimeout bounds one reimport. Values <= 0 use ten minutes.
	ImportTimeout time.Duration
}

// RefreshService periodically reimports source data (when an ImportFunc is
// set) and purges the cluster cache so new rows and model bundles are
// picked up on the next request.
type RefreshService struct {
	purger  CachePurger
	reload  ImportFunc
	config  RefreshConfig
	logger  zerolog.Logger
	cycleCh chan struct{}
}

// NewRefreshService creates the service. reload may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRefreshService(purger CachePurger, reload ImportFunc, cfg RefreshConfig, logger zerolog.Logger) *RefreshService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.ImportTimeout <= 0 {
		cfg.ImportTimeout = 10 * time.Minute
	}
	return &RefreshService{
		purger:  purger,
		reload:  reload,
		config:  cfg,
		logger:  logger.With().Str("service", "refresh").Logger(),
		cycleCh: make(chan struct{}, 1),
	}
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Bool("reimport", s.reload != nil).
		Msg("refresh service starting")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

// Cycles signals once per completed cycle. Sends are dropped when nobody
// is receiving.
func (s *RefreshService) Cycles() <-chan struct{} {
	return s.cycleCh
}

func (s *RefreshService) refresh(ctx context.Context) {
	start := time.Now()
	result := RefreshSuccess

	if s.reload != nil {
		importCtx, cancel := context.WithTimeout(ctx, s.config.ImportTimeout)
		err := s.reload(importCtx)
		cancel()
		if err != nil {
			result = RefreshError
			s.logger.Warn().Err(err).Msg("reimport failed")
		}
	}

	// Purge even after a failed import: earlier files may have been replaced.
	s.purger.PurgeCache()

	metrics.ModelRefreshes.WithLabelValues(result).Inc()
	s.logger.Info().
		Str("result", result).
		Dur("duration", time.Since(start)).
		Msg("refresh cycle complete")

	select {
	case s.cycleCh <- struct{}{}:
	default:
	}
}

// String names the service in supervisor events.
func (s *RefreshService) String() string {
	return "refresh-service"
}
