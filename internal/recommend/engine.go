// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages.
// Collaborator interfaces let the database, model storage and cache
// packages plug in without circular imports.

// ClusterResolver maps a selection to a cluster id.
type ClusterResolver interface {
	// Lookup returns the cluster for sel. ok is false when nothing matches.
	Lookup(ctx context.Context, sel Selection) (clusterID int, ok bool, err error)
}

// RowSource returns a cluster's historical rows.
type RowSource interface {
	ClusterRows(ctx context.Context, clusterID int) ([]HistoricalRow, error)
}

// ModelSource returns a cluster's per-metric predictors.
type ModelSource interface {
	ClusterModels(ctx context.Context, clusterID int) (PredictorSet, error)
}

// ClusterData is the fetched, immutable input for one cluster.
type ClusterData struct {
	Rows       []HistoricalRow
	Predictors PredictorSet
	FetchedAt  time.Time
}

// ClusterCache holds fetched cluster data keyed by cluster id.
type ClusterCache interface {
	Get(clusterID int) (ClusterData, bool)
	Add(clusterID int, data ClusterData)
	Purge()
}

// Observer receives per-request outcomes. internal/metrics implements it.
type Observer interface {
	ObserveRecommendation(policy string, outcome string, duration time.Duration)
	ObserveClusterCache(hit bool)
}

// Outcomes reported to the Observer.
const (
	OutcomeSuccess      = "success"
	OutcomeNoData       = "no_data"
	OutcomeInsufficient = "insufficient"
	OutcomeInvalid      = "invalid"
	OutcomeError        = "error"
)

// Engine resolves selections, fetches cluster data and runs the pipeline.
// It is safe for concurrent use.
type Engine struct {
	config   *Config
	logger   zerolog.Logger
	pipeline *Pipeline

	resolver ClusterResolver
	rows     RowSource
	models   ModelSource
	cache    ClusterCache
	observer Observer

	mu sync.RWMutex

	// Counters
	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64
}

// Stats is a snapshot of engine counters.
type Stats struct {
	Requests    int64 `json:"requests"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Errors      int64 `json:"errors"`
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	pipeline, err := NewPipeline(cfg.Pipeline)
	if err != nil {
		return nil, err
	}

	return &Engine{
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
		pipeline: pipeline,
	}, nil
}

// SetSources wires the cluster resolver, row source and model source.
func (e *Engine) SetSources(resolver ClusterResolver, rows RowSource, models ModelSource) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resolver = resolver
	e.rows = rows
	e.models = models
}

// SetCache installs a cluster cache. A nil cache disables caching.
func (e *Engine) SetCache(c ClusterCache) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = c
}

// SetObserver installs a metrics observer.
func (e *Engine) SetObserver(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observer = o
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Stats returns a snapshot of engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests:    e.requestCount.Load(),
		CacheHits:   e.cacheHits.Load(),
		CacheMisses: e.cacheMisses.Load(),
		Errors:      e.errorCount.Load(),
	}
}

// Recommend produces top-K and top-N configurations for a selection.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)
	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing recommendation request")

	policy, err := ParsePolicy(req.Policy)
	if err != nil {
		e.finish(req.Policy, OutcomeInvalid, start)
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.RequestTimeout)
	defer cancel()

	clusterID, err := e.resolveCluster(ctx, req.Selection)
	if err != nil {
		e.recordFailure(logger, string(policy), err, start)
		return nil, err
	}
	logger = logger.With().Int("cluster", clusterID).Logger()

	data, cacheHit, err := e.clusterData(ctx, clusterID)
	if err != nil {
		e.recordFailure(logger, string(policy), err, start)
		return nil, err
	}

	result, err := e.pipeline.Run(ctx, Input{
		Rows:       data.Rows,
		Predictors: data.Predictors,
		Policy:     policy,
	})
	if err != nil {
		e.recordFailure(logger, string(policy), err, start)
		return nil, fmt.Errorf("cluster %d: %w", clusterID, err)
	}

	resp := &Response{
		ClusterID: clusterID,
		Selection: req.Selection,
		Result:    result,
		Metadata: ResponseMetadata{
			RequestID: req.RequestID,
			LatencyMS: time.Since(start).Milliseconds(),
			CacheHit:  cacheHit,
			Timestamp: time.Now(),
		},
	}

	e.finish(string(policy), OutcomeSuccess, start)
	logger.Debug().
		Int("rows", result.Rows).
		Int("candidates", result.Candidates).
		Int("survivors", result.Survivors).
		Bool("cache_hit", cacheHit).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// ResolveCluster exposes the cluster lookup on its own.
func (e *Engine) ResolveCluster(ctx context.Context, sel Selection) (int, error) {
	return e.resolveCluster(ctx, normalizeSelection(sel))
}

// ClusterRows returns a cluster's rows, through the cache when present.
func (e *Engine) ClusterRows(ctx context.Context, clusterID int) ([]HistoricalRow, error) {
	data, _, err := e.clusterData(ctx, clusterID)
	if err != nil {
		return nil, err
	}
	return data.Rows, nil
}

// PurgeCache drops every cached cluster.
func (e *Engine) PurgeCache() {
	e.mu.RLock()
	c := e.cache
	e.mu.RUnlock()
	if c != nil {
		c.Purge()
		e.logger.Info().Msg("cluster cache purged")
	}
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if strings.TrimSpace(req.Policy) == "" {
		req.Policy = string(e.config.DefaultPolicy)
	}
	req.Selection = normalizeSelection(req.Selection)
	return req
}

// normalizeSelection trims every field and lowercases the OS type.
func normalizeSelection(sel Selection) Selection {
	return Selection{
		Industry:  strings.TrimSpace(sel.Industry),
		OSType:    strings.ToLower(strings.TrimSpace(sel.OSType)),
		LimitType: strings.TrimSpace(sel.LimitType),
	}
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("industry", req.Industry).
		Str("os_type", req.OSType).
		Str("limit_type", req.LimitType).
		Str("policy", req.Policy).
		Logger()
}

func (e *Engine) resolveCluster(ctx context.Context, sel Selection) (int, error) {
	e.mu.RLock()
	resolver := e.resolver
	e.mu.RUnlock()
	if resolver == nil {
		return 0, &DataRetrievalError{Op: "lookup cluster", Key: "mapping", Err: errors.New("no cluster resolver configured")}
	}

	id, ok, err := resolver.Lookup(ctx, sel)
	if err != nil {
		return 0, &DataRetrievalError{Op: "lookup cluster", Key: "mapping", Err: err}
	}
	if !ok {
		return 0, fmt.Errorf("%s/%s/%s: %w", sel.Industry, sel.OSType, sel.LimitType, ErrConfigurationNotFound)
	}
	return id, nil
}

// clusterData returns cached data or fetches rows and models.
func (e *Engine) clusterData(ctx context.Context, clusterID int) (ClusterData, bool, error) {
	e.mu.RLock()
	c, rows, models, observer := e.cache, e.rows, e.models, e.observer
	e.mu.RUnlock()

	if c != nil {
		if data, ok := c.Get(clusterID); ok {
			e.cacheHits.Add(1)
			if observer != nil {
				observer.ObserveClusterCache(true)
			}
			return data, true, nil
		}
		e.cacheMisses.Add(1)
		if observer != nil {
			observer.ObserveClusterCache(false)
		}
	}

	key := fmt.Sprintf("cluster %d", clusterID)
	if rows == nil || models == nil {
		return ClusterData{}, false, &DataRetrievalError{Op: "fetch cluster", Key: key, Err: errors.New("no data sources configured")}
	}

	fetchedRows, err := rows.ClusterRows(ctx, clusterID)
	if err != nil {
		return ClusterData{}, false, &DataRetrievalError{Op: "fetch rows", Key: key, Err: err}
	}
	predictors, err := models.ClusterModels(ctx, clusterID)
	if err != nil {
		return ClusterData{}, false, &DataRetrievalError{Op: "fetch models", Key: key, Err: err}
	}

	data := ClusterData{Rows: fetchedRows, Predictors: predictors, FetchedAt: time.Now()}
	if c != nil {
		c.Add(clusterID, data)
	}
	return data, false, nil
}

func (e *Engine) recordFailure(logger zerolog.Logger, policy string, err error, start time.Time) {
	outcome := classifyOutcome(err)
	e.finish(policy, outcome, start)

	if outcome == OutcomeError {
		e.errorCount.Add(1)
		logger.Error().Err(err).Msg("recommendation failed")
		return
	}
	logger.Info().Err(err).Str("outcome", outcome).Msg("recommendation not produced")
}

func (e *Engine) finish(policy, outcome string, start time.Time) {
	e.mu.RLock()
	observer := e.observer
	e.mu.RUnlock()
	if observer != nil {
		observer.ObserveRecommendation(policy, outcome, time.Since(start))
	}
}

// classifyOutcome maps an error to an Outcome label.
func classifyOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrNoData):
		return OutcomeNoData
	case errors.Is(err, ErrInsufficientCandidates):
		return OutcomeInsufficient
	case errors.Is(err, ErrInvalidWeightingPolicy):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}
