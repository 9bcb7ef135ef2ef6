// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

// Package storage persists per-cluster predictor bundles.
//
// A Bundle holds one predictor spec per metric (CVR, 1000_W_EFFICIENCY,
// ABS). A spec is either a constant fallback or an additive model: an
// intercept plus per-level effects for shape, platform and start time.
//
// Two backends implement Store:
//
//   - FileStore: one gob-encoded, gzip-compressed file per bundle version,
//     with a SHA-256 checksum verified on load
//   - BadgerStore: JSON-encoded bundles in a BadgerDB keyspace
//
// ModelSource adapts a Store to recommend.ModelSource, resolving the
// latest bundle version of a cluster through a circuit breaker.
//
// # Thread Safety
//
// All stores are safe for concurrent use.
package storage

import (
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/adcompass/internal/recommend"
)

// Predictor kinds.
const (
	KindConstant = "constant"
	KindAdditive = "additive"
)

// PredictorSpec describes one metric's predictor.
type PredictorSpec struct {
	// Kind is KindConstant or KindAdditive.
	Kind string `json:"kind"`

	// Value is the constant prediction (KindConstant).
	Value float64 `json:"value,omitempty"`

	// Intercept is the additive baseline (KindAdditive).
	Intercept float64 `json:"intercept,omitempty"`

	// Per-level effects (KindAdditive). Unseen levels contribute 0.
	Shape     map[string]float64 `json:"shape,omitempty"`
	Platform  map[string]float64 `json:"platform,omitempty"`
	StartTime map[string]float64 `json:"start_time,omitempty"`
}

// Bundle is the set of predictors trained for one cluster.
type Bundle struct {
	ClusterID int       `json:"cluster"`
	TrainedAt time.Time `json:"trained_at"`

	// Source describes where the bundle came from (file name, training run).
	Source string `json:"source,omitempty"`

	// Predictors is keyed by metric name.
	Predictors map[string]PredictorSpec `json:"predictors"`
}

// ParseBundle decodes and validates a JSON bundle.
func ParseBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks the bundle covers every metric with a well-formed spec.
func (b *Bundle) Validate() error {
	if b.ClusterID < 0 {
		return fmt.Errorf("bundle cluster must be non-negative, got %d", b.ClusterID)
	}
	for _, m := range recommend.AllMetrics {
		spec, ok := b.Predictors[string(m)]
		if !ok {
			return fmt.Errorf("bundle for cluster %d: %w for %s", b.ClusterID, recommend.ErrMissingPredictor, m)
		}
		if err := spec.validate(); err != nil {
			return fmt.Errorf("bundle for cluster %d, metric %s: %w", b.ClusterID, m, err)
		}
	}
	for name := range b.Predictors {
		if _, err := recommend.ParseMetric(name); err != nil {
			return fmt.Errorf("bundle for cluster %d: %w", b.ClusterID, err)
		}
	}
	return nil
}

// Metrics returns the bundle's metric names in sorted order.
func (b *Bundle) Metrics() []string {
	out := make([]string, 0, len(b.Predictors))
	for name := range b.Predictors {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// PredictorSet builds the runtime predictors for the bundle.
func (b *Bundle) PredictorSet() (recommend.PredictorSet, error) {
	set := make(recommend.PredictorSet, len(b.Predictors))
	for name, spec := range b.Predictors {
		m, err := recommend.ParseMetric(name)
		if err != nil {
			return nil, err
		}
		p, err := spec.Predictor()
		if err != nil {
			return nil, fmt.Errorf("metric %s: %w", m, err)
		}
		set[m] = p
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *PredictorSpec) validate() error {
	switch s.Kind {
	case KindConstant:
		return nil
	case KindAdditive:
		return nil
	default:
		return fmt.Errorf("unknown predictor kind %q", s.Kind)
	}
}

// Predictor returns the runtime predictor for the spec.
func (s *PredictorSpec) Predictor() (recommend.Predictor, error) {
	switch s.Kind {
	case KindConstant:
		return recommend.ConstantPredictor(s.Value), nil
	case KindAdditive:
		return &AdditivePredictor{
			Intercept: s.Intercept,
			Shape:     s.Shape,
			Platform:  s.Platform,
			StartTime: s.StartTime,
		}, nil
	default:
		return nil, fmt.Errorf("unknown predictor kind %q", s.Kind)
	}
}

// AdditivePredictor predicts intercept + shape + platform + start-time
// effects. It is read-only after construction.
type AdditivePredictor struct {
	Intercept float64
	Shape     map[string]float64
	Platform  map[string]float64
	StartTime map[string]float64
}

// Predict scores each configuration. Configurations with an empty feature
// field are rejected.
func (p *AdditivePredictor) Predict(configs []recommend.Configuration) ([]float64, error) {
	if err := recommend.ValidateFeatures(configs); err != nil {
		return nil, err
	}
	out := make([]float64, len(configs))
	for i := range configs {
		c := configs[i]
		out[i] = p.Intercept + p.Shape[c.Shape] + p.Platform[c.Platform] + p.StartTime[c.StartTime]
	}
	return out, nil
}
