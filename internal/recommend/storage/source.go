// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package storage

import (
	"context"
	"errors"

	"github.com/tomtom215/adcompass/internal/breaker"
	"github.com/tomtom215/adcompass/internal/metrics"
	"github.com/tomtom215/adcompass/internal/recommend"
)

// ModelSource serves the latest bundle of a cluster as a PredictorSet.
type ModelSource struct {
	store   Store
	backend string
	breaker *breaker.Breaker
}

// NewModelSource wraps store. A nil breaker disables circuit breaking.
func NewModelSource(store Store, backend string, b *breaker.Breaker) *ModelSource {
	return &ModelSource{store: store, backend: backend, breaker: b}
}

// IsNotFound reports whether err means the bundle does not exist.
// Breakers use it so missing bundles do not count as failures.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ClusterModels implements recommend.ModelSource.
func (s *ModelSource) ClusterModels(ctx context.Context, clusterID int) (recommend.PredictorSet, error) {
	bundle, err := breaker.Do(s.breaker, func() (*Bundle, error) {
		b, _, err := s.store.Load(ctx, clusterID, 0)
		return b, err
	})
	if err != nil {
		metrics.RecordModelLoad(s.backend, "error")
		return nil, err
	}

	set, err := bundle.PredictorSet()
	if err != nil {
		metrics.RecordModelLoad(s.backend, "invalid")
		return nil, err
	}
	metrics.RecordModelLoad(s.backend, "success")
	return set, nil
}
