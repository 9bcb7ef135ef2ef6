// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package recommend

import (
	"context"
	"fmt"
)

// Input is everything one pipeline run depends on.
type Input struct {
	Rows       []HistoricalRow
	Predictors PredictorSet
	Policy     Policy
}

// Pipeline turns a cluster's rows and predictors into a ranking.
// It is immutable after construction and safe for concurrent use.
type Pipeline struct {
	opts       Options
	normalizer Normalizer
	filter     SupportFilter
	ranker     Ranker
}

// NewPipeline validates opts and builds a pipeline.
//
//nolint:gocritic // hugeParam: opts passed by value for immutability
func NewPipeline(opts Options) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	normalizer, err := NewNormalizer(opts.Normalization, opts.Degenerate)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		opts:       opts,
		normalizer: normalizer,
		filter:     SupportFilter{MinSupport: opts.MinSupport},
		ranker:     Ranker{TopK: opts.TopK, TopN: opts.TopN},
	}, nil
}

// Options returns the pipeline's options.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Run executes enumerate, predict, filter, normalize, score and rank.
// The context is only checked between stages; no stage blocks.
//
//nolint:gocritic // hugeParam: in passed by value for immutability
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	scorer, effective, err := NewScorer(p.opts.Weighting, in.Policy)
	if err != nil {
		return nil, err
	}
	if err := in.Predictors.Validate(); err != nil {
		return nil, err
	}

	candidates := Enumerate(in.Rows)
	if err := predictAll(in.Predictors, candidates); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	survivors, err := p.filterAndNormalize(candidates)
	if err != nil {
		return nil, err
	}
	if len(survivors) == 0 {
		return nil, &InsufficientCandidatesError{Survivors: 0, Required: p.opts.TopK}
	}

	scored := scorer.Apply(survivors)
	top, ranked, err := p.ranker.Rank(scored)
	if err != nil {
		return nil, err
	}

	return &Result{
		Top:           top,
		Ranked:        ranked,
		Policy:        effective,
		Weights:       scorer.Weights,
		Normalization: p.normalizer.Name(),
		Order:         p.opts.Order,
		Rows:          len(in.Rows),
		Candidates:    len(candidates),
		Survivors:     len(survivors),
	}, nil
}

// filterAndNormalize applies the support filter and normalizer in the
// configured order.
func (p *Pipeline) filterAndNormalize(candidates []Candidate) ([]Candidate, error) {
	if p.opts.Order == OrderNormalizeFirst {
		normalized, err := p.normalizer.Normalize(candidates)
		if err != nil {
			return nil, err
		}
		return p.filter.Apply(normalized), nil
	}

	supported := p.filter.Apply(candidates)
	if len(supported) == 0 {
		return supported, nil
	}
	return p.normalizer.Normalize(supported)
}
