// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package recommend

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below match them through errors.Is.
var (
	// ErrNoData marks a terminal NO_DATA state: nothing can be recommended
	// for the selection.
	ErrNoData = errors.New("no data for selection")

	// ErrConfigurationNotFound indicates no cluster matches the selection.
	ErrConfigurationNotFound = fmt.Errorf("configuration not found: %w", ErrNoData)

	// ErrDataRetrieval indicates a collaborator failed to return rows or models.
	ErrDataRetrieval = errors.New("data retrieval failed")

	// ErrInsufficientCandidates indicates too few configurations survived filtering.
	ErrInsufficientCandidates = errors.New("insufficient candidates")

	// ErrInvalidWeightingPolicy indicates an unrecognized policy name.
	ErrInvalidWeightingPolicy = errors.New("invalid weighting policy")

	// ErrDegenerateNormalization indicates every candidate tied on a metric
	// under min-max scaling with the error policy.
	ErrDegenerateNormalization = errors.New("degenerate normalization")

	// ErrMissingPredictor indicates a predictor set lacks a metric.
	ErrMissingPredictor = errors.New("missing predictor")
)

// DataRetrievalError reports a failed fetch with the operation and resource key.
type DataRetrievalError struct {
	Op  string
	Key string
	Err error
}

func (e *DataRetrievalError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *DataRetrievalError) Unwrap() error { return e.Err }

// Is matches ErrDataRetrieval.
func (e *DataRetrievalError) Is(target error) bool {
	return target == ErrDataRetrieval
}

// PredictionError reports a predictor invocation failure.
type PredictionError struct {
	Metric Metric
	Err    error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("predict %s: %v", e.Metric, e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// InsufficientCandidatesError reports how many candidates survived.
type InsufficientCandidatesError struct {
	Survivors int
	Required  int
}

func (e *InsufficientCandidatesError) Error() string {
	return fmt.Sprintf("insufficient candidates: %d survived support filter, need %d", e.Survivors, e.Required)
}

// Is matches ErrInsufficientCandidates, and ErrNoData when nothing survived.
func (e *InsufficientCandidatesError) Is(target error) bool {
	if target == ErrInsufficientCandidates {
		return true
	}
	return target == ErrNoData && e.Survivors == 0
}

// InvalidPolicyError reports the rejected policy name.
type InvalidPolicyError struct {
	Name string
}

func (e *InvalidPolicyError) Error() string {
	return fmt.Sprintf("invalid weighting policy %q", e.Name)
}

// Is matches ErrInvalidWeightingPolicy.
func (e *InvalidPolicyError) Is(target error) bool {
	return target == ErrInvalidWeightingPolicy
}

// DegenerateNormalizationError reports a metric with zero spread. Value is the
// tied value for min-max and the median for robust scaling.
type DegenerateNormalizationError struct {
	Metric Metric
	Value  float64
}

func (e *DegenerateNormalizationError) Error() string {
	return fmt.Sprintf("degenerate normalization: %s has zero spread at %g", e.Metric, e.Value)
}

// Is matches ErrDegenerateNormalization.
func (e *DegenerateNormalizationError) Is(target error) bool {
	return target == ErrDegenerateNormalization
}

// IsNoData reports whether err is a terminal NO_DATA state.
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}
