// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package recommend

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Predictor produces one metric for a batch of configurations.
// Implementations must be deterministic and free of side effects.
type Predictor interface {
	// Predict returns one value per configuration, in input order.
	Predict(configs []Configuration) ([]float64, error)
}

// PredictorFunc adapts a function to Predictor.
type PredictorFunc func(configs []Configuration) ([]float64, error)

// Predict calls f.
func (f PredictorFunc) Predict(configs []Configuration) ([]float64, error) {
	return f(configs)
}

// ConstantPredictor returns the same value for every configuration.
type ConstantPredictor float64

// Predict returns c for each configuration.
func (c ConstantPredictor) Predict(configs []Configuration) ([]float64, error) {
	out := make([]float64, len(configs))
	for i := range out {
		out[i] = float64(c)
	}
	return out, nil
}

func (c ConstantPredictor) String() string {
	return "constant(" + strconv.FormatFloat(float64(c), 'g', -1, 64) + ")"
}

// PredictorSet maps each metric to its predictor.
type PredictorSet map[Metric]Predictor

// Validate checks every metric has a predictor.
func (s PredictorSet) Validate() error {
	for _, m := range AllMetrics {
		if s[m] == nil {
			return fmt.Errorf("%w for %s", ErrMissingPredictor, m)
		}
	}
	return nil
}

// ErrInvalidFeatures indicates a configuration lacks a feature value.
var ErrInvalidFeatures = errors.New("invalid features")

// ValidateFeatures checks every configuration carries all feature fields.
func ValidateFeatures(configs []Configuration) error {
	for i := range configs {
		c := configs[i]
		if c.Shape == "" || c.Platform == "" || c.StartTime == "" {
			return fmt.Errorf("%w: configuration %d (%s) has an empty field", ErrInvalidFeatures, i, c)
		}
	}
	return nil
}

// predictAll runs each metric's predictor once over the whole batch.
func predictAll(set PredictorSet, candidates []Candidate) error {
	if len(candidates) == 0 {
		return nil
	}
	configs := configurations(candidates)

	for _, m := range AllMetrics {
		values, err := set[m].Predict(configs)
		if err != nil {
			return &PredictionError{Metric: m, Err: err}
		}
		if len(values) != len(candidates) {
			return &PredictionError{
				Metric: m,
				Err:    fmt.Errorf("predictor returned %d values for %d configurations", len(values), len(candidates)),
			}
		}
		for i, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &PredictionError{
					Metric: m,
					Err:    fmt.Errorf("configuration %d (%s): non-finite prediction %v", i, configs[i], v),
				}
			}
			candidates[i].Predicted.Set(m, v)
		}
	}
	return nil
}
