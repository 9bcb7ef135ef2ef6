// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package recommend

import (
	"fmt"
)

// NormalizationStrategy selects how raw predictions are rescaled.
type NormalizationStrategy string

const (
	// NormalizeMinMax rescales each metric onto [MinMaxLow, MinMaxHigh].
	NormalizeMinMax NormalizationStrategy = "minmax"

	// NormalizeRobust centers on the median and scales by the IQR.
	NormalizeRobust NormalizationStrategy = "robust"
)

// Bounds of the min-max output range.
const (
	MinMaxLow  = 0.0
	MinMaxHigh = 100.0
)

// DegeneratePolicy defines the output for a metric with zero spread: every
// candidate tied for min-max, or a zero IQR for robust scaling.
type DegeneratePolicy string

const (
	// DegenerateZero maps every value to MinMaxLow. Robust scaling keeps a
	// unit scale, so values at the median land on 0.
	DegenerateZero DegeneratePolicy = "zero"

	// DegenerateMidpoint maps every value to the middle of the range. The
	// robust range is centered on 0 and behaves as DegenerateZero.
	DegenerateMidpoint DegeneratePolicy = "midpoint"

	// DegenerateError fails the normalization.
	DegenerateError DegeneratePolicy = "error"
)

// Normalizer rescales Predicted into Normalized. Implementations return a
// new slice and leave the input untouched.
type Normalizer interface {
	Name() NormalizationStrategy
	Normalize(candidates []Candidate) ([]Candidate, error)
}

// NewNormalizer builds the normalizer for strategy.
func NewNormalizer(strategy NormalizationStrategy, degenerate DegeneratePolicy) (Normalizer, error) {
	if degenerate == "" {
		degenerate = DegenerateZero
	}
	switch degenerate {
	case DegenerateZero, DegenerateMidpoint, DegenerateError:
	default:
		return nil, fmt.Errorf("unknown degenerate policy %q", degenerate)
	}

	switch strategy {
	case NormalizeMinMax, "":
		return MinMaxNormalizer{Degenerate: degenerate}, nil
	case NormalizeRobust:
		return RobustNormalizer{Degenerate: degenerate}, nil
	default:
		return nil, fmt.Errorf("unknown normalization strategy %q", strategy)
	}
}

// MinMaxNormalizer maps each metric independently onto [0, 100].
type MinMaxNormalizer struct {
	Degenerate DegeneratePolicy
}

// Name returns NormalizeMinMax.
func (MinMaxNormalizer) Name() NormalizationStrategy { return NormalizeMinMax }

// Normalize applies min-max scaling per metric.
func (n MinMaxNormalizer) Normalize(candidates []Candidate) ([]Candidate, error) {
	out := append([]Candidate(nil), candidates...)
	if len(out) == 0 {
		return out, nil
	}

	for _, m := range AllMetrics {
		lo, hi := out[0].Predicted.Get(m), out[0].Predicted.Get(m)
		for i := 1; i < len(out); i++ {
			v := out[i].Predicted.Get(m)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}

		if hi == lo {
			fill, err := n.degenerateValue(m, lo)
			if err != nil {
				return nil, err
			}
			for i := range out {
				out[i].Normalized.Set(m, fill)
			}
			continue
		}

		span := hi - lo
		for i := range out {
			v := out[i].Predicted.Get(m)
			out[i].Normalized.Set(m, MinMaxLow+(v-lo)/span*(MinMaxHigh-MinMaxLow))
		}
	}
	return out, nil
}

func (n MinMaxNormalizer) degenerateValue(m Metric, v float64) (float64, error) {
	switch n.Degenerate {
	case DegenerateMidpoint:
		return (MinMaxLow + MinMaxHigh) / 2, nil
	case DegenerateError:
		return 0, &DegenerateNormalizationError{Metric: m, Value: v}
	default:
		return MinMaxLow, nil
	}
}

// RobustNormalizer scales each metric as (x - median) / IQR. A zero IQR
// follows Degenerate: zero and midpoint keep a unit scale, error fails.
type RobustNormalizer struct {
	Degenerate DegeneratePolicy
}

// Name returns NormalizeRobust.
func (RobustNormalizer) Name() NormalizationStrategy { return NormalizeRobust }

// Normalize applies robust scaling per metric.
func (n RobustNormalizer) Normalize(candidates []Candidate) ([]Candidate, error) {
	out := append([]Candidate(nil), candidates...)
	if len(out) == 0 {
		return out, nil
	}

	values := make([]float64, len(out))
	for _, m := range AllMetrics {
		for i := range out {
			values[i] = out[i].Predicted.Get(m)
		}
		sorted := sortedCopy(values)
		median := quantileSorted(sorted, 0.5)
		iqr := quantileSorted(sorted, 0.75) - quantileSorted(sorted, 0.25)
		if iqr == 0 {
			if n.Degenerate == DegenerateError {
				return nil, &DegenerateNormalizationError{Metric: m, Value: median}
			}
			iqr = 1
		}
		for i := range out {
			out[i].Normalized.Set(m, (values[i]-median)/iqr)
		}
	}
	return out, nil
}
