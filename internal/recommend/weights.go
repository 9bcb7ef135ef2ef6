// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package recommend

import (
	"fmt"
	"math"
	"strings"
)

// Policy names the business objective that drives metric weights.
type Policy string

// Weighting policies.
const (
	PolicyProfit    Policy = "profit"
	PolicyCost      Policy = "cost"
	PolicyStability Policy = "stability"
	PolicyEqual     Policy = "equal"
)

// Policies lists every selectable policy.
var Policies = []Policy{PolicyProfit, PolicyCost, PolicyStability, PolicyEqual}

// policyAliases maps dashboard labels to policies.
var policyAliases = map[string]Policy{
	"이익":  PolicyProfit,
	"비용":  PolicyCost,
	"안정성": PolicyStability,
}

// ParsePolicy resolves a policy name or dashboard label.
// Unknown names return an *InvalidPolicyError.
func ParsePolicy(name string) (Policy, error) {
	trimmed := strings.TrimSpace(name)
	switch p := Policy(strings.ToLower(trimmed)); p {
	case PolicyProfit, PolicyCost, PolicyStability, PolicyEqual:
		return p, nil
	}
	if p, ok := policyAliases[trimmed]; ok {
		return p, nil
	}
	return "", &InvalidPolicyError{Name: name}
}

// Weights is the relative importance of each metric.
type Weights struct {
	Conversion  float64 `json:"cvr"`
	Efficiency  float64 `json:"efficiency"`
	Achievement float64 `json:"abs"`
}

// WeightsFor returns the fixed weights of p.
func WeightsFor(p Policy) (Weights, error) {
	switch p {
	case PolicyProfit:
		return Weights{Conversion: 0.5, Efficiency: 0.25, Achievement: 0.25}, nil
	case PolicyCost:
		return Weights{Conversion: 0.25, Efficiency: 0.5, Achievement: 0.25}, nil
	case PolicyStability:
		return Weights{Conversion: 0.25, Efficiency: 0.25, Achievement: 0.5}, nil
	case PolicyEqual:
		return EqualWeights(), nil
	default:
		return Weights{}, &InvalidPolicyError{Name: string(p)}
	}
}

// EqualWeights weighs every metric 1/3.
func EqualWeights() Weights {
	const third = 1.0 / 3.0
	return Weights{Conversion: third, Efficiency: third, Achievement: third}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Conversion + w.Efficiency + w.Achievement
}

// Validate checks weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	if w.Conversion < 0 || w.Efficiency < 0 || w.Achievement < 0 {
		return fmt.Errorf("negative weight in %+v", w)
	}
	if math.Abs(w.Sum()-1.0) > 1e-9 {
		return fmt.Errorf("weights sum to %.12f, must sum to 1.0", w.Sum())
	}
	return nil
}

// WeightingMode selects whether the caller's policy drives weighting.
type WeightingMode string

const (
	// WeightingPolicy applies the selected policy's weights.
	WeightingPolicy WeightingMode = "policy"

	// WeightingEqual applies EqualWeights whatever policy was selected.
	WeightingEqual WeightingMode = "equal"
)

// Resolve returns the effective policy and weights for the requested policy.
// The requested policy is validated in both modes.
func (m WeightingMode) Resolve(p Policy) (Policy, Weights, error) {
	w, err := WeightsFor(p)
	if err != nil {
		return "", Weights{}, err
	}
	if m == WeightingEqual {
		return PolicyEqual, EqualWeights(), nil
	}
	return p, w, nil
}
