// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package recommend

// Scorer combines normalized metrics into one score.
type Scorer struct {
	Weights Weights
}

// NewScorer builds a scorer for p under mode.
func NewScorer(mode WeightingMode, p Policy) (Scorer, Policy, error) {
	effective, w, err := mode.Resolve(p)
	if err != nil {
		return Scorer{}, "", err
	}
	return Scorer{Weights: w}, effective, nil
}

// Score returns the weighted sum of c's normalized metrics.
func (s Scorer) Score(c *Candidate) float64 {
	return c.Normalized.Conversion*s.Weights.Conversion +
		c.Normalized.Efficiency*s.Weights.Efficiency +
		c.Normalized.Achievement*s.Weights.Achievement
}

// Apply returns a copy of candidates with Score set.
func (s Scorer) Apply(candidates []Candidate) []Candidate {
	out := append([]Candidate(nil), candidates...)
	for i := range out {
		out[i].Score = s.Score(&out[i])
	}
	return out
}
