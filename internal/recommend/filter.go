// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package recommend

// DefaultMinSupport is the minimum number of historical rows a
// configuration needs to be ranked.
const DefaultMinSupport = 10

// SupportFilter drops statistically unreliable configurations.
type SupportFilter struct {
	MinSupport int
}

// Apply returns the candidates with Support >= MinSupport, preserving order.
// The input slice is not modified.
func (f SupportFilter) Apply(candidates []Candidate) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for i := range candidates {
		if candidates[i].Support >= f.MinSupport {
			out = append(out, candidates[i])
		}
	}
	return out
}
