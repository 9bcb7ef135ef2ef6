// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package recommend

// Enumerate returns one candidate per distinct configuration in rows, in
// first-appearance order, each carrying its support count.
func Enumerate(rows []HistoricalRow) []Candidate {
	index := make(map[Configuration]int, len(rows)/4+1)
	candidates := make([]Candidate, 0, len(rows)/4+1)

	for i := range rows {
		cfg := rows[i].Configuration()
		if pos, ok := index[cfg]; ok {
			candidates[pos].Support++
			continue
		}
		index[cfg] = len(candidates)
		candidates = append(candidates, Candidate{
			Configuration: cfg,
			Index:         len(candidates),
			Support:       1,
		})
	}

	return candidates
}

// SupportCounts returns the number of rows behind each configuration.
func SupportCounts(rows []HistoricalRow) map[Configuration]int {
	counts := make(map[Configuration]int)
	for i := range rows {
		counts[rows[i].Configuration()]++
	}
	return counts
}

// configurations extracts the feature tuples for a predictor batch.
func configurations(candidates []Candidate) []Configuration {
	out := make([]Configuration, len(candidates))
	for i := range candidates {
		out[i] = candidates[i].Configuration
	}
	return out
}
