// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package recommend

import (
	"math"
	"sort"
)

// Default slice sizes.
const (
	DefaultTopK = 3
	DefaultTopN = 10
)

// Ranker orders scored candidates and derives budget shares.
type Ranker struct {
	// TopK is the size of the labelled slice that receives shares.
	TopK int

	// TopN is the size of the full ranked table.
	TopN int
}

// Rank returns the top-K slice (rank labels and shares set) and the top-N
// slice. Candidates are ordered by score descending; equal scores keep
// enumeration order. Fewer than TopK candidates is an
// *InsufficientCandidatesError.
func (r Ranker) Rank(candidates []Candidate) (top, ranked []Candidate, err error) {
	if len(candidates) < r.TopK {
		return nil, nil, &InsufficientCandidatesError{Survivors: len(candidates), Required: r.TopK}
	}

	sorted := SortByScore(candidates)

	n := r.TopN
	if n > len(sorted) {
		n = len(sorted)
	}
	ranked = append([]Candidate(nil), sorted[:n]...)

	top = append([]Candidate(nil), sorted[:r.TopK]...)
	var total float64
	for i := range top {
		total += top[i].Score
	}
	for i := range top {
		top[i].Rank = i + 1
		top[i].Share = BudgetShare(top[i].Score, total)
	}

	return top, ranked, nil
}

// SortByScore returns a copy sorted by score descending, ties by Index.
func SortByScore(candidates []Candidate) []Candidate {
	out := append([]Candidate(nil), candidates...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Index < out[j].Index
	})
	return out
}

// BudgetShare returns 100*score/total rounded to one decimal place.
// Shares are rounded independently and are not corrected to sum to 100.
func BudgetShare(score, total float64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(100*score/total*10) / 10
}
