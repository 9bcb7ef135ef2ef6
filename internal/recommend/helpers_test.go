// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package recommend

import (
	"errors"
	"math"
	"testing"
)

// rowsOf returns n rows for one configuration.
func rowsOf(shape, platform, start string, n int) []HistoricalRow {
	rows := make([]HistoricalRow, n)
	for i := range rows {
		rows[i] = HistoricalRow{
			Industry:  "게임",
			OSType:    "android",
			LimitType: "DAILY",
			Shape:     shape,
			Platform:  platform,
			StartTime: start,
			Cluster:   1,
		}
	}
	return rows
}

// concatRows joins row batches in order.
func concatRows(batches ...[]HistoricalRow) []HistoricalRow {
	var out []HistoricalRow
	for _, b := range batches {
		out = append(out, b...)
	}
	return out
}

// tablePredictor looks predictions up by shape. Unknown shapes predict 0.
type tablePredictor map[string]float64

func (p tablePredictor) Predict(configs []Configuration) ([]float64, error) {
	out := make([]float64, len(configs))
	for i, c := range configs {
		out[i] = p[c.Shape]
	}
	return out, nil
}

// shapePredictors predicts every metric from the shape alone.
func shapePredictors(cvr, eff, abs map[string]float64) PredictorSet {
	return PredictorSet{
		MetricConversion:  tablePredictor(cvr),
		MetricEfficiency:  tablePredictor(eff),
		MetricAchievement: tablePredictor(abs),
	}
}

// standardRows is four supported configurations and one unsupported one,
// interleaved so enumeration order differs from row order of first
// completion.
func standardRows() []HistoricalRow {
	return concatRows(
		rowsOf("banner", "app", "morning", 12),
		rowsOf("video", "web", "evening", 15),
		rowsOf("popup", "app", "night", 3),
		rowsOf("native", "app", "morning", 10),
		rowsOf("video", "web", "evening", 2),
		rowsOf("interstitial", "web", "noon", 20),
	)
}

func standardPredictors() PredictorSet {
	return shapePredictors(
		map[string]float64{"banner": 0.05, "video": 0.03, "native": 0.01, "interstitial": 0.02, "popup": 0.9},
		map[string]float64{"banner": 800, "video": 1200, "native": 400, "interstitial": 1000, "popup": 9000},
		map[string]float64{"banner": 0.9, "video": 0.7, "native": 0.5, "interstitial": 0.6, "popup": 5},
	)
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

var errPredict = errors.New("model unavailable")

func failingPredictor(_ []Configuration) ([]float64, error) {
	return nil, errPredict
}

func assertSortedByScore(t *testing.T, cs []Candidate) {
	t.Helper()
	for i := 1; i < len(cs); i++ {
		if cs[i-1].Score < cs[i].Score {
			t.Fatalf("scores not descending at %d: %v < %v", i, cs[i-1].Score, cs[i].Score)
		}
	}
}
