// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package recommend

import (
	"math"
	"testing"
)

func TestFormatKPI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		column string
		v      float64
		want   string
	}{
		{ColumnEfficiency, 12345.6, "12,345"},
		{ColumnEfficiency, 999, "999"},
		{ColumnEfficiency, 1000, "1,000"},
		{ColumnEfficiency, 1234567, "1,234,567"},
		{ColumnEfficiency, -4321.9, "-4,321"},
		{ColumnConversion, 5.234, "5.23%"},
		{ColumnConversion, 0, "0.00%"},
		{ColumnTimeTurn, 3.14159, "3.14"},
	}
	for _, tt := range tests {
		if got := FormatKPI(tt.column, tt.v); got != tt.want {
			t.Errorf("FormatKPI(%s, %v) = %q, want %q", tt.column, tt.v, got, tt.want)
		}
	}
}

func TestFormatShare(t *testing.T) {
	t.Parallel()

	tests := map[float64]string{
		33.3: "33.3%",
		50:   "50.0%",
		16.7: "16.7%",
		0:    "0.0%",
	}
	for in, want := range tests {
		if got := FormatShare(in); got != want {
			t.Errorf("FormatShare(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatThousands(t *testing.T) {
	t.Parallel()

	tests := map[int64]string{
		0:          "0",
		12:         "12",
		123:        "123",
		1234:       "1,234",
		123456:     "123,456",
		-123456789: "-123,456,789",
	}
	for in, want := range tests {
		if got := FormatThousands(in); got != want {
			t.Errorf("FormatThousands(%d) = %q, want %q", in, got, want)
		}
	}
}

func summaryRows() []HistoricalRow {
	rows := rowsOf("banner", "app", "morning", 4)
	for i := range rows {
		rows[i].Conversion = 0.01 * float64(i+1)
		rows[i].Efficiency = 1000 * float64(i+1)
		rows[i].Achievement = 0.5
		rows[i].TimeTurn = float64(i + 1)
	}
	return rows
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	s := Summarize(7, summaryRows())

	if s.ClusterID != 7 || s.KPIs.Rows != 4 {
		t.Errorf("summary header = cluster %d rows %d", s.ClusterID, s.KPIs.Rows)
	}
	if !approxEqual(s.KPIs.MeanEfficiency, 2500) {
		t.Errorf("MeanEfficiency = %v, want 2500", s.KPIs.MeanEfficiency)
	}
	if !approxEqual(s.KPIs.MeanConversionPct, 2.5) {
		t.Errorf("MeanConversionPct = %v, want 2.5", s.KPIs.MeanConversionPct)
	}
	if s.KPIs.Display[ColumnEfficiency] != "2,500" || s.KPIs.Display[ColumnConversion] != "2.50%" || s.KPIs.Display[ColumnTimeTurn] != "2.50" {
		t.Errorf("Display = %v", s.KPIs.Display)
	}

	if len(s.Stats) != len(SummaryColumns) {
		t.Fatalf("len(Stats) = %d, want %d", len(s.Stats), len(SummaryColumns))
	}
	eff := s.Stats[0]
	if eff.Column != ColumnEfficiency || eff.Count != 4 {
		t.Fatalf("Stats[0] = %+v", eff)
	}
	if *eff.Min != 1000 || *eff.Max != 4000 || *eff.P50 != 2500 || *eff.P25 != 1750 || *eff.P75 != 3250 {
		t.Errorf("efficiency quantiles = %v %v %v %v %v", *eff.Min, *eff.P25, *eff.P50, *eff.P75, *eff.Max)
	}
	// sample std of 1000..4000
	if want := 1000 * math.Sqrt(5.0/3.0); !approxEqual(*eff.Std, want) {
		t.Errorf("Std = %v, want %v", *eff.Std, want)
	}

	// Efficiency and CVR rise together; ABS is constant.
	idx := map[string]int{}
	for i, c := range s.Correlation.Columns {
		idx[c] = i
	}
	if r := s.Correlation.Values[idx[ColumnEfficiency]][idx[ColumnConversion]]; r == nil || !approxEqual(*r, 1) {
		t.Errorf("corr(efficiency, cvr) = %v, want 1", r)
	}
	if r := s.Correlation.Values[idx[ColumnAchievement]][idx[ColumnEfficiency]]; r != nil {
		t.Errorf("corr with constant column = %v, want nil", *r)
	}
}

func TestSummarize_MissingValues(t *testing.T) {
	t.Parallel()

	rows := summaryRows()
	rows[0].Efficiency = math.NaN()
	for i := range rows {
		rows[i].TimeTurn = math.NaN()
	}

	s := Summarize(1, rows)

	if s.Stats[0].Count != 3 {
		t.Errorf("efficiency count = %d, want 3 finite values", s.Stats[0].Count)
	}
	if !approxEqual(s.KPIs.MeanEfficiency, 3000) {
		t.Errorf("MeanEfficiency = %v, want 3000", s.KPIs.MeanEfficiency)
	}
	if s.KPIs.Display[ColumnTimeTurn] != "-" {
		t.Errorf("all-missing KPI displays %q, want -", s.KPIs.Display[ColumnTimeTurn])
	}

	var tt ColumnStats
	for _, st := range s.Stats {
		if st.Column == ColumnTimeTurn {
			tt = st
		}
	}
	if tt.Count != 0 || tt.Mean != nil || tt.Max != nil {
		t.Errorf("all-missing column stats = %+v", tt)
	}
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	s := Summarize(0, nil)
	if s.KPIs.Rows != 0 || s.KPIs.Display[ColumnEfficiency] != "-" {
		t.Errorf("empty summary = %+v", s.KPIs)
	}
	for _, st := range s.Stats {
		if st.Count != 0 || st.Std != nil {
			t.Errorf("empty stats = %+v", st)
		}
	}
}

func TestQuantileSorted(t *testing.T) {
	t.Parallel()

	sorted := []float64{1, 2, 3, 4}
	tests := map[float64]float64{0: 1, 0.25: 1.75, 0.5: 2.5, 0.75: 3.25, 1: 4}
	for q, want := range tests {
		if got := quantileSorted(sorted, q); !approxEqual(got, want) {
			t.Errorf("quantile(%v) = %v, want %v", q, got, want)
		}
	}
	if !math.IsNaN(quantileSorted(nil, 0.5)) {
		t.Error("quantile of empty slice must be NaN")
	}
	if got := quantileSorted([]float64{7}, 0.9); got != 7 {
		t.Errorf("quantile of one value = %v", got)
	}
}

func TestPearson(t *testing.T) {
	t.Parallel()

	if r := pearson([]float64{1, 2, 3}, []float64{3, 2, 1}); !approxEqual(r, -1) {
		t.Errorf("pearson of reversed series = %v, want -1", r)
	}
	if r := pearson([]float64{1, math.NaN(), 3, 4}, []float64{2, 100, 6, 8}); !approxEqual(r, 1) {
		t.Errorf("pearson skipping NaN pair = %v, want 1", r)
	}
	if r := pearson([]float64{1, 1}, []float64{2, 3}); !math.IsNaN(r) {
		t.Errorf("zero variance = %v, want NaN", r)
	}
	if r := pearson([]float64{1}, []float64{1, 2}); !math.IsNaN(r) {
		t.Errorf("length mismatch = %v, want NaN", r)
	}
}
