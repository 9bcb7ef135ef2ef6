// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package recommend

import (
	"math"
	"strconv"
	"strings"
)

// Summary column names.
const (
	ColumnConversion  = "CVR"
	ColumnEfficiency  = "1000_W_EFFICIENCY"
	ColumnAchievement = "ABS"
	ColumnTimeTurn    = "TIME_TURN"
)

// SummaryColumns lists the numeric columns described by Summarize.
var SummaryColumns = []string{ColumnEfficiency, ColumnConversion, ColumnAchievement, ColumnTimeTurn}

// KPIs are the headline averages of a cluster. Missing values are
// skipped; a mean with no values is 0 and displays as "-".
type KPIs struct {
	Rows int `json:"rows"`

	// MeanEfficiency is the mean cost per 1000 won.
	MeanEfficiency float64 `json:"mean_efficiency"`

	// MeanConversionPct is the mean CVR expressed as a percentage.
	MeanConversionPct float64 `json:"mean_cvr_pct"`

	// MeanTimeTurn is the mean conversion turn count.
	MeanTimeTurn float64 `json:"mean_time_turn"`

	// Display holds dashboard-formatted strings.
	Display map[string]string `json:"display"`
}

// ColumnStats are descriptive statistics for one numeric column.
// Undefined values (fewer than two rows for Std) are nil.
type ColumnStats struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	P25    *float64 `json:"p25"`
	P50    *float64 `json:"p50"`
	P75    *float64 `json:"p75"`
	Max    *float64 `json:"max"`
}

// Correlation is a Pearson correlation matrix. Values[i][j] is nil where
// a column has zero variance.
type Correlation struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

// Summary describes a cluster's historical rows.
type Summary struct {
	ClusterID   int           `json:"cluster_id"`
	KPIs        KPIs          `json:"kpis"`
	Stats       []ColumnStats `json:"stats"`
	Correlation Correlation   `json:"correlation"`
}

// Summarize computes KPIs, per-column statistics and correlations.
func Summarize(clusterID int, rows []HistoricalRow) *Summary {
	columns := columnValues(rows)

	s := &Summary{
		ClusterID: clusterID,
		KPIs:      summarizeKPIs(rows, columns),
		Stats:     make([]ColumnStats, 0, len(SummaryColumns)),
	}

	for _, name := range SummaryColumns {
		s.Stats = append(s.Stats, describe(name, columns[name]))
	}

	s.Correlation.Columns = append([]string(nil), SummaryColumns...)
	s.Correlation.Values = make([][]*float64, len(SummaryColumns))
	for i, a := range SummaryColumns {
		s.Correlation.Values[i] = make([]*float64, len(SummaryColumns))
		for j, b := range SummaryColumns {
			s.Correlation.Values[i][j] = finite(pearson(columns[a], columns[b]))
		}
	}

	return s
}

func columnValues(rows []HistoricalRow) map[string][]float64 {
	cols := make(map[string][]float64, len(SummaryColumns))
	for _, name := range SummaryColumns {
		cols[name] = make([]float64, len(rows))
	}
	for i := range rows {
		cols[ColumnConversion][i] = rows[i].Conversion
		cols[ColumnEfficiency][i] = rows[i].Efficiency
		cols[ColumnAchievement][i] = rows[i].Achievement
		cols[ColumnTimeTurn][i] = rows[i].TimeTurn
	}
	return cols
}

func summarizeKPIs(rows []HistoricalRow, cols map[string][]float64) KPIs {
	k := KPIs{Rows: len(rows), Display: map[string]string{
		ColumnEfficiency: "-",
		ColumnConversion: "-",
		ColumnTimeTurn:   "-",
	}}

	if v, ok := finiteMean(cols[ColumnEfficiency]); ok {
		k.MeanEfficiency = v
		k.Display[ColumnEfficiency] = FormatKPI(ColumnEfficiency, v)
	}
	if v, ok := finiteMean(cols[ColumnConversion]); ok {
		k.MeanConversionPct = v * 100
		k.Display[ColumnConversion] = FormatKPI(ColumnConversion, k.MeanConversionPct)
	}
	if v, ok := finiteMean(cols[ColumnTimeTurn]); ok {
		k.MeanTimeTurn = v
		k.Display[ColumnTimeTurn] = FormatKPI(ColumnTimeTurn, v)
	}
	return k
}

// finiteMean averages the finite values. ok is false when there are none.
func finiteMean(xs []float64) (float64, bool) {
	vals := finiteValues(xs)
	if len(vals) == 0 {
		return 0, false
	}
	return mean(vals), true
}

// describe skips missing (non-finite) values; Count is the number used.
func describe(name string, xs []float64) ColumnStats {
	xs = finiteValues(xs)
	st := ColumnStats{Column: name, Count: len(xs)}
	if len(xs) == 0 {
		return st
	}
	sorted := sortedCopy(xs)
	st.Mean = finite(mean(xs))
	st.Std = finite(sampleStdDev(xs))
	st.Min = finite(sorted[0])
	st.P25 = finite(quantileSorted(sorted, 0.25))
	st.P50 = finite(quantileSorted(sorted, 0.5))
	st.P75 = finite(quantileSorted(sorted, 0.75))
	st.Max = finite(sorted[len(sorted)-1])
	return st
}

// finite returns nil for NaN and infinities so results stay JSON-safe.
func finite(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

// FormatKPI renders a KPI the way the dashboard shows it: efficiency as a
// whole number with thousands separators, CVR (already a percentage) with
// two decimals and a percent sign, anything else with two decimals.
func FormatKPI(column string, v float64) string {
	switch column {
	case ColumnEfficiency:
		return FormatThousands(int64(v))
	case ColumnConversion:
		return FormatPercent(v, 2)
	default:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
}

// FormatShare renders a budget share as "33.3%".
func FormatShare(share float64) string {
	return FormatPercent(share, 1)
}

// FormatPercent renders x with the given decimals and a percent sign.
func FormatPercent(x float64, decimals int) string {
	return strconv.FormatFloat(x, 'f', decimals, 64) + "%"
}

// FormatThousands renders n with comma thousands separators.
func FormatThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
