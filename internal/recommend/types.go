// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package recommend

import (
	"fmt"
	"time"
)

// Metric identifies one predicted outcome.
type Metric string

// Metrics predicted for every candidate configuration.
const (
	// MetricConversion is the conversion rate (CVR).
	MetricConversion Metric = "CVR"

	// MetricEfficiency is cost efficiency per 1000 won spent.
	MetricEfficiency Metric = "1000_W_EFFICIENCY"

	// MetricAchievement is the achievement-vs-target ratio (ABS).
	MetricAchievement Metric = "ABS"
)

// AllMetrics lists metrics in weight order (conversion, efficiency, achievement).
var AllMetrics = []Metric{MetricConversion, MetricEfficiency, MetricAchievement}

// ParseMetric resolves a metric key.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricConversion, MetricEfficiency, MetricAchievement:
		return Metric(s), nil
	}
	switch s {
	case "conversion", "cvr":
		return MetricConversion, nil
	case "efficiency", "eff":
		return MetricEfficiency, nil
	case "achievement", "abs":
		return MetricAchievement, nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// HistoricalRow is one observed campaign execution.
type HistoricalRow struct {
	Industry  string `json:"industry"`
	OSType    string `json:"os_type"`
	LimitType string `json:"limit_type"`

	Shape     string `json:"shape"`
	Platform  string `json:"platform"`
	StartTime string `json:"start_time"`

	// Conversion is the observed CVR as a fraction.
	Conversion float64 `json:"cvr"`

	// Efficiency is the observed cost per 1000 won spent.
	Efficiency float64 `json:"efficiency"`

	// Achievement is the observed achievement ratio.
	Achievement float64 `json:"abs"`

	// TimeTurn is the mean conversion turn count.
	TimeTurn float64 `json:"time_turn"`

	Cluster int `json:"cluster"`
}

// Configuration returns the row's dedup key.
func (r *HistoricalRow) Configuration() Configuration {
	return Configuration{Shape: r.Shape, Platform: r.Platform, StartTime: r.StartTime}
}

// Configuration is a candidate (shape, platform, start time) tuple.
type Configuration struct {
	Shape     string `json:"shape"`
	Platform  string `json:"platform"`
	StartTime string `json:"start_time"`
}

// String renders the configuration for logs.
func (c Configuration) String() string {
	return c.Shape + "/" + c.Platform + "/" + c.StartTime
}

// MetricValues holds one value per metric.
type MetricValues struct {
	Conversion  float64 `json:"cvr"`
	Efficiency  float64 `json:"efficiency"`
	Achievement float64 `json:"abs"`
}

// Get returns the value for m.
func (v MetricValues) Get(m Metric) float64 {
	switch m {
	case MetricConversion:
		return v.Conversion
	case MetricEfficiency:
		return v.Efficiency
	case MetricAchievement:
		return v.Achievement
	default:
		return 0
	}
}

// Set stores x for m.
func (v *MetricValues) Set(m Metric, x float64) {
	switch m {
	case MetricConversion:
		v.Conversion = x
	case MetricEfficiency:
		v.Efficiency = x
	case MetricAchievement:
		v.Achievement = x
	}
}

// Candidate is a configuration carried through the pipeline.
type Candidate struct {
	Configuration

	// Index is the configuration's first-appearance position in the rows.
	// It is the ranking tie-break.
	Index int `json:"-"`

	// Support is the number of historical rows backing the configuration.
	Support int `json:"support"`

	// Predicted holds raw predictor outputs.
	Predicted MetricValues `json:"predicted"`

	// Normalized holds the strategy-scaled values.
	Normalized MetricValues `json:"normalized"`

	// Score is the weighted combination of Normalized.
	Score float64 `json:"score"`

	// Rank is 1-based in the top-K slice and 0 elsewhere.
	Rank int `json:"rank"`

	// Share is the budget-share percentage in the top-K slice and 0 elsewhere.
	// A top-K candidate scoring 0 carries a share of 0.
	Share float64 `json:"share"`
}

// Result is the output of one pipeline run.
type Result struct {
	// Top holds the top-K candidates with rank labels and shares.
	Top []Candidate `json:"top"`

	// Ranked holds the top-N candidates in score order.
	Ranked []Candidate `json:"ranked"`

	Policy  Policy  `json:"policy"`
	Weights Weights `json:"weights"`

	Normalization NormalizationStrategy `json:"normalization"`
	Order         Order                 `json:"order"`

	// Rows is the number of historical rows supplied.
	Rows int `json:"rows"`

	// Candidates is the number of distinct configurations.
	Candidates int `json:"candidates"`

	// Survivors is the number of configurations passing the support filter.
	Survivors int `json:"survivors"`
}

// Selection is the advertising context chosen by the caller.
type Selection struct {
	Industry  string `json:"industry" validate:"required,notblank,max=64"`
	OSType    string `json:"os_type" validate:"required,notblank,max=32"`
	LimitType string `json:"limit_type" validate:"required,notblank,max=32"`
}

// Request represents a recommendation request.
type Request struct {
	Selection

	// Policy is the weighting policy name. Defaults to Config.DefaultPolicy.
	Policy string `json:"policy,omitempty" validate:"omitempty,policy"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty" validate:"omitempty,max=128"`
}

// Response represents a recommendation response.
type Response struct {
	ClusterID int       `json:"cluster_id"`
	Selection Selection `json:"selection"`
	Result    *Result   `json:"result"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// LatencyMS is the total recommendation latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// CacheHit indicates whether cluster data came from the cache.
	CacheHit bool `json:"cache_hit"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}
