// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package recommend

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestEnumerate(t *testing.T) {
	t.Parallel()

	t.Run("one candidate per distinct tuple", func(t *testing.T) {
		t.Parallel()

		got := Enumerate(standardRows())
		if len(got) != 5 {
			t.Fatalf("Enumerate returned %d candidates, want 5", len(got))
		}
		want := []struct {
			shape   string
			support int
		}{
			{"banner", 12}, {"video", 17}, {"popup", 3}, {"native", 10}, {"interstitial", 20},
		}
		for i, w := range want {
			if got[i].Shape != w.shape || got[i].Support != w.support || got[i].Index != i {
				t.Errorf("candidate %d = %s support %d index %d, want %s support %d index %d",
					i, got[i].Shape, got[i].Support, got[i].Index, w.shape, w.support, i)
			}
		}
	})

	t.Run("identical tuples collapse", func(t *testing.T) {
		t.Parallel()

		got := Enumerate(rowsOf("banner", "app", "morning", 15))
		if len(got) != 1 || got[0].Support != 15 {
			t.Fatalf("Enumerate = %+v, want one candidate with support 15", got)
		}
	})

	t.Run("tuples differing in one field stay distinct", func(t *testing.T) {
		t.Parallel()

		rows := concatRows(
			rowsOf("banner", "app", "morning", 1),
			rowsOf("banner", "app", "evening", 1),
			rowsOf("banner", "web", "morning", 1),
		)
		if got := Enumerate(rows); len(got) != 3 {
			t.Errorf("Enumerate returned %d candidates, want 3", len(got))
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		if got := Enumerate(nil); len(got) != 0 {
			t.Errorf("Enumerate(nil) = %v, want empty", got)
		}
	})
}

func TestSupportCounts(t *testing.T) {
	t.Parallel()

	counts := SupportCounts(standardRows())
	if len(counts) != len(Enumerate(standardRows())) {
		t.Errorf("SupportCounts has %d keys, Enumerate %d candidates", len(counts), len(Enumerate(standardRows())))
	}
	if got := counts[Configuration{Shape: "video", Platform: "web", StartTime: "evening"}]; got != 17 {
		t.Errorf("video support = %d, want 17", got)
	}
}

func TestSupportFilter(t *testing.T) {
	t.Parallel()

	candidates := Enumerate(standardRows())
	got := SupportFilter{MinSupport: DefaultMinSupport}.Apply(candidates)

	var shapes []string
	for _, c := range got {
		if c.Support < DefaultMinSupport {
			t.Errorf("%s survived with support %d", c.Shape, c.Support)
		}
		shapes = append(shapes, c.Shape)
	}
	if want := []string{"banner", "video", "native", "interstitial"}; !reflect.DeepEqual(shapes, want) {
		t.Errorf("survivors = %v, want %v", shapes, want)
	}
	if len(candidates) != 5 {
		t.Error("Apply modified its input")
	}
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	p, err := NewPipeline(DefaultOptions())
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	res, err := p.Run(context.Background(), Input{
		Rows:       standardRows(),
		Predictors: standardPredictors(),
		Policy:     PolicyProfit,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Rows != 62 || res.Candidates != 5 || res.Survivors != 4 {
		t.Errorf("counts = rows %d candidates %d survivors %d, want 62/5/4", res.Rows, res.Candidates, res.Survivors)
	}
	if res.Policy != PolicyProfit || res.Normalization != NormalizeMinMax || res.Order != OrderFilterFirst {
		t.Errorf("result labels = %s/%s/%s", res.Policy, res.Normalization, res.Order)
	}
	if len(res.Top) != DefaultTopK {
		t.Fatalf("len(Top) = %d, want %d", len(res.Top), DefaultTopK)
	}
	if len(res.Ranked) != 4 {
		t.Errorf("len(Ranked) = %d, want all 4 survivors", len(res.Ranked))
	}

	// Popup has the best raw metrics but only 3 rows of support.
	for _, c := range append(res.Top, res.Ranked...) {
		if c.Shape == "popup" {
			t.Fatal("unsupported configuration appeared in the ranking")
		}
		if c.Support < DefaultMinSupport {
			t.Errorf("%s ranked with support %d", c.Shape, c.Support)
		}
	}

	// Normalized over survivors: banner is best on CVR and ABS, video on
	// efficiency, native worst on all three.
	// banner: 0.5*100 + 0.25*50 + 0.25*100 = 87.5
	// video:  0.5*50  + 0.25*100 + 0.25*50 = 62.5
	// interstitial: 0.5*25 + 0.25*75 + 0.25*25 = 37.5
	wantOrder := []string{"banner", "video", "interstitial", "native"}
	wantScores := []float64{87.5, 62.5, 37.5, 0}
	for i := range wantOrder {
		if res.Ranked[i].Shape != wantOrder[i] {
			t.Errorf("Ranked[%d] = %s, want %s", i, res.Ranked[i].Shape, wantOrder[i])
		}
		if !approxEqual(res.Ranked[i].Score, wantScores[i]) {
			t.Errorf("Ranked[%d].Score = %v, want %v", i, res.Ranked[i].Score, wantScores[i])
		}
	}
	assertSortedByScore(t, res.Top)
	assertSortedByScore(t, res.Ranked)

	// 87.5 + 62.5 + 37.5 = 187.5
	wantShares := []float64{46.7, 33.3, 20}
	for i, c := range res.Top {
		if c.Rank != i+1 {
			t.Errorf("Top[%d].Rank = %d", i, c.Rank)
		}
		if !approxEqual(c.Share, wantShares[i]) {
			t.Errorf("Top[%d].Share = %v, want %v", i, c.Share, wantShares[i])
		}
	}
	if res.Ranked[0].Rank != 0 || res.Ranked[0].Share != 0 {
		t.Error("Ranked entries must not carry rank labels or shares")
	}
}

func TestPipeline_Run_Idempotent(t *testing.T) {
	t.Parallel()

	p, err := NewPipeline(DefaultOptions())
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	in := Input{Rows: standardRows(), Predictors: standardPredictors(), Policy: PolicyStability}

	first, err := p.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := p.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("runs differ:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestPipeline_Run_Insufficient(t *testing.T) {
	t.Parallel()

	p, err := NewPipeline(DefaultOptions())
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	tests := []struct {
		name          string
		rows          []HistoricalRow
		wantSurvivors int
		wantNoData    bool
	}{
		{
			name: "two survivors",
			rows: concatRows(
				rowsOf("banner", "app", "morning", 10),
				rowsOf("video", "web", "evening", 11),
				rowsOf("popup", "app", "night", 9),
			),
			wantSurvivors: 2,
		},
		{
			name:          "no survivors",
			rows:          rowsOf("popup", "app", "night", 9),
			wantSurvivors: 0,
			wantNoData:    true,
		},
		{
			name:          "no rows",
			rows:          nil,
			wantSurvivors: 0,
			wantNoData:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := p.Run(context.Background(), Input{Rows: tt.rows, Predictors: standardPredictors(), Policy: PolicyProfit})
			if res != nil {
				t.Errorf("Run returned a partial result: %+v", res)
			}
			var ic *InsufficientCandidatesError
			if !errors.As(err, &ic) {
				t.Fatalf("err = %v, want *InsufficientCandidatesError", err)
			}
			if ic.Survivors != tt.wantSurvivors || ic.Required != DefaultTopK {
				t.Errorf("error = %+v, want %d survivors of %d", ic, tt.wantSurvivors, DefaultTopK)
			}
			if !errors.Is(err, ErrInsufficientCandidates) {
				t.Error("errors.Is(err, ErrInsufficientCandidates) = false")
			}
			if IsNoData(err) != tt.wantNoData {
				t.Errorf("IsNoData = %v, want %v", IsNoData(err), tt.wantNoData)
			}
		})
	}
}

func TestPipeline_Run_Errors(t *testing.T) {
	t.Parallel()

	p, err := NewPipeline(DefaultOptions())
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	missing := standardPredictors()
	delete(missing, MetricAchievement)

	failing := standardPredictors()
	failing[MetricEfficiency] = PredictorFunc(failingPredictor)

	short := standardPredictors()
	short[MetricConversion] = PredictorFunc(func(_ []Configuration) ([]float64, error) {
		return []float64{1}, nil
	})

	nonFinite := func(m Metric, v float64) PredictorSet {
		set := standardPredictors()
		table := set[m].(tablePredictor)
		table["video"] = v
		return set
	}
	notFinite := func(m Metric) func(*testing.T, error) {
		return func(t *testing.T, err error) {
			var pe *PredictionError
			if !errors.As(err, &pe) || pe.Metric != m {
				t.Errorf("err = %v, want PredictionError for %s", err, m)
			}
			if !strings.Contains(err.Error(), "non-finite") {
				t.Errorf("err = %v, want non-finite prediction", err)
			}
		}
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name   string
		ctx    context.Context
		in     Input
		target error
		check  func(*testing.T, error)
	}{
		{
			name:   "invalid policy",
			ctx:    context.Background(),
			in:     Input{Rows: standardRows(), Predictors: standardPredictors(), Policy: "greedy"},
			target: ErrInvalidWeightingPolicy,
		},
		{
			name:   "missing predictor",
			ctx:    context.Background(),
			in:     Input{Rows: standardRows(), Predictors: missing, Policy: PolicyProfit},
			target: ErrMissingPredictor,
		},
		{
			name:   "predictor failure",
			ctx:    context.Background(),
			in:     Input{Rows: standardRows(), Predictors: failing, Policy: PolicyProfit},
			target: errPredict,
			check: func(t *testing.T, err error) {
				var pe *PredictionError
				if !errors.As(err, &pe) || pe.Metric != MetricEfficiency {
					t.Errorf("err = %v, want PredictionError for %s", err, MetricEfficiency)
				}
			},
		},
		{
			name: "predictor length mismatch",
			ctx:  context.Background(),
			in:   Input{Rows: standardRows(), Predictors: short, Policy: PolicyProfit},
			check: func(t *testing.T, err error) {
				var pe *PredictionError
				if !errors.As(err, &pe) || pe.Metric != MetricConversion {
					t.Errorf("err = %v, want PredictionError for %s", err, MetricConversion)
				}
			},
		},
		{
			name:  "NaN prediction",
			ctx:   context.Background(),
			in:    Input{Rows: standardRows(), Predictors: nonFinite(MetricEfficiency, math.NaN()), Policy: PolicyProfit},
			check: notFinite(MetricEfficiency),
		},
		{
			name:  "infinite prediction",
			ctx:   context.Background(),
			in:    Input{Rows: standardRows(), Predictors: nonFinite(MetricConversion, math.Inf(1)), Policy: PolicyProfit},
			check: notFinite(MetricConversion),
		},
		{
			name:  "negative infinite prediction",
			ctx:   context.Background(),
			in:    Input{Rows: standardRows(), Predictors: nonFinite(MetricAchievement, math.Inf(-1)), Policy: PolicyProfit},
			check: notFinite(MetricAchievement),
		},
		{
			name:   "cancelled context",
			ctx:    cancelled,
			in:     Input{Rows: standardRows(), Predictors: standardPredictors(), Policy: PolicyProfit},
			target: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := p.Run(tt.ctx, tt.in)
			if err == nil {
				t.Fatalf("Run succeeded with %+v", res)
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("err = %v, want %v", err, tt.target)
			}
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestPipeline_Run_Order(t *testing.T) {
	t.Parallel()

	// The unsupported popup has extreme predictions. Normalizing before the
	// filter lets it stretch the scale; filtering first does not.
	in := Input{Rows: standardRows(), Predictors: standardPredictors(), Policy: PolicyProfit}

	filterFirst, err := NewPipeline(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.Order = OrderNormalizeFirst
	normalizeFirst, err := NewPipeline(opts)
	if err != nil {
		t.Fatal(err)
	}

	a, err := filterFirst.Run(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	b, err := normalizeFirst.Run(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	if a.Ranked[0].Normalized.Conversion != MinMaxHigh {
		t.Errorf("filter_first: best survivor CVR normalized to %v, want %v", a.Ranked[0].Normalized.Conversion, MinMaxHigh)
	}
	if b.Ranked[0].Normalized.Conversion >= MinMaxHigh {
		t.Errorf("normalize_first: best survivor CVR normalized to %v, want below %v", b.Ranked[0].Normalized.Conversion, MinMaxHigh)
	}
	if b.Order != OrderNormalizeFirst || b.Survivors != 4 {
		t.Errorf("normalize_first result = order %s survivors %d", b.Order, b.Survivors)
	}
	for _, c := range b.Ranked {
		if c.Support < DefaultMinSupport {
			t.Errorf("normalize_first ranked %s with support %d", c.Shape, c.Support)
		}
	}
}

func TestPipeline_Run_EqualWeighting(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Weighting = WeightingEqual
	p, err := NewPipeline(opts)
	if err != nil {
		t.Fatal(err)
	}

	res, err := p.Run(context.Background(), Input{Rows: standardRows(), Predictors: standardPredictors(), Policy: PolicyCost})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Policy != PolicyEqual || res.Weights != EqualWeights() {
		t.Errorf("policy %s weights %+v, want equal", res.Policy, res.Weights)
	}

	if _, err := p.Run(context.Background(), Input{Rows: standardRows(), Predictors: standardPredictors(), Policy: "bogus"}); !errors.Is(err, ErrInvalidWeightingPolicy) {
		t.Errorf("equal weighting accepted an unknown policy: %v", err)
	}
}

func TestNewPipeline_InvalidOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.TopN = 1
	if _, err := NewPipeline(opts); err == nil {
		t.Error("expected error for top_n < top_k")
	}
}
