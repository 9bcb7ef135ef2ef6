// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

// Package recommend ranks advertising campaign configurations for a cluster
// of historical campaign executions.
//
// # Architecture
//
// A recommendation is produced by a one-way pipeline over a cluster's
// historical rows:
//
//   - Enumerate: distinct (shape, platform, start time) configurations with
//     their support counts
//   - Predict: one batch call per metric (conversion, efficiency,
//     achievement) against the cluster's predictors
//   - Filter: drop configurations backed by fewer than MinSupport rows
//   - Normalize: min-max onto [0, 100] or robust median/IQR scaling
//   - Score: weighted sum under a Policy (profit, cost, stability, equal)
//   - Rank: descending score, stable on enumeration order, top-K with
//     budget shares and top-N
//
// The Pipeline is a pure function of its Input and Options. It holds no
// state between runs and never mutates the rows it is given.
//
// The Engine sits around the Pipeline. It resolves the selection to a
// cluster, fetches rows and predictors through the ClusterResolver,
// RowSource and ModelSource collaborators, and may serve fetched data from
// an application-owned cache.
//
// # Variants
//
// Two historical behaviours are exposed as named options rather than
// picked silently:
//
//   - Order: OrderFilterFirst (default) or OrderNormalizeFirst
//   - Weighting: WeightingPolicy (default) or WeightingEqual, which ignores
//     the selected policy
//
// # Usage
//
//	p, err := recommend.NewPipeline(recommend.DefaultOptions())
//	res, err := p.Run(ctx, recommend.Input{
//	    Rows:       rows,
//	    Predictors: predictors,
//	    Policy:     recommend.PolicyProfit,
//	})
//
// # Thread Safety
//
// Pipeline and Engine are safe for concurrent use. Every run works on its
// own derived slices.
package recommend
