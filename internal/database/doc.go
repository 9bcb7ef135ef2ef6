// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

// Package database stores historical campaign data in DuckDB.
//
// # Tables
//
//   - cluster_mapping: (industry, os_type, limit_type) to cluster id
//   - campaign_rows: per-cluster historical executions with the observed
//     CVR, 1000_W_EFFICIENCY, ABS and TIME_TURN
//
// Both tables carry a seq column fed from a sequence so reads return
// rows in import order. Candidate enumeration depends on that order.
//
// # Import
//
// Source files are parquet (read_parquet) or CSV (read_csv_auto), picked by
// extension. On import every string is trimmed, OS types are lowercased and
// MDA is cast to VARCHAR. Importing a cluster replaces its previous rows
// inside one transaction.
//
// # Recommendation Sources
//
// DB implements recommend.ClusterResolver and recommend.RowSource. Row
// fetches can run through a circuit breaker (SetBreaker).
//
// # Thread Safety
//
// DB is safe for concurrent use; database/sql pools the connections.
package database
