// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/adcompass/internal/breaker"
	"github.com/tomtom215/adcompass/internal/metrics"
	"github.com/tomtom215/adcompass/internal/recommend"
)

// Composition categories.
const (
	CategoryIndustry = "industry"
	CategoryOS       = "os"
	CategoryLimit    = "limit"
)

// LabelCount is one label's frequency within a category.
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// Composition counts the selection labels mapped to a cluster.
type Composition struct {
	ClusterID int          `json:"cluster"`
	Industry  []LabelCount `json:"industry"`
	OS        []LabelCount `json:"os"`
	Limit     []LabelCount `json:"limit"`
}

// Options lists the distinct selection values in the mapping table.
type Options struct {
	Industries []string `json:"industries"`
	OSTypes    []string `json:"os_types"`
	LimitTypes []string `json:"limit_types"`
}

// Lookup implements recommend.ClusterResolver. The selection is expected
// to be normalized (trimmed, OS lowercased). When several mapping rows
// match, the first imported wins.
func (db *DB) Lookup(ctx context.Context, sel recommend.Selection) (int, bool, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	type lookup struct {
		id    int
		found bool
	}
	res, err := breaker.Do(db.readBreaker(), func() (lookup, error) {
		start := time.Now()
		var id int
		err := db.conn.QueryRowContext(ctx, `
			SELECT cluster FROM cluster_mapping
			WHERE industry = ? AND os_type = ? AND limit_type = ?
			ORDER BY seq
			LIMIT 1`,
			sel.Industry, sel.OSType, sel.LimitType,
		).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			metrics.RecordDBQuery("lookup", TableMapping, time.Since(start), nil)
			return lookup{}, nil
		}
		metrics.RecordDBQuery("lookup", TableMapping, time.Since(start), err)
		if err != nil {
			return lookup{}, fmt.Errorf("lookup cluster: %w", err)
		}
		return lookup{id: id, found: true}, nil
	})
	if err != nil {
		return 0, false, err
	}
	return res.id, res.found, nil
}

// ClusterRows implements recommend.RowSource. Rows come back in import order.
func (db *DB) ClusterRows(ctx context.Context, clusterID int) ([]recommend.HistoricalRow, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return breaker.Do(db.readBreaker(), func() ([]recommend.HistoricalRow, error) {
		start := time.Now()
		rows, err := db.queryClusterRows(ctx, clusterID)
		metrics.RecordDBQuery("cluster_rows", TableRows, time.Since(start), err)
		return rows, err
	})
}

func (db *DB) queryClusterRows(ctx context.Context, clusterID int) ([]recommend.HistoricalRow, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT industry, os_type, limit_type, shape, mda, start_time,
			cvr, efficiency, abs, time_turn, cluster
		FROM campaign_rows
		WHERE cluster = ?
		ORDER BY seq`, clusterID)
	if err != nil {
		return nil, fmt.Errorf("query cluster rows: %w", err)
	}
	defer closeQuietly(rows)

	var out []recommend.HistoricalRow
	for rows.Next() {
		var r recommend.HistoricalRow
		var cvr, eff, abs, turn sql.NullFloat64
		if err := rows.Scan(
			&r.Industry, &r.OSType, &r.LimitType,
			&r.Shape, &r.Platform, &r.StartTime,
			&cvr, &eff, &abs, &turn, &r.Cluster,
		); err != nil {
			return nil, fmt.Errorf("scan cluster row: %w", err)
		}
		r.Conversion = nullToNaN(cvr)
		r.Efficiency = nullToNaN(eff)
		r.Achievement = nullToNaN(abs)
		r.TimeTurn = nullToNaN(turn)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cluster rows: %w", err)
	}
	return out, nil
}

// nullToNaN maps SQL NULL to NaN; summaries skip non-finite values.
func nullToNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// ClusterComposition counts industry, OS and limit labels among the mapping
// rows assigned to clusterID, each ordered by count desc then label asc.
func (db *DB) ClusterComposition(ctx context.Context, clusterID int) (*Composition, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	comp := &Composition{ClusterID: clusterID}
	for _, c := range []struct {
		column string
		dst    *[]LabelCount
	}{
		{"industry", &comp.Industry},
		{"os_type", &comp.OS},
		{"limit_type", &comp.Limit},
	} {
		counts, err := db.labelCounts(ctx, c.column, clusterID)
		if err != nil {
			return nil, err
		}
		*c.dst = counts
	}
	return comp, nil
}

// labelCounts groups cluster_mapping by column. column is one of a fixed set.
func (db *DB) labelCounts(ctx context.Context, column string, clusterID int) ([]LabelCount, error) {
	start := time.Now()
	query := fmt.Sprintf(`
		SELECT %[1]s AS label, COUNT(*) AS n
		FROM cluster_mapping
		WHERE cluster = ?
		GROUP BY %[1]s
		ORDER BY n DESC, label ASC`, column)

	rows, err := db.conn.QueryContext(ctx, query, clusterID)
	if err != nil {
		metrics.RecordDBQuery("composition", TableMapping, time.Since(start), err)
		return nil, fmt.Errorf("query %s composition: %w", column, err)
	}
	defer closeQuietly(rows)

	out := []LabelCount{}
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, fmt.Errorf("scan %s composition: %w", column, err)
		}
		out = append(out, lc)
	}
	err = rows.Err()
	metrics.RecordDBQuery("composition", TableMapping, time.Since(start), err)
	return out, err
}

// Options returns the distinct selection values, sorted.
func (db *DB) Options(ctx context.Context) (*Options, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	opts := &Options{}
	for _, c := range []struct {
		column string
		dst    *[]string
	}{
		{"industry", &opts.Industries},
		{"os_type", &opts.OSTypes},
		{"limit_type", &opts.LimitTypes},
	} {
		values, err := db.distinct(ctx, c.column)
		if err != nil {
			return nil, err
		}
		*c.dst = values
	}
	return opts, nil
}

func (db *DB) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		fmt.Sprintf(`SELECT DISTINCT %[1]s FROM cluster_mapping ORDER BY %[1]s`, column))
	if err != nil {
		return nil, fmt.Errorf("query distinct %s: %w", column, err)
	}
	defer closeQuietly(rows)

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan distinct %s: %w", column, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ClusterIDs returns the clusters that have imported rows, ascending.
func (db *DB) ClusterIDs(ctx context.Context) ([]int, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT DISTINCT cluster FROM campaign_rows ORDER BY cluster`)
	if err != nil {
		return nil, fmt.Errorf("query cluster ids: %w", err)
	}
	defer closeQuietly(rows)

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan cluster id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Counts returns the row counts of both tables.
func (db *DB) Counts(ctx context.Context) (mapping, campaign int64, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM cluster_mapping").Scan(&mapping); err != nil {
		return 0, 0, fmt.Errorf("count mapping rows: %w", err)
	}
	if err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM campaign_rows").Scan(&campaign); err != nil {
		return 0, 0, fmt.Errorf("count campaign rows: %w", err)
	}
	return mapping, campaign, nil
}
