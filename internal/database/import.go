// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/adcompass/internal/logging"
	"github.com/tomtom215/adcompass/internal/metrics"
)

// ErrUnsupportedFormat indicates a source file is neither parquet nor CSV.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ImportStats summarizes one import run.
type ImportStats struct {
	MappingRows int64         `json:"mapping_rows"`
	Clusters    []int         `json:"clusters"`
	ClusterRows int64         `json:"cluster_rows"`
	Duration    time.Duration `json:"duration"`
}

// sourceExpr returns the table function that reads path.
func sourceExpr(path string) (string, error) {
	lit := quoteLiteral(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return "read_parquet(" + lit + ")", nil
	case ".csv":
		return "read_csv_auto(" + lit + ", header = true)", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// text trims a source column rendered as VARCHAR.
func text(col string) string {
	return fmt.Sprintf(`COALESCE(trim(CAST(%q AS VARCHAR)), '')`, col)
}

// ImportMapping replaces the cluster mapping with the contents of path.
// Expected columns: INDUSTRY, OS_TYPE, LIMIT_TYPE, GMM_CLUSTER.
func (db *DB) ImportMapping(ctx context.Context, path string) (int64, error) {
	src, err := sourceExpr(path)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`INSERT INTO cluster_mapping (industry, os_type, limit_type, cluster)
		SELECT %s, lower(%s), %s, CAST("GMM_CLUSTER" AS INTEGER)
		FROM %s`,
		text("INDUSTRY"), text("OS_TYPE"), text("LIMIT_TYPE"), src)

	return db.replace(ctx, TableMapping, "DELETE FROM cluster_mapping", nil, query)
}

// ImportCluster replaces the rows of clusterID with the contents of path.
// Expected columns: INDUSTRY, OS_TYPE, LIMIT_TYPE, SHAPE, MDA, START_TIME,
// CVR, 1000_W_EFFICIENCY, ABS, TIME_TURN.
func (db *DB) ImportCluster(ctx context.Context, clusterID int, path string) (int64, error) {
	src, err := sourceExpr(path)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`INSERT INTO campaign_rows
			(cluster, industry, os_type, limit_type, shape, mda, start_time, cvr, efficiency, abs, time_turn)
		SELECT %d, %s, lower(%s), %s, %s, %s, %s,
			TRY_CAST("CVR" AS DOUBLE),
			TRY_CAST("1000_W_EFFICIENCY" AS DOUBLE),
			TRY_CAST("ABS" AS DOUBLE),
			TRY_CAST("TIME_TURN" AS DOUBLE)
		FROM %s`,
		clusterID,
		text("INDUSTRY"), text("OS_TYPE"), text("LIMIT_TYPE"),
		text("SHAPE"), text("MDA"), text("START_TIME"),
		src)

	return db.replace(ctx, TableRows, "DELETE FROM campaign_rows WHERE cluster = ?", []any{clusterID}, query)
}

// replace runs del then insert in one transaction and returns the inserted count.
func (db *DB) replace(ctx context.Context, table, del string, delArgs []any, insert string) (int64, error) {
	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, del, delArgs...); err != nil {
		metrics.RecordDBQuery("delete", table, time.Since(start), err)
		return 0, fmt.Errorf("clear %s: %w", table, err)
	}
	res, err := tx.ExecContext(ctx, insert)
	if err != nil {
		metrics.RecordDBQuery("import", table, time.Since(start), err)
		return 0, fmt.Errorf("import into %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count imported rows: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}

	metrics.RecordDBQuery("import", table, time.Since(start), nil)
	metrics.DBImportedRows.WithLabelValues(table).Add(float64(n))
	return n, nil
}

// ImportDir imports the mapping file, then every cluster file in dir whose
// name matches pattern (which carries one %d for the cluster id).
func (db *DB) ImportDir(ctx context.Context, mappingFile, dir, pattern string) (*ImportStats, error) {
	start := time.Now()
	stats := &ImportStats{}

	n, err := db.ImportMapping(ctx, mappingFile)
	if err != nil {
		return nil, fmt.Errorf("import mapping %s: %w", mappingFile, err)
	}
	stats.MappingRows = n

	files, err := clusterFiles(dir, pattern)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(files))
	for id := range files {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := db.ImportCluster(ctx, id, files[id])
		if err != nil {
			return nil, fmt.Errorf("import cluster %d: %w", id, err)
		}
		stats.Clusters = append(stats.Clusters, id)
		stats.ClusterRows += n
		logging.Debug().Int("cluster", id).Int64("rows", n).Str("file", files[id]).Msg("Imported cluster file")
	}

	stats.Duration = time.Since(start)
	logging.Info().
		Int64("mapping_rows", stats.MappingRows).
		Int("clusters", len(stats.Clusters)).
		Int64("cluster_rows", stats.ClusterRows).
		Dur("duration", stats.Duration).
		Msg("Data import complete")
	return stats, nil
}

// clusterFiles maps cluster id to file path for entries of dir matching pattern.
func clusterFiles(dir, pattern string) (map[int]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read cluster dir: %w", err)
	}
	prefix, suffix, ok := strings.Cut(pattern, "%d")
	if !ok {
		return nil, fmt.Errorf("cluster pattern %q has no %%d", pattern)
	}

	files := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, ok := matchClusterFile(entry.Name(), prefix, suffix)
		if ok {
			files[id] = filepath.Join(dir, entry.Name())
		}
	}
	return files, nil
}

func matchClusterFile(name, prefix, suffix string) (int, bool) {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok {
		return 0, false
	}
	digits, ok := strings.CutSuffix(rest, suffix)
	if !ok || digits == "" {
		return 0, false
	}
	id := 0
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
		id = id*10 + int(r-'0')
	}
	return id, true
}
