// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package database

import (
	"context"
	"fmt"
	"time"
)

// Table names.
const (
	TableMapping = "cluster_mapping"
	TableRows    = "campaign_rows"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates sequences, tables and indexes.
func (db *DB) createTables(ctx context.Context) error {
	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

func tableCreationQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS cluster_mapping_seq`,
		`CREATE SEQUENCE IF NOT EXISTS campaign_rows_seq`,

		`CREATE TABLE IF NOT EXISTS cluster_mapping (
			seq BIGINT NOT NULL DEFAULT nextval('cluster_mapping_seq'),
			industry VARCHAR NOT NULL,
			os_type VARCHAR NOT NULL,
			limit_type VARCHAR NOT NULL,
			cluster INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS campaign_rows (
			seq BIGINT NOT NULL DEFAULT nextval('campaign_rows_seq'),
			cluster INTEGER NOT NULL,
			industry VARCHAR NOT NULL,
			os_type VARCHAR NOT NULL,
			limit_type VARCHAR NOT NULL,
			shape VARCHAR NOT NULL,
			mda VARCHAR NOT NULL,
			start_time VARCHAR NOT NULL,
			cvr DOUBLE,
			efficiency DOUBLE,
			abs DOUBLE,
			time_turn DOUBLE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_mapping_selection ON cluster_mapping(industry, os_type, limit_type)`,
		`CREATE INDEX IF NOT EXISTS idx_mapping_cluster ON cluster_mapping(cluster)`,
		`CREATE INDEX IF NOT EXISTS idx_rows_cluster ON campaign_rows(cluster)`,
	}
}
