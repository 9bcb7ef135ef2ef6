// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package api

import (
	"context"
	"time"

	"github.com/tomtom215/adcompass/internal/database"
	"github.com/tomtom215/adcompass/internal/recommend"
)

// Recommender is the engine surface the handlers use.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	ResolveCluster(ctx context.Context, sel recommend.Selection) (int, error)
	ClusterRows(ctx context.Context, clusterID int) ([]recommend.HistoricalRow, error)
	Stats() recommend.Stats
}

// DataStore is the database surface the handlers use.
type DataStore interface {
	Ping(ctx context.Context) error
	Options(ctx context.Context) (*database.Options, error)
	ClusterComposition(ctx context.Context, clusterID int) (*database.Composition, error)
}

// Defaults are the preselected dashboard values.
type Defaults struct {
	Selection recommend.Selection `json:"selection"`
	Policy    recommend.Policy    `json:"policy"`
}

// DefaultSelection returns the dashboard's initial selection.
func DefaultSelection() Defaults {
	return Defaults{
		Selection: recommend.Selection{
			Industry:  "금융/보험",
			OSType:    "WEB",
			LimitType: "UNLIMITED",
		},
		Policy: recommend.PolicyProfit,
	}
}

// Handler serves the API endpoints.
type Handler struct {
	recommender Recommender
	store       DataStore
	defaults    Defaults
	startTime   time.Time
}

// NewHandler creates a handler. A zero Defaults.Policy keeps the dashboard
// defaults.
func NewHandler(recommender Recommender, store DataStore, defaults Defaults) *Handler {
	if defaults.Policy == "" {
		defaults = DefaultSelection()
	}
	return &Handler{
		recommender: recommender,
		store:       store,
		defaults:    defaults,
		startTime:   time.Now(),
	}
}
