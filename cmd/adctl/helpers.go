// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/tomtom215/adcompass/internal/bootstrap"
	"github.com/tomtom215/adcompass/internal/config"
	"github.com/tomtom215/adcompass/internal/logging"
	"github.com/tomtom215/adcompass/internal/recommend"
	"github.com/tomtom215/adcompass/internal/validation"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

var formatFlag = &cli.StringFlag{
	Name:    "format",
	Aliases: []string{"t"},
	Value:   formatTable,
	Usage:   "output format (json, table)",
}

// loadConfig applies --config and --log-level, then loads configuration.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := os.Setenv(config.ConfigPathEnvVar, path); err != nil {
			return nil, fmt.Errorf("set config path: %w", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	level := cmd.String("log-level")
	if !logging.ValidLevel(level) {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	logging.Init(logging.Config{Level: level, Format: "console"})
	return cfg, nil
}

// parseOutputFormat validates --format.
func parseOutputFormat(cmd *cli.Command) (string, error) {
	switch f := cmd.String("format"); f {
	case formatJSON, formatTable:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format: %q, valid formats are: json, table", f)
	}
}

// buildRequestFromCmd constructs a recommendation request from flags.
func buildRequestFromCmd(cmd *cli.Command) (recommend.Request, error) {
	req := recommend.Request{
		Selection: recommend.Selection{
			Industry:  cmd.String("industry"),
			OSType:    cmd.String("os"),
			LimitType: cmd.String("limit"),
		},
		Policy: cmd.String("policy"),
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return recommend.Request{}, fmt.Errorf("invalid selection: %w", err)
	}
	return req, nil
}

func closeComponents(comp *bootstrap.Components) {
	if err := comp.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing recommendation stack")
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
