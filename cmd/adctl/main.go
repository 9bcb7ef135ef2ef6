// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

// Package main is adctl, the AdCompass operator CLI.
//
// Commands:
//
//	adctl import                       load the mapping and cluster files into DuckDB
//	adctl recommend --industry ... \
//	    --os WEB --limit UNLIMITED      rank configurations for a selection
//	adctl models import -f bundle.json  store a model bundle
//	adctl models list                   list stored bundles
//
// Every command reads the same configuration as the server. --config points
// at a YAML file; environment variables override it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "adctl: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:                  "adctl",
		Usage:                 "Operate the AdCompass recommender",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML configuration file",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level (trace, debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			importCmd(),
			recommendCmd(),
			modelsCmd(),
		},
	}
}
