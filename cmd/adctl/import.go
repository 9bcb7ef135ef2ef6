// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tomtom215/adcompass/internal/bootstrap"
	"github.com/tomtom215/adcompass/internal/config"
	"github.com/tomtom215/adcompass/internal/logging"
)

func importCmd() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Load the cluster mapping and per-cluster history into DuckDB",
		Description: `Replaces the mapping table and every cluster table found in the cluster
directory. OS types are lowercased and string fields trimmed on the way in.

Flags override the data section of the configuration:
  adctl import --mapping mapping.parquet --cluster-dir ./clusters`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mapping", Aliases: []string{"m"}, Usage: "mapping file (parquet or CSV)"},
			&cli.StringFlag{Name: "cluster-dir", Aliases: []string{"d"}, Usage: "directory holding the cluster files"},
			&cli.StringFlag{Name: "pattern", Usage: "cluster file name pattern, %d is the cluster id"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			data := dataConfigFromCmd(cmd, cfg.Data)
			if data.MappingFile == "" || data.ClusterDir == "" {
				return fmt.Errorf("both --mapping and --cluster-dir are required when the configuration sets neither")
			}

			comp, err := bootstrap.Build(cfg, logging.Logger())
			if err != nil {
				return err
			}
			defer closeComponents(comp)

			stats, err := comp.Import(ctx, data)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			fmt.Fprintf(cmd.Root().Writer, "imported %d mapping rows and %d rows across %d clusters in %s\n",
				stats.MappingRows, stats.ClusterRows, len(stats.Clusters), stats.Duration)
			return nil
		},
	}
}

// dataConfigFromCmd overlays the import flags on base.
func dataConfigFromCmd(cmd *cli.Command, base config.DataConfig) config.DataConfig {
	if v := cmd.String("mapping"); v != "" {
		base.MappingFile = v
	}
	if v := cmd.String("cluster-dir"); v != "" {
		base.ClusterDir = v
	}
	if v := cmd.String("pattern"); v != "" {
		base.ClusterPattern = v
	}
	return base
}
