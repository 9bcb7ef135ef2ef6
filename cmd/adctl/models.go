// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tomtom215/adcompass/internal/recommend/storage"
)

func modelsCmd() *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: "Manage per-cluster model bundles",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Validate a JSON bundle and store it as the cluster's next version",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "bundle file path"},
					&cli.IntFlag{Name: "keep", Usage: "versions to keep for the cluster after import, 0 keeps all"},
				},
				Action: modelsImport,
			},
			{
				Name:   "list",
				Usage:  "List stored bundles",
				Flags:  []cli.Flag{formatFlag},
				Action: modelsList,
			},
		},
	}
}

func modelsImport(ctx context.Context, cmd *cli.Command) error {
	keep := cmd.Int("keep")
	if keep < 0 {
		return fmt.Errorf("--keep must be non-negative, got %d", keep)
	}
	b, err := readBundle(cmd.String("file"))
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Models.Backend, cfg.Models.Dir)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck // read-mostly store

	meta, err := store.Save(ctx, b)
	if err != nil {
		return fmt.Errorf("save bundle: %w", err)
	}
	if keep > 0 {
		if err := store.Prune(ctx, meta.ClusterID, int(keep)); err != nil {
			return fmt.Errorf("prune cluster %d: %w", meta.ClusterID, err)
		}
	}
	fmt.Fprintf(cmd.Root().Writer, "stored cluster %d version %d (%s)\n", meta.ClusterID, meta.Version, meta.Checksum)
	return nil
}

func modelsList(ctx context.Context, cmd *cli.Command) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Models.Backend, cfg.Models.Dir)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck // read-only

	metas, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list bundles: %w", err)
	}
	return writeModelList(cmd.Root().Writer, metas, format)
}

// readBundle loads and validates a bundle file. A bundle without a source
// is labelled with its file name.
func readBundle(path string) (*storage.Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	b, err := storage.ParseBundle(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if b.Source == "" {
		b.Source = path
	}
	return b, nil
}

func writeModelList(w io.Writer, metas []storage.Metadata, format string) error {
	if format == formatJSON {
		if metas == nil {
			metas = []storage.Metadata{}
		}
		return writeJSON(w, metas)
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "CLUSTER\tVERSION\tTRAINED\tSAVED\tMETRICS\tSIZE\tSOURCE")
	for _, m := range metas {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%d\t%s\n",
			m.ClusterID, m.Version,
			formatTime(m.TrainedAt), formatTime(m.SavedAt),
			strings.Join(m.Metrics, ","), m.SizeBytes, m.Source)
	}
	return tw.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
