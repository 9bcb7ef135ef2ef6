// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/tomtom215/adcompass/internal/bootstrap"
	"github.com/tomtom215/adcompass/internal/logging"
	"github.com/tomtom215/adcompass/internal/recommend"
)

func recommendCmd() *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "Rank ad configurations for an industry, OS type and limit type",
		Description: `Resolves the selection to its cluster, predicts every configuration seen
in the cluster history, drops those with too little support and ranks the rest
under the chosen policy. The top configurations get a budget share.

  adctl recommend --industry 게임 --os android --limit DAILY --policy cost`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "industry", Aliases: []string{"i"}, Required: true, Usage: "industry category"},
			&cli.StringFlag{Name: "os", Required: true, Usage: "OS type (case-insensitive)"},
			&cli.StringFlag{Name: "limit", Aliases: []string{"l"}, Required: true, Usage: "limit type"},
			&cli.StringFlag{
				Name:    "policy",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("weighting policy (%v), default from configuration", recommend.Policies),
			},
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			req, err := buildRequestFromCmd(cmd)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			comp, err := bootstrap.Build(cfg, logging.Logger())
			if err != nil {
				return err
			}
			defer closeComponents(comp)

			resp, err := comp.Engine.Recommend(ctx, req)
			if err != nil {
				return fmt.Errorf("recommend: %w", err)
			}
			return writeRecommendation(cmd.Root().Writer, resp, format)
		},
	}
}

// writeRecommendation renders resp as JSON or as a ranked table.
func writeRecommendation(w io.Writer, resp *recommend.Response, format string) error {
	if format == formatJSON {
		return writeJSON(w, resp)
	}

	res := resp.Result
	fmt.Fprintf(w, "cluster %d  policy %s  candidates %d  survivors %d\n\n",
		resp.ClusterID, res.Policy, res.Candidates, res.Survivors)

	tw := newTable(w)
	fmt.Fprintln(tw, "RANK\tSHAPE\tPLATFORM\tSTART\tSHARE\tEFFICIENCY\tCVR\tSCORE")
	for _, c := range res.Top {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%.4f\n",
			c.Rank, c.Shape, c.Platform, c.StartTime,
			recommend.FormatShare(c.Share),
			recommend.FormatKPI(recommend.ColumnEfficiency, c.Predicted.Efficiency),
			recommend.FormatKPI(recommend.ColumnConversion, c.Predicted.Conversion*100),
			c.Score)
	}
	return tw.Flush()
}
