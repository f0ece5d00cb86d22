package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"hylla/internal/ledger"
	"hylla/internal/metadata"
	"hylla/internal/notifications"
)

func newLookupCommand(cctx *commandContext) *cobra.Command {
	var (
		year    int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "lookup <title>",
		Short: "Fetch metadata for a title without touching the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			source, err := metadata.NewService(cfg, cctx.logger())
			if err != nil {
				return err
			}
			if !source.Configured() {
				return fmt.Errorf("no metadata sources configured; set tmdb_api_key or omdb_api_key in config")
			}

			details, err := source.Lookup(cmd.Context(), args[0], year)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, details)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s", details.Title)
			if details.Year > 0 {
				fmt.Fprintf(out, " (%d)", details.Year)
			}
			fmt.Fprintln(out)
			if details.Genre != "" {
				fmt.Fprintf(out, "  genre:    %s\n", details.Genre)
			}
			if details.Director != "" {
				fmt.Fprintf(out, "  director: %s\n", details.Director)
			}
			if details.Cast != "" {
				fmt.Fprintf(out, "  cast:     %s\n", details.Cast)
			}
			if details.Runtime > 0 {
				fmt.Fprintf(out, "  runtime:  %d min\n", details.Runtime)
			}
			if details.SourceRating > 0 {
				fmt.Fprintf(out, "  score:    %.1f\n", details.SourceRating)
			}
			if details.Plot != "" {
				fmt.Fprintf(out, "\n  %s\n", details.Plot)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Release year to narrow the search")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func newBackfillCommand(cctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Fill missing metadata across the whole catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
				cfg, err := cctx.ensureConfig()
				if err != nil {
					return err
				}
				source, err := metadata.NewService(cfg, cctx.logger())
				if err != nil {
					return err
				}
				if !source.Configured() {
					return fmt.Errorf("no metadata sources configured; set tmdb_api_key or omdb_api_key in config")
				}

				notifier := notifications.NewService(cfg)
				backfiller := metadata.NewBackfiller(store, source, notifier, cctx.logger())
				report, err := backfiller.Run(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if report.Scanned == 0 {
					fmt.Fprintln(out, "Every entry already has full metadata")
					return nil
				}
				fmt.Fprintf(out, "Scanned %d entries: %d updated, %d rated, %d failed\n",
					report.Scanned, report.Updated, report.Rated, report.Failed)
				return nil
			})
		},
	}
	return cmd
}
