package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"hylla/internal/ledger"
	"hylla/internal/notifications"
	"hylla/internal/reconcile"
)

func newReconcileCommand(cctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Repair divergence between entry state and the audit ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStoreRaw(cmd, func(ctx context.Context, store *ledger.Store) error {
				cfg, err := cctx.ensureConfig()
				if err != nil {
					return err
				}
				notifier := notifications.NewService(cfg)
				report, err := reconcile.Run(ctx, store, notifier, cctx.logger())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Checked %d entries\n", report.Checked)
				for _, id := range report.Replayed {
					fmt.Fprintf(out, "  replayed %s from its ledger records\n", id)
				}
				for _, hold := range report.Held {
					fmt.Fprintf(out, "  HELD %q (%s): %s\n", hold.Title, hold.EntityID, hold.Reason)
				}
				if report.AlreadyHeld > 0 {
					fmt.Fprintf(out, "  %d entries remain under integrity hold\n", report.AlreadyHeld)
				}
				if report.Clean() && report.AlreadyHeld == 0 {
					fmt.Fprintln(out, "State and ledger agree")
				}
				return nil
			})
		},
	}

	cmd.AddCommand(newReconcileReleaseCommand(cctx))
	return cmd
}

func newReconcileReleaseCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "release <entry>",
		Short: "Release an integrity hold after inspecting the entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStoreRaw(cmd, func(ctx context.Context, store *ledger.Store) error {
				entry, err := resolveEntry(ctx, store, args[0])
				if err != nil {
					return err
				}
				if !entry.Held() {
					fmt.Fprintf(cmd.OutOrStdout(), "%q is not under an integrity hold\n", entry.Title)
					return nil
				}
				if err := store.ClearIntegrityHold(ctx, entry.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Released hold on %q (was: %s)\n", entry.Title, entry.IntegrityHold)
				return nil
			})
		},
	}
}

func newStatsCommand(cctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
				stats, err := store.Stats(ctx)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, stats)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Entries:        %d\n", stats.Entries)
				fmt.Fprintf(out, "  on disc:      %d\n", stats.Physical)
				fmt.Fprintf(out, "  digital:      %d\n", stats.Digital)
				fmt.Fprintf(out, "  rated:        %d\n", stats.Rated)
				if stats.Held > 0 {
					fmt.Fprintf(out, "  under hold:   %d\n", stats.Held)
				}
				fmt.Fprintf(out, "Audit records:  %d\n", stats.AuditRecords)
				fmt.Fprintf(out, "Wishlist items: %d\n", stats.Wishlist)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func newHealthCommand(cctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the catalog database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStoreRaw(cmd, func(ctx context.Context, store *ledger.Store) error {
				health, err := store.CheckHealth(ctx)
				if jsonOut {
					if writeErr := writeJSON(cmd, health); writeErr != nil {
						return writeErr
					}
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database:   %s\n", health.DBPath)
				fmt.Fprintf(out, "  exists:   %s\n", yesNo(health.DatabaseExists))
				fmt.Fprintf(out, "  readable: %s\n", yesNo(health.DatabaseReadable))
				fmt.Fprintf(out, "  intact:   %s\n", yesNo(health.IntegrityCheck))
				if len(health.MissingTables) > 0 {
					fmt.Fprintf(out, "  missing tables: %v\n", health.MissingTables)
				}
				fmt.Fprintf(out, "  entries:  %d (%d held), records: %d\n", health.TotalEntries, health.HeldEntries, health.TotalRecords)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}
