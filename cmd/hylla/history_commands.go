package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"hylla/internal/audit"
	"hylla/internal/catalog"
	"hylla/internal/ledger"
)

func newHistoryCommand(cctx *commandContext) *cobra.Command {
	var (
		since   string
		until   string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "history <entry>",
		Short: "Show the audit history of one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
				window, err := parseWindow(since, until)
				if err != nil {
					return err
				}
				entry, err := resolveEntry(ctx, store, args[0])
				if err != nil {
					return err
				}

				reader := audit.NewReader(store)
				records, err := reader.HistoryFor(ctx, entry.ID, window)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, newRecordViews(records))
				}
				if len(records) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No recorded changes for %q\n", entry.Title)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "History for %q (version %d)\n", entry.Title, entry.Version)
				writeTable(cmd.OutOrStdout(),
					[]string{"WHEN", "WHO", "CHANGE"},
					recordRows(records, false, nil),
				)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "Lower time bound (date or duration, e.g. 2026-01-01 or 72h)")
	cmd.Flags().StringVar(&until, "until", "", "Upper time bound (date or duration)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func newActivityCommand(cctx *commandContext) *cobra.Command {
	var (
		since   string
		until   string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "activity [actor]",
		Short: "Show everything one person changed, across the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
				window, err := parseWindow(since, until)
				if err != nil {
					return err
				}
				actor := ""
				if len(args) == 1 {
					actor = args[0]
				} else if actor, err = cctx.actor(); err != nil {
					return err
				}

				reader := audit.NewReader(store)
				records, err := reader.ActivityBy(ctx, actor, window)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, newRecordViews(records))
				}
				if len(records) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No recorded changes by %s\n", actor)
					return nil
				}

				titles, err := entryTitles(ctx, store, records)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Activity by %s\n", actor)
				writeTable(cmd.OutOrStdout(),
					[]string{"ENTRY", "WHEN", "WHO", "CHANGE"},
					recordRows(records, true, titles),
				)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "Lower time bound (date or duration)")
	cmd.Flags().StringVar(&until, "until", "", "Upper time bound (date or duration)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func parseWindow(since, until string) (audit.Window, error) {
	from, err := parseTimeFlag(since)
	if err != nil {
		return audit.Window{}, fmt.Errorf("--since: %w", err)
	}
	to, err := parseTimeFlag(until)
	if err != nil {
		return audit.Window{}, fmt.Errorf("--until: %w", err)
	}
	return audit.Window{From: from, To: to}, nil
}

// entryTitles maps the records' entity ids to titles for display.
func entryTitles(ctx context.Context, store *ledger.Store, records []catalog.AuditRecord) (map[string]string, error) {
	titles := make(map[string]string)
	for _, record := range records {
		if _, done := titles[record.EntityID]; done {
			continue
		}
		entry, err := store.GetEntry(ctx, record.EntityID)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			titles[record.EntityID] = entry.Title
		}
	}
	return titles, nil
}
