package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hylla/internal/catalog"
	"hylla/internal/ledger"
	"hylla/internal/metadata"
)

func newAddCommand(cctx *commandContext) *cobra.Command {
	var (
		year      int
		genre     string
		director  string
		format    string
		placement string
		lookup    bool
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a movie to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
				draft := &catalog.Entry{
					Title:       strings.TrimSpace(args[0]),
					Year:        year,
					Genre:       genre,
					Director:    director,
					MediaFormat: format,
					Placement:   placement,
				}
				entry, err := store.CreateEntry(ctx, draft)
				if err != nil {
					return err
				}

				if lookup {
					if err := fetchDetails(ctx, cctx, store, entry); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "warning: metadata lookup failed: %v\n", err)
					}
				}

				if jsonOut {
					return writeJSON(cmd, newEntryView(entry))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q (id %s)\n", entry.Title, entry.ID)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Release year")
	cmd.Flags().StringVar(&genre, "genre", "", "Genre")
	cmd.Flags().StringVar(&director, "director", "", "Director")
	cmd.Flags().StringVar(&format, "format", "", "Media format (e.g. Blu-ray, DVD)")
	cmd.Flags().StringVar(&placement, "placement", "", "Shelf placement")
	cmd.Flags().BoolVar(&lookup, "lookup", false, "Fetch descriptive metadata after adding")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func fetchDetails(ctx context.Context, cctx *commandContext, store *ledger.Store, entry *catalog.Entry) error {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return err
	}
	source, err := metadata.NewService(cfg, cctx.logger())
	if err != nil {
		return err
	}
	details, err := source.Lookup(ctx, entry.Title, entry.Year)
	if err != nil {
		return err
	}
	if details.Apply(entry) {
		return store.UpdateDetails(ctx, entry)
	}
	return nil
}

func newListCommand(cctx *commandContext) *cobra.Command {
	var (
		search  string
		genre   string
		decade  int
		sort    string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
				entries, err := store.ListEntries(ctx, ledger.ListFilter{
					Search: search,
					Genre:  genre,
					Decade: decade,
					Sort:   sort,
				})
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, newEntryViews(entries))
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Catalog is empty")
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					title := entry.Title
					if entry.Held() {
						title += " [HELD]"
					}
					rows = append(rows, []string{
						title,
						yearText(entry.Year),
						entry.Genre,
						yesNo(entry.OwnsPhysical),
						yesNo(entry.OwnsDigital),
						ratingText(entry),
					})
				}
				writeTable(cmd.OutOrStdout(),
					[]string{"TITLE", "YEAR", "GENRE", "DISC", "DIGITAL", "RATING"},
					rows, 2, 6,
				)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Match against title, director, or cast")
	cmd.Flags().StringVar(&genre, "genre", "", "Filter by genre substring")
	cmd.Flags().IntVar(&decade, "decade", 0, "Filter by decade (e.g. 1980)")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort order: title, title_desc, year, year_desc, rating_desc, genre")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func newShowCommand(cctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <entry>",
		Short: "Show one entry by id or title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
				entry, err := resolveEntry(ctx, store, args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, newEntryView(entry))
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s", entry.Title)
				if entry.Year > 0 {
					fmt.Fprintf(out, " (%d)", entry.Year)
				}
				fmt.Fprintln(out)
				fmt.Fprintf(out, "  id:        %s\n", entry.ID)
				if entry.Genre != "" {
					fmt.Fprintf(out, "  genre:     %s\n", entry.Genre)
				}
				if entry.Director != "" {
					fmt.Fprintf(out, "  director:  %s\n", entry.Director)
				}
				if entry.Cast != "" {
					fmt.Fprintf(out, "  cast:      %s\n", entry.Cast)
				}
				if entry.Runtime > 0 {
					fmt.Fprintf(out, "  runtime:   %d min\n", entry.Runtime)
				}
				if entry.MediaFormat != "" {
					fmt.Fprintf(out, "  format:    %s\n", entry.MediaFormat)
				}
				if entry.Placement != "" {
					fmt.Fprintf(out, "  placement: %s\n", entry.Placement)
				}
				fmt.Fprintf(out, "  disc:      %s\n", yesNo(entry.OwnsPhysical))
				fmt.Fprintf(out, "  digital:   %s\n", yesNo(entry.OwnsDigital))
				fmt.Fprintf(out, "  rating:    %s\n", ratingText(entry))
				fmt.Fprintf(out, "  version:   %d\n", entry.Version)
				if entry.Held() {
					fmt.Fprintf(out, "  HELD:      %s\n", entry.IntegrityHold)
				}
				if entry.Plot != "" {
					fmt.Fprintf(out, "\n  %s\n", entry.Plot)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func newSetCommand(cctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <entry> <field> <value>",
		Short: "Change an audited field (owns_physical, owns_digital, rating)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
				return applyMutation(ctx, cmd, cctx, store, args[0], args[1], args[2])
			})
		},
	}
	return cmd
}

func newRateCommand(cctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate <entry> <score|none>",
		Short: "Rate an entry from 0 to 10, or clear with 'none'",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
				return applyMutation(ctx, cmd, cctx, store, args[0], "rating", args[1])
			})
		},
	}
	return cmd
}

// applyMutation resolves the entry, reads its current version, and proposes
// the change. A conflict means someone else won the race between our read
// and the write; the caller re-runs with fresh state rather than us silently
// retrying on their behalf.
func applyMutation(ctx context.Context, cmd *cobra.Command, cctx *commandContext, store *ledger.Store, ref, fieldRaw, valueRaw string) error {
	actor, err := cctx.actor()
	if err != nil {
		return err
	}
	field, err := catalog.ParseField(fieldRaw)
	if err != nil {
		return err
	}
	value, err := catalog.ParseValue(field, valueRaw)
	if err != nil {
		return err
	}
	entry, err := resolveEntry(ctx, store, ref)
	if err != nil {
		return err
	}

	before := entry.Version
	updated, err := store.Propose(ctx, entry.ID, actor, field, value, entry.Version)
	if errors.Is(err, catalog.ErrConflict) {
		return fmt.Errorf("%q changed while this command ran; re-run to apply against the current state", entry.Title)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if updated.Version == before {
		fmt.Fprintf(out, "%s already %s on %q; nothing recorded\n", field, value, entry.Title)
		return nil
	}
	fmt.Fprintf(out, "%s: %s set to %s (version %d)\n", entry.Title, field, value, updated.Version)
	return nil
}

func newRemoveCommand(cctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <entry>",
		Short: "Remove an entry and its entire audit history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
				entry, err := resolveEntry(ctx, store, args[0])
				if err != nil {
					return err
				}
				count, err := store.LedgerVersion(ctx, entry.ID)
				if err != nil {
					return err
				}
				if !yes {
					return fmt.Errorf("removing %q deletes %d audit records with it; re-run with --yes to confirm", entry.Title, count)
				}
				removed, err := store.RemoveEntry(ctx, entry.ID)
				if err != nil {
					return err
				}
				if !removed {
					return catalog.Errorf(catalog.ErrNotFound, "entry %s", entry.ID)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %q and %d audit records\n", entry.Title, count)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm removal")
	return cmd
}
