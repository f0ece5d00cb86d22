package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"hylla/internal/catalog"
	"hylla/internal/ledger"
)

func newWishlistCommand(cctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Track titles you want but do not own yet",
	}

	cmd.AddCommand(newWishlistAddCommand(cctx))
	cmd.AddCommand(newWishlistListCommand(cctx))
	cmd.AddCommand(newWishlistRemoveCommand(cctx))
	cmd.AddCommand(newWishlistPromoteCommand(cctx))
	return cmd
}

func newWishlistAddCommand(cctx *commandContext) *cobra.Command {
	var (
		year     int
		genre    string
		priority string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a title to the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
				parsed, err := catalog.ParsePriority(priority)
				if err != nil {
					return err
				}
				item, err := store.WishlistAdd(ctx, &catalog.WishItem{
					Title:    strings.TrimSpace(args[0]),
					Year:     year,
					Genre:    genre,
					Priority: parsed,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wishlisted %q (#%d, %s priority)\n", item.Title, item.ID, strings.ToLower(string(item.Priority)))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Release year")
	cmd.Flags().StringVar(&genre, "genre", "", "Genre")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority: high, medium, low (default medium)")
	return cmd
}

func newWishlistListCommand(cctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List wishlist items by priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
				items, err := store.WishlistItems(ctx)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, newWishViews(items))
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Wishlist is empty")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{
						strconv.FormatInt(item.ID, 10),
						item.Title,
						yearText(item.Year),
						item.Genre,
						string(item.Priority),
					})
				}
				writeTable(cmd.OutOrStdout(),
					[]string{"ID", "TITLE", "YEAR", "GENRE", "PRIORITY"},
					rows, 1, 3,
				)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func newWishlistRemoveCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a wishlist item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("wishlist id must be a number, got %q", args[0])
				}
				removed, err := store.WishlistRemove(ctx, id)
				if err != nil {
					return err
				}
				if !removed {
					return catalog.Errorf(catalog.ErrNotFound, "wishlist item %d", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed wishlist item #%d\n", id)
				return nil
			})
		},
	}
}

func newWishlistPromoteCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <id>",
		Short: "Move a wishlist item into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(cmd, func(ctx context.Context, store *ledger.Store) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("wishlist id must be a number, got %q", args[0])
				}
				entry, err := store.WishlistPromote(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Promoted %q into the catalog (id %s)\n", entry.Title, entry.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "Record ownership with: hylla set %q owns_physical true\n", entry.Title)
				return nil
			})
		},
	}
}
