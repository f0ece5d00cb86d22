package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"hylla/internal/catalog"
	"hylla/internal/ledger"
)

// writeJSON renders v on the command's stdout as indented JSON, for the
// --json flag every listing command carries.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resolveEntry finds an entry by id first, then by exact title.
func resolveEntry(ctx context.Context, store *ledger.Store, ref string) (*catalog.Entry, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, catalog.Errorf(catalog.ErrValidation, "entry id or title required")
	}
	entry, err := store.GetEntry(ctx, ref)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		return entry, nil
	}
	entry, err = store.FindByTitle(ctx, ref)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, catalog.Errorf(catalog.ErrNotFound, "no entry matching %q", ref)
	}
	return entry, nil
}

func ratingText(entry *catalog.Entry) string {
	if entry.Rating == nil {
		return "unrated"
	}
	return strconv.FormatFloat(*entry.Rating, 'f', 1, 64)
}

func yearText(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

// parseTimeFlag accepts either a date (2006-01-02) or a relative duration
// like "72h" counted back from now. Empty input means unbounded.
func parseTimeFlag(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse("2006-01-02", raw); err == nil {
		return parsed.UTC(), nil
	}
	if dur, err := time.ParseDuration(raw); err == nil {
		return time.Now().UTC().Add(-dur), nil
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date (2006-01-02) or duration (72h)", raw)
}
