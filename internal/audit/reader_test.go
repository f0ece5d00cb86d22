package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hylla/internal/audit"
	"hylla/internal/catalog"
	"hylla/internal/testsupport"
)

func TestHistoryFor(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	reader := audit.NewReader(store)
	ctx := context.Background()

	entry := testsupport.NewEntry(t, store, "Chinatown")
	other := testsupport.NewEntry(t, store, "Network")
	testsupport.MustPropose(t, store, entry.ID, "alice", catalog.FieldOwnsPhysical, catalog.BoolValue(true), 0)
	testsupport.MustPropose(t, store, other.ID, "alice", catalog.FieldOwnsDigital, catalog.BoolValue(true), 0)
	testsupport.MustPropose(t, store, entry.ID, "bob", catalog.FieldRating, catalog.RatingValue(8.5), 1)

	history, err := reader.HistoryFor(ctx, entry.ID, audit.Window{})
	if err != nil {
		t.Fatalf("HistoryFor: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 records, got %d", len(history))
	}
	if history[0].EntityVersionAfter != 1 || history[1].EntityVersionAfter != 2 {
		t.Fatalf("history out of order: %+v", history)
	}
}

func TestHistoryForUnknownEntry(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	reader := audit.NewReader(store)

	_, err := reader.HistoryFor(context.Background(), "missing", audit.Window{})
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHistoryForNeverChangedEntry(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	reader := audit.NewReader(store)

	entry := testsupport.NewEntry(t, store, "Playtime")
	history, err := reader.HistoryFor(context.Background(), entry.ID, audit.Window{})
	if err != nil {
		t.Fatalf("HistoryFor: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d records", len(history))
	}
}

func TestActivityBy(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	reader := audit.NewReader(store)
	ctx := context.Background()

	first := testsupport.NewEntry(t, store, "Chinatown")
	second := testsupport.NewEntry(t, store, "Network")
	testsupport.MustPropose(t, store, first.ID, "alice", catalog.FieldOwnsPhysical, catalog.BoolValue(true), 0)
	testsupport.MustPropose(t, store, second.ID, "bob", catalog.FieldOwnsPhysical, catalog.BoolValue(true), 0)
	testsupport.MustPropose(t, store, second.ID, "alice", catalog.FieldRating, catalog.RatingValue(9.0), 1)

	activity, err := reader.ActivityBy(ctx, "alice", audit.Window{})
	if err != nil {
		t.Fatalf("ActivityBy: %v", err)
	}
	if len(activity) != 2 {
		t.Fatalf("expected 2 records for alice, got %d", len(activity))
	}
	if activity[0].EntityID != first.ID || activity[1].EntityID != second.ID {
		t.Fatalf("activity spans wrong entries: %+v", activity)
	}

	if _, err := reader.ActivityBy(ctx, "  ", audit.Window{}); !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank actor, got %v", err)
	}
}

func TestRecentWindow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	reader := audit.NewReader(store)
	ctx := context.Background()

	entry := testsupport.NewEntry(t, store, "Chinatown")
	testsupport.MustPropose(t, store, entry.ID, "alice", catalog.FieldOwnsPhysical, catalog.BoolValue(true), 0)

	past := audit.Window{To: time.Now().UTC().Add(-time.Hour)}
	records, err := reader.Recent(ctx, past)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records an hour ago, got %d", len(records))
	}

	records, err = reader.Recent(ctx, audit.Window{From: time.Now().UTC().Add(-time.Hour)})
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 recent record, got %d", len(records))
	}
}

func TestFormatChange(t *testing.T) {
	record := catalog.AuditRecord{
		Field:    catalog.FieldRating,
		OldValue: catalog.Unrated(),
		NewValue: catalog.RatingValue(7.5),
	}
	if got := audit.FormatChange(record); got != "Rating: 'unrated' → '7.5'" {
		t.Fatalf("FormatChange = %q", got)
	}

	record = catalog.AuditRecord{
		Field:    catalog.FieldOwnsPhysical,
		OldValue: catalog.BoolValue(false),
		NewValue: catalog.BoolValue(true),
	}
	if got := audit.FormatChange(record); got != "Owns Physical: 'false' → 'true'" {
		t.Fatalf("FormatChange = %q", got)
	}
}
