package reconcile_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"hylla/internal/catalog"
	"hylla/internal/ledger"
	"hylla/internal/reconcile"
	"hylla/internal/testsupport"
)

type recordingNotifier struct {
	holds []string
	fail  error
}

func (n *recordingNotifier) NotifyIntegrityHold(_ context.Context, entry *catalog.Entry, reason string) error {
	n.holds = append(n.holds, entry.ID)
	return n.fail
}

// tamper runs raw SQL against the store's database through a separate
// connection, simulating state a crashed process could leave behind.
func tamper(t *testing.T, store *ledger.Store, query string, args ...any) {
	t.Helper()

	db, err := sql.Open("sqlite", store.Path())
	if err != nil {
		t.Fatalf("open tamper connection: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("tamper: %v", err)
	}
}

func TestRunCleanLedger(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	entry := testsupport.NewEntry(t, store, "Heat")
	testsupport.MustPropose(t, store, entry.ID, "alice", catalog.FieldOwnsPhysical, catalog.BoolValue(true), 0)

	report, err := reconcile.Run(ctx, store, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.Clean() || report.Checked != 1 {
		t.Fatalf("expected clean report over 1 entry, got %+v", report)
	}
}

func TestRunReplaysLaggingEntry(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	entry := testsupport.NewEntry(t, store, "Heat")
	testsupport.MustPropose(t, store, entry.ID, "alice", catalog.FieldOwnsPhysical, catalog.BoolValue(true), 0)
	testsupport.MustPropose(t, store, entry.ID, "alice", catalog.FieldRating, catalog.RatingValue(7.0), 1)

	// Roll the entry state back behind its ledger, as if the process died
	// after appending the second record but before its state write landed.
	tamper(t, store, `UPDATE entries SET version = 1, rating = NULL WHERE id = ?`, entry.ID)

	report, err := reconcile.Run(ctx, store, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Replayed) != 1 || report.Replayed[0] != entry.ID {
		t.Fatalf("expected entry replayed, got %+v", report)
	}

	repaired, err := store.GetEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if repaired.Version != 2 || repaired.Rating == nil || *repaired.Rating != 7.0 {
		t.Fatalf("replay did not restore state: %+v", repaired)
	}

	// The repaired entry accepts mutations again.
	if _, err := store.Propose(ctx, entry.ID, "alice", catalog.FieldOwnsDigital, catalog.BoolValue(true), 2); err != nil {
		t.Fatalf("propose after replay: %v", err)
	}
}

func TestRunHoldsLeadingEntry(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	entry := testsupport.NewEntry(t, store, "Heat")
	testsupport.MustPropose(t, store, entry.ID, "alice", catalog.FieldOwnsPhysical, catalog.BoolValue(true), 0)

	// Push the entry ahead of its ledger: history that should exist is gone.
	tamper(t, store, `UPDATE entries SET version = 3 WHERE id = ?`, entry.ID)

	notifier := &recordingNotifier{}
	report, err := reconcile.Run(ctx, store, notifier, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Held) != 1 || report.Held[0].EntityID != entry.ID {
		t.Fatalf("expected entry held, got %+v", report)
	}
	if len(notifier.holds) != 1 {
		t.Fatalf("expected one integrity notification, got %d", len(notifier.holds))
	}

	// Held entries refuse mutations until an operator intervenes.
	if _, err := store.Propose(ctx, entry.ID, "alice", catalog.FieldRating, catalog.RatingValue(8.0), 3); !errors.Is(err, catalog.ErrIntegrityHold) {
		t.Fatalf("expected ErrIntegrityHold after reconcile, got %v", err)
	}

	// A second sweep leaves the held entry alone.
	again, err := reconcile.Run(ctx, store, notifier, nil)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(again.Held) != 0 || again.AlreadyHeld != 1 {
		t.Fatalf("second sweep should skip held entry: %+v", again)
	}
	if len(notifier.holds) != 1 {
		t.Fatal("held entry notified twice")
	}
}

func TestRunNotifierFailureIsNonFatal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	entry := testsupport.NewEntry(t, store, "Heat")
	tamper(t, store, `UPDATE entries SET version = 2 WHERE id = ?`, entry.ID)

	notifier := &recordingNotifier{fail: errors.New("ntfy unreachable")}
	report, err := reconcile.Run(ctx, store, notifier, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Held) != 1 {
		t.Fatalf("expected hold despite notifier failure: %+v", report)
	}
}
