package metadata_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hylla/internal/catalog"
	"hylla/internal/ledger"
	"hylla/internal/metadata"
	"hylla/internal/testsupport"
)

func scanFilterFor(entityID string) ledger.Filter {
	return ledger.Filter{EntityID: entityID}
}

type stubSource struct {
	details map[string]*metadata.Details
	err     error
	calls   int
}

func (s *stubSource) Lookup(_ context.Context, title string, _ int) (*metadata.Details, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if details, ok := s.details[title]; ok {
		return details, nil
	}
	return nil, metadata.ErrNoMatch
}

type stubNotifier struct {
	updated, failed int
	calls           int
}

func (n *stubNotifier) NotifyBackfillCompleted(_ context.Context, updated, failed int, _ time.Duration) error {
	n.updated, n.failed = updated, failed
	n.calls++
	return nil
}

func TestBackfillFillsMissingDetails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	entry := testsupport.NewEntry(t, store, "Heat")
	source := &stubSource{details: map[string]*metadata.Details{
		"Heat": {
			Title:        "Heat",
			Year:         1995,
			Genre:        "Crime/Drama",
			Director:     "Michael Mann",
			Cast:         "Al Pacino, Robert De Niro",
			Runtime:      170,
			Plot:         "A heist goes wrong.",
			Poster:       "https://example.com/heat.jpg",
			SourceRating: 8.3,
		},
	}}
	notifier := &stubNotifier{}

	backfiller := metadata.NewBackfiller(store, source, notifier, nil)
	report, err := backfiller.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Scanned != 1 || report.Updated != 1 || report.Failed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	fresh, err := store.GetEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if fresh.Director != "Michael Mann" || fresh.Year != 1995 || fresh.Runtime != 170 {
		t.Fatalf("details not written: %+v", fresh)
	}
	if notifier.calls != 1 || notifier.updated != 1 {
		t.Fatalf("summary not sent: %+v", notifier)
	}
}

func TestBackfillRatesUnratedEntriesAsSystemActor(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	entry := testsupport.NewEntry(t, store, "Heat")
	source := &stubSource{details: map[string]*metadata.Details{
		"Heat": {Title: "Heat", Year: 1995, Genre: "Crime", Director: "Michael Mann", Runtime: 170, Plot: "x", Poster: "y", SourceRating: 8.3},
	}}

	report, err := metadata.NewBackfiller(store, source, nil, nil).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Rated != 1 {
		t.Fatalf("expected 1 rating, got %+v", report)
	}

	fresh, err := store.GetEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if fresh.Rating == nil || *fresh.Rating != 8.3 || fresh.Version != 1 {
		t.Fatalf("rating not proposed: %+v", fresh)
	}

	records, err := store.Scan(ctx, scanFilterFor(entry.ID))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(records) != 1 || records[0].ActorID != metadata.SystemActor {
		t.Fatalf("rating not attributed to system actor: %+v", records)
	}
}

func TestBackfillDoesNotOverrideUserRating(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	entry := testsupport.NewEntry(t, store, "Heat")
	testsupport.MustPropose(t, store, entry.ID, "alice", catalog.FieldRating, catalog.RatingValue(6.0), 0)

	source := &stubSource{details: map[string]*metadata.Details{
		"Heat": {Title: "Heat", Year: 1995, Genre: "Crime", Director: "Michael Mann", Runtime: 170, Plot: "x", Poster: "y", SourceRating: 8.3},
	}}
	report, err := metadata.NewBackfiller(store, source, nil, nil).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Rated != 0 {
		t.Fatalf("user rating overridden: %+v", report)
	}

	fresh, err := store.GetEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if *fresh.Rating != 6.0 {
		t.Fatalf("user rating changed: %v", *fresh.Rating)
	}
}

func TestBackfillSkipsCompleteEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	entry := testsupport.NewEntry(t, store, "Heat")
	entry.Year = 1995
	entry.Genre = "Crime"
	entry.Director = "Michael Mann"
	entry.Cast = "Al Pacino"
	entry.Runtime = 170
	entry.Plot = "A heist goes wrong."
	entry.Poster = "https://example.com/heat.jpg"
	if err := store.UpdateDetails(ctx, entry); err != nil {
		t.Fatalf("UpdateDetails: %v", err)
	}

	source := &stubSource{}
	report, err := metadata.NewBackfiller(store, source, nil, nil).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Scanned != 0 || source.calls != 0 {
		t.Fatalf("complete entry still looked up: %+v, calls=%d", report, source.calls)
	}
}

func TestBackfillCountsLookupFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.NewEntry(t, store, "Obscure Film")
	source := &stubSource{err: errors.New("provider down")}

	report, err := metadata.NewBackfiller(store, source, nil, nil).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Scanned != 1 || report.Failed != 1 || report.Updated != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}
