package metadata

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"hylla/internal/catalog"
	"hylla/internal/ledger"
)

// SystemActor is the actor id recorded for mutations the backfill makes on
// its own, so ledger history distinguishes them from human edits.
const SystemActor = "system/backfill"

// Source is the lookup surface the backfill needs.
type Source interface {
	Lookup(ctx context.Context, title string, year int) (*Details, error)
}

// BackfillNotifier receives the completion summary.
type BackfillNotifier interface {
	NotifyBackfillCompleted(ctx context.Context, updated, failed int, duration time.Duration) error
}

// BackfillReport summarizes one backfill run.
type BackfillReport struct {
	Scanned int
	Updated int
	Rated   int
	Failed  int
}

// Backfiller fills missing descriptive metadata across the catalog.
type Backfiller struct {
	store    *ledger.Store
	source   Source
	notifier BackfillNotifier
	logger   *slog.Logger
}

func NewBackfiller(store *ledger.Store, source Source, notifier BackfillNotifier, logger *slog.Logger) *Backfiller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backfiller{store: store, source: source, notifier: notifier, logger: logger}
}

// Run looks up every entry with gaps in its descriptive fields and writes
// what the providers return. Descriptive updates bypass the ledger; a
// provider rating is only adopted for unrated entries, and goes through the
// audited mutation path under SystemActor. Lookup failures are counted and
// skipped, never fatal.
func (b *Backfiller) Run(ctx context.Context) (*BackfillReport, error) {
	started := time.Now()
	entries, err := b.store.ListEntries(ctx, ledger.ListFilter{})
	if err != nil {
		return nil, err
	}

	report := &BackfillReport{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if !needsDetails(entry) {
			continue
		}
		report.Scanned++

		details, err := b.source.Lookup(ctx, entry.Title, entry.Year)
		if errors.Is(err, ErrNoSources) {
			return report, err
		}
		if err != nil {
			report.Failed++
			b.logger.Warn("backfill lookup failed", "title", entry.Title, "error", err)
			continue
		}

		if details.Apply(entry) {
			if err := b.store.UpdateDetails(ctx, entry); err != nil {
				report.Failed++
				b.logger.Warn("backfill update failed", "title", entry.Title, "error", err)
				continue
			}
			report.Updated++
			b.logger.Info("backfilled entry", "title", entry.Title, "entry_id", entry.ID)
		}

		if entry.Rating == nil && details.SourceRating > 0 {
			if err := b.proposeRating(ctx, entry, details.SourceRating); err != nil {
				b.logger.Warn("backfill rating skipped", "title", entry.Title, "error", err)
			} else {
				report.Rated++
			}
		}
	}

	if b.notifier != nil && report.Scanned > 0 {
		if err := b.notifier.NotifyBackfillCompleted(ctx, report.Updated, report.Failed, time.Since(started)); err != nil {
			b.logger.Warn("backfill notification failed", "error", err)
		}
	}
	return report, nil
}

// proposeRating retries once on a version conflict: a human edit racing the
// backfill wins, but a single stale read should not drop the rating. A
// conflict on the retry means the entry is busy and the rating is skipped.
func (b *Backfiller) proposeRating(ctx context.Context, entry *catalog.Entry, score float64) error {
	value := catalog.RatingValue(score)
	_, err := b.store.Propose(ctx, entry.ID, SystemActor, catalog.FieldRating, value, entry.Version)
	if !errors.Is(err, catalog.ErrConflict) {
		return err
	}

	fresh, getErr := b.store.GetEntry(ctx, entry.ID)
	if getErr != nil {
		return getErr
	}
	if fresh == nil || fresh.Rating != nil {
		return nil
	}
	_, err = b.store.Propose(ctx, fresh.ID, SystemActor, catalog.FieldRating, value, fresh.Version)
	return err
}

func needsDetails(entry *catalog.Entry) bool {
	return strings.TrimSpace(entry.Plot) == "" ||
		strings.TrimSpace(entry.Poster) == "" ||
		strings.TrimSpace(entry.Genre) == "" ||
		strings.TrimSpace(entry.Director) == "" ||
		entry.Year == 0 ||
		entry.Runtime == 0
}
