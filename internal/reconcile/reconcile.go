package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"hylla/internal/catalog"
	"hylla/internal/ledger"
)

// Notifier receives integrity alerts. Implementations must tolerate being
// called with a nil context deadline; delivery failures are logged, never
// fatal.
type Notifier interface {
	NotifyIntegrityHold(ctx context.Context, entry *catalog.Entry, reason string) error
}

// Hold describes one entry frozen during reconciliation.
type Hold struct {
	EntityID string
	Title    string
	Reason   string
}

// Report summarizes one reconciliation sweep.
type Report struct {
	Checked     int
	Replayed    []string
	Held        []Hold
	AlreadyHeld int
}

// Clean reports whether the sweep found nothing to repair.
func (r *Report) Clean() bool {
	return len(r.Replayed) == 0 && len(r.Held) == 0
}

// Run sweeps every entry, compares its stored version against the number of
// committed audit records, and repairs what it can. Entries behind the
// ledger are replayed forward from their records. Entries ahead of the
// ledger have lost history that replay cannot recover, so they are placed
// under an integrity hold instead of being guessed at. Entries already held
// are left for the operator.
func Run(ctx context.Context, store *ledger.Store, notifier Notifier, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	versions, err := store.EntryVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("sweep entry versions: %w", err)
	}

	report := &Report{Checked: len(versions)}
	for entityID, stored := range versions {
		count, err := store.LedgerVersion(ctx, entityID)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", entityID, err)
		}
		if stored == count {
			continue
		}

		entry, err := store.GetEntry(ctx, entityID)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			// Removed between the sweep and this check.
			continue
		}
		if entry.Held() {
			report.AlreadyHeld++
			logger.Warn("entry already under integrity hold",
				"entry_id", entityID,
				"reason", entry.IntegrityHold)
			continue
		}

		switch {
		case stored < count:
			pending, err := store.RecordsAfter(ctx, entityID, stored)
			if err != nil {
				return nil, fmt.Errorf("entry %s: %w", entityID, err)
			}
			if err := store.ApplyRecords(ctx, entityID, pending); err != nil {
				return nil, fmt.Errorf("replay entry %s: %w", entityID, err)
			}
			report.Replayed = append(report.Replayed, entityID)
			logger.Info("replayed entry from ledger",
				"entry_id", entityID,
				"title", entry.Title,
				"from_version", stored,
				"to_version", count)

		case stored > count:
			reason := fmt.Sprintf("state at version %d but ledger holds %d records", stored, count)
			if err := store.SetIntegrityHold(ctx, entityID, reason); err != nil {
				return nil, fmt.Errorf("hold entry %s: %w", entityID, err)
			}
			report.Held = append(report.Held, Hold{EntityID: entityID, Title: entry.Title, Reason: reason})
			logger.Error("entry ahead of ledger, placed under integrity hold",
				"entry_id", entityID,
				"title", entry.Title,
				"version", stored,
				"ledger_records", count)
			if notifier != nil {
				if err := notifier.NotifyIntegrityHold(ctx, entry, reason); err != nil {
					logger.Warn("integrity hold notification failed", "error", err)
				}
			}
		}
	}

	return report, nil
}
