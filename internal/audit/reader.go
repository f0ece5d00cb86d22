package audit

import (
	"context"
	"strings"
	"time"

	"hylla/internal/catalog"
	"hylla/internal/ledger"
)

// Scanner is the slice of the ledger store the reader needs.
type Scanner interface {
	Scan(ctx context.Context, filter ledger.Filter) ([]catalog.AuditRecord, error)
	GetEntry(ctx context.Context, id string) (*catalog.Entry, error)
}

// Reader serves history queries over committed audit records.
type Reader struct {
	store Scanner
}

func NewReader(store Scanner) *Reader {
	return &Reader{store: store}
}

// Window bounds a history query in time. Zero ends are unbounded; both
// bounds are inclusive.
type Window struct {
	From time.Time
	To   time.Time
}

// HistoryFor returns every committed mutation of one entry, oldest first.
// An unknown entry yields ErrNotFound rather than an empty history so
// callers can tell "never changed" apart from "never existed".
func (r *Reader) HistoryFor(ctx context.Context, entityID string, window Window) ([]catalog.AuditRecord, error) {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return nil, catalog.Errorf(catalog.ErrValidation, "entity id required")
	}
	entry, err := r.store.GetEntry(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, catalog.Errorf(catalog.ErrNotFound, "entry %s", entityID)
	}
	return r.store.Scan(ctx, ledger.Filter{EntityID: entityID, From: window.From, To: window.To})
}

// ActivityBy returns every committed mutation a single actor made across
// the whole catalog, oldest first.
func (r *Reader) ActivityBy(ctx context.Context, actorID string, window Window) ([]catalog.AuditRecord, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return nil, catalog.Errorf(catalog.ErrValidation, "actor id required")
	}
	return r.store.Scan(ctx, ledger.Filter{ActorID: actorID, From: window.From, To: window.To})
}

// Recent returns the ledger tail across all entries and actors.
func (r *Reader) Recent(ctx context.Context, window Window) ([]catalog.AuditRecord, error) {
	return r.store.Scan(ctx, ledger.Filter{From: window.From, To: window.To})
}
