package testsupport

import (
	"context"
	"testing"

	"hylla/internal/catalog"
	"hylla/internal/config"
	"hylla/internal/ledger"
)

// MustOpenStore opens a ledger.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewEntry creates a catalog entry for tests using the provided store.
func NewEntry(t testing.TB, store *ledger.Store, title string) *catalog.Entry {
	t.Helper()

	entry, err := store.CreateEntry(context.Background(), &catalog.Entry{Title: title})
	if err != nil {
		t.Fatalf("store.CreateEntry: %v", err)
	}
	return entry
}

// MustPropose applies a mutation for tests, failing on any error.
func MustPropose(t testing.TB, store *ledger.Store, entityID, actor string, field catalog.Field, value catalog.Value, expected int64) *catalog.Entry {
	t.Helper()

	entry, err := store.Propose(context.Background(), entityID, actor, field, value, expected)
	if err != nil {
		t.Fatalf("store.Propose(%s, %s): %v", entityID, field, err)
	}
	return entry
}
