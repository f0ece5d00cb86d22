package ledger_test

import (
	"context"
	"errors"
	"testing"

	"hylla/internal/catalog"
	"hylla/internal/testsupport"
)

func TestWishlistOrdering(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	seed := []*catalog.WishItem{
		{Title: "Zodiac", Priority: catalog.PriorityLow},
		{Title: "Brazil", Priority: catalog.PriorityHigh},
		{Title: "Akira"},
		{Title: "Blade Runner", Priority: catalog.PriorityHigh},
	}
	for _, item := range seed {
		if _, err := store.WishlistAdd(ctx, item); err != nil {
			t.Fatalf("WishlistAdd(%s): %v", item.Title, err)
		}
	}

	items, err := store.WishlistItems(ctx)
	if err != nil {
		t.Fatalf("WishlistItems: %v", err)
	}
	want := []string{"Blade Runner", "Brazil", "Akira", "Zodiac"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, title := range want {
		if items[i].Title != title {
			t.Fatalf("position %d: got %q, want %q", i, items[i].Title, title)
		}
	}
	if items[2].Priority != catalog.PriorityMedium {
		t.Fatalf("blank priority not defaulted: %q", items[2].Priority)
	}
}

func TestWishlistAddRequiresTitle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.WishlistAdd(context.Background(), &catalog.WishItem{Title: "   "}); !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank title, got %v", err)
	}
}

func TestWishlistRemove(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	item, err := store.WishlistAdd(ctx, &catalog.WishItem{Title: "Ran"})
	if err != nil {
		t.Fatalf("WishlistAdd: %v", err)
	}

	removed, err := store.WishlistRemove(ctx, item.ID)
	if err != nil || !removed {
		t.Fatalf("WishlistRemove: removed=%v err=%v", removed, err)
	}
	removed, err = store.WishlistRemove(ctx, item.ID)
	if err != nil || removed {
		t.Fatalf("second remove should be a no-op: removed=%v err=%v", removed, err)
	}
}

func TestWishlistPromote(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	item, err := store.WishlistAdd(ctx, &catalog.WishItem{Title: "Ran", Year: 1985, Genre: "Drama"})
	if err != nil {
		t.Fatalf("WishlistAdd: %v", err)
	}

	entry, err := store.WishlistPromote(ctx, item.ID)
	if err != nil {
		t.Fatalf("WishlistPromote: %v", err)
	}
	if entry.Title != "Ran" || entry.Year != 1985 {
		t.Fatalf("promoted entry lost details: %+v", entry)
	}
	if entry.Version != 0 || entry.OwnsPhysical || entry.OwnsDigital || entry.Rating != nil {
		t.Fatalf("promoted entry must start unowned and unversioned: %+v", entry)
	}

	items, err := store.WishlistItems(ctx)
	if err != nil {
		t.Fatalf("WishlistItems: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("promoted item still on wishlist: %+v", items)
	}

	if _, err := store.WishlistPromote(ctx, item.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound promoting twice, got %v", err)
	}
}
