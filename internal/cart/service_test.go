package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/afmobile/storefront-core/internal/auth"
	"github.com/afmobile/storefront-core/internal/catalog"
)

func newTestService(t *testing.T, userID string, products []catalog.Product) (*Service, *catalog.MemoryStore) {
	t.Helper()
	store := catalog.NewMemoryStore()
	if err := store.UpsertAll(context.Background(), products); err != nil {
		t.Fatal(err)
	}
	svc := NewService(NewMemoryRepository(), store, auth.Static{ID: userID})
	return svc, store
}

func TestAdd_MergesQuantitiesIntoOneLine(t *testing.T) {
	svc, _ := newTestService(t, "u1", []catalog.Product{
		{ID: "p1", Name: "Cat Food", Price: 100, StockLevel: 10},
	})
	ctx := context.Background()

	if _, err := svc.Add(ctx, "p1", 2); err != nil {
		t.Fatal(err)
	}
	lines, err := svc.Add(ctx, "p1", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected exactly one line, got %d", len(lines))
	}
	if lines[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", lines[0].Quantity)
	}
}

func TestAdd_SnapshotsPriceAtAddTime(t *testing.T) {
	svc, store := newTestService(t, "u1", []catalog.Product{
		{ID: "p1", Name: "Cat Food", Price: 100, StockLevel: 10},
	})
	ctx := context.Background()

	if _, err := svc.Add(ctx, "p1", 1); err != nil {
		t.Fatal(err)
	}

	// catalog price changes after the add
	_ = store.UpsertAll(ctx, []catalog.Product{{ID: "p1", Name: "Cat Food", Price: 250, StockLevel: 10}})

	lines, _ := svc.Items(ctx)
	if lines[0].ProductPrice != 100 {
		t.Fatalf("snapshotted price changed: %v", lines[0].ProductPrice)
	}
}

func TestAdd_ZeroQuantityReturnsCurrentCart(t *testing.T) {
	svc, _ := newTestService(t, "u1", []catalog.Product{{ID: "p1", Name: "X", StockLevel: 1}})
	ctx := context.Background()

	_, _ = svc.Add(ctx, "p1", 2)
	lines, err := svc.Add(ctx, "p1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("zero-quantity add changed the cart: %v", lines)
	}
}

func TestAdd_UnknownProduct(t *testing.T) {
	svc, _ := newTestService(t, "u1", nil)
	if _, err := svc.Add(context.Background(), "ghost", 1); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected catalog.ErrNotFound, got %v", err)
	}
}

func TestAdd_Unauthenticated(t *testing.T) {
	svc, _ := newTestService(t, "", nil)
	if _, err := svc.Add(context.Background(), "p1", 1); !errors.Is(err, auth.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestUpdateQuantity_ZeroEqualsRemoval(t *testing.T) {
	svc, _ := newTestService(t, "u1", []catalog.Product{{ID: "p1", Name: "X", StockLevel: 5}})
	ctx := context.Background()

	lines, _ := svc.Add(ctx, "p1", 2)
	if err := svc.UpdateQuantity(ctx, lines[0].ID, 0); err != nil {
		t.Fatalf("quantity zero must not be an error: %v", err)
	}
	after, _ := svc.Items(ctx)
	if len(after) != 0 {
		t.Fatalf("expected empty cart, got %v", after)
	}
}

func TestRemove_IsIdempotent(t *testing.T) {
	svc, _ := newTestService(t, "u1", []catalog.Product{{ID: "p1", Name: "X", StockLevel: 5}})
	ctx := context.Background()

	lines, _ := svc.Add(ctx, "p1", 1)
	id := lines[0].ID

	if err := svc.Remove(ctx, id); err != nil {
		t.Fatal(err)
	}
	if err := svc.Remove(ctx, id); err != nil {
		t.Fatalf("second removal must succeed: %v", err)
	}
}

func TestClear_RemovesOnlyOwnLines(t *testing.T) {
	repo := NewMemoryRepository()
	store := catalog.NewMemoryStore()
	_ = store.UpsertAll(context.Background(), []catalog.Product{{ID: "p1", Name: "X", StockLevel: 9}})

	alice := NewService(repo, store, auth.Static{ID: "alice"})
	bob := NewService(repo, store, auth.Static{ID: "bob"})
	ctx := context.Background()

	_, _ = alice.Add(ctx, "p1", 1)
	_, _ = bob.Add(ctx, "p1", 2)

	if err := alice.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	bobLines, _ := bob.Items(ctx)
	if len(bobLines) != 1 {
		t.Fatalf("clearing alice's cart touched bob's lines: %v", bobLines)
	}
}

func TestSummarize_SumsOverLines(t *testing.T) {
	svc, _ := newTestService(t, "u1", []catalog.Product{
		{ID: "p1", Name: "A", Price: 100, StockLevel: 10},
		{ID: "p2", Name: "B", Price: 50, StockLevel: 10},
	})
	ctx := context.Background()

	_, _ = svc.Add(ctx, "p1", 2)
	_, _ = svc.Add(ctx, "p2", 1)

	sum, err := svc.Summarize(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Count != 3 {
		t.Fatalf("expected count 3, got %d", sum.Count)
	}
	if sum.Subtotal != 250 {
		t.Fatalf("expected subtotal 250, got %v", sum.Subtotal)
	}
}

func TestItemsWithAvailability(t *testing.T) {
	svc, store := newTestService(t, "u1", []catalog.Product{
		{ID: "p1", Name: "A", Price: 10, StockLevel: 5},
		{ID: "p2", Name: "B", Price: 10, StockLevel: 1},
	})
	ctx := context.Background()

	_, _ = svc.Add(ctx, "p1", 3)
	_, _ = svc.Add(ctx, "p2", 2)

	items, err := svc.ItemsWithAvailability(ctx)
	if err != nil {
		t.Fatal(err)
	}
	byProduct := make(map[string]LineWithAvailability)
	for _, item := range items {
		byProduct[item.ProductID] = item
	}
	if !byProduct["p1"].Available {
		t.Fatal("p1 should be available (stock 5 >= qty 3)")
	}
	if byProduct["p2"].Available {
		t.Fatal("p2 should be unavailable (stock 1 < qty 2)")
	}

	// product vanishes from the catalog entirely
	_ = store.Clear(ctx)
	items, _ = svc.ItemsWithAvailability(ctx)
	for _, item := range items {
		if item.CurrentStock != nil || item.Available {
			t.Fatalf("vanished product should have nil stock and be unavailable: %+v", item)
		}
	}
}
