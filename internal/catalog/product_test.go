package catalog

import (
	"testing"
	"time"
)

func TestParseProduct_Defaults(t *testing.T) {
	p, err := ParseProduct("p1", map[string]any{"name": "Dog Food"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "p1" || p.Name != "Dog Food" {
		t.Fatalf("unexpected product %+v", p)
	}
	if p.Price != 0 || p.StockLevel != 0 || p.SalesCount != 0 {
		t.Fatalf("expected numeric defaults, got %+v", p)
	}
	if !p.CreatedAt.IsZero() || !p.UpdatedAt.IsZero() {
		t.Fatalf("expected zero timestamps, got %+v", p)
	}
}

func TestParseProduct_FullRecord(t *testing.T) {
	now := time.Now().UTC()
	p, err := ParseProduct("p2", map[string]any{
		"name":        "Cat Tower",
		"description": "Three levels",
		"price":       int64(1290),
		"category":    "Cat exercise",
		"imageUrl":    "https://img/cat-tower.jpg",
		"sku":         "CT-3",
		"stockLevel":  int64(7),
		"salesCount":  int64(12),
		"createdAt":   now,
		"updatedAt":   now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Price != 1290 {
		t.Fatalf("expected price 1290, got %v", p.Price)
	}
	if p.StockLevel != 7 || p.SalesCount != 12 {
		t.Fatalf("unexpected counters %+v", p)
	}
	if !p.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected updatedAt %v", p.UpdatedAt)
	}
}

func TestParseProduct_WrongTypes(t *testing.T) {
	cases := map[string]map[string]any{
		"price as string":      {"name": "X", "price": "cheap"},
		"name as number":       {"name": int64(3)},
		"stockLevel as string": {"name": "X", "stockLevel": "many"},
		"updatedAt as string":  {"name": "X", "updatedAt": "yesterday"},
	}
	for label, data := range cases {
		if _, err := ParseProduct("p", data); err == nil {
			t.Errorf("%s: expected parse error", label)
		}
	}
}

func TestParseProduct_EmptyID(t *testing.T) {
	if _, err := ParseProduct(" ", map[string]any{"name": "X"}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestParseProduct_MissingName(t *testing.T) {
	if _, err := ParseProduct("p", map[string]any{"price": float64(10)}); err == nil {
		t.Fatal("expected error for missing name")
	}
	if _, err := ParseProduct("p", map[string]any{"name": "  "}); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestParseProduct_NegativeValues(t *testing.T) {
	if _, err := ParseProduct("p", map[string]any{"name": "X", "price": float64(-1)}); err == nil {
		t.Fatal("expected error for negative price")
	}
	if _, err := ParseProduct("p", map[string]any{"name": "X", "stockLevel": int64(-5)}); err == nil {
		t.Fatal("expected error for negative stock")
	}
}
