package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNotFound = errors.New("product not found")

// Product is the typed catalog entity. It is written only by the sync engine;
// the cart and order subsystems read it and never patch it.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	SKU         string    `json:"sku"`
	StockLevel  int       `json:"stockLevel"`
	SalesCount  int       `json:"salesCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ParseProduct converts a loosely-typed remote record into a Product.
// A name is required; other missing fields fall back to zero values. A present
// field of the wrong type is a parse error so that corrupt records get skipped
// instead of silently producing nonsense.
func ParseProduct(id string, data map[string]any) (Product, error) {
	if strings.TrimSpace(id) == "" {
		return Product{}, errors.New("parse product: empty document id")
	}

	p := Product{ID: id}
	var err error
	if p.Name, err = stringField(data, "name"); err != nil {
		return Product{}, err
	}
	if strings.TrimSpace(p.Name) == "" {
		return Product{}, fmt.Errorf("parse product %s: missing name", id)
	}
	if p.Description, err = stringField(data, "description"); err != nil {
		return Product{}, err
	}
	if p.Price, err = floatField(data, "price"); err != nil {
		return Product{}, err
	}
	if p.Price < 0 {
		return Product{}, fmt.Errorf("parse product %s: negative price", id)
	}
	if p.Category, err = stringField(data, "category"); err != nil {
		return Product{}, err
	}
	if p.ImageURL, err = stringField(data, "imageUrl"); err != nil {
		return Product{}, err
	}
	if p.SKU, err = stringField(data, "sku"); err != nil {
		return Product{}, err
	}
	if p.StockLevel, err = intField(data, "stockLevel"); err != nil {
		return Product{}, err
	}
	if p.StockLevel < 0 {
		return Product{}, fmt.Errorf("parse product %s: negative stockLevel", id)
	}
	if p.SalesCount, err = intField(data, "salesCount"); err != nil {
		return Product{}, err
	}
	if p.CreatedAt, err = timeField(data, "createdAt"); err != nil {
		return Product{}, err
	}
	if p.UpdatedAt, err = timeField(data, "updatedAt"); err != nil {
		return Product{}, err
	}
	return p, nil
}

func stringField(data map[string]any, key string) (string, error) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("field %s: expected string, got %T", key, raw)
	}
	return s, nil
}

func floatField(data map[string]any, key string) (float64, error) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return 0, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("field %s: expected number, got %T", key, raw)
	}
}

func intField(data map[string]any, key string) (int, error) {
	f, err := floatField(data, key)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func timeField(data map[string]any, key string) (time.Time, error) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return time.Time{}, nil
	}
	t, ok := raw.(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("field %s: expected timestamp, got %T", key, raw)
	}
	return t, nil
}
