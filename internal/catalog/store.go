package catalog

import "context"

// Store is the local queryable product store. All reads see either the
// pre-upsert or post-upsert snapshot; UpsertAll applies its whole batch or
// nothing.
type Store interface {
	UpsertAll(ctx context.Context, products []Product) error
	GetAll(ctx context.Context) ([]Product, error)
	GetByCategory(ctx context.Context, category string) ([]Product, error)
	// Search matches name or description, case-insensitive substring.
	Search(ctx context.Context, query string) ([]Product, error)
	GetByID(ctx context.Context, id string) (Product, error)
	// GetByIDs returns the found subset keyed by id; missing ids are absent,
	// not an error.
	GetByIDs(ctx context.Context, ids []string) (map[string]Product, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}
