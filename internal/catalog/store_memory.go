package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is a simple in-memory Store useful for tests and local runs.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{products: make(map[string]Product)}
}

func (s *MemoryStore) UpsertAll(_ context.Context, products []Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		s.products[p.ID] = p
	}
	return nil
}

func (s *MemoryStore) GetAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(Product) bool { return true }), nil
}

func (s *MemoryStore) GetByCategory(_ context.Context, category string) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(p Product) bool { return p.Category == category }), nil
}

func (s *MemoryStore) Search(_ context.Context, query string) ([]Product, error) {
	q := strings.ToLower(query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q)
	}), nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) GetByIDs(_ context.Context, ids []string) (map[string]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *MemoryStore) DistinctCategories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	for _, p := range s.products {
		if p.Category != "" {
			seen[p.Category] = true
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products), nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = make(map[string]Product)
	return nil
}

// snapshot copies matching products sorted by updatedAt desc, id asc on ties.
// Callers must hold at least the read lock.
func (s *MemoryStore) snapshot(match func(Product) bool) []Product {
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
