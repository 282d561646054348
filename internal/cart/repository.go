package cart

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository persists cart lines. Every operation is scoped to one user;
// implementations must never return another user's lines.
type Repository interface {
	// AddOrMerge atomically finds the line for (line.UserID, line.ProductID)
	// and either increments its quantity by line.Quantity or creates it.
	// Concurrent calls for the same key must not produce duplicate lines.
	AddOrMerge(ctx context.Context, line Line) (Line, error)
	ListByUser(ctx context.Context, userID string) ([]Line, error)
	Get(ctx context.Context, userID, lineID string) (Line, error)
	UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) error
	// Delete is idempotent: deleting a missing line succeeds.
	Delete(ctx context.Context, userID, lineID string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}

// MemoryRepository is used for tests and local scenarios.
type MemoryRepository struct {
	mu    sync.Mutex
	lines map[string]Line
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{lines: make(map[string]Line), now: time.Now}
}

func (r *MemoryRepository) AddOrMerge(_ context.Context, line Line) (Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for id, existing := range r.lines {
		if existing.UserID == line.UserID && existing.ProductID == line.ProductID {
			existing.Quantity += line.Quantity
			existing.UpdatedAt = now
			r.lines[id] = existing
			return existing, nil
		}
	}
	line.ID = uuid.NewString()
	line.AddedAt = now
	line.UpdatedAt = now
	r.lines[line.ID] = line
	return line, nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Line, 0)
	for _, l := range r.lines {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.After(out[j].AddedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, userID, lineID string) (Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lines[lineID]
	if !ok || l.UserID != userID {
		return Line{}, ErrNotFound
	}
	return l, nil
}

func (r *MemoryRepository) UpdateQuantity(_ context.Context, userID, lineID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lines[lineID]
	if !ok || l.UserID != userID {
		return ErrNotFound
	}
	l.Quantity = quantity
	l.UpdatedAt = r.now()
	r.lines[lineID] = l
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, userID, lineID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lines[lineID]
	if !ok || l.UserID != userID {
		return nil
	}
	delete(r.lines, lineID)
	return nil
}

func (r *MemoryRepository) DeleteAllForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, l := range r.lines {
		if l.UserID == userID {
			delete(r.lines, id)
		}
	}
	return nil
}
