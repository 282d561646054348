package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SyncError reports a failed sync. Retryable distinguishes transient failures
// (network, deadline, store write) the scheduler should retry from permanent
// ones (bad credentials, misconfiguration) it should not.
type SyncError struct {
	Op        string
	Retryable bool
	Err       error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("catalog sync %s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// Engine pulls the remote product set and reconciles it into the local store.
// It is also the query facade consumers read the catalog through.
type Engine struct {
	remote RemoteSource
	store  Store

	mu      sync.Mutex
	subs    map[int]func([]string)
	nextSub int
}

func NewEngine(remote RemoteSource, store Store) *Engine {
	return &Engine{
		remote: remote,
		store:  store,
		subs:   make(map[int]func([]string)),
	}
}

// Sync fetches every remote record, parses each defensively and, when at
// least one record parsed, upserts the whole batch. Records that fail to
// parse are skipped and logged, never fatal to the batch. A pull with zero
// parseable records is a no-op success so a transient empty response cannot
// wipe a working offline cache. The local store is untouched on any failure.
func (e *Engine) Sync(ctx context.Context) (int, error) {
	docs, err := e.remote.FetchAll(ctx)
	if err != nil {
		return 0, &SyncError{Op: "fetch", Retryable: retryable(err), Err: err}
	}

	products := make([]Product, 0, len(docs))
	for _, doc := range docs {
		p, err := ParseProduct(doc.ID, doc.Data)
		if err != nil {
			log.Printf("catalog: skipping product %s: %v", doc.ID, err)
			continue
		}
		products = append(products, p)
	}

	if len(products) == 0 {
		log.Printf("catalog: sync returned no usable products, keeping local data")
		return 0, nil
	}

	if err := e.store.UpsertAll(ctx, products); err != nil {
		return 0, &SyncError{Op: "upsert", Retryable: true, Err: err}
	}

	e.notifyCategories(ctx)
	log.Printf("catalog: synced %d products (%d skipped)", len(products), len(docs)-len(products))
	return len(products), nil
}

// SubscribeCategories registers fn to be called with the fresh distinct
// category list after each successful sync. The returned func cancels the
// subscription.
func (e *Engine) SubscribeCategories(fn func([]string)) (cancel func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

func (e *Engine) notifyCategories(ctx context.Context) {
	categories, err := e.store.DistinctCategories(ctx)
	if err != nil {
		log.Printf("catalog: category refresh failed: %v", err)
		return
	}
	e.mu.Lock()
	subs := make([]func([]string), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.mu.Unlock()
	for _, fn := range subs {
		fn(categories)
	}
}

// Query facade over the local store.

func (e *Engine) Products(ctx context.Context) ([]Product, error) {
	return e.store.GetAll(ctx)
}

func (e *Engine) ProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	return e.store.GetByCategory(ctx, category)
}

func (e *Engine) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	return e.store.Search(ctx, query)
}

func (e *Engine) Product(ctx context.Context, id string) (Product, error) {
	return e.store.GetByID(ctx, id)
}

func (e *Engine) Categories(ctx context.Context) ([]string, error) {
	return e.store.DistinctCategories(ctx)
}

func (e *Engine) Count(ctx context.Context) (int, error) {
	return e.store.Count(ctx)
}

func retryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted, codes.Internal:
		return true
	case codes.PermissionDenied, codes.Unauthenticated, codes.InvalidArgument, codes.FailedPrecondition:
		return false
	}
	// Unknown errors (plain network failures wrapped by the client) are worth
	// another attempt.
	return true
}
