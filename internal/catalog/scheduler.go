package catalog

import (
	"context"
	"errors"
	"log"
	"time"
)

// Scheduler periodically runs Engine.Sync. Retryable failures are retried
// within the cycle with linear backoff; permanent failures wait for the next
// cycle.
type Scheduler struct {
	engine     *Engine
	interval   time.Duration
	maxRetries int
	retryDelay time.Duration
}

func NewScheduler(engine *Engine, interval time.Duration, maxRetries int, retryDelay time.Duration) *Scheduler {
	return &Scheduler{
		engine:     engine,
		interval:   interval,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Run syncs once immediately, then on every tick until ctx is cancelled.
// An in-flight sync is allowed to complete; only future cycles are stopped.
func (s *Scheduler) Run(ctx context.Context) {
	s.syncWithRetry(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.syncWithRetry(ctx)
		}
	}
}

func (s *Scheduler) syncWithRetry(ctx context.Context) {
	for attempt := 0; ; attempt++ {
		_, err := s.engine.Sync(ctx)
		if err == nil {
			return
		}

		var syncErr *SyncError
		if !errors.As(err, &syncErr) || !syncErr.Retryable || attempt >= s.maxRetries {
			log.Printf("catalog: sync failed, waiting for next cycle: %v", err)
			return
		}

		delay := time.Duration(attempt+1) * s.retryDelay
		log.Printf("catalog: sync attempt %d failed, retrying in %s: %v", attempt+1, delay, err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}
