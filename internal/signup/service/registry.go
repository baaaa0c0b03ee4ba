package service

import (
	"context"
	"sync"
	"time"

	"onboard/pkg/domain"
	"onboard/pkg/platform/sentinel"
)

// registry holds live workflows in memory. Nothing is persisted; a restart
// drops every attempt in progress.
type registry struct {
	mu    sync.RWMutex
	items map[domain.WorkflowID]*Workflow
	ttl   time.Duration
}

func newRegistry(ttl time.Duration) *registry {
	return &registry{
		items: make(map[domain.WorkflowID]*Workflow),
		ttl:   ttl,
	}
}

func (r *registry) add(w *Workflow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[w.ID] = w
}

// get returns the workflow and refreshes its idle timer. An idle workflow
// found past its TTL is dropped and reported as sentinel.ErrExpired.
func (r *registry) get(id domain.WorkflowID, now time.Time) (*Workflow, error) {
	r.mu.RLock()
	w, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if r.ttl > 0 && w.idleSince(now.Add(-r.ttl)) {
		r.remove(id)
		return nil, sentinel.ErrExpired
	}
	w.touch(now)
	return w, nil
}

func (r *registry) remove(id domain.WorkflowID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return false
	}
	delete(r.items, id)
	return true
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// removeExpiredAt drops every idle workflow older than the TTL as of now and
// returns the dropped ids.
func (r *registry) removeExpiredAt(now time.Time) []domain.WorkflowID {
	if r.ttl <= 0 {
		return nil
	}
	cutoff := now.Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []domain.WorkflowID
	for id, w := range r.items {
		if w.idleSince(cutoff) {
			delete(r.items, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// startCleanup runs removeExpiredAt every interval until ctx is cancelled.
func (r *registry) startCleanup(ctx context.Context, interval time.Duration, onRemoved func([]domain.WorkflowID)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := r.removeExpiredAt(time.Now()); len(removed) > 0 && onRemoved != nil {
				onRemoved(removed)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
