// Package dedupe tracks job identifiers that have already been queued.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen identifiers so each job is scheduled once.
type Deduper interface {
	// SeenAndRecord reports whether id was seen before and records it if not.
	SeenAndRecord(ctx context.Context, id string) bool

	// Ordered returns recorded identifiers in first-seen order.
	Ordered() []string
}

type inMemoryDeduper struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
}

// NewInMemoryDeduper creates an unbounded in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	if d.seen == nil {
		d.seen = make(map[string]struct{})
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}
	d.seen[id] = struct{}{}
	d.order = append(d.order, id)
	return false
}

func (d *inMemoryDeduper) Ordered() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}
