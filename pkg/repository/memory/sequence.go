package memory

import (
	"context"
	"sync"
)

// sequenceRepository issues monotonically increasing numbers per prefix.
// The whole read-and-increment happens under one lock, so two concurrent
// allocations never receive the same number.
type sequenceRepository struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newSequenceRepository() *sequenceRepository {
	return &sequenceRepository{
		counters: make(map[string]int64),
	}
}

func (r *sequenceRepository) Allocate(ctx context.Context, prefix string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counters[prefix]++
	return r.counters[prefix], nil
}
