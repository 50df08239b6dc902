package memory

import (
	"context"
	"sort"
	"sync"

	"gomatch/domain/core"
	"gomatch/domain/match"
	"gomatch/ports"
)

// BatchRepository keeps batches in process memory. Used when no
// database is configured and as the test double for the postgres
// implementation.
type BatchRepository struct {
	mu      sync.RWMutex
	batches map[core.BatchID]*match.Batch
}

// NewBatchRepository creates an empty in-memory repository
func NewBatchRepository() ports.BatchRepository {
	return &BatchRepository{batches: make(map[core.BatchID]*match.Batch)}
}

// SaveBatch stores a copy of the batch
func (r *BatchRepository) SaveBatch(ctx context.Context, batch *match.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *batch
	r.batches[batch.ID] = &copied
	return nil
}

// GetBatch retrieves one batch by id
func (r *BatchRepository) GetBatch(ctx context.Context, id core.BatchID) (*match.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	batch, ok := r.batches[id]
	if !ok {
		return nil, core.ErrBatchNotFound
	}
	copied := *batch
	return &copied, nil
}

// ListBatches returns the most recent batches
func (r *BatchRepository) ListBatches(ctx context.Context, limit int) ([]*match.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	batches := make([]*match.Batch, 0, len(r.batches))
	for _, b := range r.batches {
		copied := *b
		batches = append(batches, &copied)
	}
	sort.Slice(batches, func(i, j int) bool {
		return batches[i].CreatedAt.Time().After(batches[j].CreatedAt.Time())
	})
	if limit > 0 && len(batches) > limit {
		batches = batches[:limit]
	}
	return batches, nil
}
