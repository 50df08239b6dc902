package ports

import (
	"context"

	"gomatch/domain/core"
	"gomatch/domain/match"
)

// BatchRepository persists matching batches and their results. The core
// pipeline never touches it; only the batch layer does.
type BatchRepository interface {
	SaveBatch(ctx context.Context, batch *match.Batch) error
	GetBatch(ctx context.Context, id core.BatchID) (*match.Batch, error)
	ListBatches(ctx context.Context, limit int) ([]*match.Batch, error)
}
