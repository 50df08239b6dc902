package match

import (
	"gomatch/domain/core"
)

// BatchStatus is the lifecycle state of a matching batch
type BatchStatus string

const (
	BatchPending   BatchStatus = "pending"
	BatchRunning   BatchStatus = "running"
	BatchCompleted BatchStatus = "completed"
	BatchFailed    BatchStatus = "failed"
)

// Batch is a named matching run over a set of users. The core pipeline
// stays stateless; batches wrap it for scheduling and persistence.
type Batch struct {
	ID         core.BatchID    `json:"id"`
	Name       string          `json:"name"`
	Status     BatchStatus     `json:"status"`
	UserIDs    []core.UserID   `json:"user_ids"`
	CohortHash core.CohortHash `json:"cohort_hash"`
	Result     *Result         `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
	CreatedAt  core.Timestamp  `json:"created_at"`
	StartedAt  *core.Timestamp `json:"started_at,omitempty"`
	FinishedAt *core.Timestamp `json:"finished_at,omitempty"`
}

// NewBatch creates a pending batch over the given cohort
func NewBatch(name string, userIDs []core.UserID) *Batch {
	return &Batch{
		ID:         core.BatchID(core.NewID()),
		Name:       name,
		Status:     BatchPending,
		UserIDs:    userIDs,
		CohortHash: core.ComputeCohortHash(userIDs),
		CreatedAt:  core.Now(),
	}
}

// MarkRunning transitions the batch to running
func (b *Batch) MarkRunning() {
	now := core.Now()
	b.Status = BatchRunning
	b.StartedAt = &now
}

// MarkCompleted records the result and finishes the batch
func (b *Batch) MarkCompleted(result *Result) {
	now := core.Now()
	b.Status = BatchCompleted
	b.Result = result
	b.FinishedAt = &now
}

// MarkFailed records the failure and finishes the batch
func (b *Batch) MarkFailed(err error) {
	now := core.Now()
	b.Status = BatchFailed
	b.Error = err.Error()
	b.FinishedAt = &now
}
