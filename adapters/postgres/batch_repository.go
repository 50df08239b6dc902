package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gomatch/domain/core"
	"gomatch/domain/match"
	"gomatch/ports"
)

// BatchRepositoryImpl implements BatchRepository for PostgreSQL
type BatchRepositoryImpl struct {
	db *sqlx.DB
}

// NewBatchRepository creates a new PostgreSQL batch repository
func NewBatchRepository(db *sqlx.DB) ports.BatchRepository {
	return &BatchRepositoryImpl{db: db}
}

// EnsureSchema creates the batch table when it does not exist yet
func (r *BatchRepositoryImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS matching_batches (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			user_ids JSONB NOT NULL,
			cohort_hash TEXT NOT NULL,
			result JSONB,
			error TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			started_at TIMESTAMPTZ,
			finished_at TIMESTAMPTZ
		)`)
	return err
}

// SaveBatch upserts a batch with its result payload
func (r *BatchRepositoryImpl) SaveBatch(ctx context.Context, batch *match.Batch) error {
	userIDsJSON, _ := json.Marshal(batch.UserIDs)

	var resultJSON []byte
	if batch.Result != nil {
		var err error
		resultJSON, err = json.Marshal(batch.Result)
		if err != nil {
			return fmt.Errorf("failed to encode batch result: %w", err)
		}
	}

	var startedAt, finishedAt interface{}
	if batch.StartedAt != nil {
		startedAt = batch.StartedAt.Time()
	}
	if batch.FinishedAt != nil {
		finishedAt = batch.FinishedAt.Time()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO matching_batches (
			id, name, status, user_ids, cohort_hash, result, error,
			created_at, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			result = EXCLUDED.result,
			error = EXCLUDED.error,
			started_at = EXCLUDED.started_at,
			finished_at = EXCLUDED.finished_at`,
		batch.ID.String(), batch.Name, string(batch.Status), userIDsJSON,
		batch.CohortHash.String(), resultJSON, nullable(batch.Error),
		batch.CreatedAt.Time(), startedAt, finishedAt)
	return err
}

// GetBatch retrieves one batch by id
func (r *BatchRepositoryImpl) GetBatch(ctx context.Context, id core.BatchID) (*match.Batch, error) {
	row := r.db.QueryRowxContext(ctx, `
		SELECT id, name, status, user_ids, cohort_hash, result, error,
		       created_at, started_at, finished_at
		FROM matching_batches WHERE id = $1`, id.String())

	batch, err := scanBatch(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrBatchNotFound
	}
	return batch, err
}

// ListBatches returns the most recent batches
func (r *BatchRepositoryImpl) ListBatches(ctx context.Context, limit int) ([]*match.Batch, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryxContext(ctx, `
		SELECT id, name, status, user_ids, cohort_hash, result, error,
		       created_at, started_at, finished_at
		FROM matching_batches ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batches := make([]*match.Batch, 0)
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBatch(row rowScanner) (*match.Batch, error) {
	var (
		batch       match.Batch
		id          string
		status      string
		userIDsJSON []byte
		cohortHash  string
		resultJSON  []byte
		errText     sql.NullString
		createdAt   sql.NullTime
		startedAt   sql.NullTime
		finishedAt  sql.NullTime
	)
	if err := row.Scan(&id, &batch.Name, &status, &userIDsJSON, &cohortHash,
		&resultJSON, &errText, &createdAt, &startedAt, &finishedAt); err != nil {
		return nil, err
	}

	batch.ID = core.BatchID(id)
	batch.Status = match.BatchStatus(status)
	batch.CohortHash = core.CohortHash(cohortHash)
	if err := json.Unmarshal(userIDsJSON, &batch.UserIDs); err != nil {
		return nil, fmt.Errorf("failed to decode batch user ids: %w", err)
	}
	if len(resultJSON) > 0 {
		batch.Result = &match.Result{}
		if err := json.Unmarshal(resultJSON, batch.Result); err != nil {
			return nil, fmt.Errorf("failed to decode batch result: %w", err)
		}
	}
	if errText.Valid {
		batch.Error = errText.String
	}
	if createdAt.Valid {
		batch.CreatedAt = core.NewTimestamp(createdAt.Time)
	}
	if startedAt.Valid {
		ts := core.NewTimestamp(startedAt.Time)
		batch.StartedAt = &ts
	}
	if finishedAt.Valid {
		ts := core.NewTimestamp(finishedAt.Time)
		batch.FinishedAt = &ts
	}
	return &batch, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
