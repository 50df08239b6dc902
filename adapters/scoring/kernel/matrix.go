package kernel

import (
	"gomatch/domain/catalog"
	"gomatch/domain/match"
	"gomatch/domain/response"
)

// ConflictMatrixScorer handles conflict-style questions scored by a
// configuration-provided option-by-option table
type ConflictMatrixScorer struct{}

// NewConflictMatrixScorer creates a new compatibility-matrix scorer
func NewConflictMatrixScorer() *ConflictMatrixScorer {
	return &ConflictMatrixScorer{}
}

// Method returns the scoring method this scorer serves
func (s *ConflictMatrixScorer) Method() catalog.ScoringMethod {
	return catalog.MethodCompatMatrix
}

// Description returns a human-readable description
func (s *ConflictMatrixScorer) Description() string {
	return "Direct lookup in the configured conflict compatibility table"
}

// Score looks up matrix[a_answer][b_answer]. The table is not required
// to be symmetric; a missing entry scores 0.
func (s *ConflictMatrixScorer) Score(desc catalog.QuestionDescriptor, a, b response.Record, cfg match.Config) float64 {
	row, ok := cfg.ConflictMatrix[a.Answer.Choice]
	if !ok {
		return 0
	}
	v, ok := row[b.Answer.Choice]
	if !ok {
		return 0
	}
	return v
}
