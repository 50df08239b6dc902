package kernel

import (
	"gomatch/domain/catalog"
	"gomatch/domain/match"
	"gomatch/domain/response"
)

// MultiSelectScorer handles set-valued questions with same/similar
// preferences using mutual proportional overlap
type MultiSelectScorer struct{}

// NewMultiSelectScorer creates a new multi-select overlap scorer
func NewMultiSelectScorer() *MultiSelectScorer {
	return &MultiSelectScorer{}
}

// Method returns the scoring method this scorer serves
func (s *MultiSelectScorer) Method() catalog.ScoringMethod {
	return catalog.MethodMultiSelect
}

// Description returns a human-readable description
func (s *MultiSelectScorer) Description() string {
	return "Mutual proportional overlap of option sets"
}

// Score computes set overlap similarity of b's picks against a's
func (s *MultiSelectScorer) Score(desc catalog.QuestionDescriptor, a, b response.Record, cfg match.Config) float64 {
	setA := tagSet(a.Answer.Tags())
	setB := tagSet(b.Answer.Tags())

	if a.Preference.Kind == response.PrefSame {
		if setsEqual(setA, setB) {
			return 1.0
		}
		return 0.0
	}

	// similar: mean of each side's satisfied fraction
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}
	overlap := float64(intersectionSize(setA, setB))
	aSatisfaction := overlap / float64(len(setB))
	bSatisfaction := overlap / float64(len(setA))
	return (aSatisfaction + bSatisfaction) / 2
}
