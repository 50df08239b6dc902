package kernel

import (
	"math"

	"gomatch/domain/catalog"
	"gomatch/domain/match"
	"gomatch/domain/response"
)

// LikertScorer handles Likert-scale questions with distance-based
// preference semantics
type LikertScorer struct{}

// NewLikertScorer creates a new Likert similarity scorer
func NewLikertScorer() *LikertScorer {
	return &LikertScorer{}
}

// Method returns the scoring method this scorer serves
func (s *LikertScorer) Method() catalog.ScoringMethod {
	return catalog.MethodSimilarity
}

// Description returns a human-readable description
func (s *LikertScorer) Description() string {
	return "Distance-based scoring on Likert scales with same/similar/different/more/less preferences"
}

// Score computes the Likert similarity of b's answer against a's preference
func (s *LikertScorer) Score(desc catalog.QuestionDescriptor, a, b response.Record, cfg match.Config) float64 {
	r := float64(desc.ScaleRange())
	if r <= 0 {
		return 0
	}

	av := float64(a.Answer.Scale)
	bv := float64(b.Answer.Scale)
	d := math.Abs(av - bv)

	switch a.Preference.Kind {
	case response.PrefSame:
		if d == 0 {
			return 1.0
		}
		return 0.0
	case response.PrefSimilar:
		return math.Max(0, 1-d/r)
	case response.PrefDifferent:
		return math.Min(1, d/r)
	case response.PrefMore:
		// Best when b exceeds a by the full range; 0.5 when equal
		return clamp((bv-av)/r+0.5, 0, 1)
	case response.PrefLess:
		return clamp((av-bv)/r+0.5, 0, 1)
	}

	// Unrecognized preference kinds fall back to gradual distance scoring
	return math.Max(0, 1-d/r)
}
