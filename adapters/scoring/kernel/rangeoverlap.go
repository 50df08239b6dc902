package kernel

import (
	"gomatch/domain/catalog"
	"gomatch/domain/match"
	"gomatch/domain/response"
)

// RangeOverlapScorer handles numeric questions scored against an
// acceptable interval (age and similar)
type RangeOverlapScorer struct{}

// NewRangeOverlapScorer creates a new range-overlap scorer
func NewRangeOverlapScorer() *RangeOverlapScorer {
	return &RangeOverlapScorer{}
}

// Method returns the scoring method this scorer serves
func (s *RangeOverlapScorer) Method() catalog.ScoringMethod {
	return catalog.MethodRangeOverlap
}

// Description returns a human-readable description
func (s *RangeOverlapScorer) Description() string {
	return "Interval membership with linear falloff scaled by half the range width"
}

// Score computes how well b's value sits inside a's acceptable interval
func (s *RangeOverlapScorer) Score(desc catalog.QuestionDescriptor, a, b response.Record, cfg match.Config) float64 {
	pref := a.Preference.Range
	if pref == nil {
		return 1.0
	}

	// Range answers score by overlap fraction against b's interval
	if b.Answer.Kind == response.KindAgeRange && b.Answer.Range != nil {
		return overlapFraction(*pref, *b.Answer.Range)
	}

	v := b.Answer.Number
	if b.Answer.Kind == response.KindLikert {
		v = b.Answer.Scale
	}

	if pref.Contains(v) {
		return 1.0
	}

	// Linear falloff outside the interval, scaled by half the width,
	// floored at 0
	half := float64(pref.Width()) / 2
	if half <= 0 {
		return 0
	}
	var dist float64
	if v < pref.Min {
		dist = float64(pref.Min - v)
	} else {
		dist = float64(v - pref.Max)
	}
	return clamp01(1 - dist/half)
}

// overlapFraction returns the share of b's interval covered by pref
func overlapFraction(pref, b response.AgeRange) float64 {
	lo := pref.Min
	if b.Min > lo {
		lo = b.Min
	}
	hi := pref.Max
	if b.Max < hi {
		hi = b.Max
	}
	if hi < lo {
		return 0
	}
	width := b.Width() + 1
	if width <= 0 {
		return 0
	}
	return float64(hi-lo+1) / float64(width)
}
