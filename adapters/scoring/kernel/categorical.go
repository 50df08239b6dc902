package kernel

import (
	"gomatch/domain/catalog"
	"gomatch/domain/core"
	"gomatch/domain/match"
	"gomatch/domain/response"
)

// CategoricalScorer handles enumerated questions with same/similar
// preferences and optional semantic group clustering
type CategoricalScorer struct{}

// NewCategoricalScorer creates a new preference-match scorer
func NewCategoricalScorer() *CategoricalScorer {
	return &CategoricalScorer{}
}

// Method returns the scoring method this scorer serves
func (s *CategoricalScorer) Method() catalog.ScoringMethod {
	return catalog.MethodPreferenceMatch
}

// Description returns a human-readable description
func (s *CategoricalScorer) Description() string {
	return "Categorical matching with semantic group fallback and wildcard flexibility bonus"
}

// Score computes categorical similarity of b's answer against a's preference
func (s *CategoricalScorer) Score(desc catalog.QuestionDescriptor, a, b response.Record, cfg match.Config) float64 {
	setB := tagSet(b.Answer.Tags())
	if len(setB) == 0 {
		return 0
	}

	var raw float64
	if a.Preference.Kind == response.PrefSpecificValues {
		raw = s.acceptedFraction(a.Preference, setB)
	} else {
		raw = s.setSimilarity(desc, a.Preference.Kind, tagSet(a.Answer.Tags()), setB)
	}

	// The wildcard answer (e.g. sleep "flexible") adds the configured
	// bonus on top of the raw similarity, capped at 1.0
	if desc.WildcardTag != "" && (hasTag(a.Answer.Tags(), desc.WildcardTag) || hasTag(b.Answer.Tags(), desc.WildcardTag)) {
		raw += cfg.SleepFlexibilityBonus
	}
	return clamp01(raw)
}

// acceptedFraction scores an explicit acceptable-value list: the fraction
// of b's picks the list accepts
func (s *CategoricalScorer) acceptedFraction(pref *response.Preference, setB map[core.OptionTag]bool) float64 {
	accepted := 0
	for tag := range setB {
		if pref.Accepts(tag) {
			accepted++
		}
	}
	return float64(accepted) / float64(len(setB))
}

// setSimilarity applies the same/similar semantics over the two option
// sets, falling back to semantic groups when tags do not overlap
func (s *CategoricalScorer) setSimilarity(desc catalog.QuestionDescriptor, kind response.PreferenceKind, setA, setB map[core.OptionTag]bool) float64 {
	if len(setA) == 0 {
		return 0
	}

	if setsEqual(setA, setB) {
		return 1.0
	}

	overlap := intersectionSize(setA, setB)

	if kind == response.PrefSame {
		// One side nests inside the other: extras downgrade to 0.9 when
		// they stay within a shared semantic cluster, 0.7 otherwise
		if small, large, nested := nesting(setA, setB); nested {
			if extrasShareGroup(desc, small, large) {
				return 0.9
			}
			return 0.7
		}
		if overlap > 0 {
			return 0.7
		}
		if groupsOverlap(desc, setA, setB) {
			return 0.7
		}
		return 0.0
	}

	// similar
	if overlap > 0 {
		return 1.0
	}
	if groupsOverlap(desc, setA, setB) {
		return 0.7
	}
	return 0.0
}

func tagSet(tags []core.OptionTag) map[core.OptionTag]bool {
	set := make(map[core.OptionTag]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}

func hasTag(tags []core.OptionTag, tag core.OptionTag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func setsEqual(a, b map[core.OptionTag]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for t := range a {
		if !b[t] {
			return false
		}
	}
	return true
}

func intersectionSize(a, b map[core.OptionTag]bool) int {
	n := 0
	for t := range a {
		if b[t] {
			n++
		}
	}
	return n
}

// nesting reports whether one set strictly contains the other
func nesting(a, b map[core.OptionTag]bool) (small, large map[core.OptionTag]bool, nested bool) {
	if len(a) < len(b) && isSubset(a, b) {
		return a, b, true
	}
	if len(b) < len(a) && isSubset(b, a) {
		return b, a, true
	}
	return nil, nil, false
}

func isSubset(small, large map[core.OptionTag]bool) bool {
	for t := range small {
		if !large[t] {
			return false
		}
	}
	return true
}

// extrasShareGroup checks whether every tag the large set adds shares a
// semantic group with some tag of the small set
func extrasShareGroup(desc catalog.QuestionDescriptor, small, large map[core.OptionTag]bool) bool {
	groups := make(map[string]bool, len(small))
	for t := range small {
		groups[desc.SemanticGroup(t)] = true
	}
	for t := range large {
		if small[t] {
			continue
		}
		if !groups[desc.SemanticGroup(t)] {
			return false
		}
	}
	return true
}

func groupsOverlap(desc catalog.QuestionDescriptor, a, b map[core.OptionTag]bool) bool {
	groups := make(map[string]bool, len(a))
	for t := range a {
		groups[desc.SemanticGroup(t)] = true
	}
	for t := range b {
		if groups[desc.SemanticGroup(t)] {
			return true
		}
	}
	return false
}
