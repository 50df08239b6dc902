package kernel

import (
	"gomatch/domain/catalog"
	"gomatch/domain/core"
	"gomatch/domain/match"
	"gomatch/domain/response"
)

// Compound sub-answer keys for love-language questions
const (
	SubShow    = "show"
	SubReceive = "receive"
)

// LoveLanguageScorer handles compound show/receive questions scored
// bidirectionally
type LoveLanguageScorer struct{}

// NewLoveLanguageScorer creates a new bidirectional love-language scorer
func NewLoveLanguageScorer() *LoveLanguageScorer {
	return &LoveLanguageScorer{}
}

// Method returns the scoring method this scorer serves
func (s *LoveLanguageScorer) Method() catalog.ScoringMethod {
	return catalog.MethodLoveLanguage
}

// Description returns a human-readable description
func (s *LoveLanguageScorer) Description() string {
	return "Weighted bidirectional overlap of show and receive language sets"
}

// Score combines the receive/show overlaps of both sides:
// SHOW weight on b's satisfaction, RECEIVE weight on a's.
// An empty set on either side means no stated constraint and scores 1.0.
func (s *LoveLanguageScorer) Score(desc catalog.QuestionDescriptor, a, b response.Record, cfg match.Config) float64 {
	aShow, aReceive := languageSets(a)
	bShow, bReceive := languageSets(b)

	if len(aShow) == 0 || len(aReceive) == 0 || len(bShow) == 0 || len(bReceive) == 0 {
		return 1.0
	}

	o1 := float64(intersectionSize(tagSet(aReceive), tagSet(bShow))) / float64(len(aReceive))
	o2 := float64(intersectionSize(tagSet(bReceive), tagSet(aShow))) / float64(len(bReceive))

	return cfg.LoveLanguageWeights.Show*o2 + cfg.LoveLanguageWeights.Receive*o1
}

// languageSets pulls the show/receive sets from the record. A structured
// preference overrides the compound answer when present.
func languageSets(rec response.Record) (show, receive []core.OptionTag) {
	show = rec.Answer.Compound[SubShow]
	receive = rec.Answer.Compound[SubReceive]
	if rec.Preference != nil && rec.Preference.Kind == response.PrefCompound {
		if v, ok := rec.Preference.Sub[SubShow]; ok {
			show = v
		}
		if v, ok := rec.Preference.Sub[SubReceive]; ok {
			receive = v
		}
	}
	return show, receive
}
