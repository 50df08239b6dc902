package kernel

import (
	"gomatch/domain/catalog"
	"gomatch/domain/match"
	"gomatch/domain/response"
)

// MethodScorer computes the per-question similarity for one scoring method.
// Implementations are pure: deterministic, side-effect free, and use only
// the two records, the descriptor, and the configuration.
type MethodScorer interface {
	Method() catalog.ScoringMethod
	Description() string

	// Score returns how well b's answer satisfies a's preference, in [0, 1]
	Score(desc catalog.QuestionDescriptor, a, b response.Record, cfg match.Config) float64
}

// Kernel dispatches per-question similarity on the descriptor's scoring
// method. It never rejects a question: unknown or unscored methods yield
// no contribution via Scorable.
type Kernel struct {
	scorers map[catalog.ScoringMethod]MethodScorer
	cfg     match.Config
}

// New creates a kernel with every built-in method scorer registered
func New(cfg match.Config) *Kernel {
	k := &Kernel{
		scorers: make(map[catalog.ScoringMethod]MethodScorer),
		cfg:     cfg,
	}
	for _, s := range []MethodScorer{
		NewLikertScorer(),
		NewCategoricalScorer(),
		NewRangeOverlapScorer(),
		NewMultiSelectScorer(),
		NewConflictMatrixScorer(),
		NewLoveLanguageScorer(),
	} {
		k.scorers[s.Method()] = s
	}
	return k
}

// Scorable reports whether the kernel can score the question at all.
// ai_sentiment and free-text questions are excluded from the scored set.
func (k *Kernel) Scorable(desc catalog.QuestionDescriptor) bool {
	if desc.Format == catalog.FormatFreeText {
		return false
	}
	_, ok := k.scorers[desc.Method]
	return ok
}

// Score computes similarity(q, a, b): how well b's answer satisfies a's
// preference. The result is always clamped to [0, 1].
func (k *Kernel) Score(desc catalog.QuestionDescriptor, a response.Record, b response.Record) float64 {
	scorer, ok := k.scorers[desc.Method]
	if !ok {
		return 0
	}

	// Flexible tags ("whatever feels natural") score 1.0 regardless of
	// the other side's answer
	if answersFlexible(desc, a) || answersFlexible(desc, b) {
		return 1.0
	}

	// Absent preference short-circuits to full satisfaction for every
	// preference-consuming method. The love-language method reads the
	// compound answers instead and decides emptiness itself.
	if a.WantsAnything() && desc.Method != catalog.MethodLoveLanguage {
		return 1.0
	}

	// A partner who skipped an optional question contributes the
	// configured neutral similarity
	if answerMissing(desc, b) {
		return clamp01(k.cfg.PreferNotAnswerSimilarity)
	}

	return clamp01(scorer.Score(desc, a, b, k.cfg))
}

// ScoreMissing returns the contribution when b has no record at all for
// the question a asked about
func (k *Kernel) ScoreMissing(a response.Record) float64 {
	if a.WantsAnything() {
		return 1.0
	}
	return clamp01(k.cfg.PreferNotAnswerSimilarity)
}

func answersFlexible(desc catalog.QuestionDescriptor, rec response.Record) bool {
	for _, tag := range rec.Answer.Tags() {
		if desc.IsFlexibleTag(tag) {
			return true
		}
	}
	return false
}

// answerMissing reports whether the record carries no usable answer for
// the descriptor's format
func answerMissing(desc catalog.QuestionDescriptor, rec response.Record) bool {
	switch desc.Format {
	case catalog.FormatSingleChoice:
		return rec.Answer.Choice == ""
	case catalog.FormatMultiChoice, catalog.FormatRanking:
		return len(rec.Answer.Tags()) == 0
	case catalog.FormatAgeRange:
		return rec.Answer.Range == nil
	case catalog.FormatCompound:
		return len(rec.Answer.Compound) == 0
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
