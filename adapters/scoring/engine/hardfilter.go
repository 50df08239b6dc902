package engine

import (
	"gomatch/adapters/scoring/kernel"
	"gomatch/domain/catalog"
	"gomatch/domain/match"
	"gomatch/domain/response"
)

// HardFilter decides whether one respondent is even a candidate for
// another. Evaluation is directional and short-circuit: the returned
// rejection records the first violation.
type HardFilter struct {
	kernel *kernel.Kernel
	cat    *catalog.Catalog
}

// NewHardFilter creates a hard-filter evaluator
func NewHardFilter(k *kernel.Kernel, cat *catalog.Catalog) *HardFilter {
	return &HardFilter{kernel: k, cat: cat}
}

// Evaluate checks the ordered pair a→b. Order: gender acceptance, age
// range, then dealbreakers in ascending question-id order.
func (f *HardFilter) Evaluate(a, b response.Respondent) (bool, *match.Rejection) {
	if rej := f.checkGender(a, b); rej != nil {
		return false, rej
	}
	if rej := f.checkAge(a, b); rej != nil {
		return false, rej
	}
	if rej := f.checkDealbreakers(a, b); rej != nil {
		return false, rej
	}
	return true, nil
}

// checkGender verifies a's interested-in set contains b's gender
// identity, or the wildcard. Missing role questions or answers skip the
// check rather than reject.
func (f *HardFilter) checkGender(a, b response.Respondent) *match.Rejection {
	interest, ok := a.RoleAnswer(f.cat, catalog.RoleGenderInterest)
	if !ok {
		return nil
	}
	identity, ok := b.RoleAnswer(f.cat, catalog.RoleGenderIdentity)
	if !ok || identity.Choice == "" {
		return nil
	}

	for _, tag := range interest.Tags() {
		if tag == catalog.WildcardAnyone || tag == identity.Choice {
			return nil
		}
	}
	return &match.Rejection{Kind: match.RejectGender}
}

// checkAge verifies b's age sits inside a's declared acceptable range
func (f *HardFilter) checkAge(a, b response.Respondent) *match.Rejection {
	prefAnswer, ok := a.RoleAnswer(f.cat, catalog.RoleAgePreference)
	if !ok || prefAnswer.Range == nil {
		return nil
	}
	ageAnswer, ok := b.RoleAnswer(f.cat, catalog.RoleAge)
	if !ok {
		return nil
	}
	if !prefAnswer.Range.Contains(ageAnswer.Number) {
		return &match.Rejection{Kind: match.RejectAge}
	}
	return nil
}

// checkDealbreakers rejects when any dealbreaker question of a scores
// below full satisfaction. "Doesn't matter" dominates: a dealbreaker
// with no preference never applies.
func (f *HardFilter) checkDealbreakers(a, b response.Respondent) *match.Rejection {
	for _, qid := range f.cat.QuestionIDs() {
		aRec, ok := a.Record(qid)
		if !ok || !aRec.Dealbreaker || aRec.WantsAnything() {
			continue
		}
		desc, ok := f.cat.Question(qid)
		if !ok || !f.kernel.Scorable(desc) {
			continue
		}

		var score float64
		if bRec, ok := b.Record(qid); ok {
			score = f.kernel.Score(desc, aRec, bRec)
		} else {
			score = f.kernel.ScoreMissing(aRec)
		}
		// A dealbreaker is an absolute requirement: anything short of
		// full satisfaction disqualifies
		if score < 1.0 {
			return &match.Rejection{Kind: match.RejectDealbreaker, QuestionID: qid}
		}
	}
	return nil
}
