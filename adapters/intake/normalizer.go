package intake

import (
	"fmt"

	"gomatch/domain/catalog"
	"gomatch/domain/core"
	"gomatch/domain/response"
)

// Normalizer validates and canonicalizes raw respondent input against
// the catalog. Unknown question ids are dropped silently; any shape,
// range, or option violation fails the respondent with InvalidResponse.
type Normalizer struct {
	cat *catalog.Catalog
}

// NewNormalizer creates a normalizer for one catalog
func NewNormalizer(cat *catalog.Catalog) *Normalizer {
	return &Normalizer{cat: cat}
}

// Normalize validates one respondent and returns a canonical copy. The
// input is never mutated.
func (n *Normalizer) Normalize(r response.Respondent) (response.Respondent, error) {
	if r.ID.String() == "" {
		return response.Respondent{}, core.NewInvalidResponseError(r.ID, "", "respondent id is empty")
	}

	out := response.Respondent{
		ID:        r.ID,
		Responses: make(map[core.QuestionID]response.Record, len(r.Responses)),
	}

	for qid, rec := range r.Responses {
		desc, ok := n.cat.Question(qid)
		if !ok {
			// Unknown question ids are ignored, not an error
			continue
		}
		normalized, err := n.normalizeRecord(r.ID, desc, rec)
		if err != nil {
			return response.Respondent{}, err
		}
		normalized.QuestionID = qid
		out.Responses[qid] = normalized
	}

	for _, qid := range n.cat.RequiredQuestionIDs() {
		if _, ok := out.Responses[qid]; !ok {
			return response.Respondent{}, core.NewInvalidResponseError(r.ID, qid, "required question missing")
		}
	}

	return out, nil
}

func (n *Normalizer) normalizeRecord(user core.UserID, desc catalog.QuestionDescriptor, rec response.Record) (response.Record, error) {
	fail := func(reason string) (response.Record, error) {
		return response.Record{}, core.NewInvalidResponseError(user, desc.ID, reason)
	}

	if err := n.checkAnswer(desc, rec.Answer); err != nil {
		return fail(err.Error())
	}
	if err := n.checkPreference(desc, rec.Preference); err != nil {
		return fail(err.Error())
	}

	// Importance defaults to IMPORTANT when missing
	if rec.Importance == "" {
		rec.Importance = response.Important
	}
	if !response.ValidImportance(rec.Importance) {
		return fail(fmt.Sprintf("unknown importance %q", rec.Importance))
	}

	return rec, nil
}

func (n *Normalizer) checkAnswer(desc catalog.QuestionDescriptor, a response.Answer) error {
	switch desc.Format {
	case catalog.FormatSingleChoice:
		if a.Kind != response.KindSingleChoice {
			return fmt.Errorf("expected single-choice answer, got %s", a.Kind)
		}
		if a.Choice != "" && len(desc.Options) > 0 && !desc.HasOption(a.Choice) {
			return fmt.Errorf("option %q not in option set", a.Choice)
		}

	case catalog.FormatMultiChoice:
		if a.Kind != response.KindMultiChoice {
			return fmt.Errorf("expected multi-choice answer, got %s", a.Kind)
		}
		if desc.MaxSelections > 0 && len(a.Choices) > desc.MaxSelections {
			return fmt.Errorf("%d selections exceeds max of %d", len(a.Choices), desc.MaxSelections)
		}
		if err := n.checkTags(desc, a.Choices); err != nil {
			return err
		}

	case catalog.FormatRanking:
		if a.Kind != response.KindRanking {
			return fmt.Errorf("expected ranking answer, got %s", a.Kind)
		}
		if len(a.Ranking) != desc.RankLength {
			return fmt.Errorf("ranking has %d entries, expected exactly %d", len(a.Ranking), desc.RankLength)
		}
		if err := n.checkTags(desc, a.Ranking); err != nil {
			return err
		}
		seen := make(map[core.OptionTag]bool, len(a.Ranking))
		for _, tag := range a.Ranking {
			if seen[tag] {
				return fmt.Errorf("ranking repeats option %q", tag)
			}
			seen[tag] = true
		}

	case catalog.FormatLikert:
		if a.Kind != response.KindLikert {
			return fmt.Errorf("expected likert answer, got %s", a.Kind)
		}
		if a.Scale < desc.ScaleMin || a.Scale > desc.ScaleMax {
			return fmt.Errorf("scale %d outside [%d..%d]", a.Scale, desc.ScaleMin, desc.ScaleMax)
		}

	case catalog.FormatNumeric:
		if a.Kind != response.KindNumeric {
			return fmt.Errorf("expected numeric answer, got %s", a.Kind)
		}
		if desc.NumericMax > desc.NumericMin && (a.Number < desc.NumericMin || a.Number > desc.NumericMax) {
			return fmt.Errorf("value %d outside [%d..%d]", a.Number, desc.NumericMin, desc.NumericMax)
		}

	case catalog.FormatAgeRange:
		if a.Kind != response.KindAgeRange || a.Range == nil {
			return fmt.Errorf("expected age-range answer, got %s", a.Kind)
		}
		if a.Range.Min > a.Range.Max {
			return fmt.Errorf("range min %d above max %d", a.Range.Min, a.Range.Max)
		}
		if desc.NumericMax > desc.NumericMin &&
			(a.Range.Min < desc.NumericMin || a.Range.Max > desc.NumericMax) {
			return fmt.Errorf("range [%d..%d] outside permissible [%d..%d]", a.Range.Min, a.Range.Max, desc.NumericMin, desc.NumericMax)
		}

	case catalog.FormatFreeText:
		if a.Kind != response.KindFreeText {
			return fmt.Errorf("expected free-text answer, got %s", a.Kind)
		}

	case catalog.FormatCompound:
		if a.Kind != response.KindCompound {
			return fmt.Errorf("expected compound answer, got %s", a.Kind)
		}
		if len(desc.CompoundKeys) > 0 {
			allowed := make(map[string]bool, len(desc.CompoundKeys))
			for _, k := range desc.CompoundKeys {
				allowed[k] = true
			}
			for key, tags := range a.Compound {
				if !allowed[key] {
					return fmt.Errorf("unknown compound key %q", key)
				}
				if desc.MaxPerCompoundKey > 0 && len(tags) > desc.MaxPerCompoundKey {
					return fmt.Errorf("compound key %q has %d selections, max %d", key, len(tags), desc.MaxPerCompoundKey)
				}
			}
		}
	}
	return nil
}

func (n *Normalizer) checkTags(desc catalog.QuestionDescriptor, tags []core.OptionTag) error {
	if len(desc.Options) == 0 {
		return nil
	}
	for _, tag := range tags {
		if !desc.HasOption(tag) {
			return fmt.Errorf("option %q not in option set", tag)
		}
	}
	return nil
}

func (n *Normalizer) checkPreference(desc catalog.QuestionDescriptor, p *response.Preference) error {
	if p == nil {
		return nil
	}
	switch p.Kind {
	case response.PrefSame, response.PrefSimilar, response.PrefDifferent,
		response.PrefLess, response.PrefMore, response.PrefCompatible:
		return nil
	case response.PrefSpecificValues:
		if len(p.Values) == 0 {
			return fmt.Errorf("specific_values preference lists no values")
		}
		return n.checkTags(desc, p.Values)
	case response.PrefRange:
		if p.Range == nil {
			return fmt.Errorf("range preference carries no range")
		}
		if p.Range.Min > p.Range.Max {
			return fmt.Errorf("preference range min %d above max %d", p.Range.Min, p.Range.Max)
		}
		return nil
	case response.PrefCompound:
		if len(p.Sub) == 0 {
			return fmt.Errorf("compound preference carries no sub-preferences")
		}
		return nil
	}
	return fmt.Errorf("unknown preference kind %q", p.Kind)
}
