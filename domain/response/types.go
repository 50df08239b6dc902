package response

import (
	"fmt"

	"gomatch/domain/catalog"
	"gomatch/domain/core"
)

// Importance is the discrete weight label a respondent attaches to a question
type Importance string

const (
	NotImportant      Importance = "NOT_IMPORTANT"
	SomewhatImportant Importance = "SOMEWHAT_IMPORTANT"
	Important         Importance = "IMPORTANT"
	VeryImportant     Importance = "VERY_IMPORTANT"
)

// ValidImportance reports whether imp is one of the four levels
func ValidImportance(imp Importance) bool {
	switch imp {
	case NotImportant, SomewhatImportant, Important, VeryImportant:
		return true
	}
	return false
}

// AnswerKind tags the variant held by an Answer
type AnswerKind string

const (
	KindSingleChoice AnswerKind = "single_choice"
	KindMultiChoice  AnswerKind = "multi_choice"
	KindRanking      AnswerKind = "ranking"
	KindLikert       AnswerKind = "likert"
	KindNumeric      AnswerKind = "numeric"
	KindAgeRange     AnswerKind = "age_range"
	KindFreeText     AnswerKind = "free_text"
	KindCompound     AnswerKind = "compound"
)

// AgeRange is an inclusive [Min, Max] interval
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v falls inside the range
func (r AgeRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Width returns the size of the interval
func (r AgeRange) Width() int {
	return r.Max - r.Min
}

// Answer is a closed sum over the answer formats. Kind selects the
// populated variant; the question descriptor is the authority on which
// variant is expected.
type Answer struct {
	Kind AnswerKind `json:"kind"`

	Choice   core.OptionTag              `json:"choice,omitempty"`
	Choices  []core.OptionTag            `json:"choices,omitempty"`
	Ranking  []core.OptionTag            `json:"ranking,omitempty"`
	Scale    int                         `json:"scale,omitempty"`
	Number   int                         `json:"number,omitempty"`
	Range    *AgeRange                   `json:"range,omitempty"`
	Text     string                      `json:"text,omitempty"`
	Compound map[string][]core.OptionTag `json:"compound,omitempty"`
}

// Tags returns the answer's option tags as a flat set. Single-choice
// answers yield a singleton; ranking answers yield their members.
func (a Answer) Tags() []core.OptionTag {
	switch a.Kind {
	case KindSingleChoice:
		if a.Choice == "" {
			return nil
		}
		return []core.OptionTag{a.Choice}
	case KindMultiChoice:
		return a.Choices
	case KindRanking:
		return a.Ranking
	}
	return nil
}

// SingleChoice builds a single-choice answer
func SingleChoice(tag core.OptionTag) Answer {
	return Answer{Kind: KindSingleChoice, Choice: tag}
}

// MultiChoice builds a multi-choice answer
func MultiChoice(tags ...core.OptionTag) Answer {
	return Answer{Kind: KindMultiChoice, Choices: tags}
}

// Ranking builds a ranking answer
func Ranking(tags ...core.OptionTag) Answer {
	return Answer{Kind: KindRanking, Ranking: tags}
}

// Likert builds a Likert-scale answer
func Likert(scale int) Answer {
	return Answer{Kind: KindLikert, Scale: scale}
}

// Numeric builds a numeric answer
func Numeric(n int) Answer {
	return Answer{Kind: KindNumeric, Number: n}
}

// Ages builds an age-range answer
func Ages(min, max int) Answer {
	return Answer{Kind: KindAgeRange, Range: &AgeRange{Min: min, Max: max}}
}

// FreeText builds a free-text answer
func FreeText(text string) Answer {
	return Answer{Kind: KindFreeText, Text: text}
}

// Compound builds a compound answer from named sub-answers
func Compound(sub map[string][]core.OptionTag) Answer {
	return Answer{Kind: KindCompound, Compound: sub}
}

// PreferenceKind tags the variant held by a Preference
type PreferenceKind string

const (
	PrefSame           PreferenceKind = "same"
	PrefSimilar        PreferenceKind = "similar"
	PrefDifferent      PreferenceKind = "different"
	PrefLess           PreferenceKind = "less"
	PrefMore           PreferenceKind = "more"
	PrefCompatible     PreferenceKind = "compatible"
	PrefSpecificValues PreferenceKind = "specific_values"
	PrefRange          PreferenceKind = "range"
	PrefCompound       PreferenceKind = "compound"
)

// Preference is a respondent's stated expectation about a partner's
// answer. Absence ("doesn't matter") is modeled as a nil *Preference on
// the record, never as a magic kind.
type Preference struct {
	Kind PreferenceKind `json:"kind"`

	// Values holds the acceptable option set for specific_values
	Values []core.OptionTag `json:"values,omitempty"`

	// Range holds the acceptable interval for range preferences
	Range *AgeRange `json:"range,omitempty"`

	// Sub holds structured sub-preferences (e.g. {show, receive})
	Sub map[string][]core.OptionTag `json:"sub,omitempty"`
}

// Accepts reports whether tag is in the preference's acceptable set
func (p *Preference) Accepts(tag core.OptionTag) bool {
	for _, v := range p.Values {
		if v == tag {
			return true
		}
	}
	return false
}

// Record is one respondent's validated answer to one question
type Record struct {
	QuestionID  core.QuestionID `json:"question_id"`
	Answer      Answer          `json:"answer"`
	Preference  *Preference     `json:"preference,omitempty"`
	Importance  Importance      `json:"importance"`
	Dealbreaker bool            `json:"dealbreaker,omitempty"`
}

// WantsAnything reports whether the record carries no preference
func (r Record) WantsAnything() bool {
	return r.Preference == nil
}

// Respondent is a questionnaire participant with validated responses
type Respondent struct {
	ID        core.UserID                `json:"id"`
	Responses map[core.QuestionID]Record `json:"responses"`
}

// Record returns the respondent's record for a question
func (r Respondent) Record(id core.QuestionID) (Record, bool) {
	rec, ok := r.Responses[id]
	return rec, ok
}

// RoleAnswer returns the respondent's answer to the question serving the
// given hard-filter role
func (r Respondent) RoleAnswer(cat *catalog.Catalog, role catalog.QuestionRole) (Answer, bool) {
	desc, ok := cat.RoleQuestion(role)
	if !ok {
		return Answer{}, false
	}
	rec, ok := r.Responses[desc.ID]
	if !ok {
		return Answer{}, false
	}
	return rec.Answer, true
}

// String implements fmt.Stringer for debugging output
func (r Respondent) String() string {
	return fmt.Sprintf("Respondent(%s, %d responses)", r.ID, len(r.Responses))
}
