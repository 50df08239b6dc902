// Package testkit provides catalog and respondent fixtures shared by
// tests across the pipeline.
package testkit

import (
	"fmt"

	"gomatch/domain/catalog"
	"gomatch/domain/core"
	"gomatch/domain/response"
)

// Well-known fixture question ids
const (
	QGender       = core.QuestionID("q01_gender")
	QInterestedIn = core.QuestionID("q02_interested_in")
	QAge          = core.QuestionID("q03_age")
	QAgePref      = core.QuestionID("q04_age_pref")
	QReligion     = core.QuestionID("q6")
	QPolitics     = core.QuestionID("q7")
	QSubstances   = core.QuestionID("q8")
	QActivity     = core.QuestionID("q10")
	QSleep        = core.QuestionID("q12")
	QInterests    = core.QuestionID("q32")
	QConflict     = core.QuestionID("q40_conflict")
	QLoveLanguage = core.QuestionID("q41_love")
)

// StandardCatalog builds the questionnaire used across the test suite:
// four hard-filter role questions plus a spread of scored questions
// covering every scoring method.
func StandardCatalog() *catalog.Catalog {
	cat, err := catalog.NewCatalog([]catalog.QuestionDescriptor{
		{
			ID: QGender, Section: catalog.SectionLifestyle,
			Format: catalog.FormatSingleChoice, Method: catalog.MethodPreferenceMatch,
			Role: catalog.RoleGenderIdentity, HardFilter: true, Required: true,
			Options: []catalog.OptionSpec{{Tag: "woman"}, {Tag: "man"}, {Tag: "nonbinary"}},
		},
		{
			ID: QInterestedIn, Section: catalog.SectionLifestyle,
			Format: catalog.FormatMultiChoice, Method: catalog.MethodPreferenceMatch,
			Role: catalog.RoleGenderInterest, HardFilter: true, Required: true,
			Options: []catalog.OptionSpec{{Tag: "woman"}, {Tag: "man"}, {Tag: "nonbinary"}, {Tag: catalog.WildcardAnyone}},
		},
		{
			ID: QAge, Section: catalog.SectionLifestyle,
			Format: catalog.FormatNumeric, Method: catalog.MethodRangeOverlap,
			Role: catalog.RoleAge, HardFilter: true, Required: true,
			NumericMin: 18, NumericMax: 120,
		},
		{
			ID: QAgePref, Section: catalog.SectionLifestyle,
			Format: catalog.FormatAgeRange, Method: catalog.MethodRangeOverlap,
			Role: catalog.RoleAgePreference, HardFilter: true, Required: true,
			NumericMin: 18, NumericMax: 120,
		},
		{
			ID: QReligion, Section: catalog.SectionLifestyle,
			Format: catalog.FormatMultiChoice, Method: catalog.MethodPreferenceMatch,
			Options: []catalog.OptionSpec{{Tag: "atheist"}, {Tag: "agnostic"}, {Tag: "buddhist"}, {Tag: "catholic"}, {Tag: "jewish"}},
			SemanticGroups: map[core.OptionTag]string{
				"atheist":  "secular",
				"agnostic": "secular",
				"catholic": "christian",
			},
		},
		{
			ID: QPolitics, Section: catalog.SectionPersonality,
			Format: catalog.FormatLikert, Method: catalog.MethodSimilarity,
			ScaleMin: 1, ScaleMax: 5,
		},
		{
			ID: QSubstances, Section: catalog.SectionLifestyle,
			Format: catalog.FormatSingleChoice, Method: catalog.MethodPreferenceMatch,
			Options: []catalog.OptionSpec{{Tag: "never"}, {Tag: "socially"}, {Tag: "frequently"}},
		},
		{
			ID: QActivity, Section: catalog.SectionLifestyle,
			Format: catalog.FormatLikert, Method: catalog.MethodSimilarity,
			ScaleMin: 1, ScaleMax: 5,
		},
		{
			ID: QSleep, Section: catalog.SectionLifestyle,
			Format: catalog.FormatSingleChoice, Method: catalog.MethodPreferenceMatch,
			Options:     []catalog.OptionSpec{{Tag: "early_bird"}, {Tag: "night_owl"}, {Tag: "flexible"}},
			WildcardTag: "flexible",
		},
		{
			ID: QInterests, Section: catalog.SectionPersonality,
			Format: catalog.FormatMultiChoice, Method: catalog.MethodMultiSelect,
			MaxSelections: 5,
			Options: []catalog.OptionSpec{
				{Tag: "art"}, {Tag: "hiking"}, {Tag: "cooking"}, {Tag: "music"},
				{Tag: "travel"}, {Tag: "gaming"}, {Tag: "reading"},
			},
		},
		{
			ID: QConflict, Section: catalog.SectionPersonality,
			Format: catalog.FormatSingleChoice, Method: catalog.MethodCompatMatrix,
			Options: []catalog.OptionSpec{{Tag: "direct"}, {Tag: "avoidant"}, {Tag: "mediator"}},
		},
		{
			ID: QLoveLanguage, Section: catalog.SectionPersonality,
			Format: catalog.FormatCompound, Method: catalog.MethodLoveLanguage,
			CompoundKeys: []string{"show", "receive"}, MaxPerCompoundKey: 2,
		},
	})
	if err != nil {
		panic(fmt.Sprintf("testkit catalog: %v", err))
	}
	return cat
}

// RespondentBuilder assembles respondent fixtures fluently
type RespondentBuilder struct {
	r response.Respondent
}

// NewRespondent starts a builder with the four hard-filter answers every
// fixture needs
func NewRespondent(id string, gender core.OptionTag, age int, interestedIn ...core.OptionTag) *RespondentBuilder {
	b := &RespondentBuilder{r: response.Respondent{
		ID:        core.UserID(id),
		Responses: make(map[core.QuestionID]response.Record),
	}}
	b.r.Responses[QGender] = response.Record{Answer: response.SingleChoice(gender), Importance: response.Important}
	b.r.Responses[QInterestedIn] = response.Record{Answer: response.MultiChoice(interestedIn...), Importance: response.Important}
	b.r.Responses[QAge] = response.Record{Answer: response.Numeric(age), Importance: response.Important}
	b.r.Responses[QAgePref] = response.Record{Answer: response.Ages(18, 120), Importance: response.Important}
	return b
}

// AcceptingAges narrows the acceptable partner age range
func (b *RespondentBuilder) AcceptingAges(min, max int) *RespondentBuilder {
	b.r.Responses[QAgePref] = response.Record{Answer: response.Ages(min, max), Importance: response.Important}
	return b
}

// With sets an arbitrary record
func (b *RespondentBuilder) With(qid core.QuestionID, rec response.Record) *RespondentBuilder {
	rec.QuestionID = qid
	b.r.Responses[qid] = rec
	return b
}

// WithLikert answers a Likert question with a preference and importance
func (b *RespondentBuilder) WithLikert(qid core.QuestionID, scale int, kind response.PreferenceKind, imp response.Importance) *RespondentBuilder {
	return b.With(qid, response.Record{
		Answer:     response.Likert(scale),
		Preference: &response.Preference{Kind: kind},
		Importance: imp,
	})
}

// WithDealbreaker answers a single-choice question accepting only the
// listed values, flagged as a dealbreaker
func (b *RespondentBuilder) WithDealbreaker(qid core.QuestionID, answer core.OptionTag, acceptable ...core.OptionTag) *RespondentBuilder {
	return b.With(qid, response.Record{
		Answer:      response.SingleChoice(answer),
		Preference:  &response.Preference{Kind: response.PrefSpecificValues, Values: acceptable},
		Importance:  response.Important,
		Dealbreaker: true,
	})
}

// Build returns the assembled respondent
func (b *RespondentBuilder) Build() response.Respondent {
	return b.r
}
