package kernel

import (
	"math"
	"testing"

	"gomatch/domain/catalog"
	"gomatch/domain/core"
	"gomatch/domain/match"
	"gomatch/domain/response"
)

func likertQuestion(id string) catalog.QuestionDescriptor {
	return catalog.QuestionDescriptor{
		ID:       core.QuestionID(id),
		Section:  catalog.SectionPersonality,
		Format:   catalog.FormatLikert,
		Method:   catalog.MethodSimilarity,
		ScaleMin: 1,
		ScaleMax: 5,
	}
}

func record(answer response.Answer, pref *response.Preference) response.Record {
	return response.Record{
		Answer:     answer,
		Preference: pref,
		Importance: response.Important,
	}
}

func pref(kind response.PreferenceKind) *response.Preference {
	return &response.Preference{Kind: kind}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestLikertPreferences covers the same/similar/different/more/less semantics
func TestLikertPreferences(t *testing.T) {
	k := New(match.DefaultConfig())
	q := likertQuestion("q7")

	cases := []struct {
		name     string
		a, b     int
		kind     response.PreferenceKind
		expected float64
	}{
		{"same exact", 3, 3, response.PrefSame, 1.0},
		{"same off by one", 3, 4, response.PrefSame, 0.0},
		{"similar exact", 2, 2, response.PrefSimilar, 1.0},
		{"similar distance one", 2, 3, response.PrefSimilar, 0.75},
		{"similar full distance", 1, 5, response.PrefSimilar, 0.0},
		{"different exact", 3, 3, response.PrefDifferent, 0.0},
		{"different full distance", 1, 5, response.PrefDifferent, 1.0},
		{"more equal", 3, 3, response.PrefMore, 0.5},
		{"more full range", 1, 5, response.PrefMore, 1.0},
		{"more partner below", 5, 1, response.PrefMore, 0.0},
		{"less equal", 3, 3, response.PrefLess, 0.5},
		{"less full range", 5, 1, response.PrefLess, 1.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := record(response.Likert(tc.a), pref(tc.kind))
			b := record(response.Likert(tc.b), nil)
			got := k.Score(q, a, b)
			if !almostEqual(got, tc.expected) {
				t.Errorf("similarity = %.4f, expected %.4f", got, tc.expected)
			}
		})
	}
}

// TestNilPreferenceShortCircuits verifies "doesn't matter" returns 1.0
func TestNilPreferenceShortCircuits(t *testing.T) {
	k := New(match.DefaultConfig())
	q := likertQuestion("q7")

	a := record(response.Likert(1), nil)
	b := record(response.Likert(5), nil)
	if got := k.Score(q, a, b); got != 1.0 {
		t.Errorf("nil preference should score 1.0, got %.4f", got)
	}
}

// TestReligionSemanticSimilarity pins the nested-set semantic-group case:
// A answered a subset of B's tags and the extras share a cluster
func TestReligionSemanticSimilarity(t *testing.T) {
	q := catalog.QuestionDescriptor{
		ID:      "q6",
		Section: catalog.SectionLifestyle,
		Format:  catalog.FormatMultiChoice,
		Method:  catalog.MethodPreferenceMatch,
		Options: []catalog.OptionSpec{{Tag: "atheist"}, {Tag: "agnostic"}, {Tag: "buddhist"}},
		SemanticGroups: map[core.OptionTag]string{
			"atheist":  "secular",
			"agnostic": "secular",
		},
	}
	k := New(match.DefaultConfig())

	a := record(response.MultiChoice("atheist"), pref(response.PrefSame))
	b := record(response.MultiChoice("agnostic", "atheist"), pref(response.PrefSame))

	ab := k.Score(q, a, b)
	ba := k.Score(q, b, a)
	if !almostEqual(ab, 0.9) {
		t.Errorf("A->B similarity = %.4f, expected 0.9", ab)
	}
	if !almostEqual(ba, 0.9) {
		t.Errorf("B->A similarity = %.4f, expected 0.9 (symmetric)", ba)
	}
}

// TestCategoricalGroupFallback verifies no-overlap scoring via clusters
func TestCategoricalGroupFallback(t *testing.T) {
	q := catalog.QuestionDescriptor{
		ID:      "q6",
		Section: catalog.SectionLifestyle,
		Format:  catalog.FormatSingleChoice,
		Method:  catalog.MethodPreferenceMatch,
		Options: []catalog.OptionSpec{{Tag: "atheist"}, {Tag: "agnostic"}, {Tag: "catholic"}},
		SemanticGroups: map[core.OptionTag]string{
			"atheist":  "secular",
			"agnostic": "secular",
			"catholic": "christian",
		},
	}
	k := New(match.DefaultConfig())

	a := record(response.SingleChoice("atheist"), pref(response.PrefSimilar))
	sameGroup := record(response.SingleChoice("agnostic"), nil)
	otherGroup := record(response.SingleChoice("catholic"), nil)

	if got := k.Score(q, a, sameGroup); !almostEqual(got, 0.7) {
		t.Errorf("shared group similarity = %.4f, expected 0.7", got)
	}
	if got := k.Score(q, a, otherGroup); !almostEqual(got, 0.0) {
		t.Errorf("disjoint group similarity = %.4f, expected 0.0", got)
	}
}

// TestSpecificValuesPreference verifies explicit acceptable-value lists
func TestSpecificValuesPreference(t *testing.T) {
	q := catalog.QuestionDescriptor{
		ID:      "q8",
		Section: catalog.SectionLifestyle,
		Format:  catalog.FormatSingleChoice,
		Method:  catalog.MethodPreferenceMatch,
		Options: []catalog.OptionSpec{{Tag: "never"}, {Tag: "socially"}, {Tag: "frequently"}},
	}
	k := New(match.DefaultConfig())

	a := record(response.SingleChoice("never"), &response.Preference{
		Kind:   response.PrefSpecificValues,
		Values: []core.OptionTag{"never"},
	})

	accepted := record(response.SingleChoice("never"), nil)
	rejected := record(response.SingleChoice("frequently"), nil)

	if got := k.Score(q, a, accepted); got != 1.0 {
		t.Errorf("accepted value similarity = %.4f, expected 1.0", got)
	}
	if got := k.Score(q, a, rejected); got != 0.0 {
		t.Errorf("rejected value similarity = %.4f, expected 0.0", got)
	}
}

// TestSleepFlexibilityBonus verifies the wildcard bonus on a disjoint
// answer and the plain score of a full match
func TestSleepFlexibilityBonus(t *testing.T) {
	q := catalog.QuestionDescriptor{
		ID:          "q12",
		Section:     catalog.SectionLifestyle,
		Format:      catalog.FormatSingleChoice,
		Method:      catalog.MethodPreferenceMatch,
		Options:     []catalog.OptionSpec{{Tag: "early_bird"}, {Tag: "night_owl"}, {Tag: "flexible"}},
		WildcardTag: "flexible",
	}
	cfg := match.DefaultConfig()
	cfg.SleepFlexibilityBonus = 0.3
	k := New(cfg)

	a := record(response.SingleChoice("early_bird"), pref(response.PrefSimilar))
	flexible := record(response.SingleChoice("flexible"), nil)
	matching := record(response.SingleChoice("early_bird"), nil)

	// Disjoint tags with no groups score 0; the wildcard lifts it by the bonus
	if got := k.Score(q, a, flexible); !almostEqual(got, 0.3) {
		t.Errorf("wildcard similarity = %.4f, expected 0.3", got)
	}
	// A full match without the wildcard scores 1.0
	if got := k.Score(q, a, matching); got != 1.0 {
		t.Errorf("capped similarity = %.4f, expected 1.0", got)
	}
}

// TestMultiSelectProportionalOverlap pins the mutual-overlap arithmetic:
// two of B's picks inside A's five gives (1.0 + 0.4) / 2
func TestMultiSelectProportionalOverlap(t *testing.T) {
	q := catalog.QuestionDescriptor{
		ID:      "q32",
		Section: catalog.SectionPersonality,
		Format:  catalog.FormatMultiChoice,
		Method:  catalog.MethodMultiSelect,
	}
	k := New(match.DefaultConfig())

	a := record(response.MultiChoice("art", "hiking", "cooking", "music", "travel"), pref(response.PrefSimilar))
	b := record(response.MultiChoice("art", "hiking"), pref(response.PrefSimilar))

	if got := k.Score(q, a, b); !almostEqual(got, 0.7) {
		t.Errorf("similarity = %.4f, expected 0.7", got)
	}
}

// TestMultiSelectSameRequiresEquality verifies strict set equality for "same"
func TestMultiSelectSameRequiresEquality(t *testing.T) {
	q := catalog.QuestionDescriptor{
		ID:      "q32",
		Section: catalog.SectionPersonality,
		Format:  catalog.FormatMultiChoice,
		Method:  catalog.MethodMultiSelect,
	}
	k := New(match.DefaultConfig())

	a := record(response.MultiChoice("art", "hiking"), pref(response.PrefSame))
	equal := record(response.MultiChoice("hiking", "art"), nil)
	superset := record(response.MultiChoice("art", "hiking", "music"), nil)

	if got := k.Score(q, a, equal); got != 1.0 {
		t.Errorf("equal sets = %.4f, expected 1.0", got)
	}
	if got := k.Score(q, a, superset); got != 0.0 {
		t.Errorf("superset = %.4f, expected 0.0", got)
	}
}

// TestRangeOverlapFalloff verifies membership and the linear falloff
func TestRangeOverlapFalloff(t *testing.T) {
	q := catalog.QuestionDescriptor{
		ID:      "q_age",
		Section: catalog.SectionLifestyle,
		Format:  catalog.FormatNumeric,
		Method:  catalog.MethodRangeOverlap,
	}
	k := New(match.DefaultConfig())

	a := record(response.Numeric(30), &response.Preference{
		Kind:  response.PrefRange,
		Range: &response.AgeRange{Min: 25, Max: 35},
	})

	inside := record(response.Numeric(28), nil)
	if got := k.Score(q, a, inside); got != 1.0 {
		t.Errorf("inside range = %.4f, expected 1.0", got)
	}

	// One year outside a width-10 range: 1 - 1/5 = 0.8
	outside := record(response.Numeric(36), nil)
	if got := k.Score(q, a, outside); !almostEqual(got, 0.8) {
		t.Errorf("one outside = %.4f, expected 0.8", got)
	}

	// Far outside floors at 0
	far := record(response.Numeric(60), nil)
	if got := k.Score(q, a, far); got != 0.0 {
		t.Errorf("far outside = %.4f, expected 0.0", got)
	}
}

// TestConflictMatrixLookup verifies direct asymmetric table lookup
func TestConflictMatrixLookup(t *testing.T) {
	q := catalog.QuestionDescriptor{
		ID:      "q_conflict",
		Section: catalog.SectionPersonality,
		Format:  catalog.FormatSingleChoice,
		Method:  catalog.MethodCompatMatrix,
	}
	cfg := match.DefaultConfig()
	cfg.ConflictMatrix = map[core.OptionTag]map[core.OptionTag]float64{
		"direct":   {"direct": 0.9, "avoidant": 0.2},
		"avoidant": {"direct": 0.5, "avoidant": 0.8},
	}
	k := New(cfg)

	a := record(response.SingleChoice("direct"), pref(response.PrefCompatible))
	b := record(response.SingleChoice("avoidant"), pref(response.PrefCompatible))

	if got := k.Score(q, a, b); !almostEqual(got, 0.2) {
		t.Errorf("matrix[direct][avoidant] = %.4f, expected 0.2", got)
	}
	// The table is not required to be symmetric
	if got := k.Score(q, b, a); !almostEqual(got, 0.5) {
		t.Errorf("matrix[avoidant][direct] = %.4f, expected 0.5", got)
	}
}

// TestLoveLanguageBidirectional verifies the weighted show/receive overlap
func TestLoveLanguageBidirectional(t *testing.T) {
	q := catalog.QuestionDescriptor{
		ID:           "q_love",
		Section:      catalog.SectionPersonality,
		Format:       catalog.FormatCompound,
		Method:       catalog.MethodLoveLanguage,
		CompoundKeys: []string{SubShow, SubReceive},
	}
	k := New(match.DefaultConfig())

	a := record(response.Compound(map[string][]core.OptionTag{
		SubShow:    {"acts", "gifts"},
		SubReceive: {"words", "time"},
	}), nil)
	b := record(response.Compound(map[string][]core.OptionTag{
		SubShow:    {"words", "acts"},
		SubReceive: {"acts", "touch"},
	}), nil)

	// o1 = |{words,time} ∩ {words,acts}| / 2 = 0.5
	// o2 = |{acts,touch} ∩ {acts,gifts}| / 2 = 0.5
	if got := k.Score(q, a, b); !almostEqual(got, 0.5) {
		t.Errorf("love language similarity = %.4f, expected 0.5", got)
	}
}

// TestLoveLanguageEmptySetPolicy verifies the empty-set short circuit
func TestLoveLanguageEmptySetPolicy(t *testing.T) {
	q := catalog.QuestionDescriptor{
		ID:      "q_love",
		Section: catalog.SectionPersonality,
		Format:  catalog.FormatCompound,
		Method:  catalog.MethodLoveLanguage,
	}
	k := New(match.DefaultConfig())

	a := record(response.Compound(map[string][]core.OptionTag{
		SubShow:    {"acts"},
		SubReceive: {},
	}), nil)
	b := record(response.Compound(map[string][]core.OptionTag{
		SubShow:    {"words"},
		SubReceive: {"acts"},
	}), nil)

	if got := k.Score(q, a, b); got != 1.0 {
		t.Errorf("empty receive set should score 1.0, got %.4f", got)
	}
}

// TestMissingPartnerAnswer verifies the configured neutral contribution
func TestMissingPartnerAnswer(t *testing.T) {
	cfg := match.DefaultConfig()
	cfg.PreferNotAnswerSimilarity = 0.4
	k := New(cfg)
	q := catalog.QuestionDescriptor{
		ID:      "q9",
		Section: catalog.SectionLifestyle,
		Format:  catalog.FormatSingleChoice,
		Method:  catalog.MethodPreferenceMatch,
	}

	a := record(response.SingleChoice("tea"), pref(response.PrefSame))
	missing := record(response.Answer{Kind: response.KindSingleChoice}, nil)

	if got := k.Score(q, a, missing); !almostEqual(got, 0.4) {
		t.Errorf("missing answer contribution = %.4f, expected 0.4", got)
	}
}

// TestFlexibleTagAlwaysSatisfies verifies "whatever feels natural" tags
func TestFlexibleTagAlwaysSatisfies(t *testing.T) {
	q := catalog.QuestionDescriptor{
		ID:           "q14",
		Section:      catalog.SectionLifestyle,
		Format:       catalog.FormatSingleChoice,
		Method:       catalog.MethodPreferenceMatch,
		FlexibleTags: []core.OptionTag{"whatever_feels_natural"},
	}
	k := New(match.DefaultConfig())

	a := record(response.SingleChoice("planner"), pref(response.PrefSame))
	b := record(response.SingleChoice("whatever_feels_natural"), nil)

	if got := k.Score(q, a, b); got != 1.0 {
		t.Errorf("flexible tag similarity = %.4f, expected 1.0", got)
	}
}

// TestScoreBounds fuzzes the kernel across preference kinds and verifies
// every similarity stays within [0, 1]
func TestScoreBounds(t *testing.T) {
	k := New(match.DefaultConfig())
	q := likertQuestion("q7")

	kinds := []response.PreferenceKind{
		response.PrefSame, response.PrefSimilar, response.PrefDifferent,
		response.PrefMore, response.PrefLess,
	}
	for _, kind := range kinds {
		for av := 1; av <= 5; av++ {
			for bv := 1; bv <= 5; bv++ {
				a := record(response.Likert(av), pref(kind))
				b := record(response.Likert(bv), nil)
				got := k.Score(q, a, b)
				if got < 0 || got > 1 {
					t.Fatalf("kind=%s a=%d b=%d: similarity %.4f outside [0,1]", kind, av, bv, got)
				}
			}
		}
	}
}
