package catalog

import (
	"fmt"
	"sort"

	"gomatch/domain/core"
)

// Section groups questions for weighted aggregation
type Section string

const (
	SectionLifestyle   Section = "LIFESTYLE"
	SectionPersonality Section = "PERSONALITY"
)

// AnswerFormat describes the shape of an answer (closed set)
type AnswerFormat string

const (
	FormatSingleChoice AnswerFormat = "single_choice"
	FormatMultiChoice  AnswerFormat = "multi_choice"
	FormatRanking      AnswerFormat = "ranking"
	FormatLikert       AnswerFormat = "likert"
	FormatNumeric      AnswerFormat = "numeric"
	FormatAgeRange     AnswerFormat = "age_range"
	FormatFreeText     AnswerFormat = "free_text"
	FormatCompound     AnswerFormat = "compound"
)

// ScoringMethod selects the similarity computation for a question
type ScoringMethod string

const (
	MethodSimilarity      ScoringMethod = "similarity"
	MethodPreferenceMatch ScoringMethod = "preference_match"
	MethodRangeOverlap    ScoringMethod = "range_overlap"
	MethodCompatMatrix    ScoringMethod = "compatibility_matrix"
	MethodLoveLanguage    ScoringMethod = "bidirectional_love_language"
	MethodMultiSelect     ScoringMethod = "multi_select_overlap"
	MethodAISentiment     ScoringMethod = "ai_sentiment"
)

// QuestionRole marks questions the hard filter reads directly.
// The catalog is the sole authority on which question serves which role.
type QuestionRole string

const (
	RoleNone           QuestionRole = ""
	RoleGenderIdentity QuestionRole = "gender_identity"
	RoleGenderInterest QuestionRole = "gender_interest"
	RoleAge            QuestionRole = "age"
	RoleAgePreference  QuestionRole = "age_preference"
)

// WildcardAnyone is the gender-interest option that accepts every identity
const WildcardAnyone core.OptionTag = "anyone"

// OptionSpec describes a single enumerated option
type OptionSpec struct {
	Tag          core.OptionTag `json:"tag"`
	HasTextInput bool           `json:"has_text_input,omitempty"`
}

// QuestionDescriptor is the static description of one question
type QuestionDescriptor struct {
	ID       core.QuestionID `json:"id"`
	Section  Section         `json:"section"`
	Format   AnswerFormat    `json:"answer_format"`
	Method   ScoringMethod   `json:"scoring_method"`
	Role     QuestionRole    `json:"role,omitempty"`
	Required bool            `json:"required,omitempty"`

	// HardFilter questions feed the hard filter, not the scored set
	HardFilter bool `json:"hard_filter,omitempty"`

	Options []OptionSpec `json:"options,omitempty"`

	// LinkedQuestionID pairs a preference-match question with its counterpart
	LinkedQuestionID core.QuestionID `json:"linked_question_id,omitempty"`

	// SemanticGroups maps option tags to a semantic cluster id
	SemanticGroups map[core.OptionTag]string `json:"semantic_group_map,omitempty"`

	// FlexibleTags always score 1.0 regardless of the partner's answer
	FlexibleTags []core.OptionTag `json:"flexible_tags,omitempty"`

	// WildcardTag is the answer that triggers the flexibility bonus (e.g. sleep "flexible")
	WildcardTag core.OptionTag `json:"wildcard_tag,omitempty"`

	// Likert bounds (inclusive); valid when Format == FormatLikert
	ScaleMin int `json:"scale_min,omitempty"`
	ScaleMax int `json:"scale_max,omitempty"`

	// RankLength is the required length of a ranking answer
	RankLength int `json:"rank_length,omitempty"`

	// MaxSelections caps multi-choice answers (0 = uncapped)
	MaxSelections int `json:"max_selections,omitempty"`

	// Numeric bounds for numeric and age-range answers
	NumericMin int `json:"numeric_min,omitempty"`
	NumericMax int `json:"numeric_max,omitempty"`

	// CompoundKeys names the expected sub-answers of a compound question
	CompoundKeys []string `json:"compound_keys,omitempty"`

	// MaxPerCompoundKey caps selections per compound sub-answer (0 = uncapped)
	MaxPerCompoundKey int `json:"max_per_compound_key,omitempty"`
}

// HasOption reports whether tag is a member of the option set
func (q QuestionDescriptor) HasOption(tag core.OptionTag) bool {
	for _, opt := range q.Options {
		if opt.Tag == tag {
			return true
		}
	}
	return false
}

// IsFlexibleTag reports whether tag short-circuits scoring to 1.0
func (q QuestionDescriptor) IsFlexibleTag(tag core.OptionTag) bool {
	for _, t := range q.FlexibleTags {
		if t == tag {
			return true
		}
	}
	return false
}

// SemanticGroup returns the cluster id for a tag, or the tag itself
// when no mapping exists
func (q QuestionDescriptor) SemanticGroup(tag core.OptionTag) string {
	if group, ok := q.SemanticGroups[tag]; ok {
		return group
	}
	return string(tag)
}

// ScaleRange returns the width of the Likert range
func (q QuestionDescriptor) ScaleRange() int {
	return q.ScaleMax - q.ScaleMin
}

// Catalog holds every question descriptor, read-only after construction
type Catalog struct {
	questions map[core.QuestionID]QuestionDescriptor
	order     []core.QuestionID
}

// NewCatalog builds a catalog from descriptors and validates basic shape
func NewCatalog(descriptors []QuestionDescriptor) (*Catalog, error) {
	questions := make(map[core.QuestionID]QuestionDescriptor, len(descriptors))
	order := make([]core.QuestionID, 0, len(descriptors))

	for _, desc := range descriptors {
		if desc.ID.String() == "" {
			return nil, fmt.Errorf("question descriptor with empty id")
		}
		if _, exists := questions[desc.ID]; exists {
			return nil, fmt.Errorf("duplicate question id %s", desc.ID)
		}
		if desc.Section != SectionLifestyle && desc.Section != SectionPersonality {
			return nil, fmt.Errorf("question %s: unknown section %q", desc.ID, desc.Section)
		}
		if desc.Format == FormatLikert && desc.ScaleMax <= desc.ScaleMin {
			return nil, fmt.Errorf("question %s: likert range [%d..%d] is empty", desc.ID, desc.ScaleMin, desc.ScaleMax)
		}
		if desc.Format == FormatRanking && desc.RankLength <= 0 {
			return nil, fmt.Errorf("question %s: ranking requires a positive rank_length", desc.ID)
		}
		questions[desc.ID] = desc
		order = append(order, desc.ID)
	}

	// Ascending id order fixes the summation order for deterministic reruns
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	return &Catalog{questions: questions, order: order}, nil
}

// Question looks up a descriptor by id
func (c *Catalog) Question(id core.QuestionID) (QuestionDescriptor, bool) {
	desc, ok := c.questions[id]
	return desc, ok
}

// QuestionIDs returns every question id in ascending order
func (c *Catalog) QuestionIDs() []core.QuestionID {
	return c.order
}

// Len returns the number of questions
func (c *Catalog) Len() int {
	return len(c.questions)
}

// RequiredQuestionIDs returns ids of questions every respondent must answer
func (c *Catalog) RequiredQuestionIDs() []core.QuestionID {
	required := make([]core.QuestionID, 0)
	for _, id := range c.order {
		if c.questions[id].Required {
			required = append(required, id)
		}
	}
	return required
}

// ScoredQuestionIDs returns ids contributing to the directional score:
// non-hard-filter questions whose method produces a similarity
func (c *Catalog) ScoredQuestionIDs() []core.QuestionID {
	scored := make([]core.QuestionID, 0, len(c.order))
	for _, id := range c.order {
		desc := c.questions[id]
		if desc.HardFilter {
			continue
		}
		if desc.Method == MethodAISentiment || desc.Format == FormatFreeText {
			continue
		}
		scored = append(scored, id)
	}
	return scored
}

// RoleQuestion finds the question serving a hard-filter role
func (c *Catalog) RoleQuestion(role QuestionRole) (QuestionDescriptor, bool) {
	for _, id := range c.order {
		if c.questions[id].Role == role {
			return c.questions[id], true
		}
	}
	return QuestionDescriptor{}, false
}
