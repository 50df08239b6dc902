package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"gomatch/domain/catalog"
	"gomatch/domain/core"
	"gomatch/internal/errors"
)

// catalogDocument is the TOML shape of a question catalog file
type catalogDocument struct {
	Questions []questionDocument `toml:"question"`
}

type questionDocument struct {
	ID               string            `toml:"id"`
	Section          string            `toml:"section"`
	Format           string            `toml:"answer_format"`
	Method           string            `toml:"scoring_method"`
	Role             string            `toml:"role"`
	Required         bool              `toml:"required"`
	HardFilter       bool              `toml:"hard_filter"`
	Options          []optionDocument  `toml:"options"`
	LinkedQuestionID string            `toml:"linked_question_id"`
	SemanticGroups   map[string]string `toml:"semantic_group_map"`
	FlexibleTags     []string          `toml:"flexible_tags"`
	WildcardTag      string            `toml:"wildcard_tag"`
	ScaleMin         int               `toml:"scale_min"`
	ScaleMax         int               `toml:"scale_max"`
	RankLength       int               `toml:"rank_length"`
	MaxSelections    int               `toml:"max_selections"`
	NumericMin       int               `toml:"numeric_min"`
	NumericMax       int               `toml:"numeric_max"`
	CompoundKeys     []string          `toml:"compound_keys"`
	MaxPerKey        int               `toml:"max_per_compound_key"`
}

type optionDocument struct {
	Tag          string `toml:"tag"`
	HasTextInput bool   `toml:"has_text_input"`
}

// LoadCatalog reads a TOML question catalog
func LoadCatalog(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.SourceUnreadable(path, err)
	}
	var doc catalogDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse question catalog")
	}

	descriptors := make([]catalog.QuestionDescriptor, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		desc := catalog.QuestionDescriptor{
			ID:                core.QuestionID(q.ID),
			Section:           catalog.Section(q.Section),
			Format:            catalog.AnswerFormat(q.Format),
			Method:            catalog.ScoringMethod(q.Method),
			Role:              catalog.QuestionRole(q.Role),
			Required:          q.Required,
			HardFilter:        q.HardFilter,
			LinkedQuestionID:  core.QuestionID(q.LinkedQuestionID),
			WildcardTag:       core.OptionTag(q.WildcardTag),
			ScaleMin:          q.ScaleMin,
			ScaleMax:          q.ScaleMax,
			RankLength:        q.RankLength,
			MaxSelections:     q.MaxSelections,
			NumericMin:        q.NumericMin,
			NumericMax:        q.NumericMax,
			CompoundKeys:      q.CompoundKeys,
			MaxPerCompoundKey: q.MaxPerKey,
		}
		for _, opt := range q.Options {
			desc.Options = append(desc.Options, catalog.OptionSpec{
				Tag:          core.OptionTag(opt.Tag),
				HasTextInput: opt.HasTextInput,
			})
		}
		if len(q.SemanticGroups) > 0 {
			desc.SemanticGroups = make(map[core.OptionTag]string, len(q.SemanticGroups))
			for tag, group := range q.SemanticGroups {
				desc.SemanticGroups[core.OptionTag(tag)] = group
			}
		}
		for _, tag := range q.FlexibleTags {
			desc.FlexibleTags = append(desc.FlexibleTags, core.OptionTag(tag))
		}
		descriptors = append(descriptors, desc)
	}

	return catalog.NewCatalog(descriptors)
}
