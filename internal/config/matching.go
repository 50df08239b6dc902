package config

import (
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"gomatch/domain/catalog"
	"gomatch/domain/core"
	"gomatch/domain/match"
	"gomatch/domain/response"
	"gomatch/internal/errors"
)

// matchingDocument is the TOML shape of a matching configuration file.
// Absent fields keep their defaults.
type matchingDocument struct {
	SectionWeights            map[string]float64            `toml:"section_weights"`
	ImportanceWeights         map[string]float64            `toml:"importance_weights"`
	MutualityAlpha            *float64                      `toml:"mutuality_alpha"`
	RelativeThresholdBeta     *float64                      `toml:"relative_threshold_beta"`
	AbsoluteThresholdMin      *float64                      `toml:"absolute_threshold_min"`
	LoveLanguageWeights       map[string]float64            `toml:"love_language_weights"`
	ConflictMatrix            map[string]map[string]float64 `toml:"conflict_compatibility_matrix"`
	SleepFlexibilityBonus     *float64                      `toml:"sleep_flexibility_bonus"`
	PreferNotAnswerSimilarity *float64                      `toml:"prefer_not_answer_similarity"`
	MatcherBudgetSeconds      int                           `toml:"matcher_budget_seconds"`
	ScoringWorkers            int                           `toml:"scoring_workers"`
}

// LoadMatchingConfig reads a TOML matching configuration, applies
// defaults for absent knobs, and validates the result
func LoadMatchingConfig(path string) (match.Config, error) {
	cfg := match.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.SourceUnreadable(path, err)
	}
	var doc matchingDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return cfg, errors.Wrap(err, "failed to parse matching configuration")
	}

	if len(doc.SectionWeights) > 0 {
		cfg.SectionWeights = make(map[catalog.Section]float64, len(doc.SectionWeights))
		for k, v := range doc.SectionWeights {
			cfg.SectionWeights[catalog.Section(k)] = v
		}
	}
	if len(doc.ImportanceWeights) > 0 {
		cfg.ImportanceWeights = make(map[response.Importance]float64, len(doc.ImportanceWeights))
		for k, v := range doc.ImportanceWeights {
			cfg.ImportanceWeights[response.Importance(k)] = v
		}
	}
	if doc.MutualityAlpha != nil {
		cfg.MutualityAlpha = *doc.MutualityAlpha
	}
	if doc.RelativeThresholdBeta != nil {
		cfg.RelativeThresholdBeta = *doc.RelativeThresholdBeta
	}
	if doc.AbsoluteThresholdMin != nil {
		cfg.AbsoluteThresholdMin = *doc.AbsoluteThresholdMin
	}
	if v, ok := doc.LoveLanguageWeights["SHOW"]; ok {
		cfg.LoveLanguageWeights.Show = v
	}
	if v, ok := doc.LoveLanguageWeights["RECEIVE"]; ok {
		cfg.LoveLanguageWeights.Receive = v
	}
	if len(doc.ConflictMatrix) > 0 {
		cfg.ConflictMatrix = make(map[core.OptionTag]map[core.OptionTag]float64, len(doc.ConflictMatrix))
		for from, row := range doc.ConflictMatrix {
			converted := make(map[core.OptionTag]float64, len(row))
			for to, v := range row {
				converted[core.OptionTag(to)] = v
			}
			cfg.ConflictMatrix[core.OptionTag(from)] = converted
		}
	}
	if doc.SleepFlexibilityBonus != nil {
		cfg.SleepFlexibilityBonus = *doc.SleepFlexibilityBonus
	}
	if doc.PreferNotAnswerSimilarity != nil {
		cfg.PreferNotAnswerSimilarity = *doc.PreferNotAnswerSimilarity
	}
	if doc.MatcherBudgetSeconds > 0 {
		cfg.MatcherBudget = time.Duration(doc.MatcherBudgetSeconds) * time.Second
	}
	if doc.ScoringWorkers > 0 {
		cfg.ScoringWorkers = doc.ScoringWorkers
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
