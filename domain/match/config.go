package match

import (
	"time"

	"gomatch/domain/catalog"
	"gomatch/domain/core"
	"gomatch/domain/response"
)

// LoveLanguageWeights splits the bidirectional love-language score
type LoveLanguageWeights struct {
	Show    float64 `json:"show" toml:"show"`
	Receive float64 `json:"receive" toml:"receive"`
}

// Config collects every numeric knob of a matching run. It is passed
// explicitly to every phase; no phase holds process-wide state.
type Config struct {
	SectionWeights    map[catalog.Section]float64     `json:"section_weights" toml:"section_weights"`
	ImportanceWeights map[response.Importance]float64 `json:"importance_weights" toml:"importance_weights"`

	// MutualityAlpha weights the lesser directional score in the
	// symmetric combiner; must sit in (0.5, 1.0]
	MutualityAlpha float64 `json:"mutuality_alpha" toml:"mutuality_alpha"`

	// RelativeThresholdBeta gates pairs against each user's personal
	// best directional score; must sit in (0, 1]
	RelativeThresholdBeta float64 `json:"relative_threshold_beta" toml:"relative_threshold_beta"`

	// AbsoluteThresholdMin is the minimum pair score in [0, 100]
	AbsoluteThresholdMin float64 `json:"absolute_threshold_min" toml:"absolute_threshold_min"`

	LoveLanguageWeights LoveLanguageWeights `json:"love_language_weights" toml:"love_language_weights"`

	// ConflictMatrix maps A's option x B's option to a value in [0, 1].
	// Not required to be symmetric.
	ConflictMatrix map[core.OptionTag]map[core.OptionTag]float64 `json:"conflict_compatibility_matrix" toml:"conflict_compatibility_matrix"`

	// SleepFlexibilityBonus is added to the raw similarity when one side
	// answers the wildcard "flexible", capped at 1.0
	SleepFlexibilityBonus float64 `json:"sleep_flexibility_bonus" toml:"sleep_flexibility_bonus"`

	// PreferNotAnswerSimilarity is the contribution when the partner's
	// optional answer is absent
	PreferNotAnswerSimilarity float64 `json:"prefer_not_answer_similarity" toml:"prefer_not_answer_similarity"`

	// MatcherBudget bounds the wall clock of the global matcher;
	// zero means unbounded
	MatcherBudget time.Duration `json:"matcher_budget" toml:"matcher_budget"`

	// ScoringWorkers bounds the concurrent pair-scoring goroutines;
	// zero selects a serial sweep
	ScoringWorkers int `json:"scoring_workers" toml:"scoring_workers"`
}

// DefaultConfig returns the documented default configuration
func DefaultConfig() Config {
	return Config{
		SectionWeights: map[catalog.Section]float64{
			catalog.SectionLifestyle:   0.65,
			catalog.SectionPersonality: 0.35,
		},
		ImportanceWeights: map[response.Importance]float64{
			response.NotImportant:      0,
			response.SomewhatImportant: 0.5,
			response.Important:         1.0,
			response.VeryImportant:     2.0,
		},
		MutualityAlpha:            0.65,
		RelativeThresholdBeta:     0.6,
		AbsoluteThresholdMin:      50,
		LoveLanguageWeights:       LoveLanguageWeights{Show: 0.5, Receive: 0.5},
		SleepFlexibilityBonus:     0.3,
		PreferNotAnswerSimilarity: 0.5,
	}
}

// Validate checks every knob against its admissible range. A failure is
// fatal: the run does not start.
func (c Config) Validate() error {
	if c.MutualityAlpha <= 0.5 || c.MutualityAlpha > 1.0 {
		return core.NewInvalidConfigError("mutuality_alpha", "must be in (0.5, 1.0]")
	}
	if c.RelativeThresholdBeta <= 0 || c.RelativeThresholdBeta > 1.0 {
		return core.NewInvalidConfigError("relative_threshold_beta", "must be in (0, 1]")
	}
	if c.AbsoluteThresholdMin < 0 || c.AbsoluteThresholdMin > 100 {
		return core.NewInvalidConfigError("absolute_threshold_min", "must be in [0, 100]")
	}
	if len(c.SectionWeights) == 0 {
		return core.NewInvalidConfigError("section_weights", "must not be empty")
	}
	for section, w := range c.SectionWeights {
		if w < 0 {
			return core.NewInvalidConfigError("section_weights", "weight for "+string(section)+" is negative")
		}
	}
	if len(c.ImportanceWeights) == 0 {
		return core.NewInvalidConfigError("importance_weights", "must not be empty")
	}
	for imp, w := range c.ImportanceWeights {
		if w < 0 {
			return core.NewInvalidConfigError("importance_weights", "weight for "+string(imp)+" is negative")
		}
	}
	if c.LoveLanguageWeights.Show < 0 || c.LoveLanguageWeights.Receive < 0 {
		return core.NewInvalidConfigError("love_language_weights", "weights must be non-negative")
	}
	for from, row := range c.ConflictMatrix {
		for to, v := range row {
			if v < 0 || v > 1 {
				return core.NewInvalidConfigError("conflict_compatibility_matrix",
					"entry ["+string(from)+"]["+string(to)+"] outside [0, 1]")
			}
		}
	}
	if c.SleepFlexibilityBonus < 0 || c.SleepFlexibilityBonus > 1 {
		return core.NewInvalidConfigError("sleep_flexibility_bonus", "must be in [0, 1]")
	}
	if c.PreferNotAnswerSimilarity < 0 || c.PreferNotAnswerSimilarity > 1 {
		return core.NewInvalidConfigError("prefer_not_answer_similarity", "must be in [0, 1]")
	}
	if c.MatcherBudget < 0 {
		return core.NewInvalidConfigError("matcher_budget", "must not be negative")
	}
	if c.ScoringWorkers < 0 {
		return core.NewInvalidConfigError("scoring_workers", "must not be negative")
	}
	return nil
}

// ImportanceWeight maps an importance label to its numeric weight
func (c Config) ImportanceWeight(imp response.Importance) float64 {
	return c.ImportanceWeights[imp]
}

// Snapshot flattens the configuration for diagnostics and fingerprints
func (c Config) Snapshot() map[string]interface{} {
	sections := make(map[string]float64, len(c.SectionWeights))
	for s, w := range c.SectionWeights {
		sections[string(s)] = w
	}
	importances := make(map[string]float64, len(c.ImportanceWeights))
	for i, w := range c.ImportanceWeights {
		importances[string(i)] = w
	}
	return map[string]interface{}{
		"section_weights":              sections,
		"importance_weights":           importances,
		"mutuality_alpha":              c.MutualityAlpha,
		"relative_threshold_beta":      c.RelativeThresholdBeta,
		"absolute_threshold_min":       c.AbsoluteThresholdMin,
		"love_language_weights":        map[string]float64{"SHOW": c.LoveLanguageWeights.Show, "RECEIVE": c.LoveLanguageWeights.Receive},
		"sleep_flexibility_bonus":      c.SleepFlexibilityBonus,
		"prefer_not_answer_similarity": c.PreferNotAnswerSimilarity,
		"matcher_budget":               c.MatcherBudget.String(),
		"scoring_workers":              c.ScoringWorkers,
	}
}
