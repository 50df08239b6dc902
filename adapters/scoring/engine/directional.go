package engine

import (
	"gonum.org/v1/gonum/stat"

	"gomatch/adapters/scoring/kernel"
	"gomatch/domain/catalog"
	"gomatch/domain/match"
	"gomatch/domain/response"
)

// DirectionalScorer aggregates per-question similarities into the
// directional total a→b in [0, 100]
type DirectionalScorer struct {
	kernel *kernel.Kernel
	cat    *catalog.Catalog
	cfg    match.Config
}

// NewDirectionalScorer creates a directional scorer
func NewDirectionalScorer(k *kernel.Kernel, cat *catalog.Catalog, cfg match.Config) *DirectionalScorer {
	return &DirectionalScorer{kernel: k, cat: cat, cfg: cfg}
}

// sectionAccumulator gathers similarities and weights for one section
type sectionAccumulator struct {
	scores  []float64
	weights []float64
}

// Score computes the directional score a→b. Questions are visited in
// ascending id order so reruns on identical input are bit-identical.
func (s *DirectionalScorer) Score(a, b response.Respondent) float64 {
	sections := map[catalog.Section]*sectionAccumulator{
		catalog.SectionLifestyle:   {},
		catalog.SectionPersonality: {},
	}

	for _, qid := range s.cat.ScoredQuestionIDs() {
		aRec, ok := a.Record(qid)
		if !ok {
			continue
		}
		desc, _ := s.cat.Question(qid)

		var sim float64
		var weight float64
		if bRec, ok := b.Record(qid); ok {
			sim = s.kernel.Score(desc, aRec, bRec)
			weight = maxWeight(s.cfg, aRec.Importance, bRec.Importance)
		} else {
			sim = s.kernel.ScoreMissing(aRec)
			weight = s.cfg.ImportanceWeight(aRec.Importance)
		}

		acc := sections[desc.Section]
		if acc == nil {
			acc = &sectionAccumulator{}
			sections[desc.Section] = acc
		}
		acc.scores = append(acc.scores, sim)
		acc.weights = append(acc.weights, weight)
	}

	// Combine section means under the section weights, normalized so a
	// misconfigured weight sum cannot push the total outside [0, 100]
	var total, weightSum float64
	for _, section := range []catalog.Section{catalog.SectionLifestyle, catalog.SectionPersonality} {
		w := s.cfg.SectionWeights[section]
		if w <= 0 {
			continue
		}
		total += w * sectionScore(sections[section])
		weightSum += w
	}
	if weightSum == 0 {
		return 0
	}
	return 100 * total / weightSum
}

// sectionScore is the importance-weighted mean of a section's
// similarities. All-zero weights fall back to the unweighted mean; an
// empty section scores 0.
func sectionScore(acc *sectionAccumulator) float64 {
	if acc == nil || len(acc.scores) == 0 {
		return 0
	}
	for _, w := range acc.weights {
		if w > 0 {
			return stat.Mean(acc.scores, acc.weights)
		}
	}
	return stat.Mean(acc.scores, nil)
}

// maxWeight keeps either party's strong interest influential
func maxWeight(cfg match.Config, a, b response.Importance) float64 {
	wa := cfg.ImportanceWeight(a)
	wb := cfg.ImportanceWeight(b)
	if wa > wb {
		return wa
	}
	return wb
}
