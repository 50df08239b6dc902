package engine

import (
	"gomatch/domain/match"
)

// PairCombiner symmetrizes two directional scores with a mutuality
// penalty: the lesser score carries weight alpha
type PairCombiner struct {
	alpha float64
}

// NewPairCombiner creates a combiner from the configured mutuality alpha
func NewPairCombiner(cfg match.Config) *PairCombiner {
	return &PairCombiner{alpha: cfg.MutualityAlpha}
}

// Combine returns alpha*min + (1-alpha)*max
func (c *PairCombiner) Combine(sAB, sBA float64) float64 {
	lo, hi := sAB, sBA
	if lo > hi {
		lo, hi = hi, lo
	}
	return c.alpha*lo + (1-c.alpha)*hi
}
