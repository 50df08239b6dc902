package engine

import (
	"sort"

	"gomatch/domain/core"
	"gomatch/domain/match"
)

// EligibilityFilter applies the absolute and relative thresholds to the
// scored pairs
type EligibilityFilter struct {
	cfg match.Config
}

// NewEligibilityFilter creates an eligibility filter
func NewEligibilityFilter(cfg match.Config) *EligibilityFilter {
	return &EligibilityFilter{cfg: cfg}
}

// EligibilityResult partitions the scored pairs and tracks per-user bests
type EligibilityResult struct {
	// Eligible pairs contribute edges to the matching graph
	Eligible []match.ScoredPair

	// BestDirectional maps each user to its best outgoing directional
	// score over hard-passing pairs, with the partner that produced it
	BestDirectional map[core.UserID]match.DirectionalScore

	// Perfectionists are users whose best directional score sits below
	// the absolute threshold
	Perfectionists []core.UserID
}

// Filter applies both thresholds. The relative threshold compares each
// direction against the holder's best directional score among pairs that
// already passed the absolute threshold.
func (f *EligibilityFilter) Filter(pairs []match.ScoredPair) *EligibilityResult {
	result := &EligibilityResult{
		Eligible:        make([]match.ScoredPair, 0, len(pairs)),
		BestDirectional: make(map[core.UserID]match.DirectionalScore),
	}

	record := func(from, to core.UserID, score float64) {
		best, ok := result.BestDirectional[from]
		if !ok || score > best.Score {
			result.BestDirectional[from] = match.DirectionalScore{From: from, To: to, Score: score}
		}
	}
	for _, p := range pairs {
		record(p.UserA, p.UserB, p.ScoreAToB)
		record(p.UserB, p.UserA, p.ScoreBToA)
	}

	// Personal bests for the relative threshold consider only pairs
	// surviving the absolute threshold
	bestOut := make(map[core.UserID]float64)
	for _, p := range pairs {
		if p.PairScore < f.cfg.AbsoluteThresholdMin {
			continue
		}
		if p.ScoreAToB > bestOut[p.UserA] {
			bestOut[p.UserA] = p.ScoreAToB
		}
		if p.ScoreBToA > bestOut[p.UserB] {
			bestOut[p.UserB] = p.ScoreBToA
		}
	}

	beta := f.cfg.RelativeThresholdBeta
	for _, p := range pairs {
		if p.PairScore < f.cfg.AbsoluteThresholdMin {
			continue
		}
		if p.ScoreAToB < beta*bestOut[p.UserA] {
			continue
		}
		if p.ScoreBToA < beta*bestOut[p.UserB] {
			continue
		}
		result.Eligible = append(result.Eligible, p)
	}

	for user, best := range result.BestDirectional {
		if best.Score < f.cfg.AbsoluteThresholdMin {
			result.Perfectionists = append(result.Perfectionists, user)
		}
	}
	sort.Slice(result.Perfectionists, func(i, j int) bool {
		return result.Perfectionists[i] < result.Perfectionists[j]
	})

	return result
}
