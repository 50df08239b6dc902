package matching

import (
	"context"
	"sort"
	"time"

	"gomatch/adapters/matching/blossom"
	"gomatch/adapters/scoring/engine"
	"gomatch/domain/core"
	"gomatch/domain/match"
)

// GlobalMatcher assigns disjoint pairs of maximum total weight over the
// eligible-pair graph
type GlobalMatcher struct {
	budget time.Duration
}

// NewGlobalMatcher creates a matcher with the given wall-clock budget;
// zero means unbounded
func NewGlobalMatcher(budget time.Duration) *GlobalMatcher {
	return &GlobalMatcher{budget: budget}
}

// Assignment is the matcher's output
type Assignment struct {
	Matches   []match.Match
	Unmatched []match.UnmatchedUser
}

// Match runs maximum-weight matching over the eligible pairs and
// classifies every user left without a partner
func (m *GlobalMatcher) Match(ctx context.Context, users []core.UserID, elig *engine.EligibilityResult) (*Assignment, error) {
	// Deterministic vertex order: ascending user id
	sorted := make([]core.UserID, len(users))
	copy(sorted, users)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	index := make(map[core.UserID]int, len(sorted))
	for i, id := range sorted {
		index[id] = i
	}

	// Deterministic edge order: ascending canonical pair key
	pairs := make([]match.ScoredPair, len(elig.Eligible))
	copy(pairs, elig.Eligible)
	sort.Slice(pairs, func(i, j int) bool {
		ki, kj := pairs[i].Key(), pairs[j].Key()
		if ki.Lo != kj.Lo {
			return ki.Lo < kj.Lo
		}
		return ki.Hi < kj.Hi
	})

	edges := make([]blossom.Edge, 0, len(pairs))
	byKey := make(map[match.PairKey]match.ScoredPair, len(pairs))
	for _, p := range pairs {
		edges = append(edges, blossom.Edge{
			I:      index[p.UserA],
			J:      index[p.UserB],
			Weight: p.PairScore,
		})
		byKey[p.Key()] = p
	}

	mate, err := m.runWithBudget(ctx, len(sorted), edges)
	if err != nil {
		return nil, err
	}

	assignment := &Assignment{
		Matches:   make([]match.Match, 0, len(sorted)/2),
		Unmatched: make([]match.UnmatchedUser, 0),
	}

	matched := make(map[core.UserID]bool, len(sorted))
	for i, id := range sorted {
		j := mate[i]
		if j <= i {
			continue
		}
		key := match.NewPairKey(id, sorted[j])
		pair, ok := byKey[key]
		if !ok {
			return nil, core.ErrMatcherFailed
		}
		aToB, bToA := pair.ScoreAToB, pair.ScoreBToA
		if key.Lo != pair.UserA {
			aToB, bToA = bToA, aToB
		}
		assignment.Matches = append(assignment.Matches, match.Match{
			UserAID:   key.Lo,
			UserBID:   key.Hi,
			PairScore: pair.PairScore,
			ScoreAToB: aToB,
			ScoreBToA: bToA,
		})
		matched[pair.UserA] = true
		matched[pair.UserB] = true
	}

	if v := match.ValidateMatching(assignment.Matches); !v.OK {
		return nil, core.ErrMatcherFailed
	}

	for _, id := range sorted {
		if matched[id] {
			continue
		}
		assignment.Unmatched = append(assignment.Unmatched, m.classify(id, pairs, elig))
	}
	return assignment, nil
}

// runWithBudget executes the blossom solver, failing the run when it
// exceeds the wall-clock allowance rather than returning a partial
// assignment
func (m *GlobalMatcher) runWithBudget(ctx context.Context, n int, edges []blossom.Edge) ([]int, error) {
	if m.budget <= 0 {
		return blossom.MaxWeightMatching(n, edges, false), nil
	}

	type result struct{ mate []int }
	ch := make(chan result, 1)
	go func() {
		ch <- result{blossom.MaxWeightMatching(n, edges, false)}
	}()

	timer := time.NewTimer(m.budget)
	defer timer.Stop()

	select {
	case r := <-ch:
		return r.mate, nil
	case <-timer.C:
		return nil, core.ErrTimeBudgetExceeded
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// classify determines why a user stayed unmatched. Users with eligible
// pairs lost their candidates to other matches; the rest either scored
// below the absolute threshold everywhere (perfectionists) or never had
// an eligible pair at all.
func (m *GlobalMatcher) classify(id core.UserID, eligible []match.ScoredPair, elig *engine.EligibilityResult) match.UnmatchedUser {
	var bestScore float64
	var bestCandidate core.UserID
	found := false
	for _, p := range eligible {
		var out float64
		var partner core.UserID
		switch id {
		case p.UserA:
			out, partner = p.ScoreAToB, p.UserB
		case p.UserB:
			out, partner = p.ScoreBToA, p.UserA
		default:
			continue
		}
		if !found || out > bestScore || (out == bestScore && partner < bestCandidate) {
			bestScore, bestCandidate, found = out, partner, true
		}
	}
	if found {
		score := bestScore
		candidate := bestCandidate
		return match.UnmatchedUser{
			UserID:            id,
			Reason:            match.ReasonBestCandidateMatched,
			BestPossibleScore: &score,
			BestPossibleMatch: &candidate,
		}
	}

	for _, p := range elig.Perfectionists {
		if p == id {
			return match.UnmatchedUser{UserID: id, Reason: match.ReasonPerfectionist}
		}
	}
	return match.UnmatchedUser{UserID: id, Reason: match.ReasonNoEligiblePairs}
}
