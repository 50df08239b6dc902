package matching

import (
	"context"
	"testing"
	"time"

	"gomatch/adapters/scoring/engine"
	"gomatch/domain/core"
	"gomatch/domain/match"
)

func eligResult(pairs ...match.ScoredPair) *engine.EligibilityResult {
	result := &engine.EligibilityResult{
		Eligible:        pairs,
		BestDirectional: make(map[core.UserID]match.DirectionalScore),
	}
	for _, p := range pairs {
		record := func(from, to core.UserID, score float64) {
			if best, ok := result.BestDirectional[from]; !ok || score > best.Score {
				result.BestDirectional[from] = match.DirectionalScore{From: from, To: to, Score: score}
			}
		}
		record(p.UserA, p.UserB, p.ScoreAToB)
		record(p.UserB, p.UserA, p.ScoreBToA)
	}
	return result
}

func TestMatchSinglePair(t *testing.T) {
	m := NewGlobalMatcher(0)
	pair := match.ScoredPair{UserA: "a", UserB: "b", ScoreAToB: 90, ScoreBToA: 80, PairScore: 83.5}

	assignment, err := m.Match(context.Background(), []core.UserID{"a", "b"}, eligResult(pair))
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if len(assignment.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(assignment.Matches))
	}
	got := assignment.Matches[0]
	if got.UserAID != "a" || got.UserBID != "b" {
		t.Errorf("unexpected pairing (%s, %s)", got.UserAID, got.UserBID)
	}
	if got.ScoreAToB != 90 || got.ScoreBToA != 80 {
		t.Errorf("directional scores not preserved: %+v", got)
	}
}

// TestTriangleLeavesOneUnmatched covers the odd-cohort case: one match,
// one user pointing at a taken candidate
func TestTriangleLeavesOneUnmatched(t *testing.T) {
	m := NewGlobalMatcher(0)
	pairs := []match.ScoredPair{
		{UserA: "a", UserB: "b", ScoreAToB: 80, ScoreBToA: 80, PairScore: 80},
		{UserA: "a", UserB: "c", ScoreAToB: 80, ScoreBToA: 80, PairScore: 80},
		{UserA: "b", UserB: "c", ScoreAToB: 80, ScoreBToA: 80, PairScore: 80},
	}

	assignment, err := m.Match(context.Background(), []core.UserID{"a", "b", "c"}, eligResult(pairs...))
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if len(assignment.Matches) != 1 {
		t.Fatalf("expected exactly 1 match, got %d", len(assignment.Matches))
	}
	if len(assignment.Unmatched) != 1 {
		t.Fatalf("expected exactly 1 unmatched user, got %d", len(assignment.Unmatched))
	}

	u := assignment.Unmatched[0]
	if u.Reason != match.ReasonBestCandidateMatched {
		t.Errorf("expected reason %q, got %q", match.ReasonBestCandidateMatched, u.Reason)
	}
	if u.BestPossibleMatch == nil || u.BestPossibleScore == nil {
		t.Fatal("best-possible fields must be populated")
	}
	got := assignment.Matches[0]
	if *u.BestPossibleMatch != got.UserAID && *u.BestPossibleMatch != got.UserBID {
		t.Errorf("best candidate %s is not part of the produced match", *u.BestPossibleMatch)
	}
	if *u.BestPossibleScore != 80 {
		t.Errorf("would-have-been score = %.1f, expected 80", *u.BestPossibleScore)
	}
}

// TestDeterministicTieBreak verifies identical weights resolve to the same
// match on every run
func TestDeterministicTieBreak(t *testing.T) {
	m := NewGlobalMatcher(0)
	pairs := []match.ScoredPair{
		{UserA: "a", UserB: "b", ScoreAToB: 80, ScoreBToA: 80, PairScore: 80},
		{UserA: "a", UserB: "c", ScoreAToB: 80, ScoreBToA: 80, PairScore: 80},
		{UserA: "b", UserB: "c", ScoreAToB: 80, ScoreBToA: 80, PairScore: 80},
	}

	first, err := m.Match(context.Background(), []core.UserID{"a", "b", "c"}, eligResult(pairs...))
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := m.Match(context.Background(), []core.UserID{"a", "b", "c"}, eligResult(pairs...))
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}
		if len(again.Matches) != 1 || again.Matches[0] != first.Matches[0] {
			t.Fatalf("tie-break not deterministic: %+v vs %+v", again.Matches[0], first.Matches[0])
		}
	}
}

// TestMaximizesTotalWeight verifies weight beats local greed: the heavy
// middle pair must lose to two lighter disjoint pairs
func TestMaximizesTotalWeight(t *testing.T) {
	m := NewGlobalMatcher(0)
	pairs := []match.ScoredPair{
		{UserA: "a", UserB: "b", ScoreAToB: 60, ScoreBToA: 60, PairScore: 60},
		{UserA: "b", UserB: "c", ScoreAToB: 90, ScoreBToA: 90, PairScore: 90},
		{UserA: "c", UserB: "d", ScoreAToB: 60, ScoreBToA: 60, PairScore: 60},
	}

	assignment, err := m.Match(context.Background(), []core.UserID{"a", "b", "c", "d"}, eligResult(pairs...))
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if len(assignment.Matches) != 2 {
		t.Fatalf("expected 2 matches (total 120 beats 90), got %d", len(assignment.Matches))
	}
	total := 0.0
	for _, mt := range assignment.Matches {
		total += mt.PairScore
	}
	if total != 120 {
		t.Errorf("total weight = %.1f, expected 120", total)
	}
}

// TestUnmatchedClassification covers the no-eligible-pairs and
// perfectionist reasons
func TestUnmatchedClassification(t *testing.T) {
	m := NewGlobalMatcher(0)
	elig := &engine.EligibilityResult{
		BestDirectional: map[core.UserID]match.DirectionalScore{
			"perfectionist": {From: "perfectionist", To: "isolated", Score: 30},
		},
		Perfectionists: []core.UserID{"perfectionist"},
	}

	assignment, err := m.Match(context.Background(), []core.UserID{"isolated", "perfectionist"}, elig)
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if len(assignment.Matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(assignment.Matches))
	}

	reasons := make(map[core.UserID]match.UnmatchedReason)
	for _, u := range assignment.Unmatched {
		reasons[u.UserID] = u.Reason
	}
	if reasons["isolated"] != match.ReasonNoEligiblePairs {
		t.Errorf("isolated user: got %q", reasons["isolated"])
	}
	if reasons["perfectionist"] != match.ReasonPerfectionist {
		t.Errorf("perfectionist: got %q", reasons["perfectionist"])
	}
}

// TestTimeBudgetExceeded verifies the matcher fails rather than
// returning a partial assignment
func TestTimeBudgetExceeded(t *testing.T) {
	m := NewGlobalMatcher(time.Nanosecond)

	// A cohort large enough that the solver cannot finish instantly
	var ids []core.UserID
	var pairs []match.ScoredPair
	for i := 0; i < 120; i++ {
		ids = append(ids, core.UserID(rune('a'+i%26))+core.UserID(rune('a'+(i/26)%26))+"x")
	}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids) && j < i+8; j++ {
			pairs = append(pairs, match.ScoredPair{
				UserA: ids[i], UserB: ids[j],
				ScoreAToB: float64(50 + (i+j)%50), ScoreBToA: float64(50 + (i*j)%50),
				PairScore: float64(50 + (i+j)%50),
			})
		}
	}

	_, err := m.Match(context.Background(), ids, eligResult(pairs...))
	if err != core.ErrTimeBudgetExceeded {
		t.Fatalf("expected ErrTimeBudgetExceeded, got %v", err)
	}
}
