package app

import (
	"context"
	"encoding/json"
	"testing"

	"gomatch/domain/core"
	"gomatch/domain/match"
	"gomatch/domain/response"
	"gomatch/internal/testkit"
)

// TestPerfectPair is the happy path: two compatible users, identical
// Likert answers with "similar" preferences, no dealbreakers
func TestPerfectPair(t *testing.T) {
	cat := testkit.StandardCatalog()
	service := NewMatchService(DropInvalid)

	users := []response.Respondent{
		testkit.NewRespondent("alice", "woman", 30, "man").
			WithLikert(testkit.QPolitics, 2, response.PrefSimilar, response.Important).
			WithLikert(testkit.QActivity, 4, response.PrefSimilar, response.Important).
			Build(),
		testkit.NewRespondent("bob", "man", 31, "woman").
			WithLikert(testkit.QPolitics, 2, response.PrefSimilar, response.Important).
			WithLikert(testkit.QActivity, 4, response.PrefSimilar, response.Important).
			Build(),
	}

	result, err := service.RunMatching(context.Background(), users, cat, match.DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(result.Matches))
	}
	m := result.Matches[0]
	if m.UserAID != "alice" || m.UserBID != "bob" {
		t.Errorf("unexpected pairing (%s, %s)", m.UserAID, m.UserBID)
	}
	if m.PairScore < 90 {
		t.Errorf("pair score %.2f, expected >= 90", m.PairScore)
	}
	if len(result.Unmatched) != 0 {
		t.Errorf("expected no unmatched users, got %d", len(result.Unmatched))
	}
}

// TestDealbreakerConflict: a dealbreaker on q8 blocks the only pair and
// the trigger shows up in diagnostics
func TestDealbreakerConflict(t *testing.T) {
	cat := testkit.StandardCatalog()
	service := NewMatchService(DropInvalid)

	users := []response.Respondent{
		testkit.NewRespondent("x", "woman", 30, "anyone").
			WithDealbreaker(testkit.QSubstances, "never", "never").
			Build(),
		testkit.NewRespondent("y", "man", 30, "anyone").
			With(testkit.QSubstances, response.Record{
				Answer:     response.SingleChoice("frequently"),
				Importance: response.Important,
			}).
			Build(),
	}

	result, err := service.RunMatching(context.Background(), users, cat, match.DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(result.Matches))
	}
	if len(result.Unmatched) != 2 {
		t.Fatalf("expected 2 unmatched users, got %d", len(result.Unmatched))
	}
	for _, u := range result.Unmatched {
		if u.Reason != match.ReasonNoEligiblePairs {
			t.Errorf("user %s: got reason %q", u.UserID, u.Reason)
		}
	}
	if result.Diagnostics.HardFilter.Dealbreaker != 1 {
		t.Errorf("dealbreaker rejections = %d, expected 1", result.Diagnostics.HardFilter.Dealbreaker)
	}
	if result.Diagnostics.DealbreakerTriggers[testkit.QSubstances.String()] != 1 {
		t.Errorf("expected one dealbreaker trigger on %s, got %v", testkit.QSubstances, result.Diagnostics.DealbreakerTriggers)
	}
}

// TestAsymmetricPairPenalized: opposed answers with strong preferences
// keep the pair score at or below the directional mean and out of the
// matching
func TestAsymmetricPairPenalized(t *testing.T) {
	cat := testkit.StandardCatalog()
	service := NewMatchService(DropInvalid)

	users := []response.Respondent{
		testkit.NewRespondent("e", "woman", 30, "anyone").
			WithLikert(testkit.QPolitics, 1, response.PrefSimilar, response.VeryImportant).
			WithLikert(testkit.QActivity, 5, response.PrefSimilar, response.VeryImportant).
			Build(),
		testkit.NewRespondent("f", "man", 30, "anyone").
			WithLikert(testkit.QPolitics, 5, response.PrefSimilar, response.VeryImportant).
			WithLikert(testkit.QActivity, 1, response.PrefSimilar, response.VeryImportant).
			Build(),
	}

	result, err := service.RunMatching(context.Background(), users, cat, match.DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Matches) != 0 {
		t.Fatalf("opposed answers should not match, got %d matches", len(result.Matches))
	}
	if result.Diagnostics.PairsScored != 1 {
		t.Errorf("pairs scored = %d, expected 1", result.Diagnostics.PairsScored)
	}
	if result.Diagnostics.PairsEligible != 0 {
		t.Errorf("pairs eligible = %d, expected 0", result.Diagnostics.PairsEligible)
	}
}

// TestTriangle: three mutually eligible users with identical scores
// produce one match and one "best candidate matched with another"
func TestTriangle(t *testing.T) {
	cat := testkit.StandardCatalog()
	service := NewMatchService(DropInvalid)

	users := make([]response.Respondent, 0, 3)
	for _, name := range []string{"a", "b", "c"} {
		users = append(users, testkit.NewRespondent(name, "woman", 30, "anyone").
			WithLikert(testkit.QPolitics, 3, response.PrefSimilar, response.Important).
			WithLikert(testkit.QActivity, 3, response.PrefSimilar, response.Important).
			Build())
	}

	result, err := service.RunMatching(context.Background(), users, cat, match.DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Matches) != 1 {
		t.Fatalf("expected exactly 1 match, got %d", len(result.Matches))
	}
	if len(result.Unmatched) != 1 {
		t.Fatalf("expected exactly 1 unmatched, got %d", len(result.Unmatched))
	}

	u := result.Unmatched[0]
	if u.Reason != match.ReasonBestCandidateMatched {
		t.Fatalf("got reason %q", u.Reason)
	}
	m := result.Matches[0]
	if u.BestPossibleMatch == nil || (*u.BestPossibleMatch != m.UserAID && *u.BestPossibleMatch != m.UserBID) {
		t.Errorf("best candidate must refer to a matched user")
	}
}

// TestDeterministicRuns verifies two runs on identical input produce
// identical serialized results
func TestDeterministicRuns(t *testing.T) {
	cat := testkit.StandardCatalog()
	service := NewMatchService(DropInvalid)
	cfg := match.DefaultConfig()
	cfg.ScoringWorkers = 4

	build := func() []response.Respondent {
		users := make([]response.Respondent, 0, 9)
		for i, name := range []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7", "u8", "u9"} {
			users = append(users, testkit.NewRespondent(name, "woman", 24+i, "anyone").
				WithLikert(testkit.QPolitics, 1+(i%5), response.PrefSimilar, response.Important).
				WithLikert(testkit.QActivity, 1+((i*2)%5), response.PrefSimilar, response.SomewhatImportant).
				Build())
		}
		return users
	}

	first, err := service.RunMatching(context.Background(), build(), cat, cfg)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := service.RunMatching(context.Background(), build(), cat, cfg)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatal("identical inputs produced different results")
	}

	if v := match.ValidateMatching(first.Matches); !v.OK {
		t.Fatalf("invalid matching: %v", v.Errors)
	}
}

// TestInvalidConfigIsFatal verifies the run refuses to start
func TestInvalidConfigIsFatal(t *testing.T) {
	cat := testkit.StandardCatalog()
	service := NewMatchService(DropInvalid)

	cfg := match.DefaultConfig()
	cfg.MutualityAlpha = 0.5 // plain mean is disallowed

	_, err := service.RunMatching(context.Background(), nil, cat, cfg)
	if !core.IsInvalidConfig(err) {
		t.Fatalf("expected InvalidConfig, got %v", err)
	}
}

// TestInvalidRespondentPolicies covers drop-vs-abort
func TestInvalidRespondentPolicies(t *testing.T) {
	cat := testkit.StandardCatalog()

	valid := testkit.NewRespondent("ok1", "woman", 30, "anyone").Build()
	valid2 := testkit.NewRespondent("ok2", "man", 30, "anyone").Build()
	broken := testkit.NewRespondent("broken", "woman", 30, "anyone").
		With(testkit.QPolitics, response.Record{Answer: response.Likert(9), Importance: response.Important}).
		Build()

	dropping := NewMatchService(DropInvalid)
	result, err := dropping.RunMatching(context.Background(), []response.Respondent{valid, valid2, broken}, cat, match.DefaultConfig())
	if err != nil {
		t.Fatalf("drop policy should not fail the run: %v", err)
	}
	if result.Diagnostics.UsersConsidered != 2 {
		t.Errorf("users considered = %d, expected 2", result.Diagnostics.UsersConsidered)
	}

	aborting := NewMatchService(AbortOnInvalid)
	_, err = aborting.RunMatching(context.Background(), []response.Respondent{valid, broken}, cat, match.DefaultConfig())
	if !core.IsInvalidResponse(err) {
		t.Fatalf("expected InvalidResponse, got %v", err)
	}
}

// TestEmptyCohortIsNotAnError verifies a well-formed empty result
func TestEmptyCohortIsNotAnError(t *testing.T) {
	cat := testkit.StandardCatalog()
	service := NewMatchService(DropInvalid)

	result, err := service.RunMatching(context.Background(), nil, cat, match.DefaultConfig())
	if err != nil {
		t.Fatalf("empty input must produce a well-formed result: %v", err)
	}
	if len(result.Matches) != 0 || len(result.Unmatched) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
	if result.ConfigSnapshot == nil {
		t.Error("config snapshot must always be populated")
	}
}
