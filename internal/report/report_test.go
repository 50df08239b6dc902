package report

import (
	"strings"
	"testing"

	"gomatch/domain/core"
	"gomatch/domain/match"
)

func sampleResult() *match.Result {
	candidate := core.UserID("ben")
	score := 72.5
	d := match.NewDiagnostics()
	d.UsersConsidered = 3
	d.PairsScored = 3
	d.PairsEligible = 2
	d.MatchesProduced = 1
	d.HardFilter.Gender = 1
	d.RecordScore(83.2)
	d.Summarize([]float64{83.2, 61.0})
	return &match.Result{
		Matches: []match.Match{
			{UserAID: "amy", UserBID: "ben", PairScore: 83.2, ScoreAToB: 86, ScoreBToA: 81},
		},
		Unmatched: []match.UnmatchedUser{
			{UserID: "cal", Reason: match.ReasonBestCandidateMatched, BestPossibleScore: &score, BestPossibleMatch: &candidate},
		},
		Diagnostics:    d,
		ConfigSnapshot: match.DefaultConfig().Snapshot(),
	}
}

func TestMarkdownReportSections(t *testing.T) {
	md := Markdown("spring-cohort", sampleResult())

	for _, want := range []string{
		"# Matching Run: spring-cohort",
		"## Summary",
		"## Matches",
		"## Unmatched",
		"| amy | ben | 83.2 | 86.0 | 81.0 |",
		"best candidate matched with another",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestHTMLReportRenders(t *testing.T) {
	out := string(HTML("spring-cohort", sampleResult()))
	if !strings.Contains(out, "<h1") {
		t.Error("expected rendered heading")
	}
	if !strings.Contains(out, "<table>") {
		t.Error("expected rendered tables")
	}
}
