// Package report renders a matching result as a human-readable run
// report: markdown for logs and files, HTML for the API.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gomatch/domain/match"
)

// Markdown builds the markdown report for one result
func Markdown(name string, result *match.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Matching Run: %s\n\n", name)

	d := result.Diagnostics
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Users considered | %d |\n", d.UsersConsidered)
	fmt.Fprintf(&b, "| Pairs scored | %d |\n", d.PairsScored)
	fmt.Fprintf(&b, "| Pairs eligible | %d |\n", d.PairsEligible)
	fmt.Fprintf(&b, "| Matches produced | %d |\n", d.MatchesProduced)
	fmt.Fprintf(&b, "| Unmatched users | %d |\n\n", len(result.Unmatched))

	if d.Summary != nil {
		b.WriteString("## Pair Score Distribution\n\n")
		fmt.Fprintf(&b, "Mean %.1f, median %.1f, range [%.1f, %.1f], IQR [%.1f, %.1f]\n\n",
			d.Summary.Mean, d.Summary.Median, d.Summary.Min, d.Summary.Max,
			d.Summary.Q25, d.Summary.Q75)

		labels := []string{"0-20", "20-40", "40-60", "60-80", "80-100"}
		fmt.Fprintf(&b, "| Bucket | Pairs |\n|---|---|\n")
		for i, label := range labels {
			fmt.Fprintf(&b, "| %s | %d |\n", label, d.ScoreBuckets[i])
		}
		b.WriteString("\n")
	}

	if d.HardFilter.Gender+d.HardFilter.Age+d.HardFilter.Dealbreaker > 0 {
		b.WriteString("## Hard-Filter Rejections\n\n")
		fmt.Fprintf(&b, "| Kind | Count |\n|---|---|\n")
		fmt.Fprintf(&b, "| Gender | %d |\n", d.HardFilter.Gender)
		fmt.Fprintf(&b, "| Age | %d |\n", d.HardFilter.Age)
		fmt.Fprintf(&b, "| Dealbreaker | %d |\n\n", d.HardFilter.Dealbreaker)

		if len(d.DealbreakerTriggers) > 0 {
			questions := make([]string, 0, len(d.DealbreakerTriggers))
			for q := range d.DealbreakerTriggers {
				questions = append(questions, q)
			}
			sort.Strings(questions)
			fmt.Fprintf(&b, "| Dealbreaker question | Triggers |\n|---|---|\n")
			for _, q := range questions {
				fmt.Fprintf(&b, "| %s | %d |\n", q, d.DealbreakerTriggers[q])
			}
			b.WriteString("\n")
		}
	}

	if len(result.Matches) > 0 {
		b.WriteString("## Matches\n\n")
		fmt.Fprintf(&b, "| User A | User B | Pair | A→B | B→A |\n|---|---|---|---|---|\n")
		for _, m := range result.Matches {
			fmt.Fprintf(&b, "| %s | %s | %.1f | %.1f | %.1f |\n",
				m.UserAID, m.UserBID, m.PairScore, m.ScoreAToB, m.ScoreBToA)
		}
		b.WriteString("\n")
	}

	if len(result.Unmatched) > 0 {
		b.WriteString("## Unmatched\n\n")
		fmt.Fprintf(&b, "| User | Reason | Best candidate | Would-have-been |\n|---|---|---|---|\n")
		for _, u := range result.Unmatched {
			candidate, score := "-", "-"
			if u.BestPossibleMatch != nil {
				candidate = u.BestPossibleMatch.String()
			}
			if u.BestPossibleScore != nil {
				score = fmt.Sprintf("%.1f", *u.BestPossibleScore)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", u.UserID, u.Reason, candidate, score)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// HTML renders the markdown report to HTML
func HTML(name string, result *match.Result) []byte {
	md := Markdown(name, result)
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}
