package match

import (
	"github.com/montanaflynn/stats"
)

// ScoreBucketBounds are the five histogram bucket upper bounds
var ScoreBucketBounds = [5]float64{20, 40, 60, 80, 100}

// HardFilterBreakdown counts directional hard-filter rejections by kind
type HardFilterBreakdown struct {
	Gender      int `json:"gender"`
	Age         int `json:"age"`
	Dealbreaker int `json:"dealbreaker"`
}

// ScoreSummary holds distribution statistics over pair scores
type ScoreSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// Diagnostics collects derived counts for one run. Nothing here mutates
// pipeline state.
type Diagnostics struct {
	UsersConsidered int `json:"users_considered"`
	PairsScored     int `json:"pairs_scored"`
	PairsEligible   int `json:"pairs_eligible"`
	MatchesProduced int `json:"matches_produced"`

	HardFilter HardFilterBreakdown `json:"hard_filter_breakdown"`

	// ScoreBuckets histograms pair scores into [0-20, 20-40, 40-60,
	// 60-80, 80-100]
	ScoreBuckets [5]int `json:"score_buckets"`

	// DealbreakerTriggers counts dealbreaker rejections per question
	DealbreakerTriggers map[string]int `json:"dealbreaker_triggers,omitempty"`

	Summary *ScoreSummary `json:"score_summary,omitempty"`
}

// NewDiagnostics returns an empty diagnostics record
func NewDiagnostics() Diagnostics {
	return Diagnostics{DealbreakerTriggers: make(map[string]int)}
}

// RecordRejection tallies a directional hard-filter rejection
func (d *Diagnostics) RecordRejection(rej Rejection) {
	switch rej.Kind {
	case RejectGender:
		d.HardFilter.Gender++
	case RejectAge:
		d.HardFilter.Age++
	case RejectDealbreaker:
		d.HardFilter.Dealbreaker++
		if rej.QuestionID != "" {
			d.DealbreakerTriggers[rej.QuestionID.String()]++
		}
	}
}

// RecordScore buckets a pair score into the five-band histogram
func (d *Diagnostics) RecordScore(score float64) {
	for i, bound := range ScoreBucketBounds {
		if score < bound || i == len(ScoreBucketBounds)-1 {
			d.ScoreBuckets[i]++
			return
		}
	}
}

// Summarize computes distribution statistics over the scored pairs
func (d *Diagnostics) Summarize(pairScores []float64) {
	if len(pairScores) == 0 {
		return
	}
	mean, _ := stats.Mean(pairScores)
	median, _ := stats.Median(pairScores)
	min, _ := stats.Min(pairScores)
	max, _ := stats.Max(pairScores)
	q25, _ := stats.Percentile(pairScores, 25)
	q75, _ := stats.Percentile(pairScores, 75)

	d.Summary = &ScoreSummary{
		Mean:   mean,
		Median: median,
		Min:    min,
		Max:    max,
		Q25:    q25,
		Q75:    q75,
	}
}
