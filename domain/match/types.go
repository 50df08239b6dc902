package match

import (
	"fmt"

	"gomatch/domain/core"
)

// RejectionKind classifies a hard-filter rejection
type RejectionKind string

const (
	RejectGender      RejectionKind = "gender"
	RejectAge         RejectionKind = "age"
	RejectDealbreaker RejectionKind = "dealbreaker"
)

// Rejection records the first hard-filter violation for an ordered pair.
// Evaluation is short-circuit; later violations are never observed.
type Rejection struct {
	Kind       RejectionKind   `json:"kind"`
	QuestionID core.QuestionID `json:"question_id,omitempty"`
}

// DirectionalScore is one direction of a scored ordered pair
type DirectionalScore struct {
	From  core.UserID `json:"from"`
	To    core.UserID `json:"to"`
	Score float64     `json:"score"`
}

// ScoredPair carries both directions and the symmetric pair score
type ScoredPair struct {
	UserA     core.UserID `json:"user_a"`
	UserB     core.UserID `json:"user_b"`
	ScoreAToB float64     `json:"score_a_to_b"`
	ScoreBToA float64     `json:"score_b_to_a"`
	PairScore float64     `json:"pair_score"`
}

// Key returns the canonical pair key (min id, max id)
func (p ScoredPair) Key() PairKey {
	return NewPairKey(p.UserA, p.UserB)
}

// PairKey identifies an unordered pair canonically
type PairKey struct {
	Lo core.UserID `json:"lo"`
	Hi core.UserID `json:"hi"`
}

// NewPairKey builds a canonical key with Lo < Hi lexicographically
func NewPairKey(a, b core.UserID) PairKey {
	if a < b {
		return PairKey{Lo: a, Hi: b}
	}
	return PairKey{Lo: b, Hi: a}
}

// String renders the key for logs and sorts
func (k PairKey) String() string {
	return fmt.Sprintf("%s|%s", k.Lo, k.Hi)
}

// Match is one produced pairing. UserAID < UserBID lexicographically.
type Match struct {
	UserAID   core.UserID `json:"user_a_id"`
	UserBID   core.UserID `json:"user_b_id"`
	PairScore float64     `json:"pair_score"`
	ScoreAToB float64     `json:"score_a_to_b"`
	ScoreBToA float64     `json:"score_b_to_a"`
}

// UnmatchedReason classifies why a user ended the run without a partner
type UnmatchedReason string

const (
	ReasonNoEligiblePairs      UnmatchedReason = "no eligible pairs"
	ReasonBestCandidateMatched UnmatchedReason = "best candidate matched with another"
	ReasonPerfectionist        UnmatchedReason = "below absolute threshold (perfectionist)"
)

// UnmatchedUser records an unmatched user with its reason. The best-possible
// fields are populated only for ReasonBestCandidateMatched.
type UnmatchedUser struct {
	UserID            core.UserID     `json:"user_id"`
	Reason            UnmatchedReason `json:"reason"`
	BestPossibleScore *float64        `json:"best_possible_score,omitempty"`
	BestPossibleMatch *core.UserID    `json:"best_possible_match_id,omitempty"`
}

// Result is the complete output of one matching run
type Result struct {
	Matches        []Match                `json:"matches"`
	Unmatched      []UnmatchedUser        `json:"unmatched"`
	Diagnostics    Diagnostics            `json:"diagnostics"`
	ConfigSnapshot map[string]interface{} `json:"config_snapshot"`
}

// Validation is the outcome of ValidateMatching
type Validation struct {
	OK     bool     `json:"ok"`
	Errors []string `json:"errors"`
}

// ValidateMatching checks assignment invariants: no vertex appears twice,
// no self-matches, every pair score within [0, 100]
func ValidateMatching(matches []Match) Validation {
	v := Validation{OK: true, Errors: []string{}}
	seen := make(map[core.UserID]bool, len(matches)*2)

	for _, m := range matches {
		if m.UserAID == m.UserBID {
			v.Errors = append(v.Errors, fmt.Sprintf("self-match on user %s", m.UserAID))
		}
		if seen[m.UserAID] {
			v.Errors = append(v.Errors, fmt.Sprintf("user %s appears in more than one match", m.UserAID))
		}
		if seen[m.UserBID] {
			v.Errors = append(v.Errors, fmt.Sprintf("user %s appears in more than one match", m.UserBID))
		}
		seen[m.UserAID] = true
		seen[m.UserBID] = true

		if m.PairScore < 0 || m.PairScore > 100 {
			v.Errors = append(v.Errors, fmt.Sprintf("pair (%s, %s) score %.4f outside [0, 100]", m.UserAID, m.UserBID, m.PairScore))
		}
		if m.UserAID > m.UserBID {
			v.Errors = append(v.Errors, fmt.Sprintf("pair (%s, %s) not in canonical order", m.UserAID, m.UserBID))
		}
	}

	v.OK = len(v.Errors) == 0
	return v
}
