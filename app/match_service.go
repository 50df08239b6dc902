package app

import (
	"context"
	"fmt"

	"gomatch/adapters/intake"
	"gomatch/adapters/matching"
	"gomatch/adapters/scoring/engine"
	"gomatch/domain/catalog"
	"gomatch/domain/core"
	"gomatch/domain/match"
	"gomatch/domain/response"
	"gomatch/internal"
)

// InvalidPolicy selects what a run does with respondents that fail
// normalization
type InvalidPolicy int

const (
	// DropInvalid excludes failing respondents and continues
	DropInvalid InvalidPolicy = iota
	// AbortOnInvalid fails the whole run on the first bad respondent
	AbortOnInvalid
)

// MatchService runs the complete matching pipeline: normalize, score,
// filter, match, aggregate. All state is transient within one run.
type MatchService struct {
	policy InvalidPolicy
	logger *internal.Logger

	// Progress, when set, receives pair-scoring progress updates
	Progress func(done, total int)
}

// NewMatchService creates a pipeline service
func NewMatchService(policy InvalidPolicy) *MatchService {
	return &MatchService{
		policy: policy,
		logger: internal.DefaultLogger,
	}
}

// RunMatching executes one matching run over the given respondents. The
// run is cancellable between phases; partial results are discarded on
// cancel.
func (s *MatchService) RunMatching(ctx context.Context, users []response.Respondent, cat *catalog.Catalog, cfg match.Config) (*match.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	diag := match.NewDiagnostics()

	// Phase 1: normalize
	normalizer := intake.NewNormalizer(cat)
	normalized := make([]response.Respondent, 0, len(users))
	for _, u := range users {
		n, err := normalizer.Normalize(u)
		if err != nil {
			if s.policy == AbortOnInvalid {
				return nil, err
			}
			s.logger.Warn("dropping respondent %s: %v", u.ID, err)
			continue
		}
		normalized = append(normalized, n)
	}
	diag.UsersConsidered = len(normalized)
	s.logger.Info("normalized %d of %d respondents", len(normalized), len(users))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 2: score all pairs
	scoringEngine := engine.NewScoringEngine(cat, cfg)
	scoringEngine.Progress = s.Progress
	sweep, err := scoringEngine.ScoreAllPairs(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("pair scoring failed: %w", err)
	}
	diag.PairsScored = len(sweep.Pairs)
	for _, rej := range sweep.Rejections {
		diag.RecordRejection(rej)
	}
	pairScores := make([]float64, 0, len(sweep.Pairs))
	for _, p := range sweep.Pairs {
		diag.RecordScore(p.PairScore)
		pairScores = append(pairScores, p.PairScore)
	}
	diag.Summarize(pairScores)
	s.logger.Info("scored %d pairs (%d directional rejections)", len(sweep.Pairs), len(sweep.Rejections))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 3: eligibility
	elig := engine.NewEligibilityFilter(cfg).Filter(sweep.Pairs)
	diag.PairsEligible = len(elig.Eligible)
	s.logger.Info("%d pairs eligible, %d perfectionists", len(elig.Eligible), len(elig.Perfectionists))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 4: global matching
	ids := make([]core.UserID, len(normalized))
	for i, u := range normalized {
		ids[i] = u.ID
	}
	matcher := matching.NewGlobalMatcher(cfg.MatcherBudget)
	assignment, err := matcher.Match(ctx, ids, elig)
	if err != nil {
		return nil, err
	}
	diag.MatchesProduced = len(assignment.Matches)
	s.logger.Info("produced %d matches, %d unmatched", len(assignment.Matches), len(assignment.Unmatched))

	return &match.Result{
		Matches:        assignment.Matches,
		Unmatched:      assignment.Unmatched,
		Diagnostics:    diag,
		ConfigSnapshot: cfg.Snapshot(),
	}, nil
}
