package engine

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"gomatch/adapters/scoring/kernel"
	"gomatch/domain/catalog"
	"gomatch/domain/match"
	"gomatch/domain/response"
)

// ScoringEngine sweeps every unordered pair of respondents through the
// hard filter, the similarity kernel, and the directional scorer. The
// sweep is embarrassingly parallel: workers share only immutable reads
// and write disjoint slots.
type ScoringEngine struct {
	hardFilter *HardFilter
	scorer     *DirectionalScorer
	combiner   *PairCombiner
	cfg        match.Config

	// Progress, when set, is invoked after each completed pair task
	Progress func(done, total int)
}

// NewScoringEngine wires the scoring phase for one run
func NewScoringEngine(cat *catalog.Catalog, cfg match.Config) *ScoringEngine {
	k := kernel.New(cfg)
	return &ScoringEngine{
		hardFilter: NewHardFilter(k, cat),
		scorer:     NewDirectionalScorer(k, cat, cfg),
		combiner:   NewPairCombiner(cfg),
		cfg:        cfg,
	}
}

// SweepResult is the output of scoring all pairs
type SweepResult struct {
	// Pairs holds every pair passing the hard filter in both
	// directions, in the input order of the users; within a pair, UserA
	// holds the lower id
	Pairs []match.ScoredPair

	// Rejections holds every directional hard-filter rejection
	Rejections []match.Rejection
}

// pairTask is one unordered pair's outcome slot
type pairTask struct {
	pair       *match.ScoredPair
	rejections []match.Rejection
}

// ScoreAllPairs evaluates every unordered pair. Results are assembled in
// a fixed order regardless of worker scheduling, so identical inputs
// produce identical outputs.
func (e *ScoringEngine) ScoreAllPairs(ctx context.Context, users []response.Respondent) (*SweepResult, error) {
	type indexPair struct{ i, j int }
	tasks := make([]indexPair, 0, len(users)*(len(users)-1)/2)
	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			tasks = append(tasks, indexPair{i, j})
		}
	}

	slots := make([]pairTask, len(tasks))

	workers := int64(e.cfg.ScoringWorkers)
	if workers <= 0 {
		workers = 1
	}
	if max := int64(runtime.NumCPU()); workers > max {
		workers = max
	}

	sem := semaphore.NewWeighted(workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0

	var ctxErr error
	for idx, task := range tasks {
		if err := sem.Acquire(ctx, 1); err != nil {
			ctxErr = err
			break
		}
		wg.Add(1)
		go func(idx int, a, b response.Respondent) {
			defer wg.Done()
			defer sem.Release(1)
			slots[idx] = e.scorePair(a, b)
			if e.Progress != nil {
				mu.Lock()
				done++
				e.Progress(done, len(tasks))
				mu.Unlock()
			}
		}(idx, users[task.i], users[task.j])
	}
	wg.Wait()

	if ctxErr != nil {
		return nil, ctxErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &SweepResult{
		Pairs:      make([]match.ScoredPair, 0, len(tasks)),
		Rejections: make([]match.Rejection, 0),
	}
	for _, slot := range slots {
		if slot.pair != nil {
			result.Pairs = append(result.Pairs, *slot.pair)
		}
		result.Rejections = append(result.Rejections, slot.rejections...)
	}
	return result, nil
}

// scorePair evaluates one unordered pair: both hard-filter directions,
// then both directional scores when the pair survives
func (e *ScoringEngine) scorePair(a, b response.Respondent) pairTask {
	var task pairTask

	okAB, rejAB := e.hardFilter.Evaluate(a, b)
	if rejAB != nil {
		task.rejections = append(task.rejections, *rejAB)
	}
	okBA, rejBA := e.hardFilter.Evaluate(b, a)
	if rejBA != nil {
		task.rejections = append(task.rejections, *rejBA)
	}
	if !okAB || !okBA {
		return task
	}

	sAB := e.scorer.Score(a, b)
	sBA := e.scorer.Score(b, a)

	// Keep the pair in canonical order so downstream stages and reruns
	// see identical records
	userA, userB := a.ID, b.ID
	if userB < userA {
		userA, userB = userB, userA
		sAB, sBA = sBA, sAB
	}

	task.pair = &match.ScoredPair{
		UserA:     userA,
		UserB:     userB,
		ScoreAToB: sAB,
		ScoreBToA: sBA,
		PairScore: e.combiner.Combine(sAB, sBA),
	}
	return task
}
