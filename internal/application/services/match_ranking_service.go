package services

import (
	"context"
	"sort"
	"sync"

	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
)

// MatchRankingService scores a candidate pool against a target quote and
// keeps the best matches.
type MatchRankingService struct {
	minScore float64
	topK     int
	workers  int
}

// NewMatchRankingService creates a ranking service. minScore filters weak
// matches, topK caps the result, workers bounds the scoring fan-out.
func NewMatchRankingService(minScore float64, topK, workers int) *MatchRankingService {
	if topK <= 0 {
		topK = 10
	}
	if workers <= 0 {
		workers = 1
	}
	return &MatchRankingService{
		minScore: minScore,
		topK:     topK,
		workers:  workers,
	}
}

// Rank scores every candidate against the target and returns unpersisted
// QuoteMatch records, strongest first. Unscoreable pairs (no shared
// criteria) are skipped, not recorded as zero. Candidates are scored
// concurrently; scores are pure functions so evaluation order cannot change
// the outcome, and the final sort is fully deterministic: score descending,
// then newer candidate first, then lower candidate ID.
func (s *MatchRankingService) Rank(ctx context.Context, scorer *MatchScoringService, target *entities.Quote, candidates []*entities.Quote) []*entities.QuoteMatch {
	if len(candidates) == 0 {
		return nil
	}

	targetFeatures := ExtractFeatures(target)

	type scored struct {
		candidate *entities.Quote
		score     float64
		criteria  map[string]float64
		ok        bool
	}

	results := make([]scored, len(candidates))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				c := candidates[i]
				if c.ID == target.ID {
					continue
				}
				score, criteria, ok := scorer.Score(targetFeatures, ExtractFeatures(c))
				results[i] = scored{candidate: c, score: score, criteria: criteria, ok: ok}
			}
		}()
	}

	for i := range candidates {
		select {
		case <-ctx.Done():
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	kept := make([]scored, 0, len(results))
	for _, r := range results {
		if r.ok && r.score >= s.minScore {
			kept = append(kept, r)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].score != kept[j].score {
			return kept[i].score > kept[j].score
		}
		ci, cj := kept[i].candidate, kept[j].candidate
		if !ci.CreatedAt.Equal(cj.CreatedAt) {
			return ci.CreatedAt.After(cj.CreatedAt)
		}
		return ci.ID < cj.ID
	})

	if len(kept) > s.topK {
		kept = kept[:s.topK]
	}

	matches := make([]*entities.QuoteMatch, len(kept))
	for i, r := range kept {
		matches[i] = &entities.QuoteMatch{
			SourceQuoteID:         target.ID,
			MatchedQuoteID:        r.candidate.ID,
			SimilarityScore:       r.score,
			MatchCriteria:         r.criteria,
			MatchAlgorithmVersion: scorer.Version(),
		}
	}
	return matches
}
