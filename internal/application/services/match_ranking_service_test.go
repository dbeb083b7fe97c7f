package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulmatch/freightquote-backend/internal/application/services"
	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
)

func laneQuote(id string, createdAt time.Time) *entities.Quote {
	q := fullQuote(id)
	q.CreatedAt = createdAt
	return q
}

func matchedIDs(matches []*entities.QuoteMatch) []string {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.MatchedQuoteID
	}
	return ids
}

func TestMatchRankingService_Rank(t *testing.T) {
	ctx := context.Background()
	scorer := newScorer(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty candidate pool", func(t *testing.T) {
		ranker := services.NewMatchRankingService(0.3, 10, 4)
		matches := ranker.Rank(ctx, scorer, fullQuote("q-target"), nil)
		assert.Empty(t, matches)
	})

	t.Run("target is never matched against itself", func(t *testing.T) {
		ranker := services.NewMatchRankingService(0, 10, 4)
		target := laneQuote("q-target", base)
		matches := ranker.Rank(ctx, scorer, target, []*entities.Quote{
			laneQuote("q-target", base),
			laneQuote("q-other", base),
		})

		require.Len(t, matches, 1)
		assert.Equal(t, "q-other", matches[0].MatchedQuoteID)
	})

	t.Run("weak matches fall below the threshold", func(t *testing.T) {
		ranker := services.NewMatchRankingService(0.6, 10, 2)
		target := laneQuote("q-target", base)

		twin := laneQuote("q-twin", base)
		stranger := laneQuote("q-stranger", base)
		stranger.Origin = entities.Location{City: "Shanghai", Country: "CN"}
		stranger.Destination = entities.Location{City: "Santos", Country: "BR"}
		stranger.ServiceType = "Ocean"
		stranger.WeightKg = floatPtr(24000)

		matches := ranker.Rank(ctx, scorer, target, []*entities.Quote{stranger, twin})
		require.Len(t, matches, 1)
		assert.Equal(t, "q-twin", matches[0].MatchedQuoteID)
		assert.GreaterOrEqual(t, matches[0].SimilarityScore, 0.6)
	})

	t.Run("unscoreable candidates are skipped, not zero-scored", func(t *testing.T) {
		ranker := services.NewMatchRankingService(0, 10, 2)
		target := &entities.Quote{ID: "q-target", WeightKg: floatPtr(1000)}
		blank := &entities.Quote{ID: "q-blank"}

		matches := ranker.Rank(ctx, scorer, target, []*entities.Quote{blank})
		assert.Empty(t, matches)
	})

	t.Run("ordering is score desc, then newest, then lowest ID", func(t *testing.T) {
		ranker := services.NewMatchRankingService(0, 10, 4)
		target := laneQuote("q-target", base)

		// Perfect twins that tie on score; distinguishable only by
		// created-at and ID.
		older := laneQuote("q-b-older", base.Add(-time.Hour))
		newer := laneQuote("q-c-newer", base.Add(time.Hour))
		sameAgeA := laneQuote("q-a-same", base)
		sameAgeZ := laneQuote("q-z-same", base)
		// Weaker match: same lane, different weight.
		weaker := laneQuote("q-weaker", base.Add(2*time.Hour))
		weaker.WeightKg = floatPtr(6000)

		matches := ranker.Rank(ctx, scorer, target, []*entities.Quote{
			weaker, sameAgeZ, older, newer, sameAgeA,
		})

		assert.Equal(t,
			[]string{"q-c-newer", "q-a-same", "q-z-same", "q-b-older", "q-weaker"},
			matchedIDs(matches))
	})

	t.Run("ranking is deterministic across worker counts", func(t *testing.T) {
		target := laneQuote("q-target", base)
		candidates := make([]*entities.Quote, 0, 20)
		for i := 0; i < 20; i++ {
			c := laneQuote("q-c", base.Add(time.Duration(i)*time.Minute))
			c.ID = c.ID + "-" + string(rune('a'+i))
			c.WeightKg = floatPtr(1000 + float64(i)*250)
			candidates = append(candidates, c)
		}

		single := services.NewMatchRankingService(0, 20, 1).Rank(ctx, scorer, target, candidates)
		pooled := services.NewMatchRankingService(0, 20, 8).Rank(ctx, scorer, target, candidates)

		require.Equal(t, len(single), len(pooled))
		assert.Equal(t, matchedIDs(single), matchedIDs(pooled))
		for i := range single {
			assert.Equal(t, single[i].SimilarityScore, pooled[i].SimilarityScore)
		}
	})

	t.Run("result is capped at topK", func(t *testing.T) {
		ranker := services.NewMatchRankingService(0, 3, 4)
		target := laneQuote("q-target", base)
		candidates := []*entities.Quote{
			laneQuote("q-1", base),
			laneQuote("q-2", base),
			laneQuote("q-3", base),
			laneQuote("q-4", base),
			laneQuote("q-5", base),
		}

		matches := ranker.Rank(ctx, scorer, target, candidates)
		assert.Len(t, matches, 3)
	})

	t.Run("matches carry the scoring metadata", func(t *testing.T) {
		ranker := services.NewMatchRankingService(0, 10, 2)
		target := laneQuote("q-target", base)

		matches := ranker.Rank(ctx, scorer, target, []*entities.Quote{laneQuote("q-twin", base)})
		require.Len(t, matches, 1)

		m := matches[0]
		assert.Equal(t, "q-target", m.SourceQuoteID)
		assert.Equal(t, services.AlgorithmV1, m.MatchAlgorithmVersion)
		assert.NotEmpty(t, m.MatchCriteria)
		assert.Empty(t, m.ID, "ranking must not persist or assign IDs")
	})
}
