package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulmatch/freightquote-backend/internal/application/services"
	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
)

func pricedQuote(id string, price float64) *entities.Quote {
	q := fullQuote(id)
	q.FinalPrice = &price
	return q
}

func matchFor(sourceID, matchedID string, score float64) *entities.QuoteMatch {
	return &entities.QuoteMatch{
		SourceQuoteID:         sourceID,
		MatchedQuoteID:        matchedID,
		SimilarityScore:       score,
		MatchAlgorithmVersion: services.AlgorithmV1,
	}
}

func TestPriceRecommendationService_Build(t *testing.T) {
	svc := services.NewPriceRecommendationService()

	t.Run("no matches means no recommendation", func(t *testing.T) {
		rec := svc.Build("q-1", services.AlgorithmV1, nil, nil)
		assert.Nil(t, rec)
	})

	t.Run("matches without usable prices yield confidence zero", func(t *testing.T) {
		unpriced := fullQuote("q-2")
		rec := svc.Build("q-1", services.AlgorithmV1,
			[]*entities.QuoteMatch{matchFor("q-1", "q-2", 0.9)},
			map[string]*entities.Quote{"q-2": unpriced})

		require.NotNil(t, rec)
		assert.Zero(t, rec.Confidence)
		assert.Equal(t, entities.ConfidenceLow, rec.ConfidenceLabel)
		assert.Nil(t, rec.RecommendedPrice)
		assert.Nil(t, rec.FloorPrice)
		assert.Nil(t, rec.CeilingPrice)
		assert.NotEmpty(t, rec.Reasoning)
	})

	t.Run("single match recommends its price", func(t *testing.T) {
		rec := svc.Build("q-1", services.AlgorithmV1,
			[]*entities.QuoteMatch{matchFor("q-1", "q-2", 0.8)},
			map[string]*entities.Quote{"q-2": pricedQuote("q-2", 1200)})

		require.NotNil(t, rec)
		require.NotNil(t, rec.RecommendedPrice)
		assert.InDelta(t, 1200, *rec.RecommendedPrice, 1e-9)
		assert.InDelta(t, 1200, *rec.TargetPrice, 1e-9)
		assert.InDelta(t, 1200, *rec.FloorPrice, 1e-9)
		assert.InDelta(t, 1200, *rec.CeilingPrice, 1e-9)
		// One contribution: count factor 1/2 times similarity.
		assert.InDelta(t, 0.8/2.0, rec.Confidence, 1e-9)
	})

	t.Run("two agreeing matches at high similarity read high confidence", func(t *testing.T) {
		rec := svc.Build("q-1", services.AlgorithmV1,
			[]*entities.QuoteMatch{
				matchFor("q-1", "q-2", 0.9),
				matchFor("q-1", "q-3", 0.8),
			},
			map[string]*entities.Quote{
				"q-2": pricedQuote("q-2", 100),
				"q-3": pricedQuote("q-3", 100),
			})

		require.NotNil(t, rec)
		require.NotNil(t, rec.RecommendedPrice)
		assert.InDelta(t, 100, *rec.RecommendedPrice, 1e-9)
		// count factor 2/3, average similarity 0.85, no dispersion.
		assert.InDelta(t, 2.0/3.0*0.85, rec.Confidence, 1e-9)
		assert.Equal(t, entities.ConfidenceHigh, rec.ConfidenceLabel)
	})

	t.Run("equal similarity with scattered prices drops well below high", func(t *testing.T) {
		rec := svc.Build("q-1", services.AlgorithmV1,
			[]*entities.QuoteMatch{
				matchFor("q-1", "q-2", 0.9),
				matchFor("q-1", "q-3", 0.9),
			},
			map[string]*entities.Quote{
				"q-2": pricedQuote("q-2", 50),
				"q-3": pricedQuote("q-3", 500),
			})

		require.NotNil(t, rec)
		assert.InDelta(t, 0.33, rec.Confidence, 1e-9)
		assert.NotEqual(t, entities.ConfidenceHigh, rec.ConfidenceLabel)
	})

	t.Run("recommended price is the similarity-weighted mean", func(t *testing.T) {
		matches := []*entities.QuoteMatch{
			matchFor("q-1", "q-2", 0.9),
			matchFor("q-1", "q-3", 0.3),
		}
		candidates := map[string]*entities.Quote{
			"q-2": pricedQuote("q-2", 1000),
			"q-3": pricedQuote("q-3", 2000),
		}

		rec := svc.Build("q-1", services.AlgorithmV1, matches, candidates)
		require.NotNil(t, rec)
		require.NotNil(t, rec.RecommendedPrice)
		// (0.9*1000 + 0.3*2000) / 1.2
		assert.InDelta(t, 1250, *rec.RecommendedPrice, 1e-9)
	})

	t.Run("price band brackets the target", func(t *testing.T) {
		matches := []*entities.QuoteMatch{
			matchFor("q-1", "q-2", 0.8),
			matchFor("q-1", "q-3", 0.8),
			matchFor("q-1", "q-4", 0.8),
			matchFor("q-1", "q-5", 0.8),
		}
		candidates := map[string]*entities.Quote{
			"q-2": pricedQuote("q-2", 900),
			"q-3": pricedQuote("q-3", 1100),
			"q-4": pricedQuote("q-4", 1300),
			"q-5": pricedQuote("q-5", 1700),
		}

		rec := svc.Build("q-1", services.AlgorithmV1, matches, candidates)
		require.NotNil(t, rec)
		assert.LessOrEqual(t, *rec.FloorPrice, *rec.TargetPrice)
		assert.LessOrEqual(t, *rec.TargetPrice, *rec.CeilingPrice)
		assert.InDelta(t, 900, *rec.FloorPrice, 1e-9)
		assert.InDelta(t, 1700, *rec.CeilingPrice, 1e-9)
	})

	t.Run("unpriced and zero-score matches are ignored", func(t *testing.T) {
		matches := []*entities.QuoteMatch{
			matchFor("q-1", "q-2", 0.9),
			matchFor("q-1", "q-3", 0.0),
			matchFor("q-1", "q-4", 0.7),
			matchFor("q-1", "q-missing", 0.8),
		}
		candidates := map[string]*entities.Quote{
			"q-2": pricedQuote("q-2", 1000),
			"q-3": pricedQuote("q-3", 5000),
			"q-4": fullQuote("q-4"),
		}

		rec := svc.Build("q-1", services.AlgorithmV1, matches, candidates)
		require.NotNil(t, rec)
		require.NotNil(t, rec.RecommendedPrice)
		assert.InDelta(t, 1000, *rec.RecommendedPrice, 1e-9)
	})

	t.Run("price dispersion lowers confidence at equal similarity", func(t *testing.T) {
		tight := svc.Build("q-1", services.AlgorithmV1,
			[]*entities.QuoteMatch{
				matchFor("q-1", "q-2", 0.8),
				matchFor("q-1", "q-3", 0.8),
				matchFor("q-1", "q-4", 0.8),
			},
			map[string]*entities.Quote{
				"q-2": pricedQuote("q-2", 1000),
				"q-3": pricedQuote("q-3", 1010),
				"q-4": pricedQuote("q-4", 990),
			})

		scattered := svc.Build("q-1", services.AlgorithmV1,
			[]*entities.QuoteMatch{
				matchFor("q-1", "q-2", 0.8),
				matchFor("q-1", "q-3", 0.8),
				matchFor("q-1", "q-4", 0.8),
			},
			map[string]*entities.Quote{
				"q-2": pricedQuote("q-2", 400),
				"q-3": pricedQuote("q-3", 1000),
				"q-4": pricedQuote("q-4", 1600),
			})

		require.NotNil(t, tight)
		require.NotNil(t, scattered)
		assert.Greater(t, tight.Confidence, scattered.Confidence)
	})

	t.Run("more agreeing matches raise confidence", func(t *testing.T) {
		few := svc.Build("q-1", services.AlgorithmV1,
			[]*entities.QuoteMatch{matchFor("q-1", "q-2", 0.8)},
			map[string]*entities.Quote{"q-2": pricedQuote("q-2", 1000)})

		many := svc.Build("q-1", services.AlgorithmV1,
			[]*entities.QuoteMatch{
				matchFor("q-1", "q-2", 0.8),
				matchFor("q-1", "q-3", 0.8),
				matchFor("q-1", "q-4", 0.8),
				matchFor("q-1", "q-5", 0.8),
			},
			map[string]*entities.Quote{
				"q-2": pricedQuote("q-2", 1000),
				"q-3": pricedQuote("q-3", 1000),
				"q-4": pricedQuote("q-4", 1000),
				"q-5": pricedQuote("q-5", 1000),
			})

		require.NotNil(t, few)
		require.NotNil(t, many)
		assert.Greater(t, many.Confidence, few.Confidence)
	})

	t.Run("reasoning names every contribution", func(t *testing.T) {
		rec := svc.Build("q-1", services.AlgorithmV1,
			[]*entities.QuoteMatch{
				matchFor("q-1", "q-2", 0.9),
				matchFor("q-1", "q-3", 0.6),
			},
			map[string]*entities.Quote{
				"q-2": pricedQuote("q-2", 1000),
				"q-3": pricedQuote("q-3", 1400),
			})

		require.NotNil(t, rec)
		assert.Contains(t, rec.Reasoning, "q-2")
		assert.Contains(t, rec.Reasoning, "q-3")
	})
}
