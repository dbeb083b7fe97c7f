package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
)

// PriceRecommendationService derives price guidance from one run's ranked
// matches.
type PriceRecommendationService struct {
	floorPercentile   float64
	ceilingPercentile float64
}

// NewPriceRecommendationService creates a recommendation service with the
// default 10th/90th percentile band.
func NewPriceRecommendationService() *PriceRecommendationService {
	return &PriceRecommendationService{
		floorPercentile:   0.10,
		ceilingPercentile: 0.90,
	}
}

// contribution is one match's price weighted by its similarity.
type contribution struct {
	matchedQuoteID string
	price          float64
	weight         float64
}

// Build derives a recommendation from the ranked matches of one run.
// candidatesByID must contain the matched quotes so their prices can be
// read. Returns nil when there are no matches at all — "no comparable
// history" produces no recommendation row, which is distinct from matches
// whose prices were all unusable (confidence 0, nil prices).
func (s *PriceRecommendationService) Build(quoteID, algorithmVersion string, matches []*entities.QuoteMatch, candidatesByID map[string]*entities.Quote) *entities.PriceRecommendation {
	if len(matches) == 0 {
		return nil
	}

	contributions := make([]contribution, 0, len(matches))
	for _, m := range matches {
		candidate, ok := candidatesByID[m.MatchedQuoteID]
		if !ok {
			continue
		}
		price := candidate.AgreedPrice()
		if price == nil || *price <= 0 || m.SimilarityScore <= 0 {
			continue
		}
		contributions = append(contributions, contribution{
			matchedQuoteID: m.MatchedQuoteID,
			price:          *price,
			weight:         m.SimilarityScore,
		})
	}

	rec := &entities.PriceRecommendation{
		QuoteID:          quoteID,
		AlgorithmVersion: algorithmVersion,
	}

	if len(contributions) == 0 {
		rec.Confidence = 0
		rec.ConfidenceLabel = entities.LabelForConfidence(0)
		rec.Reasoning = fmt.Sprintf(
			"%d comparable quote(s) found but none carried a usable price; no price derived",
			len(matches))
		return rec
	}

	mean := weightedMean(contributions)
	target := weightedPercentile(contributions, 0.50)
	floor := weightedPercentile(contributions, s.floorPercentile)
	ceiling := weightedPercentile(contributions, s.ceilingPercentile)

	rec.RecommendedPrice = &mean
	rec.TargetPrice = &target
	rec.FloorPrice = &floor
	rec.CeilingPrice = &ceiling
	rec.Confidence = s.confidence(contributions, mean)
	rec.ConfidenceLabel = entities.LabelForConfidence(rec.Confidence)
	rec.Reasoning = s.reasoning(contributions, mean)

	return rec
}

// confidence grows with the number of contributing matches and their average
// similarity, and shrinks with price dispersion (coefficient of variation).
func (s *PriceRecommendationService) confidence(contributions []contribution, mean float64) float64 {
	n := float64(len(contributions))

	var simSum float64
	for _, c := range contributions {
		simSum += c.weight
	}
	avgSim := simSum / n

	countFactor := n / (n + 1)
	agreementFactor := 1.0
	if mean > 0 {
		cv := weightedStdDev(contributions, mean) / mean
		agreementFactor = 1.0 / (1.0 + cv)
	}

	return clamp01(countFactor * avgSim * agreementFactor)
}

func (s *PriceRecommendationService) reasoning(contributions []contribution, mean float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "similarity-weighted mean of %d prior quote(s) = %.2f; contributions: ",
		len(contributions), mean)
	for i, c := range contributions {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "quote %s (price %.2f, weight %.3f)", c.matchedQuoteID, c.price, c.weight)
	}
	return b.String()
}

func weightedMean(contributions []contribution) float64 {
	var priceSum, weightSum float64
	for _, c := range contributions {
		priceSum += c.price * c.weight
		weightSum += c.weight
	}
	return priceSum / weightSum
}

func weightedStdDev(contributions []contribution, mean float64) float64 {
	var variance, weightSum float64
	for _, c := range contributions {
		variance += c.weight * (c.price - mean) * (c.price - mean)
		weightSum += c.weight
	}
	return math.Sqrt(variance / weightSum)
}

// weightedPercentile returns the smallest price whose cumulative weight
// reaches the given fraction of the total.
func weightedPercentile(contributions []contribution, fraction float64) float64 {
	sorted := make([]contribution, len(contributions))
	copy(sorted, contributions)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].price != sorted[j].price {
			return sorted[i].price < sorted[j].price
		}
		return sorted[i].matchedQuoteID < sorted[j].matchedQuoteID
	})

	var total float64
	for _, c := range sorted {
		total += c.weight
	}

	threshold := fraction * total
	var cum float64
	for _, c := range sorted {
		cum += c.weight
		if cum >= threshold {
			return c.price
		}
	}
	return sorted[len(sorted)-1].price
}
