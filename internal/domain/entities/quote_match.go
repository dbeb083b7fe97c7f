package entities

import "time"

// QuoteMatch is the outcome of comparing a source quote against one prior
// quote. MatchCriteria holds the per-criterion breakdown; only criteria that
// were present on both sides appear as keys, so a missing key means "not
// comparable" rather than a zero score.
//
// Rows are unique per (source, matched, algorithm version). Re-running the
// same version upserts in place; a new version writes new rows and leaves the
// old ones untouched for audit and side-by-side comparison.
type QuoteMatch struct {
	ID                    string             `json:"id" db:"id"`
	SourceQuoteID         string             `json:"source_quote_id" db:"source_quote_id"`
	MatchedQuoteID        string             `json:"matched_quote_id" db:"matched_quote_id"`
	SimilarityScore       float64            `json:"similarity_score" db:"similarity_score"`
	MatchCriteria         map[string]float64 `json:"match_criteria" db:"-"`
	SuggestedPrice        *float64           `json:"suggested_price,omitempty" db:"suggested_price"`
	PriceConfidence       *float64           `json:"price_confidence,omitempty" db:"price_confidence"`
	MatchAlgorithmVersion string             `json:"match_algorithm_version" db:"match_algorithm_version"`
	CreatedAt             time.Time          `json:"created_at" db:"created_at"`
}
