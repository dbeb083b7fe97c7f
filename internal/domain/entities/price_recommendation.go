package entities

import "time"

// ConfidenceLabel buckets a numeric confidence for display.
type ConfidenceLabel string

const (
	ConfidenceHigh   ConfidenceLabel = "high"
	ConfidenceMedium ConfidenceLabel = "medium"
	ConfidenceLow    ConfidenceLabel = "low"
)

// PriceRecommendation is the price guidance derived from the top matches of
// one matching run. Confidence is 0 (not absent) when matches exist but none
// of them carried a usable price; when there are no matches at all no
// recommendation row is written, which is how "no comparable history" stays
// distinguishable from "history with unusable prices".
type PriceRecommendation struct {
	ID               string          `json:"id" db:"id"`
	QuoteID          string          `json:"quote_id" db:"quote_id"`
	AlgorithmVersion string          `json:"algorithm_version" db:"algorithm_version"`
	RecommendedPrice *float64        `json:"recommended_price,omitempty" db:"recommended_price"`
	FloorPrice       *float64        `json:"floor_price,omitempty" db:"floor_price"`
	TargetPrice      *float64        `json:"target_price,omitempty" db:"target_price"`
	CeilingPrice     *float64        `json:"ceiling_price,omitempty" db:"ceiling_price"`
	Confidence       float64         `json:"confidence" db:"confidence"`
	ConfidenceLabel  ConfidenceLabel `json:"confidence_label" db:"confidence_label"`
	Reasoning        string          `json:"reasoning" db:"reasoning"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// LabelForConfidence maps a numeric confidence to its display bucket. The
// cutoffs are calibrated to the recommender's composite formula: a pair of
// agreeing matches at high similarity lands at high, a lone match at medium.
func LabelForConfidence(confidence float64) ConfidenceLabel {
	switch {
	case confidence >= 0.55:
		return ConfidenceHigh
	case confidence >= 0.30:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
