package evaluation

import (
	"time"

	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
)

// Band represents the expected similarity bucket for a golden pair.
type Band string

const (
	BandHigh   Band = "high"   // score >= 0.75
	BandMedium Band = "medium" // score in [0.45, 0.75)
	BandLow    Band = "low"    // score below 0.45 but scoreable
	BandNone   Band = "none"   // pair is unscoreable
)

// ValidBands returns all valid band values.
func ValidBands() []Band {
	return []Band{BandHigh, BandMedium, BandLow, BandNone}
}

// IsValid checks if the band value is one of the defined constants.
func (b Band) IsValid() bool {
	switch b {
	case BandHigh, BandMedium, BandLow, BandNone:
		return true
	}
	return false
}

// GoldenPair represents a labeled quote pair with its expected outcome.
type GoldenPair struct {
	ID         string         `json:"id"`
	Source     entities.Quote `json:"source"`
	Candidate  entities.Quote `json:"candidate"`
	Expected   Band           `json:"expected"`
	Difficulty string         `json:"difficulty"` // easy, medium, hard
	Note       string         `json:"note,omitempty"`
}

// EvalResult holds the evaluation outcome for a single pair.
type EvalResult struct {
	PairID     string
	Expected   Band
	Actual     Band
	Score      float64
	Scoreable  bool
	Correct    bool
	Violations []string
	Latency    time.Duration
}

// EvalSummary holds aggregate metrics across all golden pairs.
type EvalSummary struct {
	AlgorithmVersion    string
	TotalPairs          int
	Correct             int
	Accuracy            float64
	GuardrailViolations []string
	AvgLatency          time.Duration
	ByBand              map[Band]*BandSummary
}

// BandSummary holds per-band accuracy.
type BandSummary struct {
	Count    int
	Correct  int
	Accuracy float64
}
