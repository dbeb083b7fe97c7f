package evaluation

// Band thresholds bucket raw similarity scores for golden-pair grading.
// These are independent of the recommender's confidence-label cutoffs,
// which sit on a different (composite) scale.
const (
	highCutoff   = 0.75
	mediumCutoff = 0.45
)

// BandForScore buckets a scoring outcome into its band. Unscoreable pairs
// always land in BandNone regardless of the score value.
func BandForScore(score float64, scoreable bool) Band {
	if !scoreable {
		return BandNone
	}
	switch {
	case score >= highCutoff:
		return BandHigh
	case score >= mediumCutoff:
		return BandMedium
	default:
		return BandLow
	}
}

// Accuracy computes the fraction of correct outcomes. Returns 0.0 when
// total is zero.
func Accuracy(correct, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(correct) / float64(total)
}
