package evaluation

import (
	"context"
	"testing"

	"github.com/haulmatch/freightquote-backend/internal/application/services"
	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
)

func ltlQuote(id string) entities.Quote {
	weight := 1200.0
	hazmat := false
	q := entities.Quote{
		ID:          id,
		ServiceType: "LTL",
		WeightKg:    &weight,
		Hazmat:      &hazmat,
	}
	q.Origin = entities.Location{City: "Hamburg", Country: "DE"}
	q.Destination = entities.Location{City: "Rotterdam", Country: "NL"}
	return q
}

func TestRunner_Run(t *testing.T) {
	scorer, err := services.NewMatchScoringService(services.AlgorithmV1)
	if err != nil {
		t.Fatalf("failed to create scorer: %v", err)
	}

	identical := GoldenPair{
		ID:         "p-identical",
		Source:     ltlQuote("q-1"),
		Candidate:  ltlQuote("q-1"),
		Expected:   BandHigh,
		Difficulty: "easy",
	}
	empty := GoldenPair{
		ID:         "p-empty",
		Source:     entities.Quote{ID: "q-2"},
		Candidate:  entities.Quote{ID: "q-3"},
		Expected:   BandNone,
		Difficulty: "easy",
	}
	mislabeled := GoldenPair{
		ID:         "p-mislabeled",
		Source:     ltlQuote("q-4"),
		Candidate:  ltlQuote("q-5"),
		Expected:   BandLow, // identical features, will actually score high
		Difficulty: "hard",
	}

	summary, err := NewRunner(scorer).Run(context.Background(), []GoldenPair{identical, empty, mislabeled})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalPairs != 3 {
		t.Fatalf("expected 3 pairs, got %d", summary.TotalPairs)
	}
	if summary.Correct != 2 {
		t.Errorf("expected 2 correct, got %d", summary.Correct)
	}
	if !almostEqual(summary.Accuracy, 2.0/3.0) {
		t.Errorf("expected accuracy 2/3, got %f", summary.Accuracy)
	}
	if len(summary.GuardrailViolations) != 0 {
		t.Errorf("expected no guardrail violations, got %v", summary.GuardrailViolations)
	}
	if summary.AlgorithmVersion != services.AlgorithmV1 {
		t.Errorf("unexpected algorithm version %s", summary.AlgorithmVersion)
	}

	high := summary.ByBand[BandHigh]
	if high == nil || high.Count != 1 || high.Correct != 1 {
		t.Errorf("unexpected high band summary: %+v", high)
	}
	low := summary.ByBand[BandLow]
	if low == nil || low.Count != 1 || low.Correct != 0 {
		t.Errorf("unexpected low band summary: %+v", low)
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	scorer, err := services.NewMatchScoringService(services.AlgorithmV1)
	if err != nil {
		t.Fatalf("failed to create scorer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewRunner(scorer).Run(ctx, []GoldenPair{{ID: "p1"}})
	if err == nil {
		t.Error("expected error from cancelled context")
	}
}
