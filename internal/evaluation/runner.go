package evaluation

import (
	"context"
	"time"

	"github.com/haulmatch/freightquote-backend/internal/application/services"
)

// Runner runs evaluation across a set of golden pairs.
type Runner struct {
	scorer     *services.MatchScoringService
	guardrails *Guardrails
}

func NewRunner(scorer *services.MatchScoringService) *Runner {
	return &Runner{scorer: scorer, guardrails: NewGuardrails()}
}

func (r *Runner) Run(ctx context.Context, pairs []GoldenPair) (*EvalSummary, error) {
	summary := &EvalSummary{
		AlgorithmVersion: r.scorer.Version(),
		TotalPairs:       len(pairs),
		ByBand:           make(map[Band]*BandSummary),
	}

	for _, gp := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		source := services.ExtractFeatures(&gp.Source)
		candidate := services.ExtractFeatures(&gp.Candidate)
		score, criteria, scoreable := r.scorer.Score(source, candidate)
		latency := time.Since(start)

		violations := r.guardrails.Check(gp.ID, score, criteria, scoreable)
		if gp.Source.ID == gp.Candidate.ID {
			violations = append(violations, r.guardrails.CheckSelf(gp.ID, score, scoreable)...)
		}

		actual := BandForScore(score, scoreable)
		result := EvalResult{
			PairID:     gp.ID,
			Expected:   gp.Expected,
			Actual:     actual,
			Score:      score,
			Scoreable:  scoreable,
			Correct:    actual == gp.Expected,
			Violations: violations,
			Latency:    latency,
		}

		r.updateSummary(summary, result)
	}

	r.finalizeSummary(summary)
	return summary, nil
}

func (r *Runner) updateSummary(s *EvalSummary, res EvalResult) {
	if res.Correct {
		s.Correct++
	}
	s.GuardrailViolations = append(s.GuardrailViolations, res.Violations...)
	s.AvgLatency += res.Latency

	if _, ok := s.ByBand[res.Expected]; !ok {
		s.ByBand[res.Expected] = &BandSummary{}
	}
	bs := s.ByBand[res.Expected]
	bs.Count++
	if res.Correct {
		bs.Correct++
	}
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	s.Accuracy = Accuracy(s.Correct, s.TotalPairs)
	if s.TotalPairs > 0 {
		s.AvgLatency /= time.Duration(s.TotalPairs)
	}
	for _, bs := range s.ByBand {
		bs.Accuracy = Accuracy(bs.Correct, bs.Count)
	}
}
