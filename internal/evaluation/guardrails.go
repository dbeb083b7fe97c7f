package evaluation

import "fmt"

// Guardrails checks scoring invariants that must hold for every pair,
// independent of what the golden label says.
type Guardrails struct{}

func NewGuardrails() *Guardrails {
	return &Guardrails{}
}

// Check returns one violation string per broken invariant: the aggregate
// score and every criterion value must sit in [0,1], and an unscoreable
// pair must not carry criteria.
func (g *Guardrails) Check(pairID string, score float64, criteria map[string]float64, scoreable bool) []string {
	var violations []string

	if !scoreable {
		if len(criteria) > 0 {
			violations = append(violations, fmt.Sprintf("pair %s: unscoreable but %d criteria reported", pairID, len(criteria)))
		}
		return violations
	}

	if score < 0 || score > 1 {
		violations = append(violations, fmt.Sprintf("pair %s: aggregate score %f out of [0,1]", pairID, score))
	}
	if len(criteria) == 0 {
		violations = append(violations, fmt.Sprintf("pair %s: scoreable but no criteria reported", pairID))
	}
	for name, v := range criteria {
		if v < 0 || v > 1 {
			violations = append(violations, fmt.Sprintf("pair %s: criterion %s value %f out of [0,1]", pairID, name, v))
		}
	}

	return violations
}

// CheckSelf verifies that comparing a scoreable quote against itself yields
// a perfect score.
func (g *Guardrails) CheckSelf(pairID string, score float64, scoreable bool) []string {
	if !scoreable {
		return nil
	}
	if score != 1.0 {
		return []string{fmt.Sprintf("pair %s: self-comparison scored %f, want 1.0", pairID, score)}
	}
	return nil
}
