package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadGoldenPairs reads and parses a golden pair set from a JSON file.
func LoadGoldenPairs(path string) ([]GoldenPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden pairs file: %w", err)
	}

	var pairs []GoldenPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("failed to parse golden pairs: %w", err)
	}

	return pairs, nil
}

var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// ValidateGoldenPairs checks that all golden pairs have required fields and valid values.
func ValidateGoldenPairs(pairs []GoldenPair) error {
	seen := make(map[string]struct{}, len(pairs))

	for i, p := range pairs {
		if p.ID == "" {
			return fmt.Errorf("pair at index %d: missing id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("pair at index %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = struct{}{}

		if p.Source.ID == "" || p.Candidate.ID == "" {
			return fmt.Errorf("pair %q: source and candidate quotes need ids", p.ID)
		}
		if !p.Expected.IsValid() {
			return fmt.Errorf("pair %q: invalid expected band %q", p.ID, p.Expected)
		}
		if !validDifficulties[p.Difficulty] {
			return fmt.Errorf("pair %q: invalid difficulty %q (must be easy/medium/hard)", p.ID, p.Difficulty)
		}
	}

	return nil
}
