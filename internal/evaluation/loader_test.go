package evaluation

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "golden_pairs.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadGoldenPairs_ValidFile(t *testing.T) {
	content := `[
		{"id": "p1", "source": {"id": "q-1", "service_type": "LTL"}, "candidate": {"id": "q-2", "service_type": "LTL"}, "expected": "high", "difficulty": "easy"},
		{"id": "p2", "source": {"id": "q-1"}, "candidate": {"id": "q-3"}, "expected": "none", "difficulty": "hard", "note": "no comparable fields"}
	]`
	path := writeTempFile(t, content)

	pairs, err := LoadGoldenPairs(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].ID != "p1" {
		t.Errorf("expected id p1, got %s", pairs[0].ID)
	}
	if pairs[0].Expected != BandHigh {
		t.Errorf("expected band high, got %s", pairs[0].Expected)
	}
	if pairs[1].Source.ID != "q-1" {
		t.Errorf("expected source q-1, got %s", pairs[1].Source.ID)
	}
	if pairs[1].Note != "no comparable fields" {
		t.Errorf("unexpected note %q", pairs[1].Note)
	}
}

func TestLoadGoldenPairs_InvalidFile(t *testing.T) {
	_, err := LoadGoldenPairs("/nonexistent/path.json")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadGoldenPairs_MalformedJSON(t *testing.T) {
	path := writeTempFile(t, `{not json`)
	_, err := LoadGoldenPairs(path)
	if err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestValidateGoldenPairs_Valid(t *testing.T) {
	pairs := []GoldenPair{
		{ID: "p1", Expected: BandHigh, Difficulty: "easy"},
		{ID: "p2", Expected: BandNone, Difficulty: "hard"},
	}
	pairs[0].Source.ID, pairs[0].Candidate.ID = "q-1", "q-2"
	pairs[1].Source.ID, pairs[1].Candidate.ID = "q-1", "q-3"

	if err := ValidateGoldenPairs(pairs); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateGoldenPairs_MissingID(t *testing.T) {
	pairs := []GoldenPair{{Expected: BandHigh, Difficulty: "easy"}}
	if err := ValidateGoldenPairs(pairs); err == nil {
		t.Error("expected error for missing id")
	}
}

func TestValidateGoldenPairs_DuplicateID(t *testing.T) {
	pairs := []GoldenPair{
		{ID: "p1", Expected: BandHigh, Difficulty: "easy"},
		{ID: "p1", Expected: BandLow, Difficulty: "easy"},
	}
	for i := range pairs {
		pairs[i].Source.ID, pairs[i].Candidate.ID = "q-1", "q-2"
	}
	if err := ValidateGoldenPairs(pairs); err == nil {
		t.Error("expected error for duplicate id")
	}
}

func TestValidateGoldenPairs_InvalidBand(t *testing.T) {
	pairs := []GoldenPair{{ID: "p1", Expected: "great", Difficulty: "easy"}}
	pairs[0].Source.ID, pairs[0].Candidate.ID = "q-1", "q-2"
	if err := ValidateGoldenPairs(pairs); err == nil {
		t.Error("expected error for invalid band")
	}
}

func TestValidateGoldenPairs_InvalidDifficulty(t *testing.T) {
	pairs := []GoldenPair{{ID: "p1", Expected: BandHigh, Difficulty: "brutal"}}
	pairs[0].Source.ID, pairs[0].Candidate.ID = "q-1", "q-2"
	if err := ValidateGoldenPairs(pairs); err == nil {
		t.Error("expected error for invalid difficulty")
	}
}

func TestValidateGoldenPairs_MissingQuoteIDs(t *testing.T) {
	pairs := []GoldenPair{{ID: "p1", Expected: BandHigh, Difficulty: "easy"}}
	if err := ValidateGoldenPairs(pairs); err == nil {
		t.Error("expected error for missing quote ids")
	}
}
