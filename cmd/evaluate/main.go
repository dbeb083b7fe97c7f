package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/haulmatch/freightquote-backend/internal/application/services"
	"github.com/haulmatch/freightquote-backend/internal/evaluation"
)

func main() {
	var pairsPath string
	var algorithmVersion string

	flag.StringVar(&pairsPath, "pairs", "config/golden_pairs.json", "Path to the golden pairs JSON file")
	flag.StringVar(&algorithmVersion, "version", services.AlgorithmV1, "Algorithm version to evaluate")
	flag.Parse()

	if _, err := os.Stat("backend/" + pairsPath); err == nil {
		pairsPath = "backend/" + pairsPath
	}

	pairs, err := evaluation.LoadGoldenPairs(pairsPath)
	if err != nil {
		log.Fatalf("Failed to load golden pairs: %v", err)
	}
	if err := evaluation.ValidateGoldenPairs(pairs); err != nil {
		log.Fatalf("Invalid golden pairs: %v", err)
	}

	scorer, err := services.NewMatchScoringService(algorithmVersion)
	if err != nil {
		log.Fatalf("Failed to create scorer: %v", err)
	}

	runner := evaluation.NewRunner(scorer)
	summary, err := runner.Run(context.Background(), pairs)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	// Output results as JSON
	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))

	if len(summary.GuardrailViolations) > 0 {
		os.Exit(1)
	}
}
