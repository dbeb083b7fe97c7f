package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haulmatch/freightquote-backend/internal/adapters/database"
	"github.com/haulmatch/freightquote-backend/internal/adapters/ignorelist"
	"github.com/haulmatch/freightquote-backend/internal/application/services"
	"github.com/haulmatch/freightquote-backend/internal/domain/repositories"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/clients/postgres"
	"github.com/haulmatch/freightquote-backend/pkg/config"
)

const backfillPageSize = 200

func main() {
	var algorithmVersion string
	var quoteID string

	flag.StringVar(&algorithmVersion, "version", services.AlgorithmV1, "Algorithm version to compute matches under")
	flag.StringVar(&quoteID, "quote", "", "Single quote ID to backfill")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Candidate reads page large result sets, so they go to a replica when
	// one is configured; match and recommendation writes stay on the primary.
	dbClient, err := postgres.NewMultiDBClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbClient.Close()

	quoteRepo := database.NewQuoteAdapter(dbClient.Read())
	matchRepo := database.NewQuoteMatchAdapter(dbClient.Primary())
	recRepo := database.NewPriceRecommendationAdapter(dbClient.Primary())
	ignoreRuleRepo := database.NewIgnoreRuleAdapter(dbClient.Read())

	ignoreList := ignorelist.NewSnapshotProvider(ignoreRuleRepo, cfg.Matching.IgnoreListTTL)

	ranker := services.NewMatchRankingService(
		cfg.Matching.MinScore,
		cfg.Matching.TopK,
		cfg.Matching.ScoringWorkers,
	)
	recommender := services.NewPriceRecommendationService()

	// No event bus: a backfill run should not fan notifications out.
	svc := services.NewQuoteMatchingService(
		quoteRepo,
		matchRepo,
		recRepo,
		ignoreList,
		nil,
		ranker,
		recommender,
		cfg.Matching.CandidateLimit,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Now()

	if quoteID != "" {
		log.Printf("Backfilling single quote %s under %s", quoteID, algorithmVersion)
		matches, err := svc.ComputeMatches(ctx, quoteID, algorithmVersion)
		if err != nil {
			log.Fatalf("Failed to backfill quote %s: %v", quoteID, err)
		}
		log.Printf("Done: %d matches in %s", len(matches), time.Since(start))
		return
	}

	log.Printf("Backfilling all quotes under %s...", algorithmVersion)

	processed, failed, totalMatches := 0, 0, 0
	for offset := 0; ; offset += backfillPageSize {
		quotes, err := quoteRepo.List(ctx, repositories.QuoteFilter{
			Limit:  backfillPageSize,
			Offset: offset,
		})
		if err != nil {
			log.Fatalf("Failed to list quotes: %v", err)
		}
		if len(quotes) == 0 {
			break
		}

		for _, q := range quotes {
			if ctx.Err() != nil {
				log.Println("Backfill interrupted")
				return
			}
			if q == nil {
				continue
			}

			matches, err := svc.ComputeMatches(ctx, q.ID, algorithmVersion)
			if err != nil {
				log.Printf("Failed for quote %s: %v", q.ID, err)
				failed++
				continue
			}
			processed++
			totalMatches += len(matches)
		}

		if len(quotes) < backfillPageSize {
			break
		}
	}

	log.Printf("Backfill complete in %s", time.Since(start))
	log.Printf("Quotes processed: %d", processed)
	log.Printf("Failures: %d", failed)
	log.Printf("Matches written: %d", totalMatches)
}
