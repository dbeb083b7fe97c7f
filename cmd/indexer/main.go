package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/haulmatch/freightquote-backend/internal/adapters/database"
	"github.com/haulmatch/freightquote-backend/internal/adapters/search"
	"github.com/haulmatch/freightquote-backend/internal/domain/repositories"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/clients/postgres"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/clients/typesense"
	"github.com/haulmatch/freightquote-backend/pkg/config"
)

const indexPageSize = 500

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatalf("Invalid interval %q: %v", intervalValue, err)
		}
		if interval <= 0 {
			log.Fatalf("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset); err != nil {
			log.Printf("Reindex failed: %v", err)
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Printf("Reindex complete. Next run in %s.", interval)

		select {
		case <-ctx.Done():
			log.Println("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Index rebuilds only read, so they can run entirely off a replica.
	dbClient, err := postgres.NewMultiDBClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	quoteRepo := database.NewQuoteAdapter(dbClient.Read())

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	adapter := search.NewTypesenseAdapter(tsClient)

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Println("Deleting quotes collection before reindex")
		if _, err := tsClient.Client().Collection(typesense.QuotesCollection).Delete(ctx); err != nil {
			log.Printf("Warning: failed to delete collection: %v", err)
		}
	}

	if err := adapter.InitSchema(ctx); err != nil {
		return err
	}

	indexed := 0
	for offset := 0; ; offset += indexPageSize {
		quotes, err := quoteRepo.List(ctx, repositories.QuoteFilter{
			Limit:  indexPageSize,
			Offset: offset,
		})
		if err != nil {
			return err
		}
		if len(quotes) == 0 {
			break
		}

		for _, q := range quotes {
			if q == nil {
				continue
			}
			if err := adapter.Index(ctx, q); err != nil {
				log.Printf("Failed to index quote %s: %v", q.ID, err)
				continue
			}
			indexed++
		}

		if len(quotes) < indexPageSize {
			break
		}
	}

	log.Printf("Indexing complete. %d quotes indexed.", indexed)
	return nil
}
