package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/haulmatch/freightquote-backend/internal/adapters/database"
	"github.com/haulmatch/freightquote-backend/internal/adapters/search"
	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/clients/postgres"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/clients/typesense"
	"github.com/haulmatch/freightquote-backend/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS quotes (
	id                    TEXT PRIMARY KEY,
	reference             TEXT NOT NULL DEFAULT '',
	customer_email        TEXT NOT NULL DEFAULT '',
	source_message_id     TEXT,
	origin_city           TEXT NOT NULL DEFAULT '',
	origin_state          TEXT NOT NULL DEFAULT '',
	origin_country        TEXT NOT NULL DEFAULT '',
	origin_latitude       DOUBLE PRECISION,
	origin_longitude      DOUBLE PRECISION,
	destination_city      TEXT NOT NULL DEFAULT '',
	destination_state     TEXT NOT NULL DEFAULT '',
	destination_country   TEXT NOT NULL DEFAULT '',
	destination_latitude  DOUBLE PRECISION,
	destination_longitude DOUBLE PRECISION,
	cargo_description     TEXT NOT NULL DEFAULT '',
	weight_kg             DOUBLE PRECISION,
	length_cm             DOUBLE PRECISION,
	width_cm              DOUBLE PRECISION,
	height_cm             DOUBLE PRECISION,
	unit_of_measure       TEXT NOT NULL DEFAULT 'metric',
	piece_count           INTEGER,
	service_type          TEXT NOT NULL DEFAULT '',
	hazmat                BOOLEAN,
	status                TEXT NOT NULL DEFAULT 'pending',
	initial_price         DOUBLE PRECISION,
	final_price           DOUBLE PRECISION,
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_quotes_created_at ON quotes (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_quotes_status ON quotes (status);

CREATE TABLE IF NOT EXISTS quote_matches (
	id                      TEXT PRIMARY KEY,
	source_quote_id         TEXT NOT NULL REFERENCES quotes(id),
	matched_quote_id        TEXT NOT NULL REFERENCES quotes(id),
	similarity_score        DOUBLE PRECISION NOT NULL,
	match_criteria          JSONB NOT NULL DEFAULT '{}',
	suggested_price         DOUBLE PRECISION,
	price_confidence        DOUBLE PRECISION,
	match_algorithm_version TEXT NOT NULL,
	created_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (source_quote_id, matched_quote_id, match_algorithm_version)
);

CREATE INDEX IF NOT EXISTS idx_quote_matches_source ON quote_matches (source_quote_id);

CREATE TABLE IF NOT EXISTS match_feedback (
	id                TEXT PRIMARY KEY,
	match_id          TEXT NOT NULL REFERENCES quote_matches(id),
	user_id           TEXT NOT NULL DEFAULT '',
	rating            INTEGER NOT NULL,
	reason            TEXT,
	notes             TEXT,
	actual_price_used DOUBLE PRECISION,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (match_id, user_id)
);

CREATE TABLE IF NOT EXISTS price_recommendations (
	id                TEXT PRIMARY KEY,
	quote_id          TEXT NOT NULL REFERENCES quotes(id),
	algorithm_version TEXT NOT NULL,
	recommended_price DOUBLE PRECISION,
	floor_price       DOUBLE PRECISION,
	target_price      DOUBLE PRECISION,
	ceiling_price     DOUBLE PRECISION,
	confidence        DOUBLE PRECISION NOT NULL DEFAULT 0,
	confidence_label  TEXT NOT NULL DEFAULT 'low',
	reasoning         TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (quote_id, algorithm_version)
);

CREATE TABLE IF NOT EXISTS ignore_rules (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	value      TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (kind, value)
);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			DROP TABLE IF EXISTS
				match_feedback,
				price_recommendations,
				quote_matches,
				ignore_rules,
				quotes
			CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	if _, err := pgClient.DB().ExecContext(ctx, schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	log.Println("Schema ensured")

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	var searchRepo *search.TypesenseAdapter
	if err == nil {
		searchRepo = search.NewTypesenseAdapter(tsClient)
		if err := searchRepo.InitSchema(ctx); err != nil {
			log.Printf("Warning: failed to init search schema: %v", err)
			searchRepo = nil
		}
	}

	quoteRepo := database.NewQuoteAdapter(pgClient)
	ignoreRuleRepo := database.NewIgnoreRuleAdapter(pgClient)

	quotes := seedQuotes()
	for i := range quotes {
		q := &quotes[i]
		if err := quoteRepo.Create(ctx, q); err != nil {
			log.Printf("Failed to create quote %s: %v", q.Reference, err)
			continue
		}
		if searchRepo != nil {
			if err := searchRepo.Index(ctx, q); err != nil {
				log.Printf("Failed to index quote %s: %v", q.Reference, err)
			}
		}
	}
	log.Printf("Seeded %d quotes", len(quotes))

	rules := []entities.IgnoreRule{
		{ID: uuid.New().String(), Kind: entities.IgnoreRuleSender, Value: "spam@freightblast.example", CreatedAt: time.Now()},
		{ID: uuid.New().String(), Kind: entities.IgnoreRuleService, Value: "unknown", CreatedAt: time.Now()},
	}
	for i := range rules {
		if err := ignoreRuleRepo.Create(ctx, &rules[i]); err != nil {
			log.Printf("Failed to create ignore rule %s: %v", rules[i].Value, err)
		}
	}
	log.Printf("Seeded %d ignore rules", len(rules))
}

func seedQuotes() []entities.Quote {
	now := time.Now()
	f := func(v float64) *float64 { return &v }
	b := func(v bool) *bool { return &v }
	n := func(v int) *int { return &v }

	mk := func(ref, originCity, originCountry, destCity, destCountry, service string, weight float64, status entities.QuoteStatus, initial, final *float64, ageDays int) entities.Quote {
		q := entities.Quote{
			ID:            uuid.New().String(),
			Reference:     ref,
			CustomerEmail: "ops@" + ref + ".example",
			CargoDesc:     "palletized goods",
			WeightKg:      f(weight),
			LengthCm:      f(120),
			WidthCm:       f(100),
			HeightCm:      f(110),
			UnitOfMeasure: "metric",
			PieceCount:    n(2),
			ServiceType:   service,
			Hazmat:        b(false),
			Status:        status,
			InitialPrice:  initial,
			FinalPrice:    final,
			CreatedAt:     now.AddDate(0, 0, -ageDays),
			UpdatedAt:     now.AddDate(0, 0, -ageDays),
		}
		q.Origin = entities.Location{City: originCity, Country: originCountry}
		q.Destination = entities.Location{City: destCity, Country: destCountry}
		return q
	}

	return []entities.Quote{
		mk("hamro-01", "Hamburg", "DE", "Rotterdam", "NL", "FTL", 8200, entities.QuoteStatusAccepted, f(1450), f(1390), 40),
		mk("hamro-02", "Hamburg", "DE", "Rotterdam", "NL", "FTL", 7900, entities.QuoteStatusAccepted, f(1480), f(1420), 25),
		mk("hamro-03", "Bremen", "DE", "Rotterdam", "NL", "FTL", 8400, entities.QuoteStatusQuoted, f(1520), nil, 12),
		mk("deparis-01", "Hamburg", "DE", "Paris", "FR", "LTL", 950, entities.QuoteStatusAccepted, f(520), f(495), 30),
		mk("deparis-02", "Cologne", "DE", "Paris", "FR", "LTL", 1100, entities.QuoteStatusDeclined, f(610), nil, 18),
		mk("transat-01", "Hamburg", "DE", "New York", "US", "Ocean", 12400, entities.QuoteStatusAccepted, f(3900), f(3650), 60),
		mk("transat-02", "Antwerp", "BE", "New York", "US", "Ocean", 11800, entities.QuoteStatusQuoted, f(4100), nil, 9),
		mk("airexp-01", "Frankfurt", "DE", "Singapore", "SG", "Air", 420, entities.QuoteStatusAccepted, f(2880), f(2700), 15),
		mk("fresh-01", "Hamburg", "DE", "Rotterdam", "NL", "FTL", 8100, entities.QuoteStatusPending, nil, nil, 0),
	}
}
