package repositories

import (
	"context"

	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
)

// QuoteMatchRepository defines the interface for quote match persistence
type QuoteMatchRepository interface {
	// UpsertBatch writes the matches of one run. Conflicts on
	// (source, matched, algorithm version) update in place so re-running a
	// version is idempotent
	UpsertBatch(ctx context.Context, matches []*entities.QuoteMatch) error

	// GetByID retrieves a match by ID
	GetByID(ctx context.Context, id string) (*entities.QuoteMatch, error)

	// ListBySource retrieves all matches for a source quote, newest algorithm
	// version first, then by descending similarity
	ListBySource(ctx context.Context, sourceQuoteID string) ([]*entities.QuoteMatch, error)

	// ListBySourceAndVersion retrieves the matches of one run, descending by
	// similarity
	ListBySourceAndVersion(ctx context.Context, sourceQuoteID, algorithmVersion string) ([]*entities.QuoteMatch, error)
}

// PriceRecommendationRepository defines the interface for recommendation persistence
type PriceRecommendationRepository interface {
	// Upsert writes the recommendation for (quote, algorithm version),
	// replacing any previous run's output for that version
	Upsert(ctx context.Context, rec *entities.PriceRecommendation) error

	// GetLatest retrieves the most recent recommendation for a quote across
	// algorithm versions
	GetLatest(ctx context.Context, quoteID string) (*entities.PriceRecommendation, error)
}
