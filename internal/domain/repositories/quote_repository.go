package repositories

import (
	"context"

	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
)

// QuoteRepository defines the interface for quote data operations
type QuoteRepository interface {
	// Create creates a new quote
	Create(ctx context.Context, quote *entities.Quote) error

	// GetByID retrieves a quote by ID
	GetByID(ctx context.Context, id string) (*entities.Quote, error)

	// GetByIDs retrieves multiple quotes by their IDs
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Quote, error)

	// List retrieves quotes with filters
	List(ctx context.Context, filter QuoteFilter) ([]*entities.Quote, error)

	// ListCandidates retrieves the candidate pool for matching: prior quotes
	// excluding the given quote, oldest-capped by the filter limit
	ListCandidates(ctx context.Context, excludeID string, filter CandidateFilter) ([]*entities.Quote, error)
}

// QuoteSearchRepository defines the interface for the quote search index
// (Typesense), used for lane-filtered candidate lookups and backfills.
type QuoteSearchRepository interface {
	// InitSchema ensures the quote collection exists
	InitSchema(ctx context.Context) error

	// Index indexes a quote
	Index(ctx context.Context, quote *entities.Quote) error

	// Delete removes a quote from the index
	Delete(ctx context.Context, id string) error

	// SearchLane returns quote IDs on the given origin/destination country
	// lane, optionally narrowed to a service type
	SearchLane(ctx context.Context, params LaneSearchParams) ([]string, error)
}

// QuoteFilter defines filters for listing quotes
type QuoteFilter struct {
	Status      string
	ServiceType string
	Limit       int
	Offset      int
}

// CandidateFilter narrows the candidate pool for a matching run
type CandidateFilter struct {
	// Statuses restricts candidates to quotes in these statuses; empty means
	// any priced quote
	Statuses []entities.QuoteStatus
	Limit    int
}

// LaneSearchParams defines parameters for lane search on the quote index
type LaneSearchParams struct {
	OriginCountry      string
	DestinationCountry string
	ServiceType        string
	Limit              int
}
