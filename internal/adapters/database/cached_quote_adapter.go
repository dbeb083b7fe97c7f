package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
	"github.com/haulmatch/freightquote-backend/internal/domain/providers"
	"github.com/haulmatch/freightquote-backend/internal/domain/repositories"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/observability"
)

// CachedQuoteAdapter wraps a QuoteRepository with read caching. Quotes are
// immutable once finalized, so single-quote reads cache well; candidate
// pools are cached briefly since new history only accretes.
type CachedQuoteAdapter struct {
	adapter repositories.QuoteRepository
	cache   providers.CacheProvider
}

// NewCachedQuoteAdapter creates a new cached quote adapter
func NewCachedQuoteAdapter(adapter repositories.QuoteRepository, cache providers.CacheProvider) repositories.QuoteRepository {
	return &CachedQuoteAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	quoteByIDTTL     = 300
	candidatePoolTTL = 120
)

func quoteCacheKey(id string) string {
	return fmt.Sprintf("quote:%s", id)
}

func candidatePoolCacheKey(excludeID string, limit int) string {
	return fmt.Sprintf("quotes:candidates:%s:%d", excludeID, limit)
}

// Create passes through and leaves cached candidate pools to expire on their
// own TTL.
func (a *CachedQuoteAdapter) Create(ctx context.Context, quote *entities.Quote) error {
	return a.adapter.Create(ctx, quote)
}

// GetByID retrieves a quote by ID with caching
func (a *CachedQuoteAdapter) GetByID(ctx context.Context, id string) (*entities.Quote, error) {
	cacheKey := quoteCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var quote entities.Quote
		if err := json.Unmarshal(cached, &quote); err == nil {
			return &quote, nil
		}
	}

	quote, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.setAsync(ctx, cacheKey, quote, quoteByIDTTL)
	return quote, nil
}

// GetByIDs retrieves multiple quotes by their IDs (uncached; bulk reads are
// rare and always follow a fresh candidate query)
func (a *CachedQuoteAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Quote, error) {
	return a.adapter.GetByIDs(ctx, ids)
}

// List retrieves quotes with filters (uncached)
func (a *CachedQuoteAdapter) List(ctx context.Context, filter repositories.QuoteFilter) ([]*entities.Quote, error) {
	return a.adapter.List(ctx, filter)
}

// ListCandidates retrieves the candidate pool with caching
func (a *CachedQuoteAdapter) ListCandidates(ctx context.Context, excludeID string, filter repositories.CandidateFilter) ([]*entities.Quote, error) {
	// Status-filtered pools are the exception path; skip the cache there.
	if len(filter.Statuses) > 0 {
		return a.adapter.ListCandidates(ctx, excludeID, filter)
	}

	cacheKey := candidatePoolCacheKey(excludeID, filter.Limit)
	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var quotes []*entities.Quote
		if err := json.Unmarshal(cached, &quotes); err == nil {
			return quotes, nil
		}
	}

	quotes, err := a.adapter.ListCandidates(ctx, excludeID, filter)
	if err != nil {
		return nil, err
	}

	a.setAsync(ctx, cacheKey, quotes, candidatePoolTTL)
	return quotes, nil
}

// setAsync updates the cache off the request path.
func (a *CachedQuoteAdapter) setAsync(ctx context.Context, key string, value interface{}, ttlSeconds int) {
	logger := observability.LoggerFromContext(ctx)
	go func() {
		data, err := json.Marshal(value)
		if err != nil {
			return
		}
		if err := a.cache.Set(context.Background(), key, data, ttlSeconds); err != nil {
			logger.Debug().Err(err).Str("key", key).Msg("failed to cache quotes")
		}
	}()
}
