package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
	"github.com/haulmatch/freightquote-backend/internal/domain/providers"
	"github.com/haulmatch/freightquote-backend/internal/domain/repositories"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/observability"
	apperrors "github.com/haulmatch/freightquote-backend/pkg/errors"
)

// QuoteMatchingService runs the full matching pipeline for one target quote:
// load candidates, drop ignored senders/services, rank, derive the price
// recommendation, persist. Runs for different targets share no mutable
// state, so they can execute concurrently without coordination.
type QuoteMatchingService struct {
	quoteRepo   repositories.QuoteRepository
	matchRepo   repositories.QuoteMatchRepository
	recRepo     repositories.PriceRecommendationRepository
	ignoreList  providers.IgnoreListProvider
	eventBus    providers.EventBus
	ranker      *MatchRankingService
	recommender *PriceRecommendationService

	candidateLimit int
}

// NewQuoteMatchingService creates the matching orchestrator. eventBus may be
// nil; events are best-effort.
func NewQuoteMatchingService(
	quoteRepo repositories.QuoteRepository,
	matchRepo repositories.QuoteMatchRepository,
	recRepo repositories.PriceRecommendationRepository,
	ignoreList providers.IgnoreListProvider,
	eventBus providers.EventBus,
	ranker *MatchRankingService,
	recommender *PriceRecommendationService,
	candidateLimit int,
) *QuoteMatchingService {
	if candidateLimit <= 0 {
		candidateLimit = 500
	}
	return &QuoteMatchingService{
		quoteRepo:      quoteRepo,
		matchRepo:      matchRepo,
		recRepo:        recRepo,
		ignoreList:     ignoreList,
		eventBus:       eventBus,
		ranker:         ranker,
		recommender:    recommender,
		candidateLimit: candidateLimit,
	}
}

// ComputeMatches runs the pipeline for one quote under one algorithm version
// and returns the persisted matches. Zero matches is a valid outcome:
// nothing is written and an empty slice comes back. Re-running the same
// version upserts in place, so a retry after a partial failure needs no
// cleanup; prior versions' rows are never touched.
func (s *QuoteMatchingService) ComputeMatches(ctx context.Context, quoteID, algorithmVersion string) ([]*entities.QuoteMatch, error) {
	if quoteID == "" {
		return nil, apperrors.NewValidationError("quote id is required")
	}

	start := time.Now()

	scorer, err := NewMatchScoringService(algorithmVersion)
	if err != nil {
		return nil, err
	}

	target, err := s.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.quoteRepo.ListCandidates(ctx, quoteID, repositories.CandidateFilter{
		Limit: s.candidateLimit,
	})
	if err != nil {
		return nil, err
	}

	candidates, err = s.filterIgnored(ctx, candidates)
	if err != nil {
		return nil, err
	}

	matches := s.ranker.Rank(ctx, scorer, target, candidates)
	// A cancelled ranking pass returns whatever was scored so far; a partial
	// set must never be persisted as a completed run.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		observability.RecordMatchRun(ctx, algorithmVersion, 0, time.Since(start))
		observability.LoggerFromContext(ctx).Info().
			Str("quote_id", quoteID).
			Str("algorithm_version", algorithmVersion).
			Int("candidates", len(candidates)).
			Msg("matching run produced no matches")
		return []*entities.QuoteMatch{}, nil
	}

	candidatesByID := make(map[string]*entities.Quote, len(candidates))
	for _, c := range candidates {
		candidatesByID[c.ID] = c
	}

	rec := s.recommender.Build(quoteID, algorithmVersion, matches, candidatesByID)

	for _, m := range matches {
		m.ID = uuid.New().String()
		if rec != nil && rec.RecommendedPrice != nil {
			price := *rec.RecommendedPrice
			confidence := rec.Confidence
			m.SuggestedPrice = &price
			m.PriceConfidence = &confidence
		}
	}

	if err := s.matchRepo.UpsertBatch(ctx, matches); err != nil {
		return nil, err
	}

	if rec != nil {
		rec.ID = uuid.New().String()
		if err := s.recRepo.Upsert(ctx, rec); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, entities.NewMatchEvent(quoteID, entities.MatchEventTypeRunCompleted, algorithmVersion, len(matches)))

	observability.RecordMatchRun(ctx, algorithmVersion, len(matches), time.Since(start))
	observability.LoggerFromContext(ctx).Info().
		Str("quote_id", quoteID).
		Str("algorithm_version", algorithmVersion).
		Int("candidates", len(candidates)).
		Int("matches", len(matches)).
		Msg("matching run completed")

	return matches, nil
}

// ListMatches returns all stored matches for a quote, newest algorithm
// version first.
func (s *QuoteMatchingService) ListMatches(ctx context.Context, quoteID string) ([]*entities.QuoteMatch, error) {
	if quoteID == "" {
		return nil, apperrors.NewValidationError("quote id is required")
	}
	return s.matchRepo.ListBySource(ctx, quoteID)
}

// LatestRecommendation returns the most recent price recommendation for a
// quote. An existing quote with no recommendation yields a not-found error
// the caller renders as "no recommendation available".
func (s *QuoteMatchingService) LatestRecommendation(ctx context.Context, quoteID string) (*entities.PriceRecommendation, error) {
	if quoteID == "" {
		return nil, apperrors.NewValidationError("quote id is required")
	}
	if _, err := s.quoteRepo.GetByID(ctx, quoteID); err != nil {
		return nil, err
	}
	return s.recRepo.GetLatest(ctx, quoteID)
}

func (s *QuoteMatchingService) filterIgnored(ctx context.Context, candidates []*entities.Quote) ([]*entities.Quote, error) {
	if s.ignoreList == nil {
		return candidates, nil
	}

	kept := make([]*entities.Quote, 0, len(candidates))
	for _, c := range candidates {
		ignored, err := s.ignoreList.IsSenderIgnored(ctx, c.CustomerEmail)
		if err != nil {
			return nil, err
		}
		if !ignored {
			ignored, err = s.ignoreList.IsServiceIgnored(ctx, c.ServiceType)
			if err != nil {
				return nil, err
			}
		}
		if !ignored {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

func (s *QuoteMatchingService) publish(ctx context.Context, event *entities.MatchEvent) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, providers.EventChannelMatchRuns, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("quote_id", event.QuoteID).
			Msg("failed to publish match event")
	}
	// Quote-scoped channel feeds per-quote SSE streams.
	if err := s.eventBus.Publish(ctx, providers.GetQuoteChannel(event.QuoteID), event); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("quote_id", event.QuoteID).
			Msg("failed to publish quote-scoped match event")
	}
}
