package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
	"github.com/haulmatch/freightquote-backend/internal/domain/providers"
	"github.com/haulmatch/freightquote-backend/internal/domain/repositories"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/observability"
	apperrors "github.com/haulmatch/freightquote-backend/pkg/errors"
)

// FeedbackService records and lists human feedback on quote matches. Capture
// only: the offline recalibration that consumes this data lives elsewhere.
type FeedbackService struct {
	repo      repositories.FeedbackRepository
	matchRepo repositories.QuoteMatchRepository
	eventBus  providers.EventBus
}

// NewFeedbackService creates a new feedback service. eventBus may be nil.
func NewFeedbackService(repo repositories.FeedbackRepository, matchRepo repositories.QuoteMatchRepository, eventBus providers.EventBus) *FeedbackService {
	return &FeedbackService{repo: repo, matchRepo: matchRepo, eventBus: eventBus}
}

// RecordInput is one feedback submission. UserID may be empty (anonymous);
// the empty user is a uniqueness key like any other.
type RecordInput struct {
	MatchID         string
	UserID          string
	Rating          int
	Reason          *string
	Notes           *string
	ActualPriceUsed *float64
}

// Record validates and upserts one feedback row, returning the persisted
// state. A resubmission for the same (match, user) replaces the prior
// verdict and refreshes the timestamp instead of adding a row; the
// repository guarantees that atomically, so concurrent submissions cannot
// duplicate or lose writes.
func (s *FeedbackService) Record(ctx context.Context, input RecordInput) (*entities.MatchFeedback, error) {
	if input.MatchID == "" {
		return nil, apperrors.NewValidationError("match id is required")
	}
	if input.Rating != entities.RatingUp && input.Rating != entities.RatingDown {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("rating must be +1 or -1, got %d", input.Rating))
	}
	if input.ActualPriceUsed != nil && *input.ActualPriceUsed < 0 {
		return nil, apperrors.NewValidationError("actual price used cannot be negative")
	}

	match, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stored, err := s.repo.Upsert(ctx, &entities.MatchFeedback{
		ID:              uuid.New().String(),
		MatchID:         input.MatchID,
		UserID:          input.UserID,
		Rating:          input.Rating,
		Reason:          input.Reason,
		Notes:           input.Notes,
		ActualPriceUsed: input.ActualPriceUsed,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		event := entities.NewMatchEvent(match.SourceQuoteID, entities.MatchEventTypeFeedbackReceived, match.MatchAlgorithmVersion, 0)
		if err := s.eventBus.Publish(ctx, providers.EventChannelFeedback, event); err != nil {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Str("match_id", input.MatchID).
				Msg("failed to publish feedback event")
		}
	}

	return stored, nil
}

// List returns all feedback rows for a match, most recently updated first.
// A match with no feedback (or an unknown match id) yields an empty slice,
// never an error.
func (s *FeedbackService) List(ctx context.Context, matchID string) ([]*entities.MatchFeedback, error) {
	if matchID == "" {
		return nil, apperrors.NewValidationError("match id is required")
	}
	return s.repo.ListByMatch(ctx, matchID)
}
