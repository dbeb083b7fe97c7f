package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/haulmatch/freightquote-backend/internal/application/services"
	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
	"github.com/haulmatch/freightquote-backend/internal/domain/providers"
	apperrors "github.com/haulmatch/freightquote-backend/pkg/errors"
)

type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Upsert(ctx context.Context, feedback *entities.MatchFeedback) (*entities.MatchFeedback, error) {
	args := m.Called(ctx, feedback)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MatchFeedback), args.Error(1)
}

func (m *MockFeedbackRepository) ListByMatch(ctx context.Context, matchID string) ([]*entities.MatchFeedback, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.MatchFeedback), args.Error(1)
}

func storedMatch(id string) *entities.QuoteMatch {
	return &entities.QuoteMatch{
		ID:                    id,
		SourceQuoteID:         "q-source",
		MatchedQuoteID:        "q-matched",
		SimilarityScore:       0.82,
		MatchAlgorithmVersion: services.AlgorithmV1,
	}
}

func TestFeedbackService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("records a thumbs up", func(t *testing.T) {
		// Arrange
		repo := new(MockFeedbackRepository)
		matchRepo := new(MockQuoteMatchRepository)
		eventBus := new(MockEventBus)

		matchRepo.On("GetByID", ctx, "m-1").Return(storedMatch("m-1"), nil)
		repo.On("Upsert", ctx, mock.MatchedBy(func(fb *entities.MatchFeedback) bool {
			return fb.MatchID == "m-1" &&
				fb.UserID == "u-1" &&
				fb.Rating == entities.RatingUp &&
				fb.ID != "" &&
				!fb.CreatedAt.IsZero()
		})).Return(&entities.MatchFeedback{ID: "fb-1", MatchID: "m-1", UserID: "u-1", Rating: entities.RatingUp}, nil)
		eventBus.On("Publish", ctx, providers.EventChannelFeedback, mock.MatchedBy(func(e *entities.MatchEvent) bool {
			return e.QuoteID == "q-source" && e.EventType == entities.MatchEventTypeFeedbackReceived
		})).Return(nil)

		svc := services.NewFeedbackService(repo, matchRepo, eventBus)

		// Act
		stored, err := svc.Record(ctx, services.RecordInput{
			MatchID: "m-1",
			UserID:  "u-1",
			Rating:  entities.RatingUp,
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "fb-1", stored.ID)
		repo.AssertExpectations(t)
		eventBus.AssertExpectations(t)
	})

	t.Run("forwards optional fields", func(t *testing.T) {
		repo := new(MockFeedbackRepository)
		matchRepo := new(MockQuoteMatchRepository)

		reason := "price way off"
		notes := "customer negotiated down"
		price := 1450.0

		matchRepo.On("GetByID", ctx, "m-1").Return(storedMatch("m-1"), nil)
		repo.On("Upsert", ctx, mock.MatchedBy(func(fb *entities.MatchFeedback) bool {
			return fb.Rating == entities.RatingDown &&
				fb.Reason != nil && *fb.Reason == reason &&
				fb.Notes != nil && *fb.Notes == notes &&
				fb.ActualPriceUsed != nil && *fb.ActualPriceUsed == price
		})).Return(&entities.MatchFeedback{ID: "fb-1"}, nil)

		svc := services.NewFeedbackService(repo, matchRepo, nil)

		_, err := svc.Record(ctx, services.RecordInput{
			MatchID:         "m-1",
			Rating:          entities.RatingDown,
			Reason:          &reason,
			Notes:           &notes,
			ActualPriceUsed: &price,
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("rejects ratings outside the thumb scale", func(t *testing.T) {
		svc := services.NewFeedbackService(new(MockFeedbackRepository), new(MockQuoteMatchRepository), nil)

		for _, rating := range []int{0, 2, -2, 5} {
			_, err := svc.Record(ctx, services.RecordInput{MatchID: "m-1", Rating: rating})

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr, "rating %d", rating)
			assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
		}
	})

	t.Run("rejects negative actual price", func(t *testing.T) {
		svc := services.NewFeedbackService(new(MockFeedbackRepository), new(MockQuoteMatchRepository), nil)

		bad := -10.0
		_, err := svc.Record(ctx, services.RecordInput{
			MatchID:         "m-1",
			Rating:          entities.RatingUp,
			ActualPriceUsed: &bad,
		})

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	})

	t.Run("requires a match id", func(t *testing.T) {
		svc := services.NewFeedbackService(new(MockFeedbackRepository), new(MockQuoteMatchRepository), nil)

		_, err := svc.Record(ctx, services.RecordInput{Rating: entities.RatingUp})
		assert.Error(t, err)
	})

	t.Run("unknown match is not found, nothing written", func(t *testing.T) {
		repo := new(MockFeedbackRepository)
		matchRepo := new(MockQuoteMatchRepository)

		matchRepo.On("GetByID", ctx, "m-missing").Return(nil, apperrors.NewNotFoundError("match not found"))

		svc := services.NewFeedbackService(repo, matchRepo, nil)

		_, err := svc.Record(ctx, services.RecordInput{MatchID: "m-missing", Rating: entities.RatingUp})

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("anonymous feedback is allowed", func(t *testing.T) {
		repo := new(MockFeedbackRepository)
		matchRepo := new(MockQuoteMatchRepository)

		matchRepo.On("GetByID", ctx, "m-1").Return(storedMatch("m-1"), nil)
		repo.On("Upsert", ctx, mock.MatchedBy(func(fb *entities.MatchFeedback) bool {
			return fb.UserID == ""
		})).Return(&entities.MatchFeedback{ID: "fb-1"}, nil)

		svc := services.NewFeedbackService(repo, matchRepo, nil)

		_, err := svc.Record(ctx, services.RecordInput{MatchID: "m-1", Rating: entities.RatingDown})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestFeedbackService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stored feedback", func(t *testing.T) {
		repo := new(MockFeedbackRepository)
		stored := []*entities.MatchFeedback{
			{ID: "fb-2", MatchID: "m-1", Rating: entities.RatingDown},
			{ID: "fb-1", MatchID: "m-1", Rating: entities.RatingUp},
		}
		repo.On("ListByMatch", ctx, "m-1").Return(stored, nil)

		svc := services.NewFeedbackService(repo, new(MockQuoteMatchRepository), nil)

		feedback, err := svc.List(ctx, "m-1")
		require.NoError(t, err)
		assert.Equal(t, stored, feedback)
	})

	t.Run("requires a match id", func(t *testing.T) {
		svc := services.NewFeedbackService(new(MockFeedbackRepository), new(MockQuoteMatchRepository), nil)
		_, err := svc.List(ctx, "")
		assert.Error(t, err)
	})
}
