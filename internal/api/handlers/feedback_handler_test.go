package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulmatch/freightquote-backend/internal/application/services"
	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
	apperrors "github.com/haulmatch/freightquote-backend/pkg/errors"
)

type fakeFeedbackService struct {
	recordResult *entities.MatchFeedback
	recordErr    error
	listResult   []*entities.MatchFeedback
	listErr      error

	lastInput   services.RecordInput
	lastMatchID string
}

func (f *fakeFeedbackService) Record(ctx context.Context, input services.RecordInput) (*entities.MatchFeedback, error) {
	f.lastInput = input
	return f.recordResult, f.recordErr
}

func (f *fakeFeedbackService) List(ctx context.Context, matchID string) ([]*entities.MatchFeedback, error) {
	f.lastMatchID = matchID
	return f.listResult, f.listErr
}

func postFeedback(t *testing.T, handler *FeedbackHandler, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/matches/{id}/feedback", handler.SubmitFeedback)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	mux.ServeHTTP(rec, req)
	return rec
}

func TestFeedbackHandler_SubmitFeedback(t *testing.T) {
	tests := []struct {
		name           string
		payload        map[string]interface{}
		service        *fakeFeedbackService
		expectedStatus int
	}{
		{
			name:    "thumbs up accepted",
			payload: map[string]interface{}{"user_id": "u-1", "rating": 1},
			service: &fakeFeedbackService{
				recordResult: &entities.MatchFeedback{
					ID:        "fb-1",
					MatchID:   "m-1",
					UserID:    "u-1",
					Rating:    entities.RatingUp,
					CreatedAt: time.Now().UTC(),
					UpdatedAt: time.Now().UTC(),
				},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid rating rejected",
			payload:        map[string]interface{}{"user_id": "u-1", "rating": 3},
			service:        &fakeFeedbackService{recordErr: apperrors.NewValidationError("rating must be +1 or -1, got 3")},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown match",
			payload:        map[string]interface{}{"rating": -1},
			service:        &fakeFeedbackService{recordErr: apperrors.NewNotFoundError("match not found")},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewFeedbackHandler(tt.service)
			rec := postFeedback(t, handler, "/api/matches/m-1/feedback", tt.payload)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "m-1", tt.service.lastInput.MatchID)
		})
	}
}

func TestFeedbackHandler_SubmitFeedback_BadBody(t *testing.T) {
	handler := NewFeedbackHandler(&fakeFeedbackService{})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/matches/{id}/feedback", handler.SubmitFeedback)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/matches/m-1/feedback", bytes.NewReader([]byte("{not json")))
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeedbackHandler_SubmitFeedback_ForwardsOptionalFields(t *testing.T) {
	service := &fakeFeedbackService{
		recordResult: &entities.MatchFeedback{ID: "fb-1", MatchID: "m-1", Rating: entities.RatingDown},
	}
	handler := NewFeedbackHandler(service)

	payload := map[string]interface{}{
		"rating":            -1,
		"reason":            "price too high",
		"notes":             "carrier declined the lane",
		"actual_price_used": 980.5,
	}
	rec := postFeedback(t, handler, "/api/matches/m-1/feedback", payload)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, service.lastInput.Reason)
	assert.Equal(t, "price too high", *service.lastInput.Reason)
	require.NotNil(t, service.lastInput.ActualPriceUsed)
	assert.InDelta(t, 980.5, *service.lastInput.ActualPriceUsed, 0.001)
	assert.Empty(t, service.lastInput.UserID)
}

func TestFeedbackHandler_ListFeedback(t *testing.T) {
	reason := "matched a stale quote"
	service := &fakeFeedbackService{
		listResult: []*entities.MatchFeedback{
			{ID: "fb-2", MatchID: "m-1", UserID: "u-2", Rating: entities.RatingDown, Reason: &reason},
			{ID: "fb-1", MatchID: "m-1", UserID: "u-1", Rating: entities.RatingUp},
		},
	}
	handler := NewFeedbackHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/matches/{id}/feedback", handler.ListFeedback)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/matches/m-1/feedback", nil)
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "m-1", service.lastMatchID)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["count"])
}
