package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/haulmatch/freightquote-backend/internal/application/services"
	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
)

// FeedbackRecorder defines the feedback operations used by the handler.
type FeedbackRecorder interface {
	Record(ctx context.Context, input services.RecordInput) (*entities.MatchFeedback, error)
	List(ctx context.Context, matchID string) ([]*entities.MatchFeedback, error)
}

// FeedbackHandler handles match feedback requests
type FeedbackHandler struct {
	service FeedbackRecorder
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(service FeedbackRecorder) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

type submitFeedbackRequest struct {
	UserID          string   `json:"user_id"`
	Rating          int      `json:"rating"`
	Reason          *string  `json:"reason"`
	Notes           *string  `json:"notes"`
	ActualPriceUsed *float64 `json:"actual_price_used"`
}

// SubmitFeedback handles POST /api/matches/{id}/feedback
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	if matchID == "" {
		respondWithError(w, http.StatusBadRequest, "match ID is required")
		return
	}

	var req submitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	feedback, err := h.service.Record(r.Context(), services.RecordInput{
		MatchID:         matchID,
		UserID:          req.UserID,
		Rating:          req.Rating,
		Reason:          req.Reason,
		Notes:           req.Notes,
		ActualPriceUsed: req.ActualPriceUsed,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, feedback)
}

// ListFeedback handles GET /api/matches/{id}/feedback
func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	if matchID == "" {
		respondWithError(w, http.StatusBadRequest, "match ID is required")
		return
	}

	items, err := h.service.List(r.Context(), matchID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"feedback": items,
		"count":    len(items),
	})
}
