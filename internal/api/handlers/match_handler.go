package handlers

import (
	"context"
	"net/http"

	"github.com/haulmatch/freightquote-backend/internal/application/services"
	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
)

// MatchingService defines the matching operations used by the handler.
type MatchingService interface {
	ComputeMatches(ctx context.Context, quoteID, algorithmVersion string) ([]*entities.QuoteMatch, error)
	ListMatches(ctx context.Context, quoteID string) ([]*entities.QuoteMatch, error)
	LatestRecommendation(ctx context.Context, quoteID string) (*entities.PriceRecommendation, error)
}

// MatchHandler handles match computation and retrieval requests
type MatchHandler struct {
	service MatchingService
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(service MatchingService) *MatchHandler {
	return &MatchHandler{service: service}
}

// ComputeMatches handles POST /api/quotes/{id}/matches
func (h *MatchHandler) ComputeMatches(w http.ResponseWriter, r *http.Request) {
	quoteID := r.PathValue("id")
	if quoteID == "" {
		respondWithError(w, http.StatusBadRequest, "quote ID is required")
		return
	}

	algorithmVersion := r.URL.Query().Get("algorithm_version")
	if algorithmVersion == "" {
		algorithmVersion = services.AlgorithmV1
	}

	matches, err := h.service.ComputeMatches(r.Context(), quoteID, algorithmVersion)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	status := http.StatusCreated
	if len(matches) == 0 {
		status = http.StatusOK
	}

	respondWithJSON(w, status, map[string]interface{}{
		"matches":           matches,
		"count":             len(matches),
		"algorithm_version": algorithmVersion,
	})
}

// ListMatches handles GET /api/quotes/{id}/matches
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	quoteID := r.PathValue("id")
	if quoteID == "" {
		respondWithError(w, http.StatusBadRequest, "quote ID is required")
		return
	}

	matches, err := h.service.ListMatches(r.Context(), quoteID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}

// GetRecommendation handles GET /api/quotes/{id}/recommendation
func (h *MatchHandler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	quoteID := r.PathValue("id")
	if quoteID == "" {
		respondWithError(w, http.StatusBadRequest, "quote ID is required")
		return
	}

	rec, err := h.service.LatestRecommendation(r.Context(), quoteID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, rec)
}
