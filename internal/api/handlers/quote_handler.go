package handlers

import (
	"net/http"
	"strconv"

	"github.com/haulmatch/freightquote-backend/internal/domain/providers"
	"github.com/haulmatch/freightquote-backend/internal/domain/repositories"
)

// QuoteHandler handles quote read requests
type QuoteHandler struct {
	quoteRepo  repositories.QuoteRepository
	searchRepo repositories.QuoteSearchRepository
	mail       providers.MailProvider
}

// NewQuoteHandler creates a new quote handler. searchRepo and mail may be
// nil; the endpoints that need them return 502.
func NewQuoteHandler(quoteRepo repositories.QuoteRepository, searchRepo repositories.QuoteSearchRepository, mail providers.MailProvider) *QuoteHandler {
	return &QuoteHandler{
		quoteRepo:  quoteRepo,
		searchRepo: searchRepo,
		mail:       mail,
	}
}

// GetQuote handles GET /api/quotes/{id}
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	quoteID := r.PathValue("id")
	if quoteID == "" {
		respondWithError(w, http.StatusBadRequest, "quote ID is required")
		return
	}

	quote, err := h.quoteRepo.GetByID(r.Context(), quoteID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, quote)
}

// ListQuotes handles GET /api/quotes
func (h *QuoteHandler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 50
	if raw := query.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	offset := 0
	if raw := query.Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	quotes, err := h.quoteRepo.List(r.Context(), repositories.QuoteFilter{
		Status:      query.Get("status"),
		ServiceType: query.Get("service_type"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"quotes": quotes,
		"count":  len(quotes),
	})
}

// SearchQuotes handles GET /api/quotes/search via the lane index
func (h *QuoteHandler) SearchQuotes(w http.ResponseWriter, r *http.Request) {
	if h.searchRepo == nil {
		respondWithError(w, http.StatusBadGateway, "quote search is unavailable")
		return
	}

	query := r.URL.Query()
	params := repositories.LaneSearchParams{
		OriginCountry:      query.Get("origin_country"),
		DestinationCountry: query.Get("destination_country"),
		ServiceType:        query.Get("service_type"),
		Limit:              50,
	}
	if params.OriginCountry == "" && params.DestinationCountry == "" {
		respondWithError(w, http.StatusBadRequest, "origin_country or destination_country is required")
		return
	}
	if raw := query.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			params.Limit = parsed
		}
	}

	ids, err := h.searchRepo.SearchLane(r.Context(), params)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	quotes, err := h.quoteRepo.GetByIDs(r.Context(), ids)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"quotes": quotes,
		"count":  len(quotes),
	})
}

// ListQuoteAttachments handles GET /api/quotes/{id}/attachments
func (h *QuoteHandler) ListQuoteAttachments(w http.ResponseWriter, r *http.Request) {
	quoteID := r.PathValue("id")
	if quoteID == "" {
		respondWithError(w, http.StatusBadRequest, "quote ID is required")
		return
	}
	if h.mail == nil {
		respondWithError(w, http.StatusBadGateway, "mail provider is unavailable")
		return
	}

	quote, err := h.quoteRepo.GetByID(r.Context(), quoteID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if quote.SourceMessageID == nil {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"attachments": []providers.Attachment{},
			"count":       0,
		})
		return
	}

	attachments, err := h.mail.ListAttachments(r.Context(), *quote.SourceMessageID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"attachments": attachments,
		"count":       len(attachments),
	})
}

// GetQuoteAttachment handles GET /api/quotes/{id}/attachments/{attachmentId}
func (h *QuoteHandler) GetQuoteAttachment(w http.ResponseWriter, r *http.Request) {
	quoteID := r.PathValue("id")
	attachmentID := r.PathValue("attachmentId")
	if quoteID == "" || attachmentID == "" {
		respondWithError(w, http.StatusBadRequest, "quote ID and attachment ID are required")
		return
	}
	if h.mail == nil {
		respondWithError(w, http.StatusBadGateway, "mail provider is unavailable")
		return
	}

	quote, err := h.quoteRepo.GetByID(r.Context(), quoteID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if quote.SourceMessageID == nil {
		respondWithError(w, http.StatusNotFound, "quote has no source message")
		return
	}

	content, err := h.mail.FetchAttachment(r.Context(), *quote.SourceMessageID, attachmentID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}
