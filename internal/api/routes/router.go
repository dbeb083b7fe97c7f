package routes

import (
	"net/http"

	"github.com/haulmatch/freightquote-backend/internal/api/handlers"
	"github.com/haulmatch/freightquote-backend/internal/api/middleware"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	quoteHandler    *handlers.QuoteHandler
	matchHandler    *handlers.MatchHandler
	feedbackHandler *handlers.FeedbackHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	quoteHandler *handlers.QuoteHandler,
	matchHandler *handlers.MatchHandler,
	feedbackHandler *handlers.FeedbackHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		quoteHandler:    quoteHandler,
		matchHandler:    matchHandler,
		feedbackHandler: feedbackHandler,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Quote endpoints
	r.mux.HandleFunc("GET /api/quotes", r.quoteHandler.ListQuotes)
	r.mux.HandleFunc("GET /api/quotes/search", r.quoteHandler.SearchQuotes)
	r.mux.HandleFunc("GET /api/quotes/{id}", r.quoteHandler.GetQuote)
	r.mux.HandleFunc("GET /api/quotes/{id}/attachments", r.quoteHandler.ListQuoteAttachments)
	r.mux.HandleFunc("GET /api/quotes/{id}/attachments/{attachmentId}", r.quoteHandler.GetQuoteAttachment)

	// Match endpoints
	r.mux.HandleFunc("POST /api/quotes/{id}/matches", r.matchHandler.ComputeMatches)
	r.mux.HandleFunc("GET /api/quotes/{id}/matches", r.matchHandler.ListMatches)
	r.mux.HandleFunc("GET /api/quotes/{id}/recommendation", r.matchHandler.GetRecommendation)

	// Feedback endpoints
	r.mux.HandleFunc("POST /api/matches/{id}/feedback", r.feedbackHandler.SubmitFeedback)
	r.mux.HandleFunc("GET /api/matches/{id}/feedback", r.feedbackHandler.ListFeedback)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
