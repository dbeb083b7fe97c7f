package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haulmatch/freightquote-backend/internal/adapters/cache"
	"github.com/haulmatch/freightquote-backend/internal/adapters/database"
	"github.com/haulmatch/freightquote-backend/internal/adapters/events"
	"github.com/haulmatch/freightquote-backend/internal/adapters/ignorelist"
	"github.com/haulmatch/freightquote-backend/internal/adapters/search"
	"github.com/haulmatch/freightquote-backend/internal/api/handlers"
	"github.com/haulmatch/freightquote-backend/internal/api/middleware"
	"github.com/haulmatch/freightquote-backend/internal/api/routes"
	"github.com/haulmatch/freightquote-backend/internal/application/services"
	"github.com/haulmatch/freightquote-backend/internal/domain/providers"
	"github.com/haulmatch/freightquote-backend/internal/domain/repositories"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/clients/mailapi"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/clients/postgres"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/clients/redis"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/clients/typesense"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/observability"
	"github.com/haulmatch/freightquote-backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - the application can work without caching
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
	} else {
		log.Println("Typesense client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize adapters

	baseQuoteAdapter := database.NewQuoteAdapter(pgClient)

	// Wrap with caching if Redis is available
	var quoteRepo repositories.QuoteRepository
	if cacheProvider != nil {
		quoteRepo = database.NewCachedQuoteAdapter(baseQuoteAdapter, cacheProvider)
		log.Println("Quote adapter wrapped with caching layer")
	} else {
		quoteRepo = baseQuoteAdapter
		log.Println("Quote adapter running without cache (Redis unavailable)")
	}

	matchRepo := database.NewQuoteMatchAdapter(pgClient)
	feedbackRepo := database.NewFeedbackAdapter(pgClient)
	recRepo := database.NewPriceRecommendationAdapter(pgClient)
	ignoreRuleRepo := database.NewIgnoreRuleAdapter(pgClient)

	var searchRepo repositories.QuoteSearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)

		// Ensure schema exists
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Printf("Warning: Failed to init Typesense schema: %v", err)
		}
		searchRepo = adapter
	}

	// Initialize event bus for match-run and feedback notifications
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	ignoreList := ignorelist.NewSnapshotProvider(ignoreRuleRepo, cfg.Matching.IgnoreListTTL)

	var mailProvider providers.MailProvider
	if cfg.MailAPI.APIKey != "" {
		mailProvider = mailapi.NewClient(&cfg.MailAPI)
		log.Println("Mail provider client initialized successfully")
	} else {
		log.Println("Warning: MAIL_API_KEY is not set; attachment retrieval disabled")
	}

	// Initialize services

	ranker := services.NewMatchRankingService(
		cfg.Matching.MinScore,
		cfg.Matching.TopK,
		cfg.Matching.ScoringWorkers,
	)
	recommender := services.NewPriceRecommendationService()

	matchingService := services.NewQuoteMatchingService(
		quoteRepo,
		matchRepo,
		recRepo,
		ignoreList,
		eventBus,
		ranker,
		recommender,
		cfg.Matching.CandidateLimit,
	)

	feedbackService := services.NewFeedbackService(feedbackRepo, matchRepo, eventBus)

	// Initialize handlers

	quoteHandler := handlers.NewQuoteHandler(quoteRepo, searchRepo, mailProvider)
	matchHandler := handlers.NewMatchHandler(matchingService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Println("Cache middleware initialized successfully")
	}

	// Set up router
	router := routes.NewRouter(
		quoteHandler,
		matchHandler,
		feedbackHandler,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Server stopped")
}
