package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mitra/backend/config"
	httpDelivery "github.com/mitra/backend/internal/delivery/http"
	"github.com/mitra/backend/internal/domain"
	"github.com/mitra/backend/internal/infrastructure/llm"
	"github.com/mitra/backend/internal/infrastructure/store"
	"github.com/mitra/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Mitra Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Store: %s", cfg.Store.Path)

	// Initialize infrastructure dependencies
	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer db.Close()

	llmClient := llm.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.RequestsPerMinute)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		llmClient.SetDebug(true)
		log.Printf("LLM client debug mode enabled")
	}

	if cfg.LLM.APIKey != "" {
		log.Printf("LLM API configured: %s model=%s", cfg.LLM.BaseURL, cfg.LLM.Model)
	} else {
		log.Printf("WARNING: LLM API key not configured - extraction and replies will use rule-based fallbacks")
	}

	// Initialize usecase layer
	taxonomy := domain.DefaultTaxonomy()
	index := usecase.NewSimilarityIndex(usecase.SimilarityConfig{
		EnableDebugLogging: cfg.Recommend.EnableDebugLogging,
	})
	matcher := usecase.NewCategoryMatcher(taxonomy, index)
	extractor := usecase.NewPreferenceExtractor(llmClient, matcher, taxonomy, usecase.ExtractorConfig{
		LLMTimeout:         cfg.LLM.Timeout,
		EnableDebugLogging: cfg.Recommend.EnableDebugLogging,
	})
	responder := usecase.NewResponder(llmClient, usecase.ResponderConfig{
		LLMTimeout:         cfg.LLM.Timeout,
		EnableDebugLogging: cfg.Recommend.EnableDebugLogging,
	})

	recommender := usecase.NewRecommendationService(
		db, db, extractor, responder, index,
		usecase.RecommendationConfig{
			TopN:               cfg.Recommend.TopN,
			EnableDebugLogging: cfg.Recommend.EnableDebugLogging,
		},
	)

	// Fit the similarity index over the catalog before serving
	if err := recommender.FitCatalog(context.Background()); err != nil {
		log.Fatalf("Failed to fit similarity index: %v", err)
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(recommender, db, db, taxonomy)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
