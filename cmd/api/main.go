package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/dvloznov/statement-summarizer/internal/api/handlers"
	"github.com/dvloznov/statement-summarizer/internal/api/middleware"
	"github.com/dvloznov/statement-summarizer/internal/config"
	"github.com/dvloznov/statement-summarizer/internal/logger"
	"github.com/dvloznov/statement-summarizer/internal/narrative"
	"github.com/dvloznov/statement-summarizer/internal/pipeline"
)

func main() {
	cfg := config.Load()

	// Parse command-line flags
	port := flag.String("port", cfg.Port, "HTTP server port (or set PORT env)")
	flag.Parse()
	cfg.Port = *port

	// Initialize logger
	log := logger.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	narrator := newNarrator(ctx, cfg, log)
	summarizer := pipeline.NewSummarizer(narrator, cfg.CurrencySymbol)
	summarizeHandler := handlers.NewSummarizeHandler(summarizer, cfg.MaxUploadBytes, log)

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	// Create router
	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.Get("/health", handlers.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter, log))
		r.Post("/api/summarize", summarizeHandler.Summarize)
		r.Post("/summarize", summarizeHandler.Summarize)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Bool("narrative_enabled", cfg.NarrativeEnabled()).
			Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// newNarrator returns the Gemini narrator, or one that always fails when no
// API key is configured so uploads still get their aggregates with a 502.
func newNarrator(ctx context.Context, cfg *config.Config, log zerolog.Logger) narrative.Narrator {
	if !cfg.NarrativeEnabled() {
		log.Warn().Msg("No GEMINI_API_KEY configured - narrative generation will be disabled")
		return narrative.Unconfigured{}
	}

	n, err := narrative.NewGeminiNarrator(ctx, narrative.GeminiConfig{
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.GeminiModel,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}
	return n
}
