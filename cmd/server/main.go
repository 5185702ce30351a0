package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sessionforge/session-enrichment-api/internal/config"
	"github.com/sessionforge/session-enrichment-api/internal/db"
	"github.com/sessionforge/session-enrichment-api/internal/enrich"
	"github.com/sessionforge/session-enrichment-api/internal/extractor"
	"github.com/sessionforge/session-enrichment-api/internal/handlers"
	"github.com/sessionforge/session-enrichment-api/internal/normalizer"
	"github.com/sessionforge/session-enrichment-api/internal/pipeline"
	"github.com/sessionforge/session-enrichment-api/internal/repository"
	"github.com/sessionforge/session-enrichment-api/internal/router"
	"github.com/sessionforge/session-enrichment-api/internal/storage"
	"github.com/sessionforge/session-enrichment-api/internal/tts"
	"github.com/sessionforge/session-enrichment-api/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Initialize database
	database, err := db.NewSQLiteDB(cfg.DatabaseFile)
	if err != nil {
		logger.Fatal("Failed to open database", "error", err)
	}
	defer database.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.DatabaseFile, "internal/db/migrations"); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	// Object storage
	store, err := storage.NewS3Storage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize object storage", "error", err)
	}

	// Pipeline wiring
	repo := repository.NewRepository(database)
	cascade := extractor.NewCascade(logger)
	norm := normalizer.New(store, cascade, logger)
	engine := enrich.NewEngine(cfg, logger)
	ttsClient := tts.NewClient(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID, cfg.ElevenLabsModelID, logger)
	pipe := pipeline.New(repo, store, norm, engine, ttsClient, logger)

	// Setup HTTP router
	sessionHandler := handlers.NewSessionHandler(pipe, repo, store, cfg.MaxFileSize, logger)
	handler := router.NewRouter(sessionHandler, logger)

	// Processing holds the connection through provider and TTS calls, so the
	// write timeout must outlast both outbound timeouts combined.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
