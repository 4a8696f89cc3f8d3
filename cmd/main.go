// Package main provides the entry point for the Sticker Gallery service.
// @title Sticker Gallery API
// @version 1.0
// @description Submit Telegram sticker pack links and browse their re-hosted previews.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Admin JWT as "Bearer <token>"

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/denisAlshanov/stickerGallery/docs" // Import for swagger docs
	"github.com/denisAlshanov/stickerGallery/internal/api/handlers"
	"github.com/denisAlshanov/stickerGallery/internal/api/router"
	"github.com/denisAlshanov/stickerGallery/internal/config"
	"github.com/denisAlshanov/stickerGallery/internal/database"
	"github.com/denisAlshanov/stickerGallery/internal/services/auth"
	"github.com/denisAlshanov/stickerGallery/internal/services/backfill"
	"github.com/denisAlshanov/stickerGallery/internal/services/gallery"
	"github.com/denisAlshanov/stickerGallery/internal/services/preview"
	"github.com/denisAlshanov/stickerGallery/internal/services/storage"
	"github.com/denisAlshanov/stickerGallery/internal/services/telegram"
	"github.com/denisAlshanov/stickerGallery/internal/services/trigger"
	"github.com/denisAlshanov/stickerGallery/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := utils.GetLogger()
	logger.Info("Starting Sticker Gallery service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.NewMongoDB(&cfg.MongoDB)
	if err != nil {
		logger.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	// Initialize object storage
	objectStorage, err := storage.NewStorage(ctx, &cfg.S3)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	// The gallery keeps serving without a bot; ingestion is disabled instead.
	var (
		processor handlers.PackProcessor
		runner    handlers.BackfillRunner
		ingest    trigger.Processor
	)
	if cfg.Telegram.BotToken == "" {
		logger.Warn("TELEGRAM_BOT_TOKEN is not set - preview ingestion is disabled")
	} else if botClient, err := telegram.NewBotClient(&cfg.Telegram, nil); err != nil {
		logger.Errorf("Failed to initialize Telegram bot: %v", err)
		logger.Warn("Telegram bot not initialized - preview ingestion is disabled")
	} else {
		pipeline := preview.New(db, botClient, objectStorage, &cfg.S3)
		ingest = pipeline
		processor = pipeline.WithSource(preview.SourceAdmin)
		runner = backfill.NewRunner(db, pipeline.WithSource(preview.SourceBackfill), cfg.Batch.Delay)
	}

	triggerHandler, err := trigger.NewHandler(ingest, &cfg.Ingest)
	if err != nil {
		logger.Fatalf("Failed to initialize ingestion trigger: %v", err)
	}

	var notifier handlers.CreatedNotifier
	switch cfg.Ingest.Trigger {
	case config.TriggerChangeStream:
		go triggerHandler.Run(ctx, func(ctx context.Context) (trigger.EventSource, error) {
			stream, err := db.WatchInserts(ctx)
			if err != nil {
				return nil, err
			}
			return stream, nil
		})
	case config.TriggerInline:
		notifier = triggerHandler
	default:
		logger.Warn("Event-triggered ingestion is off")
	}
	logger.WithField("mode", cfg.Ingest.Trigger).Info("Ingestion trigger configured")

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:     cfg.Admin.JWTSecret,
		Issuer:        cfg.Admin.Issuer,
		TokenDuration: cfg.Admin.TokenTTL,
	})
	if !jwtService.Enabled() {
		logger.Warn("ADMIN_JWT_SECRET is not set - admin endpoints will reject every request")
	}

	// Initialize handlers
	pager := gallery.NewPager(db, cfg.Gallery.PageSize)
	galleryHandler := handlers.NewGalleryHandler(db, pager, notifier)
	adminHandler := handlers.NewAdminHandler(ctx, db, processor, runner)
	healthHandler := handlers.NewHealthHandler(db, objectStorage, ingest != nil, cfg.Ingest.Trigger)

	// Initialize router
	r := router.NewRouter(cfg, galleryHandler, adminHandler, healthHandler, jwtService)

	// Start server
	go func() {
		logger.Infof("Starting server on %s:%s", cfg.Server.Host, cfg.Server.Port)
		if err := r.Start(); err != nil {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := r.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Failed to shut down HTTP server: %v", err)
	}

	// Let in-flight ingestions finish their record writes
	triggerHandler.Wait()
	adminHandler.Wait()

	if err := db.Close(shutdownCtx); err != nil {
		logger.Errorf("Failed to close database connection: %v", err)
	}

	logger.Info("Server shutdown complete")
}
