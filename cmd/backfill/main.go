// Command backfill re-runs preview ingestion over every sticker pack, replacing
// missing or expired image URLs with permanent ones.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/denisAlshanov/stickerGallery/internal/config"
	"github.com/denisAlshanov/stickerGallery/internal/database"
	"github.com/denisAlshanov/stickerGallery/internal/models"
	"github.com/denisAlshanov/stickerGallery/internal/services/backfill"
	"github.com/denisAlshanov/stickerGallery/internal/services/preview"
	"github.com/denisAlshanov/stickerGallery/internal/services/storage"
	"github.com/denisAlshanov/stickerGallery/internal/services/telegram"
	"github.com/denisAlshanov/stickerGallery/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	delay := flag.Duration("delay", cfg.Batch.Delay, "pause after each record")
	flag.Parse()

	logger := utils.GetLogger()

	if cfg.Telegram.BotToken == "" {
		logger.Fatal("TELEGRAM_BOT_TOKEN is required for backfill")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewMongoDB(&cfg.MongoDB)
	if err != nil {
		logger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			logger.Errorf("Failed to close database connection: %v", err)
		}
	}()

	objectStorage, err := storage.NewStorage(ctx, &cfg.S3)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	botClient, err := telegram.NewBotClient(&cfg.Telegram, nil)
	if err != nil {
		logger.Fatalf("Failed to initialize Telegram bot: %v", err)
	}

	pipeline := preview.New(db, botClient, objectStorage, &cfg.S3).WithSource(preview.SourceBackfill)
	summary := backfill.NewRunner(db, pipeline, *delay).Run(ctx)

	fmt.Println("--- Backfill Summary ---")
	fmt.Printf("Total processed: %d\n", summary.Total)
	for _, o := range []struct {
		label string
		n     int
	}{
		{"Successfully updated", summary.Counts[models.OutcomeSuccess]},
		{"Skipped (already permanent)", summary.Counts[models.OutcomeSkipped]},
		{"Invalid links", summary.Counts[models.OutcomeInvalidLink]},
		{"Empty packs", summary.Counts[models.OutcomeEmptyPack]},
		{"No thumbnail", summary.Counts[models.OutcomeNoThumb]},
		{"Errors", summary.Counts[models.OutcomeError]},
	} {
		fmt.Printf("%-28s %d\n", o.label+":", o.n)
	}
}
