package storage

import (
	"context"
	"fmt"

	"github.com/denisAlshanov/stickerGallery/internal/config"
	"github.com/denisAlshanov/stickerGallery/internal/utils"
)

// NewStorage creates the configured storage backend
func NewStorage(ctx context.Context, cfg *config.S3Config) (StorageInterface, error) {
	utils.GetLogger().WithFields(map[string]interface{}{
		"backend":  cfg.Backend,
		"bucket":   cfg.BucketName,
		"endpoint": cfg.EndpointURL,
	}).Info("Creating object storage")

	switch cfg.Backend {
	case config.BackendMinio:
		storage, err := NewMinioStorage(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create MinIO storage: %w", err)
		}
		return storage, nil
	case config.BackendS3, "":
		storage, err := NewS3Storage(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 storage: %w", err)
		}
		return storage, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
