package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denisAlshanov/stickerGallery/internal/config"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.S3Config
		prefix string
	}{
		{
			name:   "public base url wins",
			cfg:    config.S3Config{BucketName: "stickers", Region: "us-east-1", EndpointURL: "http://localhost:4566", PublicBaseURL: "https://cdn.example.com/"},
			prefix: "https://cdn.example.com/",
		},
		{
			name:   "custom endpoint uses path style",
			cfg:    config.S3Config{BucketName: "stickers", Region: "us-east-1", EndpointURL: "http://localhost:9000/"},
			prefix: "http://localhost:9000/stickers/",
		},
		{
			name:   "aws virtual hosted",
			cfg:    config.S3Config{BucketName: "stickers", Region: "eu-west-1"},
			prefix: "https://stickers.s3.eu-west-1.amazonaws.com/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			s, err := NewS3Storage(&cfg)
			require.NoError(t, err)

			assert.Equal(t, tt.prefix, s.PublicURLPrefix())
			assert.Equal(t, tt.prefix+"sticker_previews/abc.webp", s.PublicURL("sticker_previews/abc.webp"))
			assert.Equal(t, "stickers", s.BucketName())
		})
	}
}

func TestNewStorageUnknownBackend(t *testing.T) {
	_, err := NewStorage(context.Background(), &config.S3Config{Backend: "ftp"})
	assert.Error(t, err)
}

func TestStorageErrorUnwrap(t *testing.T) {
	cause := errors.New("access denied")
	err := error(&StorageError{Op: "upload", Key: "sticker_previews/a.webp", Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "storage upload sticker_previews/a.webp: access denied", err.Error())

	var se *StorageError
	assert.True(t, errors.As(err, &se))
}
