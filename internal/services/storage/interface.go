package storage

import (
	"context"
	"fmt"
	"io"
)

// StorageInterface defines the common interface for storage backends
type StorageInterface interface {
	BucketName() string
	// UploadPublic stores an object readable without credentials.
	UploadPublic(ctx context.Context, key string, data io.Reader, size int64, contentType, cacheControl string) error
	// PublicURL is the permanent URL of key.
	PublicURL(key string) string
	// PublicURLPrefix is the prefix shared by every URL PublicURL returns.
	PublicURLPrefix() string
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// StorageError wraps a failed object storage call.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
