package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	appconfig "github.com/denisAlshanov/stickerGallery/internal/config"
)

// MinioStorage talks to MinIO or any S3-compatible server through minio-go.
type MinioStorage struct {
	client     *minio.Client
	bucketName string
	urlPrefix  string
}

// NewMinioStorage strips the scheme from the endpoint, derives Secure from it
// and fails fast when the bucket is missing.
func NewMinioStorage(ctx context.Context, cfg *appconfig.S3Config) (*MinioStorage, error) {
	endpoint := cfg.EndpointURL
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.BucketName)
	}

	return &MinioStorage{
		client:     client,
		bucketName: cfg.BucketName,
		urlPrefix:  publicURLPrefix(cfg),
	}, nil
}

func (m *MinioStorage) BucketName() string {
	return m.bucketName
}

func (m *MinioStorage) UploadPublic(ctx context.Context, key string, data io.Reader, size int64, contentType, cacheControl string) error {
	opts := minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: cacheControl,
		UserMetadata: map[string]string{"x-amz-acl": "public-read"},
	}

	if _, err := m.client.PutObject(ctx, m.bucketName, key, data, size, opts); err != nil {
		return &StorageError{Op: "upload", Key: key, Err: err}
	}
	return nil
}

func (m *MinioStorage) PublicURL(key string) string {
	return joinPublicURL(m.urlPrefix, key)
}

func (m *MinioStorage) PublicURLPrefix() string {
	return m.urlPrefix
}

func (m *MinioStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucketName, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, &StorageError{Op: "stat", Key: key, Err: err}
	}
	return true, nil
}

func (m *MinioStorage) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return &StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (m *MinioStorage) Ping(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucketName)
	if err != nil {
		return &StorageError{Op: "bucket exists", Err: err}
	}
	if !exists {
		return &StorageError{Op: "bucket exists", Err: fmt.Errorf("bucket %q does not exist", m.bucketName)}
	}
	return nil
}
