package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appconfig "github.com/denisAlshanov/stickerGallery/internal/config"
)

type S3Storage struct {
	client     *s3.Client
	bucketName string
	urlPrefix  string
}

func (s *S3Storage) BucketName() string {
	return s.bucketName
}

func NewS3Storage(cfg *appconfig.S3Config) (*S3Storage, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client

	// Custom endpoints (LocalStack, R2, Spaces) need path-style addressing
	if cfg.EndpointURL != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3Storage{
		client:     client,
		bucketName: cfg.BucketName,
		urlPrefix:  publicURLPrefix(cfg),
	}, nil
}

func (s *S3Storage) UploadPublic(ctx context.Context, key string, data io.Reader, size int64, contentType, cacheControl string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		Body:          data,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		ACL:           types.ObjectCannedACLPublicRead,
	}
	if cacheControl != "" {
		input.CacheControl = aws.String(cacheControl)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return &StorageError{Op: "upload", Key: key, Err: err}
	}

	return nil
}

func (s *S3Storage) PublicURL(key string) string {
	return joinPublicURL(s.urlPrefix, key)
}

func (s *S3Storage) PublicURLPrefix() string {
	return s.urlPrefix
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}

	if _, err := s.client.DeleteObject(ctx, input); err != nil {
		return &StorageError{Op: "delete", Key: key, Err: err}
	}

	return nil
}

func (s *S3Storage) Exists(ctx context.Context, key string) (bool, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}

	_, err := s.client.HeadObject(ctx, input)
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, &StorageError{Op: "head", Key: key, Err: err}
	}

	return true, nil
}

func (s *S3Storage) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucketName),
	})
	if err != nil {
		return &StorageError{Op: "head bucket", Err: err}
	}
	return nil
}
