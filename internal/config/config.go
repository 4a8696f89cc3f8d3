package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	S3       S3Config
	Telegram TelegramConfig
	Ingest   IngestConfig
	Batch    BatchConfig
	Gallery  GalleryConfig
	API      APIConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type MongoDBConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

type S3Config struct {
	Backend         string // "s3" or "minio"
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	EndpointURL     string
	PublicBaseURL   string
	KeyPrefix       string
	CacheControl    string
}

type TelegramConfig struct {
	BotToken     string
	APIEndpoint  string
	FileEndpoint string
	RateLimit    float64
	RateBurst    int
	HTTPTimeout  time.Duration
}

// IngestConfig controls event-triggered ingestion.
type IngestConfig struct {
	Trigger       string // "changestream", "inline" or "off"
	MaxConcurrent int
	DedupeSize    int
}

type BatchConfig struct {
	Delay time.Duration
}

type GalleryConfig struct {
	PageSize int
}

type APIConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

type AdminConfig struct {
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
}

const (
	TriggerChangeStream = "changestream"
	TriggerInline       = "inline"
	TriggerOff          = "off"

	BackendS3    = "s3"
	BackendMinio = "minio"
)

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")

	// MongoDB configuration
	cfg.MongoDB.URI = getEnvRequired("MONGODB_URI")
	cfg.MongoDB.Database = getEnv("MONGODB_DATABASE", "stickergallery")
	cfg.MongoDB.Collection = getEnv("MONGODB_COLLECTION", "stickerPacks")
	mongoTimeout, err := time.ParseDuration(getEnv("MONGODB_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONGODB_TIMEOUT: %w", err)
	}
	cfg.MongoDB.Timeout = mongoTimeout

	// Object storage configuration
	cfg.S3.Backend = strings.ToLower(getEnv("STORAGE_BACKEND", BackendS3))
	if cfg.S3.Backend != BackendS3 && cfg.S3.Backend != BackendMinio {
		return nil, fmt.Errorf("invalid STORAGE_BACKEND: %q", cfg.S3.Backend)
	}
	cfg.S3.Region = getEnv("AWS_REGION", "us-east-1")
	cfg.S3.BucketName = getEnvRequired("S3_BUCKET_NAME")
	cfg.S3.EndpointURL = getEnv("AWS_ENDPOINT_URL", "") // Optional for LocalStack/MinIO
	cfg.S3.AccessKeyID = getEnvRequired("AWS_ACCESS_KEY_ID")
	cfg.S3.SecretAccessKey = getEnvRequired("AWS_SECRET_ACCESS_KEY")
	cfg.S3.PublicBaseURL = getEnv("S3_PUBLIC_BASE_URL", "")
	cfg.S3.KeyPrefix = strings.Trim(getEnv("S3_KEY_PREFIX", "sticker_previews"), "/")
	cfg.S3.CacheControl = getEnv("S3_CACHE_CONTROL", "public, max-age=31536000, immutable")
	if cfg.S3.Backend == BackendMinio && cfg.S3.EndpointURL == "" {
		return nil, fmt.Errorf("AWS_ENDPOINT_URL is required for the minio backend")
	}

	// Telegram configuration. The token is optional here: the server degrades
	// to a no-op trigger and the backfill tool refuses to start.
	cfg.Telegram.BotToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	cfg.Telegram.APIEndpoint = getEnv("TELEGRAM_API_ENDPOINT", "https://api.telegram.org/bot%s/%s")
	cfg.Telegram.FileEndpoint = getEnv("TELEGRAM_FILE_ENDPOINT", "https://api.telegram.org/file/bot%s/%s")
	cfg.Telegram.RateLimit = getEnvFloat("TELEGRAM_RATE_LIMIT", 20)
	cfg.Telegram.RateBurst = getEnvInt("TELEGRAM_RATE_BURST", 5)
	httpTimeout, err := time.ParseDuration(getEnv("TELEGRAM_HTTP_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_HTTP_TIMEOUT: %w", err)
	}
	cfg.Telegram.HTTPTimeout = httpTimeout

	// Ingestion configuration
	cfg.Ingest.Trigger = strings.ToLower(getEnv("INGEST_TRIGGER", TriggerChangeStream))
	switch cfg.Ingest.Trigger {
	case TriggerChangeStream, TriggerInline, TriggerOff:
	default:
		return nil, fmt.Errorf("invalid INGEST_TRIGGER: %q", cfg.Ingest.Trigger)
	}
	cfg.Ingest.MaxConcurrent = getEnvInt("INGEST_MAX_CONCURRENT", 4)
	cfg.Ingest.DedupeSize = getEnvInt("INGEST_DEDUPE_SIZE", 1024)

	// Batch configuration
	batchDelay, err := time.ParseDuration(getEnv("BATCH_DELAY", "200ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid BATCH_DELAY: %w", err)
	}
	cfg.Batch.Delay = batchDelay

	// Gallery configuration
	cfg.Gallery.PageSize = getEnvInt("GALLERY_PAGE_SIZE", 12)
	if cfg.Gallery.PageSize < 1 {
		return nil, fmt.Errorf("invalid GALLERY_PAGE_SIZE: %d", cfg.Gallery.PageSize)
	}

	// API configuration
	cfg.API.RateLimitRequests = getEnvInt("RATE_LIMIT_REQUESTS", 10)
	rateLimitWindow, err := time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}
	cfg.API.RateLimitWindow = rateLimitWindow

	// Admin configuration
	admin, err := loadAdmin()
	if err != nil {
		return nil, err
	}
	cfg.Admin = *admin

	return cfg, nil
}

// LoadAdmin reads only the admin token settings, for tools that never touch
// the database or storage.
func LoadAdmin() (*AdminConfig, error) {
	_ = godotenv.Load()
	return loadAdmin()
}

func loadAdmin() (*AdminConfig, error) {
	tokenTTL, err := time.ParseDuration(getEnv("ADMIN_JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_JWT_TTL: %w", err)
	}

	return &AdminConfig{
		JWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		Issuer:    getEnv("ADMIN_JWT_ISSUER", "stickergallery"),
		TokenTTL:  tokenTTL,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
