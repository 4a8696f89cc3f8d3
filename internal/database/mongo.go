package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/denisAlshanov/stickerGallery/internal/config"
)

type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
	packs    *mongo.Collection
	timeout  time.Duration
}

func NewMongoDB(cfg *config.MongoDBConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.URI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.Database)

	mongodb := &MongoDB{
		client:   client,
		database: db,
		packs:    db.Collection(cfg.Collection),
		timeout:  cfg.Timeout,
	}

	if err := mongodb.createIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return mongodb, nil
}

func (m *MongoDB) createIndexes(ctx context.Context) error {
	packIndexes := []mongo.IndexModel{
		{
			// Gallery order: newest first, ties broken by _id.
			Keys:    bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("timestamp_desc_id_desc"),
		},
		{
			Keys:    bson.D{{Key: "link", Value: 1}},
			Options: options.Index().SetName("link"),
		},
	}

	if _, err := m.packs.Indexes().CreateMany(ctx, packIndexes); err != nil {
		return fmt.Errorf("failed to create stickerPacks indexes: %w", err)
	}

	return nil
}

func (m *MongoDB) StickerPacks() *mongo.Collection {
	return m.packs
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoDB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return m.client.Ping(ctx, readpref.Primary())
}

// opContext bounds a single database operation by the configured timeout.
func (m *MongoDB) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.timeout)
}
