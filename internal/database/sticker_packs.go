package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/denisAlshanov/stickerGallery/internal/models"
)

var (
	ErrPackNotFound = errors.New("sticker pack not found")
	ErrInvalidID    = errors.New("invalid sticker pack id")
)

// CreateStickerPack inserts a new record holding only the link and a
// server-assigned timestamp.
func (m *MongoDB) CreateStickerPack(ctx context.Context, link string) (*models.StickerPack, error) {
	ctx, cancel := m.opContext(ctx)
	defer cancel()

	// MongoDB dates carry millisecond precision.
	now := time.Now().UTC().Truncate(time.Millisecond)

	res, err := m.packs.InsertOne(ctx, bson.D{
		{Key: "link", Value: link},
		{Key: "timestamp", Value: now},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert sticker pack: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	return &models.StickerPack{
		ID:        oid.Hex(),
		Link:      link,
		Timestamp: now,
	}, nil
}

func (m *MongoDB) GetStickerPack(ctx context.Context, id string) (*models.StickerPack, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	var pack models.StickerPack
	if err := m.packs.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&pack); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPackNotFound
		}
		return nil, fmt.Errorf("failed to get sticker pack: %w", err)
	}

	pack.Timestamp = pack.Timestamp.UTC()
	return &pack, nil
}

// ListStickerPacks returns every record in the order the server yields them.
func (m *MongoDB) ListStickerPacks(ctx context.Context) ([]models.StickerPack, error) {
	cur, err := m.packs.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list sticker packs: %w", err)
	}
	return decodePacks(ctx, cur)
}

// UpdatePreview applies the result of one ingestion attempt.
func (m *MongoDB) UpdatePreview(ctx context.Context, id string, upd models.PreviewUpdate) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	// A nil ImageURL encodes as BSON null.
	set := bson.D{
		{Key: "name", Value: upd.Name},
		{Key: "imageUrl", Value: upd.ImageURL},
	}

	var update bson.D
	if upd.Error != "" {
		set = append(set, bson.E{Key: "error", Value: upd.Error})
		update = bson.D{{Key: "$set", Value: set}}
	} else {
		update = bson.D{
			{Key: "$set", Value: set},
			{Key: "$unset", Value: bson.D{{Key: "error", Value: ""}}},
		}
	}

	res, err := m.packs.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("failed to update sticker pack: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPackNotFound
	}

	return nil
}

// Newest returns up to limit records, newest first.
func (m *MongoDB) Newest(ctx context.Context, limit int) ([]models.StickerPack, error) {
	return m.findPage(ctx, bson.D{}, -1, limit)
}

// OlderThan returns up to limit records strictly after c in gallery order,
// newest first.
func (m *MongoDB) OlderThan(ctx context.Context, c models.PageCursor, limit int) ([]models.StickerPack, error) {
	filter, err := cursorFilter(c, "$lt")
	if err != nil {
		return nil, err
	}
	return m.findPage(ctx, filter, -1, limit)
}

// NewerThan returns the limit records immediately before c in gallery order,
// still newest first. It walks ascending from the cursor and flips the result,
// which is the take-last-N half of an end-bound query.
func (m *MongoDB) NewerThan(ctx context.Context, c models.PageCursor, limit int) ([]models.StickerPack, error) {
	filter, err := cursorFilter(c, "$gt")
	if err != nil {
		return nil, err
	}

	packs, err := m.findPage(ctx, filter, 1, limit)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(packs)-1; i < j; i, j = i+1, j-1 {
		packs[i], packs[j] = packs[j], packs[i]
	}
	return packs, nil
}

// WatchInserts opens a change stream that yields one event per inserted record.
// Change streams require a replica set or sharded cluster.
func (m *MongoDB) WatchInserts(ctx context.Context) (*mongo.ChangeStream, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "operationType", Value: "insert"}}}},
	}

	stream, err := m.packs.Watch(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to open change stream: %w", err)
	}
	return stream, nil
}

func (m *MongoDB) findPage(ctx context.Context, filter bson.D, dir int, limit int) ([]models.StickerPack, error) {
	ctx, cancel := m.opContext(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: dir}, {Key: "_id", Value: dir}}).
		SetLimit(int64(limit))

	cur, err := m.packs.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query sticker packs: %w", err)
	}
	return decodePacks(ctx, cur)
}

func decodePacks(ctx context.Context, cur *mongo.Cursor) ([]models.StickerPack, error) {
	defer cur.Close(ctx)

	packs := []models.StickerPack{}
	for cur.Next(ctx) {
		var pack models.StickerPack
		if err := cur.Decode(&pack); err != nil {
			return nil, fmt.Errorf("failed to decode sticker pack: %w", err)
		}
		pack.Timestamp = pack.Timestamp.UTC()
		packs = append(packs, pack)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("sticker pack cursor: %w", err)
	}
	return packs, nil
}

func cursorFilter(c models.PageCursor, op string) (bson.D, error) {
	oid, err := objectID(c.ID)
	if err != nil {
		return nil, err
	}

	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "timestamp", Value: bson.D{{Key: op, Value: c.Timestamp}}}},
		bson.D{
			{Key: "timestamp", Value: c.Timestamp},
			{Key: "_id", Value: bson.D{{Key: op, Value: oid}}},
		},
	}}}, nil
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}
