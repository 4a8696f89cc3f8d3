package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/denisAlshanov/stickerGallery/internal/config"
	"github.com/denisAlshanov/stickerGallery/internal/models"
	"github.com/denisAlshanov/stickerGallery/internal/services/storage"
	"github.com/denisAlshanov/stickerGallery/internal/services/telegram"
	"github.com/denisAlshanov/stickerGallery/internal/utils"
)

const (
	defaultExt         = ".webp"
	defaultContentType = "image/webp"

	emptyPackName = "Empty Pack"
	errorPackName = "Error Processing"
)

// Sources label who invoked the pipeline in logs and metrics.
const (
	SourceTrigger  = "trigger"
	SourceBackfill = "backfill"
	SourceAdmin    = "admin"
)

var errNoFilePath = errors.New("Telegram returned no file path for the thumbnail")

// PackStore is the record mutation the pipeline needs.
type PackStore interface {
	UpdatePreview(ctx context.Context, id string, upd models.PreviewUpdate) error
}

type Result struct {
	Outcome models.Outcome
	Err     error
}

// Pipeline resolves a pack's title and first thumbnail and re-hosts the
// thumbnail in object storage. It never retries.
type Pipeline struct {
	store        PackStore
	client       telegram.StickerClient
	storage      storage.StorageInterface
	keyPrefix    string
	cacheControl string
	tempDir      string
	source       string
}

func New(store PackStore, client telegram.StickerClient, objects storage.StorageInterface, cfg *config.S3Config) *Pipeline {
	return &Pipeline{
		store:        store,
		client:       client,
		storage:      objects,
		keyPrefix:    cfg.KeyPrefix,
		cacheControl: cfg.CacheControl,
		source:       SourceTrigger,
	}
}

// WithSource returns a copy of p that labels its results with source.
func (p *Pipeline) WithSource(source string) *Pipeline {
	cp := *p
	cp.source = source
	return &cp
}

// Process runs one ingestion attempt for pack. Only the record identified by
// pack.ID is mutated; failures after the link is parsed end up in its error
// field rather than in the returned Result alone.
func (p *Pipeline) Process(ctx context.Context, pack models.StickerPack) Result {
	ctx = utils.WithComponent(ctx, "preview")
	start := time.Now()

	res := p.process(ctx, pack)

	ingestionsTotal.WithLabelValues(string(res.Outcome), p.source).Inc()
	ingestionDuration.WithLabelValues(p.source).Observe(time.Since(start).Seconds())

	fields := utils.Fields{
		"pack_id": pack.ID,
		"link":    pack.Link,
		"outcome": res.Outcome,
		"source":  p.source,
	}
	switch res.Outcome {
	case models.OutcomeError:
		utils.LogError(ctx, "Sticker pack ingestion failed", res.Err, fields)
	case models.OutcomeInvalidLink, models.OutcomeNoThumb, models.OutcomeEmptyPack:
		utils.LogWarn(ctx, "Sticker pack ingested without preview", fields)
	default:
		utils.LogInfo(ctx, "Sticker pack ingested", fields)
	}

	return res
}

func (p *Pipeline) process(ctx context.Context, pack models.StickerPack) Result {
	if pack.ImageURL != nil && strings.HasPrefix(*pack.ImageURL, p.storage.PublicURLPrefix()) {
		return Result{Outcome: models.OutcomeSkipped}
	}

	packName, ok := telegram.ParsePackName(pack.Link)
	if !ok {
		return Result{Outcome: models.OutcomeInvalidLink, Err: utils.NewInvalidLinkError(pack.Link)}
	}

	set, err := p.client.GetStickerSet(ctx, packName)
	if err != nil {
		return p.fail(ctx, pack, packName, err)
	}

	if len(set.Stickers) == 0 {
		name := set.Title
		if name == "" {
			name = emptyPackName
		}
		if err := p.store.UpdatePreview(ctx, pack.ID, models.PreviewUpdate{Name: name}); err != nil {
			return p.fail(ctx, pack, packName, err)
		}
		return Result{Outcome: models.OutcomeEmptyPack}
	}

	thumbID, ok := set.Stickers[0].Thumb.FileID()
	if !ok {
		if err := p.store.UpdatePreview(ctx, pack.ID, models.PreviewUpdate{Name: set.Title}); err != nil {
			return p.fail(ctx, pack, packName, err)
		}
		return Result{Outcome: models.OutcomeNoThumb}
	}

	imageURL, err := p.rehost(ctx, pack.ID, thumbID)
	if err != nil {
		return p.fail(ctx, pack, packName, err)
	}

	if err := p.store.UpdatePreview(ctx, pack.ID, models.PreviewUpdate{Name: set.Title, ImageURL: &imageURL}); err != nil {
		return p.fail(ctx, pack, packName, err)
	}

	return Result{Outcome: models.OutcomeSuccess}
}

// rehost copies the thumbnail into object storage and returns its permanent URL.
func (p *Pipeline) rehost(ctx context.Context, packID, fileID string) (string, error) {
	file, err := p.client.GetFile(ctx, fileID)
	if err != nil {
		return "", err
	}
	if file.FilePath == "" {
		return "", errNoFilePath
	}

	dl, err := p.client.DownloadFile(ctx, file.FilePath)
	if err != nil {
		return "", err
	}

	ext := path.Ext(file.FilePath)
	if ext == "" {
		ext = defaultExt
	}
	contentType := dl.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	scratch, err := os.CreateTemp(p.tempDir, "sticker-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create scratch file: %w", err)
	}
	defer func() {
		scratch.Close()
		os.Remove(scratch.Name())
	}()

	size, err := scratch.Write(dl.Data)
	if err != nil {
		return "", fmt.Errorf("failed to write scratch file: %w", err)
	}
	if _, err := scratch.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind scratch file: %w", err)
	}

	key := path.Join(p.keyPrefix, packID+ext)
	if err := p.storage.UploadPublic(ctx, key, scratch, int64(size), contentType, p.cacheControl); err != nil {
		return "", err
	}

	return p.storage.PublicURL(key), nil
}

// fail records cause on the pack. The name falls back from a fresh title to
// the stored name to a fixed marker; a failed write is only logged.
func (p *Pipeline) fail(ctx context.Context, pack models.StickerPack, packName string, cause error) Result {
	name := ""
	if set, err := p.client.GetStickerSet(ctx, packName); err == nil {
		name = set.Title
	}
	if name == "" {
		name = pack.Name
	}
	if name == "" {
		name = errorPackName
	}

	upd := models.PreviewUpdate{Name: name, Error: cause.Error()}
	if err := p.store.UpdatePreview(ctx, pack.ID, upd); err != nil {
		utils.LogError(ctx, "Failed to record ingestion error", err, utils.Fields{
			"pack_id": pack.ID,
		})
	}

	return Result{Outcome: models.OutcomeError, Err: cause}
}
