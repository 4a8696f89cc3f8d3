package trigger

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/denisAlshanov/stickerGallery/internal/config"
	"github.com/denisAlshanov/stickerGallery/internal/models"
	"github.com/denisAlshanov/stickerGallery/internal/services/preview"
	"github.com/denisAlshanov/stickerGallery/internal/utils"
)

type Processor interface {
	Process(ctx context.Context, pack models.StickerPack) preview.Result
}

// EventSource is the subset of *mongo.ChangeStream the watcher reads.
type EventSource interface {
	Next(ctx context.Context) bool
	Decode(val interface{}) error
	Err() error
	Close(ctx context.Context) error
}

// OpenFunc opens a fresh event source, e.g. a change stream on stickerPacks.
type OpenFunc func(ctx context.Context) (EventSource, error)

type changeEvent struct {
	OperationType string             `bson:"operationType"`
	FullDocument  models.StickerPack `bson:"fullDocument"`
}

const (
	minReopenBackoff = time.Second
	maxReopenBackoff = 30 * time.Second
)

// Handler runs the preview pipeline once for every newly created record.
type Handler struct {
	processor Processor
	seen      *lru.Cache[string, struct{}]
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// NewHandler returns a handler around processor. A nil processor stands for
// a bot that failed to initialize: events are logged and dropped.
func NewHandler(processor Processor, cfg *config.IngestConfig) (*Handler, error) {
	size := cfg.DedupeSize
	if size < 1 {
		size = 1
	}
	seen, err := lru.New[string, struct{}](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create dedupe cache: %w", err)
	}

	workers := cfg.MaxConcurrent
	if workers < 1 {
		workers = 1
	}

	return &Handler{
		processor: processor,
		seen:      seen,
		semaphore: make(chan struct{}, workers),
	}, nil
}

// HandleCreated processes one created record. It never panics or returns an
// error; redelivered records are ignored.
func (h *Handler) HandleCreated(ctx context.Context, pack models.StickerPack) {
	ctx = utils.WithComponent(ctx, "trigger")

	defer func() {
		if r := recover(); r != nil {
			utils.LogError(ctx, "Ingestion panicked", fmt.Errorf("panic: %v", r), utils.Fields{
				"pack_id": pack.ID,
			})
		}
	}()

	if h.processor == nil {
		utils.LogWarn(ctx, "Telegram bot not initialized, skipping ingestion", utils.Fields{
			"pack_id": pack.ID,
		})
		return
	}

	if seen, _ := h.seen.ContainsOrAdd(pack.ID, struct{}{}); seen {
		utils.LogDebug(ctx, "Ignoring duplicate create event", utils.Fields{"pack_id": pack.ID})
		return
	}

	h.processor.Process(ctx, pack)
}

// Dispatch runs HandleCreated in the background. The work outlives ctx's
// cancellation but keeps its values for logging.
func (h *Handler) Dispatch(ctx context.Context, pack models.StickerPack) {
	ctx = context.WithoutCancel(ctx)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		h.semaphore <- struct{}{}
		defer func() { <-h.semaphore }()

		h.HandleCreated(ctx, pack)
	}()
}

// Watch dispatches every insert read from source until ctx is done or the
// source fails.
func (h *Handler) Watch(ctx context.Context, source EventSource) error {
	defer source.Close(context.WithoutCancel(ctx))

	for source.Next(ctx) {
		var ev changeEvent
		if err := source.Decode(&ev); err != nil {
			utils.LogError(ctx, "Failed to decode change event", err)
			continue
		}
		if ev.OperationType != "" && ev.OperationType != "insert" {
			continue
		}
		if ev.FullDocument.ID == "" {
			utils.LogWarn(ctx, "Change event without document")
			continue
		}
		h.Dispatch(ctx, ev.FullDocument)
	}

	if ctx.Err() != nil {
		return nil
	}
	if err := source.Err(); err != nil {
		return fmt.Errorf("change stream: %w", err)
	}
	return nil
}

// Run keeps a source open until ctx is done, reopening it with capped
// exponential backoff after failures.
func (h *Handler) Run(ctx context.Context, open OpenFunc) {
	ctx = utils.WithComponent(ctx, "trigger")
	backoff := minReopenBackoff

	for ctx.Err() == nil {
		source, err := open(ctx)
		if err != nil {
			utils.LogError(ctx, "Failed to open change stream", err, utils.Fields{"retry_in": backoff.String()})
		} else {
			utils.LogInfo(ctx, "Watching stickerPacks inserts")
			err = h.Watch(ctx, source)
			if err == nil {
				backoff = minReopenBackoff
				continue
			}
			utils.LogError(ctx, "Change stream closed", err, utils.Fields{"retry_in": backoff.String()})
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxReopenBackoff {
			backoff = maxReopenBackoff
		}
	}
}

// Wait blocks until every dispatched invocation has finished.
func (h *Handler) Wait() {
	h.wg.Wait()
}
