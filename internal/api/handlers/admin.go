package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/stickerGallery/internal/database"
	"github.com/denisAlshanov/stickerGallery/internal/models"
	"github.com/denisAlshanov/stickerGallery/internal/services/backfill"
	"github.com/denisAlshanov/stickerGallery/internal/services/preview"
	"github.com/denisAlshanov/stickerGallery/internal/utils"
)

type PackGetter interface {
	GetStickerPack(ctx context.Context, id string) (*models.StickerPack, error)
}

type PackProcessor interface {
	Process(ctx context.Context, pack models.StickerPack) preview.Result
}

type BackfillRunner interface {
	Run(ctx context.Context) backfill.Summary
}

// AdminHandler exposes manual ingestion. processor and runner are nil when
// the Telegram bot is not configured.
type AdminHandler struct {
	store     PackGetter
	processor PackProcessor
	runner    BackfillRunner
	baseCtx   context.Context
	running   atomic.Bool
	wg        sync.WaitGroup
}

// NewAdminHandler runs background backfills under baseCtx, so cancelling it
// stops them.
func NewAdminHandler(baseCtx context.Context, store PackGetter, processor PackProcessor, runner BackfillRunner) *AdminHandler {
	return &AdminHandler{
		store:     store,
		processor: processor,
		runner:    runner,
		baseCtx:   baseCtx,
	}
}

// RefreshPack godoc
// @Summary Re-run ingestion for one sticker pack
// @Description Runs the preview pipeline synchronously. With force=true a stored preview is replaced.
// @Tags admin
// @Produce json
// @Param id path string true "Sticker pack ID"
// @Param force query bool false "Ignore an existing permanent preview"
// @Success 200 {object} models.RefreshPackResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/admin/packs/{id}/refresh [post]
// @Security BearerAuth
func (h *AdminHandler) RefreshPack(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if h.processor == nil {
		errorResponse(c, utils.NewIngestUnavailableError())
		return
	}

	pack, err := h.store.GetStickerPack(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrPackNotFound) || errors.Is(err, database.ErrInvalidID) {
			errorResponse(c, utils.NewPackNotFoundError(id))
			return
		}
		handleError(c, err, "Failed to get sticker pack")
		return
	}

	if c.Query("force") == "true" {
		pack.ImageURL = nil
	}

	res := h.processor.Process(ctx, *pack)

	resp := models.RefreshPackResponse{PackID: pack.ID, Outcome: res.Outcome}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// StartBackfill godoc
// @Summary Start a backfill over every sticker pack
// @Description Starts the batch runner in the background. Only one run at a time.
// @Tags admin
// @Produce json
// @Success 202 {object} models.BackfillResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/admin/backfill [post]
// @Security BearerAuth
func (h *AdminHandler) StartBackfill(c *gin.Context) {
	if h.runner == nil {
		errorResponse(c, utils.NewIngestUnavailableError())
		return
	}

	if !h.running.CompareAndSwap(false, true) {
		errorResponse(c, utils.NewBackfillInProgressError())
		return
	}

	ctx := utils.WithCorrelationID(h.baseCtx, utils.GetCorrelationID(c.Request.Context()))
	admin := c.GetString("admin_subject")

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer h.running.Store(false)

		summary := h.runner.Run(ctx)
		utils.LogInfo(ctx, "Admin backfill finished", utils.Fields{
			"admin":   admin,
			"summary": summary.String(),
		})
	}()

	c.JSON(http.StatusAccepted, models.BackfillResponse{
		Status:  "started",
		Message: "Backfill started",
	})
}

// Wait blocks until a running backfill returns.
func (h *AdminHandler) Wait() {
	h.wg.Wait()
}
