package handlers

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/stickerGallery/internal/database"
	"github.com/denisAlshanov/stickerGallery/internal/models"
	"github.com/denisAlshanov/stickerGallery/internal/services/gallery"
	"github.com/denisAlshanov/stickerGallery/internal/utils"
)

//go:embed templates
var templateFS embed.FS

const (
	PlaceholderPath = "/static/generic-placeholder.svg"

	loadingName = "Loading Name..."

	noticeSubmitted = "Sticker pack submitted successfully! It will appear shortly with its preview."
	alertEmptyLink  = "Please enter a Telegram sticker pack link."
	alertBadLink    = "Invalid Telegram sticker link format. It should look like: https://t.me/addstickers/YourPackName"
	alertSubmit     = "Error submitting sticker pack. Please try again."
	alertBadCursor  = "That page link is no longer valid. Showing the newest packs."
)

// PackStore is the record access the gallery endpoints need.
type PackStore interface {
	gallery.PageQuerier
	gallery.PackCreator
	GetStickerPack(ctx context.Context, id string) (*models.StickerPack, error)
}

// CreatedNotifier is told about every record created through the gallery.
type CreatedNotifier interface {
	Dispatch(ctx context.Context, pack models.StickerPack)
}

type GalleryHandler struct {
	store  PackStore
	pager  *gallery.Pager
	notify CreatedNotifier
}

// NewGalleryHandler wires the gallery endpoints. notify may be nil when
// ingestion is driven by the change stream or disabled.
func NewGalleryHandler(store PackStore, pager *gallery.Pager, notify CreatedNotifier) *GalleryHandler {
	return &GalleryHandler{
		store:  store,
		pager:  pager,
		notify: notify,
	}
}

// GalleryTemplate parses the embedded HTML templates.
func GalleryTemplate() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type packView struct {
	ID       string
	Name     string
	Link     string
	ImageSrc string
	Alt      string
}

type pageView struct {
	Packs   []packView
	State   gallery.PageState
	Message string
	Notice  string
	Alert   string
	Link    string
}

func newPackView(p models.StickerPack) packView {
	v := packView{
		ID:       p.ID,
		Name:     p.Name,
		Link:     p.Link,
		ImageSrc: PlaceholderPath,
		Alt:      "Telegram Sticker Pack",
	}
	if p.HasImage() && strings.HasPrefix(*p.ImageURL, "http") {
		v.ImageSrc = *p.ImageURL
	}
	if p.Name != "" {
		v.Alt = p.Name + " Sticker Pack"
	} else {
		v.Name = loadingName
	}
	return v
}

func newPageView(page gallery.Page) pageView {
	packs := make([]packView, len(page.Packs))
	for i, p := range page.Packs {
		packs[i] = newPackView(p)
	}
	return pageView{Packs: packs, State: page.State, Message: page.Message}
}

// Index godoc
// @Summary Gallery page
// @Description Render one page of the sticker pack gallery, newest first
// @Tags gallery
// @Produce html
// @Param dir query string false "initial, next or prev"
// @Param first query string false "Cursor of the current page's first item"
// @Param last query string false "Cursor of the current page's last item"
// @Success 200 {string} string "HTML page"
// @Router / [get]
func (h *GalleryHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()

	state := gallery.PageState{First: c.Query("first"), Last: c.Query("last")}
	alert := ""

	page, err := h.pager.Load(ctx, state, gallery.ParseDirection(c.Query("dir")))
	if err != nil {
		// Only a malformed cursor gets here; query failures come back as a page.
		page, _ = h.pager.Load(ctx, gallery.PageState{}, gallery.DirectionInitial)
		alert = alertBadCursor
	}

	view := newPageView(page)
	view.Alert = alert

	if c.Query("notice") == "submitted" {
		view.Notice = noticeSubmitted
	}

	c.HTML(http.StatusOK, "gallery.html", view)
}

// SubmitForm godoc
// @Summary Submit a sticker pack from the HTML form
// @Tags gallery
// @Accept x-www-form-urlencoded
// @Produce html
// @Param link formData string true "https://t.me/addstickers/<name>"
// @Success 303 {string} string "Redirect to the gallery"
// @Failure 400 {string} string "Gallery page with an alert"
// @Router /submit [post]
func (h *GalleryHandler) SubmitForm(c *gin.Context) {
	ctx := c.Request.Context()
	link := c.PostForm("link")

	pack, err := gallery.Submit(ctx, h.store, link)
	if err != nil {
		status, alert := http.StatusInternalServerError, alertSubmit
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			switch appErr.Code {
			case utils.ErrorCodeValidationError:
				status, alert = http.StatusBadRequest, alertEmptyLink
			case utils.ErrorCodeInvalidLinkFormat:
				status, alert = http.StatusBadRequest, alertBadLink
			default:
				utils.LogError(ctx, "Failed to submit sticker pack", err)
			}
		}

		page, _ := h.pager.Load(ctx, gallery.PageState{}, gallery.DirectionInitial)
		view := newPageView(page)
		view.Alert = alert
		view.Link = link
		c.HTML(status, "gallery.html", view)
		return
	}

	h.created(ctx, *pack)
	c.Redirect(http.StatusSeeOther, "/?notice=submitted")
}

// ListPacks godoc
// @Summary List sticker packs
// @Description One gallery page, newest first, with cursors for the neighbouring pages
// @Tags packs
// @Produce json
// @Param direction query string false "initial, next or prev"
// @Param first query string false "Cursor of the current page's first item"
// @Param last query string false "Cursor of the current page's last item"
// @Success 200 {object} models.PackListResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/packs [get]
func (h *GalleryHandler) ListPacks(c *gin.Context) {
	ctx := c.Request.Context()

	state := gallery.PageState{First: c.Query("first"), Last: c.Query("last")}
	page, err := h.pager.Load(ctx, state, gallery.ParseDirection(c.Query("direction")))
	if err != nil {
		cursor := state.Last
		if gallery.ParseDirection(c.Query("direction")) == gallery.DirectionPrev {
			cursor = state.First
		}
		errorResponse(c, utils.NewInvalidCursorError(cursor))
		return
	}

	c.JSON(http.StatusOK, models.PackListResponse{
		Packs: page.Packs,
		State: models.PageStateResponse{
			First:       page.State.First,
			Last:        page.State.Last,
			IsFirstPage: page.State.IsFirstPage,
			IsLastPage:  page.State.IsLastPage,
		},
		Message: page.Message,
	})
}

// CreatePack godoc
// @Summary Submit a sticker pack
// @Description Store a Telegram sticker pack link; name and preview are filled in asynchronously
// @Tags packs
// @Accept json
// @Produce json
// @Param request body models.SubmitPackRequest true "Sticker pack link"
// @Success 201 {object} models.SubmitPackResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/packs [post]
func (h *GalleryHandler) CreatePack(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.SubmitPackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, utils.NewValidationError("Invalid request body", map[string]interface{}{
			"error": err.Error(),
		}))
		return
	}

	pack, err := gallery.Submit(ctx, h.store, req.Link)
	if err != nil {
		handleError(c, err, "Failed to submit sticker pack")
		return
	}

	h.created(ctx, *pack)

	c.JSON(http.StatusCreated, models.SubmitPackResponse{
		Status:  "accepted",
		Message: noticeSubmitted,
		Pack:    *pack,
	})
}

// GetPack godoc
// @Summary Get a sticker pack
// @Tags packs
// @Produce json
// @Param id path string true "Sticker pack ID"
// @Success 200 {object} models.StickerPack
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/packs/{id} [get]
func (h *GalleryHandler) GetPack(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	pack, err := h.store.GetStickerPack(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrPackNotFound) || errors.Is(err, database.ErrInvalidID) {
			errorResponse(c, utils.NewPackNotFoundError(id))
			return
		}
		handleError(c, err, "Failed to get sticker pack")
		return
	}

	c.JSON(http.StatusOK, pack)
}

// Placeholder serves the image shown for packs without a preview.
func (h *GalleryHandler) Placeholder(c *gin.Context) {
	data, err := templateFS.ReadFile("templates/generic-placeholder.svg")
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/svg+xml", data)
}

func (h *GalleryHandler) created(ctx context.Context, pack models.StickerPack) {
	if h.notify != nil {
		h.notify.Dispatch(ctx, pack)
	}
}

func errorResponse(c *gin.Context, err *utils.AppError) {
	c.JSON(err.StatusCode, gin.H{
		"error":      err,
		"request_id": c.GetString("request_id"),
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}

func handleError(c *gin.Context, err error, message string) {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		if appErr.StatusCode >= http.StatusInternalServerError {
			utils.LogError(c.Request.Context(), message, err)
		}
		errorResponse(c, appErr)
		return
	}

	utils.LogError(c.Request.Context(), message, err)
	errorResponse(c, utils.NewInternalError())
}
