package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denisAlshanov/stickerGallery/internal/database"
	"github.com/denisAlshanov/stickerGallery/internal/models"
	"github.com/denisAlshanov/stickerGallery/internal/services/backfill"
	"github.com/denisAlshanov/stickerGallery/internal/services/gallery"
	"github.com/denisAlshanov/stickerGallery/internal/services/preview"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memStore holds packs newest first.
type memStore struct {
	mu    sync.Mutex
	packs []models.StickerPack
	err   error
	next  int
}

func newMemStore(n int) *memStore {
	s := &memStore{}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := n - 1; i >= 0; i-- {
		s.packs = append(s.packs, models.StickerPack{
			ID:        fmt.Sprintf("%024x", i+1),
			Link:      fmt.Sprintf("https://t.me/addstickers/pack_%02d", i),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}
	s.next = n + 1
	return s
}

func (s *memStore) Newest(ctx context.Context, limit int) ([]models.StickerPack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return takeFirst(s.packs, limit), nil
}

func (s *memStore) OlderThan(ctx context.Context, c models.PageCursor, limit int) ([]models.StickerPack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.packs {
		if p.ID == c.ID {
			return takeFirst(s.packs[i+1:], limit), nil
		}
	}
	return []models.StickerPack{}, nil
}

func (s *memStore) NewerThan(ctx context.Context, c models.PageCursor, limit int) ([]models.StickerPack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.packs {
		if p.ID == c.ID {
			start := i - limit
			if start < 0 {
				start = 0
			}
			return append([]models.StickerPack{}, s.packs[start:i]...), nil
		}
	}
	return []models.StickerPack{}, nil
}

func (s *memStore) CreateStickerPack(ctx context.Context, link string) (*models.StickerPack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	pack := models.StickerPack{ID: fmt.Sprintf("%024x", s.next), Link: link, Timestamp: time.Now().UTC()}
	s.next++
	s.packs = append([]models.StickerPack{pack}, s.packs...)
	return &pack, nil
}

func (s *memStore) GetStickerPack(ctx context.Context, id string) (*models.StickerPack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.packs {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, database.ErrPackNotFound
}

func takeFirst(packs []models.StickerPack, n int) []models.StickerPack {
	if len(packs) > n {
		packs = packs[:n]
	}
	return append([]models.StickerPack{}, packs...)
}

type recordingNotifier struct {
	packs []models.StickerPack
}

func (n *recordingNotifier) Dispatch(ctx context.Context, pack models.StickerPack) {
	n.packs = append(n.packs, pack)
}

func newGalleryEngine(store *memStore, notify CreatedNotifier) *gin.Engine {
	h := NewGalleryHandler(store, gallery.NewPager(store, 12), notify)

	engine := gin.New()
	engine.SetHTMLTemplate(GalleryTemplate())
	engine.GET("/", h.Index)
	engine.GET(PlaceholderPath, h.Placeholder)
	engine.POST("/submit", h.SubmitForm)
	engine.GET("/api/v1/packs", h.ListPacks)
	engine.POST("/api/v1/packs", h.CreatePack)
	engine.GET("/api/v1/packs/:id", h.GetPack)
	return engine
}

func do(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestIndexRendersPacks(t *testing.T) {
	store := newMemStore(2)
	permanent := "https://cdn.example.com/sticker_previews/x.webp"
	store.packs[0].Name = "Cats"
	store.packs[0].ImageURL = &permanent

	w := do(newGalleryEngine(store, nil), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `src="https://cdn.example.com/sticker_previews/x.webp"`)
	assert.Contains(t, body, "Cats Sticker Pack")
	assert.Contains(t, body, "Loading Name...")
	assert.Contains(t, body, PlaceholderPath)
	assert.Contains(t, body, `<span class="disabled">Previous</span>`)
	assert.Contains(t, body, `<span class="disabled">Next</span>`)
}

func TestIndexShowsLoadError(t *testing.T) {
	store := newMemStore(3)
	store.err = errors.New("no reachable servers")

	w := do(newGalleryEngine(store, nil), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), gallery.LoadErrorMessage)
}

func TestIndexBadCursorFallsBackToNewest(t *testing.T) {
	w := do(newGalleryEngine(newMemStore(3), nil), httptest.NewRequest(http.MethodGet, "/?dir=next&last=%25%25", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), alertBadCursor)
	assert.Contains(t, w.Body.String(), "pack_02")
}

func TestSubmitFormSuccess(t *testing.T) {
	store := newMemStore(0)
	notifier := &recordingNotifier{}

	form := url.Values{"link": {" https://t.me/addstickers/MyPack123 "}}
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := do(newGalleryEngine(store, notifier), req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?notice=submitted", w.Header().Get("Location"))

	require.Len(t, notifier.packs, 1)
	assert.Equal(t, "https://t.me/addstickers/MyPack123", notifier.packs[0].Link)

	page := do(newGalleryEngine(store, nil), httptest.NewRequest(http.MethodGet, "/?notice=submitted", nil))
	assert.Contains(t, page.Body.String(), noticeSubmitted)
	assert.Contains(t, page.Body.String(), "Loading Name...")
}

func TestSubmitFormRejectsInvalidLink(t *testing.T) {
	store := newMemStore(0)
	notifier := &recordingNotifier{}

	form := url.Values{"link": {"https://example.com/foo"}}
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := do(newGalleryEngine(store, notifier), req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), alertBadLink)
	assert.Contains(t, w.Body.String(), `value="https://example.com/foo"`)
	assert.Empty(t, notifier.packs)
	assert.Empty(t, store.packs)
}

func TestSubmitFormEmptyLink(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader("link=+"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := do(newGalleryEngine(newMemStore(0), nil), req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), alertEmptyLink)
}

func TestListPacksPaginates(t *testing.T) {
	engine := newGalleryEngine(newMemStore(25), nil)

	var first models.PackListResponse
	w := do(engine, httptest.NewRequest(http.MethodGet, "/api/v1/packs", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Len(t, first.Packs, 12)
	assert.True(t, first.State.IsFirstPage)
	assert.False(t, first.State.IsLastPage)

	var second models.PackListResponse
	w = do(engine, httptest.NewRequest(http.MethodGet, "/api/v1/packs?direction=next&last="+first.State.Last, nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Len(t, second.Packs, 12)
	assert.NotEqual(t, first.Packs[0].ID, second.Packs[0].ID)

	w = do(engine, httptest.NewRequest(http.MethodGet, "/api/v1/packs?direction=next&last=%25%25", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CURSOR")
}

func TestCreatePack(t *testing.T) {
	store := newMemStore(0)
	notifier := &recordingNotifier{}
	engine := newGalleryEngine(store, notifier)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/packs", strings.NewReader(`{"link":"https://t.me/addstickers/MyPack123"}`))
	req.Header.Set("Content-Type", "application/json")
	w := do(engine, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.SubmitPackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp.Status)
	assert.Equal(t, "https://t.me/addstickers/MyPack123", resp.Pack.Link)
	assert.Nil(t, resp.Pack.ImageURL)
	assert.Len(t, notifier.packs, 1)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/packs", strings.NewReader(`{"link":"t.me/addstickers/MyPack123"}`))
	req.Header.Set("Content-Type", "application/json")
	w = do(engine, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_LINK_FORMAT")

	req = httptest.NewRequest(http.MethodPost, "/api/v1/packs", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w = do(engine, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestGetPack(t *testing.T) {
	store := newMemStore(1)
	engine := newGalleryEngine(store, nil)

	w := do(engine, httptest.NewRequest(http.MethodGet, "/api/v1/packs/"+store.packs[0].ID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), store.packs[0].Link)

	w = do(engine, httptest.NewRequest(http.MethodGet, "/api/v1/packs/ffffffffffffffffffffffff", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PACK_NOT_FOUND")
}

func TestPlaceholder(t *testing.T) {
	w := do(newGalleryEngine(newMemStore(0), nil), httptest.NewRequest(http.MethodGet, PlaceholderPath, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
}

type stubProcessor struct {
	got []models.StickerPack
}

func (p *stubProcessor) Process(ctx context.Context, pack models.StickerPack) preview.Result {
	p.got = append(p.got, pack)
	if pack.ImageURL != nil {
		return preview.Result{Outcome: models.OutcomeSkipped}
	}
	return preview.Result{Outcome: models.OutcomeSuccess}
}

type blockingRunner struct {
	release chan struct{}
	started chan struct{}
}

func (r *blockingRunner) Run(ctx context.Context) backfill.Summary {
	close(r.started)
	<-r.release
	return backfill.Summary{Counts: map[models.Outcome]int{}}
}

func newAdminEngine(h *AdminHandler) *gin.Engine {
	engine := gin.New()
	engine.POST("/admin/packs/:id/refresh", h.RefreshPack)
	engine.POST("/admin/backfill", h.StartBackfill)
	return engine
}

func TestRefreshPack(t *testing.T) {
	store := newMemStore(1)
	permanent := "https://cdn.example.com/a.webp"
	store.packs[0].ImageURL = &permanent
	id := store.packs[0].ID

	proc := &stubProcessor{}
	engine := newAdminEngine(NewAdminHandler(context.Background(), store, proc, nil))

	w := do(engine, httptest.NewRequest(http.MethodPost, "/admin/packs/"+id+"/refresh", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"outcome":"skipped"`)

	w = do(engine, httptest.NewRequest(http.MethodPost, "/admin/packs/"+id+"/refresh?force=true", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"outcome":"success"`)
	require.Len(t, proc.got, 2)
	assert.Nil(t, proc.got[1].ImageURL)

	w = do(engine, httptest.NewRequest(http.MethodPost, "/admin/packs/ffffffffffffffffffffffff/refresh", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminWithoutBot(t *testing.T) {
	engine := newAdminEngine(NewAdminHandler(context.Background(), newMemStore(1), nil, nil))

	w := do(engine, httptest.NewRequest(http.MethodPost, "/admin/packs/x/refresh", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(engine, httptest.NewRequest(http.MethodPost, "/admin/backfill", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStartBackfillOneAtATime(t *testing.T) {
	runner := &blockingRunner{release: make(chan struct{}), started: make(chan struct{})}
	h := NewAdminHandler(context.Background(), newMemStore(0), nil, runner)
	engine := newAdminEngine(h)

	w := do(engine, httptest.NewRequest(http.MethodPost, "/admin/backfill", nil))
	require.Equal(t, http.StatusAccepted, w.Code)
	<-runner.started

	w = do(engine, httptest.NewRequest(http.MethodPost, "/admin/backfill", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "BACKFILL_IN_PROGRESS")

	close(runner.release)
	h.Wait()
	assert.False(t, h.running.Load())
}

type pinger struct{ err error }

func (p pinger) Ping(ctx context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	healthy := NewHealthHandler(pinger{}, pinger{}, false, "changestream")
	unhealthy := NewHealthHandler(pinger{}, pinger{err: errors.New("bucket missing")}, true, "inline")

	engine := gin.New()
	engine.GET("/ok", healthy.Health)
	engine.GET("/bad", unhealthy.Health)
	engine.GET("/live", healthy.Liveness)
	engine.GET("/ready", unhealthy.Readiness)

	w := do(engine, httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "disabled", resp.Services["telegram"].Status)

	w = do(engine, httptest.NewRequest(http.MethodGet, "/bad", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "bucket missing")

	assert.Equal(t, http.StatusOK, do(engine, httptest.NewRequest(http.MethodGet, "/live", nil)).Code)
	assert.Equal(t, http.StatusOK, do(engine, httptest.NewRequest(http.MethodGet, "/ready", nil)).Code)
}
