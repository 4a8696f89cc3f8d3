package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/denisAlshanov/stickerGallery/internal/database"
	"github.com/denisAlshanov/stickerGallery/internal/models"
	"github.com/denisAlshanov/stickerGallery/internal/services/telegram"
	"github.com/denisAlshanov/stickerGallery/internal/utils"
)

const LoadErrorMessage = "Error loading sticker packs. Please try again later."

type Direction string

const (
	DirectionInitial Direction = "initial"
	DirectionNext    Direction = "next"
	DirectionPrev    Direction = "prev"
)

// ParseDirection maps a query value to a Direction; unknown values load the
// newest page.
func ParseDirection(s string) Direction {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionNext:
		return DirectionNext
	case DirectionPrev:
		return DirectionPrev
	default:
		return DirectionInitial
	}
}

// PageQuerier reads gallery order (timestamp desc, _id desc).
type PageQuerier interface {
	Newest(ctx context.Context, limit int) ([]models.StickerPack, error)
	OlderThan(ctx context.Context, c models.PageCursor, limit int) ([]models.StickerPack, error)
	NewerThan(ctx context.Context, c models.PageCursor, limit int) ([]models.StickerPack, error)
}

// PackCreator inserts a submitted link.
type PackCreator interface {
	CreateStickerPack(ctx context.Context, link string) (*models.StickerPack, error)
}

// PageState is everything needed to move one page in either direction.
// First and Last are cursor tokens of the page's first and last item.
type PageState struct {
	First       string
	Last        string
	IsFirstPage bool
	IsLastPage  bool
}

// Page is one rendered slice of the gallery. Message is set when loading failed.
type Page struct {
	Packs   []models.StickerPack
	State   PageState
	Message string
}

// Pager walks the gallery newest first.
type Pager struct {
	packs    PageQuerier
	pageSize int
}

func NewPager(packs PageQuerier, pageSize int) *Pager {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Pager{packs: packs, pageSize: pageSize}
}

func (p *Pager) PageSize() int {
	return p.pageSize
}

// Load moves from state in direction. A failed query yields an empty page
// with both boundary flags set and a message for the reader; a malformed
// cursor is returned as an error.
func (p *Pager) Load(ctx context.Context, state PageState, dir Direction) (Page, error) {
	page, err := p.load(ctx, state, dir)
	if err == nil {
		return page, nil
	}
	if errors.Is(err, ErrInvalidCursor) {
		return Page{}, err
	}

	utils.LogError(ctx, "Failed to load gallery page", err, utils.Fields{
		"direction": dir,
	})
	return Page{
		Packs:   []models.StickerPack{},
		State:   PageState{First: state.First, Last: state.Last, IsFirstPage: true, IsLastPage: true},
		Message: LoadErrorMessage,
	}, nil
}

func (p *Pager) load(ctx context.Context, state PageState, dir Direction) (Page, error) {
	switch dir {
	case DirectionNext:
		if state.Last == "" {
			return p.initial(ctx)
		}
		c, err := DecodeCursor(state.Last)
		if err != nil {
			return Page{}, err
		}
		return p.next(ctx, state, c)
	case DirectionPrev:
		if state.First == "" {
			return p.initial(ctx)
		}
		c, err := DecodeCursor(state.First)
		if err != nil {
			return Page{}, err
		}
		return p.prev(ctx, c)
	default:
		return p.initial(ctx)
	}
}

func (p *Pager) initial(ctx context.Context) (Page, error) {
	packs, err := p.packs.Newest(ctx, p.pageSize+1)
	if err != nil {
		return Page{}, err
	}

	more := len(packs) > p.pageSize
	if more {
		packs = packs[:p.pageSize]
	}

	return newPage(packs, true, !more), nil
}

func (p *Pager) next(ctx context.Context, state PageState, after models.PageCursor) (Page, error) {
	packs, err := p.packs.OlderThan(ctx, after, p.pageSize+1)
	if err != nil {
		return Page{}, err
	}

	if len(packs) == 0 {
		// Nothing beyond the current page: stay put and mark the end.
		return Page{
			Packs: packs,
			State: PageState{First: state.First, Last: state.Last, IsFirstPage: state.IsFirstPage, IsLastPage: true},
		}, nil
	}

	more := len(packs) > p.pageSize
	if more {
		packs = packs[:p.pageSize]
	}

	return newPage(packs, false, !more), nil
}

func (p *Pager) prev(ctx context.Context, before models.PageCursor) (Page, error) {
	packs, err := p.packs.NewerThan(ctx, before, p.pageSize+1)
	if err != nil {
		return Page{}, err
	}

	if len(packs) == 0 {
		return p.initial(ctx)
	}

	// NewerThan keeps the items closest to the cursor, so a surplus item sits
	// at the front.
	more := len(packs) > p.pageSize
	if more {
		packs = packs[1:]
	}

	return newPage(packs, !more, false), nil
}

func newPage(packs []models.StickerPack, isFirst, isLast bool) Page {
	state := PageState{IsFirstPage: isFirst, IsLastPage: isLast}
	if len(packs) > 0 {
		state.First = EncodeCursor(models.CursorOf(packs[0]))
		state.Last = EncodeCursor(models.CursorOf(packs[len(packs)-1]))
	}
	return Page{Packs: packs, State: state}
}

// Submit validates link and stores it as a new record.
func Submit(ctx context.Context, creator PackCreator, link string) (*models.StickerPack, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, utils.NewValidationError("Link is required", map[string]interface{}{
			"field": "link",
		})
	}
	if !telegram.IsValidPackLink(link) {
		return nil, utils.NewInvalidLinkError(link)
	}

	pack, err := creator.CreateStickerPack(ctx, link)
	if err != nil {
		return nil, utils.NewDatabaseError(fmt.Errorf("create sticker pack: %w", err))
	}

	utils.LogInfo(ctx, "Sticker pack submitted", utils.Fields{
		"pack_id": pack.ID,
		"link":    pack.Link,
	})
	return pack, nil
}

var _ PageQuerier = (*database.MongoDB)(nil)
var _ PackCreator = (*database.MongoDB)(nil)
