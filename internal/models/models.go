package models

import (
	"time"
)

// StickerPack is one submitted pack in the stickerPacks collection.
type StickerPack struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Link      string    `json:"link" bson:"link"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	ImageURL  *string   `json:"imageUrl" bson:"imageUrl,omitempty"`
	Error     string    `json:"error,omitempty" bson:"error,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// HasImage reports whether the pack carries a non-empty image URL.
func (p StickerPack) HasImage() bool {
	return p.ImageURL != nil && *p.ImageURL != ""
}

// PreviewUpdate is the terminal write of one ingestion attempt.
// A nil ImageURL is stored as null; an empty Error removes the field.
type PreviewUpdate struct {
	Name     string
	ImageURL *string
	Error    string
}

// PageCursor is the sort key of a gallery item.
type PageCursor struct {
	Timestamp time.Time
	ID        string
}

// CursorOf returns the sort key of p.
func CursorOf(p StickerPack) PageCursor {
	return PageCursor{Timestamp: p.Timestamp, ID: p.ID}
}

type Outcome string

const (
	OutcomeSkipped     Outcome = "skipped"
	OutcomeInvalidLink Outcome = "invalid_link"
	OutcomeEmptyPack   Outcome = "empty_pack"
	OutcomeNoThumb     Outcome = "no_thumb"
	OutcomeSuccess     Outcome = "success"
	OutcomeError       Outcome = "error"
)

// Outcomes lists every outcome in summary order.
var Outcomes = []Outcome{
	OutcomeSuccess,
	OutcomeSkipped,
	OutcomeInvalidLink,
	OutcomeEmptyPack,
	OutcomeNoThumb,
	OutcomeError,
}

type SubmitPackRequest struct {
	Link string `json:"link" binding:"required"`
}

type SubmitPackResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Pack    StickerPack `json:"pack"`
}

type PageStateResponse struct {
	First       string `json:"first,omitempty"`
	Last        string `json:"last,omitempty"`
	IsFirstPage bool   `json:"is_first_page"`
	IsLastPage  bool   `json:"is_last_page"`
}

type PackListResponse struct {
	Packs   []StickerPack     `json:"packs"`
	State   PageStateResponse `json:"state"`
	Message string            `json:"message,omitempty"`
}

type RefreshPackResponse struct {
	PackID  string  `json:"pack_id"`
	Outcome Outcome `json:"outcome"`
	Error   string  `json:"error,omitempty"`
}

type BackfillResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
