package telegram

import (
	"context"
)

// StickerClient is the slice of the Bot API the preview pipeline needs.
type StickerClient interface {
	GetStickerSet(ctx context.Context, name string) (*StickerSet, error)
	GetFile(ctx context.Context, fileID string) (*File, error)
	DownloadFile(ctx context.Context, filePath string) (*Download, error)
}

type StickerSet struct {
	Name     string
	Title    string
	Stickers []Sticker
}

type Sticker struct {
	FileID string
	Thumb  ThumbRef
}

// ThumbRef is an optional reference to a sticker's preview image.
// The zero value means the sticker has no thumbnail.
type ThumbRef struct {
	fileID string
}

func NewThumbRef(fileID string) ThumbRef {
	return ThumbRef{fileID: fileID}
}

// FileID returns the thumbnail file id and whether one is present.
func (t ThumbRef) FileID() (string, bool) {
	return t.fileID, t.fileID != ""
}

// File is a resolved file location. FilePath is only valid for about an hour.
type File struct {
	FileID   string
	FilePath string
	FileSize int64
}

type Download struct {
	Data        []byte
	ContentType string
}
