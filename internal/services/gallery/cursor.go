package gallery

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/denisAlshanov/stickerGallery/internal/models"
)

var ErrInvalidCursor = errors.New("invalid page cursor")

// EncodeCursor renders c as an opaque URL-safe token.
func EncodeCursor(c models.PageCursor) string {
	raw := strconv.FormatInt(c.Timestamp.UnixNano(), 10) + "|" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeCursor(token string) (models.PageCursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return models.PageCursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return models.PageCursor{}, ErrInvalidCursor
	}

	nanos, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return models.PageCursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	return models.PageCursor{Timestamp: time.Unix(0, nanos).UTC(), ID: id}, nil
}
