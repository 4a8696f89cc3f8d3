package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/denisAlshanov/stickerGallery/internal/config"
	"github.com/denisAlshanov/stickerGallery/internal/utils"
)

// Thumbnails are a few KB; anything past this is not a sticker preview.
const maxDownloadSize = 10 << 20

// BotClient uses the Telegram Bot API (requires bot token)
type BotClient struct {
	bot          *tgbotapi.BotAPI
	token        string
	fileEndpoint string
	http         *http.Client
	limiter      *rate.Limiter
}

// NewBotClient authenticates with getMe. A nil httpClient gets one with the
// configured timeout.
func NewBotClient(cfg *config.TelegramConfig, httpClient *http.Client) (*BotClient, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	apiEndpoint := cfg.APIEndpoint
	if apiEndpoint == "" {
		apiEndpoint = tgbotapi.APIEndpoint
	}
	fileEndpoint := cfg.FileEndpoint
	if fileEndpoint == "" {
		fileEndpoint = tgbotapi.FileEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, apiEndpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	utils.GetLogger().WithField("bot", bot.Self.UserName).Info("Connected to Telegram Bot API")

	return &BotClient{
		bot:          bot,
		token:        cfg.BotToken,
		fileEndpoint: fileEndpoint,
		http:         httpClient,
		limiter:      rate.NewLimiter(limit, burst),
	}, nil
}

func (c *BotClient) GetStickerSet(ctx context.Context, name string) (*StickerSet, error) {
	const method = "getStickerSet"

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Op: method, Err: err}
	}

	set, err := c.bot.GetStickerSet(tgbotapi.GetStickerSetConfig{Name: name})
	if err != nil {
		return nil, classify(method, err, c.token)
	}

	out := &StickerSet{
		Name:     set.Name,
		Title:    set.Title,
		Stickers: make([]Sticker, 0, len(set.Stickers)),
	}
	for _, s := range set.Stickers {
		sticker := Sticker{FileID: s.FileID}
		if s.Thumbnail != nil {
			sticker.Thumb = NewThumbRef(s.Thumbnail.FileID)
		}
		out.Stickers = append(out.Stickers, sticker)
	}

	return out, nil
}

func (c *BotClient) GetFile(ctx context.Context, fileID string) (*File, error) {
	const method = "getFile"

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Op: method, Err: err}
	}

	file, err := c.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, classify(method, err, c.token)
	}

	return &File{
		FileID:   file.FileID,
		FilePath: file.FilePath,
		FileSize: int64(file.FileSize),
	}, nil
}

// DownloadFile fetches a file from the file host. The URL embeds the bot
// token, so it is never logged.
func (c *BotClient) DownloadFile(ctx context.Context, filePath string) (*Download, error) {
	const op = "downloadFile"

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	fileURL := fmt.Sprintf(c.fileEndpoint, c.token, strings.TrimPrefix(filePath, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: redactToken(err, c.token)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if len(data) > maxDownloadSize {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("file exceeds %d bytes", maxDownloadSize)}
	}

	return &Download{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// redactToken keeps the bot token out of *url.Error messages, which quote the URL.
func redactToken(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), token, "<redacted>"))
}
