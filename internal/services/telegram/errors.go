package telegram

import (
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// RemoteAPIError means the Bot API answered and rejected the request,
// e.g. the sticker set does not exist. Usually permanent.
type RemoteAPIError struct {
	Method      string
	Code        int
	Description string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("Telegram API error (%s): %s", e.Method, e.Description)
}

// TransportError means the remote service could not be reached or answered
// with something other than a Bot API response. Usually transient.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Telegram transport error (%s): %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func IsRemoteAPIError(err error) bool {
	var target *RemoteAPIError
	return errors.As(err, &target)
}

func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// classify turns a tgbotapi failure into RemoteAPIError or TransportError.
// Transport messages quote the request URL, which embeds the bot token.
func classify(method string, err error, token string) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return &RemoteAPIError{Method: method, Code: apiErr.Code, Description: apiErr.Message}
	}

	return &TransportError{Op: method, Err: redactToken(err, token)}
}
