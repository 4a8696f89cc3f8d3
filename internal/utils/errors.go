package utils

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrorCodeInvalidLinkFormat  ErrorCode = "INVALID_LINK_FORMAT"
	ErrorCodePackNotFound       ErrorCode = "PACK_NOT_FOUND"
	ErrorCodeDatabaseError      ErrorCode = "DATABASE_ERROR"
	ErrorCodeRateLimitExceeded  ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrorCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrorCodeInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrorCodeValidationError    ErrorCode = "VALIDATION_ERROR"
	ErrorCodeInvalidCursor      ErrorCode = "INVALID_CURSOR"
	ErrorCodeIngestUnavailable  ErrorCode = "INGEST_UNAVAILABLE"
	ErrorCodeBackfillInProgress ErrorCode = "BACKFILL_IN_PROGRESS"
)

type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func NewError(code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    make(map[string]interface{}),
	}
}

func NewErrorWithDetails(code ErrorCode, message string, statusCode int, details map[string]interface{}) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Common error constructors
func NewValidationError(message string, details map[string]interface{}) *AppError {
	return NewErrorWithDetails(ErrorCodeValidationError, message, http.StatusBadRequest, details)
}

func NewInvalidLinkError(link string) *AppError {
	return NewErrorWithDetails(
		ErrorCodeInvalidLinkFormat,
		"Invalid Telegram sticker link format",
		http.StatusBadRequest,
		map[string]interface{}{
			"expected_format": "https://t.me/addstickers/YourPackName",
			"provided":        link,
		},
	)
}

func NewPackNotFoundError(id string) *AppError {
	return NewError(
		ErrorCodePackNotFound,
		fmt.Sprintf("Sticker pack with ID %s not found", id),
		http.StatusNotFound,
	)
}

func NewInvalidCursorError(cursor string) *AppError {
	return NewErrorWithDetails(
		ErrorCodeInvalidCursor,
		"Page cursor is malformed",
		http.StatusBadRequest,
		map[string]interface{}{
			"provided": cursor,
		},
	)
}

func NewDatabaseError(err error) *AppError {
	return NewError(
		ErrorCodeDatabaseError,
		"Database operation failed",
		http.StatusInternalServerError,
	)
}

func NewIngestUnavailableError() *AppError {
	return NewError(
		ErrorCodeIngestUnavailable,
		"Telegram bot is not configured; preview ingestion is disabled",
		http.StatusServiceUnavailable,
	)
}

func NewBackfillInProgressError() *AppError {
	return NewError(
		ErrorCodeBackfillInProgress,
		"A backfill run is already in progress",
		http.StatusConflict,
	)
}

func NewUnauthorizedError() *AppError {
	return NewError(
		ErrorCodeUnauthorized,
		"Invalid or missing authentication",
		http.StatusUnauthorized,
	)
}

func NewRateLimitError() *AppError {
	return NewError(
		ErrorCodeRateLimitExceeded,
		"Too many requests",
		http.StatusTooManyRequests,
	)
}

func NewInternalError() *AppError {
	return NewError(
		ErrorCodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)
}
