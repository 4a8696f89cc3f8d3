package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIDs(t *testing.T) {
	correlationID := GenerateCorrelationID()
	requestID := GenerateRequestID()

	assert.NotEmpty(t, correlationID)
	assert.NotEmpty(t, requestID)
	assert.True(t, len(requestID) > 4 && requestID[:4] == "req_")
	assert.NotEqual(t, correlationID, requestID)
}

func TestLoggerFromContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	ctx := WithCorrelationID(context.Background(), "corr-1")
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithComponent(ctx, "backfill")

	LogError(ctx, "boom", errors.New("cause"), Fields{"pack_id": "abc"})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "boom", line["message"])
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "corr-1", line["correlation_id"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "backfill", line["component"])
	assert.Equal(t, "abc", line["pack_id"])
	assert.Equal(t, "cause", line["error"])
}

func TestAppErrors(t *testing.T) {
	err := NewInvalidLinkError("https://example.com/foo")
	assert.Equal(t, ErrorCodeInvalidLinkFormat, err.Code)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "https://example.com/foo", err.Details["provided"])
	assert.Contains(t, err.Error(), "INVALID_LINK_FORMAT")

	assert.Equal(t, http.StatusNotFound, NewPackNotFoundError("x").StatusCode)
	assert.Equal(t, http.StatusServiceUnavailable, NewIngestUnavailableError().StatusCode)
	assert.Equal(t, http.StatusConflict, NewBackfillInProgressError().StatusCode)
}
