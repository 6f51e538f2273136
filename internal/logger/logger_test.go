package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestRequestScopedLogger(t *testing.T) {
	var buf bytes.Buffer
	InitializeWriter(&buf, "info", "json")

	ctx := WithRequestID(context.Background(), "req-123")
	InfoContext(ctx, "offer submitted", "offerId", 5)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "offer submitted", entry["msg"])
	assert.Equal(t, float64(5), entry["offerId"])
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	var buf bytes.Buffer
	InitializeWriter(&buf, "info", "text")
	assert.Same(t, Get(), FromContext(context.Background()))
}

func TestDebugHelpersRespectLevel(t *testing.T) {
	var buf bytes.Buffer
	InitializeWriter(&buf, "info", "text")

	EnterMethod("offerService.SubmitOffer", "listingID", 3)
	DatabaseCall("offers.insert", "INSERT INTO offers")
	assert.Empty(t, buf.String())

	DatabaseResult("offers.insert", 0, errors.New("boom"))
	assert.Contains(t, buf.String(), "Database call failed")
	assert.Contains(t, buf.String(), "boom")
}
