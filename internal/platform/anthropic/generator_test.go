package anthropic_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/phrazzld/blogrelay/internal/config"
	"github.com/phrazzld/blogrelay/internal/generation"
	"github.com/phrazzld/blogrelay/internal/platform/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator(t *testing.T, status int, body string) (*anthropic.Generator, <-chan map[string]any, *int32) {
	t.Helper()

	requests := make(chan map[string]any, 4)
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var payload map[string]any
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &payload)
		requests <- payload

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	gen, err := anthropic.NewGenerator(nil, config.GenerationConfig{
		Provider: config.ProviderAnthropic,
		Endpoint: srv.URL + "/",
		APIKey:   "sk-ant-test",
	})
	require.NoError(t, err)
	return gen, requests, &calls
}

func TestNewGenerator_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := anthropic.NewGenerator(nil, config.GenerationConfig{Provider: config.ProviderAnthropic})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestGenerate_Success(t *testing.T) {
	t.Parallel()

	gen, requests, calls := newGenerator(t, http.StatusOK, `{
		"id": "msg_01",
		"type": "message",
		"role": "assistant",
		"model": "claude-3-5-haiku-latest",
		"content": [{"type": "text", "text": "Write a article about rust\n\nRust is safe."}],
		"stop_reason": "end_turn",
		"stop_sequence": null,
		"usage": {"input_tokens": 8, "output_tokens": 6}
	}`)

	res, err := gen.Generate(context.Background(), "rust")
	require.NoError(t, err)

	assert.Equal(t, "Rust is safe.", res.Text)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	payload := <-requests
	assert.Equal(t, anthropic.DefaultModel, payload["model"])
	assert.EqualValues(t, 500, payload["max_tokens"])
	assert.EqualValues(t, 0.7, payload["temperature"])
}

func TestGenerate_NoTextBlocks(t *testing.T) {
	t.Parallel()

	gen, _, _ := newGenerator(t, http.StatusOK, `{
		"id": "msg_01", "type": "message", "role": "assistant", "model": "claude-3-5-haiku-latest",
		"content": [], "stop_reason": "end_turn", "stop_sequence": null,
		"usage": {"input_tokens": 8, "output_tokens": 0}
	}`)

	_, err := gen.Generate(context.Background(), "rust")
	assert.ErrorIs(t, err, generation.ErrMalformedResponse)
}

func TestGenerate_UpstreamError(t *testing.T) {
	t.Parallel()

	gen, _, calls := newGenerator(t, http.StatusUnauthorized,
		`{"type": "error", "error": {"type": "authentication_error", "message": "invalid x-api-key"}}`)

	_, err := gen.Generate(context.Background(), "rust")
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrUpstream)

	var upstream *generation.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}
