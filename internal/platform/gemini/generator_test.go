package gemini_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/phrazzld/blogrelay/internal/config"
	"github.com/phrazzld/blogrelay/internal/generation"
	"github.com/phrazzld/blogrelay/internal/platform/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator(t *testing.T, status int, body string) (*gemini.Generator, <-chan string, *int32) {
	t.Helper()

	bodies := make(chan string, 4)
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		bodies <- string(raw)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	gen, err := gemini.NewGenerator(context.Background(), nil, config.GenerationConfig{
		Provider: config.ProviderGemini,
		Endpoint: srv.URL + "/",
		APIKey:   "test-key",
	})
	require.NoError(t, err)
	return gen, bodies, &calls
}

func TestNewGenerator_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := gemini.NewGenerator(context.Background(), nil, config.GenerationConfig{Provider: config.ProviderGemini})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestGenerate_Success(t *testing.T) {
	t.Parallel()

	gen, bodies, calls := newGenerator(t, http.StatusOK, `{
		"candidates": [
			{"content": {"role": "model", "parts": [{"text": "Write a article about go\nGo is simple."}]}},
			{"content": {"role": "model", "parts": [{"text": "ignored"}]}}
		]
	}`)

	res, err := gen.Generate(context.Background(), "go")
	require.NoError(t, err)

	assert.Equal(t, "Go is simple.", res.Text)
	assert.Equal(t, "Write a article about go", res.SourcePrompt)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	sent := <-bodies
	assert.Contains(t, sent, "Write a article about go")
	assert.Contains(t, sent, `"candidateCount":3`)
	assert.Contains(t, sent, `"maxOutputTokens":500`)
}

func TestGenerate_NoCandidates(t *testing.T) {
	t.Parallel()

	gen, _, _ := newGenerator(t, http.StatusOK, `{"candidates": []}`)

	_, err := gen.Generate(context.Background(), "go")
	assert.ErrorIs(t, err, generation.ErrMalformedResponse)
}

func TestGenerate_UpstreamError(t *testing.T) {
	t.Parallel()

	gen, _, calls := newGenerator(t, http.StatusBadRequest,
		`{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`)

	_, err := gen.Generate(context.Background(), "go")
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrUpstream)

	var upstream *generation.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadRequest, upstream.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}
