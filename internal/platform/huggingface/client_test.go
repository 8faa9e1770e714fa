package huggingface_test

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
	"github.com/phrazzld/blogrelay/internal/platform/huggingface"
	"github.com/phrazzld/blogrelay/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Auth        string
	ContentType string
	Body        map[string]any
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, <-chan capturedRequest, *int32) {
	t.Helper()

	requests := make(chan capturedRequest, 8)
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		captured := capturedRequest{
			Auth:        r.Header.Get("Authorization"),
			ContentType: r.Header.Get("Content-Type"),
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.Body)
		requests <- captured

		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, requests, &calls
}

func newClient(t *testing.T, endpoint string) *huggingface.Client {
	t.Helper()

	c, err := huggingface.NewClient(config.GenerationConfig{
		Provider: config.ProviderHuggingFace,
		Endpoint: endpoint,
		APIKey:   "hf_test_token",
	}, nil)
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()

	_, err := huggingface.NewClient(config.GenerationConfig{APIKey: "hf_x"}, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = huggingface.NewClient(config.GenerationConfig{Endpoint: "https://example.com"}, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestGenerate_Success(t *testing.T) {
	t.Parallel()

	srv, requests, calls := newServer(t, http.StatusOK,
		`[{"generated_text":"Write a article about cats Cats are wonderful companions."},
		  {"generated_text":"second"},{"generated_text":"third"}]`)

	res, err := newClient(t, srv.URL).Generate(context.Background(), "cats")
	require.NoError(t, err)

	assert.Equal(t, "Cats are wonderful companions.", res.Text)
	assert.Equal(t, "Write a article about cats", res.SourcePrompt)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	captured := <-requests
	assert.Equal(t, "Bearer hf_test_token", captured.Auth)
	assert.Equal(t, "application/json", captured.ContentType)
	assert.Equal(t, "Write a article about cats", captured.Body["inputs"])
	params, ok := captured.Body["parameters"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 500, params["max_length"])
	assert.EqualValues(t, 0.7, params["temperature"])
	assert.EqualValues(t, 0.8, params["top_p"])
	assert.EqualValues(t, 3, params["num_return_sequences"])
}

func TestGenerate_PromptOnlyYieldsEmptyText(t *testing.T) {
	t.Parallel()

	srv, _, _ := newServer(t, http.StatusOK, `[{"generated_text":"  Write a article about cats  "}]`)

	res, err := newClient(t, srv.URL).Generate(context.Background(), "cats")
	require.NoError(t, err)
	assert.Empty(t, res.Text)
}

func TestGenerate_UpstreamError(t *testing.T) {
	t.Parallel()

	srv, _, calls := newServer(t, http.StatusServiceUnavailable, `{"error":"Model is currently loading"}`)

	_, err := newClient(t, srv.URL).Generate(context.Background(), "cats")
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrUpstream)

	var upstream *generation.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusServiceUnavailable, upstream.StatusCode)
	assert.Equal(t, `{"error":"Model is currently loading"}`, upstream.Body)
	assert.Equal(t, "huggingface API request failed with status code: 503", err.Error())
	assert.Equal(t, int32(1), atomic.LoadInt32(calls), "failures are not retried")
}

func TestGenerate_UpstreamErrorBodyIsRedactedInLogs(t *testing.T) {
	t.Parallel()

	const secret = "hf_abcdefghijklmnopqrstuvwxyz0123"
	srv, _, _ := newServer(t, http.StatusUnauthorized, `{"error":"Invalid credentials in token `+secret+`"}`)

	log, logs := logger.GetTestLogger(t)
	c, err := huggingface.NewClient(config.GenerationConfig{
		Provider: config.ProviderHuggingFace,
		Endpoint: srv.URL,
		APIKey:   "hf_test_token",
	}, log)
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "cats")
	require.ErrorIs(t, err, generation.ErrUpstream)

	logger.AssertLogContains(t, logs, "API request failed")
	logger.AssertLogContains(t, logs, "[REDACTED_KEY]")
	assert.NotContains(t, logs.String(), secret)
}

func TestGenerate_MalformedResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "object instead of array", body: `{"generated_text":"hi"}`},
		{name: "empty array", body: `[]`},
		{name: "missing field", body: `[{"text":"hi"}]`},
		{name: "not json", body: `<html>oops</html>`},
		{name: "wrong field type", body: `[{"generated_text":42}]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv, _, _ := newServer(t, http.StatusOK, tc.body)
			_, err := newClient(t, srv.URL).Generate(context.Background(), "cats")
			assert.ErrorIs(t, err, generation.ErrMalformedResponse)
		})
	}
}

func TestGenerate_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newClient(t, url).Generate(context.Background(), "cats")
	require.Error(t, err)
	assert.NotErrorIs(t, err, generation.ErrUpstream)
	assert.True(t, strings.HasPrefix(err.Error(), "huggingface request failed"))
}
