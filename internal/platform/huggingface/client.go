package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/phrazzld/blogrelay/internal/config"
	"github.com/phrazzld/blogrelay/internal/domain"
	"github.com/phrazzld/blogrelay/internal/generation"
	"github.com/phrazzld/blogrelay/internal/platform/logger"
	"github.com/phrazzld/blogrelay/internal/redact"
)

// ProviderName identifies this backend in errors, logs and metrics.
const ProviderName = "huggingface"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

type request struct {
	Inputs     string                `json:"inputs"`
	Parameters generation.Parameters `json:"parameters"`
}

// candidate is one element of the text-generation response array.
// GeneratedText is a pointer so a missing field can be told apart from "".
type candidate struct {
	GeneratedText *string `json:"generated_text"`
}

// Client calls a single Hugging Face inference endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	params     generation.Parameters
	logger     *slog.Logger
}

var _ generation.Generator = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Client for cfg.Endpoint authenticated with cfg.APIKey.
func NewClient(cfg config.GenerationConfig, log *slog.Logger, opts ...Option) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: huggingface endpoint cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: huggingface API token cannot be empty", generation.ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}

	c := &Client{
		httpClient: http.DefaultClient,
		endpoint:   cfg.Endpoint,
		token:      cfg.APIKey,
		params:     generation.DefaultParameters,
		logger:     log.With(slog.String("component", "huggingface")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Generate sends one text-generation request for topic.
func (c *Client) Generate(ctx context.Context, topic string) (*domain.GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	prompt := generation.BuildPrompt(topic)

	payload, err := json.Marshal(request{Inputs: prompt, Parameters: c.params})
	if err != nil {
		return nil, fmt.Errorf("failed to encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build generation request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	log.Info("making API request to Hugging Face", slog.String("topic", topic))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read huggingface response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		upstreamErr := generation.NewUpstreamError(ProviderName, resp.StatusCode, string(body))
		log.Error("API request failed",
			slog.String("topic", topic),
			slog.Int("status_code", resp.StatusCode),
			slog.String("body", redact.String(upstreamErr.Body)))
		return nil, upstreamErr
	}

	text, err := firstGeneratedText(body)
	if err != nil {
		log.Error("unexpected API response format", slog.String("topic", topic), slog.String("error", err.Error()))
		return nil, err
	}

	return generation.NewResult(prompt, text), nil
}

// firstGeneratedText decodes body as a candidate array and returns the text
// of the first element.
func firstGeneratedText(body []byte) (string, error) {
	var candidates []candidate
	if err := json.Unmarshal(body, &candidates); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return "", generation.MalformedResponse("expected an array of candidates")
		}
		return "", generation.MalformedResponse("invalid JSON: %v", err)
	}
	if len(candidates) == 0 {
		return "", generation.MalformedResponse("empty candidate array")
	}
	if candidates[0].GeneratedText == nil {
		return "", generation.MalformedResponse("first candidate has no generated_text")
	}
	return *candidates[0].GeneratedText, nil
}
