package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/blogrelay/internal/config"
	"github.com/phrazzld/blogrelay/internal/domain"
	"github.com/phrazzld/blogrelay/internal/generation"
	"github.com/phrazzld/blogrelay/internal/platform/logger"
	"google.golang.org/genai"
)

// ProviderName identifies this backend in errors, logs and metrics.
const ProviderName = "gemini"

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Generator implements generation.Generator using the Gemini API.
type Generator struct {
	logger *slog.Logger
	client *genai.Client
	model  string
	params generation.Parameters
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Generator. cfg.Endpoint, when set, overrides the
// API base URL.
func NewGenerator(ctx context.Context, log *slog.Logger, cfg config.GenerationConfig) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger: log.With(slog.String("component", "gemini")),
		client: client,
		model:  model,
		params: generation.DefaultParameters,
	}, nil
}

// Generate makes a single GenerateContent call for topic.
func (g *Generator) Generate(ctx context.Context, topic string) (*domain.GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)
	prompt := generation.BuildPrompt(topic)

	log.InfoContext(ctx, "making Gemini API call",
		slog.String("topic", topic),
		slog.String("model", g.model))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(g.params.Temperature)),
		TopP:            genai.Ptr(float32(g.params.TopP)),
		MaxOutputTokens: int32(g.params.MaxLength),
		CandidateCount:  int32(g.params.NumReturnSequences),
	})
	if err != nil {
		status, body := apiErrorDetails(err)
		if status == 0 {
			return nil, fmt.Errorf("gemini request failed: %w", err)
		}
		upstreamErr := generation.NewUpstreamError(ProviderName, status, body)
		log.ErrorContext(ctx, "API request failed",
			slog.String("topic", topic),
			slog.Int("status_code", status))
		return nil, upstreamErr
	}

	text, err := firstCandidateText(resp)
	if err != nil {
		log.ErrorContext(ctx, "unexpected API response format",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
		return nil, err
	}

	return generation.NewResult(prompt, text), nil
}

// apiErrorDetails extracts the HTTP status and message from a Gemini API
// error. It returns a zero status for errors that never reached the API.
func apiErrorDetails(err error) (int, string) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Message
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, apiErrPtr.Message
	}
	return 0, ""
}

func firstCandidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", generation.MalformedResponse("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return "", generation.MalformedResponse("first candidate has no content")
	}

	if len(candidate.Content.Parts) == 0 {
		return "", generation.MalformedResponse("first candidate has no parts")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}
