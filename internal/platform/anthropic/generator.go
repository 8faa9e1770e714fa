// Package anthropic implements generation.Generator with the Anthropic
// Messages API. The API returns a single completion per request, so the
// candidate count parameter has no equivalent here.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/phrazzld/blogrelay/internal/config"
	"github.com/phrazzld/blogrelay/internal/domain"
	"github.com/phrazzld/blogrelay/internal/generation"
	"github.com/phrazzld/blogrelay/internal/platform/logger"
)

// ProviderName identifies this backend in errors, logs and metrics.
const ProviderName = "anthropic"

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-3-5-haiku-latest"

// Generator wraps the Messages API behind generation.Generator.
type Generator struct {
	client *anthropic.Client
	model  anthropic.Model
	params generation.Parameters
	logger *slog.Logger
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Generator with SDK retries disabled.
func NewGenerator(log *slog.Logger, cfg config.GenerationConfig) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic API key cannot be empty", generation.ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.Endpoint))
	}
	client := anthropic.NewClient(clientOpts...)

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Generator{
		client: &client,
		model:  anthropic.Model(model),
		params: generation.DefaultParameters,
		logger: log.With(slog.String("component", "anthropic")),
	}, nil
}

// Generate sends one Messages request and concatenates its text blocks.
func (g *Generator) Generate(ctx context.Context, topic string) (*domain.GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)
	prompt := generation.BuildPrompt(topic)

	log.InfoContext(ctx, "making Anthropic API call",
		slog.String("topic", topic),
		slog.String("model", string(g.model)))

	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       g.model,
		MaxTokens:   int64(g.params.MaxLength),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(g.params.Temperature),
		TopP:        anthropic.Float(g.params.TopP),
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			log.ErrorContext(ctx, "API request failed",
				slog.String("topic", topic),
				slog.Int("status_code", apiErr.StatusCode))
			return nil, generation.NewUpstreamError(ProviderName, apiErr.StatusCode, apiErr.Error())
		}
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	var b strings.Builder
	textBlocks := 0
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.AsText().Text)
			textBlocks++
		}
	}
	if textBlocks == 0 {
		log.ErrorContext(ctx, "unexpected API response format", slog.String("topic", topic))
		return nil, generation.MalformedResponse("no text content blocks")
	}

	return generation.NewResult(prompt, b.String()), nil
}
