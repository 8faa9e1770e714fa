// Package openai implements generation.Generator with the OpenAI Chat
// Completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/phrazzld/blogrelay/internal/config"
	"github.com/phrazzld/blogrelay/internal/domain"
	"github.com/phrazzld/blogrelay/internal/generation"
	"github.com/phrazzld/blogrelay/internal/platform/logger"
)

// ProviderName identifies this backend in errors, logs and metrics.
const ProviderName = "openai"

// DefaultModel is used when no model is configured.
const DefaultModel = openai.ChatModelGPT4oMini

// Generator wraps the Chat Completions API behind generation.Generator.
type Generator struct {
	client *openai.Client
	model  openai.ChatModel
	params generation.Parameters
	logger *slog.Logger
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Generator with SDK retries disabled.
func NewGenerator(log *slog.Logger, cfg config.GenerationConfig) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", generation.ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	client := openai.NewClient(opts...)

	model := openai.ChatModel(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	return &Generator{
		client: &client,
		model:  model,
		params: generation.DefaultParameters,
		logger: log.With(slog.String("component", "openai")),
	}, nil
}

// Generate requests NumReturnSequences choices and keeps the first.
func (g *Generator) Generate(ctx context.Context, topic string) (*domain.GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)
	prompt := generation.BuildPrompt(topic)

	log.InfoContext(ctx, "making OpenAI API call",
		slog.String("topic", topic),
		slog.String("model", string(g.model)))

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:            []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Model:               g.model,
		Temperature:         openai.Float(g.params.Temperature),
		TopP:                openai.Float(g.params.TopP),
		MaxCompletionTokens: openai.Int(int64(g.params.MaxLength)),
		N:                   openai.Int(int64(g.params.NumReturnSequences)),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			log.ErrorContext(ctx, "API request failed",
				slog.String("topic", topic),
				slog.Int("status_code", apiErr.StatusCode))
			return nil, generation.NewUpstreamError(ProviderName, apiErr.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		log.ErrorContext(ctx, "unexpected API response format", slog.String("topic", topic))
		return nil, generation.MalformedResponse("no choices returned")
	}

	return generation.NewResult(prompt, resp.Choices[0].Message.Content), nil
}
