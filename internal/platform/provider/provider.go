// Package provider selects the generation backend named in configuration.
package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/blogrelay/internal/config"
	"github.com/phrazzld/blogrelay/internal/generation"
	"github.com/phrazzld/blogrelay/internal/platform/anthropic"
	"github.com/phrazzld/blogrelay/internal/platform/gemini"
	"github.com/phrazzld/blogrelay/internal/platform/huggingface"
	"github.com/phrazzld/blogrelay/internal/platform/openai"
)

// NewGenerator builds the generator for cfg.Provider.
func NewGenerator(ctx context.Context, cfg config.GenerationConfig, log *slog.Logger) (generation.Generator, error) {
	var (
		gen generation.Generator
		err error
	)

	switch cfg.Provider {
	case config.ProviderHuggingFace, "":
		gen, err = huggingface.NewClient(cfg, log)
	case config.ProviderGemini:
		gen, err = gemini.NewGenerator(ctx, log, cfg)
	case config.ProviderOpenAI:
		gen, err = openai.NewGenerator(log, cfg)
	case config.ProviderAnthropic:
		gen, err = anthropic.NewGenerator(log, cfg)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return gen, nil
}
