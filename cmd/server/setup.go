package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/blogrelay/internal/config"
	"github.com/phrazzld/blogrelay/internal/platform/logger"
)

// loadConfigAndLogger loads configuration from path (or the default
// locations) and installs the configured JSON logger as the default.
func loadConfigAndLogger(path string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("provider", cfg.Generation.Provider),
		slog.Bool("bucket_configured", cfg.Storage.Bucket != ""),
		slog.Bool("index_enabled", cfg.Database.IndexEnabled()))

	return cfg, log, nil
}
