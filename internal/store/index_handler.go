package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/blogrelay/internal/events"
)

// IndexHandler records every artifact.stored event in an ArtifactIndex.
type IndexHandler struct {
	index  ArtifactIndex
	logger *slog.Logger
}

var _ events.Handler = (*IndexHandler)(nil)

// NewIndexHandler creates an IndexHandler for index.
func NewIndexHandler(index ArtifactIndex, logger *slog.Logger) *IndexHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexHandler{
		index:  index,
		logger: logger.With(slog.String("component", "index_handler")),
	}
}

// HandleEvent ignores other event types. A duplicate key is not an error,
// since the object store overwrote the same key.
func (h *IndexHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeArtifactStored {
		return nil
	}

	artifact, err := event.Artifact()
	if err != nil {
		return err
	}

	if err := h.index.Record(ctx, artifact); err != nil {
		if errors.Is(err, ErrDuplicate) {
			h.logger.Debug("artifact key already indexed", slog.String("key", artifact.Key))
			return nil
		}
		return fmt.Errorf("failed to index artifact %s: %w", artifact.Key, err)
	}
	return nil
}
