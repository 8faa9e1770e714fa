package store

import (
	"context"

	"github.com/phrazzld/blogrelay/internal/domain"
)

// DefaultListLimit is used when a caller asks for a non-positive number of rows.
const DefaultListLimit = 20

// MaxListLimit caps a single listing.
const MaxListLimit = 100

// ArtifactIndex records stored artifacts and lists them back.
type ArtifactIndex interface {
	// Record inserts artifact. Recording the same key twice returns ErrDuplicate.
	Record(ctx context.Context, artifact *domain.StoredArtifact) error

	// GetByKey returns ErrArtifactNotFound when key was never recorded.
	GetByKey(ctx context.Context, key string) (*domain.StoredArtifact, error)

	// ListRecent returns up to limit artifacts, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.StoredArtifact, error)
}

// NormalizeLimit clamps limit to (0, MaxListLimit].
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
