package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/blogrelay/internal/domain"
	"github.com/phrazzld/blogrelay/internal/platform/logger"
	"github.com/phrazzld/blogrelay/internal/store"
)

// DriverName is the database/sql driver registered by pgx's stdlib package.
const DriverName = "pgx"

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 2
	defaultConnMaxLifetime = 5 * time.Minute
	defaultPingTimeout     = 5 * time.Second
)

// Connect opens and pings a connection pool for url.
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverName, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// artifactRow mirrors a blog_artifacts row.
type artifactRow struct {
	ID        uuid.UUID `db:"id"`
	Topic     string    `db:"topic"`
	ObjectKey string    `db:"object_key"`
	Bucket    string    `db:"bucket"`
	URL       string    `db:"url"`
	CreatedAt time.Time `db:"created_at"`
}

func (r artifactRow) toDomain() *domain.StoredArtifact {
	return &domain.StoredArtifact{
		ID:        r.ID,
		Topic:     r.Topic,
		Key:       r.ObjectKey,
		Bucket:    r.Bucket,
		URL:       r.URL,
		CreatedAt: r.CreatedAt,
	}
}

// ArtifactStore implements store.ArtifactIndex on the blog_artifacts table.
type ArtifactStore struct {
	db     sqlx.ExtContext
	logger *slog.Logger
}

var _ store.ArtifactIndex = (*ArtifactStore)(nil)

// NewArtifactStore creates an ArtifactStore on db, which may be a *sqlx.DB
// or a *sqlx.Tx.
func NewArtifactStore(db sqlx.ExtContext, log *slog.Logger) *ArtifactStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ArtifactStore{
		db:     db,
		logger: log.With(slog.String("component", "artifact_store")),
	}
}

// Record implements store.ArtifactIndex.Record.
func (s *ArtifactStore) Record(ctx context.Context, artifact *domain.StoredArtifact) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if artifact == nil || artifact.Key == "" || artifact.Bucket == "" {
		return fmt.Errorf("%w: artifact requires key and bucket", store.ErrInvalidEntity)
	}
	if artifact.ID == uuid.Nil {
		artifact.ID = uuid.New()
	}

	query := `
		INSERT INTO blog_artifacts (id, topic, object_key, bucket, url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		artifact.ID,
		artifact.Topic,
		artifact.Key,
		artifact.Bucket,
		artifact.URL,
		artifact.CreatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrDuplicate) {
			log.Warn("artifact already indexed", slog.String("key", artifact.Key))
			return mapped
		}
		log.Error("failed to index artifact",
			slog.String("error", err.Error()),
			slog.String("key", artifact.Key))
		return store.NewStoreError("artifact", "record", "insert failed", mapped)
	}

	log.Debug("artifact indexed",
		slog.String("artifact_id", artifact.ID.String()),
		slog.String("key", artifact.Key))
	return nil
}

// GetByKey implements store.ArtifactIndex.GetByKey.
func (s *ArtifactStore) GetByKey(ctx context.Context, key string) (*domain.StoredArtifact, error) {
	query := `
		SELECT id, topic, object_key, bucket, url, created_at
		FROM blog_artifacts
		WHERE object_key = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var row artifactRow
	if err := sqlx.GetContext(ctx, s.db, &row, query, key); err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", store.ErrArtifactNotFound, key)
		}
		return nil, store.NewStoreError("artifact", "get", "select failed", mapped)
	}
	return row.toDomain(), nil
}

// ListRecent implements store.ArtifactIndex.ListRecent.
func (s *ArtifactStore) ListRecent(ctx context.Context, limit int) ([]*domain.StoredArtifact, error) {
	query := `
		SELECT id, topic, object_key, bucket, url, created_at
		FROM blog_artifacts
		ORDER BY created_at DESC
		LIMIT $1
	`
	var rows []artifactRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, store.NormalizeLimit(limit)); err != nil {
		return nil, store.NewStoreError("artifact", "list", "select failed", MapError(err))
	}

	artifacts := make([]*domain.StoredArtifact, 0, len(rows))
	for _, r := range rows {
		artifacts = append(artifacts, r.toDomain())
	}
	return artifacts, nil
}
