package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/blogrelay/internal/domain"
	"github.com/phrazzld/blogrelay/internal/platform/logger"
	"github.com/phrazzld/blogrelay/internal/redact"
)

// Object is an artifact as read back from the object store.
type Object struct {
	Body         []byte
	ContentType  string
	LastModified time.Time
}

// ObjectStore is the subset of an S3-compatible client the content store needs.
// GetObject returns an error wrapping ErrNotFound for missing keys.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error
	GetObject(ctx context.Context, bucket, key string) (*Object, error)
}

// Option customizes a ContentStore.
type Option func(*ContentStore)

// WithClock replaces the wall clock used for keys and envelope timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *ContentStore) {
		s.now = now
	}
}

// ContentStore writes generated text to a single bucket.
type ContentStore struct {
	objects      ObjectStore
	bucket       string
	publicDomain string
	now          func() time.Time
	logger       *slog.Logger
}

// NewContentStore creates a ContentStore. An empty bucket is accepted here so
// that a misconfigured deployment still answers requests; every Store call
// then fails with a configuration error.
func NewContentStore(
	objects ObjectStore,
	bucket string,
	publicDomain string,
	log *slog.Logger,
	opts ...Option,
) (*ContentStore, error) {
	if objects == nil {
		return nil, errors.New("object store cannot be nil")
	}
	if publicDomain == "" {
		return nil, errors.New("public domain cannot be empty")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &ContentStore{
		objects:      objects,
		bucket:       bucket,
		publicDomain: publicDomain,
		now:          time.Now,
		logger:       log.With(slog.String("component", "content_store")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Bucket returns the configured bucket name, which may be empty.
func (s *ContentStore) Bucket() string {
	return s.bucket
}

// CheckConfigured returns a ConfigurationError when no bucket is set.
func (s *ContentStore) CheckConfigured() error {
	if s.bucket == "" {
		return &domain.ConfigurationError{Setting: "S3 bucket"}
	}
	return nil
}

// Store writes text under a key derived from topicHint and the current time
// and returns the resulting artifact. Failures are not retried.
func (s *ContentStore) Store(ctx context.Context, text, topicHint string) (*domain.StoredArtifact, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.CheckConfigured(); err != nil {
		log.Error("S3 bucket not configured")
		return nil, err
	}

	now := s.now()
	key := ObjectKey(Slugify(topicHint), now)
	body := Envelope(text, now)

	log.Info("saving blog to object store",
		slog.String("bucket", s.bucket),
		slog.String("key", key),
		slog.Int("size", len(body)))

	if err := s.objects.PutObject(ctx, s.bucket, key, body, ContentType); err != nil {
		storeErr := &StorageError{Bucket: s.bucket, Key: key, Err: err}
		log.Error("error saving to object store",
			slog.String("bucket", s.bucket),
			slog.String("key", key),
			slog.String("error", redact.Error(err)))
		return nil, storeErr
	}

	artifact := domain.NewStoredArtifact(topicHint, s.bucket, key, PublicURL(s.bucket, s.publicDomain, key), now)
	log.Info("saved blog to object store",
		slog.String("bucket", s.bucket),
		slog.String("key", key))

	return artifact, nil
}

// Fetch reads back the artifact stored under key.
func (s *ContentStore) Fetch(ctx context.Context, key string) (*Object, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if err := s.CheckConfigured(); err != nil {
		return nil, err
	}

	obj, err := s.objects.GetObject(ctx, s.bucket, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("fetch %s: %w", key, &StorageError{Bucket: s.bucket, Key: key, Err: err})
	}
	return obj, nil
}
