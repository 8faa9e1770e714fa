package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/blogrelay/internal/config"
	"github.com/phrazzld/blogrelay/internal/events"
	"github.com/phrazzld/blogrelay/internal/generation"
	"github.com/phrazzld/blogrelay/internal/pipeline"
	"github.com/phrazzld/blogrelay/internal/platform/metrics"
	"github.com/phrazzld/blogrelay/internal/platform/postgres"
	"github.com/phrazzld/blogrelay/internal/platform/provider"
	"github.com/phrazzld/blogrelay/internal/platform/s3store"
	"github.com/phrazzld/blogrelay/internal/storage"
	"github.com/phrazzld/blogrelay/internal/store"
)

// objectBackend is an object store that can also report its reachability.
type objectBackend interface {
	storage.ObjectStore
	Ping(ctx context.Context, bucket string) error
}

// application holds the shared dependencies of every command and owns the
// resources that need closing on shutdown.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics

	objects objectBackend
	content *storage.ContentStore
	relay   *pipeline.Relay
	emitter *events.InMemoryEmitter

	// Optional artifact index; nil when database.url is empty.
	db    *sqlx.DB
	index store.ArtifactIndex
}

// newApplication connects to the configured generation provider, object
// store and (optionally) the artifact index database.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger) (*application, error) {
	gen, err := provider.NewGenerator(ctx, cfg.Generation, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}
	log.Info("generator initialized", slog.String("provider", cfg.Generation.Provider))

	objects, err := s3store.New(cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object store: %w", err)
	}

	var db *sqlx.DB
	if cfg.Database.IndexEnabled() {
		db, err = postgres.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to artifact index: %w", err)
		}
		log.Info("artifact index database connected")
	}

	app, err := assemble(cfg, log, gen, objects, db)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}
	return app, nil
}

// assemble wires already-constructed backends into an application.
// db may be nil, which disables the artifact index.
func assemble(
	cfg *config.Config,
	log *slog.Logger,
	gen generation.Generator,
	objects objectBackend,
	db *sqlx.DB,
) (*application, error) {
	if gen == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if objects == nil {
		return nil, errors.New("object store cannot be nil")
	}

	app := &application{
		config:  cfg,
		logger:  log,
		metrics: metrics.New(),
		objects: objects,
		emitter: events.NewInMemoryEmitter(log),
		db:      db,
	}

	var err error
	app.content, err = storage.NewContentStore(objects, cfg.Storage.Bucket, cfg.Storage.PublicDomain, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create content store: %w", err)
	}
	if cfg.Storage.Bucket == "" {
		log.Warn("storage bucket not configured; generation requests will fail")
	}

	if db != nil {
		app.index = postgres.NewArtifactStore(db, log)
		app.emitter.RegisterHandler(store.NewIndexHandler(app.index, log))
	}

	app.relay, err = pipeline.New(gen, app.content,
		pipeline.WithEmitter(app.emitter),
		pipeline.WithRecorder(app.metrics),
		pipeline.WithProvider(cfg.Generation.Provider),
		pipeline.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	return app, nil
}

// ready reports whether the configured bucket is reachable.
func (app *application) ready(ctx context.Context) error {
	if err := app.content.CheckConfigured(); err != nil {
		return err
	}
	return app.objects.Ping(ctx, app.content.Bucket())
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
