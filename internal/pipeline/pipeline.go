package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/blogrelay/internal/domain"
	"github.com/phrazzld/blogrelay/internal/events"
	"github.com/phrazzld/blogrelay/internal/generation"
	"github.com/phrazzld/blogrelay/internal/platform/logger"
	"github.com/phrazzld/blogrelay/internal/redact"
	"github.com/phrazzld/blogrelay/internal/storage"
)

// SuccessMessage is returned with every successful invocation.
const SuccessMessage = "Blog generation completed successfully"

// Failure reasons used as metric labels.
const (
	ReasonValidation    = "validation"
	ReasonConfiguration = "configuration"
	ReasonUpstream      = "upstream"
	ReasonMalformed     = "malformed_response"
	ReasonEmptyContent  = "empty_content"
	ReasonStorage       = "storage"
	ReasonInternal      = "internal"
)

// ContentStore persists generated text.
type ContentStore interface {
	CheckConfigured() error
	Store(ctx context.Context, text, topicHint string) (*domain.StoredArtifact, error)
}

// Recorder receives per-invocation measurements.
type Recorder interface {
	RecordRun(state domain.PipelineState, reason string, elapsed time.Duration)
	RecordUpstreamStatus(provider string, code int)
	RecordArtifact(textBytes int)
}

type nopRecorder struct{}

func (nopRecorder) RecordRun(domain.PipelineState, string, time.Duration) {}
func (nopRecorder) RecordUpstreamStatus(string, int)                      {}
func (nopRecorder) RecordArtifact(int)                                    {}

// Result is the outcome of a successful invocation.
type Result struct {
	Message     string                 `json:"message"`
	BlogContent string                 `json:"blog_content"`
	BlogURL     string                 `json:"blog_url"`
	Artifact    *domain.StoredArtifact `json:"-"`
}

// Option customizes a Relay.
type Option func(*Relay)

// WithEmitter publishes an artifact.stored event after each successful store.
func WithEmitter(emitter events.Emitter) Option {
	return func(r *Relay) {
		r.emitter = emitter
	}
}

// WithRecorder sends run measurements to rec.
func WithRecorder(rec Recorder) Option {
	return func(r *Relay) {
		r.recorder = rec
	}
}

// WithProvider sets the provider label used for upstream status metrics.
func WithProvider(name string) Option {
	return func(r *Relay) {
		r.provider = name
	}
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(log *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = log
	}
}

// Relay wires a generator to a content store. It holds no per-invocation
// state, so one Relay serves concurrent invocations.
type Relay struct {
	generator generation.Generator
	store     ContentStore
	emitter   events.Emitter
	recorder  Recorder
	provider  string
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a Relay.
func New(gen generation.Generator, store ContentStore, opts ...Option) (*Relay, error) {
	if gen == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if store == nil {
		return nil, errors.New("content store cannot be nil")
	}

	r := &Relay{
		generator: gen,
		store:     store,
		recorder:  nopRecorder{},
		provider:  "unknown",
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// run tracks the state of a single invocation.
type run struct {
	state   domain.PipelineState
	started time.Time
	log     *slog.Logger
}

func (r *run) advance(next domain.PipelineState) {
	r.log.Debug("pipeline state transition",
		slog.String("from", string(r.state)),
		slog.String("to", string(next)))
	r.state = next
}

// Run executes one invocation for topic. The returned error is one of
// *domain.ValidationError, *domain.ConfigurationError,
// *generation.UpstreamError, or wraps generation.ErrMalformedResponse,
// generation.ErrEmptyContent or storage.ErrStorage; anything else is
// unexpected.
func (r *Relay) Run(ctx context.Context, topic string) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)
	cur := &run{state: domain.StateReceived, started: r.now(), log: log}

	result, err := r.execute(ctx, cur, topic)

	elapsed := r.now().Sub(cur.started)
	if err != nil {
		cur.advance(domain.StateFailed)
		r.recorder.RecordRun(domain.StateFailed, FailureReason(err), elapsed)
		return nil, err
	}
	r.recorder.RecordRun(domain.StateStored, "", elapsed)
	return result, nil
}

func (r *Relay) execute(ctx context.Context, cur *run, topic string) (*Result, error) {
	log := cur.log

	req, err := domain.NewGenerationRequest(topic)
	if err != nil {
		log.Warn("rejected generation request", slog.String("error", err.Error()))
		return nil, err
	}
	cur.advance(domain.StateValidated)
	log = log.With(slog.String("topic", req.Topic))
	cur.log = log

	if err := r.store.CheckConfigured(); err != nil {
		log.Error("storage not configured", slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("starting blog generation")
	genResult, err := r.generator.Generate(ctx, req.Topic)
	r.recordUpstream(genResult, err)
	if err != nil {
		log.Error("blog generation failed", slog.String("error", redact.Error(err)))
		return nil, err
	}
	if genResult == nil || genResult.Text == "" {
		log.Error("generation produced no usable text")
		return nil, generation.ErrEmptyContent
	}
	cur.advance(domain.StateGenerated)

	artifact, err := r.store.Store(ctx, genResult.Text, req.Topic)
	if err != nil {
		log.Error("failed to store generated blog", slog.String("error", redact.Error(err)))
		return nil, err
	}
	cur.advance(domain.StateStored)
	r.recorder.RecordArtifact(len(genResult.Text))

	r.publish(ctx, log, artifact)

	log.Info("blog generation completed",
		slog.String("key", artifact.Key),
		slog.String("url", artifact.URL))

	return &Result{
		Message:     SuccessMessage,
		BlogContent: genResult.Text,
		BlogURL:     artifact.URL,
		Artifact:    artifact,
	}, nil
}

func (r *Relay) recordUpstream(res *domain.GenerationResult, err error) {
	var upstream *generation.UpstreamError
	switch {
	case errors.As(err, &upstream):
		r.recorder.RecordUpstreamStatus(r.provider, upstream.StatusCode)
	case err == nil && res != nil, errors.Is(err, generation.ErrMalformedResponse):
		r.recorder.RecordUpstreamStatus(r.provider, http.StatusOK)
	}
}

// publish emits artifact.stored. Subscriber failures never fail the invocation.
func (r *Relay) publish(ctx context.Context, log *slog.Logger, artifact *domain.StoredArtifact) {
	if r.emitter == nil {
		return
	}
	event, err := events.NewArtifactStoredEvent(artifact)
	if err != nil {
		log.Warn("failed to build artifact event", slog.String("error", err.Error()))
		return
	}
	if err := r.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("artifact event handler failed",
			slog.String("key", artifact.Key),
			slog.String("error", redact.Error(err)))
	}
}

// FailureReason classifies err into one of the Reason constants.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return ReasonValidation
	case errors.Is(err, domain.ErrConfiguration):
		return ReasonConfiguration
	case errors.Is(err, generation.ErrUpstream):
		return ReasonUpstream
	case errors.Is(err, generation.ErrMalformedResponse):
		return ReasonMalformed
	case errors.Is(err, generation.ErrEmptyContent):
		return ReasonEmptyContent
	case errors.Is(err, storage.ErrStorage):
		return ReasonStorage
	default:
		return ReasonInternal
	}
}

// String renders a Result for logs and the CLI.
func (r *Result) String() string {
	return fmt.Sprintf("%s: %s", r.Message, r.BlogURL)
}
