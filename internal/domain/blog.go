package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxTopicLength bounds the topic a caller may submit. The slug derived from
// it is shorter still; this only keeps prompts within a sane size.
const MaxTopicLength = 1000

// GenerationRequest is a single caller's request to produce a blog post.
// It is created per invocation and discarded once the pipeline finishes.
type GenerationRequest struct {
	Topic string `json:"blog_topic"`
}

// NewGenerationRequest trims the topic and validates it.
func NewGenerationRequest(topic string) (*GenerationRequest, error) {
	req := &GenerationRequest{Topic: strings.TrimSpace(topic)}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Validate checks that the request carries a usable topic.
func (r *GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return NewValidationError("blog_topic", "is required", ErrEmptyTopic)
	}
	if len(r.Topic) > MaxTopicLength {
		return NewValidationError("blog_topic", "is too long", ErrValidation)
	}
	return nil
}

// GenerationResult is the cleaned text produced for a topic, together with
// the prompt that produced it. Text never contains SourcePrompt.
type GenerationResult struct {
	Text         string
	SourcePrompt string
}

// StoredArtifact is the persisted form of a generated post and the reference
// callers use to retrieve it. It is immutable once created.
type StoredArtifact struct {
	ID        uuid.UUID `json:"id"`
	Topic     string    `json:"topic"`
	Key       string    `json:"key"`
	Bucket    string    `json:"bucket"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStoredArtifact records a successful write of key to bucket.
func NewStoredArtifact(topic, bucket, key, url string, createdAt time.Time) *StoredArtifact {
	return &StoredArtifact{
		ID:        uuid.New(),
		Topic:     topic,
		Key:       key,
		Bucket:    bucket,
		URL:       url,
		CreatedAt: createdAt,
	}
}

// PipelineState names a step of a single relay invocation.
type PipelineState string

// Pipeline states. STORED and FAILED are terminal.
const (
	StateReceived  PipelineState = "received"
	StateValidated PipelineState = "validated"
	StateGenerated PipelineState = "generated"
	StateStored    PipelineState = "stored"
	StateFailed    PipelineState = "failed"
)

// IsTerminal reports whether no further transition is possible from s.
func (s PipelineState) IsTerminal() bool {
	return s == StateStored || s == StateFailed
}
