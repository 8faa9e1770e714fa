package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/blogrelay/internal/domain"
)

// TypeArtifactStored is emitted once per successful store.
const TypeArtifactStored = "artifact.stored"

// Event is a typed notification with a JSON payload.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an Event of eventType carrying payload as JSON.
func NewEvent(eventType string, payload any) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewArtifactStoredEvent wraps artifact in an artifact.stored event.
func NewArtifactStoredEvent(artifact *domain.StoredArtifact) (*Event, error) {
	return NewEvent(TypeArtifactStored, artifact)
}

// Artifact decodes the payload of an artifact.stored event.
func (e *Event) Artifact() (*domain.StoredArtifact, error) {
	if e.Type != TypeArtifactStored {
		return nil, fmt.Errorf("event %s is %q, not %q", e.ID, e.Type, TypeArtifactStored)
	}
	var artifact domain.StoredArtifact
	if err := e.UnmarshalPayload(&artifact); err != nil {
		return nil, fmt.Errorf("failed to decode artifact payload: %w", err)
	}
	return &artifact, nil
}

// Handler processes events delivered by an Emitter.
type Handler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// Emitter publishes events to registered handlers.
type Emitter interface {
	EmitEvent(ctx context.Context, event *Event) error
}
