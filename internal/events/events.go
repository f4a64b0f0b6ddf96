package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the progress and conversation services. Handlers
// match on these to decide whether an event concerns them.
const (
	EventTypeReviewRecorded      = "review.recorded"
	EventTypeWordLearned         = "word.learned"
	EventTypeSessionCompleted    = "session.completed"
	EventTypeConversationEnded   = "conversation.ended"
	EventTypeAchievementUnlocked = "achievement.unlocked"
)

// ProgressEvent represents one committed learning event. It is emitted after
// the owning transaction commits, so handlers only ever observe durable
// state.
type ProgressEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the EventType constants
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *ProgressEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewProgressEvent creates a new ProgressEvent with the specified type and payload.
func NewProgressEvent(eventType string, payload interface{}) (*ProgressEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &ProgressEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler is the interface for components that can process events.
type EventHandler interface {
	// HandleEvent processes the given event. Implementations must tolerate
	// event types they do not care about by returning nil.
	HandleEvent(ctx context.Context, event *ProgressEvent) error
}

// EventEmitter is the interface for components that can publish events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *ProgressEvent) error
}
