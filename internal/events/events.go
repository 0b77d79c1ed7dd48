package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the progression services.
const (
	// EventXPAwarded fires when an XP award is applied to a profile.
	EventXPAwarded = "xp_awarded"

	// EventLevelUp fires when an XP award pushes the learner past a
	// level boundary.
	EventLevelUp = "level_up"

	// EventChallengeCompleted fires when a challenge's target is reached
	// for the current period.
	EventChallengeCompleted = "challenge_completed"

	// EventCourseCompleted fires when the last unit of a course is completed.
	EventCourseCompleted = "course_completed"

	// EventBudgetChallengeCompleted fires when a budget scenario's
	// challenge is confirmed for the first time.
	EventBudgetChallengeCompleted = "budget_challenge_completed"

	// EventGoalCompleted fires when a savings goal reaches its target.
	EventGoalCompleted = "goal_completed"
)

// ProgressionEvent describes one milestone reached by one learner.
// The payload carries event-specific data serialized as JSON so that
// handlers stay decoupled from the emitting service's types.
type ProgressionEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Event* constants
	Type string `json:"type"`

	// LearnerID identifies the learner the milestone belongs to
	LearnerID uuid.UUID `json:"learner_id"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *ProgressionEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewProgressionEvent creates an event of the given type for a learner.
func NewProgressionEvent(eventType string, learnerID uuid.UUID, payload any) (*ProgressionEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &ProgressionEvent{
		ID:        uuid.New(),
		Type:      eventType,
		LearnerID: learnerID,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *ProgressionEvent) error
}

// EventHandlerFunc adapts a plain function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *ProgressionEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *ProgressionEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish milestones without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *ProgressionEvent) error
}
