package events

import (
	"time"

	"github.com/ponder-agent/ponder/internal/types"
)

// EventType identifies the category and nature of a planner lifecycle event.
type EventType string

// Process lifecycle events. These track one end-to-end process invocation.
const (
	EventProcessStarted   EventType = "process.started"
	EventProcessCompleted EventType = "process.completed"
	EventProcessFailed    EventType = "process.failed"
)

// Phase events. These track state-machine transitions within a session.
const (
	EventPhaseChanged     EventType = "process.phase_changed"
	EventActionQueued     EventType = "process.action_queued"
	EventActionRejected   EventType = "process.action_rejected"
	EventReflectionLogged EventType = "process.reflection_logged"
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	return string(t)
}

// Event is a planner lifecycle event. Delivery is synchronous from within
// the process call; slow subscribers drop rather than block.
type Event struct {
	// Type identifies the category and nature of the event
	Type EventType `json:"type"`

	// Timestamp records when the event occurred
	Timestamp time.Time `json:"timestamp"`

	// SessionID associates the event with a session
	SessionID types.ID `json:"session_id,omitempty"`

	// Payload contains type-specific event data
	Payload any `json:"payload,omitempty"`

	// Attrs holds additional unstructured attributes
	Attrs map[string]any `json:"attrs,omitempty"`
}

// ProcessStartedPayload accompanies EventProcessStarted.
type ProcessStartedPayload struct {
	SessionID types.ID `json:"session_id"`
	Input     string   `json:"input"`
}

// ProcessCompletedPayload accompanies EventProcessCompleted. Result holds
// the finalizer's terminal result record.
type ProcessCompletedPayload struct {
	SessionID  types.ID      `json:"session_id"`
	Status     string        `json:"status"`
	Confidence float64       `json:"confidence"`
	Duration   time.Duration `json:"duration"`
	Result     any           `json:"result,omitempty"`
}

// ProcessFailedPayload accompanies EventProcessFailed.
type ProcessFailedPayload struct {
	SessionID types.ID      `json:"session_id"`
	Error     string        `json:"error"`
	Duration  time.Duration `json:"duration"`
}

// PhaseChangedPayload accompanies EventPhaseChanged.
type PhaseChangedPayload struct {
	SessionID types.ID `json:"session_id"`
	Phase     string   `json:"phase"`
	Iteration int      `json:"iteration"`
}

// ActionPayload accompanies EventActionQueued and EventActionRejected.
type ActionPayload struct {
	SessionID  types.ID `json:"session_id"`
	ActionType string   `json:"action_type"`
	Tool       string   `json:"tool"`
	Iteration  int      `json:"iteration"`
	Errors     []string `json:"errors,omitempty"`
}

// Filter restricts which events a subscriber receives. Zero value matches
// every event.
type Filter struct {
	// Types limits delivery to the listed event types. Empty means all.
	Types []EventType

	// SessionID limits delivery to events for one session. Zero means all.
	SessionID types.ID
}

// Matches reports whether the event passes the filter.
func (f Filter) Matches(event Event) bool {
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if t == event.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if !f.SessionID.IsZero() && f.SessionID != event.SessionID {
		return false
	}

	return true
}
