// Package session defines the mutable state container for one end-to-end
// process invocation. A Session is exclusively owned by the orchestrator
// for the lifetime of a single call and is never shared across concurrent
// invocations.
package session

import (
	"time"

	"github.com/ponder-agent/ponder/internal/complexity"
	"github.com/ponder-agent/ponder/internal/plan"
	"github.com/ponder-agent/ponder/internal/types"
)

// Status tracks which phase the session is in, or how it terminated.
type Status string

const (
	StatusThinking            Status = "thinking"
	StatusExecuting           Status = "executing"
	StatusReflecting          Status = "reflecting"
	StatusCompleted           Status = "completed"
	StatusCompletedWithErrors Status = "completed_with_errors"
	StatusFailed              Status = "failed"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for completed, completed_with_errors, and failed.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCompletedWithErrors, StatusFailed:
		return true
	default:
		return false
	}
}

// FileRef identifies a file known in the caller's context.
type FileRef struct {
	Name string `json:"name"`
}

// Message is a single conversation entry supplied by the caller.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is the caller-supplied dialogue history.
type Conversation struct {
	Messages []Message `json:"messages"`
}

// Context is the situational data supplied by the caller. It is read-only
// to the core.
type Context struct {
	Files            []FileRef     `json:"files,omitempty"`
	WorkingDirectory string        `json:"working_directory,omitempty"`
	Conversation     *Conversation `json:"conversation,omitempty"`
}

// FileCount returns the number of files known in the context. Safe on nil.
func (c *Context) FileCount() int {
	if c == nil {
		return 0
	}
	return len(c.Files)
}

// ValidationRecord captures a single action rejected by validation. The
// offending action is dropped; the record keeps the session's error trail.
type ValidationRecord struct {
	ActionType string    `json:"action_type"`
	Errors     []string  `json:"errors"`
	Timestamp  time.Time `json:"timestamp"`
}

// Session is the unit of work for one process invocation.
type Session struct {
	ID          types.ID           `json:"id"`
	Input       string             `json:"input"`
	Context     *Context           `json:"context,omitempty"`
	Iteration   int                `json:"iteration"`
	Plan        *plan.Plan         `json:"plan,omitempty"`
	Complexity  *complexity.Result `json:"complexity,omitempty"`
	Actions     []plan.Action      `json:"actions"`
	Reflections []Reflection       `json:"reflections"`
	Errors      []ValidationRecord `json:"errors"`
	Status      Status             `json:"status"`
	StartedAt   time.Time          `json:"started_at"`
}

// New creates a session in the thinking state with a fresh ID.
func New(input string, sctx *Context) *Session {
	return &Session{
		ID:          types.NewID(),
		Input:       input,
		Context:     sctx,
		Iteration:   0,
		Actions:     []plan.Action{},
		Reflections: []Reflection{},
		Errors:      []ValidationRecord{},
		Status:      StatusThinking,
		StartedAt:   time.Now(),
	}
}

// ActionIndex returns the position of the action with the given ID, or -1.
func (s *Session) ActionIndex(id types.ID) int {
	for i := range s.Actions {
		if s.Actions[i].ID == id {
			return i
		}
	}
	return -1
}

// RemoveAction deletes the action with the given ID, preserving the order
// of the remaining actions. Returns false when the ID is unknown.
func (s *Session) RemoveAction(id types.ID) bool {
	idx := s.ActionIndex(id)
	if idx < 0 {
		return false
	}
	s.Actions = append(s.Actions[:idx], s.Actions[idx+1:]...)
	return true
}

// RecordValidationFailure appends a validation error record for a dropped
// action.
func (s *Session) RecordValidationFailure(actionType string, errs []string) {
	s.Errors = append(s.Errors, ValidationRecord{
		ActionType: actionType,
		Errors:     errs,
		Timestamp:  time.Now(),
	})
}

// HasErrors reports whether any validation failures were recorded.
func (s *Session) HasErrors() bool {
	return len(s.Errors) > 0
}
