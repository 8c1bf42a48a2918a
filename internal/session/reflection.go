package session

import (
	"time"

	"github.com/ponder-agent/ponder/internal/plan"
	"github.com/ponder-agent/ponder/internal/types"
)

// Assessment is the reflection engine's overall judgment of a session.
type Assessment string

const (
	AssessmentPositive       Assessment = "positive"
	AssessmentNeedsAttention Assessment = "needs_attention"
)

// Reflection is a post-execution self-assessment appended to the session.
// Confidence is always within [0, 1].
type Reflection struct {
	ID              types.ID   `json:"id"`
	Timestamp       time.Time  `json:"timestamp"`
	Assessment      Assessment `json:"assessment"`
	Confidence      float64    `json:"confidence"`
	Observations    []string   `json:"observations"`
	Recommendations []string   `json:"recommendations"`
	NeedsAdjustment bool       `json:"needs_adjustment"`
}

// AdjustmentKind discriminates the Adjustment variant.
type AdjustmentKind string

const (
	AdjustAddAction    AdjustmentKind = "add_action"
	AdjustModifyAction AdjustmentKind = "modify_action"
	AdjustRemoveAction AdjustmentKind = "remove_action"
)

// Adjustment is a corrective operation on the session's action list,
// proposed by reflection and applied by the orchestrator in emission order.
// Exactly one of the variant fields is meaningful for each kind:
// Action for add_action, ActionID+Patch for modify_action, ActionID for
// remove_action.
type Adjustment struct {
	Kind     AdjustmentKind `json:"kind"`
	Action   *plan.Action   `json:"action,omitempty"`
	ActionID types.ID       `json:"action_id,omitempty"`
	Patch    *ActionPatch   `json:"patch,omitempty"`
}

// ActionPatch enumerates the only mutable action fields. A nil field means
// leave unchanged. Using an explicit patch shape instead of a free-form
// merge keeps action records from drifting structurally.
type ActionPatch struct {
	Priority   *int               `json:"priority,omitempty"`
	Status     *plan.ActionStatus `json:"status,omitempty"`
	Parameters []string           `json:"parameters,omitempty"`
}

// Apply merges the patch into the action.
func (p *ActionPatch) Apply(a *plan.Action) {
	if p == nil || a == nil {
		return
	}
	if p.Priority != nil {
		a.Priority = *p.Priority
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Parameters != nil {
		a.Parameters = p.Parameters
	}
}

// PatchAction merges a typed patch into the action with the given ID.
// Returns false (a no-op) when the ID is not found.
func (s *Session) PatchAction(id types.ID, patch *ActionPatch) bool {
	idx := s.ActionIndex(id)
	if idx < 0 {
		return false
	}
	patch.Apply(&s.Actions[idx])
	return true
}
