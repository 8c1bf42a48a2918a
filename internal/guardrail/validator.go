// Package guardrail checks candidate actions against structural and safety
// rules before they are accepted onto a session. Checks are pure: a failed
// validation is recorded by the caller and the action dropped, never
// aborting the surrounding session.
package guardrail

import (
	"log/slog"
	"strings"

	"github.com/ponder-agent/ponder/internal/plan"
)

// dangerousCommands is the fixed denylist for exec actions. An exec action
// whose first parameter contains any of these substrings is rejected.
var dangerousCommands = []string{
	"rm -rf",
	"sudo",
	"format",
	"del",
}

// Validation rule messages.
const (
	msgMissingType      = "action type is required"
	msgMissingTool      = "action tool is required"
	msgDangerousCommand = "dangerous command detected"
	msgPathTraversal    = "path traversal risk"
)

// Result is the outcome of validating a single action. Warnings do not
// invalidate; all applicable errors are collected rather than stopping at
// the first failure.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Validator applies the structural and safety rule set to actions.
// It is stateless and safe for concurrent use.
type Validator struct {
	logger *slog.Logger
}

// ValidatorOption is a functional option for configuring the Validator.
type ValidatorOption func(*Validator)

// WithLogger sets the logger for validation operations.
func WithLogger(logger *slog.Logger) ValidatorOption {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewValidator creates a Validator.
func NewValidator(options ...ValidatorOption) *Validator {
	v := &Validator{logger: slog.Default()}
	for _, opt := range options {
		opt(v)
	}
	return v
}

// Validate checks one action against the rule set, in order:
//
//  1. Missing type or tool invalidates the action; both are checked so the
//     result collects every applicable structural error.
//  2. A filesystem action whose first parameter contains ".." gets a path
//     traversal warning. Warnings do not invalidate.
//  3. An exec action whose first parameter contains a denylisted substring
//     is invalid.
func (v *Validator) Validate(action *plan.Action) Result {
	result := Result{Valid: true}

	if action.Type == "" {
		result.Valid = false
		result.Errors = append(result.Errors, msgMissingType)
	}
	if action.Tool == "" {
		result.Valid = false
		result.Errors = append(result.Errors, msgMissingTool)
	}

	if action.Tool == plan.ToolFilesystem && firstParamContains(action, "..") {
		result.Warnings = append(result.Warnings, msgPathTraversal)
	}

	if action.Tool == plan.ToolExec {
		for _, denied := range dangerousCommands {
			if firstParamContains(action, denied) {
				result.Valid = false
				result.Errors = append(result.Errors, msgDangerousCommand)
				v.logger.Warn("blocked dangerous action",
					"action_type", action.Type,
					"matched", denied,
				)
				break
			}
		}
	}

	return result
}

// firstParamContains reports whether the action's first parameter contains
// the given substring.
func firstParamContains(action *plan.Action, substr string) bool {
	if len(action.Parameters) == 0 {
		return false
	}
	return strings.Contains(action.Parameters[0], substr)
}
