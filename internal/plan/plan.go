// Package plan turns free-text instructions into ordered plan steps and
// concrete actions using a fixed, ordered table of compiled patterns. All
// matching is deterministic keyword heuristics; parameter extraction falls
// back to literal defaults and never fails a plan.
package plan

import (
	"time"

	"github.com/ponder-agent/ponder/internal/complexity"
	"github.com/ponder-agent/ponder/internal/types"
)

// Strategy is the execution posture chosen from the complexity level.
type Strategy string

const (
	StrategyDirect    Strategy = "direct_execution"
	StrategyPlanned   Strategy = "planned_execution"
	StrategyIterative Strategy = "iterative_execution"
	StrategyCautious  Strategy = "cautious_execution"
)

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	return string(s)
}

// StrategyFor maps a complexity level onto an execution strategy.
func StrategyFor(level complexity.Level) Strategy {
	switch level {
	case complexity.LevelVeryHigh:
		return StrategyCautious
	case complexity.LevelHigh:
		return StrategyIterative
	case complexity.LevelMedium:
		return StrategyPlanned
	default:
		return StrategyDirect
	}
}

// Plan is the output of the planning phase: ordered steps, the actions
// derived from them, a duration estimate, and aggregate risk tags.
type Plan struct {
	ID                types.ID      `json:"id"`
	Strategy          Strategy      `json:"strategy"`
	Steps             []Step        `json:"steps"`
	Actions           []Action      `json:"actions"`
	EstimatedDuration time.Duration `json:"estimated_duration"`
	Risks             []string      `json:"risks,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

// aggregateRisks computes the plan-level risk tag union from its actions.
func aggregateRisks(actions []Action) []string {
	risks := []string{}
	var hasFilesystem, hasExec, hasInstall bool
	for i := range actions {
		if actions[i].IsFilesystem() {
			hasFilesystem = true
		}
		if actions[i].IsExec() {
			hasExec = true
		}
		if actions[i].IsInstall() {
			hasInstall = true
		}
	}
	if hasFilesystem {
		risks = append(risks, RiskFileConflicts)
	}
	if hasExec {
		risks = append(risks, RiskCommandFailure)
	}
	if hasInstall {
		risks = append(risks, RiskNetworkDependency)
	}
	return risks
}
