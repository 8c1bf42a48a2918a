package plan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ponder-agent/ponder/internal/complexity"
	"github.com/ponder-agent/ponder/internal/pacing"
	"github.com/ponder-agent/ponder/internal/types"
)

// Generator maps instruction text to a Plan: pattern-matched steps, the
// actions expanded from them, a duration estimate, and aggregate risks.
type Generator struct {
	pacer  pacing.Pacer
	logger *slog.Logger
}

// GeneratorOption is a functional option for configuring the Generator.
type GeneratorOption func(*Generator)

// WithPacer sets the pacer used for the cooperative thinking delay.
func WithPacer(p pacing.Pacer) GeneratorOption {
	return func(g *Generator) {
		if p != nil {
			g.pacer = p
		}
	}
}

// WithLogger sets the logger for generator operations.
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a Generator. By default it paces with a random
// bounded delay and logs through slog.Default().
func NewGenerator(options ...GeneratorOption) *Generator {
	g := &Generator{
		pacer:  pacing.Random(),
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Generate produces a Plan for the instruction. The thinking ceiling bounds
// the cooperative pacing delay paid before matching begins; pass zero to
// skip pacing entirely.
//
// Generation is deterministic after the delay: the instruction is matched
// against the fixed pattern table, matched steps are stably sorted by
// priority, and each step expands into one or more actions through the
// fixed step-type template mapping. Parameter extraction falls back to
// literal defaults and never fails the plan.
func (g *Generator) Generate(ctx context.Context, input string, cr complexity.Result, thinkingCeiling time.Duration) (*Plan, error) {
	if err := g.pacer.Wait(ctx, thinkingCeiling); err != nil {
		return nil, types.WrapError(types.PLAN_CANCELLED, "planning interrupted", err)
	}

	steps := matchSteps(input)
	actions := expandSteps(steps, input)

	var estimated time.Duration
	for i := range actions {
		estimated += actions[i].EstimatedDuration()
	}

	p := &Plan{
		ID:                types.NewID(),
		Strategy:          StrategyFor(cr.Level),
		Steps:             steps,
		Actions:           actions,
		EstimatedDuration: estimated,
		Risks:             aggregateRisks(actions),
		CreatedAt:         time.Now(),
	}

	g.logger.Debug("plan generated",
		"plan_id", p.ID,
		"strategy", p.Strategy,
		"steps", len(p.Steps),
		"actions", len(p.Actions),
		"estimated_ms", p.EstimatedDuration.Milliseconds(),
	)

	return p, nil
}

// DirectActions is the lighter-weight generator used when planning is
// disabled: it runs the same pattern and extraction machinery but skips
// pacing, sorting metadata, and plan assembly.
func DirectActions(input string) []Action {
	return expandSteps(matchSteps(input), input)
}

// expandSteps converts plan steps into concrete actions via the fixed
// step-type template mapping. Extraction operates on the full instruction
// so parameters are not lost to pattern-boundary truncation.
func expandSteps(steps []Step, input string) []Action {
	actions := make([]Action, 0, len(steps))
	for _, step := range steps {
		actions = append(actions, actionsForStep(step, input)...)
	}
	return actions
}

// actionsForStep expands one step into its template actions. Most step
// types map to a single action; environment setup expands to directory
// creation followed by project initialization, in that order.
func actionsForStep(step Step, input string) []Action {
	switch step.Type {
	case StepFileCreation:
		name := extractFilename(input)
		return []Action{newAction(ActionCreateFile, ToolFilesystem, "write", step.Priority,
			[]string{name},
			fmt.Sprintf("file %s created", name),
			[]string{RiskFileConflicts},
		)}

	case StepPackageInstallation:
		pkg := extractPackage(input)
		return []Action{newAction(ActionInstallPackage, ToolExec, "install", step.Priority,
			[]string{pkg},
			fmt.Sprintf("package %s installed", pkg),
			[]string{RiskNetworkDependency},
		)}

	case StepCommandExecution:
		cmd := extractCommand(input)
		return []Action{newAction(ActionExecuteCommand, ToolExec, "run", step.Priority,
			[]string{cmd},
			"command executed successfully",
			[]string{RiskCommandFailure},
		)}

	case StepFileModification:
		params := extractModification(input)
		return []Action{newAction(ActionModifyFile, ToolFilesystem, "edit", step.Priority,
			params,
			fmt.Sprintf("file %s modified", params[0]),
			[]string{RiskFileConflicts},
		)}

	case StepEnvironmentSetup:
		name := extractProjectName(input)
		return []Action{
			newAction(ActionCreateDirectory, ToolFilesystem, "mkdir", step.Priority,
				[]string{name},
				fmt.Sprintf("directory %s created", name),
				[]string{RiskFileConflicts},
			),
			newAction(ActionInitializeProject, ToolExec, "init", step.Priority,
				[]string{name},
				fmt.Sprintf("project %s initialized", name),
				[]string{RiskCommandFailure},
			),
		}

	default:
		return []Action{newAction(ActionGeneralTask, ToolExec, "run", step.Priority,
			[]string{extractCommand(input)},
			"task completed",
			[]string{RiskCommandFailure},
		)}
	}
}

// newAction builds a template action. IDs, iterations, and timestamps are
// assigned by the orchestrator when the action is accepted onto a session.
func newAction(actionType, tool, method string, priority int, params []string, outcome string, risks []string) Action {
	return Action{
		Type:            actionType,
		Tool:            tool,
		Method:          method,
		Parameters:      params,
		ExpectedOutcome: outcome,
		Risks:           risks,
		Status:          ActionStatusPlanned,
		Priority:        priority,
		Source:          SourcePlan,
	}
}
