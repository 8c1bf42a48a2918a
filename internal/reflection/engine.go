// Package reflection implements the post-execution self-assessment step.
// The engine inspects accumulated session state, judges whether correction
// is needed, and proposes bounded adjustments to the action list.
package reflection

import (
	"context"
	"log/slog"
	"time"

	"github.com/ponder-agent/ponder/internal/pacing"
	"github.com/ponder-agent/ponder/internal/plan"
	"github.com/ponder-agent/ponder/internal/session"
	"github.com/ponder-agent/ponder/internal/types"
)

// Confidence levels assigned by the assessment heuristics.
const (
	confidenceDefault        = 0.8
	confidenceNeedsAttention = 0.4
)

// highActionCount is the action count above which decomposition is
// recommended.
const highActionCount = 10

// deprioritizedValue is the priority assigned to filesystem actions that
// should conceptually run after package installation. The adjustment only
// tags the priority field; it does not physically reorder the action list.
const deprioritizedValue = 999

// Engine assesses sessions and proposes corrective adjustments.
type Engine struct {
	pacer  pacing.Pacer
	logger *slog.Logger
}

// Option is a functional option for configuring the Engine.
type Option func(*Engine)

// WithPacer sets the pacer used for the cooperative assessment delay.
func WithPacer(p pacing.Pacer) Option {
	return func(e *Engine) {
		if p != nil {
			e.pacer = p
		}
	}
}

// WithLogger sets the logger for reflection operations.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an Engine with a random pacer and the default logger.
func NewEngine(options ...Option) *Engine {
	e := &Engine{
		pacer:  pacing.Random(),
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// Reflect assesses the session and returns a Reflection record. All
// heuristics are evaluated independently and their observations accumulate:
//
//   - recorded validation errors force a needs_attention assessment with
//     reduced confidence and set the adjustment flag
//   - more than ten actions yields a decomposition recommendation without
//     by itself forcing adjustment
//   - filesystem work with no package installation is observed as a likely
//     missing dependency setup
//
// Absent any finding the assessment is positive with default confidence.
func (e *Engine) Reflect(ctx context.Context, s *session.Session, thinkingCeiling time.Duration) (session.Reflection, error) {
	if err := e.pacer.Wait(ctx, thinkingCeiling); err != nil {
		return session.Reflection{}, types.WrapError(types.REFLECTION_FAILED, "reflection interrupted", err)
	}

	r := session.Reflection{
		ID:              types.NewID(),
		Timestamp:       time.Now(),
		Assessment:      session.AssessmentPositive,
		Confidence:      confidenceDefault,
		Observations:    []string{},
		Recommendations: []string{},
	}

	if s.HasErrors() {
		r.Assessment = session.AssessmentNeedsAttention
		r.Confidence = confidenceNeedsAttention
		r.NeedsAdjustment = true
		r.Observations = append(r.Observations,
			"validation errors were recorded during execution")
		r.Recommendations = append(r.Recommendations,
			"resolve validation errors before proceeding")
	}

	if len(s.Actions) > highActionCount {
		r.Observations = append(r.Observations, "high action count")
		r.Recommendations = append(r.Recommendations,
			"decompose the instruction into smaller tasks")
	}

	if hasFilesystemWork(s.Actions) && !hasInstall(s.Actions) {
		r.Observations = append(r.Observations,
			"file ops without dependency setup")
	}

	e.logger.Debug("reflection complete",
		"session_id", s.ID,
		"assessment", r.Assessment,
		"confidence", r.Confidence,
		"needs_adjustment", r.NeedsAdjustment,
	)

	return r, nil
}

// ProposeAdjustments generates the corrective adjustments for a reflection
// that flagged NeedsAdjustment. Returns nil otherwise.
//
// Two correction rules apply:
//
//   - when validation errors exist, one validate_environment action is
//     added so the executor can sanity-check its surroundings first
//   - every filesystem action positioned before the first package-install
//     action is deprioritized via a modify_action patch, ordering installs
//     conceptually first; array positions are left untouched
func (e *Engine) ProposeAdjustments(s *session.Session, r session.Reflection) []session.Adjustment {
	if !r.NeedsAdjustment {
		return nil
	}

	var adjustments []session.Adjustment

	if s.HasErrors() {
		check := plan.Action{
			Type:            plan.ActionValidateEnv,
			Tool:            plan.ToolFilesystem,
			Method:          "check",
			Parameters:      []string{"."},
			ExpectedOutcome: "environment validated",
			Status:          plan.ActionStatusPlanned,
			Source:          plan.SourceReflection,
		}
		adjustments = append(adjustments, session.Adjustment{
			Kind:   session.AdjustAddAction,
			Action: &check,
		})
	}

	firstInstall := firstInstallIndex(s.Actions)
	if firstInstall > 0 {
		for i := 0; i < firstInstall; i++ {
			if !s.Actions[i].IsFilesystem() {
				continue
			}
			priority := deprioritizedValue
			adjustments = append(adjustments, session.Adjustment{
				Kind:     session.AdjustModifyAction,
				ActionID: s.Actions[i].ID,
				Patch:    &session.ActionPatch{Priority: &priority},
			})
		}
	}

	return adjustments
}

// hasFilesystemWork reports whether any action targets the filesystem.
func hasFilesystemWork(actions []plan.Action) bool {
	for i := range actions {
		if actions[i].IsFilesystem() {
			return true
		}
	}
	return false
}

// hasInstall reports whether any action installs a package.
func hasInstall(actions []plan.Action) bool {
	for i := range actions {
		if actions[i].IsInstall() {
			return true
		}
	}
	return false
}

// firstInstallIndex returns the position of the first package-install
// action, or -1 when none exists.
func firstInstallIndex(actions []plan.Action) int {
	for i := range actions {
		if actions[i].IsInstall() {
			return i
		}
	}
	return -1
}
