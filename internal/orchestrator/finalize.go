package orchestrator

import (
	"math"
	"time"

	"github.com/ponder-agent/ponder/internal/complexity"
	"github.com/ponder-agent/ponder/internal/config"
	"github.com/ponder-agent/ponder/internal/plan"
	"github.com/ponder-agent/ponder/internal/session"
	"github.com/ponder-agent/ponder/internal/types"
	"github.com/ponder-agent/ponder/pkg/version"
)

// Confidence scoring constants. Confidence starts at the base value,
// shifts by the deltas below, and is clamped to [minConfidence, maxConfidence].
const (
	baseConfidence       = 0.8
	errorPenalty         = 0.1
	unplannedHighPenalty = 0.2
	planBonus            = 0.1
	reflectionBonus      = 0.05
	minConfidence        = 0.1
	maxConfidence        = 1.0
)

// Token estimate weights.
const (
	inputCharsPerToken  = 4
	planTokenCost       = 500
	reflectionTokenCost = 200
	actionTokenCost     = 50
)

// Result is the terminal record of one process invocation.
type Result struct {
	ID          types.ID                   `json:"id"`
	Input       string                     `json:"input"`
	Effort      config.Effort              `json:"effort"`
	Complexity  *complexity.Result         `json:"complexity,omitempty"`
	Plan        *plan.Plan                 `json:"plan,omitempty"`
	Actions     []plan.Action              `json:"actions"`
	Reflections []session.Reflection       `json:"reflections"`
	Errors      []session.ValidationRecord `json:"errors"`
	Iterations  int                        `json:"iterations"`
	Duration    time.Duration              `json:"duration"`
	TokensUsed  int                        `json:"tokens_used"`
	Confidence  float64                    `json:"confidence"`
	Status      session.Status             `json:"status"`
	Metadata    Metadata                   `json:"metadata"`
}

// Metadata records when and under what configuration the result was built.
type Metadata struct {
	Timestamp    time.Time     `json:"timestamp"`
	Version      string        `json:"version"`
	EffortConfig config.Config `json:"effort_config"`
}

// Finalizer computes derived metrics and assembles the terminal result.
type Finalizer struct {
	version string
}

// NewFinalizer creates a Finalizer stamped with the build version.
func NewFinalizer() *Finalizer {
	return &Finalizer{version: version.Version}
}

// Finalize builds the Result from the terminal session state.
func (f *Finalizer) Finalize(s *session.Session, cfg config.Config, duration time.Duration) *Result {
	return &Result{
		ID:          s.ID,
		Input:       s.Input,
		Effort:      cfg.Effort,
		Complexity:  s.Complexity,
		Plan:        s.Plan,
		Actions:     s.Actions,
		Reflections: s.Reflections,
		Errors:      s.Errors,
		Iterations:  s.Iteration,
		Duration:    duration,
		TokensUsed:  estimateTokens(s),
		Confidence:  scoreConfidence(s),
		Status:      s.Status,
		Metadata: Metadata{
			Timestamp:    time.Now(),
			Version:      f.version,
			EffortConfig: cfg,
		},
	}
}

// estimateTokens approximates the token cost of the session: a quarter of
// the input length plus fixed costs per plan, reflection, and action.
func estimateTokens(s *session.Session) int {
	tokens := math.Round(float64(len(s.Input)) / inputCharsPerToken)
	if s.Plan != nil {
		tokens += planTokenCost
	}
	tokens += float64(len(s.Reflections) * reflectionTokenCost)
	tokens += float64(len(s.Actions) * actionTokenCost)
	return int(tokens)
}

// scoreConfidence derives the result confidence from session outcomes:
// errors subtract, an unplanned high-complexity run subtracts, a plan that
// produced actions adds, and having reflected adds slightly. The score is
// clamped so it always lands in [0.1, 1.0].
func scoreConfidence(s *session.Session) float64 {
	confidence := baseConfidence

	confidence -= errorPenalty * float64(len(s.Errors))

	if s.Complexity != nil && s.Complexity.Level == complexity.LevelHigh && s.Plan == nil {
		confidence -= unplannedHighPenalty
	}
	if s.Plan != nil && len(s.Actions) > 0 {
		confidence += planBonus
	}
	if len(s.Reflections) > 0 {
		confidence += reflectionBonus
	}

	return math.Min(maxConfidence, math.Max(minConfidence, confidence))
}
