package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ponder-agent/ponder/internal/complexity"
	"github.com/ponder-agent/ponder/internal/config"
	"github.com/ponder-agent/ponder/internal/plan"
	"github.com/ponder-agent/ponder/internal/session"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		plan        bool
		reflections int
		actions     int
		expected    int
	}{
		{
			name:     "input only",
			input:    "create a file", // 13 chars, rounds to 3
			expected: 3,
		},
		{
			name:     "with plan",
			input:    "create a file",
			plan:     true,
			expected: 503,
		},
		{
			name:        "full session",
			input:       "create a file called notes.txt", // 30 chars, rounds to 8
			plan:        true,
			reflections: 2,
			actions:     3,
			expected:    8 + 500 + 400 + 150,
		},
		{
			name:     "empty input",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := session.New(tt.input, nil)
			if tt.plan {
				s.Plan = &plan.Plan{}
			}
			s.Reflections = make([]session.Reflection, tt.reflections)
			s.Actions = make([]plan.Action, tt.actions)

			assert.Equal(t, tt.expected, estimateTokens(s))
		})
	}
}

func TestScoreConfidence(t *testing.T) {
	withPlanAndActions := func(s *session.Session) {
		s.Plan = &plan.Plan{}
		s.Actions = []plan.Action{{Type: plan.ActionCreateFile}}
	}

	tests := []struct {
		name     string
		mutate   func(*session.Session)
		expected float64
	}{
		{
			name:     "base score",
			mutate:   func(s *session.Session) {},
			expected: 0.8,
		},
		{
			name:     "plan with actions",
			mutate:   withPlanAndActions,
			expected: 0.9,
		},
		{
			name: "single error",
			mutate: func(s *session.Session) {
				withPlanAndActions(s)
				s.Errors = []session.ValidationRecord{{ActionType: "execute_command"}}
			},
			expected: 0.8,
		},
		{
			name: "reflection bonus",
			mutate: func(s *session.Session) {
				withPlanAndActions(s)
				s.Reflections = []session.Reflection{{}}
			},
			expected: 0.95,
		},
		{
			name: "unplanned high complexity",
			mutate: func(s *session.Session) {
				s.Complexity = &complexity.Result{Level: complexity.LevelHigh}
			},
			expected: 0.6,
		},
		{
			name: "planned high complexity avoids penalty",
			mutate: func(s *session.Session) {
				withPlanAndActions(s)
				s.Complexity = &complexity.Result{Level: complexity.LevelHigh}
			},
			expected: 0.9,
		},
		{
			name: "clamped at floor",
			mutate: func(s *session.Session) {
				s.Errors = make([]session.ValidationRecord, 10)
			},
			expected: 0.1,
		},
		{
			name: "clamped at ceiling",
			mutate: func(s *session.Session) {
				// max achievable is 0.95; stays below the ceiling
				withPlanAndActions(s)
				s.Reflections = []session.Reflection{{}}
			},
			expected: 0.95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := session.New("do something", nil)
			tt.mutate(s)
			assert.InDelta(t, tt.expected, scoreConfidence(s), 1e-9)
		})
	}
}

func TestFinalizeAssemblesResult(t *testing.T) {
	s := session.New("create a file called notes.txt", nil)
	s.Plan = &plan.Plan{Strategy: plan.StrategyDirect}
	s.Actions = []plan.Action{{Type: plan.ActionCreateFile}}
	s.Iteration = 1
	s.Status = session.StatusCompleted

	cfg := config.Default()
	result := NewFinalizer().Finalize(s, cfg, 42*time.Millisecond)

	assert.Equal(t, s.ID, result.ID)
	assert.Equal(t, s.Input, result.Input)
	assert.Equal(t, config.EffortMedium, result.Effort)
	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, 42*time.Millisecond, result.Duration)
	assert.Equal(t, session.StatusCompleted, result.Status)
	assert.Equal(t, 558, result.TokensUsed)
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	assert.NotEmpty(t, result.Metadata.Version)
	assert.Equal(t, cfg, result.Metadata.EffortConfig)
	assert.False(t, result.Metadata.Timestamp.IsZero())
}
