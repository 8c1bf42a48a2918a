package reflection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ponder-agent/ponder/internal/pacing"
	"github.com/ponder-agent/ponder/internal/plan"
	"github.com/ponder-agent/ponder/internal/session"
	"github.com/ponder-agent/ponder/internal/types"
)

func newTestEngine() *Engine {
	return NewEngine(WithPacer(pacing.Zero()))
}

func fsAction() plan.Action {
	return plan.Action{
		ID:         types.NewID(),
		Type:       plan.ActionCreateFile,
		Tool:       plan.ToolFilesystem,
		Parameters: []string{"a.txt"},
	}
}

func installAction() plan.Action {
	return plan.Action{
		ID:         types.NewID(),
		Type:       plan.ActionInstallPackage,
		Tool:       plan.ToolExec,
		Parameters: []string{"lodash"},
	}
}

func TestReflectCleanSessionIsPositive(t *testing.T) {
	s := session.New("create a file", nil)
	s.Actions = []plan.Action{fsAction(), installAction()}

	r, err := newTestEngine().Reflect(context.Background(), s, 0)
	require.NoError(t, err)

	assert.Equal(t, session.AssessmentPositive, r.Assessment)
	assert.InDelta(t, 0.8, r.Confidence, 0.001)
	assert.False(t, r.NeedsAdjustment)
}

func TestReflectErrorsForceAttention(t *testing.T) {
	s := session.New("x", nil)
	s.RecordValidationFailure(plan.ActionExecuteCommand, []string{"dangerous command detected"})

	r, err := newTestEngine().Reflect(context.Background(), s, 0)
	require.NoError(t, err)

	assert.Equal(t, session.AssessmentNeedsAttention, r.Assessment)
	assert.InDelta(t, 0.4, r.Confidence, 0.001)
	assert.True(t, r.NeedsAdjustment)
	assert.NotEmpty(t, r.Recommendations)
}

func TestReflectHighActionCount(t *testing.T) {
	s := session.New("x", nil)
	for i := 0; i < 11; i++ {
		s.Actions = append(s.Actions, installAction())
	}

	r, err := newTestEngine().Reflect(context.Background(), s, 0)
	require.NoError(t, err)

	assert.Contains(t, r.Observations, "high action count")
	// High action count alone does not force adjustment
	assert.False(t, r.NeedsAdjustment)
}

func TestReflectFileOpsWithoutInstall(t *testing.T) {
	s := session.New("x", nil)
	s.Actions = []plan.Action{fsAction()}

	r, err := newTestEngine().Reflect(context.Background(), s, 0)
	require.NoError(t, err)

	assert.Contains(t, r.Observations, "file ops without dependency setup")
}

func TestReflectConfidenceInRange(t *testing.T) {
	sessions := []*session.Session{
		session.New("clean", nil),
		func() *session.Session {
			s := session.New("errored", nil)
			s.RecordValidationFailure("x", []string{"e"})
			return s
		}(),
	}

	for _, s := range sessions {
		r, err := newTestEngine().Reflect(context.Background(), s, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r.Confidence, 0.0)
		assert.LessOrEqual(t, r.Confidence, 1.0)
	}
}

func TestProposeAdjustmentsNoopWithoutFlag(t *testing.T) {
	s := session.New("x", nil)
	r := session.Reflection{NeedsAdjustment: false}

	assert.Nil(t, newTestEngine().ProposeAdjustments(s, r))
}

func TestProposeAdjustmentsAddsEnvCheckOnErrors(t *testing.T) {
	s := session.New("x", nil)
	s.RecordValidationFailure("y", []string{"bad"})
	r := session.Reflection{NeedsAdjustment: true}

	adjustments := newTestEngine().ProposeAdjustments(s, r)

	require.NotEmpty(t, adjustments)
	add := adjustments[0]
	assert.Equal(t, session.AdjustAddAction, add.Kind)
	require.NotNil(t, add.Action)
	assert.Equal(t, plan.ActionValidateEnv, add.Action.Type)
	assert.Equal(t, plan.ToolFilesystem, add.Action.Tool)
	assert.Equal(t, []string{"."}, add.Action.Parameters)
	assert.Equal(t, plan.SourceReflection, add.Action.Source)
}

func TestProposeAdjustmentsDeprioritizesFilesBeforeInstall(t *testing.T) {
	s := session.New("x", nil)
	firstFile := fsAction()
	secondFile := fsAction()
	install := installAction()
	trailingFile := fsAction()
	s.Actions = []plan.Action{firstFile, secondFile, install, trailingFile}

	r := session.Reflection{NeedsAdjustment: true}
	adjustments := newTestEngine().ProposeAdjustments(s, r)

	var patched []types.ID
	for _, adj := range adjustments {
		if adj.Kind == session.AdjustModifyAction {
			require.NotNil(t, adj.Patch)
			require.NotNil(t, adj.Patch.Priority)
			assert.Equal(t, 999, *adj.Patch.Priority)
			patched = append(patched, adj.ActionID)
		}
	}

	// Every filesystem action before the install is deprioritized;
	// the one after it is not, and the install itself never is.
	assert.ElementsMatch(t, []types.ID{firstFile.ID, secondFile.ID}, patched)
}

func TestProposeAdjustmentsInstallFirstNoPatches(t *testing.T) {
	s := session.New("x", nil)
	s.Actions = []plan.Action{installAction(), fsAction()}

	r := session.Reflection{NeedsAdjustment: true}
	adjustments := newTestEngine().ProposeAdjustments(s, r)

	for _, adj := range adjustments {
		assert.NotEqual(t, session.AdjustModifyAction, adj.Kind,
			"install already first: nothing to deprioritize")
	}
}
