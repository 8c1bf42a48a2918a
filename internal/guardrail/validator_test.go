package guardrail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ponder-agent/ponder/internal/plan"
)

func validAction() *plan.Action {
	return &plan.Action{
		Type:       plan.ActionCreateFile,
		Tool:       plan.ToolFilesystem,
		Method:     "write",
		Parameters: []string{"notes.txt"},
	}
}

func TestValidateAcceptsWellFormedAction(t *testing.T) {
	result := NewValidator().Validate(validAction())

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidateCollectsAllStructuralErrors(t *testing.T) {
	action := &plan.Action{}

	result := NewValidator().Validate(action)

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 2, "both missing type and missing tool must be reported")
}

func TestValidateMissingToolOnly(t *testing.T) {
	action := validAction()
	action.Tool = ""

	result := NewValidator().Validate(action)

	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 1)
}

func TestValidatePathTraversalWarns(t *testing.T) {
	action := validAction()
	action.Parameters = []string{"../../etc/passwd"}

	result := NewValidator().Validate(action)

	assert.True(t, result.Valid, "traversal is a warning, not an error")
	assert.Contains(t, result.Warnings, "path traversal risk")
}

func TestValidateDangerousCommands(t *testing.T) {
	tests := []struct {
		name    string
		command string
	}{
		{"rm -rf", "rm -rf /"},
		{"sudo", "sudo make install"},
		{"sudo embedded", "echo hi && sudo reboot"},
		{"format", "format c:"},
		{"del", "del important"},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action := &plan.Action{
				Type:       plan.ActionExecuteCommand,
				Tool:       plan.ToolExec,
				Parameters: []string{tt.command},
			}

			result := v.Validate(action)

			assert.False(t, result.Valid)
			assert.Contains(t, result.Errors, "dangerous command detected")
		})
	}
}

func TestValidateSudoDeterministic(t *testing.T) {
	// The denylist applies regardless of other parameters
	action := &plan.Action{
		Type:       plan.ActionExecuteCommand,
		Tool:       plan.ToolExec,
		Parameters: []string{"sudo apt upgrade", "ignored", "also ignored"},
	}

	v := NewValidator()
	for i := 0; i < 5; i++ {
		result := v.Validate(action)
		assert.False(t, result.Valid)
	}
}

func TestValidateExecSafeCommand(t *testing.T) {
	action := &plan.Action{
		Type:       plan.ActionExecuteCommand,
		Tool:       plan.ToolExec,
		Parameters: []string{"npm test"},
	}

	result := NewValidator().Validate(action)
	assert.True(t, result.Valid)
}

func TestValidateNoParameters(t *testing.T) {
	action := &plan.Action{Type: plan.ActionExecuteCommand, Tool: plan.ToolExec}

	result := NewValidator().Validate(action)
	assert.True(t, result.Valid)
}
