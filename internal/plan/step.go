package plan

import "github.com/ponder-agent/ponder/internal/types"

// StepType classifies a plan step by the kind of work it describes.
type StepType string

const (
	StepFileCreation        StepType = "file_creation"
	StepPackageInstallation StepType = "package_installation"
	StepCommandExecution    StepType = "command_execution"
	StepFileModification    StepType = "file_modification"
	StepEnvironmentSetup    StepType = "environment_setup"
	StepGeneralTask         StepType = "general_task"
)

// String returns the string representation of the step type.
func (t StepType) String() string {
	return string(t)
}

// Step is a single entry in a plan, produced by matching the instruction
// against the pattern table. Description carries the matched substring so
// downstream consumers can see what triggered the step.
type Step struct {
	ID          types.ID `json:"id"`
	Type        StepType `json:"type"`
	Tool        string   `json:"tool"`
	Priority    int      `json:"priority"`
	Description string   `json:"description"`
}
