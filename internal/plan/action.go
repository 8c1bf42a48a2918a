package plan

import (
	"time"

	"github.com/ponder-agent/ponder/internal/types"
)

// ActionStatus represents the lifecycle status of an action. Execution is
// delegated to external executors, so the core only ever queues actions as
// planned; the remaining states exist for executors reporting back.
type ActionStatus string

const (
	ActionStatusPlanned   ActionStatus = "planned"
	ActionStatusRunning   ActionStatus = "running"
	ActionStatusCompleted ActionStatus = "completed"
	ActionStatusFailed    ActionStatus = "failed"
)

// String returns the string representation of the action status.
func (s ActionStatus) String() string {
	return string(s)
}

// ActionSource records which phase queued an action.
type ActionSource string

const (
	// SourcePlan marks actions derived from the planning phase.
	SourcePlan ActionSource = "plan"

	// SourceReflection marks actions added by reflection-driven adjustment.
	SourceReflection ActionSource = "reflection"
)

// Action type identifiers. These are the semantic descriptors handed to
// external executors; the core never executes them.
const (
	ActionCreateFile        = "create_file"
	ActionInstallPackage    = "install_package"
	ActionExecuteCommand    = "execute_command"
	ActionModifyFile        = "modify_file"
	ActionCreateDirectory   = "create_directory"
	ActionInitializeProject = "initialize_project"
	ActionValidateEnv       = "validate_environment"
	ActionGeneralTask       = "general_task"
)

// Tool identifiers for the external executors actions are routed to.
const (
	ToolFilesystem = "filesystem"
	ToolExec       = "exec"
)

// Risk tags attached to plans and actions.
const (
	RiskFileConflicts    = "potential_file_conflicts"
	RiskCommandFailure   = "command_execution_failure"
	RiskNetworkDependency = "network_dependency"
)

// Action is the atomic unit of work handed to an external executor.
// IDs are unique within a session; Iteration records the session iteration
// at which the action was queued and never exceeds the configured bound.
type Action struct {
	ID              types.ID     `json:"id"`
	Type            string       `json:"type"`
	Tool            string       `json:"tool"`
	Method          string       `json:"method"`
	Parameters      []string     `json:"parameters"`
	ExpectedOutcome string       `json:"expected_outcome"`
	Risks           []string     `json:"risks,omitempty"`
	Status          ActionStatus `json:"status"`
	Priority        int          `json:"priority"`
	Iteration       int          `json:"iteration"`
	Source          ActionSource `json:"source"`
	Timestamp       time.Time    `json:"timestamp"`
}

// IsFilesystem reports whether the action targets the filesystem executor.
func (a *Action) IsFilesystem() bool {
	return a.Tool == ToolFilesystem
}

// IsExec reports whether the action targets the process executor.
func (a *Action) IsExec() bool {
	return a.Tool == ToolExec
}

// IsInstall reports whether the action installs a package.
func (a *Action) IsInstall() bool {
	return a.Type == ActionInstallPackage
}

// actionDurations holds the fixed per-type duration estimates.
var actionDurations = map[string]time.Duration{
	ActionCreateFile:     2000 * time.Millisecond,
	ActionInstallPackage: 30000 * time.Millisecond,
	ActionExecuteCommand: 5000 * time.Millisecond,
	ActionModifyFile:     3000 * time.Millisecond,
}

// defaultActionDuration covers action types without a dedicated estimate.
const defaultActionDuration = 2000 * time.Millisecond

// EstimatedDuration returns the fixed duration estimate for the action type.
func (a *Action) EstimatedDuration() time.Duration {
	if d, ok := actionDurations[a.Type]; ok {
		return d
	}
	return defaultActionDuration
}
