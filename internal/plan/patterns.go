package plan

import (
	"regexp"
	"sort"

	"github.com/ponder-agent/ponder/internal/types"
)

// pattern binds a compiled matcher to the step it produces. The table is
// data-driven: adding a pattern is additive and precedence is table order.
type pattern struct {
	stepType StepType
	tool     string
	priority int
	re       *regexp.Regexp
}

// patternTable is the fixed, ordered matcher table. Each pattern that
// matches the instruction contributes one step whose description is the
// matched substring. Priorities order steps so that environment setup and
// package installation conceptually precede file and command work.
var patternTable = []pattern{
	{
		stepType: StepFileCreation,
		tool:     ToolFilesystem,
		priority: 3,
		re:       regexp.MustCompile(`(?i)\b(?:create|make|write)\s+(?:a\s+|an\s+|the\s+|new\s+)*file\b[^,.;]*`),
	},
	{
		stepType: StepPackageInstallation,
		tool:     ToolExec,
		priority: 2,
		re:       regexp.MustCompile(`(?i)\b(?:install|add)\s+(?:the\s+)?(?:packages|package|dependencies|dependency|module)?\s*[\w@/.-]*`),
	},
	{
		stepType: StepCommandExecution,
		tool:     ToolExec,
		priority: 5,
		re:       regexp.MustCompile(`(?i)\b(?:run|execute|launch)\s+(?:the\s+)?(?:command|script)?[^,.;]*`),
	},
	{
		stepType: StepFileModification,
		tool:     ToolFilesystem,
		priority: 4,
		re:       regexp.MustCompile(`(?i)\b(?:modify|update|edit|change)\s+(?:the\s+|a\s+)*[\w.-]*\s*file\b[^,.;]*`),
	},
	{
		stepType: StepEnvironmentSetup,
		tool:     ToolFilesystem,
		priority: 1,
		re:       regexp.MustCompile(`(?i)\b(?:set\s*up|setup|initialize|init|scaffold)\s+[^,.;]*(?:environment|project|workspace|repo)\b[^,.;]*`),
	},
}

// generalTaskPriority orders fallback steps after every matched step type.
const generalTaskPriority = 10

// matchSteps runs the instruction through the pattern table and returns one
// step per matching pattern, sorted ascending by priority. The sort is
// stable, so ties preserve table order. When nothing matches, a single
// general_task step is returned so planning always yields work.
func matchSteps(input string) []Step {
	steps := []Step{}

	for _, p := range patternTable {
		match := p.re.FindString(input)
		if match == "" {
			continue
		}
		steps = append(steps, Step{
			ID:          types.NewID(),
			Type:        p.stepType,
			Tool:        p.tool,
			Priority:    p.priority,
			Description: match,
		})
	}

	if len(steps) == 0 {
		steps = append(steps, Step{
			ID:          types.NewID(),
			Type:        StepGeneralTask,
			Tool:        ToolExec,
			Priority:    generalTaskPriority,
			Description: input,
		})
	}

	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Priority < steps[j].Priority
	})

	return steps
}
