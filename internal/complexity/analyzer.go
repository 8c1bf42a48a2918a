// Package complexity scores free-text instructions into a categorical
// complexity level using deterministic additive keyword heuristics. The
// level drives strategy selection and the reflection gate downstream.
package complexity

import "strings"

// Level is the categorical complexity classification of an instruction.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelVeryHigh Level = "very_high"
)

// String returns the string representation of the level.
func (l Level) String() string {
	return string(l)
}

// IsElevated returns true for levels that warrant reflection (high or very_high).
func (l Level) IsElevated() bool {
	return l == LevelHigh || l == LevelVeryHigh
}

// Factor names contributed by individual scoring rules.
const (
	FactorLongInput       = "long_input"
	FactorMediumInput     = "medium_input"
	FactorComplexSteps    = "complex_multi_step"
	FactorMultiStep       = "multi_step"
	FactorComplexFileOps  = "complex_file_ops"
	FactorMultipleFileOps = "multiple_file_ops"
	FactorManyFiles       = "many_files"
)

// multiStepIndicators are phrases whose presence suggests an instruction
// describes a sequence of dependent operations. Matched case-insensitively
// as substrings; each distinct phrase counts once.
var multiStepIndicators = []string{
	"then",
	"after",
	"next",
	"also",
	"and then",
	"followed by",
	"create and",
	"build and",
	"setup and",
	"install and",
}

// fileOpKeywords are verbs that indicate filesystem manipulation.
var fileOpKeywords = []string{
	"create",
	"modify",
	"delete",
	"move",
	"copy",
}

// manyFilesThreshold is the context file count above which the workspace
// itself adds complexity.
const manyFilesThreshold = 10

// ContextInfo carries the situational facts that scoring considers beyond
// the instruction text itself.
type ContextInfo struct {
	// FileCount is the number of files known in the caller's context.
	FileCount int
}

// Result is the outcome of a complexity analysis: the additive score, the
// level it maps onto, and the names of the rules that contributed.
type Result struct {
	Score   int      `json:"score"`
	Level   Level    `json:"level"`
	Factors []string `json:"factors"`
}

// Analyzer scores instruction text and context into a complexity Result.
// It is stateless and safe for concurrent use.
type Analyzer struct{}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze computes the additive complexity score for the given input.
//
// Scoring rules, each independent:
//   - input length: >500 chars adds 2 (long_input), >200 adds 1 (medium_input)
//   - multi-step indicator phrases: more than two distinct phrases adds 3
//     (complex_multi_step), at least one adds 1 (multi_step)
//   - file-operation keywords: more than three distinct keywords adds 2
//     (complex_file_ops), more than one adds 1 (multiple_file_ops)
//   - context carrying more than ten files adds 1 (many_files)
//
// Pure function: no side effects and no failure modes. Empty input scores
// zero and maps to LevelLow.
func (a *Analyzer) Analyze(input string, info ContextInfo) Result {
	result := Result{Factors: []string{}}
	lowered := strings.ToLower(input)

	switch {
	case len(input) > 500:
		result.Score += 2
		result.Factors = append(result.Factors, FactorLongInput)
	case len(input) > 200:
		result.Score++
		result.Factors = append(result.Factors, FactorMediumInput)
	}

	steps := countPresent(lowered, multiStepIndicators)
	switch {
	case steps > 2:
		result.Score += 3
		result.Factors = append(result.Factors, FactorComplexSteps)
	case steps > 0:
		result.Score++
		result.Factors = append(result.Factors, FactorMultiStep)
	}

	fileOps := countPresent(lowered, fileOpKeywords)
	switch {
	case fileOps > 3:
		result.Score += 2
		result.Factors = append(result.Factors, FactorComplexFileOps)
	case fileOps > 1:
		result.Score++
		result.Factors = append(result.Factors, FactorMultipleFileOps)
	}

	if info.FileCount > manyFilesThreshold {
		result.Score++
		result.Factors = append(result.Factors, FactorManyFiles)
	}

	result.Level = levelFor(result.Score)
	return result
}

// countPresent counts how many of the given phrases appear in text.
func countPresent(text string, phrases []string) int {
	count := 0
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			count++
		}
	}
	return count
}

// levelFor maps an additive score onto a Level.
func levelFor(score int) Level {
	switch {
	case score >= 6:
		return LevelVeryHigh
	case score >= 4:
		return LevelHigh
	case score >= 2:
		return LevelMedium
	default:
		return LevelLow
	}
}
