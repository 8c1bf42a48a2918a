package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ponder-agent/ponder/internal/orchestrator"
	"github.com/ponder-agent/ponder/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB000")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(12)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00CC66"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 2)
)

// renderResult formats a result for terminal output.
func renderResult(result *orchestrator.Result) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Ponder"))
	b.WriteString("\n")

	statusStyle := okStyle
	if result.Status != session.StatusCompleted {
		statusStyle = errorStyle
	}

	row(&b, "Task", result.Input)
	row(&b, "Status", statusStyle.Render(string(result.Status)+exitStatusSuffix(result.Status)))
	row(&b, "Effort", string(result.Effort))
	if result.Complexity != nil {
		row(&b, "Complexity", fmt.Sprintf("%s (score %d)", result.Complexity.Level, result.Complexity.Score))
	}
	if result.Plan != nil {
		row(&b, "Strategy", string(result.Plan.Strategy))
	}
	row(&b, "Confidence", fmt.Sprintf("%.2f", result.Confidence))
	row(&b, "Tokens", fmt.Sprintf("%d", result.TokensUsed))
	row(&b, "Iterations", fmt.Sprintf("%d", result.Iterations))
	row(&b, "Duration", result.Duration.Round(0).String())

	if len(result.Actions) > 0 {
		b.WriteString(sectionStyle.Render("Actions"))
		b.WriteString("\n")
		for i, action := range result.Actions {
			line := fmt.Sprintf("%d. %s", i+1, action.Type)
			if len(action.Parameters) > 0 {
				line += " " + strings.Join(action.Parameters, " ")
			}
			if action.Source == "reflection" {
				line += " (from reflection)"
			}
			b.WriteString("  " + line + "\n")
		}
	}

	if len(result.Errors) > 0 {
		b.WriteString(sectionStyle.Render(errorStyle.Render("Rejected")))
		b.WriteString("\n")
		for _, record := range result.Errors {
			b.WriteString("  " + record.ActionType + ": " + strings.Join(record.Errors, "; ") + "\n")
		}
	}

	if len(result.Reflections) > 0 {
		b.WriteString(sectionStyle.Render("Reflections"))
		b.WriteString("\n")
		for _, reflection := range result.Reflections {
			for _, observation := range reflection.Observations {
				b.WriteString("  - " + observation + "\n")
			}
		}
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label) + " " + value + "\n")
}
