package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ponder-agent/ponder/internal/archive"
	"github.com/ponder-agent/ponder/internal/config"
	"github.com/ponder-agent/ponder/internal/observability"
	"github.com/ponder-agent/ponder/internal/orchestrator"
	"github.com/ponder-agent/ponder/internal/session"
)

var (
	runEffort        string
	runMaxIterations int
	runNoReflection  bool
	runNoPlanning    bool
	runSave          bool
	runDBPath        string
)

var runCmd = &cobra.Command{
	Use:   "run [task description]",
	Short: "Plan and queue actions for a task",
	Long: `Run the full processing cycle for a task description: analyze
complexity, generate a plan, validate and queue actions, and
reflect on the outcome. The result is printed as a summary or,
with --json, as the complete result document.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runEffort, "effort", "", "Effort level: low, medium, high, maximum")
	runCmd.Flags().IntVar(&runMaxIterations, "max-iterations", 0, "Override the iteration bound")
	runCmd.Flags().BoolVar(&runNoReflection, "no-reflection", false, "Disable the reflection phase")
	runCmd.Flags().BoolVar(&runNoPlanning, "no-planning", false, "Skip planning and queue direct actions")
	runCmd.Flags().BoolVar(&runSave, "save", false, "Save the result to the archive")
	runCmd.Flags().StringVar(&runDBPath, "db", "", "Archive database path (default $PONDER_HOME/ponder.db)")
}

func runRun(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")

	cfg, err := loadEffectiveConfig()
	if err != nil {
		return err
	}

	tp, err := observability.InitTracing(cmd.Context(), observability.TracingConfig{
		Enabled: verboseFlag,
	})
	if err != nil {
		return err
	}
	defer observability.Shutdown(cmd.Context(), tp)

	o := orchestrator.New(
		orchestrator.WithConfig(cfg),
		orchestrator.WithLogger(newLogger()),
		orchestrator.WithTracer(tp.Tracer("ponder")),
	)

	result, err := o.Process(cmd.Context(), orchestrator.Request{
		Input:  input,
		Config: runOverrides(cmd),
	})
	if err != nil {
		return err
	}

	if runSave {
		if err := saveResult(cmd, result); err != nil {
			return err
		}
	}

	if jsonFlag {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderResult(result))
	return nil
}

// runOverrides translates run flags into a per-request config override.
// Returns nil when no flag was set.
func runOverrides(cmd *cobra.Command) *config.Partial {
	var p config.Partial
	set := false

	if cmd.Flags().Changed("effort") {
		p.Effort = &runEffort
		set = true
	}
	if cmd.Flags().Changed("max-iterations") {
		p.MaxIterations = &runMaxIterations
		set = true
	}
	if runNoReflection {
		disabled := false
		p.EnableReflection = &disabled
		set = true
	}
	if runNoPlanning {
		disabled := false
		p.EnablePlanning = &disabled
		set = true
	}

	if !set {
		return nil
	}
	return &p
}

func saveResult(cmd *cobra.Command, result *orchestrator.Result) error {
	path := runDBPath
	if path == "" {
		path = defaultDBPath()
	}
	if err := os.MkdirAll(homeDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create ponder home: %w", err)
	}

	store, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(cmd.Context(), result); err != nil {
		return err
	}

	if !jsonFlag {
		fmt.Fprintf(cmd.OutOrStdout(), "Saved result %s to %s\n", result.ID, path)
	}
	return nil
}

// newLogger builds the process logger. Verbose mode lowers the level to
// debug; otherwise only warnings and errors reach stderr so the rendered
// result stays readable.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verboseFlag {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// exitStatusSuffix marks degraded terminal states in the summary line.
func exitStatusSuffix(status session.Status) string {
	switch status {
	case session.StatusCompletedWithErrors:
		return " (with errors)"
	case session.StatusFailed:
		return " (failed)"
	default:
		return ""
	}
}
