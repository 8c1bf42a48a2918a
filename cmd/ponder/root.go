package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ponder-agent/ponder/internal/config"
	"github.com/ponder-agent/ponder/internal/types"
)

// Exit codes for the CLI.
const (
	exitSuccess     = 0
	exitError       = 1
	exitTimeout     = 3
	exitCancelled   = 4
	exitConfigError = 10
)

var (
	configFlag  string
	verboseFlag bool
	jsonFlag    bool
)

var rootCmd = &cobra.Command{
	Use:   "ponder",
	Short: "Ponder - bounded heuristic task planner",
	Long: `Ponder turns a natural-language task description into a bounded,
validated action plan. It scores the input's complexity, derives
planned actions from recognized task patterns, validates each one,
and reflects on the outcome to correct course, all within the
iteration and time bounds of the configured effort level.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (default $PONDER_HOME/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Output in JSON format")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(versionCmd)
}

// homeDir resolves the ponder home directory, preferring $PONDER_HOME.
func homeDir() string {
	if home := os.Getenv("PONDER_HOME"); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ponder"
	}
	return filepath.Join(home, ".ponder")
}

// defaultDBPath is where the archive database lives unless overridden.
func defaultDBPath() string {
	return filepath.Join(homeDir(), "ponder.db")
}

// loadEffectiveConfig resolves the base configuration: the file named by
// --config when given, the default config file when present, the default
// profile otherwise.
func loadEffectiveConfig() (config.Config, error) {
	path := configFlag
	if path == "" {
		path = filepath.Join(homeDir(), "config.yaml")
		if _, err := os.Stat(path); err != nil {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

// handleError maps an error to an exit code and prints it.
func handleError(cmd *cobra.Command, err error) int {
	if err == nil {
		return exitSuccess
	}

	if errors.Is(err, context.Canceled) {
		cmd.PrintErrln("Operation cancelled")
		return exitCancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		cmd.PrintErrln("Operation timed out")
		return exitTimeout
	}

	cmd.PrintErrf("Error: %v\n", err)

	switch types.CodeOf(err) {
	case types.CONFIG_LOAD_FAILED, types.CONFIG_PARSE_FAILED, types.CONFIG_VALIDATION_FAILED:
		return exitConfigError
	case types.PROCESS_CANCELLED, types.PLAN_CANCELLED:
		return exitCancelled
	default:
		return exitError
	}
}
