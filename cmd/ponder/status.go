package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display the effective planner configuration",
	Long: `Display the configuration a run would use: the effort level and
its iteration bound, thinking-time ceiling, and phase toggles,
after applying the config file.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadEffectiveConfig()
	if err != nil {
		return err
	}

	if jsonFlag {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(cfg)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Ponder configuration"))
	row2 := func(label, value string) {
		fmt.Fprintln(out, labelStyle.Render(label)+" "+value)
	}
	row2("Effort", string(cfg.Effort))
	row2("Iterations", fmt.Sprintf("%d", cfg.MaxIterations))
	row2("Depth", fmt.Sprintf("%d", cfg.PlanningDepth))
	row2("Reflection", onOff(cfg.EnableReflection))
	row2("Planning", onOff(cfg.EnablePlanning))
	row2("Thinking", cfg.ThinkingTimeCeiling.String())
	return nil
}

func onOff(enabled bool) string {
	if enabled {
		return okStyle.Render("enabled")
	}
	return "disabled"
}
