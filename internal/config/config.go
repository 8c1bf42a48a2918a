// Package config defines the effort-level configuration table and the
// runtime planner configuration derived from it. The table is immutable;
// the active configuration is replaced wholesale on update with
// last-write-wins semantics.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Effort is a named configuration bundle controlling iteration bounds,
// reflection behavior, and pacing.
type Effort string

const (
	EffortLow     Effort = "low"
	EffortMedium  Effort = "medium"
	EffortHigh    Effort = "high"
	EffortMaximum Effort = "maximum"
)

// String returns the string representation of the effort level.
func (e Effort) String() string {
	return string(e)
}

// Profile is one row of the effort table.
type Profile struct {
	MaxIterations       int           `json:"max_iterations" yaml:"max_iterations"`
	PlanningDepth       int           `json:"planning_depth" yaml:"planning_depth"`
	ReflectionEnabled   bool          `json:"reflection_enabled" yaml:"reflection_enabled"`
	ThinkingTimeCeiling time.Duration `json:"thinking_time_ceiling" yaml:"thinking_time_ceiling"`
}

// effortTable is the fixed effort configuration table.
var effortTable = map[Effort]Profile{
	EffortLow: {
		MaxIterations:       3,
		PlanningDepth:       1,
		ReflectionEnabled:   false,
		ThinkingTimeCeiling: 1000 * time.Millisecond,
	},
	EffortMedium: {
		MaxIterations:       7,
		PlanningDepth:       2,
		ReflectionEnabled:   true,
		ThinkingTimeCeiling: 3000 * time.Millisecond,
	},
	EffortHigh: {
		MaxIterations:       12,
		PlanningDepth:       3,
		ReflectionEnabled:   true,
		ThinkingTimeCeiling: 5000 * time.Millisecond,
	},
	EffortMaximum: {
		MaxIterations:       20,
		PlanningDepth:       4,
		ReflectionEnabled:   true,
		ThinkingTimeCeiling: 10000 * time.Millisecond,
	},
}

// ProfileFor looks up the effort table row for the named level.
func ProfileFor(effort Effort) (Profile, bool) {
	p, ok := effortTable[effort]
	return p, ok
}

// Config is the active planner configuration. A Config is a value: handing
// one to a session gives that session an immutable snapshot.
type Config struct {
	Effort              Effort        `json:"effort" yaml:"effort"`
	MaxIterations       int           `json:"max_iterations" yaml:"max_iterations"`
	PlanningDepth       int           `json:"planning_depth" yaml:"planning_depth"`
	EnableReflection    bool          `json:"enable_reflection" yaml:"enable_reflection"`
	EnablePlanning      bool          `json:"enable_planning" yaml:"enable_planning"`
	ThinkingTimeCeiling time.Duration `json:"thinking_time_ceiling" yaml:"thinking_time_ceiling"`
}

// ForEffort builds a Config from the effort table row for the named level.
// Planning is enabled at every effort level; reflection follows the table.
func ForEffort(effort Effort) (Config, error) {
	profile, ok := ProfileFor(effort)
	if !ok {
		return Config{}, fmt.Errorf("unknown effort level: %s", effort)
	}
	return Config{
		Effort:              effort,
		MaxIterations:       profile.MaxIterations,
		PlanningDepth:       profile.PlanningDepth,
		EnableReflection:    profile.ReflectionEnabled,
		EnablePlanning:      true,
		ThinkingTimeCeiling: profile.ThinkingTimeCeiling,
	}, nil
}

// Default returns the medium-effort configuration.
func Default() Config {
	cfg, _ := ForEffort(EffortMedium)
	return cfg
}

// Partial is a runtime reconfiguration request. Only non-nil fields are
// applied; everything else is ignored.
type Partial struct {
	Effort           *string `json:"effort,omitempty"`
	MaxIterations    *int    `json:"max_iterations,omitempty"`
	EnableReflection *bool   `json:"enable_reflection,omitempty"`
	EnablePlanning   *bool   `json:"enable_planning,omitempty"`
}

// Apply merges a partial update into the configuration and returns the
// result. Switching effort resets the table-derived fields before the
// explicit overrides apply. Unknown effort names are ignored silently.
func (c Config) Apply(p Partial) Config {
	out := c

	if p.Effort != nil {
		if next, err := ForEffort(Effort(*p.Effort)); err == nil {
			// Preserve the planning toggle across effort switches
			next.EnablePlanning = out.EnablePlanning
			out = next
		}
	}
	if p.MaxIterations != nil && *p.MaxIterations > 0 {
		out.MaxIterations = *p.MaxIterations
	}
	if p.EnableReflection != nil {
		out.EnableReflection = *p.EnableReflection
	}
	if p.EnablePlanning != nil {
		out.EnablePlanning = *p.EnablePlanning
	}

	return out
}

// Validate checks the configuration for structural soundness.
func (c Config) Validate() error {
	if _, ok := ProfileFor(c.Effort); !ok {
		return fmt.Errorf("unknown effort level: %s", c.Effort)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive, got %d", c.MaxIterations)
	}
	if c.ThinkingTimeCeiling < 0 {
		return fmt.Errorf("thinking time ceiling cannot be negative")
	}
	return nil
}

// YAML renders the configuration as a YAML document, used by the CLI for
// config snapshots.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
