package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/ponder-agent/ponder/internal/types"
)

// fileConfig mirrors the YAML config file shape. Every field is optional;
// unset fields fall back to the effort profile.
type fileConfig struct {
	Effort           string `mapstructure:"effort"`
	MaxIterations    int    `mapstructure:"max_iterations"`
	EnableReflection *bool  `mapstructure:"enable_reflection"`
	EnablePlanning   *bool  `mapstructure:"enable_planning"`
	ThinkingTimeMs   int    `mapstructure:"thinking_time_ms"`
}

// Load reads a planner configuration from a YAML file. Fields not present
// in the file keep the values of the effort profile named by the file (or
// the default profile when no effort is named).
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to read config file", err)
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return Config{}, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to unmarshal config", err)
	}

	cfg := Default()
	if fc.Effort != "" {
		loaded, err := ForEffort(Effort(fc.Effort))
		if err != nil {
			return Config{}, types.WrapError(types.CONFIG_VALIDATION_FAILED,
				fmt.Sprintf("config file names unknown effort %q", fc.Effort), err)
		}
		cfg = loaded
	}

	if fc.MaxIterations > 0 {
		cfg.MaxIterations = fc.MaxIterations
	}
	if fc.EnableReflection != nil {
		cfg.EnableReflection = *fc.EnableReflection
	}
	if fc.EnablePlanning != nil {
		cfg.EnablePlanning = *fc.EnablePlanning
	}
	if fc.ThinkingTimeMs > 0 {
		cfg.ThinkingTimeCeiling = time.Duration(fc.ThinkingTimeMs) * time.Millisecond
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, types.WrapError(types.CONFIG_VALIDATION_FAILED, "configuration validation failed", err)
	}

	return cfg, nil
}
