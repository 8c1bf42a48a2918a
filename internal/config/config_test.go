package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffortTable(t *testing.T) {
	tests := []struct {
		effort        Effort
		maxIterations int
		depth         int
		reflection    bool
		ceiling       time.Duration
	}{
		{EffortLow, 3, 1, false, time.Second},
		{EffortMedium, 7, 2, true, 3 * time.Second},
		{EffortHigh, 12, 3, true, 5 * time.Second},
		{EffortMaximum, 20, 4, true, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(string(tt.effort), func(t *testing.T) {
			p, ok := ProfileFor(tt.effort)
			require.True(t, ok)
			assert.Equal(t, tt.maxIterations, p.MaxIterations)
			assert.Equal(t, tt.depth, p.PlanningDepth)
			assert.Equal(t, tt.reflection, p.ReflectionEnabled)
			assert.Equal(t, tt.ceiling, p.ThinkingTimeCeiling)
		})
	}
}

func TestProfileForUnknown(t *testing.T) {
	_, ok := ProfileFor("heroic")
	assert.False(t, ok)
}

func TestDefaultIsMedium(t *testing.T) {
	cfg := Default()
	assert.Equal(t, EffortMedium, cfg.Effort)
	assert.Equal(t, 7, cfg.MaxIterations)
	assert.True(t, cfg.EnableReflection)
	assert.True(t, cfg.EnablePlanning)
}

func TestApplyPartial(t *testing.T) {
	cfg := Default()

	iterations := 2
	reflection := false
	updated := cfg.Apply(Partial{
		MaxIterations:    &iterations,
		EnableReflection: &reflection,
	})

	assert.Equal(t, 2, updated.MaxIterations)
	assert.False(t, updated.EnableReflection)
	// Untouched fields survive
	assert.Equal(t, EffortMedium, updated.Effort)
	assert.True(t, updated.EnablePlanning)

	// The original is unchanged
	assert.Equal(t, 7, cfg.MaxIterations)
}

func TestApplyEffortSwitch(t *testing.T) {
	cfg := Default()
	planning := false
	cfg = cfg.Apply(Partial{EnablePlanning: &planning})

	effort := "high"
	updated := cfg.Apply(Partial{Effort: &effort})

	assert.Equal(t, EffortHigh, updated.Effort)
	assert.Equal(t, 12, updated.MaxIterations)
	// The planning toggle survives an effort switch
	assert.False(t, updated.EnablePlanning)
}

func TestApplyUnknownEffortIgnored(t *testing.T) {
	cfg := Default()

	effort := "heroic"
	updated := cfg.Apply(Partial{Effort: &effort})

	assert.Equal(t, cfg, updated)
}

func TestApplyNonPositiveIterationsIgnored(t *testing.T) {
	cfg := Default()

	iterations := 0
	updated := cfg.Apply(Partial{MaxIterations: &iterations})
	assert.Equal(t, 7, updated.MaxIterations)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.MaxIterations = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Effort = "heroic"
	assert.Error(t, bad.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ponder.yaml")
	content := []byte("effort: high\nmax_iterations: 9\nenable_planning: false\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, EffortHigh, cfg.Effort)
	assert.Equal(t, 9, cfg.MaxIterations)
	assert.False(t, cfg.EnablePlanning)
	// Reflection comes from the high profile
	assert.True(t, cfg.EnableReflection)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadUnknownEffort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ponder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("effort: heroic\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfigYAML(t *testing.T) {
	data, err := Default().YAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "effort: medium")
}
