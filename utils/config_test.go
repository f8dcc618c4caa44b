package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sheikhrachel/go-gol3d/rules"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate())

	rt, err := config.RuleTable()
	require.NoError(t, err)
	assert.Equal(t, rules.Default(), rt)

	lo, hi := config.SeedRegion()
	assert.Equal(t, 16, lo)
	assert.Equal(t, 33, hi)
	assert.Equal(t, 25, config.Layer())
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"grid_size": 20,
		"max_health": 3,
		"rule": "S4-5/B5",
		"frame_rate": 50000000,
		"use_bounded_grid": true
	}`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 20, config.GridSize)
	assert.Equal(t, 3, config.MaxHealth)
	assert.Equal(t, "S4-5/B5", config.Rule)
	assert.Equal(t, 50*time.Millisecond, config.FrameRate.Std())
	assert.True(t, config.UseBoundedGrid)
	assert.Equal(t, 0.85, config.AliveProbability, "unset fields keep defaults")
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
grid_size: 30
max_health: 5
alive_probability: 0.5
seed_region_low: 5
seed_region_high: 20
seed: 1234
frame_rate: 20ms
telemetry_path: out/telemetry.csv
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30, config.GridSize)
	assert.Equal(t, 0.5, config.AliveProbability)
	assert.Equal(t, int64(1234), config.Seed)
	assert.Equal(t, 20*time.Millisecond, config.FrameRate.Std())
	assert.Equal(t, "out/telemetry.csv", config.TelemetryPath)

	lo, hi := config.SeedRegion()
	assert.Equal(t, 5, lo)
	assert.Equal(t, 20, hi)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "broken.json", "{"))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "invalid.yml", "grid_size: -1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, rules.ErrConfiguration))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero grid", func(c *Config) { c.GridSize = 0 }},
		{"negative max health", func(c *Config) { c.MaxHealth = -2 }},
		{"probability below zero", func(c *Config) { c.AliveProbability = -0.1 }},
		{"probability above one", func(c *Config) { c.AliveProbability = 1.1 }},
		{"malformed rule", func(c *Config) { c.Rule = "S2" }},
		{"seed region outside grid", func(c *Config) { c.SeedRegionLow, c.SeedRegionHigh = 10, 50 }},
		{"inverted seed region", func(c *Config) { c.SeedRegionLow, c.SeedRegionHigh = 20, 10 }},
		{"render layer outside grid", func(c *Config) { c.RenderLayer = 50 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			err := config.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, rules.ErrConfiguration))
		})
	}
}

func TestSmallGridDefaults(t *testing.T) {
	config := DefaultConfig()
	config.GridSize = 1
	require.NoError(t, config.Validate())

	lo, hi := config.SeedRegion()
	assert.Equal(t, 0, lo)
	assert.Equal(t, 0, hi)
	assert.Equal(t, 0, config.Layer())
}

func TestFrameRateFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    time.Duration
	}{
		{"json string", "config.json", `{"frame_rate": "75ms"}`, 75 * time.Millisecond},
		{"json nanoseconds", "config.json", `{"frame_rate": 75000000}`, 75 * time.Millisecond},
		{"yaml string", "config.yaml", "frame_rate: 1.5s\n", 1500 * time.Millisecond},
		{"yaml nanoseconds", "config.yaml", "frame_rate: 75000000\n", 75 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, config.FrameRate.Std())
		})
	}
}

func TestFrameRateRejectsGarbage(t *testing.T) {
	_, err := LoadConfig(writeFile(t, "config.json", `{"frame_rate": "fast"}`))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "config.json", `{"frame_rate": true}`))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "config.yaml", "frame_rate: soon\n"))
	assert.Error(t, err)
}

func TestFrameRateMarshalsAsString(t *testing.T) {
	data, err := json.Marshal(DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"frame_rate":"100ms"`)

	out, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, string(out), "frame_rate: 100ms")
}
