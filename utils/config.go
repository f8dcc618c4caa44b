package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sheikhrachel/go-gol3d/rules"
)

// Config holds the configuration for the simulation and its terminal driver
type Config struct {
	GridSize            int      `json:"grid_size" yaml:"grid_size"`
	MaxHealth           int      `json:"max_health" yaml:"max_health"`
	Rule                string   `json:"rule" yaml:"rule"`
	AliveProbability    float64  `json:"alive_probability" yaml:"alive_probability"`
	SeedRegionLow       int      `json:"seed_region_low" yaml:"seed_region_low"`
	SeedRegionHigh      int      `json:"seed_region_high" yaml:"seed_region_high"`
	Seed                int64    `json:"seed" yaml:"seed"`
	FrameRate           Duration `json:"frame_rate" yaml:"frame_rate"`
	MaxGenerations      int      `json:"max_generations" yaml:"max_generations"`
	AutoRestart         bool     `json:"auto_restart" yaml:"auto_restart"`
	StagnationThreshold int      `json:"stagnation_threshold" yaml:"stagnation_threshold"`
	InjectionCount      int      `json:"injection_count" yaml:"injection_count"`
	UseParallel         bool     `json:"use_parallel" yaml:"use_parallel"`
	UseBoundedGrid      bool     `json:"use_bounded_grid" yaml:"use_bounded_grid"`
	UseMemoryPool       bool     `json:"use_memory_pool" yaml:"use_memory_pool"`
	RenderLayer         int      `json:"render_layer" yaml:"render_layer"`
	TelemetryPath       string   `json:"telemetry_path" yaml:"telemetry_path"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		GridSize:            50,
		MaxHealth:           10,
		Rule:                rules.Default().String(),
		AliveProbability:    0.85,
		FrameRate:           Duration(100 * time.Millisecond),
		MaxGenerations:      1000,
		AutoRestart:         true,
		StagnationThreshold: 5,
		InjectionCount:      20,
		UseParallel:         true,
		UseBoundedGrid:      false,
		UseMemoryPool:       true,
		RenderLayer:         -1, // middle layer
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] invalid config in file: %+v", filename)
	}

	return config, nil
}

// Validate rejects configurations the simulation cannot be built from
func (c Config) Validate() error {
	if c.GridSize <= 0 {
		return errors.Wrapf(rules.ErrConfiguration, "[Validate] grid_size must be positive, got %d", c.GridSize)
	}
	if c.MaxHealth < 0 {
		return errors.Wrapf(rules.ErrConfiguration, "[Validate] max_health must not be negative, got %d", c.MaxHealth)
	}
	if c.AliveProbability < 0 || c.AliveProbability > 1 {
		return errors.Wrapf(rules.ErrConfiguration, "[Validate] alive_probability must be in [0,1], got %v", c.AliveProbability)
	}
	if _, err := rules.Parse(c.Rule); err != nil {
		return errors.Wrap(err, "[Validate] rule")
	}

	lo, hi := c.SeedRegion()
	if lo < 0 || hi >= c.GridSize || lo > hi {
		return errors.Wrapf(rules.ErrConfiguration, "[Validate] seed region [%d,%d] does not fit grid of size %d", lo, hi, c.GridSize)
	}
	if c.RenderLayer >= c.GridSize {
		return errors.Wrapf(rules.ErrConfiguration, "[Validate] render_layer %d outside grid of size %d", c.RenderLayer, c.GridSize)
	}

	return nil
}

// RuleTable parses the configured rule
func (c Config) RuleTable() (rules.RuleTable, error) {
	return rules.Parse(c.Rule)
}

// SeedRegion returns the inclusive per-axis bounds of the seeded cube. Both
// bounds left at zero select the central third of the grid.
func (c Config) SeedRegion() (lo, hi int) {
	if c.SeedRegionLow == 0 && c.SeedRegionHigh == 0 {
		return c.GridSize / 3, c.GridSize * 2 / 3
	}
	return c.SeedRegionLow, c.SeedRegionHigh
}

// Layer returns the z-layer drawn by the terminal renderer
func (c Config) Layer() int {
	if c.RenderLayer < 0 {
		return c.GridSize / 2
	}
	return c.RenderLayer
}
