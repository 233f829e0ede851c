// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Flock     FlockConfig     `yaml:"flock"`
	Grid      GridConfig      `yaml:"grid"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the simulation bounds, centered on the origin.
// Agents roam [-x_bound, x_bound] x [-y_bound, y_bound]; edge_margin shrinks
// the usable area inside those bounds (soft steering starts at the shrunk edge).
type WorldConfig struct {
	XBound     float64 `yaml:"x_bound"`
	YBound     float64 `yaml:"y_bound"`
	EdgeMargin float64 `yaml:"edge_margin"`
}

// FlockConfig holds the flocking behavior parameters.
type FlockConfig struct {
	Population       int     `yaml:"population"`
	MaxSpeed         float64 `yaml:"max_speed"`
	MinSpeedRatio    float64 `yaml:"min_speed_ratio"` // min speed = max_speed * this
	VisualRange      float64 `yaml:"visual_range"`    // neighbor radius; also the grid cell size
	MinDistance      float64 `yaml:"min_distance"`    // separation repulsion threshold
	CohesionFactor   float64 `yaml:"cohesion_factor"`
	SeparationFactor float64 `yaml:"separation_factor"`
	AlignmentFactor  float64 `yaml:"alignment_factor"`
	TurnSpeed        float64 `yaml:"turn_speed"` // boundary steering acceleration
}

// GridConfig holds spatial index parameters.
type GridConfig struct {
	// MarginCells pads the grid beyond the bounds on every side. The neighbor
	// query's offset window requires at least 2; extra cells absorb agents
	// that transiently overshoot the soft boundary.
	MarginCells int `yaml:"margin_cells"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MaxSpeed32    float32
	MinSpeed32    float32 // MaxSpeed * MinSpeedRatio
	TurnSpeed32   float32
	VisualRangeSq float32
	MinDistanceSq float32
	Cohesion32    float32
	Separation32  float32
	Alignment32   float32

	// Effective bounds after shrinking by edge_margin.
	XBound32 float32
	YBound32 float32

	// Spatial grid geometry. CellSize is the visual range; DimX/DimY include
	// margin cells on both sides and are even so the grid is origin-centered.
	CellSize32 float32
	DimX       int
	DimY       int
	TotalCells int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Finalize validates the configuration and recomputes derived values. It must
// be called again after mutating a loaded config before handing it to the
// simulation.
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Validate checks the configuration invariants the simulation depends on.
// Any violation here is fatal: the simulation must not start with a grid
// whose cell ids could leave [0, totalCells).
func (c *Config) Validate() error {
	switch {
	case c.Flock.Population <= 0:
		return fmt.Errorf("config: population must be positive, got %d", c.Flock.Population)
	case c.Flock.MaxSpeed <= 0:
		return fmt.Errorf("config: max_speed must be positive, got %g", c.Flock.MaxSpeed)
	case c.Flock.MinSpeedRatio < 0 || c.Flock.MinSpeedRatio > 1:
		return fmt.Errorf("config: min_speed_ratio must be in [0, 1], got %g", c.Flock.MinSpeedRatio)
	case c.Flock.VisualRange <= 0:
		return fmt.Errorf("config: visual_range must be positive, got %g", c.Flock.VisualRange)
	case c.Flock.MinDistance <= 0 || c.Flock.MinDistance > c.Flock.VisualRange:
		return fmt.Errorf("config: min_distance must be in (0, visual_range], got %g", c.Flock.MinDistance)
	case c.Flock.TurnSpeed <= 0:
		// Without boundary steering nothing bounds the flock and agents
		// eventually escape the padded grid.
		return fmt.Errorf("config: turn_speed must be positive, got %g", c.Flock.TurnSpeed)
	case c.World.XBound <= 0 || c.World.YBound <= 0:
		return fmt.Errorf("config: bounds must be positive, got (%g, %g)", c.World.XBound, c.World.YBound)
	case c.World.EdgeMargin < 0 || c.World.EdgeMargin >= math.Min(c.World.XBound, c.World.YBound):
		return fmt.Errorf("config: edge_margin must be in [0, min bound), got %g", c.World.EdgeMargin)
	case c.Grid.MarginCells < 2:
		// The row-band neighbor window reads offsets[y-2] and offsets[y+1];
		// fewer than 2 margin cells lets it cross a row boundary.
		return fmt.Errorf("config: margin_cells must be at least 2, got %d", c.Grid.MarginCells)
	}

	// Soft steering lets an agent overshoot the effective bound by up to
	// max_speed^2 / (2*turn_speed) before it reverses (the minimum-speed
	// clamp is suspended outside the bounds, so steering is the only force
	// on the offending axis). The padded grid must cover that reach with two
	// full cells to spare so the neighbor query's row window never leaves
	// the grid; catch it here instead of some tick later.
	overshoot := c.Flock.MaxSpeed * c.Flock.MaxSpeed / (2 * c.Flock.TurnSpeed)
	cs := c.Flock.VisualRange
	halfX := (math.Ceil(c.World.XBound/cs) + float64(c.Grid.MarginCells)) * cs
	halfY := (math.Ceil(c.World.YBound/cs) + float64(c.Grid.MarginCells)) * cs
	reachX := c.World.XBound - c.World.EdgeMargin + overshoot
	reachY := c.World.YBound - c.World.EdgeMargin + overshoot
	if reachX > halfX-2*cs || reachY > halfY-2*cs {
		return fmt.Errorf("config: margin_cells %d cannot absorb boundary overshoot %g; raise margin_cells or turn_speed, or lower max_speed",
			c.Grid.MarginCells, overshoot)
	}

	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	d := &c.Derived

	d.MaxSpeed32 = float32(c.Flock.MaxSpeed)
	d.MinSpeed32 = float32(c.Flock.MaxSpeed * c.Flock.MinSpeedRatio)
	d.TurnSpeed32 = float32(c.Flock.TurnSpeed)
	d.VisualRangeSq = float32(c.Flock.VisualRange * c.Flock.VisualRange)
	d.MinDistanceSq = float32(c.Flock.MinDistance * c.Flock.MinDistance)
	d.Cohesion32 = float32(c.Flock.CohesionFactor)
	d.Separation32 = float32(c.Flock.SeparationFactor)
	d.Alignment32 = float32(c.Flock.AlignmentFactor)

	d.XBound32 = float32(c.World.XBound - c.World.EdgeMargin)
	d.YBound32 = float32(c.World.YBound - c.World.EdgeMargin)

	d.CellSize32 = float32(c.Flock.VisualRange)
	d.DimX = 2 * (int(math.Ceil(c.World.XBound/c.Flock.VisualRange)) + c.Grid.MarginCells)
	d.DimY = 2 * (int(math.Ceil(c.World.YBound/c.Flock.VisualRange)) + c.Grid.MarginCells)
	d.TotalCells = d.DimX * d.DimY
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
