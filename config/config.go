// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Gradient modes accepted by fluid.gradient.
const (
	GradientReference = "reference"
	GradientAnalytic  = "analytic"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Seed      SeedConfig      `yaml:"seed"`
	Parallel  ParallelConfig  `yaml:"parallel"`
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

// FluidConfig holds the particle count and the physical constants of the fluid.
// Mass, radius and the rest are global scalars shared by every particle.
type FluidConfig struct {
	ParticleCount   int     `yaml:"particle_count"`
	Mass            float64 `yaml:"mass"`
	SmoothingRadius float64 `yaml:"smoothing_radius"` // h; pairs beyond 2h do not interact
	Stiffness       float64 `yaml:"stiffness"`        // k in pressure = max(k*density, 0)
	Gravity         float64 `yaml:"gravity"`          // magnitude, acts in -y
	TimeStep        float64 `yaml:"time_step"`
	Restitution     float64 `yaml:"restitution"`   // velocity fraction kept after a wall hit
	Gradient        string  `yaml:"gradient"`      // "reference" or "analytic"
	NeighborGrid    bool    `yaml:"neighbor_grid"` // bucket pairs by cell instead of visiting all
}

// SeedConfig describes the sub-region particles are scattered into at startup.
type SeedConfig struct {
	XMin  float64 `yaml:"x_min"`
	XSpan float64 `yaml:"x_span"`
	YMin  float64 `yaml:"y_min"`
	YSpan float64 `yaml:"y_span"`
}

// ParallelConfig holds worker pool parameters.
type ParallelConfig struct {
	Workers   int `yaml:"workers"`   // 0 = GOMAXPROCS
	Threshold int `yaml:"threshold"` // below this particle count, passes run on the caller
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // frames per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	RenderRadius float64 // Fluid.SmoothingRadius / 2
	Workers      int     // Parallel.Workers resolved against GOMAXPROCS
	ScreenW32    float32
	ScreenH32    float32
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

// Default returns the embedded defaults. It panics if the embedded file is broken.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	f := c.Fluid
	switch {
	case f.ParticleCount <= 0:
		return fmt.Errorf("%w: fluid.particle_count must be positive, got %d", ErrInvalid, f.ParticleCount)
	case f.SmoothingRadius <= 0:
		return fmt.Errorf("%w: fluid.smoothing_radius must be positive, got %g", ErrInvalid, f.SmoothingRadius)
	case f.Mass <= 0:
		return fmt.Errorf("%w: fluid.mass must be positive, got %g", ErrInvalid, f.Mass)
	case f.TimeStep <= 0:
		return fmt.Errorf("%w: fluid.time_step must be positive, got %g", ErrInvalid, f.TimeStep)
	case f.Restitution < 0:
		return fmt.Errorf("%w: fluid.restitution must not be negative, got %g", ErrInvalid, f.Restitution)
	}
	if f.Gradient != GradientReference && f.Gradient != GradientAnalytic {
		return fmt.Errorf("%w: fluid.gradient must be %q or %q, got %q",
			ErrInvalid, GradientReference, GradientAnalytic, f.Gradient)
	}
	if c.Seed.XSpan < 0 || c.Seed.YSpan < 0 {
		return fmt.Errorf("%w: seed spans must not be negative", ErrInvalid)
	}
	if c.Parallel.Workers < 0 {
		return fmt.Errorf("%w: parallel.workers must not be negative, got %d", ErrInvalid, c.Parallel.Workers)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.RenderRadius = c.Fluid.SmoothingRadius / 2
	c.Derived.Workers = c.Parallel.Workers
	if c.Derived.Workers == 0 {
		c.Derived.Workers = runtime.GOMAXPROCS(0)
	}
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
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
