// Package game runs the fluid simulation loop and wires it to telemetry and
// presentation.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/sph/camera"
	"github.com/pthm-cable/sph/components"
	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/renderer"
	"github.com/pthm-cable/sph/systems"
	"github.com/pthm-cable/sph/telemetry"
	"github.com/pthm-cable/sph/ui"
)

// Max simulation steps per Update call in graphics mode.
const maxStepsPerUpdate = 64

// ErrParticleCountMismatch is returned when a snapshot holds a different
// number of particles than the configured fluid.
var ErrParticleCountMismatch = errors.New("snapshot particle count does not match config")

// Presenter receives the particle state after each presented frame.
// Slices are owned by the simulation and must not be retained.
type Presenter interface {
	Present(positions []mgl64.Vec2, radius float64, colors []mgl64.Vec3)
}

// Options configures game initialization.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64
	LogStats       bool   // log telemetry windows via slog
	SnapshotDir    string // directory for snapshots ("" = ./snapshots)
	OutputDir      string // directory for CSV logs ("" = disabled)
	ResumePath     string // snapshot to restore after seeding
	Headless       bool
	StepsPerUpdate int   // simulation frames per Update call
	MaxFrames      int32 // no Update call steps past this frame (0 = unlimited)
	Workers        int   // 0 = config
}

// Tuning holds the fluid constants that can change between frames.
type Tuning struct {
	Gravity     float64
	Stiffness   float64
	Restitution float64
}

// Game holds the complete simulation state.
type Game struct {
	cfg       *config.Config
	params    systems.Params
	particles *components.Particles
	rng       *rand.Rand
	seed      int64

	frame          int32
	maxFrames      int32
	paused         bool
	stepsPerUpdate int
	err            error

	parallel *parallelState

	// Telemetry
	perfCollector *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	lastStats     telemetry.WindowStats
	logStats      bool
	snapshotDir   string

	// Presentation (nil in headless mode)
	headless     bool
	presenter    Presenter
	camera       *camera.Camera
	hud          *ui.HUD
	perfPanel    *ui.PerfPanel
	controls     *ui.ControlsPanel
	showPerf     bool
	screenWidth  float32
	screenHeight float32
}

// NewGameWithOptions creates a game, seeds the particles and, if requested,
// restores a snapshot on top.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	workers := cfg.Derived.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}
	snapshotDir := opts.SnapshotDir
	if snapshotDir == "" {
		snapshotDir = "snapshots"
	}

	params, err := systems.NewParams(cfg.Fluid)
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:            cfg,
		params:         params,
		particles:      components.NewParticles(cfg.Fluid.ParticleCount),
		seed:           opts.Seed,
		stepsPerUpdate: steps,
		maxFrames:      max(opts.MaxFrames, 0),
		parallel:       newParallelState(workers, cfg.Parallel.Threshold),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:      telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Fluid.TimeStep),
		logStats:       opts.LogStats,
		snapshotDir:    snapshotDir,
		headless:       opts.Headless,
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
	}
	g.reseed()

	if opts.ResumePath != "" {
		if err := g.RestoreSnapshot(opts.ResumePath); err != nil {
			return nil, err
		}
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}
	if err := om.WriteManifest(g.seed, g.particles.Len()); err != nil {
		slog.Error("failed to write manifest", "error", err)
	}

	if !g.headless {
		g.camera = camera.New(g.screenWidth, g.screenHeight)
		g.presenter = renderer.NewParticleRenderer(g.camera)
		g.hud = ui.NewHUD()
		g.perfPanel = ui.NewPerfPanel(10, 170)
		g.controls = ui.NewControlsPanel(int32(g.screenWidth)-250, 10, 240)
	}

	slog.Info("fluid initialized",
		"particles", g.particles.Len(),
		"seed", g.seed,
		"workers", g.parallel.numWorkers,
		"gradient", g.params.Kernel.Mode.String(),
		"run_id", om.RunID(),
	)
	return g, nil
}

// reseed scatters the particles from a fresh generator so every reset of the
// same seed reproduces the same initial state.
func (g *Game) reseed() {
	g.rng = rand.New(rand.NewSource(g.seed))
	systems.Seed(g.particles, g.rng, g.cfg.Seed)
	g.frame = 0
	g.err = nil
	g.collector.Restart(0)
}

// Step runs one simulation frame: the density pass over all particles, then
// the force pass over all particles, then commits the new positions.
// Any error is fatal to the run; once set, Step keeps returning it.
func (g *Game) Step() error {
	if g.err != nil {
		return g.err
	}

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseDensityPressure)
	g.params.IndexNeighbors(g.particles)
	if _, err := g.parallel.run(g, passDensity); err != nil {
		return g.fail(err)
	}

	g.perfCollector.StartPhase(telemetry.PhaseForceIntegration)
	hits, err := g.parallel.run(g, passForces)
	if err != nil {
		return g.fail(err)
	}
	g.particles.CommitPositions()
	g.frame++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordHits(hits)
	g.flushTelemetry()

	g.perfCollector.EndTick()
	return nil
}

// fail records a fatal frame error.
func (g *Game) fail(err error) error {
	g.err = fmt.Errorf("frame %d: %w", g.frame, err)
	g.paused = true
	slog.Error("simulation halted", "frame", g.frame, "error", err)
	return g.err
}

// UpdateHeadless runs stepsPerUpdate frames without input or drawing.
func (g *Game) UpdateHeadless() error {
	for i := g.stepsDue(); i > 0; i-- {
		if err := g.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Update handles input and runs the frames due this display frame.
func (g *Game) Update() {
	g.perfCollector.RecordFrame()
	g.handleInput()

	if g.paused {
		return
	}
	for i := g.stepsDue(); i > 0; i-- {
		if err := g.Step(); err != nil {
			return
		}
	}
}

// stepsDue is the number of frames the next update runs, capped at maxFrames.
func (g *Game) stepsDue() int {
	if g.maxFrames == 0 {
		return g.stepsPerUpdate
	}
	return int(min(int32(g.stepsPerUpdate), max(g.maxFrames-g.frame, 0)))
}

// Done reports whether the run has reached its frame limit.
func (g *Game) Done() bool {
	return g.maxFrames > 0 && g.frame >= g.maxFrames
}

// SingleStep advances one frame while paused.
func (g *Game) SingleStep() error {
	if !g.paused {
		return nil
	}
	return g.Step()
}

// Present hands the current positions, render radius and colors to p.
func (g *Game) Present(p Presenter) {
	p.Present(g.particles.Position, g.params.Kernel.H/2, g.particles.Color)
}

// Tune replaces the adjustable fluid constants. Call only between frames.
func (g *Game) Tune(t Tuning) {
	g.params.Gravity = t.Gravity
	g.params.Stiffness = t.Stiffness
	g.params.Restitution = t.Restitution
	slog.Info("fluid tuned",
		"frame", g.frame,
		"gravity", t.Gravity,
		"stiffness", t.Stiffness,
		"restitution", t.Restitution,
	)
}

// CurrentTuning returns the adjustable fluid constants in effect.
func (g *Game) CurrentTuning() Tuning {
	return Tuning{
		Gravity:     g.params.Gravity,
		Stiffness:   g.params.Stiffness,
		Restitution: g.params.Restitution,
	}
}

// Reset reseeds the fluid from the run seed and clears any fatal error.
func (g *Game) Reset() {
	g.reseed()
	slog.Info("fluid reset", "seed", g.seed)
}

// SetPaused pauses or resumes the simulation.
func (g *Game) SetPaused(paused bool) {
	g.paused = paused
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// Particles returns the live particle state.
func (g *Game) Particles() *components.Particles {
	return g.particles
}

// Frame returns the number of completed frames.
func (g *Game) Frame() int32 {
	return g.frame
}

// Seed returns the run seed.
func (g *Game) Seed() int64 {
	return g.seed
}

// Err returns the fatal error that halted the run, if any.
func (g *Game) Err() error {
	return g.err
}

// LastStats returns the most recently flushed telemetry window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}

// Unload stops the workers and closes output files.
func (g *Game) Unload() {
	g.stopParallelWorkers()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
