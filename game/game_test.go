package game

import (
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/sph/components"
	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/systems"
)

func testConfig(t *testing.T, n int) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Fluid.ParticleCount = n
	cfg.Parallel.Threshold = 1
	cfg.Telemetry.StatsWindow = 2
	return cfg
}

func newHeadless(t *testing.T, opts Options) *Game {
	t.Helper()
	opts.Headless = true
	if opts.SnapshotDir == "" {
		opts.SnapshotDir = t.TempDir()
	}
	g, err := NewGameWithOptions(opts)
	require.NoError(t, err)
	t.Cleanup(g.Unload)
	return g
}

type recordingPresenter struct {
	calls     int
	positions []mgl64.Vec2
	radius    float64
	colors    []mgl64.Vec3
}

func (r *recordingPresenter) Present(positions []mgl64.Vec2, radius float64, colors []mgl64.Vec3) {
	r.calls++
	r.positions = append(r.positions[:0], positions...)
	r.radius = radius
	r.colors = append(r.colors[:0], colors...)
}

func TestStepMatchesSequentialAcrossWorkerCounts(t *testing.T) {
	const n, frames, seed = 120, 6, 7
	cfg := testConfig(t, n)

	// Reference run on the calling goroutine, visiting every pair
	ref := components.NewParticles(n)
	systems.Seed(ref, rand.New(rand.NewSource(seed)), cfg.Seed)
	fluid := cfg.Fluid
	fluid.NeighborGrid = false
	prm, err := systems.NewParams(fluid)
	require.NoError(t, err)
	for i := 0; i < frames; i++ {
		_, err := systems.Step(ref, &prm)
		require.NoError(t, err)
	}

	for _, tc := range []struct {
		workers int
		grid    bool
	}{{1, false}, {4, false}, {1, true}, {3, true}, {8, true}} {
		runCfg := *cfg
		runCfg.Fluid.NeighborGrid = tc.grid
		workers := tc.workers
		g := newHeadless(t, Options{Config: &runCfg, Seed: seed, Workers: workers})
		for i := 0; i < frames; i++ {
			require.NoError(t, g.Step())
		}

		p := g.Particles()
		for i := 0; i < n; i++ {
			if p.Position[i] != ref.Position[i] || p.Velocity[i] != ref.Velocity[i] {
				t.Fatalf("workers=%d grid=%v particle %d: got pos %v vel %v, want pos %v vel %v",
					workers, tc.grid, i, p.Position[i], p.Velocity[i], ref.Position[i], ref.Velocity[i])
			}
			if p.Density[i] != ref.Density[i] {
				t.Fatalf("workers=%d grid=%v particle %d: density %g, want %g", workers, tc.grid, i, p.Density[i], ref.Density[i])
			}
		}
		assert.Equal(t, int32(frames), g.Frame())
	}
}

func TestNewGameRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t, 10)
	cfg.Fluid.SmoothingRadius = 0

	_, err := NewGameWithOptions(Options{Config: cfg, Headless: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalid), "expected ErrInvalid, got %v", err)
}

func TestPresentHandsOffPositionsRadiusAndColors(t *testing.T) {
	cfg := testConfig(t, 30)
	g := newHeadless(t, Options{Config: cfg, Seed: 3})
	require.NoError(t, g.Step())

	var rec recordingPresenter
	g.Present(&rec)

	assert.Equal(t, 1, rec.calls)
	assert.InDelta(t, cfg.Fluid.SmoothingRadius/2, rec.radius, 1e-15)
	require.Len(t, rec.positions, 30)
	require.Len(t, rec.colors, 30)

	p := g.Particles()
	for i := range rec.positions {
		assert.Equal(t, p.Position[i], rec.positions[i])
		assert.Equal(t, p.Pressure[i], rec.colors[i][0], "red channel carries pressure")
		assert.Zero(t, rec.colors[i][1])
		assert.Zero(t, rec.colors[i][2])
	}
}

func TestStepErrorIsFatal(t *testing.T) {
	for _, workers := range []int{1, 4} {
		g := newHeadless(t, Options{Config: testConfig(t, 40), Seed: 1, Workers: workers})
		require.NoError(t, g.Step())

		tuning := g.CurrentTuning()
		tuning.Gravity = math.NaN()
		g.Tune(tuning)

		err := g.Step()
		require.Error(t, err)
		assert.True(t, errors.Is(err, systems.ErrNonFinite), "workers=%d: got %v", workers, err)
		assert.Equal(t, int32(1), g.Frame(), "failed frame must not count")
		assert.True(t, g.Paused())

		// The run stays halted
		assert.Equal(t, err, g.Step())
		assert.Equal(t, err, g.Err())
	}
}

func TestSnapshotRefusedAfterFatalError(t *testing.T) {
	dir := t.TempDir()
	g := newHeadless(t, Options{Config: testConfig(t, 40), Seed: 1, Workers: 4, SnapshotDir: dir})
	require.NoError(t, g.Step())

	tuning := g.CurrentTuning()
	tuning.Gravity = math.NaN()
	g.Tune(tuning)
	require.Error(t, g.Step())

	path, err := g.SaveSnapshot()
	require.Error(t, err)
	assert.True(t, errors.Is(err, systems.ErrNonFinite), "got %v", err)
	assert.Empty(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no snapshot file may be written")

	// Reset recovers a saveable state
	g.Reset()
	_, err = g.SaveSnapshot()
	assert.NoError(t, err)
}

func TestResetReproducesInitialState(t *testing.T) {
	g := newHeadless(t, Options{Config: testConfig(t, 25), Seed: 99})
	initial := append([]mgl64.Vec2(nil), g.Particles().Position...)

	for i := 0; i < 3; i++ {
		require.NoError(t, g.Step())
	}
	g.Reset()

	assert.Equal(t, int32(0), g.Frame())
	assert.Equal(t, initial, g.Particles().Position)
	for _, v := range g.Particles().Velocity {
		assert.Equal(t, mgl64.Vec2{}, v)
	}
}

func TestResetClearsFatalError(t *testing.T) {
	g := newHeadless(t, Options{Config: testConfig(t, 10), Seed: 5})
	good := g.CurrentTuning()

	bad := good
	bad.Gravity = math.Inf(1)
	g.Tune(bad)
	require.Error(t, g.Step())

	g.Tune(good)
	g.Reset()
	assert.NoError(t, g.Err())
	assert.NoError(t, g.Step())
}

func TestTuneTakesEffectNextFrame(t *testing.T) {
	cfg := testConfig(t, 1)
	g := newHeadless(t, Options{Config: cfg, Seed: 2})

	g.Tune(Tuning{Gravity: 0, Stiffness: 0, Restitution: 0.4})
	assert.Equal(t, Tuning{Gravity: 0, Stiffness: 0, Restitution: 0.4}, g.CurrentTuning())

	// A lone particle feels only gravity, which is now off
	before := g.Particles().Position[0]
	require.NoError(t, g.Step())
	assert.Equal(t, before, g.Particles().Position[0])
}

func TestSingleStepOnlyWhilePaused(t *testing.T) {
	g := newHeadless(t, Options{Config: testConfig(t, 10), Seed: 4})

	require.NoError(t, g.SingleStep())
	assert.Equal(t, int32(0), g.Frame(), "single step is ignored while running")

	g.SetPaused(true)
	require.NoError(t, g.SingleStep())
	assert.Equal(t, int32(1), g.Frame())
}

func TestUpdateHeadlessRunsStepsPerUpdate(t *testing.T) {
	g := newHeadless(t, Options{Config: testConfig(t, 10), Seed: 4, StepsPerUpdate: 3})

	require.NoError(t, g.UpdateHeadless())
	require.NoError(t, g.UpdateHeadless())
	assert.Equal(t, int32(6), g.Frame())
	assert.False(t, g.Done(), "no frame limit set")
}

func TestUpdateHeadlessStopsAtMaxFrames(t *testing.T) {
	g := newHeadless(t, Options{Config: testConfig(t, 10), Seed: 4, StepsPerUpdate: 3, MaxFrames: 7})

	var frames []int32
	for !g.Done() {
		require.NoError(t, g.UpdateHeadless())
		frames = append(frames, g.Frame())
	}
	assert.Equal(t, []int32{3, 6, 7}, frames)

	// Further updates are no-ops
	require.NoError(t, g.UpdateHeadless())
	assert.Equal(t, int32(7), g.Frame())
}

func TestSnapshotResumeContinuesIdentically(t *testing.T) {
	cfg := testConfig(t, 50)
	dir := t.TempDir()

	a := newHeadless(t, Options{Config: cfg, Seed: 11, SnapshotDir: dir})
	for i := 0; i < 3; i++ {
		require.NoError(t, a.Step())
	}
	path, err := a.SaveSnapshot()
	require.NoError(t, err)

	b := newHeadless(t, Options{Config: cfg, Seed: 12345, ResumePath: path})
	assert.Equal(t, int32(3), b.Frame())
	assert.Equal(t, int64(11), b.Seed(), "seed comes from the snapshot")
	assert.Equal(t, a.Particles().Position, b.Particles().Position)

	require.NoError(t, a.Step())
	require.NoError(t, b.Step())
	assert.Equal(t, a.Particles().Position, b.Particles().Position)
	assert.Equal(t, a.Particles().Velocity, b.Particles().Velocity)
}

func TestRestoreSnapshotCountMismatch(t *testing.T) {
	dir := t.TempDir()
	a := newHeadless(t, Options{Config: testConfig(t, 20), Seed: 1, SnapshotDir: dir})
	path, err := a.SaveSnapshot()
	require.NoError(t, err)

	b := newHeadless(t, Options{Config: testConfig(t, 30), Seed: 1})
	before := append([]mgl64.Vec2(nil), b.Particles().Position...)

	err = b.RestoreSnapshot(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParticleCountMismatch), "got %v", err)
	assert.Equal(t, before, b.Particles().Position, "failed restore must leave state untouched")

	_, err = NewGameWithOptions(Options{Config: testConfig(t, 30), Headless: true, ResumePath: path})
	assert.True(t, errors.Is(err, ErrParticleCountMismatch))
}

func TestTelemetryOutput(t *testing.T) {
	cfg := testConfig(t, 20)
	out := t.TempDir()

	g, err := NewGameWithOptions(Options{Config: cfg, Seed: 8, Headless: true, OutputDir: out})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		require.NoError(t, g.Step())
	}
	assert.Equal(t, int32(4), g.LastStats().WindowEndFrame)
	assert.Equal(t, 20, g.LastStats().Particles)
	g.Unload()

	data, err := os.ReadFile(filepath.Join(out, "stats.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3, "header plus one row per window")
	assert.True(t, strings.HasPrefix(lines[0], "window_end,"))

	for _, name := range []string{"perf.csv", "config.yaml", "run.yaml"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
}
