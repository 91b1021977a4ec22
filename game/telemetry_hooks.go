package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/sph/telemetry"
)

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.frame) {
		return
	}

	stats := g.collector.Flush(g.frame, g.particles, g.params.Mass)
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if err := g.outputManager.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// SaveSnapshot writes the current particle state to the snapshot directory
// and returns the file path. A halted run has a partly integrated frame and
// cannot be saved.
func (g *Game) SaveSnapshot() (string, error) {
	if g.err != nil {
		err := fmt.Errorf("snapshot refused, run halted: %w", g.err)
		slog.Error("failed to save snapshot", "error", err)
		return "", err
	}

	snapshot := telemetry.NewSnapshot(g.particles, g.frame, g.seed)
	snapshot.RunID = g.outputManager.RunID()

	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return "", err
	}

	slog.Info("snapshot saved", "path", path, "frame", g.frame)
	return path, nil
}

// RestoreSnapshot replaces positions, velocities and colors with a saved
// state and continues from its frame. The particle count must match.
func (g *Game) RestoreSnapshot(path string) error {
	snapshot, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	if n := len(snapshot.Positions); n != g.particles.Len() {
		return fmt.Errorf("%s holds %d particles, config has %d: %w",
			path, n, g.particles.Len(), ErrParticleCountMismatch)
	}

	g.particles.Reset()
	copy(g.particles.Position, snapshot.Positions)
	copy(g.particles.Velocity, snapshot.Velocities)
	copy(g.particles.Color, snapshot.Colors)

	g.seed = snapshot.RNGSeed
	g.frame = snapshot.Frame
	g.err = nil
	g.collector.Restart(g.frame)

	slog.Info("snapshot restored", "path", path, "frame", g.frame, "seed", g.seed)
	return nil
}
