package telemetry

import (
	"github.com/pthm-cable/sph/components"
	"github.com/pthm-cable/sph/systems"
)

// Collector accumulates wall collisions within frame windows and produces WindowStats.
type Collector struct {
	windowFrames int32
	dt           float64

	windowStartFrame int32
	hits             systems.BoundaryHits
}

// NewCollector creates a collector flushing every windowFrames frames.
// dt is the simulation time step, used for frame-to-time conversion.
func NewCollector(windowFrames int, dt float64) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{
		windowFrames: int32(windowFrames),
		dt:           dt,
	}
}

// RecordHits adds one frame's wall collisions.
func (c *Collector) RecordHits(h systems.BoundaryHits) {
	c.hits.Add(h)
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(frame int32) bool {
	return frame-c.windowStartFrame >= c.windowFrames
}

// Flush samples the particles, produces a WindowStats and starts a new window.
func (c *Collector) Flush(frame int32, p *components.Particles, mass float64) WindowStats {
	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   frame,
		SimTimeSec:       float64(frame) * c.dt,
		WallHitsX:        c.hits.X,
		WallHitsY:        c.hits.Y,
	}
	stats.SampleParticles(p, mass)

	c.windowStartFrame = frame
	c.hits = systems.BoundaryHits{}
	return stats
}

// Restart begins a fresh window at frame, discarding accumulated hits.
func (c *Collector) Restart(frame int32) {
	c.windowStartFrame = frame
	c.hits = systems.BoundaryHits{}
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int32 {
	return c.windowFrames
}
