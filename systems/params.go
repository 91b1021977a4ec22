// Package systems implements the per-frame SPH update.
package systems

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/sph/components"
	"github.com/pthm-cable/sph/config"
)

// Domain bounds and the clamp range applied after a wall crossing.
const (
	DomainMin = 0.0
	DomainMax = 1.0
	ClampMin  = 0.01
	ClampMax  = 0.99
)

var (
	// ErrDegenerateDensity means a particle's density came out zero, negative or NaN.
	ErrDegenerateDensity = errors.New("degenerate density")
	// ErrNonFinite means integration produced an infinite or NaN velocity or position.
	ErrNonFinite = errors.New("non-finite particle state")
	// ErrUnknownGradient means a gradient mode name is neither "reference" nor "analytic".
	ErrUnknownGradient = errors.New("unknown gradient mode")
)

// Params holds the global fluid constants used by both passes.
type Params struct {
	Mass        float64
	Stiffness   float64
	Gravity     float64
	TimeStep    float64
	Restitution float64
	Kernel      Kernel

	// Grid restricts pair sums to nearby particles; nil sums over all pairs.
	// It must be rebuilt from the current positions before each frame.
	Grid *SpatialGrid
}

// NewParams builds pass parameters from a validated fluid config.
func NewParams(f config.FluidConfig) (Params, error) {
	mode, err := ParseGradientMode(f.Gradient)
	if err != nil {
		return Params{}, fmt.Errorf("fluid.gradient: %w", err)
	}

	var grid *SpatialGrid
	if f.NeighborGrid {
		grid = NewSpatialGrid(2 * f.SmoothingRadius)
	}
	return Params{
		Mass:        f.Mass,
		Stiffness:   f.Stiffness,
		Gravity:     f.Gravity,
		TimeStep:    f.TimeStep,
		Restitution: f.Restitution,
		Kernel:      NewKernel(f.SmoothingRadius, mode),
		Grid:        grid,
	}, nil
}

// IndexNeighbors rebuilds the neighbor grid from the current positions.
// It is a no-op when pairs are summed exhaustively.
func (prm *Params) IndexNeighbors(p *components.Particles) {
	if prm.Grid != nil {
		prm.Grid.Build(p.Position)
	}
}
