package systems

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/sph/components"
)

// PairPressureForce returns the pressure force particle j exerts on particle i.
func PairPressureForce(p *components.Particles, prm *Params, i, j int) mgl64.Vec2 {
	grad := prm.Kernel.Grad(p.Position[i].Sub(p.Position[j]))
	s := prm.Mass / p.Density[j] * (p.Pressure[i] + p.Pressure[j]) / 2
	return grad.Mul(-s)
}

// IntegrateForces accumulates gravity and pressure forces for particles
// [i0, i1), advances them with semi-implicit Euler and applies wall response.
//
// Density and Pressure of every particle must already be current. Positions are
// read from Position and written to Next(); the caller commits them once all
// ranges are done. Wall responses are added to hits.
func IntegrateForces(p *components.Particles, prm *Params, i0, i1 int, hits *BoundaryHits) error {
	pos := p.Position
	next := p.Next()
	for i := i0; i < i1; i++ {
		force := mgl64.Vec2{0, -prm.Gravity}
		if prm.Grid != nil {
			for _, j := range prm.Grid.Candidates(i) {
				force = force.Add(PairPressureForce(p, prm, i, j))
			}
		} else {
			for j := range pos {
				force = force.Add(PairPressureForce(p, prm, i, j))
			}
		}

		acc := mgl64.Vec2{force[0] / prm.Mass, force[1] / prm.Mass}
		p.Acceleration[i] = acc

		// Position advances with the updated velocity
		vel := p.Velocity[i].Add(acc.Mul(prm.TimeStep))
		x := pos[i].Add(vel)

		hits.record(ResolveBoundary(&x, &vel, prm.Restitution))

		if !finite(vel) || !finite(x) {
			return fmt.Errorf("particle %d: velocity %v position %v: %w", i, vel, x, ErrNonFinite)
		}

		p.Velocity[i] = vel
		next[i] = x
		p.Color[i][0] = p.Pressure[i]
	}
	return nil
}

func finite(v mgl64.Vec2) bool {
	return !math.IsNaN(v[0]) && !math.IsInf(v[0], 0) && !math.IsNaN(v[1]) && !math.IsInf(v[1], 0)
}
