package systems

import (
	"fmt"

	"github.com/pthm-cable/sph/components"
)

// ComputeDensityPressure estimates density and pressure for particles [i0, i1).
//
// Every particle contributes, the particle itself included, so density is at
// least Mass*Alpha for a valid configuration. Only Density[i] and Pressure[i]
// of the particles in range are written.
func ComputeDensityPressure(p *components.Particles, prm *Params, i0, i1 int) error {
	pos := p.Position
	for i := i0; i < i1; i++ {
		pi := pos[i]

		var density float64
		if prm.Grid != nil {
			for _, j := range prm.Grid.Candidates(i) {
				density += prm.Mass * prm.Kernel.W(pi.Sub(pos[j]))
			}
		} else {
			for j := range pos {
				density += prm.Mass * prm.Kernel.W(pi.Sub(pos[j]))
			}
		}

		if !(density > 0) {
			return fmt.Errorf("particle %d: density %g: %w", i, density, ErrDegenerateDensity)
		}

		p.Density[i] = density
		p.Pressure[i] = max(prm.Stiffness*density, 0)
	}
	return nil
}
