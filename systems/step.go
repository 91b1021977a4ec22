package systems

import "github.com/pthm-cable/sph/components"

// Step runs one full frame on the calling goroutine: density and pressure for
// every particle, then forces and integration for every particle.
func Step(p *components.Particles, prm *Params) (BoundaryHits, error) {
	var hits BoundaryHits
	n := p.Len()
	prm.IndexNeighbors(p)
	if err := ComputeDensityPressure(p, prm, 0, n); err != nil {
		return hits, err
	}
	if err := IntegrateForces(p, prm, 0, n, &hits); err != nil {
		return hits, err
	}
	p.CommitPositions()
	return hits, nil
}
