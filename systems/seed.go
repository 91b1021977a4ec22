package systems

import (
	"math/rand"

	"github.com/pthm-cable/sph/components"
	"github.com/pthm-cable/sph/config"
)

// Seed zeroes all particle state and scatters positions uniformly over region.
func Seed(p *components.Particles, rng *rand.Rand, region config.SeedConfig) {
	p.Reset()
	for i := range p.Position {
		p.Position[i][0] = rng.Float64()*region.XSpan + region.XMin
		p.Position[i][1] = rng.Float64()*region.YSpan + region.YMin
	}
}
