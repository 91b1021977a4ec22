// Package components defines the per-particle state of the fluid.
package components

import "github.com/go-gl/mathgl/mgl64"

// Particles is the structure-of-arrays particle state.
// Index i in every slice refers to the same particle. The count never changes
// after NewParticles.
type Particles struct {
	Position     []mgl64.Vec2
	Velocity     []mgl64.Vec2
	Acceleration []mgl64.Vec2 // force/mass for the current frame
	Density      []float64
	Pressure     []float64
	Color        []mgl64.Vec3 // only the first channel is driven (pressure)

	// next receives integrated positions while the force pass still reads Position.
	next []mgl64.Vec2
}

// NewParticles allocates zeroed state for n particles.
func NewParticles(n int) *Particles {
	return &Particles{
		Position:     make([]mgl64.Vec2, n),
		Velocity:     make([]mgl64.Vec2, n),
		Acceleration: make([]mgl64.Vec2, n),
		Density:      make([]float64, n),
		Pressure:     make([]float64, n),
		Color:        make([]mgl64.Vec3, n),
		next:         make([]mgl64.Vec2, n),
	}
}

// Len returns the particle count.
func (p *Particles) Len() int {
	return len(p.Position)
}

// Reset zeroes every field.
func (p *Particles) Reset() {
	clear(p.Position)
	clear(p.Velocity)
	clear(p.Acceleration)
	clear(p.Density)
	clear(p.Pressure)
	clear(p.Color)
	clear(p.next)
}

// Next returns the write buffer for integrated positions.
func (p *Particles) Next() []mgl64.Vec2 {
	return p.next
}

// CommitPositions makes the integrated positions current.
// Call only once every particle of the force pass has been written.
func (p *Particles) CommitPositions() {
	p.Position, p.next = p.next, p.Position
}
