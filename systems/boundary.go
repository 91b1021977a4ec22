package systems

import "github.com/go-gl/mathgl/mgl64"

// Wall identifies which axis a boundary response was applied to.
type Wall uint8

const (
	WallNone Wall = iota
	WallX
	WallY
)

// BoundaryHits counts wall responses per axis.
type BoundaryHits struct {
	X, Y int
}

// Add accumulates other into h.
func (h *BoundaryHits) Add(other BoundaryHits) {
	h.X += other.X
	h.Y += other.Y
}

func (h *BoundaryHits) record(w Wall) {
	switch w {
	case WallX:
		h.X++
	case WallY:
		h.Y++
	}
}

// ResolveBoundary reflects and clamps a particle that left the unit square.
//
// Y is only examined when X is inside the domain, so a particle crossing a
// corner is corrected on X this frame and on Y at the earliest next frame.
func ResolveBoundary(pos, vel *mgl64.Vec2, restitution float64) Wall {
	if pos[0] <= DomainMin || pos[0] >= DomainMax {
		vel[0] *= -restitution
		pos[0] = mgl64.Clamp(pos[0], ClampMin, ClampMax)
		return WallX
	} else if pos[1] <= DomainMin || pos[1] >= DomainMax {
		vel[1] *= -restitution
		pos[1] = mgl64.Clamp(pos[1], ClampMin, ClampMax)
		return WallY
	}
	return WallNone
}
