package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/sph/camera"
)

// minPixelRadius keeps particles visible when zoomed out.
const minPixelRadius = 1.0

// ParticleRenderer draws the fluid as filled circles over the domain outline.
type ParticleRenderer struct {
	cam *camera.Camera

	Background rl.Color
	Border     rl.Color
}

// NewParticleRenderer creates a particle renderer drawing through cam.
func NewParticleRenderer(cam *camera.Camera) *ParticleRenderer {
	return &ParticleRenderer{
		cam:        cam,
		Background: rl.White,
		Border:     rl.LightGray,
	}
}

// Present draws one frame of particles. colors are normalized RGB.
func (r *ParticleRenderer) Present(positions []mgl64.Vec2, radius float64, colors []mgl64.Vec3) {
	rl.ClearBackground(r.Background)
	r.drawDomain()

	px := r.cam.WorldLength(radius)
	if px < minPixelRadius {
		px = minPixelRadius
	}

	for i, pos := range positions {
		if !r.cam.IsVisible(pos[0], pos[1], radius) {
			continue
		}
		sx, sy := r.cam.WorldToScreen(pos[0], pos[1])
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, px, ToColor(colors[i]))
	}
}

// drawDomain outlines the unit square.
func (r *ParticleRenderer) drawDomain() {
	x0, y1 := r.cam.WorldToScreen(0, 0)
	x1, y0 := r.cam.WorldToScreen(1, 1)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 1, r.Border)
}

// ToColor converts a normalized RGB color to an opaque raylib color,
// clamping each channel into [0, 1].
func ToColor(c mgl64.Vec3) rl.Color {
	return rl.Color{
		R: channel(c[0]),
		G: channel(c[1]),
		B: channel(c[2]),
		A: 255,
	}
}

func channel(v float64) uint8 {
	return uint8(mgl64.Clamp(v, 0, 1)*255 + 0.5)
}
