// Package camera provides a 2D camera system for viewport control.
package camera

// Camera maps the fluid domain onto the screen.
// World y points up; screen y points down. At zoom 1 the unit square fills the
// shorter side of the viewport.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float64

	// Zoom level (1.0 = domain fits the viewport)
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Zoom constraints
	MinZoom, MaxZoom float64
}

// New creates a camera centered on the unit square with 1:1 zoom.
func New(viewportW, viewportH float32) *Camera {
	return &Camera{
		X:         0.5,
		Y:         0.5,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   0.5,
		MaxZoom:   8.0,
	}
}

// pixelsPerUnit returns how many screen pixels one world unit spans.
func (c *Camera) pixelsPerUnit() float64 {
	side := c.ViewportW
	if c.ViewportH < side {
		side = c.ViewportH
	}
	return float64(side) * c.Zoom
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float32) {
	s := c.pixelsPerUnit()
	sx = c.ViewportW/2 + float32((wx-c.X)*s)
	sy = c.ViewportH/2 - float32((wy-c.Y)*s)
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float64) {
	s := c.pixelsPerUnit()
	wx = c.X + float64(sx-c.ViewportW/2)/s
	wy = c.Y - float64(sy-c.ViewportH/2)/s
	return wx, wy
}

// WorldLength converts a world distance to pixels.
func (c *Camera) WorldLength(l float64) float32 {
	return float32(l * c.pixelsPerUnit())
}

// IsVisible returns true if a circle at (wx, wy) with given world radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float64) bool {
	s := c.pixelsPerUnit()
	halfW := float64(c.ViewportW)/(2*s) + radius
	halfH := float64(c.ViewportH)/(2*s) + radius
	return abs(wx-c.X) <= halfW && abs(wy-c.Y) <= halfH
}

// Pan moves the camera by a screen-space delta.
func (c *Camera) Pan(dx, dy float32) {
	s := c.pixelsPerUnit()
	c.X -= float64(dx) / s
	c.Y += float64(dy) / s
}

// ZoomAt multiplies the zoom by factor, keeping the world point under the
// screen position (sx, sy) fixed.
func (c *Camera) ZoomAt(factor float64, sx, sy float32) {
	wx, wy := c.ScreenToWorld(sx, sy)

	c.Zoom *= factor
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	if c.Zoom > c.MaxZoom {
		c.Zoom = c.MaxZoom
	}

	nx, ny := c.ScreenToWorld(sx, sy)
	c.X += wx - nx
	c.Y += wy - ny
}

// Resize updates the viewport dimensions.
func (c *Camera) Resize(w, h float32) {
	c.ViewportW = w
	c.ViewportH = h
}

// Reset recenters the camera on the domain at zoom 1.
func (c *Camera) Reset() {
	c.X, c.Y = 0.5, 0.5
	c.Zoom = 1.0
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
