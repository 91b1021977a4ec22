package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Slider ranges for the tunable fluid constants.
const (
	GravityMin     = 0.0
	GravityMax     = 3.0
	StiffnessMin   = 1e-5
	StiffnessMax   = 3e-4
	RestitutionMin = 0.0
	RestitutionMax = 1.0
)

// SliderRange is the span of one slider. It grows to take in any value the
// panel is handed, since raygui clamps the value into the span on every draw.
type SliderRange struct {
	Min, Max float64
}

// Widen extends the range to include v.
func (r *SliderRange) Widen(v float64) {
	r.Min = min(r.Min, v)
	r.Max = max(r.Max, v)
}

// ControlValues are the live values shown by the controls panel.
type ControlValues struct {
	Gravity     float64
	Stiffness   float64
	Restitution float64
	Paused      bool
}

// ControlActions reports what the user did with the panel this frame.
type ControlActions struct {
	Values      ControlValues
	Changed     bool // a slider moved
	TogglePause bool
	Step        bool
	Reset       bool
	Snapshot    bool
}

// ControlsPanel renders the right-side panel with run buttons and sliders.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool

	gravity     SliderRange
	stiffness   SliderRange
	restitution SliderRange
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,

		gravity:     SliderRange{GravityMin, GravityMax},
		stiffness:   SliderRange{StiffnessMin, StiffnessMax},
		restitution: SliderRange{RestitutionMin, RestitutionMax},
	}
}

// widen makes room on each slider for the values about to be drawn.
func (c *ControlsPanel) widen(v ControlValues) {
	c.gravity.Widen(v.Gravity)
	c.stiffness.Widen(v.Stiffness)
	c.restitution.Widen(v.Restitution)
}

// SetPosition moves the panel.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and returns the user's actions.
func (c *ControlsPanel) Draw(v ControlValues) ControlActions {
	actions := ControlActions{Values: v}
	if !c.visible {
		return actions
	}
	c.widen(v)

	r := c.renderer
	padding := r.Theme.Padding
	inner := c.width - padding*2

	r.DrawPanel(c.x, c.y, c.width, 250)
	x := c.x + padding
	y := r.DrawSectionHeader(x, c.y+padding, "Fluid")
	y += 4

	// Run buttons
	buttonW := float32(inner-8) / 2
	pauseLabel := "Pause"
	if v.Paused {
		pauseLabel = "Resume"
	}
	actions.TogglePause = gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: buttonW, Height: 24}, pauseLabel)
	actions.Step = gui.Button(rl.Rectangle{X: float32(x) + buttonW + 8, Y: float32(y), Width: buttonW, Height: 24}, "Step")
	y += 30
	actions.Reset = gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: buttonW, Height: 24}, "Reset")
	actions.Snapshot = gui.Button(rl.Rectangle{X: float32(x) + buttonW + 8, Y: float32(y), Width: buttonW, Height: 24}, "Snapshot")
	y += 36

	next := v
	next.Gravity, y = r.DrawSlider(x, y, "Gravity", "%.3f", v.Gravity, c.gravity, inner)
	next.Stiffness, y = r.DrawSlider(x, y, "Stiffness", "%.2e", v.Stiffness, c.stiffness, inner)
	next.Restitution, _ = r.DrawSlider(x, y, "Restitution", "%.2f", v.Restitution, c.restitution, inner)

	actions.Changed = next != v
	actions.Values = next
	return actions
}
