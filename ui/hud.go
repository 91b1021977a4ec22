package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Particles      int
	Frame          int32
	SimTime        float64
	StepsPerUpdate int
	FPS            int32
	Paused         bool
	Gradient       string

	// From the last telemetry window; zero until the first flush.
	MeanDensity   float64
	MaxPressure   float64
	KineticEnergy float64
	WallHits      int
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	x, y := int32(10), int32(10)
	r.DrawPanel(x-6, y-6, 270, 150)

	rl.DrawText(data.Title, x, y, 20, rl.White)
	y += 26

	y = r.DrawLabelValue(x, y, "Particles", fmt.Sprintf("%d (%s grad)", data.Particles, data.Gradient))
	y = r.DrawLabelValue(x, y, "Frame", fmt.Sprintf("%d  t=%.3f", data.Frame, data.SimTime))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%dx  FPS %d", data.StepsPerUpdate, data.FPS))
	y = r.DrawLabelValue(x, y, "Density", fmt.Sprintf("%.1f mean", data.MeanDensity))
	y = r.DrawLabelValue(x, y, "Pressure", fmt.Sprintf("%.4f max", data.MaxPressure))
	y = r.DrawLabelValue(x, y, "Kinetic", fmt.Sprintf("%.3g  walls %d", data.KineticEnergy, data.WallHits))

	if data.Paused {
		rl.DrawText("PAUSED", x, y+2, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	PhaseTimes map[string]time.Duration
	PhaseOrder []string
	Total      time.Duration
}

// PerfPanel renders per-phase frame timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(data PerfPanelData) {
	r := p.renderer
	width := int32(260)
	height := int32(len(data.PhaseOrder))*(14+r.Theme.LineHeight+2) + 18 + r.Theme.Padding*2
	r.DrawPanel(p.x, p.y, width, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding
	rl.DrawText(fmt.Sprintf("Frame %s", data.Total.Round(time.Microsecond)), x, y, 14, rl.White)
	y += 18

	for _, name := range data.PhaseOrder {
		avg := data.PhaseTimes[name]
		share := float32(0)
		if data.Total > 0 {
			share = float32(float64(avg) / float64(data.Total))
		}

		color := rl.LightGray
		if share > 0.5 {
			color = r.Theme.WarnColor
		}
		rl.DrawText(fmt.Sprintf("%-18s %8s", name, avg.Round(time.Microsecond)), x, y, 12, color)
		y += 14
		y = r.DrawBar(x, y, "share", share, width-2*r.Theme.Padding)
	}
}
