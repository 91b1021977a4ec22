// Kernel preview tool - plots the smoothing kernel and both gradient formulas.
//
// Usage: go run ./cmd/kernelpreview
package main

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/config"
)

const (
	windowWidth  = 1000
	windowHeight = 620
	plotX        = 10
	plotY        = 10
	plotW        = 600
	plotH        = 280
	panelX       = plotX + plotW + 20
	panelWidth   = windowWidth - panelX - 10
	samples      = 400
)

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Kernel Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	defaultH := config.Default().Fluid.SmoothingRadius
	h := defaultH
	curve := SampleCurve(h, samples)
	norm := Normalization(h)
	needsRegen := false

	for !rl.WindowShouldClose() {
		if needsRegen {
			curve = SampleCurve(h, samples)
			norm = Normalization(h)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Top plot: W(q); bottom plot: |grad W| for both modes
		drawPlot(plotY, "W(q)", curve.Q, [][]float64{curve.W}, []rl.Color{rl.DarkBlue})
		drawPlot(plotY+plotH+20, "|grad W|(q)", curve.Q,
			[][]float64{curve.GradAna, curve.GradRef},
			[]rl.Color{rl.DarkGreen, rl.Red})

		// Control panel
		y := float32(plotY)
		rl.DrawText("Smoothing Kernel", panelX, int32(y), 20, rl.DarkGray)
		y += 35

		rl.DrawText("Smoothing radius h", panelX, int32(y), 14, rl.Gray)
		y += 18
		newH := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: y, Width: float32(panelWidth - 80), Height: 20},
			"", "",
			float32(h), 0.005, 0.1,
		)
		rl.DrawText(fmt.Sprintf("%.3f", h), panelX+int32(panelWidth-70), int32(y+2), 16, rl.DarkGray)
		if newH != float32(h) {
			h = float64(newH)
			needsRegen = true
		}
		y += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 120, Height: 30}, "Reset h") {
			h = defaultH
			needsRegen = true
		}
		y += 50

		lines := []string{
			fmt.Sprintf("Support radius: %.3f", 2*h),
			fmt.Sprintf("W(0): %.2f", curve.W[0]),
			fmt.Sprintf("Integral of W: %.6f", norm),
			fmt.Sprintf("Reference jump at q=1: x%.3g", JumpAtOne(h)),
		}
		for _, line := range lines {
			rl.DrawText(line, panelX, int32(y), 16, rl.DarkGray)
			y += 22
		}
		y += 10

		rl.DrawRectangle(panelX, int32(y)+3, 10, 10, rl.DarkGreen)
		rl.DrawText("analytic gradient", panelX+16, int32(y), 14, rl.Gray)
		y += 18
		rl.DrawRectangle(panelX, int32(y)+3, 10, 10, rl.Red)
		rl.DrawText("reference gradient", panelX+16, int32(y), 14, rl.Gray)

		rl.DrawText("Press C to copy the radius as YAML", panelX, windowHeight-30, 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(fmt.Sprintf("fluid:\n  smoothing_radius: %.4f", h))
		}

		rl.EndDrawing()
	}
}

// drawPlot draws one or more series against q with a shared y scale.
func drawPlot(top int32, title string, q []float64, series [][]float64, colors []rl.Color) {
	rl.DrawRectangleLines(plotX, top, plotW, plotH, rl.DarkGray)
	rl.DrawText(title, plotX+6, top+6, 16, rl.DarkGray)

	yMax := 0.0
	for _, s := range series {
		yMax = max(yMax, Max(s))
	}
	if yMax <= 0 {
		return
	}

	toScreen := func(qv, v float64) rl.Vector2 {
		return rl.Vector2{
			X: float32(plotX + qv/QMax*plotW),
			Y: float32(float64(top+plotH) - v/yMax*float64(plotH-30)),
		}
	}

	// q=1 and q=2 markers
	for _, mark := range []float64{1, 2} {
		a := toScreen(mark, 0)
		rl.DrawLine(int32(a.X), top, int32(a.X), top+plotH, rl.LightGray)
		rl.DrawText(fmt.Sprintf("q=%g", mark), int32(a.X)+3, top+plotH-16, 12, rl.Gray)
	}

	for si, s := range series {
		for i := 1; i < len(q); i++ {
			rl.DrawLineV(toScreen(q[i-1], s[i-1]), toScreen(q[i], s[i]), colors[si])
		}
	}
	rl.DrawText(fmt.Sprintf("max %.3g", yMax), plotX+plotW-90, top+6, 12, rl.Gray)
}
