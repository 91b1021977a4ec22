package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/telemetry"
	"github.com/pthm-cable/sph/ui"
)

const controlsLegend = "[Space] pause  [N] step  [R] reset  [S] snapshot  [,/.] speed  [P] perf  [Tab] panel  [Home] camera"

// Draw renders the fluid and the UI.
func (g *Game) Draw() {
	rl.BeginDrawing()

	g.Present(g.presenter)
	g.drawUI()

	rl.EndDrawing()
}

// drawUI draws the HUD and applies control panel actions. Tuning changes made
// here land between frames because Draw never overlaps Step.
func (g *Game) drawUI() {
	stats := g.lastStats
	g.hud.Draw(ui.HUDData{
		Title:          "SPH Fluid",
		Particles:      g.particles.Len(),
		Frame:          g.frame,
		SimTime:        float64(g.frame) * g.params.TimeStep,
		StepsPerUpdate: g.stepsPerUpdate,
		FPS:            rl.GetFPS(),
		Paused:         g.paused,
		Gradient:       g.params.Kernel.Mode.String(),
		MeanDensity:    stats.DensityMean,
		MaxPressure:    stats.PressureMax,
		KineticEnergy:  stats.KineticEnergy,
		WallHits:       stats.WallHitsX + stats.WallHitsY,
	})

	if g.err != nil {
		rl.DrawText(fmt.Sprintf("halted: %v", g.err), 10, int32(g.screenHeight)-50, 16, rl.Red)
	}

	if g.showPerf {
		perf := g.perfCollector.Stats()
		g.perfPanel.Draw(ui.PerfPanelData{
			PhaseTimes: perf.PhaseAvg,
			PhaseOrder: telemetry.PhaseOrder(),
			Total:      perf.AvgTickDuration,
		})
	}

	t := g.CurrentTuning()
	actions := g.controls.Draw(ui.ControlValues{
		Gravity:     t.Gravity,
		Stiffness:   t.Stiffness,
		Restitution: t.Restitution,
		Paused:      g.paused,
	})
	g.applyControls(actions)

	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)
}

// applyControls acts on the control panel output.
func (g *Game) applyControls(a ui.ControlActions) {
	if a.Changed {
		g.Tune(Tuning{
			Gravity:     a.Values.Gravity,
			Stiffness:   a.Values.Stiffness,
			Restitution: a.Values.Restitution,
		})
	}
	if a.TogglePause {
		g.paused = !g.paused
	}
	if a.Step {
		_ = g.SingleStep()
	}
	if a.Reset {
		g.Reset()
	}
	if a.Snapshot {
		_, _ = g.SaveSnapshot()
	}
}
