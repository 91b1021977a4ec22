package main

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/telemetry"
)

func TestNormalizeRoundtrip(t *testing.T) {
	pv := NewParamVector()
	raw := []float64{7e-5, 0.4}

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("%s: expected %g, got %g", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	pv.ApplyToConfig(cfg, []float64{1, -2})
	if cfg.Fluid.Stiffness != pv.Specs[0].Max {
		t.Errorf("expected stiffness clamped to %g, got %g", pv.Specs[0].Max, cfg.Fluid.Stiffness)
	}
	if cfg.Fluid.Restitution != 0 {
		t.Errorf("expected restitution clamped to 0, got %g", cfg.Fluid.Restitution)
	}

	got := pv.ExtractFromConfig(cfg)
	if got[0] != cfg.Fluid.Stiffness || got[1] != cfg.Fluid.Restitution {
		t.Errorf("extract mismatch: %v", got)
	}
}

func TestScore(t *testing.T) {
	fe := NewFitnessEvaluator(NewParamVector(), 10, []int64{1}, config.Default(), 100)

	exact := fe.score(runResult{density: telemetry.FieldStats{Mean: 100}}, 10)
	if exact != 0 {
		t.Errorf("expected zero fitness on target, got %g", exact)
	}

	off := fe.score(runResult{density: telemetry.FieldStats{Mean: 150}}, 10)
	if math.Abs(off-0.25) > 1e-12 {
		t.Errorf("expected 0.25 for 50%% overshoot, got %g", off)
	}

	escaped := fe.score(runResult{density: telemetry.FieldStats{Mean: 100}, outOfDomain: 1}, 10)
	if math.Abs(escaped-1) > 1e-12 {
		t.Errorf("expected escape penalty 1, got %g", escaped)
	}

	if failed := fe.score(runResult{err: errors.New("boom")}, 10); failed != failedRunPenalty {
		t.Errorf("expected failure penalty, got %g", failed)
	}
}

func TestEvaluateShortRun(t *testing.T) {
	cfg := config.Default()
	cfg.Fluid.ParticleCount = 30
	fe := NewFitnessEvaluator(NewParamVector(), 3, []int64{1, 2}, cfg, 500)

	fitness := fe.Evaluate([]float64{cfg.Fluid.Stiffness, cfg.Fluid.Restitution})
	if math.IsNaN(fitness) || fitness >= failedRunPenalty {
		t.Errorf("expected a finite fitness, got %g", fitness)
	}
	if fe.LastMeanDensity() <= 0 {
		t.Errorf("expected positive mean density, got %g", fe.LastMeanDensity())
	}
}
