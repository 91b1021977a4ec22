package main

import (
	"math"
	"testing"
)

func TestNormalizationAcrossRadii(t *testing.T) {
	for _, h := range []float64{0.01, 0.03, 0.1, 1} {
		if got := Normalization(h); math.Abs(got-1) > 1e-6 {
			t.Errorf("h=%g: integral of W = %f, want 1", h, got)
		}
	}
}

func TestSampleCurveVanishesOutsideSupport(t *testing.T) {
	c := SampleCurve(0.03, 101)
	for i, q := range c.Q {
		if q > 2 && (c.W[i] != 0 || c.GradRef[i] != 0 || c.GradAna[i] != 0) {
			t.Errorf("q=%.3f: expected zero outside support, got W=%g ref=%g ana=%g",
				q, c.W[i], c.GradRef[i], c.GradAna[i])
		}
	}
	if c.Q[0] != 0 || c.Q[len(c.Q)-1] != QMax {
		t.Errorf("unexpected q range [%g, %g]", c.Q[0], c.Q[len(c.Q)-1])
	}
}

func TestJumpAtOneMatchesGradAlpha(t *testing.T) {
	// Reference inner branch at q=1 is gradAlpha*h/3; the outer branch is h/3.
	h := 0.03
	want := 1 / (45.0 / (14.0 * math.Pi * math.Pow(h, 4)))
	if got := JumpAtOne(h); math.Abs(got-want)/want > 1e-6 {
		t.Errorf("jump ratio %g, want %g", got, want)
	}
}
