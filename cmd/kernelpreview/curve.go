package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/pthm-cable/sph/systems"
)

// Curve holds kernel samples along the +x axis for q in [0, QMax].
type Curve struct {
	Q       []float64
	W       []float64
	GradRef []float64 // |grad W|, reference formula
	GradAna []float64 // |grad W|, analytic formula
}

// QMax is the right edge of the plot, past the support radius 2h.
const QMax = 2.5

// SampleCurve evaluates W and both gradient magnitudes at n points.
func SampleCurve(h float64, n int) Curve {
	ref := systems.NewKernel(h, systems.GradientReference)
	ana := systems.NewKernel(h, systems.GradientAnalytic)

	c := Curve{
		Q:       make([]float64, n),
		W:       make([]float64, n),
		GradRef: make([]float64, n),
		GradAna: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		q := QMax * float64(i) / float64(n-1)
		r := mgl64.Vec2{q * h, 0}
		c.Q[i] = q
		c.W[i] = ref.W(r)
		c.GradRef[i] = ref.Grad(r).Len()
		c.GradAna[i] = ana.Grad(r).Len()
	}
	return c
}

// Normalization integrates W over the plane. It should be 1 for every h.
func Normalization(h float64) float64 {
	k := systems.NewKernel(h, systems.GradientReference)
	f := func(r float64) float64 {
		return 2 * math.Pi * r * k.W(mgl64.Vec2{r, 0})
	}
	// Split at q=1 where the spline changes pieces
	return quad.Fixed(f, 0, h, 16, nil, 0) + quad.Fixed(f, h, 2*h, 16, nil, 0)
}

// JumpAtOne returns the ratio of reference gradient magnitudes just outside
// and just inside q=1.
func JumpAtOne(h float64) float64 {
	k := systems.NewKernel(h, systems.GradientReference)
	const eps = 1e-9
	inside := k.Grad(mgl64.Vec2{h * (1 - eps), 0}).Len()
	outside := k.Grad(mgl64.Vec2{h * (1 + eps), 0}).Len()
	return outside / inside
}

// Max returns the largest value of vs.
func Max(vs []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vs {
		m = math.Max(m, v)
	}
	return m
}
