package systems

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// GradientMode selects the kernel gradient formula.
type GradientMode uint8

const (
	// GradientReference reproduces the reference solver's gradient, including
	// its unnormalized outer branch.
	GradientReference GradientMode = iota
	// GradientAnalytic is the exact derivative of W, continuous at q=1.
	GradientAnalytic
)

// ParseGradientMode maps a config name to a GradientMode.
func ParseGradientMode(name string) (GradientMode, error) {
	switch name {
	case "reference":
		return GradientReference, nil
	case "analytic":
		return GradientAnalytic, nil
	}
	return GradientReference, fmt.Errorf("%q: %w", name, ErrUnknownGradient)
}

// String returns the config name of the mode.
func (m GradientMode) String() string {
	if m == GradientAnalytic {
		return "analytic"
	}
	return "reference"
}

// Kernel is the 2-D cubic spline smoothing kernel with support radius 2h.
type Kernel struct {
	H    float64
	Mode GradientMode

	alpha     float64 // 10 / (7 pi h^2)
	gradAlpha float64 // 45 / (14 pi h^4)
}

// NewKernel precomputes normalization constants for radius h.
func NewKernel(h float64, mode GradientMode) Kernel {
	return Kernel{
		H:         h,
		Mode:      mode,
		alpha:     10.0 / (7.0 * math.Pi * h * h),
		gradAlpha: 45.0 / (14.0 * math.Pi * h * h * h * h),
	}
}

// Alpha returns W at r=0, the self-contribution of a particle of unit mass.
func (k Kernel) Alpha() float64 {
	return k.alpha
}

// W returns the kernel weight for displacement r.
func (k Kernel) W(r mgl64.Vec2) float64 {
	q := r.Len() / k.H
	switch {
	case q <= 1:
		return k.alpha * (1 - 1.5*q*q + 0.75*q*q*q)
	case q <= 2:
		d := 2 - q
		return k.alpha * 0.25 * d * d * d
	}
	return 0
}

// Grad returns the kernel gradient for displacement r.
//
// The q<=1 branch must be tested first: it is the only one reached at r=0 and
// it never divides by |r|.
func (k Kernel) Grad(r mgl64.Vec2) mgl64.Vec2 {
	l := r.Len()
	q := l / k.H
	if k.Mode == GradientAnalytic {
		switch {
		case q <= 1:
			return r.Mul(k.alpha / (k.H * k.H) * (-3 + 2.25*q))
		case q <= 2:
			d := 2 - q
			return r.Mul(-0.75 * k.alpha / k.H * d * d / l)
		}
		return mgl64.Vec2{}
	}

	switch {
	case q <= 1:
		return r.Mul(k.gradAlpha * (q - 4.0/3.0))
	case q <= 2:
		d := 2 - q
		return r.Mul(-(1.0 / 3.0) * d * d * (k.H / l))
	}
	return mgl64.Vec2{}
}
