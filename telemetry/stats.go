package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/sph/components"
)

// WindowStats holds fluid statistics sampled at the end of a stats window,
// plus wall collisions counted over the window.
type WindowStats struct {
	WindowStartFrame int32   `csv:"-"`
	WindowEndFrame   int32   `csv:"window_end"`
	SimTimeSec       float64 `csv:"sim_time"`
	Particles        int     `csv:"particles"`

	DensityMean float64 `csv:"density_mean"`
	DensityStd  float64 `csv:"density_std"`
	DensityMin  float64 `csv:"density_min"`
	DensityP50  float64 `csv:"density_p50"`
	DensityMax  float64 `csv:"density_max"`
	PressureMax float64 `csv:"pressure_max"`

	KineticEnergy float64 `csv:"kinetic_energy"`
	MaxSpeed      float64 `csv:"max_speed"`
	CentroidX     float64 `csv:"centroid_x"`
	CentroidY     float64 `csv:"centroid_y"`

	WallHitsX   int `csv:"wall_hits_x"`
	WallHitsY   int `csv:"wall_hits_y"`
	OutOfDomain int `csv:"out_of_domain"` // outside [0,1]^2 at window end
}

// FieldStats summarizes one scalar field.
type FieldStats struct {
	Mean, Std, Min, P50, Max float64
}

// ComputeFieldStats returns summary statistics of values. Zero for an empty slice.
func ComputeFieldStats(values []float64) FieldStats {
	if len(values) == 0 {
		return FieldStats{}
	}
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return FieldStats{
		Mean: mean,
		Std:  std,
		Min:  floats.Min(values),
		P50:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Max:  floats.Max(values),
	}
}

// SampleParticles fills the particle-derived fields of s.
func (s *WindowStats) SampleParticles(p *components.Particles, mass float64) {
	n := p.Len()
	s.Particles = n
	if n == 0 {
		return
	}

	d := ComputeFieldStats(p.Density)
	s.DensityMean, s.DensityStd, s.DensityMin, s.DensityP50, s.DensityMax = d.Mean, d.Std, d.Min, d.P50, d.Max
	s.PressureMax = floats.Max(p.Pressure)

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		pos := p.Position[i]
		xs[i], ys[i] = pos[0], pos[1]
		if pos[0] < 0 || pos[0] > 1 || pos[1] < 0 || pos[1] > 1 {
			s.OutOfDomain++
		}

		v := p.Velocity[i]
		speed2 := v.Dot(v)
		s.KineticEnergy += 0.5 * mass * speed2
		if speed := v.Len(); speed > s.MaxSpeed {
			s.MaxSpeed = speed
		}
	}
	s.CentroidX = stat.Mean(xs, nil)
	s.CentroidY = stat.Mean(ys, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartFrame)),
		slog.Int("window_end", int(s.WindowEndFrame)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("density_std", s.DensityStd),
		slog.Float64("density_min", s.DensityMin),
		slog.Float64("density_p50", s.DensityP50),
		slog.Float64("density_max", s.DensityMax),
		slog.Float64("pressure_max", s.PressureMax),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("max_speed", s.MaxSpeed),
		slog.Float64("centroid_x", s.CentroidX),
		slog.Float64("centroid_y", s.CentroidY),
		slog.Int("wall_hits_x", s.WallHitsX),
		slog.Int("wall_hits_y", s.WallHitsY),
		slog.Int("out_of_domain", s.OutOfDomain),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"sim_time", s.SimTimeSec,
		"density_mean", s.DensityMean,
		"density_max", s.DensityMax,
		"pressure_max", s.PressureMax,
		"kinetic_energy", s.KineticEnergy,
		"max_speed", s.MaxSpeed,
		"centroid_y", s.CentroidY,
		"wall_hits_x", s.WallHitsX,
		"wall_hits_y", s.WallHitsY,
		"out_of_domain", s.OutOfDomain,
	)
}
