package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/game"
	"github.com/pthm-cable/sph/telemetry"
)

// failedRunPenalty is the fitness of a run that halted on a frame error.
const failedRunPenalty = 1e6

// FitnessEvaluator runs headless simulations and scores how close the fluid
// settles to a target mean density.
type FitnessEvaluator struct {
	params        *ParamVector
	frames        int32
	seeds         []int64
	baseConfig    *config.Config
	targetDensity float64
	escapeWeight  float64

	mu       sync.Mutex
	lastMean float64 // mean density from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, frames int32, seeds []int64, baseCfg *config.Config, targetDensity float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:        params,
		frames:        frames,
		seeds:         seeds,
		baseConfig:    baseCfg,
		targetDensity: targetDensity,
		escapeWeight:  10,
	}
}

// LastMeanDensity returns the seed-averaged mean density of the most recent evaluation.
func (fe *FitnessEvaluator) LastMeanDensity() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMean
}

// runResult holds the results from a single simulation run.
type runResult struct {
	density     telemetry.FieldStats
	outOfDomain int
	err         error
}

// Evaluate computes fitness for raw parameter values (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Run all seeds in parallel
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var total, meanSum float64
	for _, r := range results {
		total += fe.score(r, cfg.Fluid.ParticleCount)
		meanSum += r.density.Mean
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastMean = meanSum / n
	fe.mu.Unlock()

	return total / n
}

// score turns one run into a fitness value.
// Relative density error is squared; particles that left the domain add a
// weighted fraction on top.
func (fe *FitnessEvaluator) score(r runResult, particles int) float64 {
	if r.err != nil || math.IsNaN(r.density.Mean) {
		return failedRunPenalty
	}
	rel := r.density.Mean/fe.targetDensity - 1
	escaped := float64(r.outOfDomain) / float64(particles)
	return rel*rel + fe.escapeWeight*escaped
}

// runSimulation runs one headless simulation for a seed.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runResult {
	g, err := game.NewGameWithOptions(game.Options{
		Config:   cfg,
		Seed:     seed,
		Headless: true,
		Workers:  1, // seeds already run in parallel
	})
	if err != nil {
		return runResult{err: err}
	}
	defer g.Unload()

	for g.Frame() < fe.frames {
		if err := g.Step(); err != nil {
			return runResult{err: err}
		}
	}

	p := g.Particles()
	res := runResult{density: telemetry.ComputeFieldStats(p.Density)}
	for _, pos := range p.Position {
		if pos[0] < 0 || pos[0] > 1 || pos[1] < 0 || pos[1] > 1 {
			res.outOfDomain++
		}
	}
	return res
}

// copyConfig returns an independent copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	// Config holds only values, so a shallow copy is independent
	cfg := *fe.baseConfig
	return &cfg
}
