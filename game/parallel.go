package game

import (
	"sync"

	"github.com/pthm-cable/sph/systems"
)

// passKind selects which half of the frame a chunk runs.
type passKind uint8

const (
	passDensity passKind = iota
	passForces
)

// workChunk represents a range of particles for a worker to process.
type workChunk struct {
	index      int
	start, end int
	pass       passKind
}

// chunkResult is what a worker reports back for one chunk.
type chunkResult struct {
	index int
	hits  systems.BoundaryHits
	err   error
}

// parallelState holds the persistent worker pool used by both passes.
type parallelState struct {
	numWorkers int
	threshold  int

	// Worker pool channels
	workChan chan workChunk   // sends work to workers
	doneChan chan chunkResult // workers report completion
	stopChan chan struct{}    // signals workers to exit
	wg       sync.WaitGroup   // tracks active workers
	running  bool             // true if workers are running
}

func newParallelState(numWorkers, threshold int) *parallelState {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &parallelState{
		numWorkers: numWorkers,
		threshold:  threshold,
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(g *Game) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan chunkResult, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(g)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(g *Game) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.doneChan <- g.runChunk(chunk)
		}
	}
}

// run executes one pass over all particles and returns once every chunk has
// finished. Returning is the barrier between the two passes of a frame.
// When several chunks fail, the error from the lowest particle range wins so
// the reported error does not depend on scheduling.
func (p *parallelState) run(g *Game, pass passKind) (systems.BoundaryHits, error) {
	n := g.particles.Len()

	// Single-threaded for small particle counts
	if p.numWorkers == 1 || n < p.threshold {
		res := g.runChunk(workChunk{start: 0, end: n, pass: pass})
		return res.hits, res.err
	}

	if !p.running {
		p.startWorkers(g)
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	// Dispatch chunks to workers
	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}

		p.workChan <- workChunk{index: chunksDispatched, start: start, end: end, pass: pass}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	var hits systems.BoundaryHits
	var firstErr error
	firstIndex := -1
	for i := 0; i < chunksDispatched; i++ {
		res := <-p.doneChan
		hits.Add(res.hits)
		if res.err != nil && (firstIndex < 0 || res.index < firstIndex) {
			firstErr = res.err
			firstIndex = res.index
		}
	}
	return hits, firstErr
}

// runChunk processes a range of particles for a single worker.
// Density chunks write only density and pressure of their own range.
// Force chunks write only their own kinematics, color and next positions.
func (g *Game) runChunk(c workChunk) chunkResult {
	res := chunkResult{index: c.index}
	switch c.pass {
	case passDensity:
		res.err = systems.ComputeDensityPressure(g.particles, &g.params, c.start, c.end)
	case passForces:
		res.err = systems.IntegrateForces(g.particles, &g.params, c.start, c.end, &res.hits)
	}
	return res
}

// stopParallelWorkers should be called when shutting down the game.
func (g *Game) stopParallelWorkers() {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}
}
