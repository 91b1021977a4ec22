package systems

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// SpatialGrid buckets particles into square cells over the unit domain so each
// particle only visits partners in its own and the eight adjacent cells.
//
// Cells are at least 2h wide, so any pair closer than the kernel support lands
// in adjacent cells. Positions outside the domain are clamped into the edge
// cells, which keeps that property. Candidate lists are sorted by particle
// index: summing over them adds the same non-zero terms in the same order as a
// sweep over every particle, so results match the all-pairs sum exactly.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int

	cells  [][]int // particle indices per cell, ascending
	blocks [][]int // sorted union of the 3x3 block around each cell
	cellOf []int   // cell of each particle
}

// NewSpatialGrid creates a grid over [DomainMin, DomainMax]^2 with cells no
// smaller than minCellSize.
func NewSpatialGrid(minCellSize float64) *SpatialGrid {
	span := DomainMax - DomainMin
	cols := max(int(span/minCellSize), 1)
	cellSize := span / float64(cols)

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     cols,
		cells:    make([][]int, cols*cols),
		blocks:   make([][]int, cols*cols),
	}
}

// CellSize returns the width of one cell.
func (g *SpatialGrid) CellSize() float64 {
	return g.cellSize
}

// Clear removes all particles from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
		g.blocks[i] = g.blocks[i][:0]
	}
	g.cellOf = g.cellOf[:0]
}

// Build indexes the given positions. Call once per frame before either pass;
// Candidates is then safe for concurrent use until the next Build.
func (g *SpatialGrid) Build(pos []mgl64.Vec2) {
	g.Clear()

	// Inserting in index order keeps every cell sorted
	for i, p := range pos {
		c := g.cellIndex(p)
		g.cells[c] = append(g.cells[c], i)
		g.cellOf = append(g.cellOf, c)
	}

	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			idx := row*g.cols + col
			if len(g.cells[idx]) == 0 {
				continue
			}
			block := g.blocks[idx]
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					r, c := row+dr, col+dc
					if r < 0 || r >= g.rows || c < 0 || c >= g.cols {
						continue
					}
					block = append(block, g.cells[r*g.cols+c]...)
				}
			}
			slices.Sort(block)
			g.blocks[idx] = block
		}
	}
}

// Candidates returns the ascending indices particle i must visit, itself included.
func (g *SpatialGrid) Candidates(i int) []int {
	return g.blocks[g.cellOf[i]]
}

// cellIndex returns the flat index for a position, clamped to the grid.
func (g *SpatialGrid) cellIndex(p mgl64.Vec2) int {
	return g.coord(p[1], g.rows)*g.cols + g.coord(p[0], g.cols)
}

func (g *SpatialGrid) coord(v float64, n int) int {
	f := math.Floor((v - DomainMin) / g.cellSize)
	// NaN falls into the first cell
	if !(f >= 0) {
		return 0
	}
	if f >= float64(n) {
		return n - 1
	}
	return int(f)
}
