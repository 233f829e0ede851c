// Package systems provides the per-tick simulation pipeline: the spatial
// index, the flocking force model and the integrator.
package systems

import (
	"fmt"
	"math"

	"github.com/fenwick-labs/murmur/boids"
	"github.com/fenwick-labs/murmur/geom"
)

// Grid is the flattened uniform spatial index, rebuilt from scratch every
// tick by a three-pass counting sort. Cell ids are row-major
// (id = dimX*cellY + cellX) and the grid is centered on the world origin;
// this layout is load-bearing: NeighborRanges derives its row windows from
// row contiguity of consecutive ids.
//
// The offset table, cell id and rank buffers are tick-scoped scratch owned
// by the grid and reused across rebuilds.
type Grid struct {
	cellSize float32
	dimX     int
	dimY     int
	total    int

	// offsets[c] is the exclusive upper bound in the sorted buffer of all
	// agents with cell id <= c, once Rebuild has run.
	offsets []int32
	cellIDs []int32
	ranks   []int32
}

// Range is a half-open [Lo, Hi) span of indices into the sorted buffer.
type Range struct {
	Lo, Hi int32
}

// NewGrid allocates a grid with the given geometry for a fixed population.
// Dimensions must already include the margin cells the neighbor window
// needs; that is validated by config, not here.
func NewGrid(cellSize float32, dimX, dimY, population int) *Grid {
	return &Grid{
		cellSize: cellSize,
		dimX:     dimX,
		dimY:     dimY,
		total:    dimX * dimY,
		offsets:  make([]int32, dimX*dimY),
		cellIDs:  make([]int32, population),
		ranks:    make([]int32, population),
	}
}

// CellSize returns the side length of one cell.
func (g *Grid) CellSize() float32 {
	return g.cellSize
}

// Dims returns the grid dimensions in cells.
func (g *Grid) Dims() (dimX, dimY int) {
	return g.dimX, g.dimY
}

// TotalCells returns the number of cells in the grid.
func (g *Grid) TotalCells() int {
	return g.total
}

// CellID maps a position to its flattened cell id. The result is only
// guaranteed to lie in [0, TotalCells) for positions inside the padded
// grid extent.
func (g *Grid) CellID(p geom.Vec2) int {
	cx := int(math.Floor(float64(p.X/g.cellSize))) + g.dimX/2
	cy := int(math.Floor(float64(p.Y/g.cellSize))) + g.dimY/2
	return g.dimX*cy + cx
}

// Rebuild counting-sorts agents by cell id into dst and refreshes the offset
// table. dst must be a distinct buffer of the same length as agents.
//
// Within a cell's bucket agents land in reverse arrival order; callers may
// rely only on the bucket ranges, not the order inside them.
//
// An out-of-range cell id means an agent escaped the padded grid, which a
// validated configuration makes unreachable; it is reported as an error
// rather than clamped, since clamping would silently corrupt neighbor
// queries.
func (g *Grid) Rebuild(agents, dst []boids.Agent) error {
	for i := range g.offsets {
		g.offsets[i] = 0
	}

	// Pass 1: histogram. ranks[i] is agent i's zero-based arrival position
	// within its own cell.
	for i := range agents {
		c := g.CellID(agents[i].Pos)
		if c < 0 || c >= g.total {
			return fmt.Errorf("grid: agent %d at %v maps to cell %d outside [0, %d): insufficient margin", i, agents[i].Pos, c, g.total)
		}
		g.cellIDs[i] = int32(c)
		g.ranks[i] = g.offsets[c]
		g.offsets[c]++
	}

	// Pass 2: prefix sum turns counts into cumulative upper bounds.
	for c := 1; c < g.total; c++ {
		g.offsets[c] += g.offsets[c-1]
	}

	// Pass 3: scatter.
	for i := range agents {
		c := g.cellIDs[i]
		dst[g.offsets[c]-1-g.ranks[i]] = agents[i]
	}

	return nil
}

// Bucket returns the sorted-buffer span holding exactly the agents of cell c.
func (g *Grid) Bucket(c int) Range {
	lo := int32(0)
	if c > 0 {
		lo = g.offsets[c-1]
	}
	return Range{Lo: lo, Hi: g.offsets[c]}
}

// NeighborRanges returns the three disjoint sorted-buffer spans that together
// cover the 3x3 cell neighborhood of cell c. For each row band y in
// {c-dimX, c, c+dimX} the span [offsets[y-2], offsets[y+1]) covers the three
// horizontally adjacent cells {y-1, y, y+1}, because ids within a row are
// contiguous. Band indices past the grid edges clamp to the conceptual
// offsets[-1] = 0 and offsets[total] = offsets[total-1], so the query is safe
// for every cell, margin rings included. Spans for edge-column cells can wrap
// a neighboring row; the distance test downstream filters those agents out.
func (g *Grid) NeighborRanges(c int) [3]Range {
	var out [3]Range
	for i, y := range [3]int{c - g.dimX, c, c + g.dimX} {
		out[i] = Range{Lo: g.offsetAt(y - 2), Hi: g.offsetAt(y + 1)}
	}
	return out
}

func (g *Grid) offsetAt(k int) int32 {
	if k < 0 {
		return 0
	}
	if k >= g.total {
		return g.offsets[g.total-1]
	}
	return g.offsets[k]
}

// Offsets exposes the offset table for telemetry sampling and tests.
// Read-only between ticks.
func (g *Grid) Offsets() []int32 {
	return g.offsets
}
