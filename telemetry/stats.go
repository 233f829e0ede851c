// Package telemetry aggregates per-window flock statistics and per-tick
// performance timings, with optional CSV output.
package telemetry

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/fenwick-labs/murmur/boids"
	"github.com/fenwick-labs/murmur/systems"
)

// WindowStats holds aggregated flock statistics for one stats window,
// sampled at the window's closing tick.
type WindowStats struct {
	WindowEndTick int64   `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`
	Population    int     `csv:"population"`

	// Speed distribution
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Polarization is the length of the mean heading vector: 1 when every
	// agent flies the same direction, near 0 for a disordered flock.
	Polarization float64 `csv:"polarization"`

	// Spatial occupancy
	OccupiedCells    int `csv:"occupied_cells"`
	MaxCellOccupancy int `csv:"max_cell_occupancy"`

	// Agents currently past the soft boundary
	OutOfBounds int `csv:"out_of_bounds"`
}

// SpeedStats computes mean, standard deviation and the 10/50/90 percentiles
// of a speed sample. The input slice is sorted in place.
func SpeedStats(speeds []float64) (mean, std, p10, p50, p90 float64) {
	if len(speeds) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(speeds, nil)
	std = stat.StdDev(speeds, nil)
	if math.IsNaN(std) { // single sample
		std = 0
	}

	sort.Float64s(speeds)
	p10 = stat.Quantile(0.10, stat.Empirical, speeds, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, speeds, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, speeds, nil)
	return mean, std, p10, p50, p90
}

// Polarization returns the flock order parameter |mean unit velocity|.
// Stationary agents contribute a zero heading.
func Polarization(agents []boids.Agent) float64 {
	if len(agents) == 0 {
		return 0
	}

	var sumX, sumY float64
	for i := range agents {
		dir := agents[i].Vel.Norm()
		sumX += float64(dir.X)
		sumY += float64(dir.Y)
	}
	n := float64(len(agents))
	return math.Hypot(sumX/n, sumY/n)
}

// Occupancy scans the grid's offset table for the number of occupied cells
// and the largest single-cell bucket.
func Occupancy(g *systems.Grid) (occupied, maxBucket int) {
	offsets := g.Offsets()
	prev := int32(0)
	for _, o := range offsets {
		if n := int(o - prev); n > 0 {
			occupied++
			if n > maxBucket {
				maxBucket = n
			}
		}
		prev = o
	}
	return occupied, maxBucket
}
