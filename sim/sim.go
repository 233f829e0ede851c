// Package sim orchestrates the simulation: one Step advances every agent by
// dt against a frozen spatial snapshot of the previous state.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/fenwick-labs/murmur/boids"
	"github.com/fenwick-labs/murmur/config"
	"github.com/fenwick-labs/murmur/systems"
	"github.com/fenwick-labs/murmur/telemetry"
)

// parallelThreshold is the minimum population to use the worker pool.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 256

// Simulation owns the agent store and spatial grid and advances them tick by
// tick. A Simulation is single-owner: Step must not be called concurrently
// with itself or with the accessors.
type Simulation struct {
	store  *boids.Store
	grid   *systems.Grid
	force  systems.ForceParams
	limits systems.IntegrateParams
	tick   int64
	pool   *workerPool
}

// New validates the configuration, allocates all buffers once and seeds the
// initial population. A config rejected here can never reach Step.
func New(cfg *config.Config, seed int64) (*Simulation, error) {
	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	d := &cfg.Derived

	s := &Simulation{
		store: boids.NewStore(cfg.Flock.Population),
		grid:  systems.NewGrid(d.CellSize32, d.DimX, d.DimY, cfg.Flock.Population),
		force: systems.ForceParams{
			VisualRangeSq: d.VisualRangeSq,
			MinDistanceSq: d.MinDistanceSq,
			Cohesion:      d.Cohesion32,
			Separation:    d.Separation32,
			Alignment:     d.Alignment32,
		},
		limits: systems.IntegrateParams{
			MinSpeed:  d.MinSpeed32,
			MaxSpeed:  d.MaxSpeed32,
			TurnSpeed: d.TurnSpeed32,
			XBound:    d.XBound32,
			YBound:    d.YBound32,
		},
	}
	s.store.Seed(rand.New(rand.NewSource(seed)), d.XBound32, d.YBound32, d.MinSpeed32, d.MaxSpeed32)
	s.pool = newWorkerPool(s)
	return s, nil
}

// Step advances the whole flock by dt seconds: rebuild the spatial snapshot,
// then for every agent query its 3x3 neighborhood, apply flocking forces,
// clamp, steer and integrate, writing only that agent's own slot. The tick
// either completes fully or returns an error leaving the previous state in
// the write buffer untouched past the failing point's snapshot.
func (s *Simulation) Step(dt float32) error {
	if err := s.rebuild(); err != nil {
		return err
	}
	s.advance(dt)
	s.tick++
	return nil
}

// StepTimed is Step with the grid and flocking phases recorded into pc.
// The caller owns StartTick/EndTick.
func (s *Simulation) StepTimed(dt float32, pc *telemetry.PerfCollector) error {
	pc.StartPhase(telemetry.PhaseSpatialGrid)
	if err := s.rebuild(); err != nil {
		return err
	}
	pc.StartPhase(telemetry.PhaseFlocking)
	s.advance(dt)
	s.tick++
	return nil
}

func (s *Simulation) rebuild() error {
	if err := s.grid.Rebuild(s.store.Cur(), s.store.Snapshot()); err != nil {
		return fmt.Errorf("tick %d: %w", s.tick, err)
	}
	return nil
}

func (s *Simulation) advance(dt float32) {
	n := s.store.Len()
	if n < parallelThreshold {
		s.stepRange(0, n, dt)
	} else {
		s.pool.run(n, dt)
	}
}

// stepRange processes agents [i0, i1) of the sorted snapshot. Reads touch
// only the snapshot and the offset table; writes touch only each agent's own
// slot in the write buffer, so disjoint ranges are safe to run concurrently.
func (s *Simulation) stepRange(i0, i1 int, dt float32) {
	snap := s.store.Snapshot()
	cur := s.store.Cur()
	force := s.force
	limits := s.limits

	for j := i0; j < i1; j++ {
		a := snap[j]
		ranges := s.grid.NeighborRanges(s.grid.CellID(a.Pos))
		systems.Flock(&a, snap, ranges, force, dt)
		systems.Advance(&a, limits, dt)
		cur[j] = a
	}
}

// Agents returns the current agent buffer for rendering and telemetry.
// Valid between ticks only.
func (s *Simulation) Agents() []boids.Agent {
	return s.store.Cur()
}

// Grid returns the spatial index for telemetry sampling and overlays.
func (s *Simulation) Grid() *systems.Grid {
	return s.grid
}

// Tick returns the number of completed steps.
func (s *Simulation) Tick() int64 {
	return s.tick
}

// Bounds returns the effective world half-extents.
func (s *Simulation) Bounds() (x, y float32) {
	return s.limits.XBound, s.limits.YBound
}

// Gains returns the live flocking gains.
func (s *Simulation) Gains() (cohesion, separation, alignment float32) {
	return s.force.Cohesion, s.force.Separation, s.force.Alignment
}

// SetGains replaces the flocking gains for subsequent ticks. Call between
// ticks only.
func (s *Simulation) SetGains(cohesion, separation, alignment float32) {
	s.force.Cohesion = cohesion
	s.force.Separation = separation
	s.force.Alignment = alignment
}

// Close stops the worker pool. The Simulation must not be stepped after.
func (s *Simulation) Close() {
	s.pool.stop()
}
