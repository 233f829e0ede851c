package sim

import (
	"math"
	"testing"

	"github.com/fenwick-labs/murmur/boids"
	"github.com/fenwick-labs/murmur/config"
	"github.com/fenwick-labs/murmur/geom"
)

func testConfig(t *testing.T, population int) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Flock.Population = population
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalizing test config: %v", err)
	}
	return cfg
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Flock.Population = 0

	if _, err := New(cfg, 1); err == nil {
		t.Fatal("New accepted a zero population")
	}

	cfg2, _ := config.Load("")
	cfg2.Grid.MarginCells = 1
	if _, err := New(cfg2, 1); err == nil {
		t.Fatal("New accepted an insufficient grid margin")
	}
}

func TestStepKeepsPopulationValid(t *testing.T) {
	cfg := testConfig(t, 400)
	s, err := New(cfg, 42)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	const dt = 1.0 / 60.0
	for i := 0; i < 120; i++ {
		if err := s.Step(dt); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}

	if got := len(s.Agents()); got != 400 {
		t.Fatalf("population changed: %d agents", got)
	}

	min := cfg.Derived.MinSpeed32
	max := cfg.Derived.MaxSpeed32
	for i, a := range s.Agents() {
		if math.IsNaN(float64(a.Pos.X)) || math.IsNaN(float64(a.Vel.X)) ||
			math.IsNaN(float64(a.Pos.Y)) || math.IsNaN(float64(a.Vel.Y)) {
			t.Fatalf("agent %d degenerated to NaN: %+v", i, a)
		}
		speed := a.Vel.Len()
		if speed < min-1e-2 || speed > max+1e-2 {
			t.Fatalf("agent %d speed %g outside [%g, %g]", i, speed, min, max)
		}
	}
}

func TestStepDeterministic(t *testing.T) {
	cfg1 := testConfig(t, 300)
	cfg2 := testConfig(t, 300)

	a, err := New(cfg1, 7)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	b, err := New(cfg2, 7)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer b.Close()

	const dt = 1.0 / 60.0
	for i := 0; i < 60; i++ {
		if err := a.Step(dt); err != nil {
			t.Fatalf("Step: %v", err)
		}
		if err := b.Step(dt); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	for i := range a.Agents() {
		if a.Agents()[i] != b.Agents()[i] {
			t.Fatalf("tick 60 diverged at agent %d: %+v vs %+v", i, a.Agents()[i], b.Agents()[i])
		}
	}
}

// TestParallelMatchesSequential drives one simulation through the worker pool
// and an identical one through the sequential path. Because every agent reads
// the same frozen snapshot and writes only its own slot, processing order
// must not affect the result.
func TestParallelMatchesSequential(t *testing.T) {
	// Above parallelThreshold so Step uses the pool.
	cfg1 := testConfig(t, parallelThreshold*4)
	cfg2 := testConfig(t, parallelThreshold*4)

	par, err := New(cfg1, 99)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer par.Close()
	seq, err := New(cfg2, 99)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer seq.Close()

	const dt = 1.0 / 60.0
	for i := 0; i < 30; i++ {
		if err := par.Step(dt); err != nil {
			t.Fatalf("parallel Step: %v", err)
		}

		// Sequential path, same pipeline.
		if err := seq.grid.Rebuild(seq.store.Cur(), seq.store.Snapshot()); err != nil {
			t.Fatalf("Rebuild: %v", err)
		}
		seq.stepRange(0, seq.store.Len(), dt)
		seq.tick++
	}

	for i := range par.Agents() {
		if par.Agents()[i] != seq.Agents()[i] {
			t.Fatalf("parallel and sequential stepping diverged at agent %d", i)
		}
	}
}

func TestSoftContainment(t *testing.T) {
	cfg := testConfig(t, 200)
	s, err := New(cfg, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	// Long run: soft steering plus the grid margin must keep every agent
	// inside the padded grid, or Step reports the escape as an error.
	const dt = 1.0 / 60.0
	for i := 0; i < 1800; i++ {
		if err := s.Step(dt); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}

	xB, yB := s.Bounds()
	// Worst-case overshoot: full speed outward, decelerated by turn_speed,
	// plus one cell of discretization slack.
	maxSpeed := cfg.Derived.MaxSpeed32
	slack := maxSpeed*maxSpeed/(2*cfg.Derived.TurnSpeed32) + cfg.Derived.CellSize32
	for i, a := range s.Agents() {
		if a.Pos.X > xB+slack || a.Pos.X < -xB-slack || a.Pos.Y > yB+slack || a.Pos.Y < -yB-slack {
			t.Errorf("agent %d drifted to %v, far outside bounds (%g, %g)", i, a.Pos, xB, yB)
		}
	}
}

// TestOutboundAgentsTurnAround plants agents deep in the margin moving
// straight outward at minimum speed, the worst case for boundary steering:
// axis-aligned and diagonal headings gain no inward pull from the other axis,
// and a minimum-speed rescale would cancel the steering entirely. Both must
// decelerate, turn around and re-enter without the grid ever seeing a cell id
// it cannot serve.
func TestOutboundAgentsTurnAround(t *testing.T) {
	cfg := testConfig(t, 200)
	s, err := New(cfg, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	min := cfg.Derived.MinSpeed32
	diag := min / float32(math.Sqrt2)
	s.store.Cur()[0] = boids.Agent{
		Pos: geom.Vec2{X: -700, Y: -440},
		Vel: geom.Vec2{X: -diag, Y: -diag},
	}
	s.store.Cur()[1] = boids.Agent{
		Pos: geom.Vec2{X: -700, Y: 0},
		Vel: geom.Vec2{X: -min, Y: 0},
	}

	const dt = 1.0 / 60.0
	for i := 0; i < 600; i++ {
		if err := s.Step(dt); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}

	xB, yB := s.Bounds()
	maxSpeed := cfg.Derived.MaxSpeed32
	slack := maxSpeed*maxSpeed/(2*cfg.Derived.TurnSpeed32) + cfg.Derived.CellSize32
	for _, i := range []int{0, 1} {
		a := s.Agents()[i]
		if a.Pos.X < -xB-slack || a.Pos.Y < -yB-slack {
			t.Errorf("agent %d still at %v after 600 ticks; steering never brought it back", i, a.Pos)
		}
	}
}

func TestSetGains(t *testing.T) {
	cfg := testConfig(t, 100)
	s, err := New(cfg, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	s.SetGains(0.5, 12, 2.5)
	coh, sep, align := s.Gains()
	if coh != 0.5 || sep != 12 || align != 2.5 {
		t.Fatalf("Gains = (%g, %g, %g); want (0.5, 12, 2.5)", coh, sep, align)
	}
}
