package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorBasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSpatialGrid)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseFlocking)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if _, ok := stats.PhaseAvg[PhaseSpatialGrid]; !ok {
		t.Error("expected spatial_grid phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseFlocking]; !ok {
		t.Error("expected flocking phase to be tracked")
	}
	if stats.MinTickDuration > stats.MaxTickDuration {
		t.Errorf("min tick %v exceeds max tick %v", stats.MinTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	// Overfill the window; sample count must cap at the window size.
	for i := 0; i < 12; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSpatialGrid)
		pc.EndTick()
	}

	if pc.sampleCount != 5 {
		t.Errorf("sampleCount = %d; want window size 5", pc.sampleCount)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	pc := NewPerfCollector(10)
	stats := pc.Stats()

	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Error("empty collector must report zero stats")
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	pc := NewPerfCollector(4)
	pc.StartTick()
	pc.StartPhase(PhaseSpatialGrid)
	time.Sleep(time.Millisecond)
	pc.StartPhase(PhaseFlocking)
	time.Sleep(time.Millisecond)
	pc.EndTick()

	rec := pc.Stats().ToCSV(240)
	if rec.WindowEnd != 240 {
		t.Errorf("WindowEnd = %d; want 240", rec.WindowEnd)
	}
	if rec.AvgTickUs <= 0 {
		t.Error("AvgTickUs must be positive after a timed tick")
	}
	if rec.SpatialGridUs <= 0 || rec.FlockingUs <= 0 {
		t.Error("phase timings must be positive after timed phases")
	}
}
