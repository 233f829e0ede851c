package telemetry

import (
	"github.com/fenwick-labs/murmur/boids"
	"github.com/fenwick-labs/murmur/systems"
)

// Collector samples the flock at window boundaries and produces WindowStats.
type Collector struct {
	windowTicks     int64
	dt              float64
	windowStartTick int64

	speedScratch []float64
}

// NewCollector creates a stats collector.
// windowSec: how long each stats window lasts in simulation seconds.
// dt: seconds per tick.
func NewCollector(windowSec float64, dt float64) *Collector {
	ticks := int64(windowSec / dt)
	if ticks < 1 {
		ticks = 1
	}
	return &Collector{
		windowTicks: ticks,
		dt:          dt,
	}
}

// Due reports whether the current window closes at the given tick.
func (c *Collector) Due(tick int64) bool {
	return tick-c.windowStartTick >= c.windowTicks
}

// Capture samples the flock state, closes the current window and starts the
// next one. xBound/yBound are the effective soft bounds for the
// out-of-bounds count.
func (c *Collector) Capture(tick int64, agents []boids.Agent, g *systems.Grid, xBound, yBound float32) WindowStats {
	if cap(c.speedScratch) < len(agents) {
		c.speedScratch = make([]float64, len(agents))
	}
	speeds := c.speedScratch[:len(agents)]

	oob := 0
	for i := range agents {
		speeds[i] = float64(agents[i].Vel.Len())
		p := agents[i].Pos
		if p.X > xBound || p.X < -xBound || p.Y > yBound || p.Y < -yBound {
			oob++
		}
	}

	ws := WindowStats{
		WindowEndTick: tick,
		SimTimeSec:    float64(tick) * c.dt,
		Population:    len(agents),
		Polarization:  Polarization(agents),
		OutOfBounds:   oob,
	}
	ws.SpeedMean, ws.SpeedStd, ws.SpeedP10, ws.SpeedP50, ws.SpeedP90 = SpeedStats(speeds)
	ws.OccupiedCells, ws.MaxCellOccupancy = Occupancy(g)

	c.windowStartTick = tick
	return ws
}
