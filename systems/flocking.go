package systems

import (
	"github.com/fenwick-labs/murmur/boids"
	"github.com/fenwick-labs/murmur/geom"
)

// ForceParams holds the flocking gains applied during one tick. All factors
// are per-second rates, scaled by dt on application.
type ForceParams struct {
	VisualRangeSq float32
	MinDistanceSq float32
	Cohesion      float32
	Separation    float32
	Alignment     float32
}

// Flock accumulates cohesion, alignment and separation over the agents in
// the given sorted-buffer spans and applies the resulting velocity deltas to
// self. The spans come from Grid.NeighborRanges and include self's own slot;
// it is skipped by the zero-distance test, as is any agent at the exact same
// position.
//
// Cohesion and alignment only act when at least one neighbor is inside the
// visual range. The separation delta is applied unconditionally; it is zero
// when no neighbor is closer than the minimum distance.
func Flock(self *boids.Agent, sorted []boids.Agent, ranges [3]Range, p ForceParams, dt float32) {
	var center, avgVel, closePush geom.Vec2
	var count int

	for _, r := range ranges {
		for j := r.Lo; j < r.Hi; j++ {
			other := &sorted[j]
			dx := self.Pos.X - other.Pos.X
			dy := self.Pos.Y - other.Pos.Y
			d2 := dx*dx + dy*dy
			if d2 == 0 || d2 > p.VisualRangeSq {
				continue
			}

			center.X += other.Pos.X
			center.Y += other.Pos.Y
			avgVel.X += other.Vel.X
			avgVel.Y += other.Vel.Y
			count++

			if d2 < p.MinDistanceSq {
				// Inverse-distance-weighted repulsion.
				closePush.X += dx / d2
				closePush.Y += dy / d2
			}
		}
	}

	if count > 0 {
		inv := 1 / float32(count)
		self.Vel.X += (center.X*inv - self.Pos.X) * p.Cohesion * dt
		self.Vel.Y += (center.Y*inv - self.Pos.Y) * p.Cohesion * dt
		self.Vel.X += (avgVel.X*inv - self.Vel.X) * p.Alignment * dt
		self.Vel.Y += (avgVel.Y*inv - self.Vel.Y) * p.Alignment * dt
	}

	self.Vel.X += closePush.X * p.Separation * dt
	self.Vel.Y += closePush.Y * p.Separation * dt
}
