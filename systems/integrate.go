package systems

import (
	"math"

	"github.com/fenwick-labs/murmur/boids"
)

// IntegrateParams holds the per-agent motion limits.
type IntegrateParams struct {
	MinSpeed  float32
	MaxSpeed  float32
	TurnSpeed float32
	XBound    float32
	YBound    float32
}

// Advance finishes one tick for a single agent: clamps its speed into
// [MinSpeed, MaxSpeed], steers it softly back inside the bounds, then
// integrates its position with explicit Euler.
//
// A zero-length velocity has no direction to rescale, so the clamp is
// skipped entirely rather than dividing by zero; boundary steering will give
// such an agent a velocity again on the same tick if it sits outside the
// bounds.
//
// Steering decelerates only the out-of-bounds axis component, so agents
// cross the boundary transiently instead of being position-clamped; the
// grid's margin cells absorb the overshoot. The minimum-speed clamp is
// suspended while an agent is outside the bounds: rescaling a steered agent
// back up to MinSpeed would restore the outward velocity steering just
// removed, and an axis-aligned outbound agent would then never turn around.
// Suspending it keeps the worst-case excursion at
// MaxSpeed^2 / (2*TurnSpeed), which config validation sizes the grid margin
// against.
func Advance(a *boids.Agent, p IntegrateParams, dt float32) {
	outside := a.Pos.X > p.XBound || a.Pos.X < -p.XBound ||
		a.Pos.Y > p.YBound || a.Pos.Y < -p.YBound

	speed := float32(math.Sqrt(float64(a.Vel.X*a.Vel.X + a.Vel.Y*a.Vel.Y)))
	if speed > 0 {
		clamped := speed
		if clamped < p.MinSpeed && !outside {
			clamped = p.MinSpeed
		} else if clamped > p.MaxSpeed {
			clamped = p.MaxSpeed
		}
		if clamped != speed {
			scale := clamped / speed
			a.Vel.X *= scale
			a.Vel.Y *= scale
		}
	}

	if a.Pos.X > p.XBound {
		a.Vel.X -= p.TurnSpeed * dt
	} else if a.Pos.X < -p.XBound {
		a.Vel.X += p.TurnSpeed * dt
	}
	if a.Pos.Y > p.YBound {
		a.Vel.Y -= p.TurnSpeed * dt
	} else if a.Pos.Y < -p.YBound {
		a.Vel.Y += p.TurnSpeed * dt
	}

	a.Pos.X += a.Vel.X * dt
	a.Pos.Y += a.Vel.Y * dt
}
