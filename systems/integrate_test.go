package systems

import (
	"math"
	"testing"

	"github.com/fenwick-labs/murmur/boids"
	"github.com/fenwick-labs/murmur/geom"
)

var testLimits = IntegrateParams{
	MinSpeed:  10,
	MaxSpeed:  20,
	TurnSpeed: 50,
	XBound:    100,
	YBound:    100,
}

func TestAdvanceSpeedClamp(t *testing.T) {
	tests := []struct {
		name      string
		vel       geom.Vec2
		wantSpeed float32
	}{
		{"below min", geom.Vec2{X: 3, Y: 4}, 10},
		{"above max", geom.Vec2{X: 30, Y: 40}, 20},
		{"in range", geom.Vec2{X: 9, Y: 12}, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := boids.Agent{Vel: tt.vel}
			dir := tt.vel.Norm()
			Advance(&a, testLimits, 0.01)

			speed := a.Vel.Len()
			if !approx(speed, tt.wantSpeed) {
				t.Errorf("speed after clamp = %g; want %g", speed, tt.wantSpeed)
			}
			if !a.Vel.Norm().Eq(dir) {
				t.Errorf("direction changed by clamp: %v -> %v", dir, a.Vel.Norm())
			}
		})
	}
}

func TestAdvanceZeroVelocity(t *testing.T) {
	// Zero speed has no direction; the clamp is skipped and no NaN appears.
	a := boids.Agent{Pos: geom.Vec2{X: 5, Y: 5}}
	Advance(&a, testLimits, 0.1)

	if math.IsNaN(float64(a.Vel.X)) || math.IsNaN(float64(a.Vel.Y)) {
		t.Fatalf("zero-velocity agent produced NaN: %v", a.Vel)
	}
	if a.Vel != (geom.Vec2{}) {
		t.Errorf("stationary in-bounds agent gained velocity %v", a.Vel)
	}
	if a.Pos != (geom.Vec2{X: 5, Y: 5}) {
		t.Errorf("stationary agent moved to %v", a.Pos)
	}
}

func TestAdvanceBoundarySteering(t *testing.T) {
	const dt = 0.1

	// Past the right edge with no velocity: steered inward by turnSpeed*dt.
	a := boids.Agent{Pos: geom.Vec2{X: testLimits.XBound + 1, Y: 0}}
	Advance(&a, testLimits, dt)
	if !approx(a.Vel.X, -testLimits.TurnSpeed*dt) {
		t.Errorf("vel.x = %g; want %g", a.Vel.X, -testLimits.TurnSpeed*dt)
	}

	// Past the bottom edge, symmetric on y.
	b := boids.Agent{Pos: geom.Vec2{X: 0, Y: -(testLimits.YBound + 3)}}
	Advance(&b, testLimits, dt)
	if !approx(b.Vel.Y, testLimits.TurnSpeed*dt) {
		t.Errorf("vel.y = %g; want %g", b.Vel.Y, testLimits.TurnSpeed*dt)
	}

	// Position is not clamped; the agent remains past the edge this tick.
	if a.Pos.X <= testLimits.XBound {
		t.Errorf("position was clamped to %g", a.Pos.X)
	}
}

func TestAdvanceNoMinClampOutsideBounds(t *testing.T) {
	const dt = 0.1

	// Slow outbound agent past the right edge. Rescaling it up to MinSpeed
	// would restore the outward velocity steering removes each tick and the
	// agent would never turn around; outside the bounds only steering acts.
	a := boids.Agent{
		Pos: geom.Vec2{X: testLimits.XBound + 2, Y: 0},
		Vel: geom.Vec2{X: 3, Y: 0}, // below MinSpeed
	}
	Advance(&a, testLimits, dt)

	want := 3 - testLimits.TurnSpeed*dt
	if !approx(a.Vel.X, want) {
		t.Errorf("vel.x = %g; want %g with the min clamp suspended", a.Vel.X, want)
	}

	// The max clamp still applies outside.
	b := boids.Agent{
		Pos: geom.Vec2{X: testLimits.XBound + 2, Y: 0},
		Vel: geom.Vec2{X: testLimits.MaxSpeed * 2, Y: 0},
	}
	Advance(&b, testLimits, dt)
	if !approx(b.Vel.X, testLimits.MaxSpeed-testLimits.TurnSpeed*dt) {
		t.Errorf("vel.x = %g; want max clamp then steering", b.Vel.X)
	}
}

func TestAdvanceEulerUpdate(t *testing.T) {
	const dt = 0.25
	a := boids.Agent{
		Pos: geom.Vec2{X: 1, Y: 2},
		Vel: geom.Vec2{X: 9, Y: 12}, // speed 15, inside [10, 20]
	}
	Advance(&a, testLimits, dt)

	want := geom.Vec2{X: 1 + 9*dt, Y: 2 + 12*dt}
	if !a.Pos.Eq(want) {
		t.Errorf("pos = %v; want %v", a.Pos, want)
	}
}
