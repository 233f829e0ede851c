// Package geom provides the small 2D vector math used throughout the simulation.
package geom

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used for float32 comparisons in Eq.
const Epsilon = 1e-5

// Vec2 represents a 2D vector or point in cartesian space.
// Fields are public fundamental data; literal initialization is the norm.
type Vec2 struct {
	X, Y float32
}

// FromPolar creates a vector from polar coordinates. theta is in radians.
func FromPolar(radius, theta float32) Vec2 {
	return Vec2{
		X: radius * float32(math.Cos(float64(theta))),
		Y: radius * float32(math.Sin(float64(theta))),
	}
}

// String implements fmt.Stringer.
func (v Vec2) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// LenSq returns the squared length of v. Preferred in hot paths.
func (v Vec2) LenSq() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Len returns the length of v.
func (v Vec2) Len() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Norm returns the unit vector in the direction of v.
// The zero vector is returned unchanged.
func (v Vec2) Norm() Vec2 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vec2{v.X / l, v.Y / l}
}

// Dot returns the dot product of v and other.
func (v Vec2) Dot(other Vec2) float32 {
	return v.X*other.X + v.Y*other.Y
}

// Eq reports whether v and other are equal within Epsilon per component.
func (v Vec2) Eq(other Vec2) bool {
	return float32(math.Abs(float64(v.X-other.X))) <= Epsilon &&
		float32(math.Abs(float64(v.Y-other.Y))) <= Epsilon
}
