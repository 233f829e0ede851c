// Package renderer draws the flock and debug overlays with raylib. The
// simulation core never imports it; it only consumes the read-only agent
// view between ticks.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/fenwick-labs/murmur/boids"
	"github.com/fenwick-labs/murmur/geom"
)

// View maps world coordinates (origin-centered, y up) onto the screen.
type View struct {
	scale   float32
	centerX float32
	centerY float32
}

// NewView fits the world half-extents plus padding into the screen.
func NewView(screenW, screenH int32, xBound, yBound, pad float32) *View {
	sx := float32(screenW) / (2 * (xBound + pad))
	sy := float32(screenH) / (2 * (yBound + pad))
	scale := sx
	if sy < sx {
		scale = sy
	}
	return &View{
		scale:   scale,
		centerX: float32(screenW) / 2,
		centerY: float32(screenH) / 2,
	}
}

// ToScreen converts a world position to screen coordinates.
func (v *View) ToScreen(p geom.Vec2) rl.Vector2 {
	return rl.Vector2{
		X: v.centerX + p.X*v.scale,
		Y: v.centerY - p.Y*v.scale,
	}
}

// Scale returns the world-to-screen scale factor.
func (v *View) Scale() float32 {
	return v.scale
}

// FlockRenderer draws one triangle per agent, nose pointing along velocity.
type FlockRenderer struct {
	view     *View
	size     float32 // triangle length in world units
	maxSpeed float32 // for speed tinting
}

// NewFlockRenderer creates a flock renderer.
func NewFlockRenderer(view *View, size, maxSpeed float32) *FlockRenderer {
	return &FlockRenderer{view: view, size: size, maxSpeed: maxSpeed}
}

// Draw renders every agent. Faster agents are tinted brighter.
func (r *FlockRenderer) Draw(agents []boids.Agent) {
	s := r.size
	for i := range agents {
		a := &agents[i]

		dir := a.Vel.Norm()
		if dir.X == 0 && dir.Y == 0 {
			dir = geom.Vec2{X: 1, Y: 0}
		}
		perp := geom.Vec2{X: -dir.Y, Y: dir.X}

		tip := a.Pos.Add(dir.Scale(s))
		base := a.Pos.Sub(dir.Scale(s * 0.6))
		left := base.Add(perp.Scale(s * 0.45))
		right := base.Sub(perp.Scale(s * 0.45))

		// Vertex order matters: counter-clockwise on screen or the
		// triangle is culled.
		rl.DrawTriangle(
			r.view.ToScreen(tip),
			r.view.ToScreen(left),
			r.view.ToScreen(right),
			r.tint(a.Vel.Len()),
		)
	}
}

func (r *FlockRenderer) tint(speed float32) rl.Color {
	t := speed / r.maxSpeed
	if t > 1 {
		t = 1
	}
	return rl.Color{
		R: uint8(120 + 120*t),
		G: uint8(140 + 100*t),
		B: 255,
		A: 255,
	}
}
