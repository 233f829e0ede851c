package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/fenwick-labs/murmur/geom"
	"github.com/fenwick-labs/murmur/systems"
)

// GridOverlay visualizes the spatial index occupancy for debugging.
type GridOverlay struct {
	view *View
}

// NewGridOverlay creates a grid occupancy overlay.
func NewGridOverlay(view *View) *GridOverlay {
	return &GridOverlay{view: view}
}

// Draw shades every occupied cell by its bucket size.
func (o *GridOverlay) Draw(g *systems.Grid) {
	dimX, dimY := g.Dims()
	cs := g.CellSize()
	offsets := g.Offsets()

	prev := int32(0)
	for c, off := range offsets {
		n := int(off - prev)
		prev = off
		if n == 0 {
			continue
		}

		cx := c % dimX
		cy := c / dimX
		// Top-left corner of the cell in world space (y up).
		corner := geom.Vec2{
			X: float32(cx-dimX/2) * cs,
			Y: float32(cy-dimY/2)*cs + cs,
		}
		screen := o.view.ToScreen(corner)
		side := cs * o.view.Scale()

		a := 20 + 12*n
		if a > 235 {
			a = 235
		}
		alpha := uint8(a)
		rl.DrawRectangle(int32(screen.X), int32(screen.Y), int32(side), int32(side),
			rl.Color{R: 90, G: 200, B: 120, A: alpha})
	}
}

// DrawBounds outlines the soft boundary agents are steered back from.
func DrawBounds(view *View, xBound, yBound float32) {
	topLeft := view.ToScreen(geom.Vec2{X: -xBound, Y: yBound})
	bottomRight := view.ToScreen(geom.Vec2{X: xBound, Y: -yBound})
	rl.DrawRectangleLines(
		int32(topLeft.X), int32(topLeft.Y),
		int32(bottomRight.X-topLeft.X), int32(bottomRight.Y-topLeft.Y),
		rl.Color{R: 255, G: 255, B: 255, A: 60},
	)
}
