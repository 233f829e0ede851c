package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Gains is the set of live-tunable flocking factors bound to the panel.
type Gains struct {
	Cohesion   float32
	Separation float32
	Alignment  float32
}

// TuningPanel renders raygui sliders for the flocking gains. The host reads
// the updated Gains back after Draw and pushes them into the simulation.
type TuningPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewTuningPanel creates the tuning panel anchored at (x, y).
func NewTuningPanel(x, y, width int32) *TuningPanel {
	return &TuningPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggle switches panel visibility and returns the new state.
func (p *TuningPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the panel is shown.
func (p *TuningPanel) IsVisible() bool {
	return p.visible
}

// Draw renders the panel and returns the possibly slider-adjusted gains.
func (p *TuningPanel) Draw(g Gains) Gains {
	if !p.visible {
		return g
	}

	r := p.renderer
	pad := r.Theme.Padding
	line := r.Theme.LineHeight

	height := line*7 + pad*2
	r.DrawPanel(p.x, p.y, p.width, height)

	y := p.y + pad
	y = r.DrawSectionHeader(p.x+pad, y, "Flocking")

	sliderW := float32(p.width - pad*2 - 110)
	sliderX := float32(p.x + pad + 80)

	slider := func(label string, value, min, max float32) float32 {
		y += line / 2
		rl.DrawText(label, p.x+pad, y+2, r.Theme.FontSize, r.Theme.LabelColor)
		v := gui.Slider(
			rl.NewRectangle(sliderX, float32(y), sliderW, float32(line)-4),
			"", fmt.Sprintf("%.1f", value),
			value, min, max,
		)
		y += line
		return v
	}

	g.Cohesion = slider("cohesion", g.Cohesion, 0, 5)
	g.Separation = slider("separate", g.Separation, 0, 60)
	g.Alignment = slider("align", g.Alignment, 0, 5)

	return g
}
