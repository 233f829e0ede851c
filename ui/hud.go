package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/fenwick-labs/murmur/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Population int
	Tick       int64
	Speed      int
	FPS        int32
	Paused     bool

	// Last closed stats window; zero value until the first window closes.
	Window telemetry.WindowStats
	Perf   telemetry.PerfStats
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Boids: %d | Tick: %d | Speed: %dx | FPS: %d",
			data.Population, data.Tick, data.Speed, data.FPS),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Polarization: %.2f | Speed: %.0f avg | Cells: %d | OOB: %d",
			data.Window.Polarization, data.Window.SpeedMean,
			data.Window.OccupiedCells, data.Window.OutOfBounds),
		10, 55, 16, rl.LightGray,
	)

	if data.Perf.AvgTickDuration > 0 {
		rl.DrawText(
			fmt.Sprintf("Tick: %dus (grid %.0f%%, flock %.0f%%)",
				data.Perf.AvgTickDuration.Microseconds(),
				data.Perf.PhasePct[telemetry.PhaseSpatialGrid],
				data.Perf.PhasePct[telemetry.PhaseFlocking]),
			10, 75, 16, rl.LightGray,
		)
	}

	if data.Paused {
		rl.DrawText("PAUSED", 10, 95, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
