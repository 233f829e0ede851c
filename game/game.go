// Package game wires the simulation, telemetry, renderer and UI into the
// host frame loop.
package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/fenwick-labs/murmur/config"
	"github.com/fenwick-labs/murmur/renderer"
	"github.com/fenwick-labs/murmur/sim"
	"github.com/fenwick-labs/murmur/telemetry"
	"github.com/fenwick-labs/murmur/ui"
)

// Options configures a game instance.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	StepsPerUpdate int
}

// Game holds the complete application state.
type Game struct {
	sim       *sim.Simulation
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager

	// Graphics-mode members, nil when headless.
	view      *renderer.FlockRenderer
	overlay   *renderer.GridOverlay
	worldView *renderer.View
	hud       *ui.HUD
	tuning    *ui.TuningPanel

	opts        Options
	dt          float32
	paused      bool
	showOverlay bool
	lastWindow  telemetry.WindowStats

	stepsPerUpdate int
}

// New creates a game instance from the global config. The simulation is
// validated and seeded here; an invalid config is returned as an error
// before any window state exists.
func New(opts Options) (*Game, error) {
	cfg := config.Cfg()

	s, err := sim.New(cfg, opts.Seed)
	if err != nil {
		return nil, err
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	dt := float32(1) / float32(cfg.Screen.TargetFPS)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("game: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		s.Close()
		return nil, fmt.Errorf("game: %w", err)
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		sim:            s,
		collector:      telemetry.NewCollector(statsWindow, float64(dt)),
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:         output,
		opts:           opts,
		dt:             dt,
		stepsPerUpdate: steps,
	}

	if !opts.Headless {
		xB, yB := s.Bounds()
		view := renderer.NewView(int32(cfg.Screen.Width), int32(cfg.Screen.Height),
			xB, yB, float32(cfg.World.EdgeMargin)*2)
		g.worldView = view
		g.view = renderer.NewFlockRenderer(view, float32(cfg.Flock.MinDistance), cfg.Derived.MaxSpeed32)
		g.overlay = renderer.NewGridOverlay(view)
		g.hud = ui.NewHUD()
		g.tuning = ui.NewTuningPanel(int32(cfg.Screen.Width)-280, 10, 270)
	}

	return g, nil
}

// Update advances the simulation for one frame in graphics mode.
func (g *Game) Update() error {
	g.handleInput()
	if g.paused {
		return nil
	}
	return g.advance(g.stepsPerUpdate)
}

// UpdateHeadless advances the simulation for one update without any
// rendering or input.
func (g *Game) UpdateHeadless() error {
	return g.advance(g.stepsPerUpdate)
}

func (g *Game) advance(steps int) error {
	for i := 0; i < steps; i++ {
		g.perf.StartTick()
		if err := g.sim.StepTimed(g.dt, g.perf); err != nil {
			return err
		}

		g.perf.StartPhase(telemetry.PhaseTelemetry)
		g.captureTelemetry()
		g.perf.EndTick()
	}
	return nil
}

func (g *Game) captureTelemetry() {
	tick := g.sim.Tick()
	if !g.collector.Due(tick) {
		return
	}

	xB, yB := g.sim.Bounds()
	ws := g.collector.Capture(tick, g.sim.Agents(), g.sim.Grid(), xB, yB)
	g.lastWindow = ws

	perfStats := g.perf.Stats()

	if g.opts.LogStats {
		slog.Info("window",
			"tick", ws.WindowEndTick,
			"sim_time", ws.SimTimeSec,
			"speed_mean", ws.SpeedMean,
			"polarization", ws.Polarization,
			"occupied_cells", ws.OccupiedCells,
			"out_of_bounds", ws.OutOfBounds,
		)
		perfStats.LogStats()
	}

	if err := g.output.WriteTelemetry(ws); err != nil {
		slog.Error("telemetry write failed", "error", err)
	}
	if err := g.output.WritePerf(perfStats, tick); err != nil {
		slog.Error("perf write failed", "error", err)
	}
}

// Draw renders one frame. Graphics mode only.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 16, B: 24, A: 255})

	if g.showOverlay {
		g.overlay.Draw(g.sim.Grid())
	}
	xB, yB := g.sim.Bounds()
	renderer.DrawBounds(g.worldView, xB, yB)
	g.view.Draw(g.sim.Agents())

	coh, sep, align := g.sim.Gains()
	gains := g.tuning.Draw(ui.Gains{Cohesion: coh, Separation: sep, Alignment: align})
	g.sim.SetGains(gains.Cohesion, gains.Separation, gains.Alignment)

	g.hud.Draw(ui.HUDData{
		Title:      "murmur",
		Population: len(g.sim.Agents()),
		Tick:       g.sim.Tick(),
		Speed:      g.stepsPerUpdate,
		FPS:        rl.GetFPS(),
		Paused:     g.paused,
		Window:     g.lastWindow,
		Perf:       g.perf.Stats(),
	})
	g.hud.DrawControls(int32(rl.GetScreenHeight()),
		"space pause | g grid overlay | t tuning panel | < > speed")

	rl.EndDrawing()
}

// Tick returns the number of completed simulation steps.
func (g *Game) Tick() int64 {
	return g.sim.Tick()
}

// Unload releases the worker pool and flushes output files.
func (g *Game) Unload() {
	g.sim.Close()
	if err := g.output.Close(); err != nil {
		slog.Error("closing output", "error", err)
	}
}
