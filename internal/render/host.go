package render

import (
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/Maze-Sense/internal/game"
)

// Host adapts a Simulation to ebiten.Game. Ebiten's Update cadence only feeds
// timestamps to the simulation Clock; the clock decides how many fixed ticks run.
type Host struct {
	Sim      *game.Simulation
	Renderer *Renderer

	clock *game.Clock
	log   *slog.Logger
	start time.Time
	alpha float64
	quit  bool
}

// NewHost wires sim to a fixed-timestep clock at maxFPS and a renderer at scale.
func NewHost(sim *game.Simulation, maxFPS int, scale float64, log *slog.Logger) *Host {
	if log == nil {
		log = slog.Default()
	}
	h := &Host{
		Sim:      sim,
		Renderer: NewRenderer(sim, scale),
		log:      log,
		start:    time.Now(),
	}
	h.clock = game.NewClock(maxFPS, h.tick, func(alpha float64) { h.alpha = alpha }, log)
	return h
}

// Clock exposes the host's clock for pause control.
func (h *Host) Clock() *game.Clock { return h.clock }

func (h *Host) tick(dt float64) {
	h.Sim.Update(dt)
	for _, e := range h.Sim.Drain() {
		h.Renderer.Feed.Add(e)
	}
}

// Update handles input every frame, then advances the clock to wall time.
func (h *Host) Update() error {
	h.handleInput()
	if h.quit {
		return ebiten.Termination
	}
	h.clock.Frame(time.Since(h.start))
	return nil
}

func (h *Host) handleInput() {
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		h.Sim.SetDesiredDirection(game.DirUp)
	case ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown):
		h.Sim.SetDesiredDirection(game.DirDown)
	case ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft):
		h.Sim.SetDesiredDirection(game.DirLeft)
	case ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight):
		h.Sim.SetDesiredDirection(game.DirRight)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if h.clock.Paused() {
			h.clock.Resume()
		} else {
			h.clock.Pause()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		h.Renderer.Feed.ShowTimers = !h.Renderer.Feed.ShowTimers
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		h.copySummary()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		h.quit = true
	}
}

// copySummary puts the simulation summary on the system clipboard.
func (h *Host) copySummary() {
	if h.Sim.SimLog == nil {
		return
	}
	if err := clipboard.WriteAll(h.Sim.SimLog.Summary(h.Sim)); err != nil {
		h.log.Warn("clipboard write failed", "error", err)
		return
	}
	h.log.Info("summary copied to clipboard", "tick", h.Sim.Tick())
}

// Draw renders using the interpolation factor from the last clock frame.
func (h *Host) Draw(screen *ebiten.Image) {
	h.Renderer.Draw(screen, h.alpha)
}

// Layout returns the fixed logical screen size.
func (h *Host) Layout(_, _ int) (int, int) {
	return h.Renderer.ScreenSize()
}
