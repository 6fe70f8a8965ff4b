// Package tui hosts a Simulation in a terminal with tcell. Each maze tile is two
// character cells wide so the board keeps roughly square proportions.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Maze-Sense/internal/game"
)

const (
	hudRows     = 2
	recentLines = 4
)

var (
	styleWall   = tcell.StyleDefault.Foreground(tcell.ColorBlue).Background(tcell.ColorNavy)
	styleDot    = tcell.StyleDefault.Foreground(tcell.ColorWheat)
	styleFruit  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	stylePlayer = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleScared = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue)
	styleFlash  = tcell.StyleDefault.Foreground(tcell.ColorBlue).Background(tcell.ColorWhite)
	styleEyes   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleFeed   = tcell.StyleDefault.Foreground(tcell.ColorGray)

	roleStyles = map[game.Role]tcell.Style{
		game.RoleShadow:  tcell.StyleDefault.Foreground(tcell.ColorRed),
		game.RoleSpeedy:  tcell.StyleDefault.Foreground(tcell.ColorPink),
		game.RoleBashful: tcell.StyleDefault.Foreground(tcell.ColorAqua),
		game.RolePokey:   tcell.StyleDefault.Foreground(tcell.ColorOrange),
	}
	roleGlyphs = map[game.Role][2]rune{
		game.RoleShadow:  {'S', 'h'},
		game.RoleSpeedy:  {'S', 'p'},
		game.RoleBashful: {'B', 'a'},
		game.RolePokey:   {'P', 'o'},
	}
)

// Terminal owns the tcell screen and a clock driving the simulation. The clock
// runs on its own goroutine; mu serialises it against input handling.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	sim    *game.Simulation
	clock  *game.Clock
	log    *slog.Logger

	recent    []string
	lastDrawn int
}

// New wires sim to screen with a clock at maxFPS. The screen must already be
// initialised.
func New(screen tcell.Screen, sim *game.Simulation, maxFPS int, log *slog.Logger) *Terminal {
	if log == nil {
		log = slog.Default()
	}
	t := &Terminal{screen: screen, sim: sim, log: log, lastDrawn: -1}
	t.clock = game.NewClock(maxFPS, t.update, t.frame, log)
	return t
}

func (t *Terminal) update(dt float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sim.Update(dt)
	for _, e := range t.sim.Drain() {
		if e.Kind == game.EventAddTimer || e.Kind == game.EventRemoveTimer {
			continue
		}
		t.recent = append(t.recent, fmt.Sprintf("%5d %s", e.Tick, e))
	}
	if n := len(t.recent); n > recentLines {
		t.recent = t.recent[n-recentLines:]
	}
}

// frame redraws once per new tick.
func (t *Terminal) frame(float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sim.Tick() == t.lastDrawn {
		return
	}
	t.lastDrawn = t.sim.Tick()
	t.draw()
}

// Draw renders the current state and shows it.
func (t *Terminal) Draw() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.draw()
}

func (t *Terminal) draw() {
	s := t.sim
	t.screen.Clear()

	status := fmt.Sprintf("L%d  SCORE %06d  LIVES %d  %s", s.Level(), s.Score(), s.Lives(), s.Ambience())
	switch {
	case s.GameOver():
		status += "  GAME OVER"
	case t.clock.Paused():
		status += "  PAUSED"
	case !s.Playing():
		status += "  READY"
	}
	t.puts(0, 0, status, styleHUD)

	s.Maze().Each(func(x, y int, c game.Cell) {
		if c == game.CellWall {
			t.put2(2*x, y+hudRows, ' ', ' ', styleWall)
		}
	})
	for _, pk := range s.Pickups() {
		if !pk.Visible {
			continue
		}
		r := '.'
		if pk.Kind == game.PickupPowerPellet {
			r = 'o'
		}
		t.screen.SetContent(2*pk.Col, pk.Row+hudRows, r, nil, styleDot)
	}
	if f := s.Fruit(); f.Visible {
		t.put2(2*f.Col, f.Row+hudRows, '%', '%', styleFruit)
	}

	if s.Player.Visible {
		x, y := cellOf(s.Player.Grid())
		t.put2(x, y, '(', '<', stylePlayer)
	}
	for _, g := range s.Pursuers {
		if !g.Visible {
			continue
		}
		x, y := cellOf(g.Grid())
		a, b, st := pursuerGlyph(g)
		t.put2(x, y, a, b, st)
	}

	row := hudRows + s.Maze().Height() + 1
	for i, line := range t.recent {
		t.puts(0, row+i, line, styleFeed)
	}
	t.screen.Show()
}

// cellOf maps a grid position to the left of the two character cells a sprite
// covers, offset for the HUD.
func cellOf(g game.GridPosition) (int, int) {
	return int(math.Round(2 * g.X)), int(math.Round(g.Y)) + hudRows
}

func pursuerGlyph(g *game.Pursuer) (rune, rune, tcell.Style) {
	switch {
	case g.Mode == game.ModeRetreating:
		return '"', '"', styleEyes
	case g.Mode == game.ModeFrightened && g.Palette == game.PaletteWhite:
		return '~', '~', styleFlash
	case g.Mode == game.ModeFrightened:
		return '~', '~', styleScared
	default:
		gl := roleGlyphs[g.Role]
		return gl[0], gl[1], roleStyles[g.Role]
	}
}

func (t *Terminal) put2(x, y int, a, b rune, st tcell.Style) {
	t.screen.SetContent(x, y, a, nil, st)
	t.screen.SetContent(x+1, y, b, nil, st)
}

func (t *Terminal) puts(x, y int, s string, st tcell.Style) {
	for i, r := range []rune(s) {
		t.screen.SetContent(x+i, y, r, nil, st)
	}
}

// HandleEvent applies one terminal event. It returns false when the user quits.
func (t *Terminal) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if d, ok := keyDirection(ev); ok {
			t.mu.Lock()
			t.sim.SetDesiredDirection(d)
			t.mu.Unlock()
			return true
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case 'p':
				if t.clock.Paused() {
					t.clock.Resume()
				} else {
					t.clock.Pause()
				}
				t.Draw()
			}
		}
	case *tcell.EventResize:
		t.screen.Sync()
		t.Draw()
	}
	return true
}

func keyDirection(ev *tcell.EventKey) (game.Direction, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return game.DirUp, true
	case tcell.KeyDown:
		return game.DirDown, true
	case tcell.KeyLeft:
		return game.DirLeft, true
	case tcell.KeyRight:
		return game.DirRight, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'k':
			return game.DirUp, true
		case 's', 'j':
			return game.DirDown, true
		case 'a', 'h':
			return game.DirLeft, true
		case 'd', 'l':
			return game.DirRight, true
		}
	}
	return 0, false
}

// Run starts the clock and processes input until the user quits or ctx is done.
func (t *Terminal) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	t.clock.Start(ctx)
	defer t.clock.Stop()
	t.log.Info("terminal host started", "tick", t.sim.Tick())

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if !t.HandleEvent(ev) {
				return
			}
		}
	}
}
