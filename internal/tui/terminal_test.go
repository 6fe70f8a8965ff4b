package tui

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Maze-Sense/internal/game"
)

func newTestTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 40)
	t.Cleanup(screen.Fini)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	sim, err := game.New(nil, game.WithLogger(quiet))
	require.NoError(t, err)
	return New(screen, sim, 120, quiet), screen
}

func runeAt(screen tcell.SimulationScreen, x, y int) rune {
	cells, w, _ := screen.GetContents()
	c := cells[y*w+x]
	if len(c.Runes) == 0 {
		return ' '
	}
	return c.Runes[0]
}

func rowText(screen tcell.SimulationScreen, y int) string {
	cells, w, _ := screen.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(c.Runes[0])
	}
	return sb.String()
}

func TestTerminal_DrawsBoard(t *testing.T) {
	term, screen := newTestTerminal(t)
	term.Draw()

	assert.True(t, strings.HasPrefix(rowText(screen, 0), "L1  SCORE 000000  LIVES 3"))
	assert.Contains(t, rowText(screen, 0), "READY")

	assert.Equal(t, '.', runeAt(screen, 2, 1+hudRows), "dot on tile (1,1)")
	assert.Equal(t, 'o', runeAt(screen, 2, 3+hudRows), "pellet on tile (1,3)")

	assert.Equal(t, '(', runeAt(screen, 27, 23+hudRows), "player at (13.5,23)")
	assert.Equal(t, '<', runeAt(screen, 28, 23+hudRows))
	assert.Equal(t, 'S', runeAt(screen, 27, 11+hudRows), "shadow at (13.5,11)")
	assert.Equal(t, 'h', runeAt(screen, 28, 11+hudRows))
}

func TestTerminal_InputSteersAndQuits(t *testing.T) {
	term, _ := newTestTerminal(t)

	assert.True(t, term.HandleEvent(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)))
	assert.Equal(t, game.DirUp, term.sim.Player.DesiredDirection)
	assert.True(t, term.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone)))
	assert.Equal(t, game.DirRight, term.sim.Player.DesiredDirection)

	assert.True(t, term.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone)))
	assert.True(t, term.clock.Paused())
	assert.True(t, term.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone)))
	assert.False(t, term.clock.Paused())

	assert.False(t, term.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.False(t, term.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
}

func TestTerminal_UpdateKeepsRecentEvents(t *testing.T) {
	term, screen := newTestTerminal(t)
	step := term.clock.Timestep()
	for i := 0; i < 400; i++ {
		term.update(step)
	}
	require.True(t, term.sim.Playing())
	assert.LessOrEqual(t, len(term.recent), recentLines)
	for _, line := range term.recent {
		assert.NotContains(t, line, "Timer", "timer bookkeeping is not shown")
	}

	term.frame(0)
	assert.Equal(t, term.sim.Tick(), term.lastDrawn)
	assert.NotContains(t, rowText(screen, 0), "READY")
}

func TestCellOf(t *testing.T) {
	x, y := cellOf(game.GridPosition{X: 13.5, Y: 23})
	assert.Equal(t, 27, x)
	assert.Equal(t, 25, y)
	x, _ = cellOf(game.GridPosition{X: 13, Y: 23})
	assert.Equal(t, 26, x)
}
