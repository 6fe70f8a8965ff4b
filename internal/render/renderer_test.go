package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Maze-Sense/internal/game"
)

func TestInterpolate(t *testing.T) {
	old := game.Position{X: 100, Y: 40}
	cur := game.Position{X: 102, Y: 40}

	assert.Equal(t, game.Position{X: 101, Y: 40}, interpolate(old, cur, 0.5, 8))
	assert.Equal(t, old, interpolate(old, cur, 0, 8))
	assert.Equal(t, cur, interpolate(old, cur, 1.7, 8), "alpha is clamped")

	warped := game.Position{X: 218, Y: 40}
	assert.Equal(t, warped, interpolate(game.Position{X: -6, Y: 40}, warped, 0.5, 8),
		"tunnel warps are not smeared across the maze")
}

func TestPursuerColor(t *testing.T) {
	sim, err := game.New(nil)
	require.NoError(t, err)
	g := sim.Pursuer(game.RoleShadow)
	require.NotNil(t, g)

	assert.Equal(t, roleColors[game.RoleShadow], pursuerColor(g))

	g.BecomeScared()
	assert.Equal(t, colScaredBlue, pursuerColor(g))
	g.ToggleFlash()
	assert.Equal(t, colScaredFlsh, pursuerColor(g))

	g.Mode = game.ModeRetreating
	assert.Equal(t, colEyes, pursuerColor(g))
}
