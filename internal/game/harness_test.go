package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Maze-Sense/internal/config"
)

func TestHarness_AutopilotInvariants(t *testing.T) {
	h, err := NewHarness(WithSeed(7), WithAutopilot(), WithHarnessLogger(quietLogger()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if t.Failed() {
			t.Log(h.SimLog.Format())
		}
	})
	h.RunTicks(3000)

	s := h.Sim
	require.Positive(t, h.Count(EventDotEaten), "the autopilot should eat something in 25s")

	awarded := 0
	for _, e := range eventsOf(h.Events, EventAwardPoints) {
		awarded += e.Points
	}
	assert.Equal(t, s.Score(), awarded, "score is the sum of awards")

	if h.Count(EventLevelCleared) == 0 {
		assert.Equal(t, len(s.Pickups())-h.Count(EventDotEaten), s.RemainingDots())
		visible := 0
		for _, pk := range s.Pickups() {
			if pk.Visible {
				visible++
			}
		}
		assert.Equal(t, s.RemainingDots(), visible, "every collected pickup is hidden")
	}
	assert.Equal(t, h.Count(EventDotEaten), h.SimLog.CountCategory("event", EventDotEaten.String()))

	if h.Count(EventLevelCleared) == 0 {
		collected := map[uuid.UUID]bool{}
		for _, e := range eventsOf(h.Events, EventAwardPoints) {
			if e.Pickup != PickupDot && e.Pickup != PickupPowerPellet {
				continue
			}
			require.NotEqual(t, uuid.Nil, e.Source)
			assert.False(t, collected[e.Source], "pickup collected twice at tick %d", e.Tick)
			collected[e.Source] = true
		}
		assert.Len(t, collected, h.Count(EventDotEaten))
	}

	for i := 1; i < len(h.Events); i++ {
		require.LessOrEqual(t, h.Events[i-1].Tick, h.Events[i].Tick)
	}
}

func TestHarness_SeedsAreDeterministic(t *testing.T) {
	run := func() (int, int) {
		h, err := NewHarness(WithSeed(99), WithAutopilot(), WithHarnessLogger(quietLogger()),
			WithConfigEdit(func(c *config.Config) { c.Timing.ReadyMs = 0 }))
		require.NoError(t, err)
		h.RunTicks(1500)
		return h.Sim.Score(), len(h.Events)
	}
	score1, n1 := run()
	score2, n2 := run()
	assert.Equal(t, score1, score2)
	assert.Equal(t, n1, n2)
}

func TestHarness_RunUntil(t *testing.T) {
	h, err := NewHarness(WithHarnessLogger(quietLogger()))
	require.NoError(t, err)

	tick := h.RunUntil(func(h *Harness) bool { return h.Sim.Playing() }, 1000)
	assert.Equal(t, 240, tick)
	assert.Equal(t, -1, h.RunUntil(func(*Harness) bool { return false }, 5))
	assert.Equal(t, 245, h.Sim.Tick())
	assert.Equal(t, 240, h.FirstTick(EventRemoveTimer), "the ready timer is the first to fire")
}

func TestHarness_CustomMazeAndSpeeds(t *testing.T) {
	h, err := NewHarness(
		WithHarnessLogger(quietLogger()),
		WithMaze(DefaultMaze...),
		WithSpeeds(SpeedConfig{Player: 0.125}),
		WithVerbose(true),
	)
	require.NoError(t, err)
	assert.Equal(t, 0.125, h.Sim.Player.Velocity())
	assert.Equal(t, len(DefaultMaze), len(h.Config().Maze.Rows))

	h.RunTicks(3)
	assert.Equal(t, 3, h.SimLog.CountCategory("player", "position"))
}
