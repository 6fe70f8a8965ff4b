package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Maze-Sense/internal/game"
)

func TestEventFeed_RingOrder(t *testing.T) {
	f := NewEventFeed()
	for i := 0; i < feedMaxEntries+5; i++ {
		f.Add(game.Event{Kind: game.EventDotEaten, Tick: i})
	}
	require.Equal(t, feedMaxEntries, f.Len())

	recent := f.Recent()
	assert.Equal(t, 5, recent[0].Tick, "oldest entries are overwritten")
	assert.Equal(t, feedMaxEntries+4, recent[len(recent)-1].Tick)
	for i := 1; i < len(recent); i++ {
		assert.Less(t, recent[i-1].Tick, recent[i].Tick)
	}
}

func TestEventFeed_FiltersTimers(t *testing.T) {
	f := NewEventFeed()
	f.Add(game.Event{Kind: game.EventAddTimer, Timer: "ready"})
	f.Add(game.Event{Kind: game.EventRemoveTimer, Timer: "ready"})
	f.Add(game.Event{Kind: game.EventAwardPoints, Points: 10, Pickup: game.PickupDot, Tick: 3})
	require.Equal(t, 1, f.Len())
	assert.Equal(t, "awardPoints 10 (dot)", f.Recent()[0].Message)

	f.ShowTimers = true
	f.Add(game.Event{Kind: game.EventAddTimer, Timer: "fruit"})
	assert.Equal(t, 2, f.Len())
}
