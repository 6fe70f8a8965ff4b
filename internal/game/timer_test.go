package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const step120 = 1000.0 / 120

func TestScheduler_Ticks(t *testing.T) {
	s := NewScheduler(step120, nil)
	cases := map[float64]int{
		0:     0,
		10:    2, // 1.2 ticks rounds up
		250:   30,
		2000:  240,
		4750:  570,
		7000:  840,
		10000: 1200,
	}
	for ms, want := range cases {
		assert.Equal(t, want, s.Ticks(ms), "%gms", ms)
	}
}

func TestScheduler_AfterFiresOnNthAdvance(t *testing.T) {
	s := NewScheduler(step120, nil)
	fired := 0
	s.After("x", 3*step120, func() { fired++ })

	s.Advance()
	s.Advance()
	assert.Equal(t, 0, fired)
	s.Advance()
	assert.Equal(t, 1, fired)
	s.Advance()
	assert.Equal(t, 1, fired, "one-shot timers fire once")
	assert.Equal(t, 0, s.Pending())
}

func TestScheduler_ZeroDelayFiresNextAdvance(t *testing.T) {
	s := NewScheduler(step120, nil)
	fired := false
	s.After("now", 0, func() { fired = true })
	assert.False(t, fired)
	s.Advance()
	assert.True(t, fired)
}

func TestScheduler_PauseResume(t *testing.T) {
	s := NewScheduler(step120, nil)
	fired := false
	tm := s.After("x", 3*step120, func() { fired = true })

	s.Advance()
	tm.Pause()
	tm.Pause()
	for i := 0; i < 10; i++ {
		s.Advance()
	}
	assert.False(t, fired)
	assert.True(t, tm.Paused())
	assert.Equal(t, 2, tm.Remaining())

	tm.Resume()
	tm.Resume()
	s.Advance()
	assert.False(t, fired)
	s.Advance()
	assert.True(t, fired)
}

func TestScheduler_CancelIsIdempotent(t *testing.T) {
	var events []Event
	s := NewScheduler(step120, func(e Event) { events = append(events, e) })
	fired := false
	tm := s.After("x", step120, func() { fired = true })

	s.Cancel(tm)
	s.Cancel(tm)
	s.Cancel(nil)
	s.Advance()

	assert.False(t, fired)
	assert.False(t, tm.Active())
	require.Len(t, events, 2)
	assert.Equal(t, EventAddTimer, events[0].Kind)
	assert.Equal(t, EventRemoveTimer, events[1].Kind)
	assert.Equal(t, "x", events[1].Timer)
}

func TestScheduler_FireEmitsRemoveBeforeCallback(t *testing.T) {
	var events []Event
	s := NewScheduler(step120, func(e Event) { events = append(events, e) })
	s.After("x", 0, func() {
		events = append(events, Event{Kind: EventGameOver})
	})
	s.Advance()

	require.Len(t, events, 3)
	assert.Equal(t, EventAddTimer, events[0].Kind)
	assert.Equal(t, EventRemoveTimer, events[1].Kind)
	assert.Equal(t, EventGameOver, events[2].Kind)
}

func TestScheduler_TimerAddedWhileFiringWaitsATick(t *testing.T) {
	s := NewScheduler(step120, nil)
	var order []string
	s.After("outer", 0, func() {
		order = append(order, "outer")
		s.After("inner", 0, func() { order = append(order, "inner") })
	})

	s.Advance()
	assert.Equal(t, []string{"outer"}, order)
	assert.Equal(t, 1, s.Pending())
	s.Advance()
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestScheduler_ChainedDelaysAdd(t *testing.T) {
	// 90 + 270 + 60 ticks: the chain must take exactly the sum.
	s := NewScheduler(step120, nil)
	done := 0
	s.After("a", 750, func() {
		s.After("b", 2250, func() {
			s.After("c", 500, func() { done = 1 })
		})
	})
	for i := 1; i < 420; i++ {
		s.Advance()
		require.Equal(t, 0, done, "fired early at advance %d", i)
	}
	s.Advance()
	assert.Equal(t, 1, done)
}

func TestScheduler_Every(t *testing.T) {
	s := NewScheduler(step120, nil)
	n := 0
	tm := s.Every("tick", 3*step120, func() { n++ })
	for i := 0; i < 9; i++ {
		s.Advance()
	}
	assert.Equal(t, 3, n)
	assert.True(t, tm.Active())

	s.Cancel(tm)
	for i := 0; i < 9; i++ {
		s.Advance()
	}
	assert.Equal(t, 3, n)
}

func TestTimer_NilSafe(t *testing.T) {
	var tm *Timer
	tm.Pause()
	tm.Resume()
	assert.False(t, tm.Paused())
	assert.False(t, tm.Active())
	assert.Equal(t, 0, tm.Remaining())
}

func TestEventQueue_StampsAndDrains(t *testing.T) {
	var q EventQueue
	q.SetTick(7)
	q.Push(Event{Kind: EventDotEaten})
	q.SetTick(8)
	q.Push(Event{Kind: EventPowerUp, Tick: 99})

	assert.Equal(t, 2, q.Len())
	got := q.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, EventDotEaten, got[0].Kind)
	assert.Equal(t, 7, got[0].Tick)
	assert.Equal(t, 8, got[1].Tick, "push overwrites the tick")
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Drain())
}
