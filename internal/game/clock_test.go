package game

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClock_FixedSteps(t *testing.T) {
	updates := 0
	var alpha float64
	c := NewClock(125, func(dt float64) {
		assert.Equal(t, 8.0, dt)
		updates++
	}, func(a float64) { alpha = a }, quietLogger())

	c.Frame(0)
	assert.Equal(t, 0, updates, "first frame only sets the origin")

	c.Frame(100 * time.Millisecond)
	assert.Equal(t, 12, updates)
	assert.InDelta(t, 0.5, alpha, 1e-9)

	c.Frame(104 * time.Millisecond)
	assert.Equal(t, 13, updates, "the leftover 4ms carries into the next frame")
	assert.InDelta(t, 0, alpha, 1e-9)
}

func TestClock_PanicValve(t *testing.T) {
	updates := 0
	c := NewClock(10, func(float64) { updates++ }, nil, quietLogger())

	c.Frame(0)
	c.Frame(5 * time.Second)
	assert.Equal(t, 10, updates, "at most maxFPS updates per frame")
	assert.Equal(t, 1, c.ValveTrips())

	c.Frame(5*time.Second + 100*time.Millisecond)
	assert.Equal(t, 11, updates, "the backlog is discarded, not replayed")
}

func TestClock_PauseSuspendsTimers(t *testing.T) {
	c := NewClock(125, nil, nil, quietLogger())
	s := NewScheduler(c.Timestep(), nil)
	updates, firedAt := 0, -1
	c.update = func(float64) {
		updates++
		s.Advance()
	}
	s.After("two_seconds", 2000, func() { firedAt = updates })

	now := time.Duration(0)
	c.Frame(now)
	for i := 0; i < 50; i++ {
		now += 16 * time.Millisecond
		c.Frame(now)
	}
	require.Equal(t, 100, updates)

	c.Pause()
	c.Pause()
	for i := 0; i < 10; i++ {
		now += 300 * time.Millisecond
		c.Frame(now)
	}
	assert.Equal(t, 100, updates, "no updates while paused")
	assert.True(t, c.Paused())

	c.Resume()
	for firedAt < 0 && updates < 1000 {
		now += 16 * time.Millisecond
		c.Frame(now)
	}
	assert.Equal(t, 250, firedAt, "a 2000ms timer fires after 250 updates however long the pause")
	assert.Zero(t, c.ValveTrips())
}

func TestClock_StartStop(t *testing.T) {
	var updates atomic.Int64
	c := NewClock(120, func(float64) { updates.Add(1) }, nil, quietLogger())

	c.Start(context.Background())
	c.Start(context.Background())
	require.True(t, c.Running())
	require.Eventually(t, func() bool { return updates.Load() > 5 }, 2*time.Second, 5*time.Millisecond)

	c.Stop()
	assert.False(t, c.Running())
	after := updates.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, updates.Load(), "no update runs after Stop returns")

	c.Stop()
}

func TestClock_StartStopsWithContext(t *testing.T) {
	var updates atomic.Int64
	c := NewClock(120, func(float64) { updates.Add(1) }, nil, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())

	c.Start(ctx)
	require.Eventually(t, func() bool { return updates.Load() > 0 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	c.Stop()
	assert.False(t, c.Running())
}

func TestClock_UpdateCancelsStartContext(t *testing.T) {
	var updates atomic.Int64
	ctx, cancel := context.WithCancel(context.Background())
	c := NewClock(120, func(float64) {
		if updates.Add(1) == 3 {
			cancel()
		}
	}, nil, quietLogger())

	c.Start(ctx)
	require.Eventually(t, func() bool { return updates.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	settled := updates.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, updates.Load(), "the loop exits after the cancelling frame")

	stopped := make(chan struct{})
	go func() {
		c.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked after the loop had already exited")
	}
	assert.False(t, c.Running())
}
