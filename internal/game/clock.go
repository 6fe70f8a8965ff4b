package game

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Clock is a fixed-timestep accumulator. Hosts feed it frame timestamps through
// Frame; it calls update in constant timestep slices and then draw once with the
// interpolation factor between the last two discrete states.
type Clock struct {
	mu sync.Mutex

	maxFPS   int
	timestep float64 // ms
	update   func(dtMs float64)
	draw     func(alpha float64)
	log      *slog.Logger

	last      time.Duration
	hasLast   bool
	elapsedMs float64
	resync    bool

	paused atomic.Bool

	cancel context.CancelFunc
	done   chan struct{}

	valveTrips int
}

// NewClock creates a clock running update at maxFPS. draw may be nil.
func NewClock(maxFPS int, update func(dtMs float64), draw func(alpha float64), log *slog.Logger) *Clock {
	if draw == nil {
		draw = func(float64) {}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Clock{
		maxFPS:   maxFPS,
		timestep: 1000 / float64(maxFPS),
		update:   update,
		draw:     draw,
		log:      log,
	}
}

// Timestep is the update slice in milliseconds.
func (c *Clock) Timestep() float64 { return c.timestep }

// Frame advances the clock to now, a monotonic timestamp from any fixed origin.
// The first call only records the origin. While paused, frames re-sync the origin
// without running updates.
func (c *Clock) Frame(now time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasLast || c.resync || c.paused.Load() {
		c.last = now
		c.hasLast = true
		c.resync = false
		c.draw(c.elapsedMs / c.timestep)
		return
	}

	c.elapsedMs += float64(now-c.last) / float64(time.Millisecond)
	c.last = now

	steps := 0
	for c.elapsedMs >= c.timestep {
		c.update(c.timestep)
		c.elapsedMs -= c.timestep
		steps++
		if steps >= c.maxFPS {
			// Panic valve: drop the backlog rather than spiral into catch-up.
			c.valveTrips++
			c.log.Warn("clock panic valve tripped", "steps", steps, "discarded_ms", c.elapsedMs)
			c.elapsedMs = 0
			break
		}
	}
	c.draw(c.elapsedMs / c.timestep)
}

// Pause stops updates. Pausing twice is a no-op.
func (c *Clock) Pause() { c.paused.Store(true) }

// Resume continues updates from the next frame without fast-forwarding over the
// paused interval.
func (c *Clock) Resume() {
	if c.paused.CompareAndSwap(true, false) {
		c.mu.Lock()
		c.resync = true
		c.mu.Unlock()
	}
}

// Paused reports the pause state.
func (c *Clock) Paused() bool { return c.paused.Load() }

// ValveTrips counts how many frames hit the catch-up cap.
func (c *Clock) ValveTrips() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valveTrips
}

// Start drives Frame from a ticker at the update rate until ctx is done or Stop
// is called. Calling Start on a running clock is a no-op.
func (c *Clock) Start(ctx context.Context) {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	go func() {
		defer close(done)
		origin := time.Now()
		ticker := time.NewTicker(time.Duration(c.timestep * float64(time.Millisecond)))
		defer ticker.Stop()
		c.Frame(0)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// A tick that raced with cancellation must not run an update.
				if ctx.Err() != nil {
					return
				}
				c.Frame(time.Since(origin))
			}
		}
	}()
}

// Stop cancels the ticker and waits for the loop to exit; no update runs after
// Stop returns. The accumulator is re-synced for a later Start.
//
// Stop must not be called from the update or draw callbacks: it would wait on
// the frame that is calling it. A callback that needs to end the loop cancels
// the context given to Start; the loop exits once that frame returns.
func (c *Clock) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done

	c.mu.Lock()
	c.hasLast = false
	c.elapsedMs = 0
	c.mu.Unlock()
}

// Running reports whether Start's loop is active.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}
