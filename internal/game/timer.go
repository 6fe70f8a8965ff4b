package game

import "math"

// tickTolerance absorbs float error when converting milliseconds to ticks so
// that e.g. 250ms at 120fps is 30 ticks rather than 31.
const tickTolerance = 1e-4

// Timer is a deferred callback counted in simulation ticks. It only advances
// while the simulation updates, so pausing the clock suspends it exactly.
type Timer struct {
	name      string
	remaining int
	interval  int // > 0 re-arms after firing
	fn        func()
	paused    bool
	done      bool
	armed     bool // false until the Advance that created it has finished
}

// Name identifies the timer in events and logs.
func (t *Timer) Name() string { return t.name }

// Remaining is the number of ticks left before the timer fires.
func (t *Timer) Remaining() int {
	if t == nil {
		return 0
	}
	return t.remaining
}

// Pause suspends the countdown. Pausing twice is a no-op.
func (t *Timer) Pause() {
	if t != nil {
		t.paused = true
	}
}

// Resume continues the countdown. Resuming a running timer is a no-op.
func (t *Timer) Resume() {
	if t != nil {
		t.paused = false
	}
}

// Paused reports whether the timer is suspended.
func (t *Timer) Paused() bool { return t != nil && t.paused }

// Active reports whether the timer is still pending.
func (t *Timer) Active() bool { return t != nil && !t.done }

// Scheduler owns every pending Timer and advances them once per tick.
type Scheduler struct {
	stepMs  float64
	timers  []*Timer
	emit    func(Event)
	firing  bool
	pending []*Timer
}

// NewScheduler creates a scheduler for a clock with the given step. emit receives
// addTimer/removeTimer events and may be nil.
func NewScheduler(stepMs float64, emit func(Event)) *Scheduler {
	if emit == nil {
		emit = func(Event) {}
	}
	return &Scheduler{stepMs: stepMs, emit: emit}
}

// Ticks converts a duration in milliseconds to whole ticks, rounding up except
// when the value is within tolerance of an integer.
func (s *Scheduler) Ticks(ms float64) int {
	if ms <= 0 {
		return 0
	}
	n := ms / s.stepMs
	if r := math.Round(n); math.Abs(n-r) < tickTolerance {
		return int(r)
	}
	return int(math.Ceil(n))
}

// After schedules fn to run once, ms milliseconds of simulated time from now.
// A zero duration fires on the next Advance.
func (s *Scheduler) After(name string, ms float64, fn func()) *Timer {
	return s.add(&Timer{name: name, remaining: s.Ticks(ms), fn: fn})
}

// Every schedules fn to run repeatedly with the given period.
func (s *Scheduler) Every(name string, ms float64, fn func()) *Timer {
	n := s.Ticks(ms)
	if n < 1 {
		n = 1
	}
	return s.add(&Timer{name: name, remaining: n, interval: n, fn: fn})
}

func (s *Scheduler) add(t *Timer) *Timer {
	if s.firing {
		s.pending = append(s.pending, t)
	} else {
		t.armed = true
		s.timers = append(s.timers, t)
	}
	s.emit(Event{Kind: EventAddTimer, Timer: t.name})
	return t
}

// Cancel removes t without firing it. Cancelling nil or a finished timer is a no-op.
func (s *Scheduler) Cancel(t *Timer) {
	if t == nil || t.done {
		return
	}
	t.done = true
	s.emit(Event{Kind: EventRemoveTimer, Timer: t.name})
}

// Advance counts every running timer down by one tick and fires those that reach
// zero, in creation order. Timers created while firing start counting next tick.
func (s *Scheduler) Advance() {
	s.firing = true
	for _, t := range s.timers {
		if t.done || t.paused || !t.armed {
			continue
		}
		t.remaining--
		if t.remaining > 0 {
			continue
		}
		if t.interval > 0 {
			t.remaining = t.interval
		} else {
			t.done = true
			s.emit(Event{Kind: EventRemoveTimer, Timer: t.name})
		}
		t.fn()
	}
	s.firing = false

	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	for _, t := range s.pending {
		if !t.done {
			t.armed = true
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.timers); i++ {
		s.timers[i] = nil
	}
	s.timers = live
	s.pending = s.pending[:0]
}

// Pending is the number of timers that have not fired or been cancelled.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.done {
			n++
		}
	}
	for _, t := range s.pending {
		if !t.done {
			n++
		}
	}
	return n
}
