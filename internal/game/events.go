package game

import (
	"fmt"

	"github.com/google/uuid"
)

// EventKind names an outbound simulation event.
type EventKind uint8

const (
	EventDotEaten EventKind = iota
	EventPowerUp
	EventAwardPoints
	EventEatGhost
	EventRestoreGhost
	EventReleaseGhost
	EventDeathSequence
	EventAddTimer
	EventRemoveTimer
	EventFruitSpawned
	EventLevelCleared
	EventExtraLife
	EventGameOver
	EventModeChanged
)

var eventNames = [...]string{
	EventDotEaten:      "dotEaten",
	EventPowerUp:       "powerUp",
	EventAwardPoints:   "awardPoints",
	EventEatGhost:      "eatGhost",
	EventRestoreGhost:  "restoreGhost",
	EventReleaseGhost:  "releaseGhost",
	EventDeathSequence: "deathSequence",
	EventAddTimer:      "addTimer",
	EventRemoveTimer:   "removeTimer",
	EventFruitSpawned:  "fruitSpawned",
	EventLevelCleared:  "levelCleared",
	EventExtraLife:     "extraLife",
	EventGameOver:      "gameOver",
	EventModeChanged:   "modeChanged",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("event(%d)", uint8(k))
}

// Event is one typed simulation event. Only the fields relevant to Kind are set.
type Event struct {
	Kind    EventKind
	Tick    int
	Points  int        // awardPoints
	Pickup  PickupKind // awardPoints
	Source  uuid.UUID  // awardPoints: the pickup collected
	Pursuer uuid.UUID  // eatGhost, restoreGhost, releaseGhost
	Role    Role       // eatGhost, restoreGhost, releaseGhost
	Timer   string     // addTimer, removeTimer
	Mode    Mode       // modeChanged
}

// String renders a one-line description for logs and the event feed.
func (e Event) String() string {
	switch e.Kind {
	case EventAwardPoints:
		return fmt.Sprintf("%s %d (%s)", e.Kind, e.Points, e.Pickup)
	case EventEatGhost, EventRestoreGhost, EventReleaseGhost:
		return fmt.Sprintf("%s %s", e.Kind, e.Role)
	case EventAddTimer, EventRemoveTimer:
		return fmt.Sprintf("%s %s", e.Kind, e.Timer)
	case EventModeChanged:
		return fmt.Sprintf("%s %s", e.Kind, e.Mode)
	default:
		return e.Kind.String()
	}
}

// EventQueue is an ordered buffer of events stamped with the current tick.
type EventQueue struct {
	events []Event
	tick   int
}

// SetTick sets the tick stamped on subsequently pushed events.
func (q *EventQueue) SetTick(tick int) { q.tick = tick }

// Push appends e, stamping it with the current tick.
func (q *EventQueue) Push(e Event) {
	e.Tick = q.tick
	q.events = append(q.events, e)
}

// Len is the number of undrained events.
func (q *EventQueue) Len() int { return len(q.events) }

// Drain returns every queued event in emission order and empties the queue.
func (q *EventQueue) Drain() []Event {
	out := q.events
	q.events = nil
	return out
}

// pop removes and returns the oldest event.
func (q *EventQueue) pop() (Event, bool) {
	if len(q.events) == 0 {
		return Event{}, false
	}
	e := q.events[0]
	q.events = q.events[1:]
	return e, true
}
