package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Maze-Sense/internal/game"
)

const (
	feedPanelWidth = 240
	feedMaxEntries = 48
	feedLineHeight = 14
)

// FeedEntry is a single line in the event feed.
type FeedEntry struct {
	Tick    int
	Kind    game.EventKind
	Message string
}

// EventFeed is a ring buffer of handled simulation events rendered beside the
// maze. Timer bookkeeping is filtered out unless ShowTimers is set.
type EventFeed struct {
	ShowTimers bool

	entries []FeedEntry
	head    int
	count   int
}

// NewEventFeed creates a feed with a fixed capacity.
func NewEventFeed() *EventFeed {
	return &EventFeed{
		entries: make([]FeedEntry, feedMaxEntries),
	}
}

// Add records e. Timer events are dropped unless ShowTimers is set.
func (f *EventFeed) Add(e game.Event) {
	if !f.ShowTimers && (e.Kind == game.EventAddTimer || e.Kind == game.EventRemoveTimer) {
		return
	}
	f.entries[f.head] = FeedEntry{Tick: e.Tick, Kind: e.Kind, Message: e.String()}
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// Len is the number of buffered entries.
func (f *EventFeed) Len() int { return f.count }

// Recent returns entries in chronological order (oldest first).
func (f *EventFeed) Recent() []FeedEntry {
	result := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		result[i] = f.entries[idx]
	}
	return result
}

// Draw renders the feed panel at panelX, newest entry at the bottom.
func (f *EventFeed) Draw(screen *ebiten.Image, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, feedPanelWidth, float32(panelH), color.RGBA{R: 8, G: 8, B: 16, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 40, G: 40, B: 90, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, feedPanelWidth, 18, color.RGBA{R: 16, G: 16, B: 40, A: 255}, false)
	drawText(screen, "EVENTS", panelX+8, 3, color.White)
	vector.StrokeLine(screen, float32(panelX), 18, float32(panelX+feedPanelWidth), 18, 1.0, color.RGBA{R: 40, G: 40, B: 90, A: 200}, false)

	entries := f.Recent()
	maxVisible := (panelH - 24) / feedLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := 22
	for i, e := range entries {
		if i >= len(entries)-3 {
			vector.FillRect(screen, float32(panelX+2), float32(y), feedPanelWidth-4, feedLineHeight, color.RGBA{R: 24, G: 24, B: 56, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, kindColor(e.Kind), false)
		drawText(screen, fmt.Sprintf("%5d %s", e.Tick, e.Message), panelX+12, y, color.RGBA{R: 200, G: 200, B: 220, A: 255})
		y += feedLineHeight
	}
}

func kindColor(k game.EventKind) color.RGBA {
	switch k {
	case game.EventDeathSequence, game.EventGameOver:
		return color.RGBA{R: 220, G: 60, B: 60, A: 255}
	case game.EventEatGhost, game.EventPowerUp:
		return color.RGBA{R: 60, G: 90, B: 230, A: 255}
	case game.EventAwardPoints, game.EventExtraLife:
		return color.RGBA{R: 240, G: 200, B: 40, A: 255}
	case game.EventLevelCleared:
		return color.RGBA{R: 80, G: 220, B: 100, A: 255}
	default:
		return color.RGBA{R: 120, G: 120, B: 140, A: 255}
	}
}
