package game

import "github.com/Garsondee/Maze-Sense/internal/config"

// HouseState governs the scripted movement used in and around the pursuer house.
type HouseState uint8

const (
	HouseIdle      HouseState = iota // bouncing inside, waiting for release
	HouseLeaving                     // scripted path to the door
	HouseInTransit                   // free in the maze under AI control
	HouseEntering                    // eyes descending the door column
	HouseEntered                     // restored, rising back to the door
)

func (h HouseState) String() string {
	switch h {
	case HouseIdle:
		return "idle"
	case HouseLeaving:
		return "leaving"
	case HouseInTransit:
		return "in_transit"
	case HouseEntering:
		return "entering"
	case HouseEntered:
		return "entered"
	default:
		return "unknown"
	}
}

// HouseLayout is the geometry of the pursuer house in grid units.
type HouseLayout struct {
	Bounds       Rect
	DoorColumn   float64
	DoorRow      float64
	CenterRow    float64
	BounceTop    float64
	BounceBottom float64
	Entrance     GridPosition // retreat target outside the door
}

// NewHouseLayout reads the house section of cfg.
func NewHouseLayout(hc config.HouseConfig) HouseLayout {
	return HouseLayout{
		Bounds:       Rect{MinX: hc.Min.X, MinY: hc.Min.Y, MaxX: hc.Max.X, MaxY: hc.Max.Y},
		DoorColumn:   hc.DoorColumn,
		DoorRow:      hc.DoorRow,
		CenterRow:    hc.CenterRow,
		BounceTop:    hc.BounceTop,
		BounceBottom: hc.BounceBottom,
		Entrance:     GridPosition{X: hc.Entrance.X, Y: hc.Entrance.Y},
	}
}

// Inside reports whether g is within the house footprint.
func (h HouseLayout) Inside(g GridPosition) bool { return h.Bounds.Contains(g) }

// passes reports whether the span [a, b] (either order) reaches v.
func passes(a, b, v float64) bool {
	if a > b {
		a, b = b, a
	}
	return a <= v && v <= b
}
