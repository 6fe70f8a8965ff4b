package game

import "fmt"

// Direction is one of the four axis-aligned headings an agent can travel in.
type Direction uint8

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists every heading in the order candidates are evaluated at a junction.
// The order matters: on an exact distance tie the earlier entry wins.
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// ParseDirection maps a config/CLI name to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	}
	return DirUp, fmt.Errorf("unknown direction %q", s)
}

// Opposite returns the reverse heading.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// Vertical reports whether the heading moves along the y axis.
func (d Direction) Vertical() bool {
	return d == DirUp || d == DirDown
}

// Sign is -1 for up/left and +1 for down/right.
func (d Direction) Sign() float64 {
	if d == DirUp || d == DirLeft {
		return -1
	}
	return 1
}

// Delta returns the unit tile offset for the heading.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 1, 0
	}
}

// isReversal reports whether b is the exact opposite of a.
func isReversal(a, b Direction) bool {
	return a.Opposite() == b
}
