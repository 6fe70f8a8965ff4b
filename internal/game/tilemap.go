package game

import (
	"errors"
	"fmt"
	"strings"
)

// Cell identifies the static content of one maze tile.
type Cell uint8

const (
	CellWall        Cell = iota // impassable
	CellOpen                    // walkable, nothing to collect
	CellDot                     // walkable, holds a dot at start of level
	CellPowerPellet             // walkable, holds a power pellet at start of level
	CellTunnel                  // walkable, slows pursuers, wraps at the map edge
)

// Single-character cell codes accepted by ParseTileMap.
const (
	CodeWall        = 'X'
	CodeOpen        = ' '
	CodeDot         = 'o'
	CodePowerPellet = 'O'
	CodeTunnel      = 'T'
)

var (
	ErrEmptyMaze        = errors.New("maze has no rows")
	ErrRaggedMaze       = errors.New("maze rows differ in length")
	ErrUnknownCell      = errors.New("unknown cell code")
	ErrTunnelAsymmetric = errors.New("tunnel opening without a matching opposite edge")
	ErrDisconnected     = errors.New("walkable region is not contiguous")
	ErrDeadEnd          = errors.New("walkable cell has fewer than two exits")
)

// Walkable reports whether agents may occupy the cell.
func (c Cell) Walkable() bool { return c != CellWall }

// Code returns the single-character representation of the cell.
func (c Cell) Code() byte {
	switch c {
	case CellOpen:
		return CodeOpen
	case CellDot:
		return CodeDot
	case CellPowerPellet:
		return CodePowerPellet
	case CellTunnel:
		return CodeTunnel
	default:
		return CodeWall
	}
}

func cellFromCode(b byte) (Cell, bool) {
	switch b {
	case CodeWall:
		return CellWall, true
	case CodeOpen:
		return CellOpen, true
	case CodeDot:
		return CellDot, true
	case CodePowerPellet:
		return CellPowerPellet, true
	case CodeTunnel:
		return CellTunnel, true
	}
	return CellWall, false
}

// TileMap is the immutable maze grid. Consumption of dots and pellets is tracked
// by Pickup values, never by mutating the map.
type TileMap struct {
	width  int
	height int
	cells  [][]Cell
}

// ParseTileMap builds a TileMap from rows of cell codes. Rows must be rectangular
// and any row that opens onto one edge through a tunnel must open onto the other.
func ParseTileMap(rows []string) (*TileMap, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyMaze
	}
	w := len(rows[0])
	m := &TileMap{width: w, height: len(rows), cells: make([][]Cell, len(rows))}
	for y, line := range rows {
		if len(line) != w {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", y, len(line), w, ErrRaggedMaze)
		}
		m.cells[y] = make([]Cell, w)
		for x := 0; x < w; x++ {
			c, ok := cellFromCode(line[x])
			if !ok {
				return nil, fmt.Errorf("cell (%d,%d) %q: %w", x, y, line[x], ErrUnknownCell)
			}
			m.cells[y][x] = c
		}
		if (m.cells[y][0] == CellTunnel) != (m.cells[y][w-1] == CellTunnel) {
			return nil, fmt.Errorf("row %d: %w", y, ErrTunnelAsymmetric)
		}
	}
	return m, nil
}

// Width returns the number of columns.
func (m *TileMap) Width() int { return m.width }

// Height returns the number of rows.
func (m *TileMap) Height() int { return m.height }

// TunnelRow reports whether row y wraps horizontally.
func (m *TileMap) TunnelRow(y int) bool {
	if y < 0 || y >= m.height {
		return false
	}
	return m.cells[y][0] == CellTunnel
}

// At returns the cell at (x, y). Anything outside the map reads as a wall, except
// columns beyond the left/right edge of a tunnel row, which read as tunnel so that
// agents can run off the edge and warp.
func (m *TileMap) At(x, y int) Cell {
	if y < 0 || y >= m.height {
		return CellWall
	}
	if x < 0 || x >= m.width {
		if m.TunnelRow(y) {
			return CellTunnel
		}
		return CellWall
	}
	return m.cells[y][x]
}

// IsWall is shorthand for !At(x, y).Walkable().
func (m *TileMap) IsWall(x, y int) bool {
	return !m.At(x, y).Walkable()
}

// Each calls fn for every in-bounds cell in row-major order.
func (m *TileMap) Each(fn func(x, y int, c Cell)) {
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			fn(x, y, m.cells[y][x])
		}
	}
}

// Count returns how many cells hold the given kind.
func (m *TileMap) Count(kind Cell) int {
	n := 0
	m.Each(func(_, _ int, c Cell) {
		if c == kind {
			n++
		}
	})
	return n
}

// neighbour wraps x on tunnel rows so flood fills see both tunnel mouths as adjacent.
func (m *TileMap) neighbour(x, y int, d Direction) (int, int) {
	dx, dy := d.Delta()
	nx, ny := x+dx, y+dy
	if m.TunnelRow(ny) {
		nx = (nx + m.width) % m.width
	}
	return nx, ny
}

// Validate checks the authoring invariants pursuers rely on: every walkable cell
// outside the exempt rectangle (the pursuer house) belongs to one contiguous region
// and has at least two exits, so a pursuer that may not reverse always has a move.
func (m *TileMap) Validate(exempt Rect) error {
	inScope := func(x, y int) bool {
		return m.At(x, y).Walkable() && !exempt.ContainsTile(x, y)
	}

	total := 0
	startX, startY := -1, -1
	var deadEnds []string
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if !inScope(x, y) {
				continue
			}
			total++
			if startX < 0 {
				startX, startY = x, y
			}
			exits := 0
			for _, d := range Directions {
				nx, ny := m.neighbour(x, y, d)
				if m.At(nx, ny).Walkable() {
					exits++
				}
			}
			if exits < 2 {
				deadEnds = append(deadEnds, fmt.Sprintf("(%d,%d)", x, y))
			}
		}
	}
	if total == 0 {
		return ErrEmptyMaze
	}
	if len(deadEnds) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(deadEnds, " "), ErrDeadEnd)
	}

	seen := make([][]bool, m.height)
	for y := range seen {
		seen[y] = make([]bool, m.width)
	}
	queue := [][2]int{{startX, startY}}
	seen[startY][startX] = true
	reached := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		reached++
		for _, d := range Directions {
			nx, ny := m.neighbour(cur[0], cur[1], d)
			if nx < 0 || nx >= m.width || ny < 0 || ny >= m.height {
				continue
			}
			if seen[ny][nx] || !inScope(nx, ny) {
				continue
			}
			seen[ny][nx] = true
			queue = append(queue, [2]int{nx, ny})
		}
	}
	if reached != total {
		return fmt.Errorf("reached %d of %d walkable cells: %w", reached, total, ErrDisconnected)
	}
	return nil
}

// DefaultMaze is the classic 28x31 layout. Row 14 is the wrap-around tunnel.
var DefaultMaze = []string{
	"XXXXXXXXXXXXXXXXXXXXXXXXXXXX",
	"XooooooooooooXXooooooooooooX",
	"XoXXXXoXXXXXoXXoXXXXXoXXXXoX",
	"XOXXXXoXXXXXoXXoXXXXXoXXXXOX",
	"XoXXXXoXXXXXoXXoXXXXXoXXXXoX",
	"XooooooooooooooooooooooooooX",
	"XoXXXXoXXoXXXXXXXXoXXoXXXXoX",
	"XoXXXXoXXoXXXXXXXXoXXoXXXXoX",
	"XooooooXXooooXXooooXXooooooX",
	"XXXXXXoXXXXX XX XXXXXoXXXXXX",
	"XXXXXXoXXXXX XX XXXXXoXXXXXX",
	"XXXXXXoXX          XXoXXXXXX",
	"XXXXXXoXX XXXXXXXX XXoXXXXXX",
	"XXXXXXoXX X      X XXoXXXXXX",
	"TTTTTTo   X      X   oTTTTTT",
	"XXXXXXoXX X      X XXoXXXXXX",
	"XXXXXXoXX XXXXXXXX XXoXXXXXX",
	"XXXXXXoXX          XXoXXXXXX",
	"XXXXXXoXX XXXXXXXX XXoXXXXXX",
	"XXXXXXoXX XXXXXXXX XXoXXXXXX",
	"XooooooooooooXXooooooooooooX",
	"XoXXXXoXXXXXoXXoXXXXXoXXXXoX",
	"XoXXXXoXXXXXoXXoXXXXXoXXXXoX",
	"XOooXXooooooo  oooooooXXooOX",
	"XXXoXXoXXoXXXXXXXXoXXoXXoXXX",
	"XXXoXXoXXoXXXXXXXXoXXoXXoXXX",
	"XooooooXXooooXXooooXXooooooX",
	"XoXXXXXXXXXXoXXoXXXXXXXXXXoX",
	"XoXXXXXXXXXXoXXoXXXXXXXXXXoX",
	"XooooooooooooooooooooooooooX",
	"XXXXXXXXXXXXXXXXXXXXXXXXXXXX",
}
