package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Tunnel warp thresholds in grid units. An agent whose grid x drops below
// warpLeftEdge reappears at width+warpRightInset, and one past width+warpRightEdge
// reappears at warpLeftInset; the insets keep the sprite from popping at the seam.
const (
	warpLeftEdge   = -0.75
	warpRightEdge  = -0.25
	warpRightInset = -0.75
	warpLeftInset  = -1.25
)

// Position is a continuous pixel coordinate: the top-left corner of an agent's
// two-tile sprite.
type Position struct {
	X, Y float64
}

// GridPosition is a fractional tile coordinate. Agents parked on a tile have
// integer coordinates.
type GridPosition struct {
	X, Y float64
}

// Vec converts to a gonum vector for distance and offset arithmetic.
func (g GridPosition) Vec() r2.Vec { return r2.Vec{X: g.X, Y: g.Y} }

// gridFromVec is the inverse of Vec.
func gridFromVec(v r2.Vec) GridPosition { return GridPosition{X: v.X, Y: v.Y} }

// Distance is the Euclidean distance in tiles.
func (g GridPosition) Distance(o GridPosition) float64 {
	return r2.Norm(r2.Sub(g.Vec(), o.Vec()))
}

// Rect is an axis-aligned box. The same type serves pixel hitboxes and the
// grid-unit house footprint.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// rectAt builds a box from its top-left corner and size.
func rectAt(x, y, w, h float64) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// Overlaps is a strict overlap test: touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX < o.MaxX && r.MaxX > o.MinX && r.MinY < o.MaxY && r.MaxY > o.MinY
}

// Contains reports whether g lies strictly inside r.
func (r Rect) Contains(g GridPosition) bool {
	return g.X > r.MinX && g.X < r.MaxX && g.Y > r.MinY && g.Y < r.MaxY
}

// ContainsTile reports whether tile (x, y) lies strictly inside r.
func (r Rect) ContainsTile(x, y int) bool {
	return r.Contains(GridPosition{X: float64(x), Y: float64(y)})
}

// Center returns the midpoint of the box.
func (r Rect) Center() Position {
	return Position{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// ToGridPosition converts a pixel position to grid coordinates.
func ToGridPosition(p Position, tileSize float64) GridPosition {
	return GridPosition{X: p.X/tileSize + 0.5, Y: p.Y/tileSize + 0.5}
}

// FromGridPosition is the inverse of ToGridPosition.
func FromGridPosition(g GridPosition, tileSize float64) Position {
	return Position{X: (g.X - 0.5) * tileSize, Y: (g.Y - 0.5) * tileSize}
}

// roundFor returns the rounding rule for a heading: floor when moving up/left,
// ceil when moving down/right.
func roundFor(d Direction) func(float64) float64 {
	if d == DirUp || d == DirLeft {
		return math.Floor
	}
	return math.Ceil
}

// WallAhead reports whether the tile an agent would occupy at next (its grid
// position after a step in d) is a wall.
func WallAhead(next GridPosition, m *TileMap, d Direction) bool {
	round := roundFor(d)
	return m.IsWall(int(round(next.X)), int(round(next.Y)))
}

// ComputeStep extrapolates pos along d for dt milliseconds at velocity px/ms.
func ComputeStep(pos Position, d Direction, velocity, dt, tileSize float64) (Position, GridPosition) {
	delta := d.Sign() * velocity * dt
	next := pos
	if d.Vertical() {
		next.Y += delta
	} else {
		next.X += delta
	}
	return next, ToGridPosition(next, tileSize)
}

// CrossedTileBoundary reports whether moving from old to next enters a new tile.
func CrossedTileBoundary(old, next GridPosition) bool {
	return math.Floor(old.X) != math.Floor(next.X) || math.Floor(old.Y) != math.Floor(next.Y)
}

// SnapToGrid rounds the movement-axis coordinate of g with the heading's rounding
// rule and returns the grid-aligned pixel position.
func SnapToGrid(g GridPosition, d Direction, tileSize float64) Position {
	round := roundFor(d)
	if d.Vertical() {
		g.Y = round(g.Y)
	} else {
		g.X = round(g.X)
	}
	return FromGridPosition(g, tileSize)
}

// isSnapped reports whether pos sits exactly on the actionable tile for heading d.
// Only the movement axis is compared; the other axis is untouched by snapping.
func isSnapped(pos Position, d Direction, tileSize float64) bool {
	snapped := SnapToGrid(ToGridPosition(pos, tileSize), d, tileSize)
	if d.Vertical() {
		return snapped.Y == pos.Y
	}
	return snapped.X == pos.X
}

// ApplyTunnelWarp teleports pos to the opposite edge once its grid x leaves the map.
func ApplyTunnelWarp(pos Position, tileSize float64, m *TileMap) Position {
	g := ToGridPosition(pos, tileSize)
	w := float64(m.Width())
	switch {
	case g.X < warpLeftEdge:
		pos.X = tileSize * (w + warpRightInset)
	case g.X > w+warpRightEdge:
		pos.X = tileSize * warpLeftInset
	}
	return pos
}
