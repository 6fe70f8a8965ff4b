package game

import (
	"math"

	"github.com/google/uuid"
)

// Palette is the Frightened sub-state used by renderers for the flash phase.
type Palette uint8

const (
	PaletteNormal Palette = iota
	PaletteBlue
	PaletteWhite
)

func (p Palette) String() string {
	switch p {
	case PaletteBlue:
		return "blue"
	case PaletteWhite:
		return "white"
	default:
		return "normal"
	}
}

type pursuerSpawn struct {
	grid GridPosition
	dir  Direction
	idle bool
}

// Pursuer is one AI-controlled ghost. Its identity (ID) survives Reset so event
// payloads stay valid across lives and levels.
type Pursuer struct {
	ID          uuid.UUID
	Role        Role
	Position    Position
	OldPosition Position // previous tick, for render interpolation
	Direction   Direction
	Mode        Mode
	DefaultMode Mode // globally active scatter/chase mode
	House       HouseState
	Palette     Palette

	AllowCollision bool
	Moving         bool
	Visible        bool
	Paused         bool // frozen in place unless retreating

	cruise bool
	tier   speedTier
	speeds PursuerSpeeds

	corner GridPosition
	chase  chaseStrategy
	ally   *Pursuer

	maze     *TileMap
	house    HouseLayout
	tileSize float64
	spawn    pursuerSpawn
	events   *EventQueue
}

// newPursuer creates a pursuer at its spawn. ally is the pursuer whose position
// the reflection strategy reads; it may be set later with SetAlly.
func newPursuer(role Role, spawn GridPosition, dir Direction, idle bool, corner GridPosition,
	strategy chaseStrategy, maze *TileMap, house HouseLayout, tileSize float64, events *EventQueue) *Pursuer {
	g := &Pursuer{
		ID:       uuid.New(),
		Role:     role,
		corner:   corner,
		chase:    strategy,
		maze:     maze,
		house:    house,
		tileSize: tileSize,
		spawn:    pursuerSpawn{grid: spawn, dir: dir, idle: idle},
		events:   events,
	}
	if g.events == nil {
		g.events = &EventQueue{}
	}
	g.Reset()
	return g
}

// SetAlly wires the pursuer read by the reflection strategy.
func (g *Pursuer) SetAlly(a *Pursuer) { g.ally = a }

// Grid returns the pursuer's grid position.
func (g *Pursuer) Grid() GridPosition { return ToGridPosition(g.Position, g.tileSize) }

// SetSpeeds replaces the velocity set. The baseline tier is kept, so a sped-up
// pursuer stays on its tier under the new values.
func (g *Pursuer) SetSpeeds(ps PursuerSpeeds) { g.speeds = ps }

// Speeds returns the current velocity set.
func (g *Pursuer) Speeds() PursuerSpeeds { return g.speeds }

// Cruising reports whether the speed-up flag is set.
func (g *Pursuer) Cruising() bool { return g.cruise }

// Reset returns the pursuer to its spawn and clears every per-life flag.
func (g *Pursuer) Reset() {
	g.Position = FromGridPosition(g.spawn.grid, g.tileSize)
	g.OldPosition = g.Position
	g.Direction = g.spawn.dir
	g.Mode = ModeScatter
	g.DefaultMode = ModeScatter
	g.House = HouseInTransit
	if g.spawn.idle {
		g.House = HouseIdle
	}
	g.Palette = PaletteNormal
	g.AllowCollision = true
	g.Moving = false
	g.Visible = true
	g.Paused = false
	g.cruise = false
	g.tier = tierSlow
}

// Velocity returns the px/ms velocity for the pursuer at grid. Retreating wins,
// then a freeze, then the tunnel/house transition speed, then Frightened, then
// the baseline tier.
func (g *Pursuer) Velocity(grid GridPosition) float64 {
	switch {
	case g.Mode == ModeRetreating:
		return g.speeds.Eyes
	case g.Paused:
		return 0
	case g.inTunnel(grid) || g.house.Inside(grid):
		return g.speeds.Transition
	case g.Mode == ModeFrightened:
		return g.speeds.Scared
	default:
		return g.speeds.baseline(g.tier)
	}
}

func (g *Pursuer) inTunnel(grid GridPosition) bool {
	return g.maze.At(int(math.Floor(grid.X)), int(math.Round(grid.Y))) == CellTunnel
}

// canReverse is false anywhere the house script owns the heading.
func (g *Pursuer) canReverse() bool {
	return g.House == HouseInTransit && !g.house.Inside(g.Grid())
}

// ChangeMode applies a scatter/chase flip from the mode cycle. Pursuers in
// Scatter or Chase adopt it and reverse; Frightened and Retreating pursuers
// pick it up when they recover.
func (g *Pursuer) ChangeMode(m Mode) {
	g.DefaultMode = m
	if g.Mode != ModeScatter && g.Mode != ModeChase {
		return
	}
	if g.Mode == m {
		return
	}
	g.Mode = m
	if g.canReverse() {
		g.Direction = g.Direction.Opposite()
	}
}

// BecomeScared enters Frightened. Retreating pursuers ignore it; pursuers that are
// already Frightened do not reverse a second time.
func (g *Pursuer) BecomeScared() {
	if g.Mode == ModeRetreating {
		return
	}
	if g.Mode != ModeFrightened && g.canReverse() {
		g.Direction = g.Direction.Opposite()
	}
	g.Mode = ModeFrightened
	g.Palette = PaletteBlue
}

// EndScared returns a Frightened pursuer to the active default mode.
func (g *Pursuer) EndScared() {
	if g.Mode != ModeFrightened {
		return
	}
	g.Mode = g.DefaultMode
	g.Palette = PaletteNormal
}

// ToggleFlash swaps the Frightened palette between blue and white.
func (g *Pursuer) ToggleFlash() {
	if g.Mode != ModeFrightened {
		return
	}
	if g.Palette == PaletteBlue {
		g.Palette = PaletteWhite
	} else {
		g.Palette = PaletteBlue
	}
}

// EndIdleMode releases an idle pursuer; it scripts its way out of the house.
func (g *Pursuer) EndIdleMode() {
	if g.House == HouseIdle {
		g.House = HouseLeaving
	}
}

// SpeedUp steps the baseline slow -> medium -> fast and sets the sticky cruise
// flag, which makes Scatter target the player until the next Reset.
func (g *Pursuer) SpeedUp() {
	g.cruise = true
	if g.tier < tierFast {
		g.tier++
	}
}

// Update advances the pursuer by dt milliseconds.
func (g *Pursuer) Update(dt float64, player PlayerView) {
	g.OldPosition = g.Position
	if !g.Moving {
		return
	}
	switch g.House {
	case HouseIdle:
		g.bounce(dt)
	case HouseLeaving:
		g.leave(dt)
	case HouseEntering:
		g.descend(dt)
	case HouseEntered:
		g.rise(dt)
	default:
		g.roam(dt, player)
	}
}

// roam is grid movement under AI control.
func (g *Pursuer) roam(dt float64, player PlayerView) {
	grid := g.Grid()
	v := g.Velocity(grid)
	if v == 0 {
		return
	}

	var next Position
	if isSnapped(g.Position, g.Direction, g.tileSize) {
		g.Direction = g.chooseDirection(grid, player)
		next, _ = ComputeStep(g.Position, g.Direction, v, dt, g.tileSize)
	} else {
		var ng GridPosition
		next, ng = ComputeStep(g.Position, g.Direction, v, dt, g.tileSize)
		if CrossedTileBoundary(grid, ng) {
			next = SnapToGrid(grid, g.Direction, g.tileSize)
		}
	}
	next = ApplyTunnelWarp(next, g.tileSize, g.maze)

	if g.Mode == ModeRetreating && !g.Direction.Vertical() && near(grid.Y, g.house.DoorRow) &&
		passes(grid.X, ToGridPosition(next, g.tileSize).X, g.house.DoorColumn) {
		g.Position = FromGridPosition(GridPosition{X: g.house.DoorColumn, Y: g.house.DoorRow}, g.tileSize)
		g.Direction = DirDown
		g.House = HouseEntering
		return
	}
	g.Position = next
}

// bounce is the idle up-and-down inside the house.
func (g *Pursuer) bounce(dt float64) {
	grid := g.Grid()
	if grid.Y <= g.house.BounceTop {
		g.Direction = DirDown
	} else if grid.Y >= g.house.BounceBottom {
		g.Direction = DirUp
	}
	g.Position, _ = ComputeStep(g.Position, g.Direction, g.Velocity(grid), dt, g.tileSize)
}

// leave walks to the centre row, across to the door column and up through the door.
func (g *Pursuer) leave(dt float64) {
	grid := g.Grid()
	v := g.Velocity(grid)
	h := g.house
	switch {
	case !near(grid.X, h.DoorColumn) && !near(grid.Y, h.CenterRow):
		g.Direction = DirDown
		if grid.Y > h.CenterRow {
			g.Direction = DirUp
		}
		g.stepToward(v, dt, h.CenterRow)
	case !near(grid.X, h.DoorColumn):
		g.Direction = DirRight
		if grid.X > h.DoorColumn {
			g.Direction = DirLeft
		}
		g.stepToward(v, dt, h.DoorColumn)
	default:
		g.Direction = DirUp
		if g.stepToward(v, dt, h.DoorRow) {
			g.House = HouseInTransit
			g.Direction = DirLeft
			g.events.Push(Event{Kind: EventReleaseGhost, Pursuer: g.ID, Role: g.Role})
		}
	}
}

// descend carries the eyes down the door column to the house centre.
func (g *Pursuer) descend(dt float64) {
	g.Direction = DirDown
	if g.stepToward(g.Velocity(g.Grid()), dt, g.house.CenterRow) {
		g.Mode = g.DefaultMode
		g.Palette = PaletteNormal
		g.House = HouseEntered
		g.Direction = DirUp
		g.events.Push(Event{Kind: EventRestoreGhost, Pursuer: g.ID, Role: g.Role})
	}
}

// rise takes a restored pursuer back up to the door row.
func (g *Pursuer) rise(dt float64) {
	g.Direction = DirUp
	if g.stepToward(g.Velocity(g.Grid()), dt, g.house.DoorRow) {
		g.House = HouseInTransit
		g.Direction = DirLeft
	}
}

// stepToward moves along the current heading and stops exactly on the grid
// coordinate stop if the step would reach or pass it. It reports arrival.
func (g *Pursuer) stepToward(v, dt, stop float64) bool {
	old := g.Grid()
	next, ng := ComputeStep(g.Position, g.Direction, v, dt, g.tileSize)
	if g.Direction.Vertical() {
		if passes(old.Y, ng.Y, stop) {
			next.Y = (stop - 0.5) * g.tileSize
			g.Position = next
			return true
		}
	} else if passes(old.X, ng.X, stop) {
		next.X = (stop - 0.5) * g.tileSize
		g.Position = next
		return true
	}
	g.Position = next
	return false
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
