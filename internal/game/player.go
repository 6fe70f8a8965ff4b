package game

// Player is the input-driven agent. Direction only changes when a move in the
// desired direction is legal; DesiredDirection follows input immediately.
type Player struct {
	Position         Position
	OldPosition      Position
	Direction        Direction
	DesiredDirection Direction
	Moving           bool
	Visible          bool

	velocity float64
	maze     *TileMap
	tileSize float64
	spawn    GridPosition
	spawnDir Direction
}

// NewPlayer creates the player at spawn facing dir.
func NewPlayer(maze *TileMap, tileSize float64, spawn GridPosition, dir Direction, velocity float64) *Player {
	p := &Player{
		velocity: velocity,
		maze:     maze,
		tileSize: tileSize,
		spawn:    spawn,
		spawnDir: dir,
	}
	p.Reset()
	return p
}

// Reset returns the player to its spawn, stationary.
func (p *Player) Reset() {
	p.Position = FromGridPosition(p.spawn, p.tileSize)
	p.OldPosition = p.Position
	p.Direction = p.spawnDir
	p.DesiredDirection = p.spawnDir
	p.Moving = false
	p.Visible = true
}

// Velocity is the player's speed in px/ms.
func (p *Player) Velocity() float64 { return p.velocity }

// SetVelocity replaces the player's speed.
func (p *Player) SetVelocity(v float64) { p.velocity = v }

// Grid returns the player's grid position.
func (p *Player) Grid() GridPosition { return ToGridPosition(p.Position, p.tileSize) }

// View is the read-only state pursuers target.
func (p *Player) View() PlayerView { return PlayerView{Grid: p.Grid(), Facing: p.Direction} }

// Center is the pixel centre of the two-tile sprite.
func (p *Player) Center() Position {
	return Position{X: p.Position.X + p.tileSize, Y: p.Position.Y + p.tileSize}
}

// Hitbox is the sprite box inset by a quarter on every side.
func (p *Player) Hitbox() Rect {
	size := 2 * p.tileSize
	inset := size / 4
	return rectAt(p.Position.X+inset, p.Position.Y+inset, size/2, size/2)
}

// SetDesiredDirection records input and starts the player moving.
func (p *Player) SetDesiredDirection(d Direction) {
	p.DesiredDirection = d
	p.Moving = true
}

// Update advances the player by dt milliseconds.
func (p *Player) Update(dt float64) {
	p.OldPosition = p.Position
	if !p.Moving {
		return
	}
	var next Position
	if isSnapped(p.Position, p.Direction, p.tileSize) {
		next = p.snappedMove(dt)
	} else {
		next = p.unsnappedMove(dt)
	}
	p.Position = ApplyTunnelWarp(next, p.tileSize, p.maze)
}

// snappedMove turns toward the desired direction if the way is open, otherwise
// keeps going, otherwise stops.
func (p *Player) snappedMove(dt float64) Position {
	desired, desiredGrid := ComputeStep(p.Position, p.DesiredDirection, p.velocity, dt, p.tileSize)
	if !WallAhead(desiredGrid, p.maze, p.DesiredDirection) {
		p.Direction = p.DesiredDirection
		return desired
	}
	ahead, aheadGrid := ComputeStep(p.Position, p.Direction, p.velocity, dt, p.tileSize)
	if WallAhead(aheadGrid, p.maze, p.Direction) {
		p.Moving = false
		return p.Position
	}
	return ahead
}

// unsnappedMove allows an immediate reversal mid-tile; any other change waits
// for the next tile, which the step snaps onto rather than overshooting.
func (p *Player) unsnappedMove(dt float64) Position {
	if isReversal(p.Direction, p.DesiredDirection) {
		p.Direction = p.DesiredDirection
		next, _ := ComputeStep(p.Position, p.Direction, p.velocity, dt, p.tileSize)
		return next
	}
	grid := p.Grid()
	next, nextGrid := ComputeStep(p.Position, p.Direction, p.velocity, dt, p.tileSize)
	if CrossedTileBoundary(grid, nextGrid) {
		return SnapToGrid(grid, p.Direction, p.tileSize)
	}
	return next
}
