package game

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/Garsondee/Maze-Sense/internal/config"
)

// ErrUnknownRole is returned when a config names a pursuer role that does not exist.
var ErrUnknownRole = errors.New("unknown pursuer role")

// Role identifies one of the four pursuers and fixes its chase strategy.
type Role uint8

const (
	RoleShadow  Role = iota // A: direct pursuit
	RoleSpeedy              // B: ambush ahead of the player
	RoleBashful             // C: reflection through a pivot ahead of the player
	RolePokey               // D: pursue when far, retreat to its corner when close
)

// Roles lists every role in release order.
var Roles = [4]Role{RoleShadow, RoleSpeedy, RoleBashful, RolePokey}

func (r Role) String() string {
	switch r {
	case RoleShadow:
		return "shadow"
	case RoleSpeedy:
		return "speedy"
	case RoleBashful:
		return "bashful"
	case RolePokey:
		return "pokey"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// ParseRole maps a config name to a Role.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownRole)
}

// Mode is a pursuer's behavioural mode.
type Mode uint8

const (
	ModeScatter Mode = iota
	ModeChase
	ModeFrightened
	ModeRetreating
)

func (m Mode) String() string {
	switch m {
	case ModeScatter:
		return "scatter"
	case ModeChase:
		return "chase"
	case ModeFrightened:
		return "frightened"
	case ModeRetreating:
		return "retreating"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// PlayerView is what pursuers may read of the player.
type PlayerView struct {
	Grid   GridPosition
	Facing Direction
}

// chaseContext is the input to a chase strategy.
type chaseContext struct {
	self   GridPosition
	player PlayerView
	ally   GridPosition
}

// chaseStrategy picks a Chase-mode target tile.
type chaseStrategy func(chaseContext) GridPosition

// aheadOf returns the point n tiles ahead of the player along its facing.
func aheadOf(p PlayerView, n float64) r2.Vec {
	dx, dy := p.Facing.Delta()
	return r2.Add(p.Grid.Vec(), r2.Scale(n, r2.Vec{X: float64(dx), Y: float64(dy)}))
}

// newChaseStrategy selects the strategy for role once, at construction.
func newChaseStrategy(role Role, tc config.TargetingConfig, corner GridPosition) chaseStrategy {
	switch role {
	case RoleSpeedy:
		return func(c chaseContext) GridPosition {
			return gridFromVec(aheadOf(c.player, tc.LeadTiles))
		}
	case RoleBashful:
		return func(c chaseContext) GridPosition {
			pivot := aheadOf(c.player, tc.PivotTiles)
			return gridFromVec(r2.Add(pivot, r2.Sub(pivot, c.ally.Vec())))
		}
	case RolePokey:
		return func(c chaseContext) GridPosition {
			if c.self.Distance(c.player.Grid) > tc.FleeRadius {
				return c.player.Grid
			}
			return corner
		}
	default:
		return func(c chaseContext) GridPosition { return c.player.Grid }
	}
}

// target returns the tile the pursuer steers toward in its current mode.
func (g *Pursuer) target(self GridPosition, player PlayerView) GridPosition {
	switch g.Mode {
	case ModeRetreating:
		return g.house.Entrance
	case ModeFrightened:
		return player.Grid
	case ModeScatter:
		if g.cruise {
			return player.Grid
		}
		return g.corner
	default:
		var ally GridPosition
		if g.ally != nil {
			ally = g.ally.Grid()
		}
		return g.chase(chaseContext{self: self, player: player, ally: ally})
	}
}

// chooseDirection applies the junction rule at a snapped tile: never reverse,
// never enter a wall, take a lone exit unconditionally, otherwise score exits by
// distance to the target (largest wins when Frightened, smallest otherwise; ties
// go to the earlier entry of Directions).
func (g *Pursuer) chooseDirection(self GridPosition, player PlayerView) Direction {
	var moves [4]Direction
	n := 0
	for _, d := range Directions {
		if isReversal(g.Direction, d) {
			continue
		}
		dx, dy := d.Delta()
		if g.maze.IsWall(int(math.Round(self.X))+dx, int(math.Round(self.Y))+dy) {
			continue
		}
		moves[n] = d
		n++
	}
	switch n {
	case 0:
		return g.Direction
	case 1:
		return moves[0]
	}

	target := g.target(self, player)
	flee := g.Mode == ModeFrightened
	best := moves[0]
	bestDist := stepTile(self, best).Distance(target)
	for _, d := range moves[1:n] {
		dist := stepTile(self, d).Distance(target)
		if (flee && dist > bestDist) || (!flee && dist < bestDist) {
			best, bestDist = d, dist
		}
	}
	return best
}

func stepTile(g GridPosition, d Direction) GridPosition {
	dx, dy := d.Delta()
	return GridPosition{X: g.X + float64(dx), Y: g.Y + float64(dy)}
}
