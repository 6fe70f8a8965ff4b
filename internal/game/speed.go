package game

import "github.com/Garsondee/Maze-Sense/internal/config"

// speedTier is a pursuer's baseline speed step.
type speedTier uint8

const (
	tierSlow speedTier = iota
	tierMedium
	tierFast
)

// PursuerSpeeds are one pursuer's velocities in px/ms.
type PursuerSpeeds struct {
	Slow       float64
	Medium     float64
	Fast       float64
	Scared     float64
	Transition float64 // tunnel and house footprint
	Eyes       float64
}

func (ps PursuerSpeeds) baseline(t speedTier) float64 {
	switch t {
	case tierMedium:
		return ps.Medium
	case tierFast:
		return ps.Fast
	default:
		return ps.Slow
	}
}

// SpeedConfig is the injectable per-character velocity set. Pursuers missing
// from the map keep their current speeds.
type SpeedConfig struct {
	Player   float64
	Pursuers map[Role]PursuerSpeeds
}

// PlayerVelocity is the player's px/ms velocity for a tile size.
func PlayerVelocity(tilesPerSecond, tileSize float64) float64 {
	return tilesPerSecond * tileSize / 1000
}

// DefaultSpeeds derives every velocity for a level from the player's velocity.
func DefaultSpeeds(cfg *config.Config, level int) SpeedConfig {
	pv := PlayerVelocity(cfg.Player.TilesPerSecond, cfg.Maze.TileSize)
	sp := cfg.Speeds
	adj := float64(level) * sp.LevelStep
	ps := PursuerSpeeds{
		Slow:       pv * (sp.Slow + adj),
		Medium:     pv * (sp.Medium + adj),
		Fast:       pv * (sp.Fast + adj),
		Scared:     pv * sp.Scared,
		Transition: pv * sp.Transition,
		Eyes:       pv * sp.Eyes,
	}
	out := SpeedConfig{Player: pv, Pursuers: make(map[Role]PursuerSpeeds, len(Roles))}
	for _, r := range Roles {
		out.Pursuers[r] = ps
	}
	return out
}
