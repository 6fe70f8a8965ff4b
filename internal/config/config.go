// Package config provides configuration loading for the maze simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Role names accepted in the pursuers section.
var knownRoles = []string{"shadow", "speedy", "bashful", "pokey"}

// Config holds every tunable of the simulation.
type Config struct {
	Clock       ClockConfig       `yaml:"clock"`
	Maze        MazeConfig        `yaml:"maze"`
	House       HouseConfig       `yaml:"house"`
	Player      PlayerConfig      `yaml:"player"`
	Pursuers    []PursuerConfig   `yaml:"pursuers"`
	Speeds      SpeedsConfig      `yaml:"speeds"`
	Timing      TimingConfig      `yaml:"timing"`
	Targeting   TargetingConfig   `yaml:"targeting"`
	Progression ProgressionConfig `yaml:"progression"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Lives       int               `yaml:"lives"`
	StartLevel  int               `yaml:"start_level"`
}

// Point is a grid coordinate in tile units.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ClockConfig controls the fixed-timestep loop.
type ClockConfig struct {
	MaxFPS int `yaml:"max_fps"` // update rate; timestep is 1000/MaxFPS ms
}

// MazeConfig holds the tile map. Rows use X (wall), space, o (dot), O (pellet), T (tunnel).
type MazeConfig struct {
	TileSize float64  `yaml:"tile_size"` // pixels per tile
	Rows     []string `yaml:"rows"`
}

// HouseConfig describes the pursuer house footprint and its scripted paths.
type HouseConfig struct {
	Min          Point   `yaml:"min"`
	Max          Point   `yaml:"max"`
	DoorColumn   float64 `yaml:"door_column"`
	DoorRow      float64 `yaml:"door_row"`
	CenterRow    float64 `yaml:"center_row"`
	BounceTop    float64 `yaml:"bounce_top"`
	BounceBottom float64 `yaml:"bounce_bottom"`
	Entrance     Point   `yaml:"entrance"` // retreat target
}

// PlayerConfig is the player's spawn and base velocity.
type PlayerConfig struct {
	Start          Point   `yaml:"start"`
	Direction      string  `yaml:"direction"`
	TilesPerSecond float64 `yaml:"tiles_per_second"`
}

// PursuerConfig is one pursuer's spawn and scatter corner.
type PursuerConfig struct {
	Role      string `yaml:"role"`
	Start     Point  `yaml:"start"`
	Direction string `yaml:"direction"`
	Scatter   Point  `yaml:"scatter"`
	Idle      bool   `yaml:"idle"`
}

// SpeedsConfig holds pursuer velocities as multipliers of the player's velocity.
type SpeedsConfig struct {
	Slow       float64 `yaml:"slow"`
	Medium     float64 `yaml:"medium"`
	Fast       float64 `yaml:"fast"`
	LevelStep  float64 `yaml:"level_step"`
	Scared     float64 `yaml:"scared"`
	Transition float64 `yaml:"transition"`
	Eyes       float64 `yaml:"eyes"`
}

// TimingConfig holds every countdown, in milliseconds of simulated time.
type TimingConfig struct {
	ReadyMs               float64 `yaml:"ready_ms"`
	ScatterMs             float64 `yaml:"scatter_ms"`
	ChaseMs               float64 `yaml:"chase_ms"`
	FrightenedBaseMs      float64 `yaml:"frightened_base_ms"`
	FrightenedPerLevelMs  float64 `yaml:"frightened_per_level_ms"`
	FlashIntervalMs       float64 `yaml:"flash_interval_ms"`
	FlashCount            int     `yaml:"flash_count"`
	ReleaseBaseMs         float64 `yaml:"release_base_ms"`
	ReleasePerLevelMs     float64 `yaml:"release_per_level_ms"`
	FreezeMs              float64 `yaml:"freeze_ms"`
	DeathHideMs           float64 `yaml:"death_hide_ms"`
	DeathAnimationMs      float64 `yaml:"death_animation_ms"`
	DeathEndMs            float64 `yaml:"death_end_ms"`
	LevelClearMs          float64 `yaml:"level_clear_ms"`
	FruitLifetimeMs       float64 `yaml:"fruit_lifetime_ms"`
	ProximityCadenceMs    float64 `yaml:"proximity_cadence_ms"`
	ProximityWindowFactor float64 `yaml:"proximity_window_factor"` // broad-phase radius = player velocity * this
}

// TargetingConfig tunes the chase strategies.
type TargetingConfig struct {
	LeadTiles  float64 `yaml:"lead_tiles"`
	PivotTiles float64 `yaml:"pivot_tiles"`
	FleeRadius float64 `yaml:"flee_radius"`
}

// ProgressionConfig holds remaining-dot thresholds.
type ProgressionConfig struct {
	FruitDots  []int  `yaml:"fruit_dots"`
	CruiseDots []int  `yaml:"cruise_dots"`
	CruiseRole string `yaml:"cruise_role"`
	SirenHigh  int    `yaml:"siren_high"`
	SirenLow   int    `yaml:"siren_low"`
	Fruit      Point  `yaml:"fruit"` // fruit tile
}

// ScoringConfig holds point values.
type ScoringConfig struct {
	Dot         int   `yaml:"dot"`
	Pellet      int   `yaml:"pellet"`
	GhostBase   int   `yaml:"ghost_base"`
	ExtraLifeAt int   `yaml:"extra_life_at"`
	Fruit       []int `yaml:"fruit"` // by level; the last entry covers every later level
}

// Default returns the embedded defaults. It panics only if the embedded file is broken.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file; lists are replaced whole.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	if c.Clock.MaxFPS <= 0 {
		return fmt.Errorf("clock.max_fps must be > 0, got %d: %w", c.Clock.MaxFPS, ErrInvalid)
	}
	if c.Maze.TileSize <= 0 {
		return fmt.Errorf("maze.tile_size must be > 0, got %g: %w", c.Maze.TileSize, ErrInvalid)
	}
	if c.Player.TilesPerSecond <= 0 {
		return fmt.Errorf("player.tiles_per_second must be > 0: %w", ErrInvalid)
	}
	if c.Lives <= 0 {
		return fmt.Errorf("lives must be > 0: %w", ErrInvalid)
	}
	if c.StartLevel <= 0 {
		return fmt.Errorf("start_level must be > 0: %w", ErrInvalid)
	}
	if c.Timing.FlashIntervalMs <= 0 {
		return fmt.Errorf("timing.flash_interval_ms must be > 0: %w", ErrInvalid)
	}
	if c.Timing.ProximityCadenceMs <= 0 {
		return fmt.Errorf("timing.proximity_cadence_ms must be > 0: %w", ErrInvalid)
	}

	seen := make(map[string]bool, len(knownRoles))
	for i, p := range c.Pursuers {
		if !isKnownRole(p.Role) {
			return fmt.Errorf("pursuers[%d]: unknown role %q: %w", i, p.Role, ErrInvalid)
		}
		if seen[p.Role] {
			return fmt.Errorf("pursuers[%d]: duplicate role %q: %w", i, p.Role, ErrInvalid)
		}
		seen[p.Role] = true
	}
	for _, r := range knownRoles {
		if !seen[r] {
			return fmt.Errorf("pursuers: missing role %q: %w", r, ErrInvalid)
		}
	}
	if !isKnownRole(c.Progression.CruiseRole) {
		return fmt.Errorf("progression.cruise_role %q: %w", c.Progression.CruiseRole, ErrInvalid)
	}
	return nil
}

// Pursuer returns the entry for role, or false.
func (c *Config) Pursuer(role string) (PursuerConfig, bool) {
	for _, p := range c.Pursuers {
		if p.Role == role {
			return p, true
		}
	}
	return PursuerConfig{}, false
}

// TimestepMs is the fixed update step derived from MaxFPS.
func (c *Config) TimestepMs() float64 {
	return 1000 / float64(c.Clock.MaxFPS)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func isKnownRole(r string) bool {
	for _, k := range knownRoles {
		if k == r {
			return true
		}
	}
	return false
}
