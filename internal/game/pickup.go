package game

import (
	"math"

	"github.com/google/uuid"
)

// PickupKind is the kind of collectible.
type PickupKind uint8

const (
	PickupDot PickupKind = iota
	PickupPowerPellet
	PickupFruit
	PickupGhost // award type only; never placed on the board
)

func (k PickupKind) String() string {
	switch k {
	case PickupDot:
		return "dot"
	case PickupPowerPellet:
		return "pellet"
	case PickupGhost:
		return "ghost"
	default:
		return "fruit"
	}
}

// Pickup is a collectible. Collection hides it; the tile map is never touched.
type Pickup struct {
	ID         uuid.UUID
	Kind       PickupKind
	Col, Row   int
	Box        Rect // pixels
	Points     int
	Visible    bool
	NearPlayer bool // set by the broad phase
}

// NewPickup places a pickup on tile (col, row). Dots are a centred quarter tile,
// pellets fill the tile and fruit is a two-tile box centred on the tile corner.
func NewPickup(kind PickupKind, col, row int, tileSize float64, points int) *Pickup {
	x, y := float64(col)*tileSize, float64(row)*tileSize
	var box Rect
	switch kind {
	case PickupDot:
		off := tileSize * 3 / 8
		box = rectAt(x+off, y+off, tileSize/4, tileSize/4)
	case PickupPowerPellet:
		box = rectAt(x, y, tileSize, tileSize)
	default:
		box = rectAt(x-tileSize/2, y-tileSize/2, 2*tileSize, 2*tileSize)
	}
	return &Pickup{
		ID:      uuid.New(),
		Kind:    kind,
		Col:     col,
		Row:     row,
		Box:     box,
		Points:  points,
		Visible: kind != PickupFruit,
	}
}

// UpdateProximity is the broad phase: mark the pickup near if its centre is within
// window pixels of the player's centre. Hidden pickups are left alone.
func (pk *Pickup) UpdateProximity(playerCenter Position, window float64) {
	if !pk.Visible {
		return
	}
	c := pk.Box.Center()
	pk.NearPlayer = math.Hypot(c.X-playerCenter.X, c.Y-playerCenter.Y) <= window
}

// TryCollect is the narrow phase. It hides the pickup and reports true the first
// time the player's hitbox overlaps a visible, near pickup.
func (pk *Pickup) TryCollect(hitbox Rect) bool {
	if !pk.Visible || !pk.NearPlayer {
		return false
	}
	if !pk.Box.Overlaps(hitbox) {
		return false
	}
	pk.Visible = false
	return true
}

// Show makes the pickup collectable again.
func (pk *Pickup) Show() {
	pk.Visible = true
	pk.NearPlayer = false
}

// Hide removes the pickup without collecting it.
func (pk *Pickup) Hide() {
	pk.Visible = false
	pk.NearPlayer = false
}
