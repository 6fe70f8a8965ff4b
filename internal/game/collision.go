package game

// CollisionOutcome is the result of a player–pursuer contact test.
type CollisionOutcome uint8

const (
	CollisionNone CollisionOutcome = iota
	CollisionEatGhost
	CollisionDeath
)

// contactRadius is the grid distance below which the player and a pursuer touch.
const contactRadius = 1.0

// CheckCollision tests the pursuer against the player's grid position. A caught
// Frightened pursuer switches to Retreating here; the caller emits the event.
func (g *Pursuer) CheckCollision(player GridPosition) CollisionOutcome {
	if !g.AllowCollision || g.Mode == ModeRetreating {
		return CollisionNone
	}
	if g.Grid().Distance(player) >= contactRadius {
		return CollisionNone
	}
	if g.Mode == ModeFrightened {
		g.Mode = ModeRetreating
		g.Palette = PaletteNormal
		return CollisionEatGhost
	}
	return CollisionDeath
}

// refreshProximity runs the broad phase over every pickup.
func (s *Simulation) refreshProximity() {
	center := s.Player.Center()
	window := s.Player.Velocity() * s.cfg.Timing.ProximityWindowFactor
	for _, pk := range s.pickups {
		pk.UpdateProximity(center, window)
	}
	s.fruit.UpdateProximity(center, window)
}

// resolvePickups runs the narrow phase for near pickups and queues the events
// for each one collected.
func (s *Simulation) resolvePickups() {
	hitbox := s.Player.Hitbox()
	for _, pk := range s.pickups {
		if pk.TryCollect(hitbox) {
			s.events.Push(Event{Kind: EventAwardPoints, Points: pk.Points, Pickup: pk.Kind, Source: pk.ID})
			s.events.Push(Event{Kind: EventDotEaten})
			if pk.Kind == PickupPowerPellet {
				s.events.Push(Event{Kind: EventPowerUp})
			}
		}
	}
	if s.fruit.TryCollect(hitbox) {
		s.scheduler.Cancel(s.fruitTimer)
		s.fruitTimer = nil
		s.events.Push(Event{Kind: EventAwardPoints, Points: s.fruit.Points, Pickup: PickupFruit, Source: s.fruit.ID})
	}
}

// resolvePursuers tests every pursuer against the player. A death ends the
// checks for the tick.
func (s *Simulation) resolvePursuers() {
	player := s.Player.Grid()
	for _, g := range s.Pursuers {
		switch g.CheckCollision(player) {
		case CollisionEatGhost:
			s.events.Push(Event{Kind: EventEatGhost, Pursuer: g.ID, Role: g.Role})
		case CollisionDeath:
			s.events.Push(Event{Kind: EventDeathSequence})
			return
		}
	}
}
