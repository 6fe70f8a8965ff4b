package game

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/Garsondee/Maze-Sense/internal/config"
)

// Ambience is the background-sound state implied by the simulation. Audio itself
// lives outside the core; hosts read this to pick a loop.
type Ambience uint8

const (
	AmbienceSiren1 Ambience = iota
	AmbienceSiren2
	AmbienceSiren3
	AmbiencePowerUp
	AmbienceEyes
)

func (a Ambience) String() string {
	switch a {
	case AmbienceSiren1:
		return "siren_1"
	case AmbienceSiren2:
		return "siren_2"
	case AmbienceSiren3:
		return "siren_3"
	case AmbiencePowerUp:
		return "power_up"
	default:
		return "eyes"
	}
}

// Option customises a Simulation.
type Option func(*Simulation)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

// WithSimLog records events and transitions into sl.
func WithSimLog(sl *SimLog) Option {
	return func(s *Simulation) { s.SimLog = sl }
}

// WithUnvalidatedMaze skips the connectivity/dead-end check. Used for test mazes.
func WithUnvalidatedMaze() Option {
	return func(s *Simulation) { s.skipValidate = true }
}

// Simulation is the game coordinator: it owns every agent, runs one fixed tick
// per Update and turns agent and collision events into game rules.
type Simulation struct {
	cfg    *config.Config
	log    *slog.Logger
	SimLog *SimLog

	maze         *TileMap
	house        HouseLayout
	tileSize     float64
	timestep     float64
	tick         int
	skipValidate bool

	Player   *Player
	Pursuers []*Pursuer
	byRole   map[Role]*Pursuer
	pickups  []*Pickup
	fruit    *Pickup

	scheduler *Scheduler
	events    *EventQueue // produced during a tick, handled before it ends
	out       EventQueue  // handled events waiting for the host

	level          int
	lives          int
	score          int
	remaining      int
	combo          int
	extraLifeGiven bool
	gameOver       bool
	playing        bool
	inputEnabled   bool
	pendingInput   bool

	cruiseRole    Role
	cycleMode     Mode
	cycleTimer    *Timer
	flashTimer    *Timer
	fruitTimer    *Timer
	releaseTimer  *Timer
	proxTimer     *Timer
	freezeTimer   *Timer
	idleQueue     []*Pursuer
	speedOverride *SpeedConfig

	prevMode  []Mode
	prevHouse []HouseState
}

// New builds a simulation from cfg (nil means the embedded defaults) and starts
// the first life.
func New(cfg *config.Config, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg:      cfg,
		log:      slog.Default(),
		SimLog:   NewSimLog(false),
		tileSize: cfg.Maze.TileSize,
		timestep: cfg.TimestepMs(),
		events:   &EventQueue{},
		level:    cfg.StartLevel,
		lives:    cfg.Lives,
		byRole:   make(map[Role]*Pursuer, len(Roles)),
	}
	for _, o := range opts {
		o(s)
	}

	rows := cfg.Maze.Rows
	if len(rows) == 0 {
		rows = DefaultMaze
	}
	maze, err := ParseTileMap(rows)
	if err != nil {
		return nil, fmt.Errorf("maze: %w", err)
	}
	s.maze = maze
	s.house = NewHouseLayout(cfg.House)
	if !s.skipValidate {
		if err := maze.Validate(s.house.Bounds); err != nil {
			return nil, fmt.Errorf("maze: %w", err)
		}
	}

	dir, err := ParseDirection(cfg.Player.Direction)
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	start := GridPosition{X: cfg.Player.Start.X, Y: cfg.Player.Start.Y}
	s.Player = NewPlayer(maze, s.tileSize, start, dir,
		PlayerVelocity(cfg.Player.TilesPerSecond, s.tileSize))

	for _, role := range Roles {
		pc, ok := cfg.Pursuer(role.String())
		if !ok {
			return nil, fmt.Errorf("pursuer %s: %w", role, ErrUnknownRole)
		}
		d, err := ParseDirection(pc.Direction)
		if err != nil {
			return nil, fmt.Errorf("pursuer %s: %w", role, err)
		}
		corner := GridPosition{X: pc.Scatter.X, Y: pc.Scatter.Y}
		g := newPursuer(role, GridPosition{X: pc.Start.X, Y: pc.Start.Y}, d, pc.Idle, corner,
			newChaseStrategy(role, cfg.Targeting, corner), maze, s.house, s.tileSize, s.events)
		s.Pursuers = append(s.Pursuers, g)
		s.byRole[role] = g
	}
	s.byRole[RoleBashful].SetAlly(s.byRole[RoleShadow])
	if s.cruiseRole, err = ParseRole(cfg.Progression.CruiseRole); err != nil {
		return nil, err
	}
	s.prevMode = make([]Mode, len(s.Pursuers))
	s.prevHouse = make([]HouseState, len(s.Pursuers))

	maze.Each(func(x, y int, c Cell) {
		switch c {
		case CellDot:
			s.pickups = append(s.pickups, NewPickup(PickupDot, x, y, s.tileSize, cfg.Scoring.Dot))
		case CellPowerPellet:
			s.pickups = append(s.pickups, NewPickup(PickupPowerPellet, x, y, s.tileSize, cfg.Scoring.Pellet))
		}
	})
	s.remaining = len(s.pickups)
	s.fruit = NewPickup(PickupFruit, int(cfg.Progression.Fruit.X), int(cfg.Progression.Fruit.Y), s.tileSize, 0)

	s.scheduler = NewScheduler(s.timestep, s.events.Push)
	s.applySpeeds()
	s.startLife()
	s.processEvents()
	return s, nil
}

// Update runs one fixed tick of dt milliseconds: timers, player, pursuers,
// pickups, pursuer contacts, then event handling. Every event of the tick is
// handled before Update returns.
func (s *Simulation) Update(dt float64) {
	if s.gameOver {
		return
	}
	s.tick++
	s.events.SetTick(s.tick)

	s.scheduler.Advance()
	s.Player.Update(dt)
	view := s.Player.View()
	for _, g := range s.Pursuers {
		g.Update(dt, view)
	}
	if s.playing {
		s.resolvePickups()
		s.resolvePursuers()
	}
	s.processEvents()
	s.recordTransitions()
	s.SimLog.AddVerbose(s.tick, "P", "player", "position", fmt.Sprintf("%.2f,%.2f", view.Grid.X, view.Grid.Y), 0)
}

// Drain returns every event handled since the last Drain, in emission order.
func (s *Simulation) Drain() []Event { return s.out.Drain() }

// SetDesiredDirection feeds player input. Input before play starts is kept and
// applied when the player is released.
func (s *Simulation) SetDesiredDirection(d Direction) {
	if !s.inputEnabled {
		s.Player.DesiredDirection = d
		s.pendingInput = true
		return
	}
	s.Player.SetDesiredDirection(d)
}

// ApplySpeedConfig overrides character velocities. The override survives level
// changes; pursuers absent from sc keep their derived speeds.
func (s *Simulation) ApplySpeedConfig(sc SpeedConfig) {
	s.speedOverride = &sc
	s.applySpeeds()
}

// ChangeMode forces a scatter/chase flip on every pursuer and restarts the cycle
// from that mode.
func (s *Simulation) ChangeMode(m Mode) {
	if m != ModeScatter && m != ModeChase {
		return
	}
	s.setCycleMode(m)
	if s.playing {
		s.scheduler.Cancel(s.cycleTimer)
		s.scheduleCycle(m)
	}
	s.processEvents()
}

// BecomeScared triggers a power-up on every pursuer, as if a pellet were eaten.
func (s *Simulation) BecomeScared() {
	s.powerUp()
	s.processEvents()
}

// EndScared ends the frightened window immediately.
func (s *Simulation) EndScared() {
	s.scheduler.Cancel(s.flashTimer)
	s.flashTimer = nil
	for _, g := range s.Pursuers {
		g.EndScared()
	}
	s.processEvents()
}

// EndIdleMode releases the pursuer with the given role from the house.
func (s *Simulation) EndIdleMode(role Role) {
	g, ok := s.byRole[role]
	if !ok {
		return
	}
	g.EndIdleMode()
	s.idleQueue = slices.DeleteFunc(s.idleQueue, func(q *Pursuer) bool { return q == g })
}

// Pursuer returns the pursuer with the given role.
func (s *Simulation) Pursuer(role Role) *Pursuer { return s.byRole[role] }

// PursuerByID looks a pursuer up by identity.
func (s *Simulation) PursuerByID(id uuid.UUID) *Pursuer {
	for _, g := range s.Pursuers {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func (s *Simulation) Tick() int             { return s.tick }
func (s *Simulation) Score() int            { return s.score }
func (s *Simulation) Lives() int            { return s.lives }
func (s *Simulation) Level() int            { return s.level }
func (s *Simulation) RemainingDots() int    { return s.remaining }
func (s *Simulation) GameOver() bool        { return s.gameOver }
func (s *Simulation) Playing() bool         { return s.playing }
func (s *Simulation) Maze() *TileMap        { return s.maze }
func (s *Simulation) House() HouseLayout    { return s.house }
func (s *Simulation) TileSize() float64     { return s.tileSize }
func (s *Simulation) Timestep() float64     { return s.timestep }
func (s *Simulation) Pickups() []*Pickup    { return s.pickups }
func (s *Simulation) Fruit() *Pickup        { return s.fruit }
func (s *Simulation) CycleMode() Mode       { return s.cycleMode }
func (s *Simulation) Scheduler() *Scheduler { return s.scheduler }

// Ambience derives the background loop: eyes while any pursuer is retreating,
// the power-up loop while any is frightened, otherwise a siren by dots left.
func (s *Simulation) Ambience() Ambience {
	eyes, scared := false, false
	for _, g := range s.Pursuers {
		switch g.Mode {
		case ModeRetreating:
			eyes = true
		case ModeFrightened:
			scared = true
		}
	}
	p := s.cfg.Progression
	switch {
	case eyes:
		return AmbienceEyes
	case scared:
		return AmbiencePowerUp
	case s.remaining > p.SirenHigh:
		return AmbienceSiren1
	case s.remaining > p.SirenLow:
		return AmbienceSiren2
	default:
		return AmbienceSiren3
	}
}

// applySpeeds pushes derived or overridden velocities to every agent.
func (s *Simulation) applySpeeds() {
	sc := DefaultSpeeds(s.cfg, s.level)
	if o := s.speedOverride; o != nil {
		if o.Player > 0 {
			sc.Player = o.Player
		}
		for r, ps := range o.Pursuers {
			sc.Pursuers[r] = ps
		}
	}
	s.Player.SetVelocity(sc.Player)
	for _, g := range s.Pursuers {
		g.SetSpeeds(sc.Pursuers[g.Role])
	}
}

// startLife resets every agent and arms the ready delay.
func (s *Simulation) startLife() {
	s.playing = false
	s.inputEnabled = false
	s.pendingInput = false
	s.combo = 0
	s.Player.Reset()
	s.idleQueue = s.idleQueue[:0]
	for i, g := range s.Pursuers {
		g.Reset()
		s.prevMode[i], s.prevHouse[i] = g.Mode, g.House
		if g.House == HouseIdle {
			s.idleQueue = append(s.idleQueue, g)
		}
	}
	s.fruit.Hide()
	s.cycleMode = ModeScatter
	s.refreshProximity()
	s.log.Info("life started", "level", s.level, "lives", s.lives, "score", s.score)
	s.scheduler.After("ready", s.cfg.Timing.ReadyMs, s.beginPlay)
}

// beginPlay releases every agent and starts the mode cycle, the release chain
// and the broad-phase cadence.
func (s *Simulation) beginPlay() {
	s.playing = true
	s.inputEnabled = true
	if s.pendingInput {
		s.Player.Moving = true
	}
	for _, g := range s.Pursuers {
		g.Moving = true
	}
	s.scheduleCycle(s.cycleMode)
	s.scheduleRelease()
	s.proxTimer = s.scheduler.Every("proximity", s.cfg.Timing.ProximityCadenceMs, s.refreshProximity)
	s.refreshProximity()
}

func (s *Simulation) scheduleCycle(mode Mode) {
	d, next := s.cfg.Timing.ScatterMs, ModeChase
	if mode == ModeChase {
		d, next = s.cfg.Timing.ChaseMs, ModeScatter
	}
	s.cycleTimer = s.scheduler.After("mode_cycle", d, func() {
		s.setCycleMode(next)
		s.scheduleCycle(next)
	})
}

func (s *Simulation) setCycleMode(m Mode) {
	s.cycleMode = m
	for _, g := range s.Pursuers {
		g.ChangeMode(m)
	}
	s.events.Push(Event{Kind: EventModeChanged, Mode: m})
}

// scheduleRelease arms the delay before the next idle pursuer leaves the house.
func (s *Simulation) scheduleRelease() {
	if len(s.idleQueue) == 0 {
		return
	}
	t := s.cfg.Timing
	d := math.Max(t.ReleaseBaseMs-float64(s.level-1)*t.ReleasePerLevelMs, 0)
	s.releaseTimer = s.scheduler.After("release", d, func() {
		if len(s.idleQueue) == 0 {
			return
		}
		g := s.idleQueue[0]
		s.idleQueue = s.idleQueue[1:]
		g.EndIdleMode()
	})
}

// frightenedWindow is the total power-up duration for the current level.
func (s *Simulation) frightenedWindow() float64 {
	t := s.cfg.Timing
	return math.Max(t.FrightenedBaseMs-float64(s.level)*t.FrightenedPerLevelMs, 0)
}

// powerUp frightens every pursuer. The window ends with a flash phase of up to
// FlashCount intervals. Once the window has shrunk to zero a pellet frightens
// nobody and nobody reverses.
func (s *Simulation) powerUp() {
	window := s.frightenedWindow()
	if window <= 0 {
		return
	}
	s.scheduler.Cancel(s.flashTimer)
	s.combo = 0
	for _, g := range s.Pursuers {
		g.BecomeScared()
	}
	t := s.cfg.Timing
	flashes := min(t.FlashCount, int(window/t.FlashIntervalMs))
	solid := window - float64(flashes)*t.FlashIntervalMs
	s.flashTimer = s.scheduler.After("frightened", solid, func() { s.flash(flashes) })
}

func (s *Simulation) flash(left int) {
	if left <= 0 {
		s.flashTimer = nil
		for _, g := range s.Pursuers {
			g.EndScared()
		}
		return
	}
	for _, g := range s.Pursuers {
		g.ToggleFlash()
	}
	s.flashTimer = s.scheduler.After("flash", s.cfg.Timing.FlashIntervalMs, func() { s.flash(left - 1) })
}

// eatGhost awards combo points and freezes the board briefly.
func (s *Simulation) eatGhost(e Event) {
	g := s.PursuerByID(e.Pursuer)
	if g == nil {
		return
	}
	s.combo++
	s.events.Push(Event{
		Kind:   EventAwardPoints,
		Points: s.cfg.Scoring.GhostBase * (1 << (s.combo - 1)),
		Pickup: PickupGhost,
	})

	s.inputEnabled = false
	s.Player.Moving = false
	s.Player.Visible = false
	g.Moving = false
	g.Visible = false
	for _, p := range s.Pursuers {
		p.Paused = true
		p.AllowCollision = false
	}
	s.flashTimer.Pause()
	s.cycleTimer.Pause()
	s.fruitTimer.Pause()

	s.scheduler.Cancel(s.freezeTimer)
	s.freezeTimer = s.scheduler.After("freeze", s.cfg.Timing.FreezeMs, s.endFreeze)
}

func (s *Simulation) endFreeze() {
	s.freezeTimer = nil
	s.inputEnabled = true
	s.Player.Moving = true
	s.Player.Visible = true
	for _, p := range s.Pursuers {
		p.Moving = true
		p.Visible = true
		p.Paused = false
		p.AllowCollision = true
	}
	s.flashTimer.Resume()
	s.cycleTimer.Resume()
	s.fruitTimer.Resume()
}

// stopPlay halts agents and cancels every gameplay timer.
func (s *Simulation) stopPlay() {
	s.playing = false
	s.inputEnabled = false
	s.Player.Moving = false
	for _, g := range s.Pursuers {
		g.Moving = false
	}
	for _, t := range []*Timer{s.cycleTimer, s.flashTimer, s.fruitTimer, s.releaseTimer, s.proxTimer, s.freezeTimer} {
		s.scheduler.Cancel(t)
	}
	s.cycleTimer, s.flashTimer, s.fruitTimer, s.releaseTimer, s.proxTimer, s.freezeTimer = nil, nil, nil, nil, nil, nil
	s.fruit.Hide()
}

// deathSequence plays out the death timeline, then consumes a life.
func (s *Simulation) deathSequence() {
	if !s.playing {
		return
	}
	s.stopPlay()
	s.log.Info("player died", "tick", s.tick, "lives", s.lives, "score", s.score)
	t := s.cfg.Timing
	s.scheduler.After("death_hide", t.DeathHideMs, func() {
		for _, g := range s.Pursuers {
			g.Visible = false
		}
		s.scheduler.After("death_animation", t.DeathAnimationMs, func() {
			s.Player.Visible = false
			s.scheduler.After("death_end", t.DeathEndMs, s.loseLife)
		})
	})
}

func (s *Simulation) loseLife() {
	s.lives--
	if s.lives <= 0 {
		s.gameOver = true
		s.events.Push(Event{Kind: EventGameOver})
		s.log.Info("game over", "tick", s.tick, "score", s.score, "level", s.level)
		return
	}
	s.startLife()
}

// dotEaten applies the remaining-dot thresholds.
func (s *Simulation) dotEaten() {
	s.remaining--
	p := s.cfg.Progression
	if slices.Contains(p.FruitDots, s.remaining) {
		s.spawnFruit()
	}
	if slices.Contains(p.CruiseDots, s.remaining) {
		s.byRole[s.cruiseRole].SpeedUp()
	}
	if s.remaining == 0 {
		s.levelClear()
	}
}

func (s *Simulation) spawnFruit() {
	s.scheduler.Cancel(s.fruitTimer)
	s.fruit.Points = s.fruitPoints()
	s.fruit.Show()
	s.events.Push(Event{Kind: EventFruitSpawned, Points: s.fruit.Points})
	s.fruitTimer = s.scheduler.After("fruit", s.cfg.Timing.FruitLifetimeMs, func() {
		s.fruitTimer = nil
		s.fruit.Hide()
	})
}

// fruitPoints looks the level up in the scoring table; the last entry covers
// every later level.
func (s *Simulation) fruitPoints() int {
	table := s.cfg.Scoring.Fruit
	if len(table) == 0 {
		return 0
	}
	i := min(max(s.level-1, 0), len(table)-1)
	return table[i]
}

func (s *Simulation) levelClear() {
	s.stopPlay()
	s.events.Push(Event{Kind: EventLevelCleared})
	s.log.Info("level cleared", "level", s.level, "tick", s.tick, "score", s.score)
	s.scheduler.After("level_clear", s.cfg.Timing.LevelClearMs, func() {
		s.level++
		for _, pk := range s.pickups {
			pk.Show()
		}
		s.remaining = len(s.pickups)
		s.applySpeeds()
		s.startLife()
	})
}

func (s *Simulation) awardPoints(points int) {
	s.score += points
	if !s.extraLifeGiven && s.cfg.Scoring.ExtraLifeAt > 0 && s.score >= s.cfg.Scoring.ExtraLifeAt {
		s.extraLifeGiven = true
		s.lives++
		s.events.Push(Event{Kind: EventExtraLife})
	}
}

// processEvents handles queued events in order until none remain. Handlers may
// queue more; those are handled in the same pass.
func (s *Simulation) processEvents() {
	for {
		e, ok := s.events.pop()
		if !ok {
			return
		}
		s.out.events = append(s.out.events, e)
		s.SimLog.Add(e.Tick, eventEntity(e), "event", e.Kind.String(), e.String(), float64(e.Points))
		switch e.Kind {
		case EventAwardPoints:
			s.awardPoints(e.Points)
		case EventDotEaten:
			s.dotEaten()
		case EventPowerUp:
			if s.playing {
				s.powerUp()
			}
		case EventEatGhost:
			if s.playing {
				s.eatGhost(e)
			}
		case EventReleaseGhost:
			s.scheduleRelease()
		case EventDeathSequence:
			s.deathSequence()
		}
	}
}

func eventEntity(e Event) string {
	if e.Pursuer != uuid.Nil {
		return e.Role.String()
	}
	return "--"
}

// recordTransitions logs pursuer mode and house changes since the last tick.
func (s *Simulation) recordTransitions() {
	for i, g := range s.Pursuers {
		if g.Mode != s.prevMode[i] {
			s.SimLog.Add(s.tick, g.Role.String(), "mode", "change",
				fmt.Sprintf("%s → %s", s.prevMode[i], g.Mode), 0)
			s.log.Debug("pursuer mode", "role", g.Role, "from", s.prevMode[i], "to", g.Mode, "tick", s.tick)
			s.prevMode[i] = g.Mode
		}
		if g.House != s.prevHouse[i] {
			s.SimLog.Add(s.tick, g.Role.String(), "house", "change",
				fmt.Sprintf("%s → %s", s.prevHouse[i], g.House), 0)
			s.prevHouse[i] = g.House
		}
	}
}
