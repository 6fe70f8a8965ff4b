package game

import (
	"log/slog"
	"math/rand"

	"github.com/Garsondee/Maze-Sense/internal/config"
)

// Harness is a headless driver around Simulation used by tests and the headless
// report. It runs fixed ticks without a clock, optionally steers the player with
// a seeded autopilot and keeps every handled event.
type Harness struct {
	Sim    *Simulation
	SimLog *SimLog
	Events []Event

	cfg       *config.Config
	simOpts   []Option
	rng       *rand.Rand
	autopilot bool
}

// harnessOptionKind controls the pass in which an option is applied.
type harnessOptionKind int

const (
	harnessOptInfra harnessOptionKind = iota // config, maze, seed, verbose: applied before the simulation exists
	harnessOptSim                            // applied to the built simulation
)

// HarnessOption is a builder function applied to a Harness during construction.
type HarnessOption struct {
	kind harnessOptionKind
	fn   func(*Harness)
}

// WithConfig replaces the default configuration.
func WithConfig(cfg *config.Config) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) {
		h.cfg = cfg
	}}
}

// WithConfigEdit mutates the configuration before the simulation is built.
func WithConfigEdit(edit func(*config.Config)) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) {
		edit(h.cfg)
	}}
}

// WithMaze swaps in a custom layout. Custom layouts skip the connectivity check.
func WithMaze(rows ...string) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) {
		h.cfg.Maze.Rows = rows
		h.simOpts = append(h.simOpts, WithUnvalidatedMaze())
	}}
}

// WithSeed sets the autopilot RNG seed for deterministic runs.
func WithSeed(seed int64) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) {
		h.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) {
		h.SimLog = NewSimLog(v)
	}}
}

// WithHarnessLogger routes the simulation's structured log to l.
func WithHarnessLogger(l *slog.Logger) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) {
		h.simOpts = append(h.simOpts, WithLogger(l))
	}}
}

// WithAutopilot makes the harness steer the player: at every tile it picks a
// random open direction, avoiding reversals when another way is open.
func WithAutopilot() HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) {
		h.autopilot = true
	}}
}

// WithSpeeds applies a velocity override once the simulation exists.
func WithSpeeds(sc SpeedConfig) HarnessOption {
	return HarnessOption{harnessOptSim, func(h *Harness) {
		h.Sim.ApplySpeedConfig(sc)
	}}
}

// NewHarness builds a harness in two ordered passes:
//  1. Infrastructure (config, maze, seed, verbose, autopilot)
//  2. Build the simulation, then apply simulation options
func NewHarness(opts ...HarnessOption) (*Harness, error) {
	h := &Harness{
		cfg:    config.Default(),
		SimLog: NewSimLog(false),
		rng:    rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
	}
	for _, o := range opts {
		if o.kind == harnessOptInfra {
			o.fn(h)
		}
	}
	sim, err := New(h.cfg, append(h.simOpts, WithSimLog(h.SimLog))...)
	if err != nil {
		return nil, err
	}
	h.Sim = sim
	h.Events = append(h.Events, sim.Drain()...)
	for _, o := range opts {
		if o.kind == harnessOptSim {
			o.fn(h)
		}
	}
	return h, nil
}

// Config returns the configuration the simulation was built from.
func (h *Harness) Config() *config.Config { return h.cfg }

// RunTicks advances the simulation n ticks.
func (h *Harness) RunTicks(n int) {
	for i := 0; i < n; i++ {
		h.step()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (h *Harness) RunUntil(predicate func(*Harness) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		h.step()
		if predicate(h) {
			return h.Sim.Tick()
		}
	}
	return -1
}

// Count returns how many handled events of kind the run has produced.
func (h *Harness) Count(kind EventKind) int {
	n := 0
	for _, e := range h.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// FirstTick returns the tick of the first handled event of kind, or -1.
func (h *Harness) FirstTick(kind EventKind) int {
	for _, e := range h.Events {
		if e.Kind == kind {
			return e.Tick
		}
	}
	return -1
}

func (h *Harness) step() {
	if h.autopilot {
		h.steer()
	}
	h.Sim.Update(h.Sim.Timestep())
	h.Events = append(h.Events, h.Sim.Drain()...)
}

// steer picks a new heading for the player whenever it sits on a tile or has
// stopped against a wall.
func (h *Harness) steer() {
	s := h.Sim
	p := s.Player
	if p.Moving && !isSnapped(p.Position, p.Direction, s.tileSize) {
		return
	}
	var open, forward []Direction
	for _, d := range Directions {
		_, next := ComputeStep(p.Position, d, p.Velocity(), s.timestep, s.tileSize)
		if WallAhead(next, s.maze, d) {
			continue
		}
		open = append(open, d)
		if d != p.Direction.Opposite() {
			forward = append(forward, d)
		}
	}
	if len(forward) > 0 {
		open = forward
	}
	if len(open) == 0 {
		return
	}
	s.SetDesiredDirection(open[h.rng.Intn(len(open))])
}
