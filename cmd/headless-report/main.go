package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/Garsondee/Maze-Sense/internal/config"
	"github.com/Garsondee/Maze-Sense/internal/game"
)

type runStats struct {
	runIndex int
	seed     int64
	ticks    int

	score     int
	level     int
	lives     int
	remaining int

	dots          int
	pellets       int
	ghostsEaten   int
	fruitEaten    int
	fruitSpawned  int
	deaths        int
	levelsCleared int
	extraLives    int
	modeChanges   int
	houseChanges  int

	firstPowerUpTick int
	firstGhostTick   int
	firstDeathTick   int
	firstClearTick   int
	gameOverTick     int

	releaseTicks map[game.Role]int
	log          []game.SimLogEntry
	simLog       *game.SimLog
}

// csvRow is one sim log entry tagged with the run it came from.
type csvRow struct {
	Run      int     `csv:"run"`
	Seed     int64   `csv:"seed"`
	Tick     int     `csv:"tick"`
	Entity   string  `csv:"entity"`
	Category string  `csv:"category"`
	Key      string  `csv:"key"`
	Value    string  `csv:"value"`
	NumVal   float64 `csv:"num"`
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var configPath string
	var csvPath string
	var verbose bool
	var trace string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 7200, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base autopilot seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&configPath, "config", "", "YAML config overlay")
	flag.StringVar(&csvPath, "csv", "", "write every run's sim log to this CSV file")
	flag.BoolVar(&verbose, "verbose", false, "include per-tick player positions in the sim log")
	flag.StringVar(&trace, "trace", "", "print every sim log entry for one entity (player, shadow, speedy, ...)")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	logger := config.LogFromEnv().NewLogger(os.Stderr)

	fmt.Printf("=== Headless Maze Report ===\n")
	fmt.Printf("runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := runOnce(i+1, seed, ticks, cfg,
			game.WithHarnessLogger(logger), game.WithVerbose(verbose))
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, stats)
		printRun(os.Stdout, stats)
		if trace != "" {
			printTrace(os.Stdout, trace, stats.simLog.FilterEntity(trace))
		}
	}

	printAggregate(os.Stdout, all)

	if csvPath != "" {
		if err := writeCSV(csvPath, all); err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		fmt.Printf("\nsim log written to %s\n", csvPath)
	}
}

// runOnce plays one autopiloted game for ticks or until game over.
func runOnce(runIndex int, seed int64, ticks int, cfg *config.Config, extra ...game.HarnessOption) (runStats, error) {
	opts := append([]game.HarnessOption{game.WithSeed(seed), game.WithAutopilot()}, extra...)
	if cfg != nil {
		c := *cfg
		opts = append([]game.HarnessOption{game.WithConfig(&c)}, opts...)
	}
	h, err := game.NewHarness(opts...)
	if err != nil {
		return runStats{}, err
	}
	h.RunUntil(func(h *game.Harness) bool { return h.Sim.GameOver() }, ticks)
	return collectStats(runIndex, seed, h), nil
}

func collectStats(runIndex int, seed int64, h *game.Harness) runStats {
	s := h.Sim
	rs := runStats{
		runIndex:         runIndex,
		seed:             seed,
		ticks:            s.Tick(),
		score:            s.Score(),
		level:            s.Level(),
		lives:            s.Lives(),
		remaining:        s.RemainingDots(),
		ghostsEaten:      h.Count(game.EventEatGhost),
		fruitSpawned:     h.Count(game.EventFruitSpawned),
		deaths:           h.Count(game.EventDeathSequence),
		levelsCleared:    h.Count(game.EventLevelCleared),
		extraLives:       h.Count(game.EventExtraLife),
		modeChanges:      h.Count(game.EventModeChanged),
		houseChanges:     h.SimLog.CountCategory("house", "change"),
		firstPowerUpTick: h.FirstTick(game.EventPowerUp),
		firstGhostTick:   h.FirstTick(game.EventEatGhost),
		firstDeathTick:   h.FirstTick(game.EventDeathSequence),
		firstClearTick:   h.FirstTick(game.EventLevelCleared),
		gameOverTick:     h.FirstTick(game.EventGameOver),
		releaseTicks:     map[game.Role]int{},
		log:              h.SimLog.Entries(),
		simLog:           h.SimLog,
	}
	for _, e := range h.Events {
		switch e.Kind {
		case game.EventAwardPoints:
			switch e.Pickup {
			case game.PickupDot:
				rs.dots++
			case game.PickupPowerPellet:
				rs.pellets++
			case game.PickupFruit:
				rs.fruitEaten++
			}
		case game.EventReleaseGhost:
			if _, ok := rs.releaseTicks[e.Role]; !ok {
				rs.releaseTicks[e.Role] = e.Tick
			}
		}
	}
	return rs
}

// classifyRun names how a run ended.
func classifyRun(rs runStats) string {
	switch {
	case rs.gameOverTick >= 0:
		return "game_over"
	case rs.levelsCleared > 0:
		return "cleared"
	case rs.dots == 0:
		return "stalled"
	default:
		return "timeout"
	}
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(w, "outcome=%s ticks=%d score=%d level=%d lives=%d remaining=%d\n",
		classifyRun(rs), rs.ticks, rs.score, rs.level, rs.lives, rs.remaining)
	fmt.Fprintf(w, "phase_markers: first_power_up=%d first_ghost=%d first_death=%d first_clear=%d game_over=%d\n",
		rs.firstPowerUpTick, rs.firstGhostTick, rs.firstDeathTick, rs.firstClearTick, rs.gameOverTick)
	fmt.Fprintf(w, "pickups: dots=%d pellets=%d fruit=%d/%d ghosts=%d\n",
		rs.dots, rs.pellets, rs.fruitEaten, rs.fruitSpawned, rs.ghostsEaten)
	fmt.Fprintf(w, "event_totals: deaths=%d levels_cleared=%d extra_lives=%d mode_changes=%d house_changes=%d\n",
		rs.deaths, rs.levelsCleared, rs.extraLives, rs.modeChanges, rs.houseChanges)
	fmt.Fprintf(w, "first_release: %s\n", formatReleases(rs.releaseTicks))
	fmt.Fprintln(w)
}

// printTrace lists one entity's log entries under the run they belong to.
func printTrace(w io.Writer, entity string, entries []game.SimLogEntry) {
	fmt.Fprintf(w, "trace %s: %d entries\n", entity, len(entries))
	for _, e := range entries {
		fmt.Fprintf(w, "  %s\n", e)
	}
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	totalScore := 0
	totalDots := 0
	totalGhosts := 0
	totalDeaths := 0
	totalClears := 0
	outcomes := map[string]int{}

	powerUpTicks := make([]int, 0, len(all))
	deathTicks := make([]int, 0, len(all))
	clearTicks := make([]int, 0, len(all))

	for _, rs := range all {
		totalScore += rs.score
		totalDots += rs.dots
		totalGhosts += rs.ghostsEaten
		totalDeaths += rs.deaths
		totalClears += rs.levelsCleared
		outcomes[classifyRun(rs)]++
		if rs.firstPowerUpTick >= 0 {
			powerUpTicks = append(powerUpTicks, rs.firstPowerUpTick)
		}
		if rs.firstDeathTick >= 0 {
			deathTicks = append(deathTicks, rs.firstDeathTick)
		}
		if rs.firstClearTick >= 0 {
			clearTicks = append(clearTicks, rs.firstClearTick)
		}
	}

	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d outcomes=[%s]\n", len(all), formatCounts(outcomes))
	fmt.Fprintf(w, "avg_per_run: score=%.1f dots=%.1f ghosts=%.1f deaths=%.1f levels_cleared=%.1f\n",
		avg(totalScore, len(all)), avg(totalDots, len(all)), avg(totalGhosts, len(all)),
		avg(totalDeaths, len(all)), avg(totalClears, len(all)))
	fmt.Fprintf(w, "phase_marker_avg_ticks: first_power_up=%s first_death=%s first_clear=%s\n",
		avgTickString(powerUpTicks), avgTickString(deathTicks), avgTickString(clearTicks))
}

func writeCSV(path string, all []runStats) error {
	var rows []csvRow
	for _, rs := range all {
		for _, e := range rs.log {
			rows = append(rows, csvRow{
				Run: rs.runIndex, Seed: rs.seed, Tick: e.Tick, Entity: e.Entity,
				Category: e.Category, Key: e.Key, Value: e.Value, NumVal: e.NumVal,
			})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := gocsv.Marshal(&rows, f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func formatReleases(ticks map[game.Role]int) string {
	parts := make([]string, 0, len(game.Roles))
	for _, r := range game.Roles {
		if t, ok := ticks[r]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", r, t))
		} else {
			parts = append(parts, fmt.Sprintf("%s=-", r))
		}
	}
	return strings.Join(parts, " ")
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, ",")
}
