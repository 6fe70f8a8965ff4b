package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/Garsondee/Maze-Sense/internal/config"
	"github.com/Garsondee/Maze-Sense/internal/game"
)

func TestClassifyRun(t *testing.T) {
	cases := []struct {
		name string
		rs   runStats
		want string
	}{
		{"game over wins", runStats{gameOverTick: 900, levelsCleared: 1, dots: 10}, "game_over"},
		{"cleared", runStats{gameOverTick: -1, levelsCleared: 1, dots: 244}, "cleared"},
		{"no dots eaten", runStats{gameOverTick: -1}, "stalled"},
		{"ran out of ticks", runStats{gameOverTick: -1, dots: 40}, "timeout"},
	}
	for _, tc := range cases {
		if got := classifyRun(tc.rs); got != tc.want {
			t.Fatalf("%s: classifyRun=%s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestRunOnce_StatsAddUp(t *testing.T) {
	cfg := config.Default()
	rs, err := runOnce(1, 7, 3000, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if rs.ticks != 3000 && rs.gameOverTick < 0 {
		t.Fatalf("run stopped at tick %d without a game over", rs.ticks)
	}
	if rs.dots == 0 {
		t.Fatal("the autopilot should eat at least one dot")
	}
	if rs.levelsCleared == 0 && rs.remaining != 244-rs.dots-rs.pellets {
		t.Fatalf("remaining=%d dots=%d pellets=%d", rs.remaining, rs.dots, rs.pellets)
	}
	if _, ok := rs.releaseTicks[game.RoleShadow]; ok {
		t.Fatal("shadow starts outside the house and is never released")
	}
	if len(rs.log) == 0 {
		t.Fatal("sim log should be captured")
	}
	speedy := rs.simLog.FilterEntity("speedy")
	for _, e := range speedy {
		if e.Entity != "speedy" {
			t.Fatalf("trace for speedy returned %+v", e)
		}
	}
	if len(speedy) == 0 {
		t.Fatal("speedy should have mode and house entries")
	}
}

func TestRunOnce_Deterministic(t *testing.T) {
	a, err := runOnce(1, 11, 1500, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := runOnce(2, 11, 1500, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.score != b.score || a.dots != b.dots || len(a.log) != len(b.log) {
		t.Fatalf("same seed diverged: score %d/%d dots %d/%d", a.score, b.score, a.dots, b.dots)
	}
}

func TestPrintRunAndAggregate(t *testing.T) {
	rs := runStats{
		runIndex: 1, seed: 42, ticks: 5000, score: 2210, level: 1, lives: 0,
		dots: 180, pellets: 2, ghostsEaten: 3, deaths: 3,
		firstPowerUpTick: 800, firstGhostTick: 950, firstDeathTick: 1200, firstClearTick: -1, gameOverTick: 4800,
		releaseTicks: map[game.Role]int{game.RoleSpeedy: 241, game.RoleBashful: 1201},
	}
	var buf bytes.Buffer
	printRun(&buf, rs)
	out := buf.String()
	for _, want := range []string{
		"--- Run 1 (seed=42) ---",
		"outcome=game_over",
		"first_death=1200",
		"first_release: shadow=- speedy=241 bashful=1201 pokey=-",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("printRun output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printAggregate(&buf, []runStats{rs, {gameOverTick: -1, firstPowerUpTick: -1, firstDeathTick: -1, firstClearTick: -1}})
	out = buf.String()
	if !strings.Contains(out, "outcomes=[game_over=1,stalled=1]") {
		t.Fatalf("aggregate outcomes wrong:\n%s", out)
	}
	if !strings.Contains(out, "first_power_up=800.0 first_death=1200.0 first_clear=n/a") {
		t.Fatalf("aggregate markers wrong:\n%s", out)
	}
}

func TestPrintTrace(t *testing.T) {
	var buf bytes.Buffer
	printTrace(&buf, "pokey", []game.SimLogEntry{
		{Tick: 420, Entity: "pokey", Category: "house", Key: "change", Value: "idle → leaving"},
	})
	out := buf.String()
	if !strings.Contains(out, "trace pokey: 1 entries") || !strings.Contains(out, "[T=0420] pokey") {
		t.Fatalf("trace output:\n%s", out)
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	all := []runStats{
		{runIndex: 1, seed: 5, log: []game.SimLogEntry{
			{Tick: 3, Entity: "--", Category: "event", Key: "dotEaten", Value: "dotEaten"},
			{Tick: 9, Entity: "speedy", Category: "mode", Key: "change", Value: "scatter → chase"},
		}},
		{runIndex: 2, seed: 6, log: []game.SimLogEntry{
			{Tick: 4, Entity: "--", Category: "event", Key: "awardPoints", Value: "awardPoints 10 (dot)", NumVal: 10},
		}},
	}
	if err := writeCSV(path, all); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rows []csvRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows=%d, want 3", len(rows))
	}
	if rows[2].Run != 2 || rows[2].Seed != 6 || rows[2].NumVal != 10 {
		t.Fatalf("last row=%+v", rows[2])
	}
	if rows[1].Value != "scatter → chase" {
		t.Fatalf("value=%q", rows[1].Value)
	}
}

func TestAvgHelpers(t *testing.T) {
	if avg(10, 0) != 0 || avg(10, 4) != 2.5 {
		t.Fatal("avg")
	}
	if avgTickString(nil) != "n/a" || avgTickString([]int{100, 201}) != "150.5" {
		t.Fatal("avgTickString")
	}
}
