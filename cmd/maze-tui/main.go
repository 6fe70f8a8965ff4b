package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Maze-Sense/internal/config"
	"github.com/Garsondee/Maze-Sense/internal/game"
	"github.com/Garsondee/Maze-Sense/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "YAML config overlay (defaults are embedded)")
	logPath := flag.String("log", "", "write the structured log to this file (the terminal is busy)")
	flag.Parse()

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.LogFromEnv().NewLogger(logOut)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	sim, err := game.New(cfg, game.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tui.New(screen, sim, cfg.Clock.MaxFPS, logger).Run(ctx)
	screen.Fini()

	fmt.Printf("final score %d (level %d, tick %d)\n", sim.Score(), sim.Level(), sim.Tick())
}
