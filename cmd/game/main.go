package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Maze-Sense/internal/config"
	"github.com/Garsondee/Maze-Sense/internal/game"
	"github.com/Garsondee/Maze-Sense/internal/render"
)

func main() {
	configPath := flag.String("config", "", "YAML config overlay (defaults are embedded)")
	scale := flag.Float64("scale", 3, "integer pixel scale")
	verbose := flag.Bool("verbose", false, "record per-tick player positions in the sim log")
	flag.Parse()

	logger := config.LogFromEnv().NewLogger(os.Stderr)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	sim, err := game.New(cfg, game.WithLogger(logger), game.WithSimLog(game.NewSimLog(*verbose)))
	if err != nil {
		log.Fatal(err)
	}

	host := render.NewHost(sim, cfg.Clock.MaxFPS, *scale, logger)
	w, h := host.Layout(0, 0)
	ebiten.SetWindowTitle("Maze Sense")
	ebiten.SetWindowSize(w, h)
	if err := ebiten.RunGame(host); err != nil {
		log.Fatal(err)
	}
}
