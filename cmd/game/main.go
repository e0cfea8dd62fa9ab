package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/tank-duel/internal/config"
	"github.com/Garsondee/tank-duel/internal/game"
	"github.com/Garsondee/tank-duel/internal/viewer"
)

func main() {
	cfg, err := config.Parse("tank-duel", os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
	logger := cfg.NewLogger(os.Stderr, "tank-duel")

	grid, err := cfg.LoadBoard(logger)
	if err != nil {
		logger.Fatal("cannot load board", "err", err)
	}

	live := cfg.Live()
	build := func() (*game.Match, error) {
		return cfg.NewMatch(grid, game.NewSimLog(false))
	}
	v, err := viewer.New(build, viewer.Options{
		Scale:    cfg.Viewer.Scale,
		TPS:      cfg.Viewer.TPS,
		MaxTicks: cfg.MaxTicks,
		Live:     live,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("cannot start match", "err", err)
	}

	w, h := v.WindowSize()
	ebiten.SetWindowTitle("Tank Duel")
	ebiten.SetWindowSize(w, h)
	logger.Info("starting viewer", "board", cfg.Board, "p1", cfg.Player1.Policy, "p2", cfg.Player2.Policy, "live", live)
	if err := ebiten.RunGame(v); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("viewer stopped", "err", err)
	}
}
