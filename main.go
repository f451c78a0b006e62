// ChessGeom - a board viewer for variable board geometries, built with Ebitengine
package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chessgeom/internal/config"
	"github.com/hailam/chessgeom/internal/storage"
	"github.com/hailam/chessgeom/internal/ui"
)

func main() {
	cfg, err := config.Load()
	config.SetupLogging(cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	st, err := storage.NewStorage(cfg.DataDir)
	if err != nil {
		log.Warn().Err(err).Msg("storage unavailable, preferences will not be saved")
	}

	game := ui.NewGame(cfg, st)
	defer game.Close()

	w, h := game.ScreenSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("ChessGeom")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Error().Err(err).Msg("game exited")
	}
}
