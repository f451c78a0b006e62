package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/hailam/chessgeom/internal/board"
	"github.com/hailam/chessgeom/internal/config"
	"github.com/hailam/chessgeom/internal/httpapi"
	"github.com/hailam/chessgeom/internal/probe"
)

var (
	geometryFlag    = flag.String("geometry", "", "board geometry, e.g. 8x8 or 20x10 (overrides "+config.EnvGeometry+")")
	orientationFlag = flag.String("orientation", "", "color at the bottom: white or black (overrides "+config.EnvOrientation+")")
	httpFlag        = flag.String("http", "", "serve the JSON API on this address instead of reading stdin (overrides "+config.EnvHTTPAddr+")")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	config.SetupLogging(cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if *geometryFlag != "" {
		g, err := board.ParseGeometry(*geometryFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid -geometry")
		}
		cfg.Geometry = g
	}
	if *orientationFlag != "" {
		c, err := board.ParseColor(*orientationFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid -orientation")
		}
		cfg.Orientation = c
	}
	if *httpFlag != "" {
		cfg.HTTPAddr = *httpFlag
	}

	if cfg.HTTPAddr != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := httpapi.New().Start(ctx, cfg.HTTPAddr); err != nil {
			log.Fatal().Err(err).Msg("http api exited")
		}
		return
	}

	px := float64(cfg.BoardPixels)
	p := probe.New(os.Stdout,
		probe.WithGeometry(cfg.Geometry),
		probe.WithOrientation(cfg.Orientation),
		probe.WithBounds(board.Rect{Width: px, Height: px}),
		probe.WithLogger(log.Logger),
	)
	if err := p.Run(os.Stdin); err != nil {
		log.Fatal().Err(err).Msg("reading commands")
	}
}
