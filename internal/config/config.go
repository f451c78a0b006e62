// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chessgeom/internal/board"
)

// Environment variable names.
const (
	EnvLogLevel    = "LOG_LEVEL"
	EnvGeometry    = "CHESSGEOM_GEOMETRY"
	EnvOrientation = "CHESSGEOM_ORIENTATION"
	EnvBoardPixels = "CHESSGEOM_BOARD_PX"
	EnvRelative    = "CHESSGEOM_RELATIVE"
	EnvDataDir     = "CHESSGEOM_DATA_DIR"
	EnvHTTPAddr    = "CHESSGEOM_HTTP_ADDR"
)

// Config holds the settings shared by the viewer and the probe.
type Config struct {
	LogLevel    zerolog.Level
	Geometry    board.Geometry
	Orientation board.Color
	BoardPixels int
	Relative    bool
	DataDir     string
	HTTPAddr    string

	// Explicit records which board settings were given in the environment.
	// Those take precedence over saved viewer preferences.
	Explicit Explicit
}

// Explicit flags board settings read from the environment.
type Explicit struct {
	Geometry    bool
	Orientation bool
	Relative    bool
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		LogLevel:    zerolog.InfoLevel,
		Geometry:    board.Dim8x8,
		Orientation: board.White,
		BoardPixels: 640,
	}
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load(files...)
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an environment lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(k string) string {
		v, _ := lookup(k)
		return strings.TrimSpace(v)
	}

	if v := get(EnvLogLevel); v != "" {
		lvl, err := zerolog.ParseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = lvl
	}
	if v := get(EnvGeometry); v != "" {
		g, err := board.ParseGeometry(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvGeometry, err)
		}
		cfg.Geometry = g
		cfg.Explicit.Geometry = true
	}
	if v := get(EnvOrientation); v != "" {
		c, err := board.ParseColor(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvOrientation, err)
		}
		cfg.Orientation = c
		cfg.Explicit.Orientation = true
	}
	if v := get(EnvBoardPixels); v != "" {
		px, err := strconv.Atoi(v)
		if err != nil || px <= 0 {
			return cfg, fmt.Errorf("%s: invalid board size %q", EnvBoardPixels, v)
		}
		cfg.BoardPixels = px
	}
	if v := get(EnvRelative); v != "" {
		rel, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvRelative, err)
		}
		cfg.Relative = rel
		cfg.Explicit.Relative = true
	}
	cfg.DataDir = get(EnvDataDir)
	cfg.HTTPAddr = get(EnvHTTPAddr)

	return cfg, nil
}

// SetupLogging configures the global zerolog logger. Terminals get the
// human-readable console writer, anything else gets JSON.
func SetupLogging(level zerolog.Level, w io.Writer) {
	zerolog.SetGlobalLevel(level)
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
