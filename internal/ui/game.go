package ui

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chessgeom/internal/board"
	"github.com/hailam/chessgeom/internal/config"
	"github.com/hailam/chessgeom/internal/memo"
	"github.com/hailam/chessgeom/internal/storage"
	"github.com/hailam/chessgeom/internal/timer"
)

// LabelMargin is the space kept around the board for coordinate labels.
const LabelMargin = 28

// Game implements ebiten.Game interface.
type Game struct {
	// Board settings
	geometry        board.Geometry
	orientation     board.Color
	relative        bool
	showCoordinates bool

	// Screen layout, in logical pixels
	screenW, screenH int
	scale            float64
	bounds           *memo.Memo[board.Rect]
	translator       *memo.Memo[board.Translator]

	// Interaction state
	selected board.Key
	dragging bool
	dragFrom board.Key
	hold     *timer.Timer
	lastHold time.Duration
	dropped  bool
	dropAt   board.Offset // center of the selected square after a release

	// Storage
	storage *storage.Storage
	prefs   *storage.Preferences

	// Components
	renderer *Renderer
	input    *InputHandler
	log      zerolog.Logger
}

// NewGame creates a viewer from configuration. Stored preferences override
// configured board settings that were not set explicitly. st may be nil.
func NewGame(cfg config.Config, st *storage.Storage) *Game {
	side := cfg.BoardPixels + 2*LabelMargin
	g := &Game{
		geometry:        cfg.Geometry,
		orientation:     cfg.Orientation,
		relative:        cfg.Relative,
		showCoordinates: true,
		screenW:         side,
		screenH:         side,
		scale:           1.0,
		selected:        board.NoKey,
		dragFrom:        board.NoKey,
		hold:            timer.New(),
		storage:         st,
		input:           NewInputHandler(),
		log:             log.With().Str("component", "ui").Logger(),
	}
	g.bounds = memo.New(func() board.Rect {
		return boardBounds(g.screenW, g.screenH, g.geometry.Dimensions(), LabelMargin)
	})
	g.translator = memo.New(func() board.Translator {
		return g.view().Translator()
	})
	g.renderer = NewRenderer(cfg.BoardPixels / g.geometry.Dimensions().Width)

	g.loadPreferences(cfg.Explicit)
	return g
}

// boardBounds fits a board of square cells into the screen, centered, keeping
// margin free on every side.
func boardBounds(screenW, screenH int, d board.Dimensions, margin float64) board.Rect {
	availW := float64(screenW) - 2*margin
	availH := float64(screenH) - 2*margin
	if availW <= 0 || availH <= 0 || d.Width == 0 || d.Height == 0 {
		return board.Rect{}
	}
	cell := math.Floor(math.Min(availW/float64(d.Width), availH/float64(d.Height)))
	w := cell * float64(d.Width)
	h := cell * float64(d.Height)
	return board.Rect{
		Left:   math.Floor((float64(screenW) - w) / 2),
		Top:    math.Floor((float64(screenH) - h) / 2),
		Width:  w,
		Height: h,
	}
}

// loadPreferences loads board preferences from storage. The configured board
// settings seed a first run; settings set explicitly in the environment win
// over saved ones.
func (g *Game) loadPreferences(explicit config.Explicit) {
	defaults := storage.DefaultPreferences()
	defaults.Geometry = g.geometry
	defaults.Orientation = g.orientation
	defaults.Relative = g.relative

	if g.storage == nil {
		g.prefs = defaults
		return
	}

	var err error
	g.prefs, err = g.storage.LoadPreferencesOr(defaults)
	if err != nil {
		g.log.Warn().Err(err).Msg("failed to load preferences")
	}

	if !explicit.Geometry && g.prefs.Geometry.IsValid() {
		g.geometry = g.prefs.Geometry
	}
	if !explicit.Orientation {
		g.orientation = g.prefs.Orientation
	}
	if !explicit.Relative {
		g.relative = g.prefs.Relative
	}
	g.showCoordinates = g.prefs.ShowCoordinates
	g.invalidateLayout()
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	if g.storage == nil {
		return
	}

	g.prefs.Geometry = g.geometry
	g.prefs.Orientation = g.orientation
	g.prefs.Relative = g.relative
	g.prefs.ShowCoordinates = g.showCoordinates

	if err := g.storage.SavePreferences(g.prefs); err != nil {
		g.log.Warn().Err(err).Msg("failed to save preferences")
	}
}

// invalidateLayout drops cached bounds and scale factors.
func (g *Game) invalidateLayout() {
	g.bounds.Clear()
	g.translator.Clear()
	g.snap()
}

// snap moves the drop point to the center of the selected square.
func (g *Game) snap() {
	if !g.dropped {
		return
	}
	v := g.view()
	c, err := board.SquareCenter(g.selected, v.AsWhite, v.Bounds, g.geometry.Dimensions())
	if err != nil {
		g.dropped = false
		return
	}
	g.dropAt = c
}

func (g *Game) view() View {
	return View{
		Geometry: g.geometry,
		AsWhite:  g.orientation == board.White,
		Bounds:   g.bounds.Get(),
		Relative: g.relative,
	}
}

// Update handles input.
func (g *Game) Update() error {
	g.input.Update(g.scale)

	g.handleKeys()
	g.handleBoardInput()

	return nil
}

// handleKeys processes keyboard shortcuts.
//   - F flips the board
//   - G cycles through geometries
//   - C toggles coordinate labels
//   - R toggles relative placement
func (g *Game) handleKeys() {
	switch {
	case IsKeyJustPressed(ebiten.KeyF):
		g.Flip()
	case IsKeyJustPressed(ebiten.KeyG):
		g.NextGeometry()
	case IsKeyJustPressed(ebiten.KeyC):
		g.showCoordinates = !g.showCoordinates
		g.savePreferences()
	case IsKeyJustPressed(ebiten.KeyR):
		g.relative = !g.relative
		g.translator.Clear()
		g.savePreferences()
	}
}

// Flip turns the board around.
func (g *Game) Flip() {
	g.orientation = g.orientation.Opposite()
	g.snap()
	g.savePreferences()
	g.log.Debug().Stringer("orientation", g.orientation).Msg("board flipped")
}

// NextGeometry switches to the next registered geometry.
func (g *Game) NextGeometry() {
	gs := board.Geometries()
	next := gs[0]
	for i, geom := range gs {
		if geom == g.geometry && i+1 < len(gs) {
			next = gs[i+1]
		}
	}
	g.SetGeometry(next)
}

// SetGeometry switches the board shape and clears the selection.
func (g *Game) SetGeometry(geom board.Geometry) {
	if !geom.IsValid() {
		return
	}
	g.geometry = geom
	g.clearSelection()
	g.invalidateLayout()
	g.savePreferences()
	g.log.Info().Stringer("geometry", geom).Msg("geometry changed")
}

// handleBoardInput processes mouse interactions with the board.
func (g *Game) handleBoardInput() {
	mx, my := g.input.MousePosition()

	if g.input.IsLeftJustPressed() {
		g.press(mx, my)
	}
	if g.dragging && g.input.IsLeftJustReleased() {
		g.release(mx, my)
	}
}

// press selects the square under the pointer and starts timing the hold.
func (g *Game) press(x, y float64) {
	v := g.view()
	key, ok := board.KeyAt(x, y, v.AsWhite, v.Bounds, g.geometry)
	if !ok {
		g.clearSelection()
		return
	}
	g.selected = key
	g.dropped = false
	g.dragging = true
	g.dragFrom = key
	g.hold.Start()
}

// release finishes a press. Releasing off the board cancels it.
func (g *Game) release(x, y float64) {
	v := g.view()
	target, ok := board.KeyAt(x, y, v.AsWhite, v.Bounds, g.geometry)
	g.dragging = false

	if !ok {
		g.hold.Cancel()
		g.selected = board.NoKey
		if g.storage != nil {
			if err := g.storage.RecordCancel(); err != nil {
				g.log.Warn().Err(err).Msg("failed to record cancel")
			}
		}
		return
	}

	g.lastHold = g.hold.Stop()
	rec := storage.InteractionRecord{
		Geometry: g.geometry,
		From:     g.dragFrom,
		To:       target,
		Hold:     g.lastHold,
	}
	g.selected = target
	g.dropped = true
	g.snap()
	g.log.Debug().
		Str("from", string(rec.From)).
		Str("to", string(rec.To)).
		Float64("hold_ms", timer.Millis(rec.Hold)).
		Float64("x", g.dropAt.X).
		Float64("y", g.dropAt.Y).
		Msg("pointer released")

	if g.storage != nil {
		if err := g.storage.RecordInteraction(rec); err != nil {
			g.log.Warn().Err(err).Msg("failed to record interaction")
		}
	}
}

// clearSelection clears the current selection.
func (g *Game) clearSelection() {
	g.selected = board.NoKey
	g.dragging = false
	g.dragFrom = board.NoKey
	g.dropped = false
	g.hold.Cancel()
}

// Draw renders the board.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.SetScale(g.scale)
	screen.Fill(g.renderer.Theme().Background)

	v := g.view()
	tr := g.translator.Get()
	g.renderer.DrawBoard(screen, v.Squares(tr))

	if g.showCoordinates {
		g.renderer.DrawLabels(screen, v.Labels(tr, LabelMargin))
	}

	if g.selected != board.NoKey {
		if p, err := g.geometry.KeyToPos(g.selected); err == nil {
			g.renderer.DrawMarker(screen, MarkerSelected, v.SquareRect(tr, p))
		}
	}

	if g.dropped && !g.dragging {
		cell := v.SquareRect(tr, board.Pos{File: 1, Rank: 1})
		g.renderer.DrawMarkerCentered(screen, MarkerTarget, cell, g.dropAt.X, g.dropAt.Y)
	}

	if g.dragging {
		mx, my := g.input.MousePosition()
		if target, ok := board.KeyAt(mx, my, v.AsWhite, v.Bounds, g.geometry); ok {
			// Show where the pointer will snap on release.
			if c, err := board.SquareCenter(target, v.AsWhite, v.Bounds, g.geometry.Dimensions()); err == nil {
				cell := v.SquareRect(tr, board.Pos{File: 1, Rank: 1})
				g.renderer.DrawMarkerCentered(screen, MarkerTarget, cell, c.X, c.Y)
			}
		}
		from, err := g.geometry.KeyToPos(g.dragFrom)
		if err == nil {
			g.renderer.DrawMarkerCentered(screen, MarkerHover, v.SquareRect(tr, from), mx, my)
		}
	}
}

// Layout returns the game's screen dimensions.
// Uses device scale factor for crisp rendering on HiDPI displays.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scale = ebiten.Monitor().DeviceScaleFactor()
	if g.scale < 1.0 {
		g.scale = 1.0
	}

	if outsideWidth != g.screenW || outsideHeight != g.screenH {
		g.screenW, g.screenH = outsideWidth, outsideHeight
		g.invalidateLayout()
	}
	return int(float64(g.screenW) * g.scale), int(float64(g.screenH) * g.scale)
}

// ScreenSize returns the initial window size in logical pixels.
func (g *Game) ScreenSize() (int, int) {
	return g.screenW, g.screenH
}

// Geometry returns the current board geometry.
func (g *Game) Geometry() board.Geometry {
	return g.geometry
}

// Orientation returns the color shown at the bottom.
func (g *Game) Orientation() board.Color {
	return g.orientation
}

// Selected returns the selected square, or board.NoKey.
func (g *Game) Selected() board.Key {
	return g.selected
}

// LastHold returns how long the last completed press lasted.
func (g *Game) LastHold() time.Duration {
	return g.lastHold
}

// DropPoint returns the center the last released press snapped to, or false
// if there is none.
func (g *Game) DropPoint() (board.Offset, bool) {
	return g.dropAt, g.dropped
}

// Close releases storage.
func (g *Game) Close() {
	if g.storage != nil {
		if err := g.storage.Close(); err != nil {
			g.log.Warn().Err(err).Msg("failed to close storage")
		}
	}
}
