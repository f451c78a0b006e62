package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/chessgeom/internal/board"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare color.RGBA
	DarkSquare  color.RGBA
	Background  color.RGBA
	TextColor   color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare: color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:  color.RGBA{181, 136, 99, 255},  // Brown
		Background:  color.RGBA{40, 44, 52, 255},    // Dark gray
		TextColor:   color.RGBA{220, 220, 220, 255}, // Light gray
	}
}

// Square is one board square placed in screen space.
type Square struct {
	Key  board.Key
	Pos  board.Pos
	Rect board.Rect
	Dark bool
}

// View describes how a board is laid out on screen.
type View struct {
	Geometry board.Geometry
	AsWhite  bool
	Bounds   board.Rect
	// Relative places squares through percentage offsets instead of pixel
	// offsets. Both produce the same picture.
	Relative bool
}

// Translator returns the translator used to place squares.
func (v View) Translator() board.Translator {
	if v.Relative {
		return board.Relative(v.Geometry.Dimensions())
	}
	return board.Absolute(v.Bounds, v.Geometry.Dimensions())
}

// SquareRect returns the screen rectangle of the square at p.
func (v View) SquareRect(tr board.Translator, p board.Pos) board.Rect {
	d := v.Geometry.Dimensions()
	o := tr.Offset(p, v.AsWhite)
	w := v.Bounds.Width / float64(d.Width)
	h := v.Bounds.Height / float64(d.Height)
	if v.Relative {
		return board.Rect{
			Left:   v.Bounds.Left + o.X*v.Bounds.Width/100,
			Top:    v.Bounds.Top + o.Y*v.Bounds.Height/100,
			Width:  w,
			Height: h,
		}
	}
	return board.Rect{Left: v.Bounds.Left + o.X, Top: v.Bounds.Top + o.Y, Width: w, Height: h}
}

// Squares lays out every square of the view, file-major.
func (v View) Squares(tr board.Translator) []Square {
	positions := v.Geometry.AllPos()
	squares := make([]Square, 0, len(positions))
	for _, p := range positions {
		squares = append(squares, Square{
			Key:  v.Geometry.PosToKey(p),
			Pos:  p,
			Rect: v.SquareRect(tr, p),
			Dark: (p.File+p.Rank)%2 == 0,
		})
	}
	return squares
}

// Label is a coordinate label centered on a point.
type Label struct {
	Text string
	X, Y float64
}

// Labels returns the file labels below the board and the rank labels to its
// left, following the orientation.
func (v View) Labels(tr board.Translator, margin float64) []Label {
	d := v.Geometry.Dimensions()
	files := v.Geometry.Files()
	labels := make([]Label, 0, d.Width+d.Height)
	for f := 1; f <= d.Width; f++ {
		r := v.SquareRect(tr, board.Pos{File: f, Rank: 1})
		labels = append(labels, Label{
			Text: files[f-1 : f],
			X:    r.Left + r.Width/2,
			Y:    v.Bounds.Top + v.Bounds.Height + margin/2,
		})
	}
	for rank := 1; rank <= d.Height; rank++ {
		p := board.Pos{File: 1, Rank: rank}
		r := v.SquareRect(tr, p)
		labels = append(labels, Label{
			Text: p.Algebraic()[1:],
			X:    v.Bounds.Left - margin/2,
			Y:    r.Top + r.Height/2,
		})
	}
	return labels
}

// Renderer handles all drawing operations.
type Renderer struct {
	markers *MarkerSprites
	theme   *Theme
	scale   float64 // HiDPI scale factor
}

// NewRenderer creates a new renderer.
func NewRenderer(squareSize int) *Renderer {
	return &Renderer{
		markers: NewMarkerSprites(squareSize),
		theme:   DefaultTheme(),
		scale:   1.0,
	}
}

// SetScale sets the HiDPI scale factor for rendering.
func (r *Renderer) SetScale(scale float64) {
	r.scale = scale
}

// sf returns the scaled float value for rendering.
func (r *Renderer) sf(v float64) float32 {
	return float32(v * r.scale)
}

// DrawBoard draws the board squares.
func (r *Renderer) DrawBoard(screen *ebiten.Image, squares []Square) {
	for _, sq := range squares {
		c := r.theme.LightSquare
		if sq.Dark {
			c = r.theme.DarkSquare
		}
		vector.DrawFilledRect(screen, r.sf(sq.Rect.Left), r.sf(sq.Rect.Top), r.sf(sq.Rect.Width), r.sf(sq.Rect.Height), c, false)
	}
}

// DrawLabels draws coordinate labels.
func (r *Renderer) DrawLabels(screen *ebiten.Image, labels []Label) {
	face := GetFaceWithSize(defaultFontSize * r.scale)
	for _, l := range labels {
		drawTextCentered(screen, l.Text, face, l.X*r.scale, l.Y*r.scale, r.theme.TextColor)
	}
}

// DrawMarker draws a marker over a square rectangle.
func (r *Renderer) DrawMarker(screen *ebiten.Image, m Marker, rect board.Rect) {
	r.markers.SetSize(int(rect.Width * r.scale))
	r.markers.DrawAt(screen, m, rect.Left*r.scale, rect.Top*r.scale, rect.Width*r.scale, rect.Height*r.scale)
}

// DrawMarkerCentered draws a marker the size of rect centered on (cx, cy).
func (r *Renderer) DrawMarkerCentered(screen *ebiten.Image, m Marker, rect board.Rect, cx, cy float64) {
	centered := board.Rect{Left: cx - rect.Width/2, Top: cy - rect.Height/2, Width: rect.Width, Height: rect.Height}
	r.DrawMarker(screen, m, centered)
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}
