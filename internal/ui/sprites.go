package ui

import (
	"fmt"
	"image"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/hailam/chessgeom/internal/memo"
)

// Marker identifies an overlay drawn on top of a square.
type Marker int

const (
	MarkerSelected Marker = iota
	MarkerTarget
	MarkerHover
	numMarkers
)

// Marker artwork on a 100x100 canvas.
var markerSVG = [numMarkers]string{
	MarkerSelected: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <rect x="4" y="4" width="92" height="92" fill="none" stroke="#f7f769" stroke-width="8" stroke-opacity="0.85"/>
</svg>`,
	MarkerTarget: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <circle cx="50" cy="50" r="16" fill="#829769" fill-opacity="0.8"/>
</svg>`,
	MarkerHover: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <circle cx="50" cy="50" r="44" fill="none" stroke="#dcdcdc" stroke-width="5" stroke-opacity="0.6"/>
</svg>`,
}

// MarkerSprites rasterizes marker artwork on first use.
type MarkerSprites struct {
	size        int     // Display size of one square
	renderScale float64 // Render at higher resolution for quality
	images      [numMarkers]*memo.Memo[*ebiten.Image]
}

// NewMarkerSprites creates marker sprites for squares of the given size.
func NewMarkerSprites(size int) *MarkerSprites {
	ms := &MarkerSprites{renderScale: 2.0}
	for m := Marker(0); m < numMarkers; m++ {
		ms.images[m] = memo.New(func() *ebiten.Image {
			renderSize := int(float64(ms.size) * ms.renderScale)
			rgba, err := rasterizeSVG(markerSVG[m], renderSize)
			if err != nil {
				log.Error().Err(err).Int("marker", int(m)).Msg("failed to render marker")
				return nil
			}
			return ebiten.NewImageFromImage(rgba)
		})
	}
	ms.SetSize(size)
	return ms
}

// SetSize changes the square size, dropping sprites rendered at the old size.
func (ms *MarkerSprites) SetSize(size int) {
	if size < 1 {
		size = 1
	}
	if size == ms.size {
		return
	}
	ms.size = size
	for _, img := range ms.images {
		img.Clear()
	}
}

// Size returns the display size of marker sprites.
func (ms *MarkerSprites) Size() int {
	return ms.size
}

// DrawAt draws marker m with its top-left corner at (x, y), scaled to a
// w by h square.
func (ms *MarkerSprites) DrawAt(screen *ebiten.Image, m Marker, x, y, w, h float64) {
	if m < 0 || m >= numMarkers {
		return
	}
	sprite := ms.images[m].Get()
	if sprite == nil {
		return
	}
	b := sprite.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}

// rasterizeSVG renders an SVG document into a size x size RGBA image.
func rasterizeSVG(src string, size int) (*image.RGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid sprite size %d", size)
	}
	icon, err := oksvg.ReadIconStream(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return rgba, nil
}
