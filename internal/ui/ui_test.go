package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chessgeom/internal/board"
	"github.com/hailam/chessgeom/internal/config"
	"github.com/hailam/chessgeom/internal/storage"
)

func TestBoardBounds(t *testing.T) {
	r := boardBounds(696, 696, board.Dim8x8.Dimensions(), LabelMargin)
	assert.Equal(t, board.Rect{Left: 28, Top: 28, Width: 640, Height: 640}, r)

	r = boardBounds(1000, 600, board.Dim20x10.Dimensions(), LabelMargin)
	assert.Equal(t, board.Rect{Left: 30, Top: 65, Width: 940, Height: 470}, r)

	assert.Equal(t, board.Rect{}, boardBounds(40, 40, board.Dim8x8.Dimensions(), LabelMargin))
}

// TestRelativeLayoutMatchesAbsolute checks that both placement modes put every
// square in the same place.
func TestRelativeLayoutMatchesAbsolute(t *testing.T) {
	for _, g := range board.Geometries() {
		for _, asWhite := range []bool{true, false} {
			abs := View{Geometry: g, AsWhite: asWhite, Bounds: board.Rect{Left: 17, Top: 9, Width: 800, Height: 600}}
			rel := abs
			rel.Relative = true

			a := abs.Squares(abs.Translator())
			r := rel.Squares(rel.Translator())
			require.Len(t, r, len(a))
			for i := range a {
				assert.Equal(t, a[i].Key, r[i].Key)
				assert.InDelta(t, a[i].Rect.Left, r[i].Rect.Left, 1e-9)
				assert.InDelta(t, a[i].Rect.Top, r[i].Rect.Top, 1e-9)
			}
		}
	}
}

func TestSquaresColoring(t *testing.T) {
	v := View{Geometry: board.Dim8x8, AsWhite: true, Bounds: board.Rect{Width: 800, Height: 800}}
	squares := v.Squares(v.Translator())
	require.Len(t, squares, 64)

	assert.Equal(t, board.Key("a1"), squares[0].Key)
	assert.True(t, squares[0].Dark, "a1 is dark")
	assert.False(t, squares[1].Dark, "a2 is light")
	assert.Equal(t, board.Rect{Left: 0, Top: 700, Width: 100, Height: 100}, squares[0].Rect)
}

func TestLabels(t *testing.T) {
	v := View{Geometry: board.Dim20x10, AsWhite: true, Bounds: board.Rect{Left: 28, Top: 28, Width: 1000, Height: 500}}
	labels := v.Labels(v.Translator(), LabelMargin)
	require.Len(t, labels, 30)

	assert.Equal(t, Label{Text: "a", X: 53, Y: 542}, labels[0])
	assert.Equal(t, "t", labels[19].Text)
	assert.Equal(t, Label{Text: "1", X: 14, Y: 503}, labels[20])
	assert.Equal(t, "10", labels[29].Text)

	v.AsWhite = false
	labels = v.Labels(v.Translator(), LabelMargin)
	assert.Equal(t, float64(1028-25), labels[0].X, "file a is on the right when flipped")
	assert.Equal(t, float64(53), labels[20].Y, "rank 1 is on top when flipped")
}

func TestRasterizeSVG(t *testing.T) {
	img, err := rasterizeSVG(markerSVG[MarkerTarget], 32)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())

	_, _, _, center := img.At(16, 16).RGBA()
	_, _, _, corner := img.At(0, 0).RGBA()
	assert.NotZero(t, center)
	assert.Zero(t, corner)

	_, err = rasterizeSVG(markerSVG[MarkerSelected], 0)
	assert.Error(t, err)
}

func TestMarkerSpritesSize(t *testing.T) {
	ms := NewMarkerSprites(0)
	assert.Equal(t, 1, ms.Size())
	ms.SetSize(80)
	assert.Equal(t, 80, ms.Size())
}

func newTestGame(t *testing.T) (*Game, *storage.Storage) {
	t.Helper()
	st, err := storage.NewMemoryStorage()
	require.NoError(t, err)
	g := NewGame(config.Default(), st)
	t.Cleanup(g.Close)
	return g, st
}

func TestPressRelease(t *testing.T) {
	g, st := newTestGame(t)

	w, h := g.ScreenSize()
	require.Equal(t, 696, w)
	require.Equal(t, 696, h)

	g.press(68, 628)
	assert.Equal(t, board.Key("a1"), g.Selected())
	assert.True(t, g.hold.Running())

	g.release(388, 388)
	assert.Equal(t, board.Key("e4"), g.Selected())
	assert.False(t, g.hold.Running())
	assert.GreaterOrEqual(t, g.LastHold().Nanoseconds(), int64(0))

	stats, err := st.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Drags)
	require.NotNil(t, stats.LastMove)
	assert.Equal(t, board.Key("a1"), stats.LastMove.From)
	assert.Equal(t, board.Key("e4"), stats.LastMove.To)

	drop, ok := g.DropPoint()
	require.True(t, ok)
	assert.Equal(t, board.Offset{X: 348, Y: 388}, drop, "release snaps to the center of e4")
}

func TestDropPointFollowsFlip(t *testing.T) {
	g, _ := newTestGame(t)

	g.press(68, 628)
	g.release(388, 388)
	g.Flip()

	drop, ok := g.DropPoint()
	require.True(t, ok)
	assert.Equal(t, board.Offset{X: 308, Y: 308}, drop)

	g.press(68, 628)
	_, ok = g.DropPoint()
	assert.False(t, ok, "a new press clears the drop point")
}

func TestReleaseOffBoardCancels(t *testing.T) {
	g, st := newTestGame(t)

	g.press(68, 628)
	g.release(5, 5)
	assert.Equal(t, board.NoKey, g.Selected())
	assert.False(t, g.hold.Running())
	_, ok := g.DropPoint()
	assert.False(t, ok)

	stats, err := st.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Cancelled)
	assert.Zero(t, stats.Drags)
}

func TestFlipChangesHitTest(t *testing.T) {
	g, st := newTestGame(t)

	g.Flip()
	assert.Equal(t, board.Black, g.Orientation())
	g.press(68, 628)
	assert.Equal(t, board.Key("h8"), g.Selected())

	prefs, err := st.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, board.Black, prefs.Orientation)
}

func TestNextGeometry(t *testing.T) {
	g, st := newTestGame(t)
	g.press(68, 628)

	g.NextGeometry()
	assert.Equal(t, board.Dim9x9, g.Geometry())
	assert.Equal(t, board.NoKey, g.Selected(), "selection is cleared")

	for range board.Geometries() {
		g.NextGeometry()
	}
	assert.Equal(t, board.Dim9x9, g.Geometry(), "cycling wraps around")

	prefs, err := st.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, board.Dim9x9, prefs.Geometry)
}

func TestConfiguredBoardSeedsFirstRun(t *testing.T) {
	st, err := storage.NewMemoryStorage()
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Geometry = board.Dim20x10
	cfg.Orientation = board.Black
	cfg.Relative = true

	g := NewGame(cfg, st)
	t.Cleanup(g.Close)
	assert.Equal(t, board.Dim20x10, g.Geometry())
	assert.Equal(t, board.Black, g.Orientation())
	assert.True(t, g.relative)
}

func TestExplicitConfigBeatsSavedPreferences(t *testing.T) {
	st, err := storage.NewMemoryStorage()
	require.NoError(t, err)
	require.NoError(t, st.SavePreferences(&storage.Preferences{
		Geometry:    board.Dim9x9,
		Orientation: board.White,
	}))

	cfg := config.Default()
	cfg.Orientation = board.Black
	cfg.Explicit.Orientation = true

	g := NewGame(cfg, st)
	t.Cleanup(g.Close)
	assert.Equal(t, board.Dim9x9, g.Geometry(), "saved geometry kept")
	assert.Equal(t, board.Black, g.Orientation(), "orientation from the environment")
}

func TestNewGameWithoutStorage(t *testing.T) {
	cfg := config.Default()
	cfg.Geometry = board.Dim20x10
	cfg.Orientation = board.Black
	g := NewGame(cfg, nil)
	assert.Equal(t, board.Dim20x10, g.Geometry())
	assert.Equal(t, board.Black, g.Orientation())
	g.Close()
}
