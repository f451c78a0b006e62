package board

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometryDimensions(t *testing.T) {
	assert.Equal(t, Dimensions{8, 8}, Dim8x8.Dimensions())
	assert.Equal(t, Dimensions{20, 10}, Dim20x10.Dimensions())
	assert.Equal(t, 200, Dim20x10.Dimensions().Squares())
	assert.Equal(t, Dimensions{}, Geometry(99).Dimensions())
	assert.False(t, Geometry(99).IsValid())
}

func TestGeometryAlphabets(t *testing.T) {
	assert.Equal(t, "abcdefgh", Dim8x8.Files())
	assert.Equal(t, "12345678", Dim8x8.Ranks())
	assert.Equal(t, "abcdefghijklmnopqrst", Dim20x10.Files())
	assert.Equal(t, "123456789:", Dim20x10.Ranks())

	// Every geometry names its squares with a prefix of the largest one.
	for _, g := range Geometries() {
		assert.Equal(t, fileSymbols[:len(g.Files())], g.Files())
		assert.Equal(t, rankSymbols[:len(g.Ranks())], g.Ranks())
	}
}

func TestParseGeometry(t *testing.T) {
	for _, g := range Geometries() {
		parsed, err := ParseGeometry(g.String())
		require.NoError(t, err)
		assert.Equal(t, g, parsed)
	}

	g, err := ParseGeometry(" 20X10 ")
	require.NoError(t, err)
	assert.Equal(t, Dim20x10, g)

	_, err = ParseGeometry("7x7")
	assert.Error(t, err)
}

func TestGeometryContains(t *testing.T) {
	assert.True(t, Dim8x8.Contains(Pos{1, 1}))
	assert.True(t, Dim8x8.Contains(Pos{8, 8}))
	assert.False(t, Dim8x8.Contains(Pos{9, 1}))
	assert.False(t, Dim8x8.Contains(Pos{0, 1}))
	assert.True(t, Dim20x10.Contains(Pos{20, 10}))
	assert.False(t, Dim20x10.Contains(Pos{20, 11}))
}

func TestGeometryJSON(t *testing.T) {
	type wrapper struct {
		Geometry Geometry `json:"geometry"`
		Side     Color    `json:"side"`
	}
	data, err := json.Marshal(wrapper{Geometry: Dim10x8, Side: Black})
	require.NoError(t, err)
	assert.JSONEq(t, `{"geometry":"10x8","side":"black"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal(data, &w))
	assert.Equal(t, Dim10x8, w.Geometry)
	assert.Equal(t, Black, w.Side)

	assert.Error(t, json.Unmarshal([]byte(`{"geometry":"3x3"}`), &w))
}

func TestColor(t *testing.T) {
	assert.Equal(t, Black, White.Opposite())
	assert.Equal(t, White, Black.Opposite())

	c, err := ParseColor("B")
	require.NoError(t, err)
	assert.Equal(t, Black, c)

	_, err = ParseColor("red")
	assert.Error(t, err)
}
