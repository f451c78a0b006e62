package board

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoundTrip checks that every square of every geometry survives
// PosToKey followed by KeyToPos.
func TestRoundTrip(t *testing.T) {
	for _, g := range Geometries() {
		d := g.Dimensions()
		for f := 1; f <= d.Width; f++ {
			for r := 1; r <= d.Height; r++ {
				p := Pos{File: f, Rank: r}
				k := g.PosToKey(p)
				require.Len(t, k, 2, "%s %v", g, p)

				got, err := g.KeyToPos(k)
				require.NoError(t, err, "%s %v", g, p)
				assert.Equal(t, p, got, "%s key %q", g, k)
			}
		}
	}
}

func TestStandardKeys(t *testing.T) {
	assert.Equal(t, Key("a1"), Dim8x8.PosToKey(Pos{1, 1}))
	assert.Equal(t, Key("h8"), Dim8x8.PosToKey(Pos{8, 8}))
	assert.Equal(t, Key("e4"), Dim8x8.PosToKey(Pos{5, 4}))

	p, err := KeyToPos("h8")
	require.NoError(t, err)
	assert.Equal(t, Pos{8, 8}, p)
}

// TestWideBoardKeys covers the symbols beyond the digit range.
func TestWideBoardKeys(t *testing.T) {
	assert.Equal(t, Key("t:"), Dim20x10.PosToKey(Pos{20, 10}))
	assert.Equal(t, Key("j9"), Dim20x10.PosToKey(Pos{10, 9}))

	p, err := Dim20x10.KeyToPos("t:")
	require.NoError(t, err)
	assert.Equal(t, Pos{20, 10}, p)

	// Same key is off the standard board.
	_, err = Dim8x8.KeyToPos("t:")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestKeyToPosRejectsMalformedKeys(t *testing.T) {
	tests := []struct {
		key  Key
		want error
	}{
		{"", ErrInvalidKey},
		{"a", ErrInvalidKey},
		{"a10", ErrInvalidKey},
		{"a0", ErrInvalidKey},
		{NoKey, ErrInvalidKey},
		{"u1", ErrInvalidKey},
		{"A1", ErrInvalidKey},
		{"1a", ErrInvalidKey},
		{"a;", ErrInvalidKey},
	}

	for _, tt := range tests {
		_, err := KeyToPos(tt.key)
		require.Error(t, err, "key %q", tt.key)
		assert.ErrorIs(t, err, tt.want, "key %q", tt.key)

		var de *DecodeError
		require.True(t, errors.As(err, &de), "key %q", tt.key)
		assert.Equal(t, string(tt.key), de.Key)
	}
}

// TestAllKeys checks size, order, uniqueness and coverage of the enumeration.
func TestAllKeys(t *testing.T) {
	for _, g := range Geometries() {
		d := g.Dimensions()
		keys := g.AllKeys()
		require.Len(t, keys, d.Width*d.Height, g.String())

		seen := make(map[Key]bool, len(keys))
		var decoded []Pos
		for _, k := range keys {
			assert.False(t, seen[k], "%s: duplicate key %q", g, k)
			seen[k] = true
			p, err := g.KeyToPos(k)
			require.NoError(t, err)
			decoded = append(decoded, p)
		}

		var want []Pos
		for f := 1; f <= d.Width; f++ {
			for r := 1; r <= d.Height; r++ {
				want = append(want, Pos{f, r})
			}
		}
		if diff := cmp.Diff(want, decoded); diff != "" {
			t.Errorf("%s: positions mismatch (-want +got):\n%s", g, diff)
		}
		if diff := cmp.Diff(want, g.AllPos()); diff != "" {
			t.Errorf("%s: AllPos mismatch (-want +got):\n%s", g, diff)
		}
	}
}

func TestAllKeysStandardOrder(t *testing.T) {
	keys := Dim8x8.AllKeys()
	want := []Key{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "b1"}
	if diff := cmp.Diff(want, keys[:9]); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Key("h8"), keys[63])
}

func TestAllKeysReturnsCopy(t *testing.T) {
	keys := Dim8x8.AllKeys()
	keys[0] = NoKey
	assert.Equal(t, Key("a1"), Dim8x8.AllKeys()[0])
}

func TestKeysIterator(t *testing.T) {
	assert.Equal(t, Dim20x10.AllKeys(), slices.Collect(Dim20x10.Keys()))

	var first []Key
	for k := range Dim9x9.Keys() {
		first = append(first, k)
		if len(first) == 3 {
			break
		}
	}
	assert.Equal(t, []Key{"a1", "a2", "a3"}, first)

	assert.Empty(t, slices.Collect(Geometry(200).Keys()))
}

func TestFlip(t *testing.T) {
	d := Dim20x10.Dimensions()
	assert.Equal(t, Pos{20, 10}, Flip(Pos{1, 1}, d))
	assert.Equal(t, Pos{11, 6}, Flip(Pos{10, 5}, d))
	for _, p := range Dim20x10.AllPos() {
		assert.Equal(t, p, Flip(Flip(p, d), d))
	}
}

func TestDistanceSq(t *testing.T) {
	assert.Equal(t, 0, DistanceSq(Pos{3, 3}, Pos{3, 3}))
	assert.Equal(t, 5, DistanceSq(Pos{1, 1}, Pos{2, 3}))
	assert.Equal(t, 98, DistanceSq(Pos{1, 1}, Pos{8, 8}))
}

func TestAlgebraic(t *testing.T) {
	tests := []struct {
		pos  Pos
		want string
	}{
		{Pos{1, 1}, "a1"},
		{Pos{8, 8}, "h8"},
		{Pos{20, 10}, "t10"},
		{Pos{0, 1}, "-"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.pos.Algebraic())
	}

	for _, p := range Dim20x10.AllPos() {
		got, err := ParseAlgebraic(p.Algebraic())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	for _, bad := range []string{"", "a", "a0", "a11", "z1", "a+1", "a1x"} {
		_, err := ParseAlgebraic(bad)
		assert.Error(t, err, bad)
	}
}
