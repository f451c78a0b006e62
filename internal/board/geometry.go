// Package board implements square addressing and screen geometry for boards
// of variable size.
package board

import (
	"fmt"
	"strings"
)

// Geometry identifies a supported board shape.
type Geometry uint8

// Registered geometries. Adding one means adding a Dimensions entry below and,
// if it is larger than every existing shape, extending the shared alphabets.
const (
	Dim8x8 Geometry = iota
	Dim9x9
	Dim10x8
	Dim9x10
	Dim10x10
	Dim20x10
	numGeometries
)

// Dimensions is the size of a board in squares.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Squares returns the number of squares on the board.
func (d Dimensions) Squares() int {
	return d.Width * d.Height
}

// String returns the dimensions as "WxH".
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

var dimensions = [numGeometries]Dimensions{
	Dim8x8:   {Width: 8, Height: 8},
	Dim9x9:   {Width: 9, Height: 9},
	Dim10x8:  {Width: 10, Height: 8},
	Dim9x10:  {Width: 9, Height: 10},
	Dim10x10: {Width: 10, Height: 10},
	Dim20x10: {Width: 20, Height: 10},
}

// Shared alphabets. Each geometry names its squares with a prefix of both.
// Ranks leave the digit range at rank 10 (':'), and '0' is never a rank so
// NoKey cannot collide with a real square.
const (
	fileSymbols = "abcdefghijklmnopqrst"
	rankSymbols = "123456789:"
)

// Geometries returns every registered geometry in registry order.
func Geometries() []Geometry {
	gs := make([]Geometry, 0, numGeometries)
	for g := Geometry(0); g < numGeometries; g++ {
		gs = append(gs, g)
	}
	return gs
}

// IsValid returns true if g is a registered geometry.
func (g Geometry) IsValid() bool {
	return g < numGeometries
}

// Dimensions returns the board size for g.
// Unregistered geometries return the zero Dimensions.
func (g Geometry) Dimensions() Dimensions {
	if !g.IsValid() {
		return Dimensions{}
	}
	return dimensions[g]
}

// String returns the geometry as "WxH" (e.g., "8x8").
func (g Geometry) String() string {
	if !g.IsValid() {
		return fmt.Sprintf("Geometry(%d)", uint8(g))
	}
	return dimensions[g].String()
}

// Files returns the file symbols used by g, in order.
func (g Geometry) Files() string {
	return fileSymbols[:g.Dimensions().Width]
}

// Ranks returns the rank symbols used by g, in order.
func (g Geometry) Ranks() string {
	return rankSymbols[:g.Dimensions().Height]
}

// Contains returns true if p lies on a board of shape g.
func (g Geometry) Contains(p Pos) bool {
	d := g.Dimensions()
	return p.File >= 1 && p.File <= d.Width && p.Rank >= 1 && p.Rank <= d.Height
}

// ParseGeometry parses a geometry name such as "8x8" or "20X10".
func ParseGeometry(s string) (Geometry, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for g := Geometry(0); g < numGeometries; g++ {
		if dimensions[g].String() == name {
			return g, nil
		}
	}
	return 0, fmt.Errorf("unknown geometry: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (g Geometry) MarshalText() ([]byte, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("unknown geometry: %d", uint8(g))
	}
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Geometry) UnmarshalText(text []byte) error {
	parsed, err := ParseGeometry(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Decode tables, indexed by character. Zero means the character is not a symbol.
var (
	fileIndex [256]uint8
	rankIndex [256]uint8
	allKeys   [numGeometries][]Key
	allPos    [numGeometries][]Pos
)

func init() {
	for i := 0; i < len(fileSymbols); i++ {
		c := fileSymbols[i]
		if fileIndex[c] != 0 {
			panic(fmt.Sprintf("board: duplicate file symbol %q", c))
		}
		fileIndex[c] = uint8(i + 1)
	}
	for i := 0; i < len(rankSymbols); i++ {
		c := rankSymbols[i]
		if rankIndex[c] != 0 {
			panic(fmt.Sprintf("board: duplicate rank symbol %q", c))
		}
		if fileIndex[c] != 0 {
			panic(fmt.Sprintf("board: symbol %q used as both file and rank", c))
		}
		rankIndex[c] = uint8(i + 1)
	}
	if rankIndex[NoKey[1]] != 0 {
		panic("board: NoKey names a real square")
	}

	for g := Geometry(0); g < numGeometries; g++ {
		d := dimensions[g]
		if d.Width <= 0 || d.Height <= 0 {
			panic(fmt.Sprintf("board: geometry %d has empty dimensions", g))
		}
		if d.Width > len(fileSymbols) || d.Height > len(rankSymbols) {
			panic(fmt.Sprintf("board: geometry %s exceeds the symbol alphabets", d))
		}

		keys := make([]Key, 0, d.Squares())
		positions := make([]Pos, 0, d.Squares())
		for f := 1; f <= d.Width; f++ {
			for r := 1; r <= d.Height; r++ {
				p := Pos{File: f, Rank: r}
				keys = append(keys, g.PosToKey(p))
				positions = append(positions, p)
			}
		}
		allKeys[g] = keys
		allPos[g] = positions
	}
}
