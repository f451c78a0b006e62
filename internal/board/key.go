package board

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strconv"
)

// Key is the two-character name of a square: one file symbol followed by one
// rank symbol (e.g., "e4", "t:").
type Key string

// NoKey is the placeholder for "no square". It never names a real square.
const NoKey Key = "a0"

// Pos is the 1-based (file, rank) address of a square.
type Pos struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

// String returns the position as "(file,rank)".
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.File, p.Rank)
}

var (
	// ErrInvalidKey is returned for keys that are not two known symbols.
	ErrInvalidKey = errors.New("invalid key")
	// ErrOutOfBounds is returned for keys that name a square off the board.
	ErrOutOfBounds = errors.New("square out of bounds")
)

// DecodeError describes a key that could not be decoded.
type DecodeError struct {
	Key    string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %s", e.Key, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// PosToKey returns the key for p. It does not clamp: p must lie within g, and
// positions outside the shared alphabets panic.
func (g Geometry) PosToKey(p Pos) Key {
	return Key([]byte{fileSymbols[p.File-1], rankSymbols[p.Rank-1]})
}

// KeyToPos decodes k against the shared alphabets.
func KeyToPos(k Key) (Pos, error) {
	if len(k) != 2 {
		return Pos{}, &DecodeError{Key: string(k), Reason: "key must be 2 characters", Err: ErrInvalidKey}
	}
	f := fileIndex[k[0]]
	if f == 0 {
		return Pos{}, &DecodeError{Key: string(k), Reason: fmt.Sprintf("unknown file symbol %q", k[0]), Err: ErrInvalidKey}
	}
	r := rankIndex[k[1]]
	if r == 0 {
		return Pos{}, &DecodeError{Key: string(k), Reason: fmt.Sprintf("unknown rank symbol %q", k[1]), Err: ErrInvalidKey}
	}
	return Pos{File: int(f), Rank: int(r)}, nil
}

// KeyToPos decodes k and checks that it names a square of g.
func (g Geometry) KeyToPos(k Key) (Pos, error) {
	p, err := KeyToPos(k)
	if err != nil {
		return Pos{}, err
	}
	if !g.Contains(p) {
		return Pos{}, &DecodeError{Key: string(k), Reason: "not a square of " + g.String(), Err: ErrOutOfBounds}
	}
	return p, nil
}

// Pos decodes the key. See KeyToPos.
func (k Key) Pos() (Pos, error) {
	return KeyToPos(k)
}

// AllKeys returns every key of g, file-major: a1, a2, ..., b1, ...
func (g Geometry) AllKeys() []Key {
	if !g.IsValid() {
		return nil
	}
	return slices.Clone(allKeys[g])
}

// Keys iterates the keys of g in the same order as AllKeys.
func (g Geometry) Keys() iter.Seq[Key] {
	return func(yield func(Key) bool) {
		if !g.IsValid() {
			return
		}
		for _, k := range allKeys[g] {
			if !yield(k) {
				return
			}
		}
	}
}

// AllPos returns every position of g in the same order as AllKeys.
func (g Geometry) AllPos() []Pos {
	if !g.IsValid() {
		return nil
	}
	return slices.Clone(allPos[g])
}

// Flip reflects p through the center of a board of size d.
func Flip(p Pos, d Dimensions) Pos {
	return Pos{File: d.Width + 1 - p.File, Rank: d.Height + 1 - p.Rank}
}

// DistanceSq returns the squared euclidean distance between two squares.
func DistanceSq(a, b Pos) int {
	df := a.File - b.File
	dr := a.Rank - b.Rank
	return df*df + dr*dr
}

// Algebraic returns the human-readable name of p: the file letter followed by
// the decimal rank (e.g., "t10" for the key "t:").
func (p Pos) Algebraic() string {
	if p.File < 1 || p.File > len(fileSymbols) || p.Rank < 1 {
		return "-"
	}
	return string(fileSymbols[p.File-1]) + strconv.Itoa(p.Rank)
}

// ParseAlgebraic parses a name produced by Pos.Algebraic.
func ParseAlgebraic(s string) (Pos, error) {
	if len(s) < 2 {
		return Pos{}, fmt.Errorf("invalid square: %s", s)
	}
	f := fileIndex[s[0]]
	if f == 0 || s[1] < '1' || s[1] > '9' {
		return Pos{}, fmt.Errorf("invalid square: %s", s)
	}
	r, err := strconv.Atoi(s[1:])
	if err != nil || r < 1 || r > len(rankSymbols) {
		return Pos{}, fmt.Errorf("invalid square: %s", s)
	}
	return Pos{File: int(f), Rank: r}, nil
}
