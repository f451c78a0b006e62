package board

import "math"

// Rect is a bounding rectangle in screen space. The origin is top-left.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains returns true if the point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x < r.Left+r.Width && y >= r.Top && y < r.Top+r.Height
}

func (r Rect) finite() bool {
	for _, v := range [...]float64{r.Left, r.Top, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Offset is a translation from the top-left corner of the board, in pixels or
// in percent of the board size depending on the Translator that produced it.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PosToOffset returns the top-left corner of the square at p.
// With asWhite the first rank is at the bottom; otherwise the board is turned
// around. p is not checked against d.
func PosToOffset(p Pos, asWhite bool, scaleX, scaleY float64, d Dimensions) Offset {
	if asWhite {
		return Offset{
			X: float64(p.File-1) * scaleX,
			Y: float64(d.Height-p.Rank) * scaleY,
		}
	}
	return Offset{
		X: float64(d.Width-p.File) * scaleX,
		Y: float64(p.Rank-1) * scaleY,
	}
}

// Translator maps positions to offsets with precomputed scale factors.
type Translator struct {
	dims   Dimensions
	scaleX float64
	scaleY float64
}

// Absolute returns a Translator producing pixel offsets within bounds.
func Absolute(bounds Rect, d Dimensions) Translator {
	return Translator{
		dims:   d,
		scaleX: bounds.Width / float64(d.Width),
		scaleY: bounds.Height / float64(d.Height),
	}
}

// Relative returns a Translator producing offsets in percent of the board.
func Relative(d Dimensions) Translator {
	return Translator{
		dims:   d,
		scaleX: 100 / float64(d.Width),
		scaleY: 100 / float64(d.Height),
	}
}

// Offset returns the offset of the square at p.
func (t Translator) Offset(p Pos, asWhite bool) Offset {
	return PosToOffset(p, asWhite, t.scaleX, t.scaleY, t.dims)
}

// Scale returns the size of one square in the translator's units.
func (t Translator) Scale() (x, y float64) {
	return t.scaleX, t.scaleY
}

// Dimensions returns the board size the translator was built for.
func (t Translator) Dimensions() Dimensions {
	return t.dims
}

// SquareCenter returns the screen-space center of the square named by k.
func SquareCenter(k Key, asWhite bool, bounds Rect, d Dimensions) (Offset, error) {
	p, err := KeyToPos(k)
	if err != nil {
		return Offset{}, err
	}
	file := p.File - 1
	rank := p.Rank - 1
	if !asWhite {
		file = d.Width - 1 - file
		rank = d.Height - 1 - rank
	}
	w := float64(d.Width)
	h := float64(d.Height)
	return Offset{
		X: bounds.Left + bounds.Width*float64(file)/w + bounds.Width/(2*w),
		Y: bounds.Top + bounds.Height*float64(d.Height-1-rank)/h + bounds.Height/(2*h),
	}, nil
}

// KeyAt returns the key of the square of g under the point (x, y), or false
// if the point is off the board.
func KeyAt(x, y float64, asWhite bool, bounds Rect, g Geometry) (Key, bool) {
	d := g.Dimensions()
	if d.Width == 0 || bounds.Width <= 0 || bounds.Height <= 0 || !bounds.finite() {
		return NoKey, false
	}
	if !bounds.Contains(x, y) {
		return NoKey, false
	}
	file := int(math.Floor(float64(d.Width) * (x - bounds.Left) / bounds.Width))
	rank := d.Height - 1 - int(math.Floor(float64(d.Height)*(y-bounds.Top)/bounds.Height))
	if !asWhite {
		file = d.Width - 1 - file
		rank = d.Height - 1 - rank
	}
	p := Pos{File: file + 1, Rank: rank + 1}
	if !g.Contains(p) {
		return NoKey, false
	}
	return g.PosToKey(p), true
}
