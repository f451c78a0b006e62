// Package probe implements a line-oriented query protocol over the board
// coordinate functions, for scripting and for checking renderers.
package probe

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hailam/chessgeom/internal/board"
	"github.com/hailam/chessgeom/internal/memo"
	"github.com/hailam/chessgeom/internal/timer"
)

// Probe answers coordinate queries for one board at a time.
type Probe struct {
	out io.Writer
	log zerolog.Logger

	geometry    board.Geometry
	orientation board.Color
	bounds      board.Rect

	// Rebuilt when the geometry or bounds change.
	absolute *memo.Memo[board.Translator]
	relative *memo.Memo[board.Translator]

	stopwatch *timer.Timer
}

// Option configures a Probe.
type Option func(*Probe)

// WithGeometry selects the initial geometry.
func WithGeometry(g board.Geometry) Option {
	return func(p *Probe) { p.geometry = g }
}

// WithOrientation selects the color shown at the bottom.
func WithOrientation(c board.Color) Option {
	return func(p *Probe) { p.orientation = c }
}

// WithBounds sets the initial board rectangle.
func WithBounds(r board.Rect) Option {
	return func(p *Probe) { p.bounds = r }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Probe) { p.log = l }
}

// WithTimer replaces the stopwatch used by the "time" command.
func WithTimer(t *timer.Timer) Option {
	return func(p *Probe) { p.stopwatch = t }
}

// New creates a probe writing responses to out.
func New(out io.Writer, opts ...Option) *Probe {
	p := &Probe{
		out:         out,
		log:         zerolog.Nop(),
		geometry:    board.Dim8x8,
		orientation: board.White,
		bounds:      board.Rect{Width: 800, Height: 800},
		stopwatch:   timer.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.absolute = memo.New(func() board.Translator {
		return board.Absolute(p.bounds, p.geometry.Dimensions())
	})
	p.relative = memo.New(func() board.Translator {
		return board.Relative(p.geometry.Dimensions())
	})
	return p
}

// Run reads commands from r until EOF or "quit".
func (p *Probe) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if parts[0] == "quit" {
			return nil
		}
		if err := p.Execute(parts[0], parts[1:]); err != nil {
			p.log.Debug().Err(err).Str("line", line).Msg("command failed")
			fmt.Fprintf(p.out, "error %v\n", err)
		}
	}

	return scanner.Err()
}

// Execute runs a single command.
func (p *Probe) Execute(cmd string, args []string) error {
	switch cmd {
	case "geometries":
		return p.handleGeometries()
	case "geometry":
		return p.handleGeometry(args)
	case "orient":
		return p.handleOrient(args)
	case "bounds":
		return p.handleBounds(args)
	case "key2pos":
		return p.handleKeyToPos(args)
	case "pos2key":
		return p.handlePosToKey(args)
	case "keys":
		return p.handleKeys()
	case "offset":
		return p.handleOffset(args)
	case "center":
		return p.handleCenter(args)
	case "keyat":
		return p.handleKeyAt(args)
	case "flip":
		return p.handleFlip(args)
	case "algebraic":
		return p.handleAlgebraic(args)
	case "parse":
		return p.handleParse(args)
	case "time":
		return p.handleTime(args)
	}
	return fmt.Errorf("unknown command: %s", cmd)
}

func (p *Probe) handleGeometries() error {
	names := make([]string, 0)
	for _, g := range board.Geometries() {
		names = append(names, g.String())
	}
	fmt.Fprintf(p.out, "geometries %s\n", strings.Join(names, " "))
	return nil
}

// handleGeometry reports or switches the geometry.
//   - geometry
//   - geometry 20x10
func (p *Probe) handleGeometry(args []string) error {
	if len(args) > 0 {
		g, err := board.ParseGeometry(args[0])
		if err != nil {
			return err
		}
		p.geometry = g
		p.absolute.Clear()
		p.relative.Clear()
	}
	fmt.Fprintf(p.out, "geometry %s files %s ranks %s\n", p.geometry, p.geometry.Files(), p.geometry.Ranks())
	return nil
}

func (p *Probe) handleOrient(args []string) error {
	if len(args) > 0 {
		c, err := board.ParseColor(args[0])
		if err != nil {
			return err
		}
		p.orientation = c
	}
	fmt.Fprintf(p.out, "orientation %s\n", p.orientation)
	return nil
}

// handleBounds reports or sets the board rectangle: bounds LEFT TOP WIDTH HEIGHT.
func (p *Probe) handleBounds(args []string) error {
	if len(args) > 0 {
		v, err := parseFloats(args, 4)
		if err != nil {
			return err
		}
		if v[2] < 0 || v[3] < 0 {
			return fmt.Errorf("bounds must have non-negative size")
		}
		p.bounds = board.Rect{Left: v[0], Top: v[1], Width: v[2], Height: v[3]}
		p.absolute.Clear()
	}
	b := p.bounds
	fmt.Fprintf(p.out, "bounds %s %s %s %s\n", num(b.Left), num(b.Top), num(b.Width), num(b.Height))
	return nil
}

func (p *Probe) handleKeyToPos(args []string) error {
	pos, err := p.keyArg(args)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "pos %d %d\n", pos.File, pos.Rank)
	return nil
}

func (p *Probe) handlePosToKey(args []string) error {
	pos, err := p.posArg(args)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "key %s\n", p.geometry.PosToKey(pos))
	return nil
}

func (p *Probe) handleKeys() error {
	keys := make([]string, 0, p.geometry.Dimensions().Squares())
	for k := range p.geometry.Keys() {
		keys = append(keys, string(k))
	}
	fmt.Fprintf(p.out, "keys %s\n", strings.Join(keys, " "))
	return nil
}

// handleOffset prints the top-left corner of a square: offset FILE RANK [abs|rel].
func (p *Probe) handleOffset(args []string) error {
	pos, err := p.posArg(args)
	if err != nil {
		return err
	}
	tr := p.absolute
	if len(args) > 2 {
		switch args[2] {
		case "abs":
		case "rel":
			tr = p.relative
		default:
			return fmt.Errorf("unknown offset mode: %s", args[2])
		}
	}
	o := tr.Get().Offset(pos, p.orientation == board.White)
	fmt.Fprintf(p.out, "offset %s %s\n", num(o.X), num(o.Y))
	return nil
}

func (p *Probe) handleCenter(args []string) error {
	if _, err := p.keyArg(args); err != nil {
		return err
	}
	c, err := board.SquareCenter(board.Key(args[0]), p.orientation == board.White, p.bounds, p.geometry.Dimensions())
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "center %s %s\n", num(c.X), num(c.Y))
	return nil
}

func (p *Probe) handleKeyAt(args []string) error {
	v, err := parseFloats(args, 2)
	if err != nil {
		return err
	}
	k, ok := board.KeyAt(v[0], v[1], p.orientation == board.White, p.bounds, p.geometry)
	if !ok {
		fmt.Fprintln(p.out, "key none")
		return nil
	}
	fmt.Fprintf(p.out, "key %s\n", k)
	return nil
}

func (p *Probe) handleFlip(args []string) error {
	pos, err := p.keyArg(args)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "key %s\n", p.geometry.PosToKey(board.Flip(pos, p.geometry.Dimensions())))
	return nil
}

func (p *Probe) handleAlgebraic(args []string) error {
	pos, err := p.keyArg(args)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "algebraic %s\n", pos.Algebraic())
	return nil
}

func (p *Probe) handleParse(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("missing square")
	}
	pos, err := board.ParseAlgebraic(args[0])
	if err != nil {
		return err
	}
	if !p.geometry.Contains(pos) {
		return fmt.Errorf("%s is not a square of %s", args[0], p.geometry)
	}
	fmt.Fprintf(p.out, "key %s\n", p.geometry.PosToKey(pos))
	return nil
}

// handleTime drives the stopwatch: time start|stop|cancel.
func (p *Probe) handleTime(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("missing time action")
	}
	switch args[0] {
	case "start":
		p.stopwatch.Start()
		fmt.Fprintln(p.out, "ok")
	case "cancel":
		p.stopwatch.Cancel()
		fmt.Fprintln(p.out, "ok")
	case "stop":
		fmt.Fprintf(p.out, "elapsed %s\n", num(timer.Millis(p.stopwatch.Stop())))
	default:
		return fmt.Errorf("unknown time action: %s", args[0])
	}
	return nil
}

func (p *Probe) keyArg(args []string) (board.Pos, error) {
	if len(args) < 1 {
		return board.Pos{}, fmt.Errorf("missing key")
	}
	return p.geometry.KeyToPos(board.Key(args[0]))
}

func (p *Probe) posArg(args []string) (board.Pos, error) {
	if len(args) < 2 {
		return board.Pos{}, fmt.Errorf("missing file and rank")
	}
	f, err := strconv.Atoi(args[0])
	if err != nil {
		return board.Pos{}, fmt.Errorf("invalid file: %s", args[0])
	}
	r, err := strconv.Atoi(args[1])
	if err != nil {
		return board.Pos{}, fmt.Errorf("invalid rank: %s", args[1])
	}
	pos := board.Pos{File: f, Rank: r}
	if !p.geometry.Contains(pos) {
		return board.Pos{}, fmt.Errorf("%v is not a square of %s", pos, p.geometry)
	}
	return pos, nil
}

func parseFloats(args []string, n int) ([]float64, error) {
	if len(args) < n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(args))
	}
	v := make([]float64, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(args[i], 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("invalid number: %s", args[i])
		}
		v[i] = f
	}
	return v, nil
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
