// Package httpapi serves the board coordinate functions as a JSON API.
//
// Routes:
//   - GET /health
//   - GET /geometries
//   - GET /geometries/{geometry}/keys
//   - GET /geometries/{geometry}/squares/{key}
//   - GET /geometries/{geometry}/offset?file=&rank=&orientation=&mode=abs|rel&width=&height=
//   - GET /geometries/{geometry}/center?key=&orientation=&left=&top=&width=&height=
//   - GET /geometries/{geometry}/keyat?x=&y=&orientation=&left=&top=&width=&height=
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chessgeom/internal/board"
)

// Server bundles the router and its defaults.
type Server struct {
	r *chi.Mux
}

// New constructs a Server and registers routes.
func New() *Server {
	s := &Server{r: chi.NewRouter()}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(5 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(requestLogger)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/geometries", s.handleGeometries)

	s.r.Route("/geometries/{geometry}", func(r chi.Router) {
		r.Use(withGeometry)
		r.Get("/keys", s.handleKeys)
		r.Get("/squares/{key}", s.handleSquare)
		r.Get("/offset", s.handleOffset)
		r.Get("/center", s.handleCenter)
		r.Get("/keyat", s.handleKeyAt)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler { return s.r }

// Start serves HTTP on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http api listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ----------------------------- middleware ----------------------------------

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

type ctxGeometryKey struct{}

// withGeometry resolves the {geometry} URL parameter.
func withGeometry(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g, err := board.ParseGeometry(chi.URLParam(r, "geometry"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), ctxGeometryKey{}, g)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func geometryFrom(r *http.Request) board.Geometry {
	g, _ := r.Context().Value(ctxGeometryKey{}).(board.Geometry)
	return g
}

// ------------------------------ handlers -----------------------------------

type geometryRes struct {
	Name       string           `json:"name"`
	Dimensions board.Dimensions `json:"dimensions"`
	Files      string           `json:"files"`
	Ranks      string           `json:"ranks"`
}

func (s *Server) handleGeometries(w http.ResponseWriter, r *http.Request) {
	res := make([]geometryRes, 0)
	for _, g := range board.Geometries() {
		res = append(res, geometryRes{
			Name:       g.String(),
			Dimensions: g.Dimensions(),
			Files:      g.Files(),
			Ranks:      g.Ranks(),
		})
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]board.Key{"keys": geometryFrom(r).AllKeys()})
}

type squareRes struct {
	Key       board.Key `json:"key"`
	Pos       board.Pos `json:"pos"`
	Algebraic string    `json:"algebraic"`
	Flipped   board.Key `json:"flipped"`
}

func (s *Server) handleSquare(w http.ResponseWriter, r *http.Request) {
	g := geometryFrom(r)
	key := board.Key(chi.URLParam(r, "key"))
	pos, err := g.KeyToPos(key)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, squareRes{
		Key:       key,
		Pos:       pos,
		Algebraic: pos.Algebraic(),
		Flipped:   g.PosToKey(board.Flip(pos, g.Dimensions())),
	})
}

func (s *Server) handleOffset(w http.ResponseWriter, r *http.Request) {
	g := geometryFrom(r)
	q := query{r: r}
	pos := board.Pos{File: q.intParam("file", 0), Rank: q.intParam("rank", 0)}
	asWhite := q.asWhite()
	mode := r.URL.Query().Get("mode")
	bounds := q.rect()
	if q.err != nil {
		writeError(w, http.StatusBadRequest, q.err.Error())
		return
	}
	if !g.Contains(pos) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%v is not a square of %s", pos, g))
		return
	}

	var tr board.Translator
	switch mode {
	case "", "abs":
		tr = board.Absolute(bounds, g.Dimensions())
	case "rel":
		tr = board.Relative(g.Dimensions())
	default:
		writeError(w, http.StatusBadRequest, "unknown mode: "+mode)
		return
	}
	writeJSON(w, http.StatusOK, tr.Offset(pos, asWhite))
}

func (s *Server) handleCenter(w http.ResponseWriter, r *http.Request) {
	g := geometryFrom(r)
	q := query{r: r}
	key := board.Key(r.URL.Query().Get("key"))
	asWhite := q.asWhite()
	bounds := q.rect()
	if q.err != nil {
		writeError(w, http.StatusBadRequest, q.err.Error())
		return
	}
	if _, err := g.KeyToPos(key); err != nil {
		writeDecodeError(w, err)
		return
	}

	c, err := board.SquareCenter(key, asWhite, bounds, g.Dimensions())
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleKeyAt(w http.ResponseWriter, r *http.Request) {
	g := geometryFrom(r)
	q := query{r: r}
	x := q.floatParam("x", 0)
	y := q.floatParam("y", 0)
	asWhite := q.asWhite()
	bounds := q.rect()
	if q.err != nil {
		writeError(w, http.StatusBadRequest, q.err.Error())
		return
	}

	k, ok := board.KeyAt(x, y, asWhite, bounds, g)
	if !ok {
		writeError(w, http.StatusNotFound, "off_board")
		return
	}
	writeJSON(w, http.StatusOK, map[string]board.Key{"key": k})
}

// ------------------------------- small util --------------------------------

// query parses query parameters, keeping the first error.
type query struct {
	r   *http.Request
	err error
}

func (q *query) floatParam(name string, def float64) float64 {
	v := q.r.URL.Query().Get(name)
	if v == "" || q.err != nil {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		q.err = fmt.Errorf("invalid %s: %q", name, v)
		return def
	}
	return f
}

func (q *query) intParam(name string, def int) int {
	v := q.r.URL.Query().Get(name)
	if v == "" || q.err != nil {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		q.err = fmt.Errorf("invalid %s: %q", name, v)
		return def
	}
	return n
}

func (q *query) asWhite() bool {
	v := q.r.URL.Query().Get("orientation")
	if v == "" || q.err != nil {
		return true
	}
	c, err := board.ParseColor(v)
	if err != nil {
		q.err = err
		return true
	}
	return c == board.White
}

// rect reads left/top/width/height, defaulting to an 800x800 board at the origin.
func (q *query) rect() board.Rect {
	r := board.Rect{
		Left:   q.floatParam("left", 0),
		Top:    q.floatParam("top", 0),
		Width:  q.floatParam("width", 800),
		Height: q.floatParam("height", 800),
	}
	if q.err == nil && (r.Width < 0 || r.Height < 0) {
		q.err = errors.New("bounds must have non-negative size")
	}
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal"}` + "\n"))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, board.ErrOutOfBounds) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
