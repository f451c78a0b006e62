package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chessgeom/internal/board"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
)

// Preferences stores how the board is shown.
type Preferences struct {
	Geometry        board.Geometry `json:"geometry"`
	Orientation     board.Color    `json:"orientation"`
	Relative        bool           `json:"relative"`
	ShowCoordinates bool           `json:"show_coordinates"`
	LastOpened      time.Time      `json:"last_opened"`
}

// DefaultPreferences returns default board preferences.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Geometry:        board.Dim8x8,
		Orientation:     board.White,
		ShowCoordinates: true,
		LastOpened:      time.Now(),
	}
}

// InteractionStats aggregates pointer interactions with the board.
type InteractionStats struct {
	Clicks       int                    `json:"clicks"`
	Drags        int                    `json:"drags"`
	Cancelled    int                    `json:"cancelled"`
	TotalHold    time.Duration          `json:"total_hold"`
	LongestHold  time.Duration          `json:"longest_hold"`
	DragsByShape map[board.Geometry]int `json:"drags_by_shape"`
	LastMove     *InteractionRecord     `json:"last_move,omitempty"`
}

// NewInteractionStats returns empty statistics.
func NewInteractionStats() *InteractionStats {
	return &InteractionStats{
		DragsByShape: make(map[board.Geometry]int),
	}
}

// InteractionRecord is one completed press/release on the board.
type InteractionRecord struct {
	Geometry board.Geometry `json:"geometry"`
	From     board.Key      `json:"from"`
	To       board.Key      `json:"to"`
	Hold     time.Duration  `json:"hold"`
}

// IsDrag reports whether the pointer was released on another square.
func (r InteractionRecord) IsDrag() bool {
	return r.From != r.To && r.To != board.NoKey
}

// AverageHold returns the mean press duration over clicks and drags.
func (s *InteractionStats) AverageHold() time.Duration {
	n := s.Clicks + s.Drags
	if n == 0 {
		return 0
	}
	return s.TotalHold / time.Duration(n)
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database under dataDir, or under the platform data
// directory when dataDir is empty.
func NewStorage(dataDir string) (*Storage, error) {
	dbDir, err := GetDatabaseDir(dataDir)
	if err != nil {
		return nil, err
	}
	return open(badger.DefaultOptions(dbDir))
}

// NewMemoryStorage opens a database that lives only in memory.
func NewMemoryStorage() (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Storage, error) {
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves board preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	if !prefs.Geometry.IsValid() {
		return fmt.Errorf("save preferences: unknown geometry %d", prefs.Geometry)
	}
	prefs.LastOpened = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads board preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	return s.LoadPreferencesOr(DefaultPreferences())
}

// LoadPreferencesOr loads board preferences, returning a copy of defaults if
// none were saved. defaults is not modified.
func (s *Storage) LoadPreferencesOr(defaults *Preferences) (*Preferences, error) {
	prefs := *defaults
	if err := s.get(keyPreferences, &prefs); err != nil {
		fallback := *defaults
		return &fallback, err
	}
	return &prefs, nil
}

// SaveStats saves interaction statistics
func (s *Storage) SaveStats(stats *InteractionStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads interaction statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*InteractionStats, error) {
	stats := NewInteractionStats()
	if err := s.get(keyStats, stats); err != nil {
		return NewInteractionStats(), err
	}
	if stats.DragsByShape == nil {
		stats.DragsByShape = make(map[board.Geometry]int)
	}
	return stats, nil
}

// RecordInteraction records a completed press/release and updates statistics
func (s *Storage) RecordInteraction(rec InteractionRecord) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.TotalHold += rec.Hold
	if rec.Hold > stats.LongestHold {
		stats.LongestHold = rec.Hold
	}

	if rec.IsDrag() {
		stats.Drags++
		stats.DragsByShape[rec.Geometry]++
		stats.LastMove = &rec
	} else {
		stats.Clicks++
	}

	return s.SaveStats(stats)
}

// RecordCancel counts a press that was abandoned off the board.
func (s *Storage) RecordCancel() error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}
	stats.Cancelled++
	return s.SaveStats(stats)
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (s *Storage) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Keep defaults
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}
