// Package timer provides a single-interval stopwatch.
package timer

import "time"

// Clock is a source of monotonic time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Timer measures one interval at a time. It is not safe for concurrent use.
type Timer struct {
	clock   Clock
	startAt time.Time
	running bool
}

// New returns a Timer backed by the system monotonic clock.
func New() *Timer {
	return &Timer{clock: systemClock{}}
}

// NewWithClock returns a Timer reading time from c.
func NewWithClock(c Clock) *Timer {
	return &Timer{clock: c}
}

// Start begins a new interval, discarding any interval in progress.
func (t *Timer) Start() {
	t.startAt = t.clock.Now()
	t.running = true
}

// Cancel discards the interval in progress.
func (t *Timer) Cancel() {
	t.running = false
}

// Stop ends the interval and returns its length. Millis(t.Stop()) gives the
// elapsed time in milliseconds. It returns 0 if no interval is in progress.
func (t *Timer) Stop() time.Duration {
	if !t.running {
		return 0
	}
	t.running = false
	elapsed := t.clock.Now().Sub(t.startAt)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Running reports whether an interval is in progress.
func (t *Timer) Running() bool {
	return t.running
}

// Millis converts a duration to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
