// Package memo provides a lazily computed, resettable value.
package memo

type state uint8

const (
	uncomputed state = iota
	computed
	stale
)

// Memo caches the result of a producer function until cleared.
// A Memo is owned by a single goroutine.
type Memo[T any] struct {
	produce func() T
	value   T
	state   state
}

// New returns a Memo over produce. produce is not called until Get.
func New[T any](produce func() T) *Memo[T] {
	return &Memo[T]{produce: produce}
}

// Get returns the cached value, computing it first if needed.
// Zero values are cached like any other result.
func (m *Memo[T]) Get() T {
	if m.state != computed {
		m.value = m.produce()
		m.state = computed
	}
	return m.value
}

// Clear drops the cached value so the next Get recomputes it.
func (m *Memo[T]) Clear() {
	var zero T
	m.value = zero
	if m.state == computed {
		m.state = stale
	}
}

// Computed reports whether Get would return a cached value.
func (m *Memo[T]) Computed() bool {
	return m.state == computed
}

// Stale reports whether the value was computed and has since been cleared.
func (m *Memo[T]) Stale() bool {
	return m.state == stale
}
