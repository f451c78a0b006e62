package memo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoComputesOnce(t *testing.T) {
	calls := 0
	m := New(func() int {
		calls++
		return 42
	})

	assert.False(t, m.Computed())
	assert.Equal(t, 0, calls, "producer must not run before Get")

	for i := 0; i < 5; i++ {
		assert.Equal(t, 42, m.Get())
	}
	assert.Equal(t, 1, calls)
	assert.True(t, m.Computed())
}

func TestMemoClear(t *testing.T) {
	calls := 0
	m := New(func() int {
		calls++
		return calls * 10
	})

	assert.Equal(t, 10, m.Get())
	m.Clear()
	assert.False(t, m.Computed())
	assert.True(t, m.Stale())

	assert.Equal(t, 20, m.Get())
	assert.Equal(t, 20, m.Get())
	assert.Equal(t, 2, calls)
	assert.False(t, m.Stale())
}

// TestMemoCachesZeroValue checks that a zero result is not mistaken for
// "not computed".
func TestMemoCachesZeroValue(t *testing.T) {
	calls := 0
	m := New(func() string {
		calls++
		return ""
	})

	assert.Equal(t, "", m.Get())
	assert.Equal(t, "", m.Get())
	assert.Equal(t, 1, calls)

	var nilSlice []int
	sliceCalls := 0
	ms := New(func() []int {
		sliceCalls++
		return nilSlice
	})
	assert.Nil(t, ms.Get())
	assert.Nil(t, ms.Get())
	assert.Equal(t, 1, sliceCalls)
}

func TestMemoClearBeforeGet(t *testing.T) {
	calls := 0
	m := New(func() bool {
		calls++
		return false
	})
	m.Clear()
	assert.False(t, m.Stale())
	assert.False(t, m.Get())
	assert.Equal(t, 1, calls)
}
