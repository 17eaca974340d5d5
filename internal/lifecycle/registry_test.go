package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_TrackAssignsDistinctHandles(t *testing.T) {
	reg := New()

	a := reg.Track("a")
	b := reg.Track("b")

	assert.True(t, a.Valid())
	assert.True(t, b.Valid())
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, "a", reg.Label(a))
	assert.Equal(t, "b", reg.Label(b))
}

func TestRegistry_TrackDefaultLabel(t *testing.T) {
	reg := New()

	h := reg.Track("")

	assert.Equal(t, "destroyable-1", reg.Label(h))
}

func TestRegistry_ZeroHandleInvalid(t *testing.T) {
	reg := New()

	var zero Handle
	assert.False(t, zero.Valid())
	assert.False(t, reg.IsDestroying(zero))
	assert.False(t, reg.IsDestroyed(zero))
	assert.Equal(t, "", reg.Label(zero))
}

func TestRegistry_InitialState(t *testing.T) {
	reg := New()
	h := reg.Track("x")

	assert.Equal(t, StateInitialized, reg.State(h))
	assert.False(t, reg.IsDestroying(h))
	assert.False(t, reg.IsDestroyed(h))
}

func TestRegistry_Reset(t *testing.T) {
	reg := New()
	h := reg.Track("x")
	_, err := reg.RegisterDestructor(h, func(Handle) error { return nil })
	require.NoError(t, err)

	reg.Reset()

	assert.Equal(t, 0, reg.Len())
	assert.NoError(t, reg.AssertAllDestroyed())
	// Stale handles stop resolving after a reset.
	assert.False(t, reg.IsDestroying(h))
	assert.Equal(t, "", reg.Label(h))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "initialized", StateInitialized.String())
	assert.Equal(t, "destroying", StateDestroying.String())
	assert.Equal(t, "destroyed", StateDestroyed.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestClock_Monotonic(t *testing.T) {
	c := NewClock()

	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())
}
