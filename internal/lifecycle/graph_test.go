package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssociateChild_ReturnsChildForFluentUse(t *testing.T) {
	reg := New()
	pool := reg.Track("pool")

	conn, err := reg.AssociateChild(pool, reg.Track("conn"))
	require.NoError(t, err)

	assert.True(t, conn.Valid())
	assert.Equal(t, "conn", reg.Label(conn))
}

func TestAssociateChild_InvalidParentAfterMark(t *testing.T) {
	loop := newDiscardLoop()
	reg := New(WithScheduler(loop))

	p := reg.Track("p")
	c := reg.Track("c")
	reg.Destroy(p)
	require.True(t, reg.IsDestroying(p))

	_, err := reg.AssociateChild(p, c)

	require.Error(t, err)
	assert.True(t, IsInvalidParent(err))
}

func TestAssociateChild_DestroyedChildRejected(t *testing.T) {
	reg := New()
	p := reg.Track("p")
	c := reg.Track("c")
	reg.Destroy(c)
	require.True(t, reg.IsDestroyed(c))

	_, err := reg.AssociateChild(p, c)

	require.Error(t, err)
	assert.True(t, IsAlreadyDestroyed(err))
}

func TestAssociateChild_DestroyingChildAccepted(t *testing.T) {
	loop := newDiscardLoop()
	reg := New(WithScheduler(loop))

	p := reg.Track("p")
	c := reg.Track("c")
	reg.Destroy(c)
	require.True(t, reg.IsDestroying(c))
	require.False(t, reg.IsDestroyed(c))

	// A child already marked for teardown may still gain a parent; the
	// parent's later cascade will simply skip it.
	_, err := reg.AssociateChild(p, c)
	require.NoError(t, err)
}

func TestAssociateChild_InvalidHandles(t *testing.T) {
	reg := New()
	p := reg.Track("p")

	_, err := reg.AssociateChild(Handle{}, p)
	require.Error(t, err)
	var le *LifecycleError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeInvalidHandle, le.Code)

	_, err = reg.AssociateChild(p, Handle{})
	require.Error(t, err)
}

// newDiscardLoop returns a scheduler that swallows units, for tests that
// only care about Phase A.
func newDiscardLoop() Scheduler {
	return discardSched{}
}

type discardSched struct{}

func (discardSched) Defer(func() error) {}
