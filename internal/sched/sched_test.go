package sched

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_FlushRunsUnitsFIFO(t *testing.T) {
	loop := NewLoop()

	var ran []string
	loop.Defer(func() error { ran = append(ran, "a"); return nil })
	loop.Defer(func() error { ran = append(ran, "b"); return nil })
	loop.Defer(func() error { ran = append(ran, "c"); return nil })

	require.Equal(t, 3, loop.Pending())
	require.NoError(t, loop.Flush())

	assert.Equal(t, []string{"a", "b", "c"}, ran)
	assert.Equal(t, 0, loop.Pending())
}

func TestLoop_FlushDrainsUnitsDeferredDuringFlush(t *testing.T) {
	loop := NewLoop()

	var ran []string
	loop.Defer(func() error {
		ran = append(ran, "outer")
		loop.Defer(func() error { ran = append(ran, "inner"); return nil })
		return nil
	})

	require.NoError(t, loop.Flush())
	assert.Equal(t, []string{"outer", "inner"}, ran)
}

func TestLoop_FlushCollectsAllErrors(t *testing.T) {
	loop := NewLoop()

	err1 := errors.New("first")
	err2 := errors.New("second")
	var ran []string
	loop.Defer(func() error { return err1 })
	loop.Defer(func() error { ran = append(ran, "middle"); return nil })
	loop.Defer(func() error { return err2 })

	err := loop.Flush()

	// A failing unit does not stop the flush.
	assert.Equal(t, []string{"middle"}, ran)
	require.Error(t, err)
	assert.ErrorIs(t, err, err1)
	assert.ErrorIs(t, err, err2)
}

func TestLoop_FlushEmptyIsNil(t *testing.T) {
	loop := NewLoop()
	assert.NoError(t, loop.Flush())
	assert.NoError(t, loop.Flush())
}
