package lifecycle

import "sync/atomic"

// Clock is the monotonic logical clock stamping lifecycle events.
//
// All observable transitions (marked, hook, destructor, destroyed) are
// stamped with a strictly increasing seq number from this clock. This
// ensures:
// - Deterministic ordering (no wall-clock race conditions)
// - Trace reads replay in the exact order teardown executed
// - Golden comparisons are byte-stable across runs
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// though the registry's single-threaded model means only one logical
// thread typically calls Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0. The first Next() returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
// Each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
