// Package sched provides the cooperative work queue the lifecycle engine
// defers Phase B teardown onto.
//
// The model is single-threaded and cooperative: units are queued from the
// engine's logical thread and executed in FIFO order when the owner flushes
// the loop, typically at the end of the current turn of work. Nothing in
// this package starts goroutines.
package sched

import (
	"errors"
	"sync"
)

// Scheduler is the deferred-work capability consumed by the lifecycle
// registry.
type Scheduler interface {
	// Defer queues a unit of work to run at the next flush.
	Defer(unit func() error)
}

// Loop is an unbounded FIFO of deferred units.
//
// The queue is unbounded so cascading teardown can defer arbitrarily many
// units without blocking. Enqueuing is mutex-guarded for callers that queue
// from helper goroutines, but execution is strictly sequential: Flush must
// be called from exactly one goroutine at a time.
type Loop struct {
	mu    sync.Mutex
	units []func() error
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{
		units: make([]func() error, 0, 16),
	}
}

// Defer queues a unit at the back of the loop.
func (l *Loop) Defer(unit func() error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.units = append(l.units, unit)
}

// Pending returns the number of queued units.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.units)
}

// Flush runs queued units in FIFO order until the loop is empty, including
// units deferred by the units themselves. Unit errors do not stop the
// flush; they are collected and returned joined, so one failing teardown
// cannot strand later ones.
func (l *Loop) Flush() error {
	var errs []error
	for {
		unit, ok := l.pop()
		if !ok {
			return errors.Join(errs...)
		}
		if err := unit(); err != nil {
			errs = append(errs, err)
		}
	}
}

// pop removes and returns the front unit.
func (l *Loop) pop() (func() error, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.units) == 0 {
		return nil, false
	}
	unit := l.units[0]

	// Nil out the slot so the backing array releases the unit's captures.
	l.units[0] = nil
	if len(l.units) == 1 {
		l.units = l.units[:0]
	} else {
		l.units = l.units[1:]
	}
	return unit, true
}
