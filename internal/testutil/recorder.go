package testutil

import "github.com/roach88/unmake/internal/lifecycle"

// TraceRecorder collects lifecycle events in memory, in emission order.
//
// Intended for tests and the conformance harness: attach with
// lifecycle.WithRecorder, run the scenario, then assert over Events().
type TraceRecorder struct {
	events []lifecycle.Event
}

// NewTraceRecorder creates an empty recorder.
func NewTraceRecorder() *TraceRecorder {
	return &TraceRecorder{events: make([]lifecycle.Event, 0, 32)}
}

// Record implements lifecycle.Recorder.
func (r *TraceRecorder) Record(ev lifecycle.Event) {
	r.events = append(r.events, ev)
}

// Events returns the collected events in emission order.
func (r *TraceRecorder) Events() []lifecycle.Event {
	return r.events
}

// Kinds returns the sequence of event kinds, a compact shape for order
// assertions.
func (r *TraceRecorder) Kinds() []lifecycle.EventKind {
	kinds := make([]lifecycle.EventKind, len(r.events))
	for i, ev := range r.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

// ByKind returns the events of one kind, in emission order.
func (r *TraceRecorder) ByKind(kind lifecycle.EventKind) []lifecycle.Event {
	var out []lifecycle.Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// Reset drops all collected events.
func (r *TraceRecorder) Reset() {
	r.events = r.events[:0]
}
