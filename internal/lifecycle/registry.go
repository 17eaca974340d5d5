package lifecycle

import (
	"fmt"
	"io"
	"log/slog"
)

// Handle identifies a tracked destroyable.
//
// Handles are stable indexes into the registry's record arena. They are
// cheap to copy, comparable, and valid for state queries for the life of
// the registry, including after the object is destroyed. The zero Handle is
// invalid.
type Handle struct {
	index int32
}

// Valid reports whether the handle names a record (it may still belong to a
// different registry; operations validate that too).
func (h Handle) Valid() bool {
	return h.index > 0
}

// destructorEntry is one (token, callback) registration. Insertion order is
// significant and preserved across unregistration.
type destructorEntry struct {
	token Token
	fn    DestructorFunc
}

// record is the per-handle lifecycle record.
//
// The payload fields (destructors, children, hook) are released when the
// record reaches Destroyed so tracking does not retain teardown resources
// past their use.
type record struct {
	label       string
	state       State
	destructors []destructorEntry
	children    []Handle
	hook        func() error
}

// PreTeardowner is the optional capability an object may expose to run
// setup-symmetric cleanup before its registered destructors. The registry
// checks for the capability at TrackObject time, not for any particular
// concrete type.
type PreTeardowner interface {
	PreTeardown() error
}

// Registry owns the lifecycle records for one universe of destroyables.
//
// It is an explicit, passed-around context object rather than a process
// singleton: construct one per engine (or per test case) with New, and drop
// or Reset it when done. All operations assume exclusive, sequential access
// from one logical thread of control; reentrant Destroy calls from inside a
// destructor are handled by the idempotence guard, not by locking.
type Registry struct {
	// records[0] is a reserved sentinel so the zero Handle stays invalid.
	records []record

	clock  *Clock
	tokens TokenGenerator
	sched  Scheduler
	rec    Recorder
	logger *slog.Logger

	// tearingDown is set while a Phase B walk is executing so nested
	// Destroy calls run both phases synchronously before returning.
	tearingDown bool

	// phaseErrs accumulates hook and destructor errors across one
	// outermost Phase B unit, nested cascades included.
	phaseErrs []error
}

// Scheduler is the cooperative work queue Phase B units are deferred onto.
// Implemented by sched.Loop. A nil scheduler makes Destroy run Phase B
// synchronously and immediately.
type Scheduler interface {
	Defer(unit func() error)
}

// Option configures a Registry.
type Option func(*Registry)

// WithScheduler sets the scheduler Phase B teardown is deferred onto.
func WithScheduler(s Scheduler) Option {
	return func(r *Registry) { r.sched = s }
}

// WithRecorder sets the recorder that receives lifecycle trace events.
func WithRecorder(rec Recorder) Option {
	return func(r *Registry) { r.rec = rec }
}

// WithTokenGenerator overrides the destructor token generator.
// Tests use a fixed generator for deterministic golden traces.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(r *Registry) { r.tokens = g }
}

// WithLogger sets the logger for teardown diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// New creates an empty registry.
//
// Defaults: UUIDv7 destructor tokens, no scheduler (synchronous Phase B),
// no recorder, discarded logs.
func New(opts ...Option) *Registry {
	r := &Registry{
		records: make([]record, 1, 64), // slot 0 reserved
		clock:   NewClock(),
		tokens:  UUIDv7TokenGenerator{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Track enters a new destroyable into the registry and returns its handle.
// The label is used in traces and leak diagnostics; if empty, a positional
// label is assigned.
func (r *Registry) Track(label string) Handle {
	return r.track(label, nil)
}

// TrackObject enters a new destroyable backed by a caller object. If obj
// implements PreTeardowner, its hook is invoked once at the start of the
// object's Phase B visit, before any registered destructors.
//
// The registry stores only the hook method value, never obj itself.
func (r *Registry) TrackObject(obj any, label string) Handle {
	var hook func() error
	if pt, ok := obj.(PreTeardowner); ok {
		hook = pt.PreTeardown
	}
	return r.track(label, hook)
}

func (r *Registry) track(label string, hook func() error) Handle {
	h := Handle{index: int32(len(r.records))}
	if label == "" {
		label = fmt.Sprintf("destroyable-%d", h.index)
	}
	r.records = append(r.records, record{label: label, hook: hook})
	r.emit(EventCreated, label, "")
	return h
}

// Len returns the number of tracked destroyables, in any state.
func (r *Registry) Len() int {
	return len(r.records) - 1
}

// Label returns the diagnostic label for a handle, or "" for an invalid
// handle.
func (r *Registry) Label(h Handle) string {
	rec, ok := r.lookup(h)
	if !ok {
		return ""
	}
	return rec.label
}

// State returns the lifecycle state for a handle. Invalid handles report
// StateInitialized; use Valid and the registration errors to catch misuse.
func (r *Registry) State(h Handle) State {
	rec, ok := r.lookup(h)
	if !ok {
		return StateInitialized
	}
	return rec.state
}

// IsDestroying reports whether the object has been marked for teardown.
// True from the moment Phase A visits the object, including after the
// object is fully destroyed.
func (r *Registry) IsDestroying(h Handle) bool {
	rec, ok := r.lookup(h)
	return ok && rec.state >= StateDestroying
}

// IsDestroyed reports whether the object has reached the terminal state:
// its hook and still-registered destructors have completed.
func (r *Registry) IsDestroyed(h Handle) bool {
	rec, ok := r.lookup(h)
	return ok && rec.state == StateDestroyed
}

// Reset drops every record, returning the registry to its initial state.
// Callers must flush the scheduler first; Reset does not cancel deferred
// teardown units. Intended for reuse between test cases.
func (r *Registry) Reset() {
	// Zero all slots so the retained backing array drops its payloads.
	for i := range r.records {
		r.records[i] = record{}
	}
	r.records = r.records[:1]
}

// lookup resolves a handle to its record.
func (r *Registry) lookup(h Handle) (*record, bool) {
	if !h.Valid() || int(h.index) >= len(r.records) {
		return nil, false
	}
	return &r.records[h.index], true
}

// emit stamps and publishes a trace event if a recorder is configured.
// The clock ticks even without a recorder so seq values stay comparable
// when a recorder is attached mid-run.
func (r *Registry) emit(kind EventKind, object, detail string) {
	seq := r.clock.Next()
	if r.rec == nil {
		return
	}
	r.rec.Record(Event{Seq: seq, Kind: kind, Object: object, Detail: detail})
}
