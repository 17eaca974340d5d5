package lifecycle

// EventKind identifies a lifecycle trace event.
type EventKind string

const (
	// EventCreated records that a destroyable entered tracking.
	EventCreated EventKind = "created"

	// EventAssociated records a new parent->child edge. Detail carries the
	// child's label.
	EventAssociated EventKind = "associated"

	// EventMarked records a Phase A transition to Destroying.
	EventMarked EventKind = "marked"

	// EventHook records the invocation of an object's pre-teardown hook.
	EventHook EventKind = "hook"

	// EventDestructor records a single destructor invocation. Detail
	// carries the destructor's registration token.
	EventDestructor EventKind = "destructor"

	// EventDestructorError records a destructor or hook that returned an
	// error. Detail carries the error text.
	EventDestructorError EventKind = "destructor_error"

	// EventDestroyed records a Phase B transition to the terminal state.
	EventDestroyed EventKind = "destroyed"
)

// Event is a single stamped lifecycle transition.
//
// Seq values come from the registry's logical clock and totally order all
// events emitted by one registry. Object is the destroyable's label; Detail
// is kind-specific (see the EventKind constants) and empty otherwise.
type Event struct {
	Seq    int64     `json:"seq"`
	Kind   EventKind `json:"kind"`
	Object string    `json:"object"`
	Detail string    `json:"detail,omitempty"`
}

// Recorder receives lifecycle events as they happen.
//
// Implementations must not call back into the registry; they are invoked
// synchronously on the registry's logical thread. The trace store and the
// conformance harness both implement Recorder.
type Recorder interface {
	Record(ev Event)
}
