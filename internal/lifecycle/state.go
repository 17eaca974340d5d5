package lifecycle

// State is the lifecycle state of a tracked destroyable.
//
// Transitions are monotonic: Initialized -> Destroying -> Destroyed.
// No other transition is legal, and Destroyed is terminal.
type State int

const (
	// StateInitialized is the starting state: the object is live and may
	// accept destructor registrations and association edges.
	StateInitialized State = iota

	// StateDestroying means Phase A has marked the object for teardown.
	// Its destructors have not necessarily run yet.
	StateDestroying

	// StateDestroyed is terminal: the pre-teardown hook and all
	// still-registered destructors have completed and the record's payload
	// has been released.
	StateDestroyed
)

// String returns the lowercase state name used in traces and diagnostics.
func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateDestroying:
		return "destroying"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}
