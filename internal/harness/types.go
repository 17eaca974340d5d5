package harness

// TraceEvent is one stamped entry in a scenario's teardown trace.
//
// It mirrors lifecycle.Event with one difference: for destructor events the
// Detail field carries the scenario's destructor name instead of the raw
// registration token, so traces and goldens read in scenario vocabulary.
type TraceEvent struct {
	Seq    int64  `json:"seq"`
	Kind   string `json:"kind"`
	Object string `json:"object"`
	Detail string `json:"detail,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success: all steps behaved and all
	// assertions matched.
	Pass bool `json:"pass"`

	// Trace contains every lifecycle event in seq order.
	Trace []TraceEvent `json:"trace"`

	// Destructors is the destructor invocation order by scenario name, a
	// convenient projection of Trace for order and count assertions.
	Destructors []string `json:"destructors"`

	// Errors contains step and assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:        true,
		Trace:       []TraceEvent{},
		Destructors: []string{},
		Errors:      []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}
