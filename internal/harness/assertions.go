package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/unmake/internal/lifecycle"
)

// AssertionError is recorded when an assertion fails.
// It includes the destructor trace to help debug ordering failures.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for i, event := range e.Trace {
		if event.Detail != "" {
			fmt.Fprintf(&buf, "  [%d] %s %s %s\n", i+1, event.Kind, event.Object, event.Detail)
		} else {
			fmt.Fprintf(&buf, "  [%d] %s %s\n", i+1, event.Kind, event.Object)
		}
	}

	return buf.String()
}

// evaluateAssertions checks every scenario assertion against the result and
// final registry state, recording failures in the result.
func evaluateAssertions(result *Result, scenario *Scenario, h *Harness) {
	for i, assertion := range scenario.Assertions {
		var err error

		switch assertion.Type {
		case AssertTeardownOrder:
			err = assertTeardownOrder(result, assertion)
		case AssertTeardownCount:
			err = assertTeardownCount(result, assertion)
		case AssertDestroyed:
			err = assertObjectStates(result, assertion, h, "destroyed", h.reg.IsDestroyed)
		case AssertDestroying:
			err = assertObjectStates(result, assertion, h, "destroying", h.reg.IsDestroying)
		case AssertNoLeaks:
			err = assertNoLeaks(result, h)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			result.AddError(err.Error())
		}
	}
}

// assertTeardownOrder checks that the destructor invocation sequence
// matches exactly - same names, same order, nothing extra. This is
// deliberately stricter than a subsequence match: teardown order is the
// engine's core guarantee.
func assertTeardownOrder(result *Result, assertion Assertion) error {
	actual := result.Destructors
	if len(actual) != len(assertion.Destructors) {
		return &AssertionError{
			Type:     AssertTeardownOrder,
			Expected: fmt.Sprintf("exactly [%s]", strings.Join(assertion.Destructors, ", ")),
			Actual:   fmt.Sprintf("[%s]", strings.Join(actual, ", ")),
			Trace:    result.Trace,
		}
	}
	for i, want := range assertion.Destructors {
		if actual[i] != want {
			return &AssertionError{
				Type:     AssertTeardownOrder,
				Expected: fmt.Sprintf("%s at position %d", want, i+1),
				Actual:   fmt.Sprintf("%s (full order [%s])", actual[i], strings.Join(actual, ", ")),
				Trace:    result.Trace,
			}
		}
	}
	return nil
}

// assertTeardownCount checks that the named destructor ran exactly Count
// times. Count 1 asserts exactly-once; count 0 asserts an unregistered
// destructor never ran.
func assertTeardownCount(result *Result, assertion Assertion) error {
	count := 0
	for _, name := range result.Destructors {
		if name == assertion.Destructor {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTeardownCount,
			Expected: fmt.Sprintf("%d invocation(s) of %s", assertion.Count, assertion.Destructor),
			Actual:   fmt.Sprintf("%d invocation(s)", count),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertObjectStates checks a state predicate for every listed object.
func assertObjectStates(result *Result, assertion Assertion, h *Harness, want string, pred func(lifecycle.Handle) bool) error {
	for _, id := range assertion.Objects {
		handle, ok := h.handles[id]
		if !ok {
			return fmt.Errorf("%s assertion references unknown object %q", want, id)
		}
		if !pred(handle) {
			return &AssertionError{
				Type:     want,
				Expected: fmt.Sprintf("%s is %s", id, want),
				Actual:   fmt.Sprintf("%s is %s", id, h.reg.State(handle)),
				Trace:    result.Trace,
			}
		}
	}
	return nil
}

// assertNoLeaks checks that the leak audit passes.
func assertNoLeaks(result *Result, h *Harness) error {
	if err := h.reg.AssertAllDestroyed(); err != nil {
		return &AssertionError{
			Type:     AssertNoLeaks,
			Expected: "all destroyables destroyed",
			Actual:   err.Error(),
			Trace:    result.Trace,
		}
	}
	return nil
}
