package harness

import (
	"fmt"

	"github.com/roach88/unmake/internal/lifecycle"
	"github.com/roach88/unmake/internal/sched"
	"github.com/roach88/unmake/internal/testutil"
)

// Harness executes one scenario against a fresh registry.
//
// Determinism: tokens come from a FixedTokenGenerator, seq numbers from the
// registry's logical clock, and the scheduler is a private loop flushed
// only by explicit flush steps. The same scenario always produces an
// identical trace.
type Harness struct {
	reg     *lifecycle.Registry
	loop    *sched.Loop
	handles map[string]lifecycle.Handle

	// tokens maps "object/destructor" to the registration token, for
	// unregister steps.
	tokens map[string]lifecycle.Token

	// names maps registration tokens back to scenario destructor names,
	// for trace translation.
	names map[lifecycle.Token]string
}

// hooked is the object the harness tracks for pre_teardown declarations.
// Its hook does nothing; the engine's trace event is the observable.
type hooked struct{}

func (hooked) PreTeardown() error { return nil }

// teeRecorder fans one event stream out to multiple recorders.
type teeRecorder []lifecycle.Recorder

func (t teeRecorder) Record(ev lifecycle.Event) {
	for _, r := range t {
		r.Record(ev)
	}
}

// Run executes a scenario and returns its result.
//
// Setup failures (bad edges, registration on destroyed objects) are
// returned as errors; step and assertion failures are recorded in the
// result instead.
func Run(scenario *Scenario) (*Result, error) {
	return RunRecorded(scenario, nil)
}

// RunRecorded executes a scenario like Run while teeing every engine event
// into extra as well. The CLI uses this to persist a durable trace
// alongside the in-memory result.
func RunRecorded(scenario *Scenario, extra lifecycle.Recorder) (*Result, error) {
	h := &Harness{
		loop:    sched.NewLoop(),
		handles: make(map[string]lifecycle.Handle),
		tokens:  make(map[string]lifecycle.Token),
		names:   make(map[lifecycle.Token]string),
	}

	rec := testutil.NewTraceRecorder()
	var engineRec lifecycle.Recorder = rec
	if extra != nil {
		engineRec = teeRecorder{rec, extra}
	}
	h.reg = lifecycle.New(
		lifecycle.WithScheduler(h.loop),
		lifecycle.WithRecorder(engineRec),
		lifecycle.WithTokenGenerator(testutil.NewFixedTokenGenerator()),
	)

	if err := h.setup(scenario); err != nil {
		return nil, err
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(step, result); err != nil {
			return nil, fmt.Errorf("step[%d]: %w", i, err)
		}
	}

	h.buildTrace(rec.Events(), result)
	evaluateAssertions(result, scenario, h)
	return result, nil
}

// setup tracks objects, registers destructors, and wires edges, all in
// declaration order.
func (h *Harness) setup(scenario *Scenario) error {
	for _, obj := range scenario.Objects {
		var handle lifecycle.Handle
		if obj.PreTeardown {
			handle = h.reg.TrackObject(hooked{}, obj.ID)
		} else {
			handle = h.reg.Track(obj.ID)
		}
		h.handles[obj.ID] = handle

		for _, name := range obj.Destructors {
			tok, err := h.reg.RegisterDestructor(handle, func(lifecycle.Handle) error {
				return nil
			})
			if err != nil {
				return fmt.Errorf("register %s/%s: %w", obj.ID, name, err)
			}
			h.tokens[obj.ID+"/"+name] = tok
			h.names[tok] = name
		}
	}

	for _, e := range scenario.Edges {
		if _, err := h.reg.AssociateChild(h.handles[e.Parent], h.handles[e.Child]); err != nil {
			return fmt.Errorf("associate %s -> %s: %w", e.Parent, e.Child, err)
		}
	}

	return nil
}

// executeStep runs one scenario step. Expected-behavior violations go into
// the result; only malformed steps return an error.
func (h *Harness) executeStep(step Step, result *Result) error {
	switch {
	case step.Destroy != "":
		h.reg.Destroy(h.handles[step.Destroy])
	case step.Flush:
		if err := h.loop.Flush(); err != nil {
			result.AddError(fmt.Sprintf("flush: %v", err))
		}
	case step.Unregister != nil:
		key := step.Unregister.Object + "/" + step.Unregister.Destructor
		tok, ok := h.tokens[key]
		if !ok {
			return fmt.Errorf("unregister: unknown destructor %s", key)
		}
		h.reg.UnregisterDestructor(h.handles[step.Unregister.Object], tok)
	case step.ExpectLeak:
		err := h.reg.AssertAllDestroyed()
		if err == nil {
			result.AddError("expect_leak: audit passed but a leak was expected")
		} else if !lifecycle.IsLeak(err) {
			result.AddError(fmt.Sprintf("expect_leak: audit failed with a non-leak error: %v", err))
		}
	default:
		return fmt.Errorf("empty step")
	}
	return nil
}

// buildTrace translates engine events into the result trace, resolving
// destructor tokens to scenario names.
func (h *Harness) buildTrace(events []lifecycle.Event, result *Result) {
	for _, ev := range events {
		detail := ev.Detail
		if ev.Kind == lifecycle.EventDestructor {
			if name, ok := h.names[lifecycle.Token(ev.Detail)]; ok {
				detail = name
			}
			result.Destructors = append(result.Destructors, detail)
		}
		result.Trace = append(result.Trace, TraceEvent{
			Seq:    ev.Seq,
			Kind:   string(ev.Kind),
			Object: ev.Object,
			Detail: detail,
		})
	}
}
