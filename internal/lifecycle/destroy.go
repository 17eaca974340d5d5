package lifecycle

import (
	"errors"
	"fmt"
)

// Destroy tears down h and every destroyable reachable from it through the
// association graph, exactly once each.
//
// The call is a no-op unless h is Initialized, which makes Destroy safe to
// call repeatedly and safe to call on an object already mid-cascade from an
// ancestor.
//
// Phase A runs before Destroy returns: the full transitive closure is
// marked Destroying, so IsDestroying is observably true for the whole
// subtree within the calling turn. Phase B — hooks, destructors, and the
// transition to Destroyed — is deferred as a single unit onto the
// configured scheduler; with no scheduler it runs synchronously and
// immediately.
//
// When Destroy is called from inside a destructor, both phases of the
// nested cascade complete before control returns to that destructor, and
// the outer walk's idempotence guard skips any overlap.
func (r *Registry) Destroy(h Handle) {
	rec, ok := r.lookup(h)
	if !ok || rec.state != StateInitialized {
		return
	}

	order := r.markSubtree(h)

	if r.tearingDown {
		// Nested cascade: already inside a Phase B walk, so run to
		// completion now. Errors join the enclosing unit's error.
		r.teardown(order)
		return
	}

	unit := func() error {
		r.tearingDown = true
		r.phaseErrs = nil
		defer func() { r.tearingDown = false }()
		r.teardown(order)
		return errors.Join(r.phaseErrs...)
	}

	if r.sched != nil {
		r.sched.Defer(unit)
		return
	}

	// No scheduler context: teardown runs synchronously, immediately.
	if err := unit(); err != nil {
		r.logger.Error("teardown finished with errors", "root", r.Label(h), "error", err)
	}
}

// markSubtree is Phase A: an iterative pre-order DFS that flips every
// Initialized node in the cascade to Destroying and returns the visit
// order for Phase B.
//
// The order is parent before children with siblings in association order.
// A node reachable through multiple parents is taken by whichever traversal
// path reaches it first; later paths see Destroying and skip it. Phase A is
// pure state mutation over already-validated edges and cannot fail.
func (r *Registry) markSubtree(root Handle) []Handle {
	order := make([]Handle, 0, 8)
	stack := []Handle{root}

	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		rec, ok := r.lookup(h)
		if !ok || rec.state != StateInitialized {
			continue
		}
		rec.state = StateDestroying
		r.emit(EventMarked, rec.label, "")
		order = append(order, h)

		// Push children reversed so the earliest edge pops first.
		for i := len(rec.children) - 1; i >= 0; i-- {
			stack = append(stack, rec.children[i])
		}
	}
	return order
}

// teardown is Phase B: visits the marked nodes in cascade order. Nodes a
// nested cascade has already finished are skipped by the state guard.
func (r *Registry) teardown(order []Handle) {
	for _, h := range order {
		r.visit(h)
	}
}

// visit tears down a single node: pre-teardown hook, then still-registered
// destructors in registration order, then the terminal transition. A hook
// error aborts the node's destructors; either way the node ends Destroyed
// and its payload is released, and the walk continues with the next node.
func (r *Registry) visit(h Handle) {
	rec, ok := r.lookup(h)
	if !ok || rec.state != StateDestroying {
		return
	}
	label := rec.label
	hook := rec.hook

	aborted := false
	if hook != nil {
		r.emit(EventHook, label, "")
		if err := hook(); err != nil {
			r.emit(EventDestructorError, label, err.Error())
			r.phaseErrs = append(r.phaseErrs, fmt.Errorf("pre-teardown %s: %w", label, err))
			aborted = true
		}
	}
	if !aborted {
		if err := r.runDestructors(h); err != nil {
			r.phaseErrs = append(r.phaseErrs, fmt.Errorf("destructor %s: %w", label, err))
		}
	}

	// Callbacks may have grown the arena; re-resolve before mutating.
	rec, ok = r.lookup(h)
	if !ok {
		return
	}
	rec.state = StateDestroyed
	rec.destructors = nil
	rec.children = nil
	rec.hook = nil
	r.emit(EventDestroyed, label, "")
}
