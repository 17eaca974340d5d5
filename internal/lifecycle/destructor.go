package lifecycle

// DestructorFunc is a registered cleanup callback. It receives the handle
// of the object being torn down and is invoked exactly once, during Phase
// B, after the object's optional pre-teardown hook.
//
// A returned error aborts the remaining destructors of that object only;
// teardown of the rest of the cascade proceeds. The error surfaces through
// the scheduler's flush (or the registry log in synchronous mode).
type DestructorFunc func(h Handle) error

// RegisterDestructor appends fn to the object's ordered destructor list and
// returns a token usable only for unregistering this exact entry.
//
// Registration is legal while the object is Initialized or Destroying: a
// destructor registered after Phase A but before the object's Phase B visit
// still runs. Registration on a Destroyed object fails with an
// already-destroyed error.
func (r *Registry) RegisterDestructor(h Handle, fn DestructorFunc) (Token, error) {
	rec, ok := r.lookup(h)
	if !ok {
		return "", NewInvalidHandleError()
	}
	if rec.state == StateDestroyed {
		return "", NewAlreadyDestroyedError(rec.label)
	}

	tok := r.tokens.Generate()
	rec.destructors = append(rec.destructors, destructorEntry{token: tok, fn: fn})
	return tok, nil
}

// UnregisterDestructor removes the entry registered under tok, if it is
// still present. Unknown, already-removed, and already-invoked tokens are
// no-ops: unregistration is idempotent and never fails.
//
// Removal preserves the relative order of the remaining entries.
func (r *Registry) UnregisterDestructor(h Handle, tok Token) {
	rec, ok := r.lookup(h)
	if !ok {
		return
	}
	for i, e := range rec.destructors {
		if e.token == tok {
			rec.destructors = append(rec.destructors[:i], rec.destructors[i+1:]...)
			return
		}
	}
}

// runDestructors invokes every still-registered destructor for h, in
// original insertion order. Called only by the Phase B walk, after the
// pre-teardown hook.
//
// Each entry is removed from the registered list before its callback runs,
// so a registration is consumed exactly once no matter how teardown is
// re-entered. The first error stops the remaining invocations for this
// object and is returned.
//
// The record is re-resolved on every iteration: a destructor may track new
// objects, and the arena append invalidates record pointers held across
// callbacks.
func (r *Registry) runDestructors(h Handle) error {
	for {
		rec, ok := r.lookup(h)
		if !ok || len(rec.destructors) == 0 {
			return nil
		}
		e := rec.destructors[0]
		rec.destructors = rec.destructors[1:]
		label := rec.label

		r.emit(EventDestructor, label, string(e.token))
		if err := e.fn(h); err != nil {
			r.emit(EventDestructorError, label, err.Error())
			return err
		}
	}
}
