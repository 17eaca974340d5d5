package lifecycle

// AssertAllDestroyed audits the registry for destroyables that never
// reached the terminal state and returns a *LeakError enumerating them, or
// nil when every tracked object is Destroyed.
//
// The audit is a read-only diagnostic: it never mutates registry contents
// and is not part of the production teardown path. It is typically invoked
// between test cases, after flushing the scheduler, to catch unreleased
// timers, subscriptions, and listeners.
//
// An object that is Destroying but not yet Destroyed counts as a leak; a
// pending Phase B unit must be flushed before the audit passes.
func (r *Registry) AssertAllDestroyed() error {
	var leaked []string
	for i := 1; i < len(r.records); i++ {
		if r.records[i].state != StateDestroyed {
			leaked = append(leaked, r.records[i].label)
		}
	}
	if len(leaked) > 0 {
		return &LeakError{Objects: leaked}
	}
	return nil
}
