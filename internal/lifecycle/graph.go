package lifecycle

// AssociateChild adds child to parent's ordered dependent set and returns
// child, supporting fluent construction:
//
//	conn := reg.AssociateChild(pool, reg.Track("conn"))
//
// Destroying any ancestor of child cascades to it. An object may be a child
// of multiple parents; there is no reference counting, so whichever
// ancestor is destroyed first takes the child down, and later ancestors'
// cascades skip it via the idempotence guard.
//
// The edge order is significant: siblings are torn down in the order their
// edges were created.
//
// Fails with an invalid-parent error unless the parent is Initialized, and
// with an already-destroyed error if the child is already Destroyed. Edges
// in the graph MUST stay acyclic; a cycle is a caller contract violation
// and produces unbounded traversal, not a runtime-checked error.
func (r *Registry) AssociateChild(parent, child Handle) (Handle, error) {
	prec, ok := r.lookup(parent)
	if !ok {
		return Handle{}, NewInvalidHandleError()
	}
	crec, ok := r.lookup(child)
	if !ok {
		return Handle{}, NewInvalidHandleError()
	}

	if prec.state != StateInitialized {
		return Handle{}, NewInvalidParentError(prec.label, prec.state)
	}
	if crec.state == StateDestroyed {
		return Handle{}, NewAlreadyDestroyedError(crec.label)
	}

	prec.children = append(prec.children, child)
	r.emit(EventAssociated, prec.label, crec.label)
	return child, nil
}
