package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

// LifecycleError represents a caller contract violation detected by the
// registry.
//
// Lifecycle errors include:
//   - Already destroyed: registration or association attempted on an
//     object in the terminal state
//   - Invalid parent: association attempted with a non-Initialized parent
//   - Invalid handle: an operation received the zero Handle or a handle
//     from another registry
//
// These indicate a programming error (use-after-destroy), not a transient
// condition, and are never retried.
type LifecycleError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Object is the label of the affected destroyable.
	Object string
}

// ErrorCode categorizes lifecycle errors.
type ErrorCode string

const (
	// ErrCodeAlreadyDestroyed indicates a registration or association was
	// attempted on an object already in the Destroyed state.
	ErrCodeAlreadyDestroyed ErrorCode = "ALREADY_DESTROYED"

	// ErrCodeInvalidParent indicates an association was attempted with a
	// parent that is not in the Initialized state.
	ErrCodeInvalidParent ErrorCode = "INVALID_PARENT"

	// ErrCodeInvalidHandle indicates the handle is the zero value or does
	// not belong to this registry.
	ErrCodeInvalidHandle ErrorCode = "INVALID_HANDLE"
)

// Error implements the error interface.
func (e *LifecycleError) Error() string {
	if e.Object != "" {
		return fmt.Sprintf("%s: %s (object=%s)", e.Code, e.Message, e.Object)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsAlreadyDestroyed returns true if the error is an already-destroyed
// violation. Uses errors.As to handle wrapped errors.
func IsAlreadyDestroyed(err error) bool {
	var le *LifecycleError
	if errors.As(err, &le) {
		return le.Code == ErrCodeAlreadyDestroyed
	}
	return false
}

// IsInvalidParent returns true if the error is an invalid-parent violation.
// Uses errors.As to handle wrapped errors.
func IsInvalidParent(err error) bool {
	var le *LifecycleError
	if errors.As(err, &le) {
		return le.Code == ErrCodeInvalidParent
	}
	return false
}

// NewAlreadyDestroyedError creates a LifecycleError for use-after-destroy.
func NewAlreadyDestroyedError(object string) *LifecycleError {
	return &LifecycleError{
		Code:    ErrCodeAlreadyDestroyed,
		Message: "object is already destroyed",
		Object:  object,
	}
}

// NewInvalidParentError creates a LifecycleError for an association with a
// parent that has left the Initialized state.
func NewInvalidParentError(object string, state State) *LifecycleError {
	return &LifecycleError{
		Code:    ErrCodeInvalidParent,
		Message: fmt.Sprintf("parent is %s, not initialized", state),
		Object:  object,
	}
}

// NewInvalidHandleError creates a LifecycleError for the zero or foreign
// handle.
func NewInvalidHandleError() *LifecycleError {
	return &LifecycleError{
		Code:    ErrCodeInvalidHandle,
		Message: "handle does not name a tracked object",
	}
}

// LeakError is returned by AssertAllDestroyed when tracked objects have not
// reached the terminal state. It is purely diagnostic and intended to fail
// a test run, not to be caught and retried.
type LeakError struct {
	// Objects lists the labels of every tracked destroyable whose state is
	// not Destroyed, in tracking order.
	Objects []string
}

// Error implements the error interface with a fixed message class so test
// output is greppable across runs.
func (e *LeakError) Error() string {
	return fmt.Sprintf("not all destroyables were destroyed: %d remaining [%s]",
		len(e.Objects), strings.Join(e.Objects, ", "))
}

// IsLeak returns true if the error is a leak-audit failure.
// Uses errors.As to handle wrapped errors.
func IsLeak(err error) bool {
	var le *LeakError
	return errors.As(err, &le)
}
