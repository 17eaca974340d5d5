// Package lifecycle implements the unmake destructible-object engine.
//
// The engine manages deterministic, cascading teardown of interdependent
// objects that hold external resources (timers, subscriptions, listeners).
// Callers register cleanup callbacks against an object handle, link handles
// into an ownership graph, and trigger destruction of a root; the engine
// guarantees every reachable dependent is torn down, in a deterministic
// order, exactly once.
//
// ARCHITECTURE:
//
// Two-Phase Destroy:
// Destroy performs an immediate synchronous state transition followed by a
// deferred teardown pass.
//  1. Phase A marks the root and its full transitive closure Destroying
//     before Destroy returns. Cooperatively scheduled code can observe
//     IsDestroying in the same turn and refuse to interact with objects
//     mid-teardown.
//  2. Phase B is a single unit of deferred work handed to the scheduler.
//     It walks the marked subtree pre-order (parent before children,
//     siblings in association order), running each node's pre-teardown
//     hook, then its still-registered destructors in registration order,
//     then marking the node Destroyed.
//
// Single logical thread of control:
// All registry mutation happens from one logical thread. The only
// suspension point is the deferred Phase B unit; reentrant Destroy calls
// from inside a destructor are handled by the idempotence guard, not by
// locking.
//
// CRITICAL PATTERNS:
//
// Logical Clock:
// Every observable lifecycle event is stamped with a monotonic seq counter
// from Clock.Next(). NEVER use wall-clock timestamps for ordering; seq
// order is what the trace store and golden comparisons rely on.
//
// State Monotonicity:
// States only move Initialized -> Destroying -> Destroyed. There is no
// cancellation and no regression; once Phase A has marked a node it cannot
// return to Initialized.
//
// Handles, not pointers:
// Destroyables are identified by Handle values indexing into the registry's
// record arena. The registry never stores the caller's object, so tracking
// an object does not extend its liveness. Record payloads (destructor
// lists, children, hooks) are released when a record reaches Destroyed.
package lifecycle
