// Package harness provides a conformance testing framework for the unmake
// lifecycle engine.
//
// Scenarios are YAML files declaring a universe of destroyables with named
// destructors, the ownership edges between them, a step list (destroy,
// flush, unregister, expect_leak), and assertions over the resulting
// teardown trace.
//
// Each scenario runs against a fresh registry with a fixed token generator
// and a private scheduler loop, so execution is fully deterministic: the
// same scenario always yields a byte-identical trace, which is what the
// golden-file comparison in golden.go relies on.
//
// The harness registers no-op destructors and resolves the engine's
// trace events (which carry registration tokens) back to the scenario's
// destructor names, so assertions and goldens read in scenario vocabulary:
//
//	assertions:
//	  - type: teardown_order
//	    destructors: [parent-first, parent-second, child-first, child-second]
package harness
