// Package testutil provides deterministic helpers for lifecycle tests.
package testutil

import (
	"fmt"
	"sync"

	"github.com/roach88/unmake/internal/lifecycle"
)

// FixedTokenGenerator generates sequential, predictable destructor tokens:
// "token-1", "token-2", ...
//
// This enables deterministic test execution and golden trace comparison.
// The same scenario with a fresh FixedTokenGenerator produces
// byte-identical traces, unlike the production UUIDv7 generator.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedTokenGenerator struct {
	mu sync.Mutex
	n  int
}

// NewFixedTokenGenerator creates a generator starting at "token-1".
func NewFixedTokenGenerator() *FixedTokenGenerator {
	return &FixedTokenGenerator{}
}

// Generate returns the next sequential token.
//
// Implements lifecycle.TokenGenerator.
func (g *FixedTokenGenerator) Generate() lifecycle.Token {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return lifecycle.Token(fmt.Sprintf("token-%d", g.n))
}
