package lifecycle

import "github.com/google/uuid"

// Token is the unique handle returned by RegisterDestructor. It is usable
// only for unregistration of that exact entry.
type Token string

// TokenGenerator produces destructor registration tokens.
// Implemented by UUIDv7TokenGenerator (production) and
// testutil.FixedTokenGenerator (deterministic tests).
type TokenGenerator interface {
	Generate() Token
}

// UUIDv7TokenGenerator generates time-sortable UUIDv7 tokens.
//
// UUIDv7 embeds a timestamp in the most significant bits, making tokens
// sortable by registration time, which is helpful when reading raw traces.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7TokenGenerator struct{}

// Generate creates a new UUIDv7 token as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7TokenGenerator) Generate() Token {
	return Token(uuid.Must(uuid.NewV7()).String())
}
