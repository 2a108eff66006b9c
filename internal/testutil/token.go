package testutil

// FixedTokenGenerator returns the same session token every time.
//
// This enables deterministic test execution and golden snapshot comparison.
// The same scenario with the same FixedTokenGenerator produces byte-identical
// trace output.
//
// Thread-safety: FixedTokenGenerator is stateless and safe for concurrent use.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a fixed session token generator.
//
// The token is typically set in the scenario YAML:
//
//	session_token: "test-session-00000000-0000-0000-0000-000000000001"
//
// If token is empty, NewToken returns "test-session-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-session-default"
	}
	return &FixedTokenGenerator{token: token}
}

// NewToken returns the fixed session token.
//
// Implements session.TokenGenerator.
func (g *FixedTokenGenerator) NewToken() string {
	return g.token
}
