package session

import "github.com/google/uuid"

// TokenGenerator produces session tokens.
//
// The default UUIDv7 generator gives time-ordered unique tokens; tests
// inject a fixed generator for deterministic traces.
type TokenGenerator interface {
	NewToken() string
}

// UUIDv7Generator generates RFC 4122 UUIDv7 session tokens.
// Uses github.com/google/uuid.
type UUIDv7Generator struct{}

// NewToken implements TokenGenerator.
func (UUIDv7Generator) NewToken() string {
	return uuid.Must(uuid.NewV7()).String()
}
