// Package session owns the mutable state of one respondent interview:
// the response store and the page flow controller.
//
// The response store is the sole piece of mutable state the engine reads.
// It is created per respondent and never shared; in a server context each
// session gets its own store, so no locking discipline is required.
//
// Every mutation (answer, toggle, navigation) triggers a full recompute of
// the derived page sequence, because visibility is answer-dependent and
// the page sequence is never fixed at authoring time. Mutations also
// append to an ordered session trace; with a fixed token and clock the
// trace is byte-stable under canonical JSON, which is what the golden
// tests in the harness compare.
package session
