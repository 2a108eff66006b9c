// Package piping resolves placeholder tokens in question wording.
//
// Tokens have the shape {{SOURCE:KIND}} and are replaced in a single
// non-greedy pass; tokens never nest, and replacement output is never
// re-scanned, so mutually referencing questions cannot loop.
//
// Resolution is fail-visible: an unknown source question becomes an
// explicit "[Invalid Source: …]" marker and an unanswered source becomes
// an "(… unanswered)" marker, never an empty string, so authors can spot
// broken or missing upstream answers during preview.
package piping
