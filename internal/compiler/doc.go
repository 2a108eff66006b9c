// Package compiler turns authored CUE questionnaire definitions into
// survey values and validates them against the authoring schema.
//
// The split of responsibilities is deliberate: the compiler fails loud
// (position-aware CompileError, E-coded ValidationError), while the
// runtime engine fails open and never errors on malformed logic. A
// questionnaire that compiles but carries validation findings still
// runs; the findings tell the author what the engine will silently
// treat as unmet or invisible.
package compiler
