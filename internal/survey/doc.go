// Package survey provides the canonical data model for questionnaires.
//
// This package contains type definitions only. All other internal packages
// import survey; survey imports nothing internal. This keeps the definition
// model the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Logic rules are closed vocabularies (Operator, MatchMode, CarryMode,
//     ChoiceMode). Unknown values are representable as strings so that
//     transiently inconsistent authoring data never fails to load; the
//     runtime degrades them per the engine's fail-open rules and the
//     compiler reports them loudly.
//   - Respondent answers are a sealed variant (Text | Selection), never
//     interface{} soup. Absence and emptiness both mean "unanswered".
//   - The "between" upper bound is an explicit optional value, not a
//     numeric sentinel.
package survey
