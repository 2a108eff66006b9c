// Package engine implements the quill survey logic evaluation engine.
//
// The engine decides, at respondent-answer time, which questions appear,
// which answer choices appear and are selectable, where flow branches or
// terminates, and which prior options a later question inherits.
//
// ARCHITECTURE:
//
// Pure Recompute:
// Every resolver is a deterministic function of (static questionnaire
// definition, response store, current page index) with no I/O, no timers
// and no concurrency. Derived state is recomputed in full on every response
// mutation and on every forward navigation; nothing here is incremental.
// This makes evaluation order trivial to reason about and traces trivially
// reproducible.
//
// Fail-Open, Fail-Visible:
// Authoring data may be transiently inconsistent while a survey is being
// edited, so nothing in this package returns an error:
//   - A condition whose source question cannot be resolved evaluates as
//     "unanswered".
//   - An absent or empty logic rule is always satisfied.
//   - An unknown operator is satisfied (permissive default; the compiler
//     is the loud counterpart that reports it at authoring time).
//   - Non-numeric operands of numeric comparisons leave the condition
//     unmet.
//   - A skip rule whose target cannot be located falls through to the
//     normal sequential advance.
//
// Evaluation order within one recompute: carry-forward resolves before
// option visibility, because carried options are themselves subject to
// per-option display rules. Skip rules are evaluated only on "advance",
// never continuously.
package engine
