// Package harness provides a conformance testing framework for the
// questionnaire logic engine.
//
// Scenarios are YAML files scripting one respondent session: answer and
// toggle steps, navigation, then assertions over the derived pages, the
// resolved content and the completion state. Each scenario runs against a
// fresh session built from CUE questionnaire definitions, with a fixed
// session token and frozen clock so the resulting trace is byte-stable
// under canonical JSON. Golden files pin those traces.
package harness
