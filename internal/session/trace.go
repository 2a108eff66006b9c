package session

import "github.com/quillhq/quill/internal/survey"

// EventType classifies session trace events.
type EventType string

const (
	// EventAnswer records a direct answer to a question.
	EventAnswer EventType = "answer"

	// EventToggle records a constrained multi-select toggle; its value is
	// the resulting selection after choice rules were applied.
	EventToggle EventType = "toggle"

	// EventPage records a navigation landing on a page.
	EventPage EventType = "page"

	// EventTerminate records an explicit skip-rule termination.
	EventTerminate EventType = "terminate"

	// EventComplete records finishing by advancing past the last page.
	EventComplete EventType = "complete"
)

// Navigation kinds attached to page events.
const (
	NavNext = "next"
	NavJump = "jump"
	NavBack = "back"
)

// Event is one entry of the ordered session trace. Seq is a monotonic
// per-session counter; ordering never relies on wall time.
type Event struct {
	Seq      int           `json:"seq"`
	Type     EventType     `json:"type"`
	Question string        `json:"question,omitempty"`
	Value    survey.Answer `json:"value,omitempty"`
	Page     int           `json:"page,omitempty"`
	Nav      string        `json:"nav,omitempty"`
}

// canonicalEvent shapes an event for survey.MarshalCanonical.
func canonicalEvent(e Event) map[string]any {
	m := map[string]any{
		"seq":  e.Seq,
		"type": string(e.Type),
	}
	if e.Question != "" {
		m["question"] = e.Question
	}
	if e.Value != nil {
		m["value"] = e.Value
	}
	if e.Type == EventPage {
		m["page"] = e.Page
		m["nav"] = e.Nav
	}
	return m
}

// CanonicalTrace converts a trace to the canonical-JSON-ready shape used
// for golden comparison.
func CanonicalTrace(token string, events []Event) map[string]any {
	list := make([]any, len(events))
	for i, e := range events {
		list[i] = canonicalEvent(e)
	}
	return map[string]any{
		"session": token,
		"trace":   list,
	}
}
