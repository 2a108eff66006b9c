package engine

import "github.com/quillhq/quill/internal/survey"

// Responses is the engine's read-only view of collected answers.
//
// The concrete store is owned by the respondent session, never by the
// engine; passing it explicitly keeps every resolver a pure function of
// its inputs. Get reports ok=false only when the question has no entry at
// all; an empty answer is present but counts as unanswered for the
// operators that care.
type Responses interface {
	Get(questionID string) (survey.Answer, bool)
}

// ResponseMap is a plain map implementation of Responses, convenient for
// tests and for one-shot evaluations outside a session.
type ResponseMap map[string]survey.Answer

// Get implements Responses.
func (m ResponseMap) Get(questionID string) (survey.Answer, bool) {
	a, ok := m[questionID]
	return a, ok
}
