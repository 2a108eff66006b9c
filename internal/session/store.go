package session

import "github.com/quillhq/quill/internal/survey"

// Store is the response store: question id → answer value. Absence of a
// key means unanswered; so do empty answers, which callers may still
// store (a cleared multi-select is an empty selection, not a deletion).
//
// The store is owned by the session executing the questionnaire, not by
// the engine, and is passed to the engine explicitly as a read-only view.
type Store struct {
	token   string
	answers map[string]survey.Answer
}

// NewStore creates an empty response store with the given session token.
func NewStore(token string) *Store {
	return &Store{
		token:   token,
		answers: make(map[string]survey.Answer),
	}
}

// Token returns the session token the store belongs to.
func (s *Store) Token() string { return s.token }

// Get implements the engine's Responses view.
func (s *Store) Get(questionID string) (survey.Answer, bool) {
	a, ok := s.answers[questionID]
	return a, ok
}

// Set records an answer. A nil answer clears the entry.
func (s *Store) Set(questionID string, a survey.Answer) {
	if a == nil {
		delete(s.answers, questionID)
		return
	}
	s.answers[questionID] = a
}

// Clear removes a single answer.
func (s *Store) Clear(questionID string) {
	delete(s.answers, questionID)
}

// Reset removes every answer, keeping the token.
func (s *Store) Reset() {
	s.answers = make(map[string]survey.Answer)
}

// Len returns the number of stored answers, empty ones included.
func (s *Store) Len() int { return len(s.answers) }

// Snapshot returns a copy of the current answers.
func (s *Store) Snapshot() map[string]survey.Answer {
	out := make(map[string]survey.Answer, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}
