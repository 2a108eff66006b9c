package session

import (
	"math"
	"time"

	"github.com/quillhq/quill/internal/engine"
	"github.com/quillhq/quill/internal/piping"
	"github.com/quillhq/quill/internal/survey"
)

// Session drives one respondent through a questionnaire: it owns the
// response store, the current page index and the completion state, and
// re-derives the visible page sequence after every mutation.
type Session struct {
	qn    *survey.Questionnaire
	store *Store
	piper *piping.Resolver

	pages      []engine.Page
	current    int
	finished   bool
	terminated bool

	trace []Event
	seq   int
}

// Option configures a Session.
type Option func(*sessionConfig)

type sessionConfig struct {
	tokens TokenGenerator
	now    func() time.Time
}

// WithTokenGenerator overrides the session token source (fixed tokens in
// tests keep golden traces stable).
func WithTokenGenerator(g TokenGenerator) Option {
	return func(c *sessionConfig) { c.tokens = g }
}

// WithClock injects the clock used by {{SYSTEM:DATE}} piping.
func WithClock(now func() time.Time) Option {
	return func(c *sessionConfig) { c.now = now }
}

// New starts a session at the first page of the questionnaire.
func New(qn *survey.Questionnaire, opts ...Option) *Session {
	cfg := sessionConfig{tokens: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Session{
		qn:    qn,
		store: NewStore(cfg.tokens.NewToken()),
		piper: &piping.Resolver{Questionnaire: qn, Now: cfg.now},
	}
	s.recompute()
	return s
}

// recompute rebuilds the derived page sequence and clamps the current
// index. Runs after every store mutation: visibility is answer-dependent,
// so the sequence is never fixed.
func (s *Session) recompute() {
	s.pages = engine.BuildPages(s.qn, s.store)
	if s.current >= len(s.pages) {
		s.current = len(s.pages) - 1
	}
	if s.current < 0 {
		s.current = 0
	}
}

func (s *Session) record(e Event) {
	s.seq++
	e.Seq = s.seq
	s.trace = append(s.trace, e)
}

// Answer records a direct answer and re-derives the page sequence.
func (s *Session) Answer(questionID string, a survey.Answer) {
	if s.finished {
		return
	}
	s.store.Set(questionID, a)
	s.recompute()
	s.record(Event{Type: EventAnswer, Question: questionID, Value: a})
}

// Toggle flips one option of a multi-select, applying the question's
// choice-blocking rules, and records the resulting selection.
func (s *Session) Toggle(questionID, option string) {
	if s.finished {
		return
	}
	q := s.qn.Lookup(questionID)
	if q == nil || !q.Type.MultiValued() {
		return
	}

	var current survey.Selection
	if ans, ok := s.store.Get(questionID); ok {
		if sel, isList := ans.(survey.Selection); isList {
			current = sel
		}
	}
	next := survey.Selection(engine.ToggleChoice(q, current, option))
	s.store.Set(questionID, next)
	s.recompute()
	s.record(Event{Type: EventToggle, Question: questionID, Value: next})
}

// Next advances the flow: skip rules for the current page are re-evaluated
// against the response store and the router's decision is applied. This is
// the only place branch rules run.
func (s *Session) Next() {
	if s.finished {
		return
	}
	decision := engine.Route(s.pages, s.current, s.store)
	switch decision.Kind {
	case engine.DecisionTerminate:
		s.finished = true
		s.terminated = true
		s.record(Event{Type: EventTerminate})
	case engine.DecisionComplete:
		s.finished = true
		s.record(Event{Type: EventComplete})
	case engine.DecisionJump:
		s.current = decision.PageIndex
		s.record(Event{Type: EventPage, Page: s.current, Nav: NavJump})
	default:
		s.current = decision.PageIndex
		s.record(Event{Type: EventPage, Page: s.current, Nav: NavNext})
	}
}

// Back decrements the page index. Back-navigation never re-runs branch
// rules; only forward advance does.
func (s *Session) Back() {
	if s.finished || s.current == 0 {
		return
	}
	s.current--
	s.record(Event{Type: EventPage, Page: s.current, Nav: NavBack})
}

// Responses exposes the session's response store.
func (s *Session) Responses() *Store { return s.store }

// Token returns the session token.
func (s *Session) Token() string { return s.store.Token() }

// PageIndex returns the current page index.
func (s *Session) PageIndex() int { return s.current }

// PageCount returns the number of pages in the current derived sequence.
func (s *Session) PageCount() int { return len(s.pages) }

// Pages returns the current derived page sequence.
func (s *Session) Pages() []engine.Page { return s.pages }

// Current returns the questions on the current page, or nil when the
// sequence is empty.
func (s *Session) Current() []*survey.Question {
	if len(s.pages) == 0 {
		return nil
	}
	return s.pages[s.current].Questions
}

// Resolved materializes the current page for display: piped wording,
// carried and visibility-filtered options, per-option enabled state.
func (s *Session) Resolved() []engine.ResolvedQuestion {
	if len(s.pages) == 0 {
		return nil
	}
	return engine.ResolvePage(s.qn, s.pages[s.current], s.store, s.piper)
}

// ResolveQuestion materializes one question by id against the current
// response state, whether or not it sits on the current page.
func (s *Session) ResolveQuestion(id string) (engine.ResolvedQuestion, bool) {
	q := s.qn.Lookup(id)
	if q == nil {
		return engine.ResolvedQuestion{}, false
	}
	return engine.ResolveQuestion(s.qn, q, s.store, s.piper), true
}

// Progress reports completion as a rounded percentage of pages reached.
func (s *Session) Progress() int {
	total := len(s.pages)
	if total < 1 {
		total = 1
	}
	return int(math.Round(float64(s.current+1) / float64(total) * 100))
}

// Finished reports whether the interview ended, by termination or by
// passing the last page.
func (s *Session) Finished() bool { return s.finished }

// Terminated reports whether the interview ended via an explicit
// skip-rule TERMINATE target.
func (s *Session) Terminated() bool { return s.terminated }

// Trace returns the ordered session event trace.
func (s *Session) Trace() []Event { return s.trace }
