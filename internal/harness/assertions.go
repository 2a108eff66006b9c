package harness

import (
	"fmt"
	"slices"

	"github.com/quillhq/quill/internal/engine"
	"github.com/quillhq/quill/internal/session"
	"github.com/quillhq/quill/internal/survey"
)

// EvaluateAssertions checks every assertion against the finished session
// and returns failure messages. All assertions run; evaluation never
// fails fast.
func EvaluateAssertions(sess *session.Session, assertions []Assertion) []string {
	var failures []string
	for i := range assertions {
		if msg := evaluateAssertion(sess, &assertions[i]); msg != "" {
			failures = append(failures, fmt.Sprintf("assertions[%d] (%s): %s", i, assertions[i].Type, msg))
		}
	}
	return failures
}

// evaluateAssertion checks one assertion, returning "" when it holds.
func evaluateAssertion(sess *session.Session, a *Assertion) string {
	switch a.Type {
	case AssertPageIs:
		if got := sess.PageIndex(); got != a.Index {
			return fmt.Sprintf("expected page %d, on page %d", a.Index, got)
		}
	case AssertPageCount:
		if got := sess.PageCount(); got != a.Count {
			return fmt.Sprintf("expected %d pages, got %d", a.Count, got)
		}
	case AssertVisible:
		if engine.FindPage(sess.Pages(), a.Question) < 0 {
			return fmt.Sprintf("question %q is not in the page sequence", a.Question)
		}
	case AssertHidden:
		if idx := engine.FindPage(sess.Pages(), a.Question); idx >= 0 {
			return fmt.Sprintf("question %q is visible on page %d", a.Question, idx)
		}
	case AssertOptions:
		rq, ok := sess.ResolveQuestion(a.Question)
		if !ok {
			return fmt.Sprintf("question %q does not exist", a.Question)
		}
		got := make([]string, len(rq.Options))
		for i, opt := range rq.Options {
			got[i] = opt.Label
		}
		if !slices.Equal(got, a.Options) {
			return fmt.Sprintf("expected options %v, got %v", a.Options, got)
		}
	case AssertDisabled, AssertEnabled:
		rq, ok := sess.ResolveQuestion(a.Question)
		if !ok {
			return fmt.Sprintf("question %q does not exist", a.Question)
		}
		disabled, found := optionDisabled(rq, a.Option)
		if !found {
			return fmt.Sprintf("option %q is not offered by question %q", a.Option, a.Question)
		}
		if a.Type == AssertDisabled && !disabled {
			return fmt.Sprintf("option %q is enabled, expected disabled", a.Option)
		}
		if a.Type == AssertEnabled && disabled {
			return fmt.Sprintf("option %q is disabled, expected enabled", a.Option)
		}
	case AssertText:
		rq, ok := sess.ResolveQuestion(a.Question)
		if !ok {
			return fmt.Sprintf("question %q does not exist", a.Question)
		}
		if rq.Text != a.Text {
			return fmt.Sprintf("expected text %q, got %q", a.Text, rq.Text)
		}
	case AssertAnswer:
		ans, ok := sess.Responses().Get(a.Question)
		if !ok {
			return fmt.Sprintf("question %q is unanswered", a.Question)
		}
		want, err := convertAnswer(a.Value)
		if err != nil {
			return fmt.Sprintf("bad expected value: %v", err)
		}
		if !answersEqual(ans, want) {
			return fmt.Sprintf("expected answer %v, got %v", want, ans)
		}
	case AssertTerminated:
		if !sess.Terminated() {
			return "session was not terminated"
		}
	case AssertCompleted:
		if !sess.Finished() || sess.Terminated() {
			return "session did not complete"
		}
	default:
		return fmt.Sprintf("unknown assertion type %q", a.Type)
	}
	return ""
}

// optionDisabled finds an option by label and reports its disabled state.
func optionDisabled(rq engine.ResolvedQuestion, label string) (disabled, found bool) {
	for _, opt := range rq.Options {
		if opt.Label == label {
			return opt.Disabled, true
		}
	}
	return false, false
}

// answersEqual compares two answers across the sealed variants.
func answersEqual(a, b survey.Answer) bool {
	switch av := a.(type) {
	case survey.Text:
		bv, ok := b.(survey.Text)
		return ok && av == bv
	case survey.Selection:
		bv, ok := b.(survey.Selection)
		return ok && slices.Equal(av, bv)
	}
	return false
}
