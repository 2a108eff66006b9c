package harness

import (
	"fmt"
	"time"

	"github.com/quillhq/quill/internal/compiler"
	"github.com/quillhq/quill/internal/session"
	"github.com/quillhq/quill/internal/survey"
	"github.com/quillhq/quill/internal/testutil"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success: every assertion held.
	Pass bool `json:"pass"`

	// Failures contains assertion failure messages. Empty if Pass.
	Failures []string `json:"failures,omitempty"`

	// Trace is the ordered session event trace, for golden comparison.
	Trace []session.Event `json:"trace"`

	// Session is the finished session, for callers inspecting more than
	// the assertions cover.
	Session *session.Session `json:"-"`
}

// AddFailure records an assertion failure and marks the result failed.
func (r *Result) AddFailure(msg string) {
	r.Failures = append(r.Failures, msg)
	r.Pass = false
}

// Run executes a scenario and returns the result.
//
// Each scenario gets a fresh session built from its own definitions, a
// fixed session token and a frozen clock, so repeated runs produce
// identical traces.
//
// Execution flow:
//  1. Compile the CUE definitions and select the questionnaire
//  2. Start a session with deterministic token and clock
//  3. Execute the scripted steps in order
//  4. Evaluate assertions against the finished session
func Run(scenario *Scenario) (*Result, error) {
	qn, err := loadQuestionnaire(scenario)
	if err != nil {
		return nil, err
	}

	clockAt := time.Time{}
	if scenario.Date != "" {
		clockAt, err = time.Parse("2006-01-02", scenario.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario date %q: %w", scenario.Date, err)
		}
	}
	clock := testutil.NewFixedClock(clockAt)
	tokens := testutil.NewFixedTokenGenerator(scenario.SessionToken)

	sess := session.New(qn,
		session.WithTokenGenerator(tokens),
		session.WithClock(clock.Now),
	)

	for i := range scenario.Steps {
		if err := ApplyStep(sess, &scenario.Steps[i]); err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	result := &Result{
		Pass:    true,
		Trace:   sess.Trace(),
		Session: sess,
	}
	for _, msg := range EvaluateAssertions(sess, scenario.Assertions) {
		result.AddFailure(msg)
	}
	return result, nil
}

// loadQuestionnaire compiles the scenario's definitions and selects the
// questionnaire under test.
func loadQuestionnaire(scenario *Scenario) (*survey.Questionnaire, error) {
	loaded, errs := compiler.LoadFiles(scenario.Definitions)
	if len(errs) > 0 {
		return nil, fmt.Errorf("loading definitions: %w", errs[0])
	}

	if scenario.Questionnaire != "" {
		qn := loaded.Find(scenario.Questionnaire)
		if qn == nil {
			return nil, fmt.Errorf("questionnaire %q not found in definitions", scenario.Questionnaire)
		}
		return qn, nil
	}
	return loaded.Questionnaires[0], nil
}

// ApplyStep applies one scripted respondent action to the session.
// Shared by scenario execution and the CLI's scripted run command.
func ApplyStep(sess *session.Session, step *Step) error {
	switch {
	case step.Answer != "":
		ans, err := convertAnswer(step.Value)
		if err != nil {
			return fmt.Errorf("answer %s: %w", step.Answer, err)
		}
		sess.Answer(step.Answer, ans)
	case step.Toggle != "":
		sess.Toggle(step.Toggle, step.Option)
	case step.Clear != "":
		sess.Answer(step.Clear, nil)
	case step.Next:
		sess.Next()
	case step.Back:
		sess.Back()
	}
	return nil
}

// convertAnswer converts a YAML-parsed step value into an Answer: strings
// become Text, lists become Selection. Numbers are accepted and carried as
// their decimal text, matching how numeric questions store answers.
func convertAnswer(val any) (survey.Answer, error) {
	switch v := val.(type) {
	case nil:
		return nil, fmt.Errorf("value is required")
	case string:
		return survey.Text(v), nil
	case int:
		return survey.Text(fmt.Sprintf("%d", v)), nil
	case int64:
		return survey.Text(fmt.Sprintf("%d", v)), nil
	case float64:
		if v == float64(int64(v)) {
			return survey.Text(fmt.Sprintf("%d", int64(v))), nil
		}
		return survey.Text(fmt.Sprintf("%v", v)), nil
	case bool:
		return survey.Text(fmt.Sprintf("%t", v)), nil
	case []any:
		sel := make(survey.Selection, len(v))
		for i, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("list[%d]: selections must be strings, got %T", i, elem)
			}
			sel[i] = s
		}
		return sel, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", val)
	}
}
