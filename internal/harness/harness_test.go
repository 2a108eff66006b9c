package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/internal/session"
	"github.com/quillhq/quill/internal/survey"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenarioWithBasePath("testdata/scenarios/"+name+".yaml", "testdata/scenarios")
	require.NoError(t, err)
	return s
}

func TestScenarioScreenerTermination(t *testing.T) {
	s := loadTestScenario(t, "screener-termination")
	require.NoError(t, RunWithGolden(t, s))
}

func TestScenarioCarryForwardPiping(t *testing.T) {
	s := loadTestScenario(t, "carry-forward-piping")
	require.NoError(t, RunWithGolden(t, s))
}

func TestScenarioExclusiveChoice(t *testing.T) {
	s := loadTestScenario(t, "exclusive-choice")
	require.NoError(t, RunWithGolden(t, s))
}

func TestScenarioDetractorFollowup(t *testing.T) {
	s := loadTestScenario(t, "detractor-followup")
	require.NoError(t, RunWithGolden(t, s))
}

func TestRunResultShape(t *testing.T) {
	s := loadTestScenario(t, "screener-termination")

	result, err := Run(s)
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Failures)
	require.Len(t, result.Trace, 2)
	assert.Equal(t, session.EventAnswer, result.Trace[0].Type)
	assert.Equal(t, session.EventTerminate, result.Trace[1].Type)
	assert.Equal(t, "test-session-default", result.Session.Token())
}

func TestRunFailedAssertionDoesNotError(t *testing.T) {
	s := loadTestScenario(t, "screener-termination")
	s.Assertions = append(s.Assertions, Assertion{Type: AssertCompleted})

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "did not complete")
}

func TestRunFixedSessionToken(t *testing.T) {
	s := loadTestScenario(t, "screener-termination")
	s.SessionToken = "session-fixed-42"

	result, err := Run(s)
	require.NoError(t, err)
	assert.Equal(t, "session-fixed-42", result.Session.Token())
}

func TestRunUnknownQuestionnaireName(t *testing.T) {
	s := loadTestScenario(t, "screener-termination")
	s.Questionnaire = "does-not-exist"

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRunTraceIsByteStable(t *testing.T) {
	s := loadTestScenario(t, "detractor-followup")

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	a, err := survey.MarshalCanonical(session.CanonicalTrace(first.Session.Token(), first.Trace))
	require.NoError(t, err)
	b, err := survey.MarshalCanonical(session.CanonicalTrace(second.Session.Token(), second.Trace))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestConvertAnswer(t *testing.T) {
	ans, err := convertAnswer("hello")
	require.NoError(t, err)
	assert.Equal(t, survey.Text("hello"), ans)

	ans, err = convertAnswer(7)
	require.NoError(t, err)
	assert.Equal(t, survey.Text("7"), ans)

	ans, err = convertAnswer([]any{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, survey.Selection{"A", "B"}, ans)

	_, err = convertAnswer(nil)
	require.Error(t, err)

	_, err = convertAnswer([]any{"A", 3})
	require.Error(t, err)
}
