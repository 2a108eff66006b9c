package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/internal/survey"
)

func TestPagesUnanswered(t *testing.T) {
	// Q2's display rule is unmet without answers, so its page collapses
	stdout, _, err := executeCommand("pages", "testdata/definitions")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Pulse: 1 page(s)")
	assert.Contains(t, stdout, "0: Q1")
	assert.NotContains(t, stdout, "Q2")
}

func TestPagesWithAnswers(t *testing.T) {
	stdout, _, err := executeCommand("pages", "testdata/definitions", "--answers", "testdata/answers.yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Pulse: 2 page(s)")
	assert.Contains(t, stdout, "1: Q2")
}

func TestPagesJSON(t *testing.T) {
	stdout, _, err := executeCommand("pages", "testdata/definitions", "--answers", "testdata/answers.yaml", "--format", "json")
	require.NoError(t, err)

	var response struct {
		Status string      `json:"status"`
		Data   PagesResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, "Pulse", response.Data.Questionnaire)
	require.Len(t, response.Data.Pages, 2)
	assert.Equal(t, []string{"Q1"}, response.Data.Pages[0].Questions)
	assert.Equal(t, []string{"Q2"}, response.Data.Pages[1].Questions)
}

func TestPagesUnknownQuestionnaire(t *testing.T) {
	_, _, err := executeCommand("pages", "testdata/definitions", "--questionnaire", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "not found")
}

func TestPagesMissingAnswersFile(t *testing.T) {
	_, _, err := executeCommand("pages", "testdata/definitions", "--answers", "testdata/nope.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConvertAnswerValue(t *testing.T) {
	ans, err := convertAnswerValue("Yes")
	require.NoError(t, err)
	assert.Equal(t, survey.Text("Yes"), ans)

	ans, err = convertAnswerValue(12)
	require.NoError(t, err)
	assert.Equal(t, survey.Text("12"), ans)

	ans, err = convertAnswerValue([]any{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, survey.Selection{"A", "B"}, ans)

	_, err = convertAnswerValue(nil)
	require.Error(t, err)

	_, err = convertAnswerValue(map[string]any{"x": 1})
	require.Error(t, err)
}
