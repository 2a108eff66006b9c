package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenarioValid(t *testing.T) {
	s, err := LoadScenarioWithBasePath("testdata/scenarios/screener-termination.yaml", "testdata/scenarios")
	require.NoError(t, err)

	assert.Equal(t, "screener-termination", s.Name)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, "Q1", s.Steps[0].Answer)
	assert.Equal(t, "No", s.Steps[0].Value)
	assert.True(t, s.Steps[1].Next)
	require.Len(t, s.Assertions, 2)
	assert.Equal(t, AssertTerminated, s.Assertions[0].Type)
}

func TestLoadScenarioResolvesDefinitionPaths(t *testing.T) {
	s, err := LoadScenarioWithBasePath("testdata/scenarios/exclusive-choice.yaml", "testdata/scenarios")
	require.NoError(t, err)
	require.Len(t, s.Definitions, 1)
	assert.Equal(t, filepath.Join("testdata", "scenarios", "..", "definitions", "brand.cue"), s.Definitions[0])
}

func TestLoadScenarioUnknownField(t *testing.T) {
	path := writeScenarioFile(t, `
name: typo
description: has a misspelled key
definitions: [../definitions/brand.cue]
steps:
  - next: true
assertion:
  - type: completed
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assertion")
}

func TestLoadScenarioMissingAssertions(t *testing.T) {
	path := writeScenarioFile(t, `
name: no-assertions
description: forgets assertions entirely
definitions: [nonexistent.cue]
steps:
  - next: true
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assertions")
}

func TestLoadScenarioStepWithTwoActions(t *testing.T) {
	dir := t.TempDir()
	def := filepath.Join(dir, "q.cue")
	require.NoError(t, os.WriteFile(def, []byte(`questionnaire: q: {questions: [{id: "Q1", type: "open_text", text: "a"}]}`), 0o644))

	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: double-step
description: a step naming two actions
definitions: [`+def+`]
steps:
  - answer: Q1
    value: hi
    next: true
assertions:
  - type: completed
`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")
}

func TestLoadScenarioToggleNeedsOption(t *testing.T) {
	dir := t.TempDir()
	def := filepath.Join(dir, "q.cue")
	require.NoError(t, os.WriteFile(def, []byte(`questionnaire: q: {questions: [{id: "Q1", type: "multi_select", text: "a", options: ["A"]}]}`), 0o644))

	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: toggle-no-option
description: toggle without option
definitions: [`+def+`]
steps:
  - toggle: Q1
assertions:
  - type: completed
`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "option is required")
}

func TestLoadScenarioUnknownAssertionType(t *testing.T) {
	dir := t.TempDir()
	def := filepath.Join(dir, "q.cue")
	require.NoError(t, os.WriteFile(def, []byte(`questionnaire: q: {questions: [{id: "Q1", type: "open_text", text: "a"}]}`), 0o644))

	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: bad-assert
description: unknown assertion type
definitions: [`+def+`]
steps:
  - next: true
assertions:
  - type: vibes
`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown assertion type")
}
