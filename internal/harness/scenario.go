package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a scripted respondent
// session against one questionnaire, with assertions on the resulting
// pages, resolved content and trace.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are keyed on it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Definitions lists paths to CUE questionnaire files to compile and
	// load. Paths are relative to the scenario file location.
	Definitions []string `yaml:"definitions"`

	// Questionnaire selects the questionnaire by name when the
	// definitions declare more than one. Empty means the first.
	Questionnaire string `yaml:"questionnaire,omitempty"`

	// Steps is the scripted respondent behavior, executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the session after all steps ran.
	Assertions []Assertion `yaml:"assertions"`

	// SessionToken is an optional fixed session token for deterministic
	// traces. Empty defaults to "test-session-default".
	SessionToken string `yaml:"session_token,omitempty"`

	// Date freezes the session clock, formatted 2006-01-02. Empty uses
	// the testutil default instant. Affects {{SYSTEM:DATE}} piping only.
	Date string `yaml:"date,omitempty"`
}

// Step is one scripted respondent action. Exactly one of the action
// fields must be set.
type Step struct {
	// Answer names a question to answer directly; Value carries the
	// answer, a string for scalar questions or a list for multi-selects.
	Answer string `yaml:"answer,omitempty"`
	Value  any    `yaml:"value,omitempty"`

	// Toggle names a multi-select question; Option is the choice to flip
	// through the question's choice-blocking rules.
	Toggle string `yaml:"toggle,omitempty"`
	Option string `yaml:"option,omitempty"`

	// Clear names a question whose answer is removed.
	Clear string `yaml:"clear,omitempty"`

	// Next advances the flow; Back navigates one page back.
	Next bool `yaml:"next,omitempty"`
	Back bool `yaml:"back,omitempty"`
}

// Assertion validates the session state after the scripted steps.
type Assertion struct {
	// Type specifies the assertion type:
	//   - "page_is":     current page index equals Index
	//   - "page_count":  derived sequence has Count pages
	//   - "visible":     Question appears in the derived sequence
	//   - "hidden":      Question does not appear
	//   - "options":     Question resolves exactly the Options labels, in order
	//   - "disabled":    Option of Question is currently disabled
	//   - "enabled":     Option of Question is currently enabled
	//   - "text":        Question's resolved wording equals Text
	//   - "answer":      stored answer of Question equals Value
	//   - "terminated":  session ended via a TERMINATE skip rule
	//   - "completed":   session ended by advancing past the last page
	Type string `yaml:"type"`

	Question string   `yaml:"question,omitempty"`
	Option   string   `yaml:"option,omitempty"`
	Options  []string `yaml:"options,omitempty"`
	Index    int      `yaml:"index,omitempty"`
	Count    int      `yaml:"count,omitempty"`
	Text     string   `yaml:"text,omitempty"`
	Value    any      `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertPageIs     = "page_is"
	AssertPageCount  = "page_count"
	AssertVisible    = "visible"
	AssertHidden     = "hidden"
	AssertOptions    = "options"
	AssertDisabled   = "disabled"
	AssertEnabled    = "enabled"
	AssertText       = "text"
	AssertAnswer     = "answer"
	AssertTerminated = "terminated"
	AssertCompleted  = "completed"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, "")
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving definition paths relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, defPath := range scenario.Definitions {
		if !filepath.IsAbs(defPath) && basePath != "" {
			scenario.Definitions[i] = filepath.Join(basePath, defPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Definitions) == 0 {
		return fmt.Errorf("definitions list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for _, defPath := range s.Definitions {
		if _, err := os.Stat(defPath); os.IsNotExist(err) {
			return fmt.Errorf("definition file not found: %s", defPath)
		}
	}

	for i := range s.Steps {
		if err := validateStep(i, &s.Steps[i]); err != nil {
			return err
		}
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateStep checks that a step names exactly one action.
func validateStep(index int, s *Step) error {
	n := 0
	if s.Answer != "" {
		n++
	}
	if s.Toggle != "" {
		n++
	}
	if s.Clear != "" {
		n++
	}
	if s.Next {
		n++
	}
	if s.Back {
		n++
	}
	if n != 1 {
		return fmt.Errorf("steps[%d]: exactly one of answer, toggle, clear, next, back is required", index)
	}
	if s.Toggle != "" && s.Option == "" {
		return fmt.Errorf("steps[%d]: option is required for toggle", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertPageIs, AssertPageCount, AssertTerminated, AssertCompleted:
		// no extra fields required
	case AssertVisible, AssertHidden, AssertOptions, AssertText, AssertAnswer:
		if a.Question == "" {
			return fmt.Errorf("assertions[%d]: question is required for %s", index, a.Type)
		}
	case AssertDisabled, AssertEnabled:
		if a.Question == "" || a.Option == "" {
			return fmt.Errorf("assertions[%d]: question and option are required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
