package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/quillhq/quill/internal/session"
	"github.com/quillhq/quill/internal/survey"
)

// RunWithGolden executes a scenario, requires it to pass, and compares
// its canonical trace against a golden file. The golden file is stored
// in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files serve as the source of truth for expected trace behavior;
// the fixed session token and frozen clock make them byte-stable.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, failure := range result.Failures {
		t.Errorf("%s: %s", scenario.Name, failure)
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares a result's trace against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := session.CanonicalTrace(result.Session.Token(), result.Trace)
	traceJSON, err := survey.MarshalCanonical(snapshot)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
