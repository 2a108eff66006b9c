package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter string // scenario filter (glob pattern on scenario name)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name     string   `json:"name"`
	Pass     bool     `json:"pass"`
	Failures []string `json:"failures,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run conformance scenarios",
		Long: `Run conformance scenarios against their questionnaire definitions.

Each scenario file scripts one respondent session and asserts on the
derived pages, resolved content and completion state. Definition paths
inside a scenario resolve relative to the scenario file.

Exit codes:
  0 - all scenarios passed
  1 - one or more scenarios failed
  2 - command error (invalid paths, malformed scenarios)

Examples:
  quill test ./scenarios
  quill test ./scenarios --filter "carry-*"
  quill test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runScenarios(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	scenarioFiles, err := findScenarioFiles(scenariosDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}
	if len(scenarioFiles) == 0 {
		if opts.Format == "json" {
			return outputTestJSON(cmd, TestResult{Scenarios: []ScenarioResult{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(scenarioFiles))}
	for _, scenarioFile := range scenarioFiles {
		scenResult, err := runOneScenario(scenarioFile, opts.Filter)
		if err != nil {
			return WrapExitError(ExitCommandError, scenarioFile, err)
		}
		if scenResult == nil {
			continue // filtered out
		}
		result.Scenarios = append(result.Scenarios, *scenResult)
		result.Total++
		if scenResult.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		if err := outputTestJSON(cmd, result); err != nil {
			return err
		}
	} else {
		printTestResult(cmd, result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario(s) failed", result.Failed, result.Total))
	}
	return nil
}

// runOneScenario loads and executes one scenario file. Returns nil when
// the filter excludes it.
func runOneScenario(path, filter string) (*ScenarioResult, error) {
	scenario, err := harness.LoadScenarioWithBasePath(path, filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	if filter != "" {
		matched, matchErr := filepath.Match(filter, scenario.Name)
		if matchErr != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, matchErr)
		}
		if !matched {
			return nil, nil
		}
	}

	run, err := harness.Run(scenario)
	if err != nil {
		return nil, err
	}
	return &ScenarioResult{
		Name:     scenario.Name,
		Pass:     run.Pass,
		Failures: run.Failures,
	}, nil
}

// findScenarioFiles returns every .yaml/.yml file under dir, sorted for
// stable run order.
func findScenarioFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

func outputTestJSON(cmd *cobra.Command, result TestResult) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(CLIResponse{Status: "ok", Data: result})
}

func printTestResult(cmd *cobra.Command, result TestResult) {
	w := cmd.OutOrStdout()
	for _, scen := range result.Scenarios {
		if scen.Pass {
			fmt.Fprintf(w, "✓ %s\n", scen.Name)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", scen.Name)
		for _, failure := range scen.Failures {
			fmt.Fprintf(w, "    %s\n", failure)
		}
	}
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
}
