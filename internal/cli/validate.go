package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/compiler"
)

// ValidationResult holds validation results for a definitions directory.
type ValidationResult struct {
	Valid          bool                       `json:"valid"`
	Questionnaires int                        `json:"questionnaires"`
	Findings       []compiler.ValidationError `json:"findings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <definitions-dir>",
		Short: "Compile and validate questionnaire definitions",
		Long: `Compile CUE questionnaire definitions and check them against the
authoring schema.

Warning-grade findings (such as conditions referencing unknown questions)
are printed but do not fail validation: the engine runs them fail-open.

Exit codes:
  0 - all definitions valid (warnings allowed)
  1 - validation findings of error grade
  2 - command error (directory missing, no CUE files, unparseable CUE)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loaded, loadErrors := compiler.LoadDir(dir)
	if loaded == nil && len(loadErrors) > 0 {
		var loadErr *compiler.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, loadErr.Error())
		}
		_ = formatter.Error(compiler.ErrCodeGeneric, loadErrors[0].Error(), nil)
		return NewExitError(ExitCommandError, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loaded.FileCount, dir)

	var findings []compiler.ValidationError

	// Per-questionnaire compile errors surface as findings so one broken
	// definition does not hide the rest.
	for _, err := range loadErrors {
		var loadErr *compiler.LoadError
		if errors.As(err, &loadErr) {
			findings = append(findings, compiler.ValidationError{
				Field:   "load",
				Message: loadErr.Message,
				Code:    loadErr.Code,
			})
			continue
		}
		findings = append(findings, compiler.ValidationError{
			Field:   "load",
			Message: err.Error(),
			Code:    compiler.ErrCodeGeneric,
		})
	}

	for _, qn := range loaded.Questionnaires {
		formatter.VerboseLog("Validating questionnaire: %s", qn.Name)
		findings = append(findings, compiler.Validate(qn)...)
	}

	result := ValidationResult{
		Valid:          compiler.ErrorCount(findings) == 0,
		Questionnaires: len(loaded.Questionnaires),
		Findings:       findings,
	}
	return outputValidationResult(formatter, result)
}

// outputValidationResult renders the result and maps error-grade findings
// to exit code 1.
func outputValidationResult(formatter *OutputFormatter, result ValidationResult) error {
	errCount := compiler.ErrorCount(result.Findings)

	if formatter.Format == "json" {
		response := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			response.Status = "error"
			response.Error = &CLIError{
				Code:    result.Findings[0].Code,
				Message: result.Findings[0].Message,
			}
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		if !result.Valid {
			return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", errCount))
		}
		return nil
	}

	if result.Valid {
		fmt.Fprintf(formatter.Writer, "✓ %d questionnaire(s) valid\n", result.Questionnaires)
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	}
	if len(result.Findings) > 0 {
		fmt.Fprintln(formatter.Writer)
		for _, finding := range result.Findings {
			fmt.Fprintf(formatter.Writer, "  %s\n", finding.Error())
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", errCount))
	}
	return nil
}
