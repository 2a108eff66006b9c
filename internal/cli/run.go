package cli

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/quillhq/quill/internal/engine"
	"github.com/quillhq/quill/internal/harness"
	"github.com/quillhq/quill/internal/session"
	"github.com/quillhq/quill/internal/survey"
	"github.com/quillhq/quill/internal/testutil"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Questionnaire string
	Script        string

	// Tokens allows overriding the session token generator (for testing).
	// If nil, defaults to UUIDv7 tokens.
	Tokens session.TokenGenerator
}

// RunScript is the YAML shape of a scripted session.
type RunScript struct {
	// Questionnaire selects by name; overrides the --questionnaire flag.
	Questionnaire string `yaml:"questionnaire,omitempty"`

	// SessionToken fixes the session token for reproducible traces.
	SessionToken string `yaml:"session_token,omitempty"`

	// Date freezes the clock used by {{SYSTEM:DATE}}, formatted 2006-01-02.
	Date string `yaml:"date,omitempty"`

	// Steps is the scripted respondent behavior, in order.
	Steps []harness.Step `yaml:"steps"`
}

// RunResult is the outcome of a scripted session.
type RunResult struct {
	Questionnaire string                    `json:"questionnaire"`
	Token         string                    `json:"token"`
	Finished      bool                      `json:"finished"`
	Terminated    bool                      `json:"terminated"`
	PageIndex     int                       `json:"page_index"`
	PageCount     int                       `json:"page_count"`
	Progress      int                       `json:"progress"`
	Page          []engine.ResolvedQuestion `json:"page,omitempty"`
	Trace         []session.Event           `json:"trace"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <definitions-dir>",
		Short: "Execute a scripted respondent session",
		Long: `Execute a scripted respondent session against a questionnaire.

The script is a YAML file of answer, toggle, clear and navigation steps.
After the script runs, the command prints the resolved current page
(piped wording, carried and filtered options, per-option state) and the
session trace.

Example:
  quill run ./definitions --script session.yaml
  quill run ./definitions --script session.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScripted(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Questionnaire, "questionnaire", "", "questionnaire name (defaults to the first loaded)")
	cmd.Flags().StringVar(&opts.Script, "script", "", "YAML step script (required)")
	_ = cmd.MarkFlagRequired("script")

	return cmd
}

func runScripted(opts *RunOptions, dir string, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	script, err := loadRunScript(opts.Script)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load script", err)
	}

	name := opts.Questionnaire
	if script.Questionnaire != "" {
		name = script.Questionnaire
	}
	qn, err := loadOneQuestionnaire(dir, name, formatter)
	if err != nil {
		return err
	}
	logger.Info("questionnaire loaded", "name", qn.Name, "questions", len(qn.Questions))

	sess, err := newScriptedSession(qn, script, opts.Tokens)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start session", err)
	}

	for i := range script.Steps {
		before := sess.PageIndex()
		if err := harness.ApplyStep(sess, &script.Steps[i]); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("steps[%d]", i), err)
		}
		logger.Debug("step applied", "step", i, "page", sess.PageIndex(), "finished", sess.Finished())
		if sess.PageIndex() != before {
			logger.Info("navigated", "from", before, "to", sess.PageIndex())
		}
	}
	logger.Info("script finished",
		"finished", sess.Finished(),
		"terminated", sess.Terminated(),
		"progress", sess.Progress(),
	)

	result := RunResult{
		Questionnaire: qn.Name,
		Token:         sess.Token(),
		Finished:      sess.Finished(),
		Terminated:    sess.Terminated(),
		PageIndex:     sess.PageIndex(),
		PageCount:     sess.PageCount(),
		Progress:      sess.Progress(),
		Trace:         sess.Trace(),
	}
	if !sess.Finished() {
		result.Page = sess.Resolved()
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return printRunResult(formatter, sess, result)
}

// loadRunScript reads and parses a step script.
func loadRunScript(path string) (*RunScript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script RunScript
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&script); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("script has no steps")
	}
	return &script, nil
}

// newScriptedSession builds the session, honoring the script's fixed
// token and frozen clock when present.
func newScriptedSession(qn *survey.Questionnaire, script *RunScript, tokens session.TokenGenerator) (*session.Session, error) {
	var sessOpts []session.Option

	switch {
	case script.SessionToken != "":
		sessOpts = append(sessOpts, session.WithTokenGenerator(testutil.NewFixedTokenGenerator(script.SessionToken)))
	case tokens != nil:
		sessOpts = append(sessOpts, session.WithTokenGenerator(tokens))
	}

	if script.Date != "" {
		at, err := time.Parse("2006-01-02", script.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid script date %q: %w", script.Date, err)
		}
		sessOpts = append(sessOpts, session.WithClock(testutil.NewFixedClock(at).Now))
	}

	return session.New(qn, sessOpts...), nil
}

// printRunResult renders the text form: status line, resolved current
// page, canonical trace.
func printRunResult(formatter *OutputFormatter, sess *session.Session, result RunResult) error {
	w := formatter.Writer

	switch {
	case result.Terminated:
		fmt.Fprintf(w, "%s: terminated (session %s)\n", result.Questionnaire, result.Token)
	case result.Finished:
		fmt.Fprintf(w, "%s: completed (session %s)\n", result.Questionnaire, result.Token)
	default:
		fmt.Fprintf(w, "%s: page %d of %d, %d%% (session %s)\n",
			result.Questionnaire, result.PageIndex+1, result.PageCount, result.Progress, result.Token)
	}

	for _, rq := range result.Page {
		fmt.Fprintf(w, "\n[%s] %s\n", rq.ID, rq.Text)
		if rq.InterviewerNote != "" {
			fmt.Fprintf(w, "  note: %s\n", rq.InterviewerNote)
		}
		for _, opt := range rq.Options {
			marker := " "
			switch {
			case opt.Disabled:
				marker = "x"
			case opt.Carried:
				marker = "^"
			}
			fmt.Fprintf(w, "  [%s] %s\n", marker, opt.Label)
		}
	}

	traceJSON, err := survey.MarshalCanonical(session.CanonicalTrace(result.Token, result.Trace))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\ntrace: %s\n", traceJSON)
	return nil
}
