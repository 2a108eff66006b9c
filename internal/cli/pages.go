package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/quillhq/quill/internal/compiler"
	"github.com/quillhq/quill/internal/engine"
	"github.com/quillhq/quill/internal/session"
	"github.com/quillhq/quill/internal/survey"
)

// PagesOptions holds flags for the pages command.
type PagesOptions struct {
	*RootOptions
	Questionnaire string
	AnswersFile   string
}

// PageView is one derived page in command output.
type PageView struct {
	Index     int      `json:"index"`
	Questions []string `json:"questions"`
}

// PagesResult holds the derived page sequence for a response state.
type PagesResult struct {
	Questionnaire string     `json:"questionnaire"`
	Pages         []PageView `json:"pages"`
}

// NewPagesCommand creates the pages command.
func NewPagesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PagesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "pages <definitions-dir>",
		Short: "Print the derived page sequence",
		Long: `Compute the page sequence of a questionnaire for a given response
state.

The sequence is derived, not stored: visibility rules are evaluated
against the answers, invisible questions are skipped, and pages that end
up empty are dropped. With no --answers file the sequence reflects a
fresh, unanswered session.

Example:
  quill pages ./definitions
  quill pages ./definitions --answers responses.yaml --questionnaire "Brand Tracker"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPages(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Questionnaire, "questionnaire", "", "questionnaire name (defaults to the first loaded)")
	cmd.Flags().StringVar(&opts.AnswersFile, "answers", "", "YAML file of question id to answer value")

	return cmd
}

func runPages(opts *PagesOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	qn, err := loadOneQuestionnaire(dir, opts.Questionnaire, formatter)
	if err != nil {
		return err
	}

	store := session.NewStore("cli")
	if opts.AnswersFile != "" {
		answers, err := loadAnswersFile(opts.AnswersFile)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load answers", err)
		}
		for id, ans := range answers {
			store.Set(id, ans)
		}
		formatter.VerboseLog("Loaded %d answer(s) from %s", store.Len(), opts.AnswersFile)
	}

	pages := engine.BuildPages(qn, store)
	result := PagesResult{
		Questionnaire: qn.Name,
		Pages:         make([]PageView, len(pages)),
	}
	for i, page := range pages {
		ids := make([]string, len(page.Questions))
		for j, q := range page.Questions {
			ids[j] = q.ID
		}
		result.Pages[i] = PageView{Index: i, Questions: ids}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "%s: %d page(s)\n", result.Questionnaire, len(result.Pages))
	for _, page := range result.Pages {
		fmt.Fprintf(formatter.Writer, "  %d: %s\n", page.Index, strings.Join(page.Questions, ", "))
	}
	return nil
}

// loadOneQuestionnaire loads a definitions directory and selects a single
// questionnaire, by name or defaulting to the first.
func loadOneQuestionnaire(dir, name string, formatter *OutputFormatter) (*survey.Questionnaire, error) {
	loaded, loadErrors := compiler.LoadDir(dir)
	if loaded == nil && len(loadErrors) > 0 {
		var loadErr *compiler.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return nil, NewExitError(ExitCommandError, loadErr.Error())
		}
		return nil, WrapExitError(ExitCommandError, "failed to load definitions", loadErrors[0])
	}
	if len(loaded.Questionnaires) == 0 {
		msg := "no questionnaires compiled"
		if len(loadErrors) > 0 {
			msg = loadErrors[0].Error()
		}
		_ = formatter.Error(compiler.ErrCodeGeneric, msg, nil)
		return nil, NewExitError(ExitCommandError, msg)
	}
	for _, err := range loadErrors {
		formatter.VerboseLog("skipping broken definition: %v", err)
	}

	if name == "" {
		return loaded.Questionnaires[0], nil
	}
	qn := loaded.Find(name)
	if qn == nil {
		msg := fmt.Sprintf("questionnaire %q not found in %s", name, dir)
		_ = formatter.Error(compiler.ErrCodeNotFound, msg, nil)
		return nil, NewExitError(ExitCommandError, msg)
	}
	return qn, nil
}

// loadAnswersFile reads a YAML map of question id to answer value.
// Strings become scalar answers, lists become selections.
func loadAnswersFile(path string) (map[string]survey.Answer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	answers := make(map[string]survey.Answer, len(raw))
	for id, val := range raw {
		ans, err := convertAnswerValue(val)
		if err != nil {
			return nil, fmt.Errorf("answer %q: %w", id, err)
		}
		answers[id] = ans
	}
	return answers, nil
}

// convertAnswerValue converts a YAML-parsed value to an Answer.
func convertAnswerValue(val any) (survey.Answer, error) {
	switch v := val.(type) {
	case nil:
		return nil, fmt.Errorf("null answers are not allowed")
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
		return nil, fmt.Errorf("unsupported answer type %T", val)
	}
}
