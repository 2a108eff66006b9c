package engine

import (
	"github.com/quillhq/quill/internal/piping"
	"github.com/quillhq/quill/internal/survey"
)

// ResolvedOption is one selectable choice, fully gated for rendering.
type ResolvedOption struct {
	Label string

	// Carried marks options inherited through carry-forward.
	Carried bool

	// Disabled marks options the choice constraints currently forbid.
	// Only multi-select questions ever disable options.
	Disabled bool

	// Exclusive marks options governed by a mutually-exclusive rule.
	Exclusive bool
}

// ResolvedQuestion is a visible question materialized for display:
// wording with piped text substituted, the candidate option list after
// carry-forward and per-option visibility, and per-option enabled state.
type ResolvedQuestion struct {
	ID              string
	Type            survey.QuestionType
	Text            string
	InterviewerNote string
	Required        bool
	Options         []ResolvedOption
	GridRows        []string
}

// ResolvePage materializes every question on a page. Pure function of the
// questionnaire, the page and the response store; recomputed in full on
// every mutation.
func ResolvePage(qn *survey.Questionnaire, page Page, resp Responses, piper *piping.Resolver) []ResolvedQuestion {
	out := make([]ResolvedQuestion, 0, len(page.Questions))
	for _, q := range page.Questions {
		out = append(out, ResolveQuestion(qn, q, resp, piper))
	}
	return out
}

// ResolveQuestion materializes a single question. Carry-forward resolves
// before the option-visibility filter so inherited options are subject to
// per-option display rules.
func ResolveQuestion(qn *survey.Questionnaire, q *survey.Question, resp Responses, piper *piping.Resolver) ResolvedQuestion {
	carried := CarriedOptions(qn, q, resp)
	visible := VisibleOptions(q, carried, resp)

	var selection []string
	if q.Type.MultiValued() {
		if ans, ok := resp.Get(q.ID); ok {
			if sel, isList := ans.(survey.Selection); isList {
				selection = sel
			}
		}
	}

	carriedSet := make(map[string]bool, len(carried))
	for _, opt := range carried {
		carriedSet[opt] = true
	}

	options := make([]ResolvedOption, 0, len(visible))
	for _, opt := range visible {
		ro := ResolvedOption{
			Label:   opt,
			Carried: carriedSet[opt],
		}
		if r := q.ChoiceRuleFor(opt); r != nil && r.Mode == survey.ChoiceExclusive {
			ro.Exclusive = true
		}
		if q.Type.MultiValued() {
			ro.Disabled = ChoiceDisabled(q, selection, opt)
		}
		options = append(options, ro)
	}

	text := q.Text
	if piper != nil {
		text = piper.Resolve(text, resp)
	}

	return ResolvedQuestion{
		ID:              q.ID,
		Type:            q.Type,
		Text:            text,
		InterviewerNote: q.InterviewerNote,
		Required:        q.Required,
		Options:         options,
		GridRows:        q.GridRows,
	}
}
