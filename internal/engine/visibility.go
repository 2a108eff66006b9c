package engine

import "github.com/quillhq/quill/internal/survey"

// QuestionVisible determines question-level visibility.
//
// Page breaks are structural, not content: they are always "visible" so
// segmentation can see them. Any other question is visible iff its display
// rule (absent ⇒ always true) is satisfied.
func QuestionVisible(q *survey.Question, resp Responses) bool {
	if q.Type.Structural() {
		return true
	}
	return EvalRule(q.Display, resp)
}

// VisibleOptions filters a question's candidate options (its declared
// options plus any carried-forward ones) through the per-option display
// map. Options with no map entry are always visible.
//
// Carried options must already be resolved by the caller: carry-forward
// runs before this filter so inherited options are subject to the same
// per-option rules.
func VisibleOptions(q *survey.Question, carried []string, resp Responses) []string {
	candidates := make([]string, 0, len(q.Options)+len(carried))
	candidates = append(candidates, q.Options...)
	candidates = append(candidates, carried...)

	if len(q.OptionDisplay) == 0 {
		return candidates
	}

	out := candidates[:0]
	for _, opt := range candidates {
		if EvalRule(q.OptionDisplay[opt], resp) {
			out = append(out, opt)
		}
	}
	return out
}
