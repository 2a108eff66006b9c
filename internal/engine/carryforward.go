package engine

import "github.com/quillhq/quill/internal/survey"

// CarriedOptions computes the option list a question inherits from its
// carry-forward source, in source-declared order. The result is appended
// to the destination's own options by the caller; duplicates against the
// destination list are deliberately not collapsed.
//
// An unresolvable source, a source without declared options, or a config
// without a source id all carry nothing.
//
// Policy: a source that is entirely unanswered (no entry, or an empty
// answer) carries nothing in both Selected and Unselected modes. The
// Unselected complement is only meaningful once the respondent has picked
// something.
func CarriedOptions(qn *survey.Questionnaire, q *survey.Question, resp Responses) []string {
	cf := q.Carry
	if cf == nil || cf.SourceID == "" {
		return nil
	}
	src := qn.Lookup(cf.SourceID)
	if src == nil || len(src.Options) == 0 {
		return nil
	}

	switch cf.Mode {
	case survey.CarrySelected:
		ans, ok := resp.Get(cf.SourceID)
		if !ok || ans.Empty() {
			return nil
		}
		return filterOptions(src.Options, func(opt string) bool {
			return survey.Matches(ans, opt)
		})

	case survey.CarryUnselected:
		ans, ok := resp.Get(cf.SourceID)
		if !ok || ans.Empty() {
			return nil
		}
		return filterOptions(src.Options, func(opt string) bool {
			return !survey.Matches(ans, opt)
		})

	case survey.CarryAll, survey.CarryDisplayed:
		// "Displayed" collapses to the full list: per-respondent display
		// history is not tracked, only live visibility is recomputed, and
		// the visibility filter runs downstream of this resolver anyway.
		out := make([]string, len(src.Options))
		copy(out, src.Options)
		return out

	case survey.CarryNotDisplayed:
		return nil

	default:
		return nil
	}
}

func filterOptions(options []string, keep func(string) bool) []string {
	var out []string
	for _, opt := range options {
		if keep(opt) {
			out = append(out, opt)
		}
	}
	return out
}
