package engine

import "github.com/quillhq/quill/internal/survey"

// ToggleChoice computes the next multi-select selection after the
// respondent toggles opt, honoring the question's choice-blocking rules.
//
// Deselecting is unconditional. Selecting applies constraints:
//   - A mutually-exclusive option replaces the whole selection.
//   - Otherwise every currently-selected exclusive pick is dropped
//     (selecting anything else implicitly releases it), opt is appended,
//     and if opt carries a block-list its targets are pruned.
//
// The input slice is never mutated.
func ToggleChoice(q *survey.Question, current []string, opt string) []string {
	if contains(current, opt) {
		return remove(current, opt)
	}

	rule := q.ChoiceRuleFor(opt)
	if rule != nil && rule.Mode == survey.ChoiceExclusive {
		return []string{opt}
	}

	next := make([]string, 0, len(current)+1)
	for _, sel := range current {
		if r := q.ChoiceRuleFor(sel); r != nil && r.Mode == survey.ChoiceExclusive {
			continue
		}
		next = append(next, sel)
	}
	next = append(next, opt)

	if rule != nil && rule.Mode == survey.ChoiceBlockList {
		pruned := next[:0]
		for _, sel := range next {
			if sel != opt && contains(rule.Targets, sel) {
				continue
			}
			pruned = append(pruned, sel)
		}
		next = pruned
	}
	return next
}

// ChoiceDisabled reports whether a not-yet-selected option must render
// disabled given the current selection. Stateless: recomputed on every
// selection change, with no memory of past disabled states.
//
// An option is disabled when:
//   - it is governed by a mutually-exclusive rule and something else is
//     already selected (it would only be valid as a sole choice), or
//   - a currently-selected option is mutually exclusive (blocking
//     everything else), or
//   - a currently-selected option's block-list names it.
func ChoiceDisabled(q *survey.Question, current []string, opt string) bool {
	if len(current) == 0 || contains(current, opt) {
		return false
	}

	if r := q.ChoiceRuleFor(opt); r != nil && r.Mode == survey.ChoiceExclusive {
		return true
	}

	for _, sel := range current {
		r := q.ChoiceRuleFor(sel)
		if r == nil {
			continue
		}
		switch r.Mode {
		case survey.ChoiceExclusive:
			return true
		case survey.ChoiceBlockList:
			if contains(r.Targets, opt) {
				return true
			}
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func remove(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
