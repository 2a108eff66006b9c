package engine

import "github.com/quillhq/quill/internal/survey"

// EvalRule combines a rule's conditions per its match mode.
//
// A nil rule or an empty condition list is always satisfied: everything
// with no constraints is visible by default. ALL is conjunction, ANY is
// disjunction; condition order is preserved for display but irrelevant to
// the result, since evaluation has no side effects.
func EvalRule(r *survey.DisplayRule, resp Responses) bool {
	if r == nil || len(r.Conditions) == 0 {
		return true
	}
	if r.Match == survey.MatchAny {
		for _, c := range r.Conditions {
			if EvalCondition(c, resp) {
				return true
			}
		}
		return false
	}
	// ALL, and any unknown match mode, behave as conjunction.
	for _, c := range r.Conditions {
		if !EvalCondition(c, resp) {
			return false
		}
	}
	return true
}

// evalConditions is the implicit-ALL form used by skip rules.
func evalConditions(conds []survey.Condition, resp Responses) bool {
	for _, c := range conds {
		if !EvalCondition(c, resp) {
			return false
		}
	}
	return true
}
