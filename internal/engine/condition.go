package engine

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quillhq/quill/internal/survey"
)

// EvalCondition judges a single logic condition against the response set.
//
// A source with no entry in the store satisfies only is_not_answered;
// every other operator is unmet. Unknown operators are satisfied: the
// permissive default keeps half-edited rules from hiding content, and the
// compiler reports them at authoring time.
func EvalCondition(c survey.Condition, resp Responses) bool {
	val, ok := resp.Get(c.SourceID)
	if !ok {
		return c.Op == survey.OpNotAnswered
	}

	switch c.Op {
	case survey.OpIsSelected, survey.OpEquals:
		return survey.Matches(val, c.Value)

	case survey.OpIsNotSelected, survey.OpNotEquals:
		return !survey.Matches(val, c.Value)

	case survey.OpContainsAny:
		return containsAny(val, c.Value)

	case survey.OpContainsAll:
		return containsAll(val, c.Value)

	case survey.OpGreaterThan:
		n, target, ok := numericPair(val, c.Value)
		return ok && n.GreaterThan(target)

	case survey.OpLessThan:
		n, target, ok := numericPair(val, c.Value)
		return ok && n.LessThan(target)

	case survey.OpBetween:
		return betweenInclusive(val, c.Value, c.UpperValue)

	case survey.OpAnswered:
		return !val.Empty()

	case survey.OpNotAnswered:
		return val.Empty()

	default:
		// Permissive fallback for unknown operators.
		return true
	}
}

// containsAny reports set intersection for selections, substring
// containment for scalars. The condition value is a comma-separated set.
func containsAny(val survey.Answer, condValue string) bool {
	sel, isList := val.(survey.Selection)
	if !isList {
		return strings.Contains(answerText(val), condValue)
	}
	for _, want := range splitSet(condValue) {
		if sel.Contains(want) {
			return true
		}
	}
	return false
}

// containsAll is only meaningful for selections: every token of the
// comma-separated requirement set must be selected. Scalars never satisfy it.
func containsAll(val survey.Answer, condValue string) bool {
	sel, isList := val.(survey.Selection)
	if !isList {
		return false
	}
	for _, want := range splitSet(condValue) {
		if !sel.Contains(want) {
			return false
		}
	}
	return true
}

// betweenInclusive checks lower <= v <= upper. A nil upper bound means
// unbounded above. Any non-numeric operand leaves the condition unmet.
func betweenInclusive(val survey.Answer, lower string, upper *string) bool {
	n, lo, ok := numericPair(val, lower)
	if !ok || n.LessThan(lo) {
		return false
	}
	if upper == nil {
		return true
	}
	hi, err := decimal.NewFromString(strings.TrimSpace(*upper))
	if err != nil {
		return false
	}
	return !n.GreaterThan(hi)
}

// numericPair coerces the answer and the condition operand to decimals.
// A single-element selection coerces as its sole element; any larger
// selection fails coercion, as does any malformed number.
func numericPair(val survey.Answer, operand string) (n, target decimal.Decimal, ok bool) {
	var raw string
	switch v := val.(type) {
	case survey.Text:
		raw = string(v)
	case survey.Selection:
		if len(v) != 1 {
			return n, target, false
		}
		raw = v[0]
	default:
		return n, target, false
	}

	n, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return n, target, false
	}
	target, err = decimal.NewFromString(strings.TrimSpace(operand))
	if err != nil {
		return n, target, false
	}
	return n, target, true
}

// answerText renders a scalar answer for textual comparison.
func answerText(val survey.Answer) string {
	switch v := val.(type) {
	case survey.Text:
		return string(v)
	case survey.Selection:
		return v.Join()
	}
	return ""
}

// splitSet splits a comma-separated condition value into trimmed,
// non-empty tokens.
func splitSet(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
