package survey

// Operator is the fixed comparison vocabulary for logic conditions.
type Operator string

const (
	OpIsSelected    Operator = "is_selected"
	OpIsNotSelected Operator = "is_not_selected"
	OpContainsAny   Operator = "contains_any"
	OpContainsAll   Operator = "contains_all"
	OpEquals        Operator = "equals"
	OpNotEquals     Operator = "not_equals"
	OpGreaterThan   Operator = "greater_than"
	OpLessThan      Operator = "less_than"
	OpBetween       Operator = "between"
	OpAnswered      Operator = "is_answered"
	OpNotAnswered   Operator = "is_not_answered"
)

// ValidOperators defines the allowed condition operators.
var ValidOperators = map[Operator]bool{
	OpIsSelected:    true,
	OpIsNotSelected: true,
	OpContainsAny:   true,
	OpContainsAll:   true,
	OpEquals:        true,
	OpNotEquals:     true,
	OpGreaterThan:   true,
	OpLessThan:      true,
	OpBetween:       true,
	OpAnswered:      true,
	OpNotAnswered:   true,
}

// Condition judges one prior answer. SourceID names the question whose
// answer is inspected; an unresolvable SourceID evaluates as "unanswered".
//
// Value is the comparison operand. For contains_any/contains_all it is a
// comma-separated set. For between it is the inclusive lower bound and
// UpperValue the inclusive upper bound; a nil UpperValue means unbounded
// above (an explicit optional, never a sentinel number).
type Condition struct {
	SourceID   string   `json:"source"`
	Op         Operator `json:"op"`
	Value      string   `json:"value,omitempty"`
	UpperValue *string  `json:"upper,omitempty"`
}

// MatchMode combines a condition list into one boolean.
type MatchMode string

const (
	MatchAll MatchMode = "ALL" // conjunction
	MatchAny MatchMode = "ANY" // disjunction
)

// DisplayRule gates the visibility of a question or a single option.
// A nil rule, or one with no conditions, is always satisfied: content with
// no constraints is visible by default.
type DisplayRule struct {
	Match      MatchMode   `json:"match"`
	Conditions []Condition `json:"conditions"`
}

// TargetTerminate is the skip-rule target sentinel that ends the interview
// instead of jumping to a question.
const TargetTerminate = "TERMINATE"

// SkipRule branches the flow after a page. Conditions are implicitly
// ALL-matched. Target is a question id or TargetTerminate.
type SkipRule struct {
	Target     string      `json:"target"`
	Conditions []Condition `json:"conditions"`
}

// Terminates reports whether the rule ends the interview.
func (r SkipRule) Terminates() bool {
	return r.Target == TargetTerminate
}
