package compiler

import (
	"fmt"
	"strings"

	"github.com/quillhq/quill/internal/survey"
)

// Validation error codes (E100-E199)
const (
	// Question errors (E101-E109)
	ErrDuplicateQuestionID  = "E101" // duplicate question id
	ErrEmptyWording         = "E102" // answerable question without wording
	ErrUnknownQuestionType  = "E103" // type tag outside the vocabulary
	ErrChoiceWithoutOptions = "E104" // choice question with no options and no carry

	// Condition and skip-rule errors (E110-E119)
	ErrUnknownOperator     = "E110" // operator outside the vocabulary
	ErrUnknownSource       = "E111" // condition references unknown question (warning)
	ErrBetweenWithoutLower = "E112" // between with empty lower bound
	ErrSkipNoConditions    = "E113" // skip rule with no conditions fires always
	ErrInvalidSkipTarget   = "E114" // target neither question id nor TERMINATE

	// Carry-forward errors (E120-E129)
	ErrCarrySourceUnknown = "E120" // carry source references unknown question
	ErrCarryCycle         = "E121" // carry chain is self-referential or cyclic

	// Choice-rule errors (E130-E139)
	ErrChoiceRuleOption = "E130" // rule option or target not declared

	// Block errors (E140-E149)
	ErrBlockUnknownQuestion = "E140" // block references unknown question id

	// Authored-data errors (E150-E159)
	ErrNegativeAnchor = "E150" // negative randomization anchor count
	ErrInvalidLimits  = "E151" // negative or inverted validation limits
)

// ValidationError represents a schema validation finding.
//
// Warning-grade findings describe definitions the engine runs fail-open
// (an unknown reference simply evaluates as unanswered); they do not
// fail validation on their own.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Warning bool   `json:"warning,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Warning {
		return fmt.Sprintf("[%s] warning: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ErrorCount returns the number of non-warning findings.
func ErrorCount(errs []ValidationError) int {
	n := 0
	for _, e := range errs {
		if !e.Warning {
			n++
		}
	}
	return n
}

// Validate checks a compiled questionnaire against the authoring schema.
// Returns all findings (does not fail-fast).
func Validate(qn *survey.Questionnaire) []ValidationError {
	var errs []ValidationError

	ids := make(map[string]bool, len(qn.Questions))
	for i := range qn.Questions {
		q := &qn.Questions[i]
		if ids[q.ID] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("questions[%d].id", i),
				Message: fmt.Sprintf("duplicate question id: %q", q.ID),
				Code:    ErrDuplicateQuestionID,
			})
		}
		ids[q.ID] = true
	}

	for i := range qn.Questions {
		errs = append(errs, validateQuestion(&qn.Questions[i], i, ids)...)
	}

	errs = append(errs, validateCarryChains(qn)...)
	errs = append(errs, validateBlocks(qn, ids)...)

	return errs
}

// validateQuestion checks one question's own data and its rules.
func validateQuestion(q *survey.Question, i int, ids map[string]bool) []ValidationError {
	var errs []ValidationError
	path := fmt.Sprintf("questions[%d]", i)

	// E103: type tag must be in the vocabulary
	if !survey.ValidQuestionTypes[q.Type] {
		errs = append(errs, ValidationError{
			Field:   path + ".type",
			Message: fmt.Sprintf("unknown question type %q", q.Type),
			Code:    ErrUnknownQuestionType,
		})
	}

	// E102: answerable questions need wording
	if !q.Type.Structural() && strings.TrimSpace(q.Text) == "" {
		errs = append(errs, ValidationError{
			Field:   path + ".text",
			Message: fmt.Sprintf("question %q has no wording", q.ID),
			Code:    ErrEmptyWording,
		})
	}

	// E104: a choice question must get options from somewhere, either
	// declared or carried forward
	if q.Type.Choice() && len(q.Options) == 0 && q.Carry == nil {
		errs = append(errs, ValidationError{
			Field:   path + ".options",
			Message: fmt.Sprintf("choice question %q declares no options and carries none forward", q.ID),
			Code:    ErrChoiceWithoutOptions,
		})
	}

	errs = append(errs, validateDisplayRule(q.Display, path+".display", ids)...)
	for option, rule := range q.OptionDisplay {
		errs = append(errs, validateDisplayRule(rule, fmt.Sprintf("%s.option_display[%q]", path, option), ids)...)
	}

	// E120: carry source must resolve
	if q.Carry != nil && !ids[q.Carry.SourceID] {
		errs = append(errs, ValidationError{
			Field:   path + ".carry.source",
			Message: fmt.Sprintf("carry-forward source %q is not a question id", q.Carry.SourceID),
			Code:    ErrCarrySourceUnknown,
		})
	}

	errs = append(errs, validateChoiceRules(q, path)...)
	errs = append(errs, validateSkipRules(q, path, ids)...)
	errs = append(errs, validateRandomization(q, path)...)
	errs = append(errs, validateLimits(q, path)...)

	return errs
}

// validateDisplayRule checks every condition of a display rule.
func validateDisplayRule(rule *survey.DisplayRule, path string, ids map[string]bool) []ValidationError {
	if rule == nil {
		return nil
	}
	var errs []ValidationError
	for j := range rule.Conditions {
		errs = append(errs, validateCondition(&rule.Conditions[j], fmt.Sprintf("%s.conditions[%d]", path, j), ids)...)
	}
	return errs
}

// validateCondition checks operator vocabulary, source resolution and
// between's lower bound.
func validateCondition(c *survey.Condition, path string, ids map[string]bool) []ValidationError {
	var errs []ValidationError

	// E110: operator must be in the vocabulary
	if !survey.ValidOperators[c.Op] {
		errs = append(errs, ValidationError{
			Field:   path + ".op",
			Message: fmt.Sprintf("unknown operator %q", c.Op),
			Code:    ErrUnknownOperator,
		})
	}

	// E111: unknown sources run fine (the engine treats them as
	// unanswered), but they are usually typos, so flag them as warnings
	if !ids[c.SourceID] {
		errs = append(errs, ValidationError{
			Field:   path + ".source",
			Message: fmt.Sprintf("condition references unknown question %q", c.SourceID),
			Code:    ErrUnknownSource,
			Warning: true,
		})
	}

	// E112: between needs a lower bound; the upper may be open
	if c.Op == survey.OpBetween && strings.TrimSpace(c.Value) == "" {
		errs = append(errs, ValidationError{
			Field:   path + ".value",
			Message: "between requires a lower bound value",
			Code:    ErrBetweenWithoutLower,
		})
	}

	return errs
}

// validateChoiceRules checks that every rule's option and block-list
// targets appear among the question's declared options.
func validateChoiceRules(q *survey.Question, path string) []ValidationError {
	var errs []ValidationError

	declared := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		declared[opt] = true
	}

	for j, rule := range q.ChoiceRules {
		rulePath := fmt.Sprintf("%s.choice_rules[%d]", path, j)
		if !declared[rule.Option] {
			errs = append(errs, ValidationError{
				Field:   rulePath + ".option",
				Message: fmt.Sprintf("choice rule names undeclared option %q", rule.Option),
				Code:    ErrChoiceRuleOption,
			})
		}
		for _, target := range rule.Targets {
			if !declared[target] {
				errs = append(errs, ValidationError{
					Field:   rulePath + ".targets",
					Message: fmt.Sprintf("block-list target %q is not a declared option", target),
					Code:    ErrChoiceRuleOption,
				})
			}
		}
	}
	return errs
}

// validateSkipRules checks skip targets and conditions.
func validateSkipRules(q *survey.Question, path string, ids map[string]bool) []ValidationError {
	var errs []ValidationError
	for j, rule := range q.SkipRules {
		rulePath := fmt.Sprintf("%s.skip_rules[%d]", path, j)

		// E113: a rule with no conditions matches unconditionally,
		// shadowing every later rule and the sequential fallthrough
		if len(rule.Conditions) == 0 {
			errs = append(errs, ValidationError{
				Field:   rulePath + ".conditions",
				Message: "skip rule has no conditions and fires on every advance",
				Code:    ErrSkipNoConditions,
			})
		}

		// E114: target must be a question id or the TERMINATE sentinel
		if !rule.Terminates() && !ids[rule.Target] {
			errs = append(errs, ValidationError{
				Field:   rulePath + ".target",
				Message: fmt.Sprintf("skip target %q is neither a question id nor %s", rule.Target, survey.TargetTerminate),
				Code:    ErrInvalidSkipTarget,
			})
		}

		for k := range rule.Conditions {
			errs = append(errs, validateCondition(&rule.Conditions[k], fmt.Sprintf("%s.conditions[%d]", rulePath, k), ids)...)
		}
	}
	return errs
}

// validateRandomization rejects negative anchor counts.
func validateRandomization(q *survey.Question, path string) []ValidationError {
	if q.Randomization == nil {
		return nil
	}
	var errs []ValidationError
	if q.Randomization.AnchorFirst < 0 {
		errs = append(errs, ValidationError{
			Field:   path + ".randomization.anchor_first",
			Message: fmt.Sprintf("anchor count must not be negative, got %d", q.Randomization.AnchorFirst),
			Code:    ErrNegativeAnchor,
		})
	}
	if q.Randomization.AnchorLast < 0 {
		errs = append(errs, ValidationError{
			Field:   path + ".randomization.anchor_last",
			Message: fmt.Sprintf("anchor count must not be negative, got %d", q.Randomization.AnchorLast),
			Code:    ErrNegativeAnchor,
		})
	}
	return errs
}

// validateLimits rejects negative character limits and inverted ranges.
func validateLimits(q *survey.Question, path string) []ValidationError {
	if q.Limits == nil {
		return nil
	}
	var errs []ValidationError
	l := q.Limits

	if l.CharLimit != nil && *l.CharLimit < 0 {
		errs = append(errs, ValidationError{
			Field:   path + ".limits.char_limit",
			Message: fmt.Sprintf("character limit must not be negative, got %d", *l.CharLimit),
			Code:    ErrInvalidLimits,
		})
	}
	if l.Min != nil && l.Max != nil && *l.Min > *l.Max {
		errs = append(errs, ValidationError{
			Field:   path + ".limits",
			Message: fmt.Sprintf("min %v exceeds max %v", *l.Min, *l.Max),
			Code:    ErrInvalidLimits,
		})
	}
	return errs
}

// validateCarryChains reports self-referential and cyclic carry chains.
// Unlike unknown references, a cycle can never produce options, so it is
// error-grade.
func validateCarryChains(qn *survey.Questionnaire) []ValidationError {
	var errs []ValidationError
	for _, cycle := range DetectCarryCycles(qn) {
		errs = append(errs, ValidationError{
			Field:   "carry",
			Message: fmt.Sprintf("carry-forward cycle: %s", strings.Join(cycle.Path, " -> ")),
			Code:    ErrCarryCycle,
		})
	}
	return errs
}

// validateBlocks checks that block entries resolve to question ids.
func validateBlocks(qn *survey.Questionnaire, ids map[string]bool) []ValidationError {
	var errs []ValidationError
	for i, b := range qn.Blocks {
		for _, id := range b.QuestionIDs {
			if !ids[id] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("blocks[%d].questions", i),
					Message: fmt.Sprintf("block %q references unknown question %q", b.Name, id),
					Code:    ErrBlockUnknownQuestion,
				})
			}
		}
	}
	return errs
}
