package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/quillhq/quill/internal/survey"
)

// CompileQuestionnaire parses a CUE value into a survey.Questionnaire.
// Uses the CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the questionnaire struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`questionnaire: brand_tracker: { ... }`)
//	qn, err := CompileQuestionnaire(v.LookupPath(cue.ParsePath("questionnaire.brand_tracker")))
//
// Compilation is shape-strict but vocabulary-permissive: a question with
// an unknown type tag or a condition with an unknown operator compiles
// fine and is reported by Validate instead. The runtime treats unknown
// vocabulary fail-open, so compiled-but-flagged definitions stay usable.
func CompileQuestionnaire(v cue.Value) (*survey.Questionnaire, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	qn := &survey.Questionnaire{}

	// Default the name to the struct label (the path selector); an
	// explicit name field wins.
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		qn.Name = labels[len(labels)-1].String()
	}
	if nameVal := v.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		qn.Name = name
	}

	if descVal := v.LookupPath(cue.ParsePath("description")); descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		qn.Description = desc
	}

	// Parse questions (required, at least one). Order is load-bearing:
	// the authored sequence is the evaluation order.
	questionsVal := v.LookupPath(cue.ParsePath("questions"))
	if !questionsVal.Exists() {
		return nil, &CompileError{
			Field:   "questions",
			Message: "questions list is required",
			Pos:     v.Pos(),
		}
	}
	iter, err := questionsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		q, qErr := parseQuestion(iter.Value())
		if qErr != nil {
			return nil, qErr
		}
		qn.Questions = append(qn.Questions, q)
	}
	if len(qn.Questions) == 0 {
		return nil, &CompileError{
			Field:   "questions",
			Message: "at least one question is required",
			Pos:     questionsVal.Pos(),
		}
	}

	qn.Blocks, err = parseBlocks(v)
	if err != nil {
		return nil, err
	}

	return qn, nil
}

// parseQuestion parses one entry of the questions list.
func parseQuestion(v cue.Value) (survey.Question, error) {
	var q survey.Question

	id, err := requiredString(v, "id")
	if err != nil {
		return q, err
	}
	q.ID = id

	typ, err := requiredString(v, "type")
	if err != nil {
		return q, err
	}
	q.Type = survey.QuestionType(typ)

	q.Text, err = optionalString(v, "text")
	if err != nil {
		return q, err
	}
	q.InterviewerNote, err = optionalString(v, "note")
	if err != nil {
		return q, err
	}

	q.Options, err = stringList(v, "options")
	if err != nil {
		return q, err
	}
	q.SecondaryOptions, err = stringList(v, "secondary_options")
	if err != nil {
		return q, err
	}
	q.GridRows, err = stringList(v, "rows")
	if err != nil {
		return q, err
	}

	if reqVal := v.LookupPath(cue.ParsePath("required")); reqVal.Exists() {
		required, boolErr := reqVal.Bool()
		if boolErr != nil {
			return q, formatCUEError(boolErr)
		}
		q.Required = required
	}

	if dispVal := v.LookupPath(cue.ParsePath("display")); dispVal.Exists() {
		rule, ruleErr := parseDisplayRule(dispVal)
		if ruleErr != nil {
			return q, ruleErr
		}
		q.Display = rule
	}

	q.OptionDisplay, err = parseOptionDisplay(v)
	if err != nil {
		return q, err
	}

	if carryVal := v.LookupPath(cue.ParsePath("carry")); carryVal.Exists() {
		carry, carryErr := parseCarry(carryVal)
		if carryErr != nil {
			return q, carryErr
		}
		q.Carry = carry
	}

	q.ChoiceRules, err = parseChoiceRules(v)
	if err != nil {
		return q, err
	}
	q.SkipRules, err = parseSkipRules(v)
	if err != nil {
		return q, err
	}

	if randVal := v.LookupPath(cue.ParsePath("randomization")); randVal.Exists() {
		rand, randErr := parseRandomization(randVal)
		if randErr != nil {
			return q, randErr
		}
		q.Randomization = rand
	}

	if limVal := v.LookupPath(cue.ParsePath("limits")); limVal.Exists() {
		limits, limErr := parseLimits(limVal)
		if limErr != nil {
			return q, limErr
		}
		q.Limits = limits
	}

	return q, nil
}

// parseDisplayRule parses {match, conditions}. Match defaults to ALL,
// mirroring the runtime treating unknown match modes as conjunction.
func parseDisplayRule(v cue.Value) (*survey.DisplayRule, error) {
	rule := &survey.DisplayRule{Match: survey.MatchAll}

	if matchVal := v.LookupPath(cue.ParsePath("match")); matchVal.Exists() {
		match, err := matchVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		rule.Match = survey.MatchMode(match)
	}

	conds, err := parseConditions(v.LookupPath(cue.ParsePath("conditions")))
	if err != nil {
		return nil, err
	}
	rule.Conditions = conds
	return rule, nil
}

// parseOptionDisplay parses option_display: option label → display rule.
func parseOptionDisplay(v cue.Value) (map[string]*survey.DisplayRule, error) {
	odVal := v.LookupPath(cue.ParsePath("option_display"))
	if !odVal.Exists() {
		return nil, nil
	}

	iter, err := odVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	out := make(map[string]*survey.DisplayRule)
	for iter.Next() {
		rule, ruleErr := parseDisplayRule(iter.Value())
		if ruleErr != nil {
			return nil, ruleErr
		}
		out[iter.Label()] = rule
	}
	return out, nil
}

// parseConditions parses a condition list. A missing value yields nil,
// which both rule kinds treat as always-satisfied.
func parseConditions(v cue.Value) ([]survey.Condition, error) {
	if !v.Exists() {
		return nil, nil
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var conds []survey.Condition
	for iter.Next() {
		c, cErr := parseCondition(iter.Value())
		if cErr != nil {
			return nil, cErr
		}
		conds = append(conds, c)
	}
	return conds, nil
}

// parseCondition parses {source, op, value?, upper?}. Comparison operands
// are authored as strings; numeric operators coerce at evaluation time.
func parseCondition(v cue.Value) (survey.Condition, error) {
	var c survey.Condition

	source, err := requiredString(v, "source")
	if err != nil {
		return c, err
	}
	c.SourceID = source

	op, err := requiredString(v, "op")
	if err != nil {
		return c, err
	}
	c.Op = survey.Operator(op)

	c.Value, err = optionalString(v, "value")
	if err != nil {
		return c, err
	}

	if upperVal := v.LookupPath(cue.ParsePath("upper")); upperVal.Exists() {
		upper, upperErr := upperVal.String()
		if upperErr != nil {
			return c, formatCUEError(upperErr)
		}
		c.UpperValue = &upper
	}

	return c, nil
}

// parseCarry parses {source, mode}. Mode defaults to selected, the
// overwhelmingly common authoring case.
func parseCarry(v cue.Value) (*survey.CarryForward, error) {
	source, err := requiredString(v, "source")
	if err != nil {
		return nil, err
	}
	carry := &survey.CarryForward{SourceID: source, Mode: survey.CarrySelected}

	if modeVal := v.LookupPath(cue.ParsePath("mode")); modeVal.Exists() {
		mode, modeErr := modeVal.String()
		if modeErr != nil {
			return nil, formatCUEError(modeErr)
		}
		carry.Mode = survey.CarryMode(mode)
	}
	return carry, nil
}

// parseChoiceRules parses choice_rules: [{option, mode, targets?}].
func parseChoiceRules(v cue.Value) ([]survey.ChoiceRule, error) {
	rulesVal := v.LookupPath(cue.ParsePath("choice_rules"))
	if !rulesVal.Exists() {
		return nil, nil
	}
	iter, err := rulesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var rules []survey.ChoiceRule
	for iter.Next() {
		rv := iter.Value()
		option, optErr := requiredString(rv, "option")
		if optErr != nil {
			return nil, optErr
		}
		mode, modeErr := requiredString(rv, "mode")
		if modeErr != nil {
			return nil, modeErr
		}
		targets, tErr := stringList(rv, "targets")
		if tErr != nil {
			return nil, tErr
		}
		rules = append(rules, survey.ChoiceRule{
			Option:  option,
			Mode:    survey.ChoiceMode(mode),
			Targets: targets,
		})
	}
	return rules, nil
}

// parseSkipRules parses skip_rules: [{target, conditions}].
func parseSkipRules(v cue.Value) ([]survey.SkipRule, error) {
	rulesVal := v.LookupPath(cue.ParsePath("skip_rules"))
	if !rulesVal.Exists() {
		return nil, nil
	}
	iter, err := rulesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var rules []survey.SkipRule
	for iter.Next() {
		rv := iter.Value()
		target, tErr := requiredString(rv, "target")
		if tErr != nil {
			return nil, tErr
		}
		conds, cErr := parseConditions(rv.LookupPath(cue.ParsePath("conditions")))
		if cErr != nil {
			return nil, cErr
		}
		rules = append(rules, survey.SkipRule{Target: target, Conditions: conds})
	}
	return rules, nil
}

// parseRandomization parses {shuffle?, anchor_first?, anchor_last?}.
func parseRandomization(v cue.Value) (*survey.Randomization, error) {
	rand := &survey.Randomization{}

	if shVal := v.LookupPath(cue.ParsePath("shuffle")); shVal.Exists() {
		shuffle, err := shVal.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		rand.Shuffle = shuffle
	}

	first, err := optionalInt(v, "anchor_first")
	if err != nil {
		return nil, err
	}
	if first != nil {
		rand.AnchorFirst = *first
	}

	last, err := optionalInt(v, "anchor_last")
	if err != nil {
		return nil, err
	}
	if last != nil {
		rand.AnchorLast = *last
	}

	return rand, nil
}

// parseLimits parses {min?, max?, sum_to?, char_limit?}. Numeric bounds
// admit fractions, so limits are the one place floats enter the model.
func parseLimits(v cue.Value) (*survey.Limits, error) {
	limits := &survey.Limits{}
	var err error

	limits.Min, err = optionalFloat(v, "min")
	if err != nil {
		return nil, err
	}
	limits.Max, err = optionalFloat(v, "max")
	if err != nil {
		return nil, err
	}
	limits.SumTo, err = optionalFloat(v, "sum_to")
	if err != nil {
		return nil, err
	}
	limits.CharLimit, err = optionalInt(v, "char_limit")
	if err != nil {
		return nil, err
	}

	return limits, nil
}

// parseBlocks parses blocks: [{id?, name, questions}].
func parseBlocks(v cue.Value) ([]survey.Block, error) {
	blocksVal := v.LookupPath(cue.ParsePath("blocks"))
	if !blocksVal.Exists() {
		return nil, nil
	}
	iter, err := blocksVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var blocks []survey.Block
	for iter.Next() {
		bv := iter.Value()
		name, nameErr := requiredString(bv, "name")
		if nameErr != nil {
			return nil, nameErr
		}
		id, idErr := optionalString(bv, "id")
		if idErr != nil {
			return nil, idErr
		}
		ids, qErr := stringList(bv, "questions")
		if qErr != nil {
			return nil, qErr
		}
		blocks = append(blocks, survey.Block{ID: id, Name: name, QuestionIDs: ids})
	}
	return blocks, nil
}

// requiredString reads a string field, erroring with position when absent.
func requiredString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: fmt.Sprintf("%s is required", field),
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// optionalString reads a string field, returning "" when absent.
func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// optionalInt reads an int field as a pointer, nil when absent.
func optionalInt(v cue.Value, field string) (*int, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	n, err := fv.Int64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	out := int(n)
	return &out, nil
}

// optionalFloat reads a number field as a pointer, nil when absent.
func optionalFloat(v cue.Value, field string) (*float64, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	f, err := fv.Float64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	return &f, nil
}

// stringList reads a list-of-strings field, nil when absent.
func stringList(v cue.Value, field string) ([]string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, sErr := iter.Value().String()
		if sErr != nil {
			return nil, formatCUEError(sErr)
		}
		out = append(out, s)
	}
	return out, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
