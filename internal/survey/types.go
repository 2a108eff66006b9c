package survey

// QuestionType tags the answerable shape of a question.
type QuestionType string

const (
	TypeSingleSelect QuestionType = "single_select"
	TypeMultiSelect  QuestionType = "multi_select"
	TypeNumeric      QuestionType = "numeric"
	TypeOpenText     QuestionType = "open_text"
	TypeGrid         QuestionType = "grid"
	TypeNPS          QuestionType = "nps"
	TypeDate         QuestionType = "date"

	// TypePageBreak is a degenerate question type carrying no answerable
	// content. It exists purely as a segmentation marker in the same
	// ordered sequence as real questions.
	TypePageBreak QuestionType = "page_break"
)

// ValidQuestionTypes defines the allowed question type tags.
var ValidQuestionTypes = map[QuestionType]bool{
	TypeSingleSelect: true,
	TypeMultiSelect:  true,
	TypeNumeric:      true,
	TypeOpenText:     true,
	TypeGrid:         true,
	TypeNPS:          true,
	TypeDate:         true,
	TypePageBreak:    true,
}

// MultiValued reports whether answers to this type are ordered string lists
// rather than scalars.
func (t QuestionType) MultiValued() bool {
	return t == TypeMultiSelect
}

// Structural reports whether the type is a segmentation marker rather than
// respondent-facing content.
func (t QuestionType) Structural() bool {
	return t == TypePageBreak
}

// Choice reports whether the type carries a declared option list.
func (t QuestionType) Choice() bool {
	switch t {
	case TypeSingleSelect, TypeMultiSelect, TypeGrid:
		return true
	}
	return false
}

// CarryMode selects which source options a carry-forward inherits.
type CarryMode string

const (
	CarrySelected   CarryMode = "selected"
	CarryUnselected CarryMode = "unselected"
	CarryAll        CarryMode = "all"
	CarryDisplayed  CarryMode = "displayed"

	// CarryNotDisplayed exists in the authoring vocabulary but resolves to
	// nothing at runtime: per-respondent display history is not tracked,
	// only live visibility is recomputed.
	CarryNotDisplayed CarryMode = "not_displayed"
)

// ValidCarryModes defines the allowed carry-forward modes.
var ValidCarryModes = map[CarryMode]bool{
	CarrySelected:     true,
	CarryUnselected:   true,
	CarryAll:          true,
	CarryDisplayed:    true,
	CarryNotDisplayed: true,
}

// CarryForward configures option inheritance from an earlier question.
type CarryForward struct {
	SourceID string    `json:"source"`
	Mode     CarryMode `json:"mode"`
}

// ChoiceMode is the enforcement mode of a choice-blocking rule.
type ChoiceMode string

const (
	// ChoiceExclusive makes the option mutually exclusive: selecting it
	// clears all other selections, and it cannot join a non-empty selection.
	ChoiceExclusive ChoiceMode = "exclusive"

	// ChoiceBlockList forbids a named subset of other options while the
	// source option is selected.
	ChoiceBlockList ChoiceMode = "block_list"
)

// ChoiceRule constrains which option combinations a multi-select accepts.
type ChoiceRule struct {
	Option  string     `json:"option"`
	Mode    ChoiceMode `json:"mode"`
	Targets []string   `json:"targets,omitempty"` // block_list only
}

// Randomization is authored option-shuffle configuration. It is carried and
// validated but not evaluated by the logic engine.
type Randomization struct {
	Shuffle     bool `json:"shuffle"`
	AnchorFirst int  `json:"anchor_first,omitempty"`
	AnchorLast  int  `json:"anchor_last,omitempty"`
}

// Limits holds authored answer-validation bounds. Enforcement belongs to the
// rendering surface, not the evaluation engine.
type Limits struct {
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	SumTo     *float64 `json:"sum_to,omitempty"`
	CharLimit *int     `json:"char_limit,omitempty"`
}

// Question is a single authored questionnaire item.
//
// Text may interleave piped-text placeholder tokens of the shape
// {{SOURCE:KIND}}; resolution happens at render time against the response
// store, never at authoring time.
type Question struct {
	ID              string       `json:"id"`
	Type            QuestionType `json:"type"`
	Text            string       `json:"text"`
	InterviewerNote string       `json:"interviewer_note,omitempty"`

	Options          []string `json:"options,omitempty"`
	SecondaryOptions []string `json:"secondary_options,omitempty"`
	GridRows         []string `json:"grid_rows,omitempty"`

	Required bool `json:"required"`

	Display       *DisplayRule            `json:"display,omitempty"`
	OptionDisplay map[string]*DisplayRule `json:"option_display,omitempty"`
	Carry         *CarryForward           `json:"carry,omitempty"`
	ChoiceRules   []ChoiceRule            `json:"choice_rules,omitempty"`
	SkipRules     []SkipRule              `json:"skip_rules,omitempty"`
	Randomization *Randomization          `json:"randomization,omitempty"`
	Limits        *Limits                 `json:"limits,omitempty"`
}

// ChoiceRuleFor returns the blocking rule governing the given option, or nil.
func (q *Question) ChoiceRuleFor(option string) *ChoiceRule {
	for i := range q.ChoiceRules {
		if q.ChoiceRules[i].Option == option {
			return &q.ChoiceRules[i]
		}
	}
	return nil
}

// Block is a named ordered grouping of question ids. Blocks organize
// authoring; the logic engine only sees the flattened sequence.
type Block struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	QuestionIDs []string `json:"questions"`
}

// Questionnaire is a complete authored definition.
type Questionnaire struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
	Blocks      []Block    `json:"blocks,omitempty"`
}

// Lookup returns the question with the given id, or nil. Unresolvable
// references are an expected condition: logic referencing them evaluates
// as "unanswered" rather than erroring.
func (qn *Questionnaire) Lookup(id string) *Question {
	for i := range qn.Questions {
		if qn.Questions[i].ID == id {
			return &qn.Questions[i]
		}
	}
	return nil
}

// Flatten returns the evaluation-order question sequence: block contents
// concatenated in block order, followed by unblocked questions in authored
// order. With no blocks the authored order is the sequence.
//
// Block entries referencing unknown question ids are skipped; a question
// claimed by multiple blocks appears only at its first position.
func (qn *Questionnaire) Flatten() []*Question {
	if len(qn.Blocks) == 0 {
		out := make([]*Question, len(qn.Questions))
		for i := range qn.Questions {
			out[i] = &qn.Questions[i]
		}
		return out
	}

	seen := make(map[string]bool, len(qn.Questions))
	out := make([]*Question, 0, len(qn.Questions))
	for _, b := range qn.Blocks {
		for _, id := range b.QuestionIDs {
			if seen[id] {
				continue
			}
			if q := qn.Lookup(id); q != nil {
				seen[id] = true
				out = append(out, q)
			}
		}
	}
	for i := range qn.Questions {
		if !seen[qn.Questions[i].ID] {
			out = append(out, &qn.Questions[i])
		}
	}
	return out
}
