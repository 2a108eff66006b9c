package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/internal/survey"
)

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(n int) *int           { return &n }

func TestValidateCleanQuestionnaire(t *testing.T) {
	qn := &survey.Questionnaire{
		Name: "Clean",
		Questions: []survey.Question{
			{ID: "Q1", Type: survey.TypeSingleSelect, Text: "Heard of us?", Options: []string{"Yes", "No"}},
			{ID: "PB1", Type: survey.TypePageBreak},
			{
				ID: "Q2", Type: survey.TypeOpenText, Text: "Tell us more",
				Display: &survey.DisplayRule{
					Match:      survey.MatchAll,
					Conditions: []survey.Condition{{SourceID: "Q1", Op: survey.OpIsSelected, Value: "Yes"}},
				},
			},
		},
	}

	errs := Validate(qn)
	assert.Empty(t, errs)
}

func TestValidateDuplicateQuestionID(t *testing.T) {
	qn := &survey.Questionnaire{
		Questions: []survey.Question{
			{ID: "Q1", Type: survey.TypeOpenText, Text: "a"},
			{ID: "Q1", Type: survey.TypeOpenText, Text: "b"},
		},
	}

	errs := Validate(qn)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDuplicateQuestionID, errs[0].Code)
}

func TestValidateEmptyWording(t *testing.T) {
	qn := &survey.Questionnaire{
		Questions: []survey.Question{
			{ID: "Q1", Type: survey.TypeOpenText, Text: "   "},
			// page breaks carry no wording and are exempt
			{ID: "PB1", Type: survey.TypePageBreak},
		},
	}

	errs := Validate(qn)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrEmptyWording, errs[0].Code)
	assert.Contains(t, errs[0].Message, "Q1")
}

func TestValidateUnknownQuestionType(t *testing.T) {
	qn := &survey.Questionnaire{
		Questions: []survey.Question{
			{ID: "Q1", Type: "hologram", Text: "Future"},
		},
	}

	errs := Validate(qn)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnknownQuestionType, errs[0].Code)
}

func TestValidateChoiceWithoutOptions(t *testing.T) {
	qn := &survey.Questionnaire{
		Questions: []survey.Question{
			{ID: "Q1", Type: survey.TypeMultiSelect, Text: "Pick"},
		},
	}

	errs := Validate(qn)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrChoiceWithoutOptions, errs[0].Code)
}

func TestValidateChoiceOptionsViaCarry(t *testing.T) {
	// No declared options is fine when a carry-forward supplies them.
	qn := &survey.Questionnaire{
		Questions: []survey.Question{
			{ID: "Q1", Type: survey.TypeMultiSelect, Text: "Pick", Options: []string{"A", "B"}},
			{
				ID: "Q2", Type: survey.TypeMultiSelect, Text: "Again",
				Carry: &survey.CarryForward{SourceID: "Q1", Mode: survey.CarrySelected},
			},
		},
	}

	errs := Validate(qn)
	assert.Empty(t, errs)
}

func TestValidateUnknownOperator(t *testing.T) {
	qn := &survey.Questionnaire{
		Questions: []survey.Question{
			{ID: "Q1", Type: survey.TypeOpenText, Text: "a"},
			{
				ID: "Q2", Type: survey.TypeOpenText, Text: "b",
				Display: &survey.DisplayRule{
					Conditions: []survey.Condition{{SourceID: "Q1", Op: "vibes", Value: "good"}},
				},
			},
		},
	}

	errs := Validate(qn)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnknownOperator, errs[0].Code)
}

func TestValidateUnknownSourceIsWarning(t *testing.T) {
	qn := &survey.Questionnaire{
		Questions: []survey.Question{
			{
				ID: "Q1", Type: survey.TypeOpenText, Text: "a",
				Display: &survey.DisplayRule{
					Conditions: []survey.Condition{{SourceID: "GHOST", Op: survey.OpAnswered}},
				},
			},
		},
	}

	errs := Validate(qn)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnknownSource, errs[0].Code)
	assert.True(t, errs[0].Warning)
	assert.Zero(t, ErrorCount(errs))
}

func TestValidateBetweenWithoutLowerBound(t *testing.T) {
	qn := &survey.Questionnaire{
		Questions: []survey.Question{
			{ID: "Q1", Type: survey.TypeNumeric, Text: "How many?"},
			{
				ID: "Q2", Type: survey.TypeOpenText, Text: "b",
				Display: &survey.DisplayRule{
					Conditions: []survey.Condition{{SourceID: "Q1", Op: survey.OpBetween, Value: ""}},
				},
			},
		},
	}

	errs := Validate(qn)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrBetweenWithoutLower, errs[0].Code)
}

func TestValidateSkipRules(t *testing.T) {
	qn := &survey.Questionnaire{
		Questions: []survey.Question{
			{
				ID: "Q1", Type: survey.TypeSingleSelect, Text: "Screen", Options: []string{"Yes", "No"},
				SkipRules: []survey.SkipRule{
					// fires always, shadows everything after it
					{Target: survey.TargetTerminate},
					// dangling target
					{Target: "Q99", Conditions: []survey.Condition{{SourceID: "Q1", Op: survey.OpIsSelected, Value: "No"}}},
				},
			},
		},
	}

	errs := Validate(qn)
	assert.ElementsMatch(t, []string{ErrSkipNoConditions, ErrInvalidSkipTarget}, codes(errs))
}

func TestValidateSkipTargetTerminateIsValid(t *testing.T) {
	qn := &survey.Questionnaire{
		Questions: []survey.Question{
			{
				ID: "Q1", Type: survey.TypeSingleSelect, Text: "Screen", Options: []string{"Yes", "No"},
				SkipRules: []survey.SkipRule{
					{Target: survey.TargetTerminate, Conditions: []survey.Condition{{SourceID: "Q1", Op: survey.OpIsSelected, Value: "No"}}},
				},
			},
		},
	}

	errs := Validate(qn)
	assert.Empty(t, errs)
}

func TestValidateCarrySourceUnknown(t *testing.T) {
	qn := &survey.Questionnaire{
		Questions: []survey.Question{
			{
				ID: "Q1", Type: survey.TypeMultiSelect, Text: "Pick",
				Carry: &survey.CarryForward{SourceID: "GHOST", Mode: survey.CarrySelected},
			},
		},
	}

	errs := Validate(qn)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCarrySourceUnknown, errs[0].Code)
}

func TestValidateCarrySelfReference(t *testing.T) {
	qn := &survey.Questionnaire{
		Questions: []survey.Question{
			{
				ID: "Q1", Type: survey.TypeMultiSelect, Text: "Pick", Options: []string{"A"},
				Carry: &survey.CarryForward{SourceID: "Q1", Mode: survey.CarrySelected},
			},
		},
	}

	errs := Validate(qn)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCarryCycle, errs[0].Code)
	assert.Contains(t, errs[0].Message, "Q1 -> Q1")
}

func TestValidateChoiceRuleUndeclaredOptions(t *testing.T) {
	qn := &survey.Questionnaire{
		Questions: []survey.Question{
			{
				ID: "Q1", Type: survey.TypeMultiSelect, Text: "Pick", Options: []string{"A", "B"},
				ChoiceRules: []survey.ChoiceRule{
					{Option: "Zed", Mode: survey.ChoiceExclusive},
					{Option: "A", Mode: survey.ChoiceBlockList, Targets: []string{"B", "Zed"}},
				},
			},
		},
	}

	errs := Validate(qn)
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, ErrChoiceRuleOption, e.Code)
	}
}

func TestValidateBlockUnknownQuestion(t *testing.T) {
	qn := &survey.Questionnaire{
		Questions: []survey.Question{
			{ID: "Q1", Type: survey.TypeOpenText, Text: "a"},
		},
		Blocks: []survey.Block{
			{Name: "Main", QuestionIDs: []string{"Q1", "GHOST"}},
		},
	}

	errs := Validate(qn)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrBlockUnknownQuestion, errs[0].Code)
	assert.Contains(t, errs[0].Message, "GHOST")
}

func TestValidateNegativeAnchors(t *testing.T) {
	qn := &survey.Questionnaire{
		Questions: []survey.Question{
			{
				ID: "Q1", Type: survey.TypeSingleSelect, Text: "Pick", Options: []string{"A"},
				Randomization: &survey.Randomization{Shuffle: true, AnchorFirst: -1, AnchorLast: -2},
			},
		},
	}

	errs := Validate(qn)
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, ErrNegativeAnchor, e.Code)
	}
}

func TestValidateInvalidLimits(t *testing.T) {
	qn := &survey.Questionnaire{
		Questions: []survey.Question{
			{
				ID: "Q1", Type: survey.TypeNumeric, Text: "How many?",
				Limits: &survey.Limits{Min: floatPtr(10), Max: floatPtr(5)},
			},
			{
				ID: "Q2", Type: survey.TypeOpenText, Text: "Comment",
				Limits: &survey.Limits{CharLimit: intPtr(-1)},
			},
		},
	}

	errs := Validate(qn)
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, ErrInvalidLimits, e.Code)
	}
}

func TestValidationErrorString(t *testing.T) {
	err := ValidationError{Field: "questions[0].id", Message: "duplicate", Code: ErrDuplicateQuestionID}
	assert.Equal(t, "[E101] questions[0].id: duplicate", err.Error())

	warn := ValidationError{Field: "x", Message: "typo", Code: ErrUnknownSource, Warning: true}
	assert.Contains(t, warn.Error(), "warning")
}
