package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionTypePredicates(t *testing.T) {
	assert.True(t, TypeMultiSelect.MultiValued())
	assert.False(t, TypeSingleSelect.MultiValued())

	assert.True(t, TypePageBreak.Structural())
	assert.False(t, TypeOpenText.Structural())

	assert.True(t, TypeSingleSelect.Choice())
	assert.True(t, TypeMultiSelect.Choice())
	assert.True(t, TypeGrid.Choice())
	assert.False(t, TypeNPS.Choice())
	assert.False(t, TypeOpenText.Choice())
}

func TestChoiceRuleFor(t *testing.T) {
	q := &Question{
		ID:   "Q1",
		Type: TypeMultiSelect,
		ChoiceRules: []ChoiceRule{
			{Option: "None of these", Mode: ChoiceExclusive},
			{Option: "A", Mode: ChoiceBlockList, Targets: []string{"B"}},
		},
	}

	rule := q.ChoiceRuleFor("None of these")
	require.NotNil(t, rule)
	assert.Equal(t, ChoiceExclusive, rule.Mode)

	rule = q.ChoiceRuleFor("A")
	require.NotNil(t, rule)
	assert.Equal(t, []string{"B"}, rule.Targets)

	assert.Nil(t, q.ChoiceRuleFor("B"))
}

func TestSkipRuleTerminates(t *testing.T) {
	assert.True(t, SkipRule{Target: TargetTerminate}.Terminates())
	assert.False(t, SkipRule{Target: "Q5"}.Terminates())
}

func TestLookup(t *testing.T) {
	qn := &Questionnaire{
		Questions: []Question{
			{ID: "Q1", Type: TypeOpenText},
			{ID: "Q2", Type: TypeNumeric},
		},
	}

	q := qn.Lookup("Q2")
	require.NotNil(t, q)
	assert.Equal(t, TypeNumeric, q.Type)
	assert.Nil(t, qn.Lookup("Q3"))
}

func TestFlattenNoBlocks(t *testing.T) {
	qn := &Questionnaire{
		Questions: []Question{
			{ID: "Q1"}, {ID: "Q2"}, {ID: "Q3"},
		},
	}

	flat := qn.Flatten()
	require.Len(t, flat, 3)
	assert.Equal(t, "Q1", flat[0].ID)
	assert.Equal(t, "Q3", flat[2].ID)
}

func TestFlattenBlockOrder(t *testing.T) {
	// blocks reorder the authored sequence; unblocked questions trail
	qn := &Questionnaire{
		Questions: []Question{
			{ID: "Q1"}, {ID: "Q2"}, {ID: "Q3"}, {ID: "Q4"},
		},
		Blocks: []Block{
			{Name: "Late", QuestionIDs: []string{"Q3", "Q4"}},
			{Name: "Early", QuestionIDs: []string{"Q1"}},
		},
	}

	flat := qn.Flatten()
	require.Len(t, flat, 4)
	assert.Equal(t, "Q3", flat[0].ID)
	assert.Equal(t, "Q4", flat[1].ID)
	assert.Equal(t, "Q1", flat[2].ID)
	assert.Equal(t, "Q2", flat[3].ID)
}

func TestFlattenSkipsUnknownAndDuplicateBlockEntries(t *testing.T) {
	qn := &Questionnaire{
		Questions: []Question{
			{ID: "Q1"}, {ID: "Q2"},
		},
		Blocks: []Block{
			{Name: "A", QuestionIDs: []string{"Q2", "MISSING"}},
			{Name: "B", QuestionIDs: []string{"Q2", "Q1"}},
		},
	}

	flat := qn.Flatten()
	require.Len(t, flat, 2)
	assert.Equal(t, "Q2", flat[0].ID)
	assert.Equal(t, "Q1", flat[1].ID)
}

func TestFlattenReturnsPointersIntoQuestionnaire(t *testing.T) {
	qn := &Questionnaire{
		Questions: []Question{{ID: "Q1"}},
	}

	flat := qn.Flatten()
	flat[0].Text = "mutated"
	assert.Equal(t, "mutated", qn.Questions[0].Text)
}
