package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillhq/quill/internal/survey"
)

func TestEvalRuleDefaults(t *testing.T) {
	resp := ResponseMap{}

	assert.True(t, EvalRule(nil, resp))
	assert.True(t, EvalRule(&survey.DisplayRule{Match: survey.MatchAll}, resp))
	assert.True(t, EvalRule(&survey.DisplayRule{Match: survey.MatchAny, Conditions: nil}, resp))
}

func TestEvalRuleAll(t *testing.T) {
	resp := ResponseMap{
		"Q1": survey.Text("Yes"),
		"Q2": survey.Text("5"),
	}

	both := &survey.DisplayRule{
		Match: survey.MatchAll,
		Conditions: []survey.Condition{
			{SourceID: "Q1", Op: survey.OpEquals, Value: "Yes"},
			{SourceID: "Q2", Op: survey.OpGreaterThan, Value: "3"},
		},
	}
	assert.True(t, EvalRule(both, resp))

	oneFails := &survey.DisplayRule{
		Match: survey.MatchAll,
		Conditions: []survey.Condition{
			{SourceID: "Q1", Op: survey.OpEquals, Value: "Yes"},
			{SourceID: "Q2", Op: survey.OpGreaterThan, Value: "9"},
		},
	}
	assert.False(t, EvalRule(oneFails, resp))
}

func TestEvalRuleAny(t *testing.T) {
	resp := ResponseMap{"NPS": survey.Text("9")}

	detractorOrPromoter := &survey.DisplayRule{
		Match: survey.MatchAny,
		Conditions: []survey.Condition{
			{SourceID: "NPS", Op: survey.OpLessThan, Value: "7"},
			{SourceID: "NPS", Op: survey.OpGreaterThan, Value: "8"},
		},
	}
	assert.True(t, EvalRule(detractorOrPromoter, resp))

	resp["NPS"] = survey.Text("8")
	assert.False(t, EvalRule(detractorOrPromoter, resp))
}

func TestEvalRuleUnknownMatchModeActsAsAll(t *testing.T) {
	resp := ResponseMap{"Q1": survey.Text("Yes")}

	rule := &survey.DisplayRule{
		Match: "SOME",
		Conditions: []survey.Condition{
			{SourceID: "Q1", Op: survey.OpEquals, Value: "Yes"},
			{SourceID: "Q1", Op: survey.OpEquals, Value: "No"},
		},
	}
	assert.False(t, EvalRule(rule, resp))
}
