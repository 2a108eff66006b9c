package piping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quillhq/quill/internal/survey"
)

type responseMap map[string]survey.Answer

func (m responseMap) Get(questionID string) (survey.Answer, bool) {
	a, ok := m[questionID]
	return a, ok
}

func pipingQuestionnaire() *survey.Questionnaire {
	return &survey.Questionnaire{
		Name: "piping",
		Questions: []survey.Question{
			{
				ID:      "Q1",
				Type:    survey.TypeSingleSelect,
				Text:    "Do you use <b>our product</b>, {{SYSTEM:USER_NAME}}?",
				Options: []string{"Yes", "No"},
			},
			{
				ID:      "Q2",
				Type:    survey.TypeMultiSelect,
				Text:    "Which features do you use?",
				Options: []string{"Forms", "Panels", "Reports"},
			},
		},
	}
}

func newResolver() *Resolver {
	return &Resolver{Questionnaire: pipingQuestionnaire()}
}

func TestResolveSelectedDefault(t *testing.T) {
	r := newResolver()
	resp := responseMap{"Q2": survey.Selection{"Panels", "Forms"}}

	// bare token defaults to SELECTED; join keeps selection order
	got := r.Resolve("You picked {{Q2}}.", resp)
	assert.Equal(t, "You picked Panels, Forms.", got)

	got = r.Resolve("You picked {{Q2:SELECTED}}.", resp)
	assert.Equal(t, "You picked Panels, Forms.", got)
}

func TestResolveScalarAnswer(t *testing.T) {
	r := newResolver()
	resp := responseMap{"Q1": survey.Text("Yes")}

	got := r.Resolve("Earlier you said {{Q1}}.", resp)
	assert.Equal(t, "Earlier you said Yes.", got)
}

func TestResolveUnselected(t *testing.T) {
	r := newResolver()
	resp := responseMap{"Q2": survey.Selection{"Panels"}}

	// complement in declared order
	got := r.Resolve("You skipped {{Q2:UNSELECTED}}.", resp)
	assert.Equal(t, "You skipped Forms, Reports.", got)
}

func TestResolveText(t *testing.T) {
	r := newResolver()

	// source wording with markup and tokens stripped, not resolved
	got := r.Resolve("Back at \"{{Q1:TEXT}}\"", responseMap{})
	assert.Equal(t, "Back at \"Do you use our product, ?\"", got)
}

func TestResolveMutualTextReferences(t *testing.T) {
	// two questions piping each other's wording must not recurse: the
	// nested token is stripped, and resolving twice is idempotent
	r := &Resolver{Questionnaire: &survey.Questionnaire{
		Questions: []survey.Question{
			{ID: "A", Type: survey.TypeOpenText, Text: "A refers to {{B:TEXT}}"},
			{ID: "B", Type: survey.TypeOpenText, Text: "B refers to {{A:TEXT}}"},
		},
	}}

	once := r.Resolve("{{A:TEXT}}", responseMap{})
	assert.Equal(t, "A refers to", once)
	assert.Equal(t, once, r.Resolve(once, responseMap{}))
}

func TestResolveUnansweredSource(t *testing.T) {
	r := newResolver()

	got := r.Resolve("You picked {{Q2}}.", responseMap{})
	assert.Equal(t, "You picked (Q2 unanswered).", got)

	empty := responseMap{"Q2": survey.Selection{}}
	got = r.Resolve("You picked {{Q2}}.", empty)
	assert.Equal(t, "You picked (Q2 unanswered).", got)
}

func TestResolveInvalidSource(t *testing.T) {
	r := newResolver()

	got := r.Resolve("See {{GHOST}}.", responseMap{})
	assert.Equal(t, "See [Invalid Source: GHOST].", got)
}

func TestResolveSystemTokens(t *testing.T) {
	r := newResolver()
	r.Now = func() time.Time {
		return time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	}

	got := r.Resolve("Hello {{SYSTEM:USER_NAME}}, today is {{SYSTEM:DATE}}.", responseMap{})
	assert.Equal(t, "Hello Jane Respondent, today is 2026-01-02.", got)

	got = r.Resolve("{{SYSTEM:MOON_PHASE}}", responseMap{})
	assert.Equal(t, "[System:MOON_PHASE]", got)
}

func TestResolveMultipleTokens(t *testing.T) {
	r := newResolver()
	resp := responseMap{
		"Q1": survey.Text("Yes"),
		"Q2": survey.Selection{"Forms"},
	}

	got := r.Resolve("{{Q1}} and {{Q2}} and {{Q1}}", resp)
	assert.Equal(t, "Yes and Forms and Yes", got)
}

func TestResolveLeavesPlainBraces(t *testing.T) {
	r := newResolver()

	got := r.Resolve("a {single} brace pair survives", responseMap{})
	assert.Equal(t, "a {single} brace pair survives", got)
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "bold and plain", StripMarkup("<b>bold</b> and plain"))
	assert.Equal(t, "no markup", StripMarkup("no markup"))
}

func TestStripTokens(t *testing.T) {
	assert.Equal(t, "before after", StripTokens("before {{Q1}} after"))
	assert.Equal(t, "edges trimmed", StripTokens("{{Q1}} edges trimmed {{Q2:TEXT}}"))
}
