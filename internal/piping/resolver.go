package piping

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/quillhq/quill/internal/survey"
)

// Token kinds. KindSelected is the default when a token omits its kind.
const (
	KindText       = "TEXT"
	KindSelected   = "SELECTED"
	KindUnselected = "UNSELECTED"
)

// SourceSystem is the reserved source supplying fixed runtime values
// independent of the response store.
const SourceSystem = "SYSTEM"

// System kinds.
const (
	SystemUserName = "USER_NAME"
	SystemDate     = "DATE"
)

// PreviewRespondent is the placeholder identity substituted for
// {{SYSTEM:USER_NAME}} during preview runs.
const PreviewRespondent = "Jane Respondent"

// tokenPattern matches {{SOURCE}} and {{SOURCE:KIND}} without crossing a
// closing pair, so braces in surrounding prose are left alone.
var tokenPattern = regexp.MustCompile(`\{\{([^{}:]+):?([^{}]*)\}\}`)

// markupPattern strips rich markup when piping a question's own wording.
var markupPattern = regexp.MustCompile(`<[^>]*>?`)

// Answers is the resolver's read-only view of collected answers.
type Answers interface {
	Get(questionID string) (survey.Answer, bool)
}

// Resolver substitutes placeholder tokens against a questionnaire and a
// response store.
//
// Now supplies the clock for {{SYSTEM:DATE}}; leave it nil for wall time,
// or inject a fixed clock for deterministic traces.
type Resolver struct {
	Questionnaire *survey.Questionnaire
	Now           func() time.Time
}

// Resolve replaces every token in text. It never fails: unresolvable
// tokens degrade to inline markers.
func (r *Resolver) Resolve(text string, resp Answers) string {
	return tokenPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := tokenPattern.FindStringSubmatch(match)
		source := strings.TrimSpace(groups[1])
		kind := strings.TrimSpace(groups[2])
		if kind == "" {
			kind = KindSelected
		}
		return r.resolveToken(source, kind, resp)
	})
}

func (r *Resolver) resolveToken(source, kind string, resp Answers) string {
	if source == SourceSystem {
		return r.resolveSystem(kind)
	}

	src := r.Questionnaire.Lookup(source)
	if src == nil {
		return fmt.Sprintf("[Invalid Source: %s]", source)
	}

	if kind == KindText {
		// The source's own wording, stripped to plain text. Its tokens are
		// removed rather than resolved: substitution is single-pass, and
		// stripping keeps mutual TEXT references from ever recursing.
		return StripTokens(StripMarkup(src.Text))
	}

	ans, ok := resp.Get(source)
	if !ok || ans.Empty() {
		return fmt.Sprintf("(%s unanswered)", source)
	}

	switch kind {
	case KindSelected:
		return answerDisplay(ans)
	case KindUnselected:
		return strings.Join(unselected(src, ans), ", ")
	default:
		return answerDisplay(ans)
	}
}

func (r *Resolver) resolveSystem(kind string) string {
	switch kind {
	case SystemUserName:
		return PreviewRespondent
	case SystemDate:
		now := time.Now
		if r.Now != nil {
			now = r.Now
		}
		return now().Format("2006-01-02")
	default:
		return fmt.Sprintf("[System:%s]", kind)
	}
}

// unselected is the source's declared options minus the respondent's
// selection, in declared order.
func unselected(src *survey.Question, ans survey.Answer) []string {
	var out []string
	for _, opt := range src.Options {
		if !survey.Matches(ans, opt) {
			out = append(out, opt)
		}
	}
	return out
}

func answerDisplay(ans survey.Answer) string {
	switch v := ans.(type) {
	case survey.Selection:
		return v.Join()
	case survey.Text:
		return string(v)
	}
	return ""
}

// StripMarkup removes rich markup from wording, leaving plain text.
func StripMarkup(s string) string {
	return markupPattern.ReplaceAllString(s, "")
}

// StripTokens removes placeholder tokens from wording without resolving
// them.
func StripTokens(s string) string {
	return strings.TrimSpace(tokenPattern.ReplaceAllString(s, ""))
}
