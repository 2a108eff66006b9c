package engine

import "github.com/quillhq/quill/internal/survey"

// Page is a contiguous run of visible questions between page-break
// markers, the unit of forward/back navigation.
type Page struct {
	Questions []*survey.Question
}

// Contains reports whether the page holds the given question id.
func (p Page) Contains(questionID string) bool {
	for _, q := range p.Questions {
		if q.ID == questionID {
			return true
		}
	}
	return false
}

// BuildPages partitions the block-flattened question sequence into pages.
//
// A page-break starts a new boundary only if the page accumulated so far
// is non-empty, so consecutive breaks collapse. Questions whose computed
// visibility is false are skipped, and pages left with zero visible
// questions are dropped entirely. Because visibility is answer-dependent
// the page sequence must be rebuilt on every response mutation; it is
// never fixed at authoring time.
func BuildPages(qn *survey.Questionnaire, resp Responses) []Page {
	var pages []Page
	var current []*survey.Question

	flush := func() {
		if len(current) > 0 {
			pages = append(pages, Page{Questions: current})
			current = nil
		}
	}

	for _, q := range qn.Flatten() {
		if q.Type.Structural() {
			flush()
			continue
		}
		if QuestionVisible(q, resp) {
			current = append(current, q)
		}
	}
	flush()
	return pages
}

// FindPage locates the page containing the given question id, or -1.
func FindPage(pages []Page, questionID string) int {
	for i, p := range pages {
		if p.Contains(questionID) {
			return i
		}
	}
	return -1
}
