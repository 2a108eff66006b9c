package compiler

import (
	"strings"

	"github.com/quillhq/quill/internal/survey"
)

// CarryCycle is a closed loop of carry-forward references.
//
// Every question carries from at most one source, so the carry graph has
// out-degree one and each question's chain either ends at a question
// without carry config or loops. A looping chain can never produce
// options: each member waits on the next for its option list.
type CarryCycle struct {
	Path []string `json:"path"` // cycle path, closed: ["Q2", "Q5", "Q2"]
}

// DetectCarryCycles walks every question's carry chain and reports each
// distinct cycle once. A self-referential carry reports as [id, id].
//
// Chains through unknown source ids simply end; unresolvable references
// are a separate validation finding.
func DetectCarryCycles(qn *survey.Questionnaire) []CarryCycle {
	next := make(map[string]string)
	for i := range qn.Questions {
		q := &qn.Questions[i]
		if q.Carry != nil && qn.Lookup(q.Carry.SourceID) != nil {
			next[q.ID] = q.Carry.SourceID
		}
	}

	reported := make(map[string]bool)
	var cycles []CarryCycle

	for i := range qn.Questions {
		seen := make(map[string]int)
		var path []string

		cur := qn.Questions[i].ID
		for {
			if pos, ok := seen[cur]; ok {
				// The chain re-entered itself; everything from the first
				// visit of cur onward is the cycle.
				cycle := append(append([]string(nil), path[pos:]...), cur)
				key := cycleKey(cycle)
				if !reported[key] {
					reported[key] = true
					cycles = append(cycles, CarryCycle{Path: cycle})
				}
				break
			}
			seen[cur] = len(path)
			path = append(path, cur)

			nxt, ok := next[cur]
			if !ok {
				break
			}
			cur = nxt
		}
	}

	return cycles
}

// cycleKey canonicalizes a closed cycle path so the same loop entered at
// different members dedupes: rotate the open path to start at its
// smallest member.
func cycleKey(closed []string) string {
	open := closed[:len(closed)-1]
	lo := 0
	for i := range open {
		if open[i] < open[lo] {
			lo = i
		}
	}
	rotated := append(append([]string(nil), open[lo:]...), open[:lo]...)
	return strings.Join(rotated, "\x00")
}
