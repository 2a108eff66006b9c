package engine

// DecisionKind classifies the outcome of an advance evaluation.
type DecisionKind string

const (
	// DecisionNext continues to the next sequential page.
	DecisionNext DecisionKind = "next"

	// DecisionJump moves to the page containing a skip-rule target.
	DecisionJump DecisionKind = "jump"

	// DecisionTerminate ends the interview via an explicit skip-rule
	// TERMINATE target.
	DecisionTerminate DecisionKind = "terminate"

	// DecisionComplete ends the interview by advancing past the last page.
	DecisionComplete DecisionKind = "complete"
)

// Decision is the router's verdict for one forward navigation.
type Decision struct {
	Kind DecisionKind

	// PageIndex is the destination page for next/jump decisions.
	PageIndex int
}

// Route re-evaluates skip rules for the page at current and picks the
// destination. It is a discrete transition evaluated only at "advance"
// time, not a reactive constraint.
//
// The scan is nested and first-match-wins: questions in page order, each
// question's skip rules in declared order, every rule's conditions
// implicitly ALL-matched. The first satisfied rule ends the scan. A
// matching rule whose target cannot be located in the current page
// sequence is a no-op: flow falls through to the normal sequential
// advance, as does a page with no matching rule at all.
func Route(pages []Page, current int, resp Responses) Decision {
	if current >= 0 && current < len(pages) {
		for _, q := range pages[current].Questions {
			for _, rule := range q.SkipRules {
				if !evalConditions(rule.Conditions, resp) {
					continue
				}
				if rule.Terminates() {
					return Decision{Kind: DecisionTerminate}
				}
				if idx := FindPage(pages, rule.Target); idx >= 0 {
					return Decision{Kind: DecisionJump, PageIndex: idx}
				}
				// Unlocatable target: fall through to sequential advance.
				goto sequential
			}
		}
	}

sequential:
	if current < len(pages)-1 {
		return Decision{Kind: DecisionNext, PageIndex: current + 1}
	}
	return Decision{Kind: DecisionComplete}
}
