package survey

import "strings"

// Answer is a sealed interface for respondent answer values.
// Only Text and Selection implement it: scalars for single-select, numeric,
// open text and date questions; ordered string lists for multi-select.
type Answer interface {
	answer() // sealed

	// Empty reports whether the value counts as "unanswered":
	// the empty string, or a zero-length selection.
	Empty() bool
}

// Text is a scalar answer.
type Text string

func (Text) answer() {}

// Empty reports whether the scalar is the empty string.
func (t Text) Empty() bool { return t == "" }

// Selection is an ordered multi-select answer.
type Selection []string

func (Selection) answer() {}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool { return len(s) == 0 }

// Contains reports whether the option is part of the selection.
func (s Selection) Contains(option string) bool {
	for _, v := range s {
		if v == option {
			return true
		}
	}
	return false
}

// Join renders the selection as display text.
func (s Selection) Join() string {
	return strings.Join(s, ", ")
}

// Matches reports whether an answer "selects" the given option: membership
// for selections, string equality for scalars.
func Matches(a Answer, option string) bool {
	switch v := a.(type) {
	case Selection:
		return v.Contains(option)
	case Text:
		return string(v) == option
	}
	return false
}
