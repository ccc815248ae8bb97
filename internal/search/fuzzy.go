package search

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Scoring constants. A contiguous substring hit always outranks any
// subsequence hit, whose best possible score for a query of n runes is
// 100n + 50(n-1) + 100.
const (
	SubstringScore   = 1000
	CharScore        = 100
	ConsecutiveBonus = 50
	StartBonus       = 100
)

// MatchSpan represents the inclusive [Start, End] range of a match in rune indexes.
type MatchSpan struct {
	Start int
	End   int
}

// Score rates how well query matches label.
//
// Both strings are case-folded. A label containing the query as a contiguous
// substring scores SubstringScore. Otherwise the query must be a subsequence of
// the label, consumed greedily left to right: every matched rune earns
// CharScore, a match directly after the previous one earns ConsecutiveBonus,
// and a first query rune matched at label position 0 earns StartBonus.
//
// The boolean is false when the query is not a subsequence of the label. An
// empty query matches everything with score 0; callers treat blank queries as
// "show everything unscored" (see IsBlank).
func Score(query, label string) (int, bool) {
	if query == "" {
		return 0, true
	}

	q := Fold(query)
	l := Fold(label)
	if strings.Contains(l, q) {
		return SubstringScore, true
	}

	score, _, ok := subsequence(q, l, false)
	return score, ok
}

// IsBlank reports whether query has no non-space characters.
func IsBlank(query string) bool {
	return strings.TrimSpace(query) == ""
}

// Fold returns the case-folded form of s used for matching.
func Fold(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			// Casers carry state, so each call gets its own.
			return cases.Fold().String(s)
		}
	}
	return strings.ToLower(s)
}

// MatchPositions returns the rune indexes of label that Score matched against
// query, or nil when there is no match. Labels whose folded form has a
// different rune count than the original (e.g. "ß" folding to "ss") return nil
// because the positions could not be mapped back for highlighting.
func MatchPositions(query, label string) []int {
	if query == "" {
		return nil
	}

	q := Fold(query)
	l := Fold(label)
	if utf8.RuneCountInString(l) != utf8.RuneCountInString(label) {
		return nil
	}

	if idx := strings.Index(l, q); idx >= 0 {
		start := utf8.RuneCountInString(l[:idx])
		n := utf8.RuneCountInString(q)
		positions := make([]int, n)
		for i := range positions {
			positions[i] = start + i
		}
		return positions
	}

	_, positions, ok := subsequence(q, l, true)
	if !ok {
		return nil
	}
	return positions
}

// MatchSpans groups MatchPositions into merged inclusive ranges.
func MatchSpans(query, label string) []MatchSpan {
	positions := MatchPositions(query, label)
	if len(positions) == 0 {
		return nil
	}

	spans := make([]MatchSpan, 0, len(positions))
	for _, p := range positions {
		spans = append(spans, MatchSpan{Start: p, End: p})
	}
	return MergeMatchSpans(spans)
}

// MergeMatchSpans joins overlapping or adjacent spans. Input must be sorted by Start.
func MergeMatchSpans(spans []MatchSpan) []MatchSpan {
	if len(spans) == 0 {
		return nil
	}
	merged := make([]MatchSpan, 0, len(spans))
	current := spans[0]
	for _, next := range spans[1:] {
		if next.Start <= current.End+1 {
			if next.End > current.End {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// subsequence walks folded label greedily consuming folded query runes.
func subsequence(query, label string, collect bool) (int, []int, bool) {
	want := []rune(query)
	var positions []int
	if collect {
		positions = make([]int, 0, len(want))
	}

	score := 0
	qi := 0
	last := -2
	pos := 0
	for _, r := range label {
		if qi == len(want) {
			break
		}
		if r == want[qi] {
			score += CharScore
			if last == pos-1 {
				score += ConsecutiveBonus
			}
			if pos == 0 && qi == 0 {
				score += StartBonus
			}
			if collect {
				positions = append(positions, pos)
			}
			last = pos
			qi++
		}
		pos++
	}

	if qi < len(want) {
		return 0, nil, false
	}
	return score, positions, true
}
