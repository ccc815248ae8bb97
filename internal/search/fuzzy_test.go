package search

import (
	"reflect"
	"testing"
)

func TestScore_SubstringDominates(t *testing.T) {
	tests := []struct {
		query string
		label string
	}{
		{"task", "Tasks"},
		{"TASK", "my-tasks.md"},
		{"ta", "tasks"},
		{"ta", "attacks"},
		{"a", "a"},
		{"ünï", "ÜNÏCODE"},
	}

	for _, tt := range tests {
		score, matched := Score(tt.query, tt.label)
		if !matched || score != SubstringScore {
			t.Errorf("Score(%q, %q) = (%d, %v), want (%d, true)", tt.query, tt.label, score, matched, SubstringScore)
		}
	}
}

func TestScore_Subsequence(t *testing.T) {
	tests := []struct {
		query string
		label string
		want  int
	}{
		// t@0 (100+100 start), s@2 (100), k@3 (100+50 run)
		{"tsk", "tasks", 450},
		// t@0 (100+100 start), k@3 (100)
		{"tk", "tasks", 300},
		// t@1 (100), k@5 (100)
		{"tk", "attacks", 200},
		// m@0 (200), g@5 (100), o@6 (150)
		{"mgo", "main.go", 450},
		// start bonus only for the first query rune
		{"ac", "abc", 300},
	}

	for _, tt := range tests {
		score, matched := Score(tt.query, tt.label)
		if !matched {
			t.Errorf("Score(%q, %q) did not match", tt.query, tt.label)
			continue
		}
		if score != tt.want {
			t.Errorf("Score(%q, %q) = %d, want %d", tt.query, tt.label, score, tt.want)
		}
	}
}

func TestScore_NoMatch(t *testing.T) {
	tests := []struct {
		query string
		label string
	}{
		{"xyz", "apple"},
		{"tsk", "attacks"},
		{"ba", "ab"},
		{"aa", "a"},
		{"a", ""},
	}

	for _, tt := range tests {
		score, matched := Score(tt.query, tt.label)
		if matched || score != 0 {
			t.Errorf("Score(%q, %q) = (%d, %v), want no match", tt.query, tt.label, score, matched)
		}
	}
}

func TestScore_PrefixAnchoredRunBeatsScatteredMatch(t *testing.T) {
	tasks, ok := Score("tsk", "tasks")
	if !ok {
		t.Fatal("tsk should match tasks")
	}
	attacks, _ := Score("tsk", "attacks")
	if tasks <= attacks {
		t.Fatalf("expected tasks (%d) to outrank attacks (%d)", tasks, attacks)
	}

	start, _ := Score("tk", "tasks")
	scattered, _ := Score("tk", "attacks")
	if start <= scattered {
		t.Fatalf("expected start-anchored score %d > %d", start, scattered)
	}
}

func TestScore_EmptyQueryMatchesEverything(t *testing.T) {
	for _, label := range []string{"", "x", "anything at all"} {
		score, matched := Score("", label)
		if !matched || score != 0 {
			t.Errorf("Score(\"\", %q) = (%d, %v), want (0, true)", label, score, matched)
		}
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank("") || !IsBlank("   \t") {
		t.Error("whitespace queries should be blank")
	}
	if IsBlank(" a ") {
		t.Error("query with content is not blank")
	}
}

func TestMatchPositions(t *testing.T) {
	tests := []struct {
		query string
		label string
		want  []int
	}{
		{"go", "main.go", []int{5, 6}},
		{"mgo", "main.go", []int{0, 5, 6}},
		{"TSK", "tasks", []int{0, 2, 3}},
		{"zz", "tasks", nil},
		{"", "tasks", nil},
	}

	for _, tt := range tests {
		got := MatchPositions(tt.query, tt.label)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("MatchPositions(%q, %q) = %v, want %v", tt.query, tt.label, got, tt.want)
		}
	}
}

func TestMatchPositionsSkipsLengthChangingFolds(t *testing.T) {
	if got := MatchPositions("ss", "Straße"); got != nil {
		t.Fatalf("expected nil positions for length-changing fold, got %v", got)
	}
	if _, ok := Score("strasse", "Straße"); !ok {
		t.Fatal("folded label should still match")
	}
}

func TestMatchSpansMergesRuns(t *testing.T) {
	got := MatchSpans("mgo", "main.go")
	want := []MatchSpan{{Start: 0, End: 0}, {Start: 5, End: 6}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MatchSpans = %v, want %v", got, want)
	}
}
