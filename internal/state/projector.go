package state

import (
	"sort"
	"strings"

	"github.com/kk-code-lab/rnav/internal/search"
	"github.com/kk-code-lab/rnav/internal/source"
)

// Default display limits per pane kind.
const (
	DefaultCommandLimit   = 20
	DefaultDirectoryLimit = 0
)

// Ranked pairs a candidate with its score. Blank queries leave Score at 0.
type Ranked struct {
	Candidate source.Candidate
	Score     int
}

// Projection is the render-ready result of one filter pass.
type Projection struct {
	Items      []Ranked
	Query      string
	Revision   uint64
	Generation uint64
	// Matched counts candidates that passed the filter before the limit.
	Matched int
	// Total counts candidates considered.
	Total int
}

// Projector ranks a candidate snapshot against a query.
type Projector struct {
	// Limit caps the number of items; zero means unbounded.
	Limit int
	// SortBlank orders a blank-query projection by label instead of keeping
	// source order.
	SortBlank bool
	// FirstToken matches only the first whitespace-separated word of the
	// query, leaving the rest as arguments.
	FirstToken bool
}

// BrowserProjector keeps the listing order for blank queries and never caps.
func BrowserProjector(limit int) Projector {
	return Projector{Limit: limit}
}

// PaletteProjector sorts by label, caps the list and matches the command word only.
func PaletteProjector(limit int) Projector {
	if limit <= 0 {
		limit = DefaultCommandLimit
	}
	return Projector{Limit: limit, SortBlank: true, FirstToken: true}
}

// MatchQuery returns the part of query that is scored against labels.
func (p Projector) MatchQuery(query string) string {
	if p.FirstToken {
		fields := strings.Fields(query)
		if len(fields) == 0 {
			return ""
		}
		return fields[0]
	}
	return strings.TrimSpace(query)
}

// Project filters and orders cands for query. Matches are ordered by score
// descending, then label ascending ignoring case, then key.
func (p Projector) Project(cands []source.Candidate, query string, revision, generation uint64) Projection {
	out := Projection{
		Query:      query,
		Revision:   revision,
		Generation: generation,
		Total:      len(cands),
	}

	match := p.MatchQuery(query)
	var items []Ranked
	if search.IsBlank(match) {
		items = make([]Ranked, len(cands))
		for i, c := range cands {
			items[i] = Ranked{Candidate: c}
		}
		if p.SortBlank {
			sort.SliceStable(items, func(i, j int) bool {
				return lessByLabel(items[i].Candidate, items[j].Candidate)
			})
		}
	} else {
		items = make([]Ranked, 0, len(cands))
		for _, c := range cands {
			if score, ok := search.Score(match, c.Label); ok {
				items = append(items, Ranked{Candidate: c, Score: score})
			}
		}
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Score != items[j].Score {
				return items[i].Score > items[j].Score
			}
			return lessByLabel(items[i].Candidate, items[j].Candidate)
		})
	}

	out.Matched = len(items)
	if p.Limit > 0 && len(items) > p.Limit {
		items = items[:p.Limit]
	}
	out.Items = items
	return out
}

func lessByLabel(a, b source.Candidate) bool {
	if c := source.CompareLabels(a.Label, b.Label); c != 0 {
		return c < 0
	}
	return a.Key < b.Key
}
