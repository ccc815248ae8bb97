package source

import (
	"context"
	"sync"
)

// StaticSource serves an in-memory list (registered commands and panes). The
// list is rebuilt lazily after Refresh marks it stale.
type StaticSource struct {
	build func() []Candidate

	mu       sync.Mutex
	snapshot []Candidate
	stale    bool
}

// NewStaticSource returns a source that calls build to produce its list.
func NewStaticSource(build func() []Candidate) *StaticSource {
	return &StaticSource{build: build, stale: true}
}

// Refresh marks the cached list stale; the next List rebuilds it.
func (s *StaticSource) Refresh() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

// List returns a copy of the current list for the static scope.
func (s *StaticSource) List(ctx context.Context, scope Scope) ([]Candidate, error) {
	if !scope.Static {
		return nil, &Error{Kind: ScopeInvalid, Path: scope.String(), Err: ErrScopeMismatch}
	}
	if err := ctx.Err(); err != nil {
		return nil, &Error{Kind: Cancelled, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale {
		var items []Candidate
		if s.build != nil {
			items = s.build()
		}
		s.snapshot = cloneCandidates(items)
		s.stale = false
	}
	out := cloneCandidates(s.snapshot)
	if out == nil {
		out = []Candidate{}
	}
	return out, nil
}
