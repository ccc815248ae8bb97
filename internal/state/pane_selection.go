package state

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kk-code-lab/rnav/internal/commands"
	"github.com/kk-code-lab/rnav/internal/source"
)

// ===== QUERY =====

func (p *Pane) setQuery(text string) {
	if text == p.query {
		return
	}
	p.query = text
	revision, immediate := p.pump.OnQueryChanged(text)
	if immediate {
		p.runFilter(revision)
	}
}

func (p *Pane) clearQuery() {
	if p.query == "" {
		return
	}
	p.setQuery("")
}

// restoreQuery reinstates a filter without waiting for the debounce.
func (p *Pane) restoreQuery(snap querySnapshot) {
	p.query = snap.text
	revision, immediate := p.pump.OnQueryChanged(snap.text)
	if !immediate {
		p.pump.Stop()
	}
	p.runFilter(revision)
	p.setSelected(snap.selected)
	p.scroll = snap.scroll
	p.ensureVisible()
}

// runFilter scores the committed candidates against the current query.
func (p *Pane) runFilter(revision uint64) {
	p.filterPasses++
	p.scored = p.query
	p.scoredRev = revision
	p.reproject()
	p.selected = 0
	p.scroll = 0
	p.skipParentEntry()
}

// reproject rebuilds the projection from the latest scored query and the
// committed candidates. A pending debounce is left alone.
func (p *Pane) reproject() {
	p.projection = p.projector.Project(p.nav.Candidates(), p.scored, p.scoredRev, p.nav.CommittedGeneration())
	if p.selected >= len(p.projection.Items) {
		p.selected = len(p.projection.Items) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
}

// ScoredQuery returns the query text the projection reflects.
func (p *Pane) ScoredQuery() string {
	return p.scored
}

func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

func trimLastWord(s string) string {
	trimmed := strings.TrimRightFunc(s, unicode.IsSpace)
	idx := strings.LastIndexFunc(trimmed, unicode.IsSpace)
	if idx < 0 {
		return ""
	}
	return trimmed[:idx+1]
}

// ===== SELECTION =====

func (p *Pane) selectedKey() string {
	if item, ok := p.Selected(); ok {
		return item.Key
	}
	return ""
}

func (p *Pane) rememberSelection() {
	scope := p.nav.Scope()
	if scope.Static || scope.Path == "" {
		return
	}
	if key := p.selectedKey(); key != "" {
		p.selectionMemory[scope.Path] = key
	}
}

// restoreSelection highlights the first key found in the projection, trying
// the explicit focus, then the key selected before a same-scope reload, then
// the key remembered for the scope.
func (p *Pane) restoreSelection(focus, previous string, sameScope bool) {
	candidates := []string{focus}
	if sameScope {
		candidates = append(candidates, previous)
	}
	if scope := p.nav.Scope(); !scope.Static {
		candidates = append(candidates, p.selectionMemory[scope.Path])
	}
	for _, key := range candidates {
		if key == "" {
			continue
		}
		if idx := p.indexOfKey(key); idx >= 0 {
			p.setSelected(idx)
			return
		}
	}
	if sameScope {
		p.setSelected(p.selected)
		return
	}
	p.selected = 0
	p.scroll = 0
	p.skipParentEntry()
}

func (p *Pane) indexOfKey(key string) int {
	for i, item := range p.projection.Items {
		if item.Candidate.Key == key {
			return i
		}
	}
	return -1
}

// skipParentEntry moves a fresh selection off the synthetic parent entry.
func (p *Pane) skipParentEntry() {
	items := p.projection.Items
	if p.selected == 0 && len(items) > 1 && items[0].Candidate.Meta.Parent {
		p.setSelected(1)
	}
}

func (p *Pane) moveSelection(delta int) {
	p.setSelected(p.selected + delta)
}

func (p *Pane) setSelected(idx int) {
	count := len(p.projection.Items)
	if count == 0 {
		p.selected = 0
		p.scroll = 0
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= count {
		idx = count - 1
	}
	p.selected = idx
	p.ensureVisible()
}

func (p *Pane) ensureVisible() {
	rows := p.listRows()
	if p.selected < p.scroll {
		p.scroll = p.selected
	}
	if p.selected >= p.scroll+rows {
		p.scroll = p.selected - rows + 1
	}
	maxScroll := len(p.projection.Items) - rows
	if maxScroll < 0 {
		maxScroll = 0
	}
	if p.scroll > maxScroll {
		p.scroll = maxScroll
	}
	if p.scroll < 0 {
		p.scroll = 0
	}
}

// ===== CONFIRMATION =====

func (p *Pane) open() error {
	item, ok := p.Selected()
	if !ok {
		return nil
	}
	if item.Kind == source.KindDirectory {
		if item.Meta.Parent {
			return p.goUp()
		}
		return p.navigate(source.PathScope(item.Key), "", true, 0)
	}
	return p.confirmCandidate(item)
}

func (p *Pane) confirm() error {
	item, ok := p.Selected()
	if !ok {
		return nil
	}
	return p.confirmCandidate(item)
}

func (p *Pane) confirmCandidate(item source.Candidate) error {
	switch item.Kind {
	case source.KindCommand, source.KindPane:
		fullInput := item.Key
		if _, args := commands.Parse(p.query); args != "" {
			fullInput = item.Key + " " + args
		}
		if p.callbacks.OnCommandExecuted != nil {
			p.callbacks.OnCommandExecuted(item.Key, fullInput)
		}
		return nil
	}

	if !p.mode.Accepts(item.Kind) {
		return &UsageError{Reason: rejectReason(item.Kind, p.mode)}
	}
	if !p.gate.ValidateAccess(item.Key, false) {
		return &source.Error{Kind: source.ScopeInvalid, Path: item.Key, Err: source.ErrAccessDenied}
	}
	if item.Kind == source.KindDirectory {
		if p.callbacks.OnDirectorySelected != nil {
			p.callbacks.OnDirectorySelected(item.Key)
		}
		return nil
	}
	if p.callbacks.OnFileSelected != nil {
		p.callbacks.OnFileSelected(item.Key)
	}
	return nil
}

func (p *Pane) confirmScope() error {
	scope := p.nav.Scope()
	if scope.Static || scope.IsZero() {
		return nil
	}
	if !p.mode.Accepts(source.KindDirectory) {
		return &UsageError{Reason: rejectReason(source.KindDirectory, p.mode)}
	}
	if !p.gate.ValidateAccess(scope.Path, false) {
		return &source.Error{Kind: source.ScopeInvalid, Path: scope.Path, Err: source.ErrAccessDenied}
	}
	if p.callbacks.OnDirectorySelected != nil {
		p.callbacks.OnDirectorySelected(scope.Path)
	}
	return nil
}

func (p *Pane) cancel() {
	if p.query != "" {
		p.setQuery("")
		return
	}
	if p.callbacks.OnSelectionCancelled != nil {
		p.callbacks.OnSelectionCancelled()
	}
}

func rejectReason(kind source.Kind, mode Mode) string {
	return "cannot select a " + kind.String() + " in " + mode.String() + " mode"
}
