package state

import (
	"path/filepath"
	"strings"

	"github.com/kk-code-lab/rnav/internal/source"
)

// navigate starts loading scope. focusKey, when set, is highlighted once the
// listing commits; historyStep moves the history cursor on commit instead of
// recording a new entry.
func (p *Pane) navigate(scope source.Scope, focusKey string, record bool, historyStep int) error {
	if err := p.nav.Navigate(scope); err != nil {
		return err
	}
	p.rememberSelection()
	// A navigation still in flight already cleared the filter; keep its copy.
	restore := p.pending.restore
	p.pending = pendingNavigation{
		generation:  p.nav.Generation(),
		focusKey:    focusKey,
		record:      record,
		historyStep: historyStep,
	}
	if !scope.Equal(p.nav.Scope()) {
		if p.query != "" {
			restore = querySnapshot{text: p.query, selected: p.selected, scroll: p.scroll}
		}
		p.pending.restore = restore
		p.clearQuery()
	}
	if p.status.Level != StatusInfo {
		p.status = Status{}
	}
	return nil
}

func (p *Pane) refresh() error {
	target := p.nav.Scope()
	if p.nav.Phase() == PhaseLoading {
		target = p.nav.PendingScope()
	}
	if target.IsZero() {
		return nil
	}
	// An in-flight navigation keeps its pending focus and history step.
	keep := p.pending
	if err := p.nav.Refresh(); err != nil {
		return err
	}
	if keep.generation != 0 {
		keep.generation = p.nav.Generation()
		p.pending = keep
	}
	return nil
}

func (p *Pane) goToPath(raw string) error {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := userHomeDirFn()
		if err != nil {
			return &source.Error{Kind: source.ScopeInvalid, Path: path, Err: err}
		}
		path = filepath.Join(home, path[1:])
	}
	if !filepath.IsAbs(path) {
		base := p.currentDirectory()
		if base == "" {
			abs, err := filepath.Abs(path)
			if err != nil {
				return &source.Error{Kind: source.ScopeInvalid, Path: path, Err: err}
			}
			path = abs
		} else {
			path = filepath.Join(base, path)
		}
	}
	return p.navigate(source.PathScope(path), "", true, 0)
}

func (p *Pane) goUp() error {
	current := p.currentDirectory()
	if current == "" {
		return nil
	}
	parent := filepath.Dir(current)
	if parent == current {
		return nil
	}
	return p.navigate(source.PathScope(parent), current, true, 0)
}

func (p *Pane) goHome() error {
	if p.kind != PaneBrowser {
		return nil
	}
	home, err := userHomeDirFn()
	if err != nil {
		return &source.Error{Kind: source.ScopeInvalid, Path: "~", Err: err}
	}
	return p.navigate(source.PathScope(home), "", true, 0)
}

func (p *Pane) historyStep(step int) error {
	target := p.historyIndex + step
	if target < 0 || target >= len(p.history) {
		return nil
	}
	return p.navigate(p.history[target], "", false, step)
}

// applyHistory records a committed navigation.
func (p *Pane) applyHistory(scope source.Scope) {
	switch {
	case p.pending.historyStep != 0:
		p.historyIndex += p.pending.historyStep
		if p.historyIndex < 0 {
			p.historyIndex = 0
		}
		if p.historyIndex >= len(p.history) {
			p.historyIndex = len(p.history) - 1
		}
	case p.pending.record:
		if p.historyIndex >= 0 && p.historyIndex < len(p.history) && p.history[p.historyIndex].Equal(scope) {
			return
		}
		p.history = append(p.history[:p.historyIndex+1], scope)
		p.historyIndex = len(p.history) - 1
	}
}

func (p *Pane) historySnapshot() ([]source.Scope, int) {
	out := make([]source.Scope, len(p.history))
	copy(out, p.history)
	return out, p.historyIndex
}

func (p *Pane) toggleHidden() error {
	fs, ok := p.nav.Source().(*source.FilesystemSource)
	if !ok {
		return nil
	}
	next := fs.WithShowHidden(!fs.ShowHidden())
	p.nav.SetSource(next)
	if next.ShowHidden() {
		p.status = Status{Text: "hidden files shown"}
	} else {
		p.status = Status{Text: "hidden files hidden"}
	}
	return p.refresh()
}

// currentDirectory is the directory the user sees: the scope being loaded if
// any, otherwise the committed one. Empty for the static scope.
func (p *Pane) currentDirectory() string {
	scope := p.nav.Scope()
	if p.nav.Phase() == PhaseLoading {
		scope = p.nav.PendingScope()
	}
	if scope.Static {
		return ""
	}
	return scope.Path
}
