package state

import (
	"log/slog"
	"os"
	"time"

	"github.com/kk-code-lab/rnav/internal/security"
	"github.com/kk-code-lab/rnav/internal/source"
)

// PaneKind distinguishes the directory browser from the command palette.
type PaneKind int

const (
	PaneBrowser PaneKind = iota
	PanePalette
)

func (k PaneKind) String() string {
	if k == PanePalette {
		return "palette"
	}
	return "browser"
}

// chromeRows is the number of screen rows a pane spends on its breadcrumb,
// query line and status line.
const chromeRows = 3

var userHomeDirFn = os.UserHomeDir

// Callbacks are fired once per user-confirmed action, never while filtering.
// Nil callbacks are skipped.
type Callbacks struct {
	OnFileSelected       func(path string)
	OnDirectorySelected  func(path string)
	OnSelectionCancelled func()
	OnCommandExecuted    func(name, fullInput string)
}

// PaneConfig wires a Pane.
type PaneConfig struct {
	ID        string
	Kind      PaneKind
	Source    source.Source
	Loader    Loader
	Gate      security.Gate
	Mode      Mode
	Projector Projector
	Debounce  time.Duration
	Callbacks Callbacks
	// Dispatch posts an action back to the goroutine that calls Reduce.
	Dispatch func(Action)
	Logger   *slog.Logger
}

// pendingNavigation remembers what to do once a navigation commits.
type pendingNavigation struct {
	generation  uint64
	focusKey    string
	record      bool
	historyStep int
	// restore is the filter cleared when the navigation started; it comes
	// back if the load fails.
	restore querySnapshot
}

type querySnapshot struct {
	text     string
	selected int
	scroll   int
}

// Pane is one independent list: a navigator, a query pump and the projection
// they feed. Reduce is the only mutator and must run on a single goroutine.
type Pane struct {
	id        string
	kind      PaneKind
	nav       *Navigator
	pump      *QueryPump
	projector Projector
	gate      security.Gate
	mode      Mode
	callbacks Callbacks
	dispatch  func(Action)
	logger    *slog.Logger

	query      string
	scored     string
	scoredRev  uint64
	projection Projection

	selected int
	scroll   int
	width    int
	height   int

	status  Status
	pending pendingNavigation

	history         []source.Scope
	historyIndex    int
	selectionMemory map[string]string

	filterPasses int
	disposed     bool
}

// NewPane builds a pane. Nothing is loaded until a NavigateAction arrives.
func NewPane(cfg PaneConfig) *Pane {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Gate == nil {
		cfg.Gate = security.AllowAll
	}
	logger := cfg.Logger.With("pane", cfg.ID, "kind", cfg.Kind.String())

	p := &Pane{
		id:              cfg.ID,
		kind:            cfg.Kind,
		projector:       cfg.Projector,
		gate:            cfg.Gate,
		mode:            cfg.Mode,
		callbacks:       cfg.Callbacks,
		dispatch:        cfg.Dispatch,
		logger:          logger,
		historyIndex:    -1,
		selectionMemory: make(map[string]string),
	}
	p.nav = NewNavigator(NavigatorConfig{
		Loader: cfg.Loader,
		Source: cfg.Source,
		Gate:   cfg.Gate,
		Logger: logger.With("component", "navigator"),
		Deliver: func(res LoadResult) {
			p.post(LoadResultAction(res))
		},
	})
	p.pump = NewQueryPump(cfg.Debounce, func(revision uint64) {
		p.post(QueryDebounceAction{Revision: revision})
	})
	return p
}

func (p *Pane) post(action Action) {
	if p.dispatch != nil {
		p.dispatch(action)
	}
}

// Reduce applies one action. Errors are also recorded as the pane status.
func (p *Pane) Reduce(action Action) error {
	if p.disposed || action == nil {
		return nil
	}
	err := p.reduce(action)
	if err != nil {
		if status, ok := statusForError(err); ok {
			p.status = status
		}
	}
	return err
}

func (p *Pane) reduce(action Action) error {
	switch a := action.(type) {
	case NavigateAction:
		return p.navigate(a.Scope, "", a.Record, 0)
	case GoToPathAction:
		return p.goToPath(a.Path)
	case GoUpAction:
		return p.goUp()
	case GoHomeAction:
		return p.goHome()
	case HistoryBackAction:
		return p.historyStep(-1)
	case HistoryForwardAction:
		return p.historyStep(1)
	case RefreshAction:
		return p.refresh()
	case ToggleHiddenAction:
		return p.toggleHidden()

	case QueryCharAction:
		p.setQuery(p.query + string(a.Char))
	case QueryBackspaceAction:
		p.setQuery(trimLastRune(p.query))
	case QueryDeleteWordAction:
		p.setQuery(trimLastWord(p.query))
	case QueryClearAction:
		p.setQuery("")
	case SetQueryAction:
		p.setQuery(a.Text)
	case QueryDebounceAction:
		if p.pump.Fire(a.Revision) {
			p.runFilter(a.Revision)
		}

	case MoveSelectionAction:
		p.moveSelection(a.Delta)
	case PageSelectionAction:
		p.moveSelection(a.Pages * p.listRows())
	case SelectFirstAction:
		p.setSelected(0)
	case SelectLastAction:
		p.setSelected(len(p.projection.Items) - 1)
	case SelectIndexAction:
		p.setSelected(a.Index)

	case OpenAction:
		return p.open()
	case ConfirmAction:
		return p.confirm()
	case ConfirmScopeAction:
		return p.confirmScope()
	case CancelAction:
		p.cancel()

	case LoadResultAction:
		return p.commit(LoadResult(a))

	case ResizeAction:
		p.width, p.height = a.Width, a.Height
		p.ensureVisible()
	case DisposeAction:
		p.Dispose()
	}
	return nil
}

// Dispose stops the debounce timer and cancels any in-flight load.
func (p *Pane) Dispose() {
	if p.disposed {
		return
	}
	p.pump.Stop()
	p.nav.Dispose()
	p.disposed = true
}

func (p *Pane) commit(res LoadResult) error {
	previous := p.selectedKey()
	sameScope := p.nav.Scope().Equal(res.Scope)

	switch p.nav.Commit(res) {
	case CommitApplied:
		focus := ""
		if p.pending.generation == res.Generation {
			focus = p.pending.focusKey
			p.applyHistory(res.Scope)
		}
		p.pending = pendingNavigation{}
		if p.status.Level != StatusInfo {
			p.status = Status{}
		}
		p.reproject()
		p.restoreSelection(focus, previous, sameScope)
		return nil
	case CommitFailed:
		restore := p.pending.restore
		p.pending = pendingNavigation{}
		if restore.text != "" && p.query == "" {
			p.restoreQuery(restore)
		}
		return p.nav.Err()
	default:
		return nil
	}
}

// ===== ACCESSORS (read by the renderer on the UI goroutine) =====

func (p *Pane) ID() string                 { return p.id }
func (p *Pane) Kind() PaneKind             { return p.kind }
func (p *Pane) Query() string              { return p.query }
func (p *Pane) Projection() Projection     { return p.projection }
func (p *Pane) Projector() Projector       { return p.projector }
func (p *Pane) Status() Status             { return p.status }
func (p *Pane) Mode() Mode                 { return p.mode }
func (p *Pane) Phase() Phase               { return p.nav.Phase() }
func (p *Pane) Scope() source.Scope        { return p.nav.Scope() }
func (p *Pane) PendingScope() source.Scope { return p.nav.PendingScope() }
func (p *Pane) Generation() uint64         { return p.nav.Generation() }
func (p *Pane) SelectedIndex() int         { return p.selected }
func (p *Pane) ScrollOffset() int          { return p.scroll }
func (p *Pane) Disposed() bool             { return p.disposed }
func (p *Pane) FilterPasses() int          { return p.filterPasses }

// Loading reports whether an enumeration is in flight.
func (p *Pane) Loading() bool {
	return p.nav.Phase() == PhaseLoading
}

// ShowHidden reports whether the pane's filesystem source lists hidden entries.
func (p *Pane) ShowHidden() bool {
	if fs, ok := p.nav.Source().(*source.FilesystemSource); ok {
		return fs.ShowHidden()
	}
	return false
}

// Extensions returns the active extension allow-list, empty when every file
// is listed.
func (p *Pane) Extensions() []string {
	if fs, ok := p.nav.Source().(*source.FilesystemSource); ok {
		return fs.Options().Extensions.Entries()
	}
	return nil
}

// Selected returns the highlighted candidate.
func (p *Pane) Selected() (source.Candidate, bool) {
	items := p.projection.Items
	if p.selected < 0 || p.selected >= len(items) {
		return source.Candidate{}, false
	}
	return items[p.selected].Candidate, true
}

// ListRows is the number of rows available for candidates.
func (p *Pane) ListRows() int {
	return p.listRows()
}

func (p *Pane) listRows() int {
	rows := p.height - chromeRows
	if rows < 1 {
		rows = 1
	}
	return rows
}

// SetStatus replaces the status line.
func (p *Pane) SetStatus(status Status) {
	p.status = status
}
