package state

import (
	"errors"
	"log/slog"

	"github.com/kk-code-lab/rnav/internal/security"
	"github.com/kk-code-lab/rnav/internal/source"
)

// Phase is the navigator's state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// CommitOutcome reports what Commit did with a load result.
type CommitOutcome int

const (
	CommitApplied CommitOutcome = iota
	CommitFailed
	CommitStale
	CommitCancelled
	CommitDisposed
)

func (o CommitOutcome) String() string {
	switch o {
	case CommitApplied:
		return "applied"
	case CommitFailed:
		return "failed"
	case CommitStale:
		return "stale"
	case CommitCancelled:
		return "cancelled"
	default:
		return "disposed"
	}
}

var (
	ErrDisposed = errors.New("navigator disposed")
	ErrNoScope  = errors.New("nothing to refresh")
)

// NavigatorConfig wires a Navigator to its collaborators.
type NavigatorConfig struct {
	Loader  Loader
	Source  source.Source
	Gate    security.Gate
	Logger  *slog.Logger
	Deliver func(LoadResult)
}

// Navigator owns the generation counter and the committed candidate set of a
// pane. All methods must be called from the goroutine that applies actions;
// the loader only hands results back through Deliver.
type Navigator struct {
	loader  Loader
	source  source.Source
	gate    security.Gate
	logger  *slog.Logger
	deliver func(LoadResult)

	generation uint64
	committed  uint64
	phase      Phase
	scope      source.Scope
	pending    source.Scope
	candidates []source.Candidate
	lastErr    error
	cancel     func()
	disposed   bool
}

// NewNavigator returns an idle navigator.
func NewNavigator(cfg NavigatorConfig) *Navigator {
	if cfg.Gate == nil {
		cfg.Gate = security.AllowAll
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Navigator{
		loader:  cfg.Loader,
		source:  cfg.Source,
		gate:    cfg.Gate,
		logger:  cfg.Logger,
		deliver: cfg.Deliver,
	}
}

// Navigate validates scope and starts loading it under a new generation. A
// rejected scope leaves the phase and the generation untouched.
func (n *Navigator) Navigate(scope source.Scope) error {
	if n.disposed {
		return ErrDisposed
	}
	if scope.IsZero() {
		return &source.Error{Kind: source.ScopeInvalid, Err: ErrNoScope}
	}
	if !scope.Static && !n.gate.ValidateAccess(scope.Path, false) {
		n.logger.Info("navigation rejected", "path", scope.Path)
		return &source.Error{Kind: source.ScopeInvalid, Path: scope.Path, Err: source.ErrAccessDenied}
	}

	n.cancelInFlight()
	n.generation++
	n.phase = PhaseLoading
	n.pending = scope

	if n.loader == nil || n.source == nil {
		return nil
	}
	n.cancel = n.loader.Start(LoadRequest{
		Generation: n.generation,
		Scope:      scope,
		Source:     n.source,
		Callback:   n.deliver,
	})
	return nil
}

// Refresh re-navigates the scope being loaded, or the committed scope when
// nothing is in flight.
func (n *Navigator) Refresh() error {
	target := n.scope
	if n.phase == PhaseLoading {
		target = n.pending
	}
	if target.IsZero() {
		return ErrNoScope
	}
	return n.Navigate(target)
}

// Commit applies res if it belongs to the current generation. Stale and
// cancelled results are dropped without touching state. A failure keeps the
// previously committed candidates.
func (n *Navigator) Commit(res LoadResult) CommitOutcome {
	if n.disposed {
		return CommitDisposed
	}
	if res.Generation != n.generation {
		n.logger.Debug("stale load dropped",
			"generation", res.Generation,
			"current", n.generation,
			"scope", res.Scope.String(),
		)
		return CommitStale
	}
	if source.IsCancelled(res.Err) {
		return CommitCancelled
	}

	n.cancel = nil
	if res.Err != nil {
		n.phase = PhaseFailed
		n.lastErr = res.Err
		n.logger.Warn("enumeration failed", "scope", res.Scope.String(), "err", res.Err)
		return CommitFailed
	}

	n.phase = PhaseReady
	n.lastErr = nil
	n.scope = res.Scope
	n.pending = source.Scope{}
	n.committed = res.Generation
	n.candidates = res.Candidates
	if n.candidates == nil {
		n.candidates = []source.Candidate{}
	}
	return CommitApplied
}

// Dispose cancels any in-flight load. Later commits are dropped.
func (n *Navigator) Dispose() {
	if n.disposed {
		return
	}
	n.cancelInFlight()
	n.disposed = true
}

// SetSource replaces the source used by later navigations.
func (n *Navigator) SetSource(src source.Source) {
	n.source = src
}

func (n *Navigator) cancelInFlight() {
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
}

func (n *Navigator) Phase() Phase                   { return n.phase }
func (n *Navigator) Generation() uint64             { return n.generation }
func (n *Navigator) CommittedGeneration() uint64    { return n.committed }
func (n *Navigator) Scope() source.Scope            { return n.scope }
func (n *Navigator) PendingScope() source.Scope     { return n.pending }
func (n *Navigator) Candidates() []source.Candidate { return n.candidates }
func (n *Navigator) Err() error                     { return n.lastErr }
func (n *Navigator) Disposed() bool                 { return n.disposed }
func (n *Navigator) Source() source.Source          { return n.source }
