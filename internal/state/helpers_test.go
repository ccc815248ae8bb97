package state

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/kk-code-lab/rnav/internal/source"
)

// manualLoader records requests and lets a test decide when (and in which
// order) they complete.
type manualLoader struct {
	mu        sync.Mutex
	requests  []LoadRequest
	cancelled map[uint64]bool
}

func newManualLoader() *manualLoader {
	return &manualLoader{cancelled: make(map[uint64]bool)}
}

func (l *manualLoader) Start(req LoadRequest) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, req)
	gen := req.Generation
	return func() {
		l.mu.Lock()
		l.cancelled[gen] = true
		l.mu.Unlock()
	}
}

func (l *manualLoader) Wait() {}

func (l *manualLoader) request(t *testing.T, idx int) LoadRequest {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx >= len(l.requests) {
		t.Fatalf("request %d not started (have %d)", idx, len(l.requests))
	}
	return l.requests[idx]
}

// result runs request idx synchronously and returns what the source produced.
func (l *manualLoader) result(t *testing.T, idx int) LoadResult {
	t.Helper()
	req := l.request(t, idx)
	items, err := req.Source.List(context.Background(), req.Scope)
	return LoadResult{Generation: req.Generation, Scope: req.Scope, Candidates: items, Err: err}
}

func (l *manualLoader) wasCancelled(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancelled[gen]
}

// syncLoader completes every load inside Start.
type syncLoader struct{}

func (syncLoader) Start(req LoadRequest) func() {
	items, err := req.Source.List(context.Background(), req.Scope)
	req.Callback(LoadResult{Generation: req.Generation, Scope: req.Scope, Candidates: items, Err: err})
	return func() {}
}

func (syncLoader) Wait() {}

// scopeSource labels its single candidate after the scope it was asked for.
type scopeSource struct{}

func (scopeSource) List(_ context.Context, scope source.Scope) ([]source.Candidate, error) {
	name := filepath.Base(scope.Path)
	return []source.Candidate{{Key: scope.Path, Label: name, Kind: source.KindFile}}, nil
}

// sliceSource serves fixed candidates for any scope.
type sliceSource []source.Candidate

func (s sliceSource) List(context.Context, source.Scope) ([]source.Candidate, error) {
	out := make([]source.Candidate, len(s))
	copy(out, s)
	return out, nil
}

// failingSource fails every listing with err.
type failingSource struct{ err error }

func (s failingSource) List(context.Context, source.Scope) ([]source.Candidate, error) {
	return nil, s.err
}

// blockingSource parks every List call until release is closed. When
// ignoreCancel is set it keeps waiting after ctx is done, modelling I/O that
// completes late.
type blockingSource struct {
	started      chan source.Scope
	release      chan struct{}
	ignoreCancel bool
}

func newBlockingSource(ignoreCancel bool) *blockingSource {
	return &blockingSource{
		started:      make(chan source.Scope, 16),
		release:      make(chan struct{}),
		ignoreCancel: ignoreCancel,
	}
}

func (s *blockingSource) List(ctx context.Context, scope source.Scope) ([]source.Candidate, error) {
	s.started <- scope
	if s.ignoreCancel {
		<-s.release
	} else {
		select {
		case <-ctx.Done():
			return nil, &source.Error{Kind: source.Cancelled, Path: scope.Path, Err: ctx.Err()}
		case <-s.release:
		}
	}
	return scopeSource{}.List(ctx, scope)
}

func waitStarted(t *testing.T, s *blockingSource) source.Scope {
	t.Helper()
	select {
	case scope := <-s.started:
		return scope
	case <-time.After(2 * time.Second):
		t.Fatalf("source was never called")
		return source.Scope{}
	}
}

// fakeClock replaces time.AfterFunc in query pump tests.
type fakeClock struct {
	timers []*fakeTimer
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (c *fakeClock) afterFunc(d time.Duration, fn func()) stopper {
	timer := &fakeTimer{delay: d, fn: fn}
	c.timers = append(c.timers, timer)
	return timer
}

func (c *fakeClock) active() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// fire runs every armed timer, including stopped ones when includeStopped is
// set (a Stop that lost the race against the timer goroutine).
func (c *fakeClock) fire(includeStopped bool) {
	for _, t := range c.timers {
		if t.fired || (t.stopped && !includeStopped) {
			continue
		}
		t.fired = true
		t.fn()
	}
}

// paneHarness plays the role of the application loop: dispatched actions are
// queued and applied in order by drain.
type paneHarness struct {
	t     *testing.T
	pane  *Pane
	queue []Action
	clock *fakeClock

	files     []string
	dirs      []string
	cancelled int
	commands  [][2]string
}

func newPaneHarness(t *testing.T, cfg PaneConfig) *paneHarness {
	t.Helper()
	h := &paneHarness{t: t, clock: &fakeClock{}}
	cfg.Dispatch = func(a Action) { h.queue = append(h.queue, a) }
	if cfg.Loader == nil {
		cfg.Loader = syncLoader{}
	}
	cfg.Callbacks = Callbacks{
		OnFileSelected:       func(path string) { h.files = append(h.files, path) },
		OnDirectorySelected:  func(path string) { h.dirs = append(h.dirs, path) },
		OnSelectionCancelled: func() { h.cancelled++ },
		OnCommandExecuted: func(name, fullInput string) {
			h.commands = append(h.commands, [2]string{name, fullInput})
		},
	}
	h.pane = NewPane(cfg)
	h.pane.pump.afterFunc = h.clock.afterFunc
	if err := h.pane.Reduce(ResizeAction{Width: 80, Height: 24}); err != nil {
		t.Fatalf("resize: %v", err)
	}
	return h
}

func (h *paneHarness) do(action Action) error {
	h.t.Helper()
	err := h.pane.Reduce(action)
	h.drain()
	return err
}

func (h *paneHarness) mustDo(action Action) {
	h.t.Helper()
	if err := h.do(action); err != nil {
		h.t.Fatalf("%T: %v", action, err)
	}
}

func (h *paneHarness) drain() {
	for len(h.queue) > 0 {
		next := h.queue[0]
		h.queue = h.queue[1:]
		_ = h.pane.Reduce(next)
	}
}

func (h *paneHarness) typeQuery(text string) {
	h.t.Helper()
	for _, r := range text {
		h.mustDo(QueryCharAction{Char: r})
	}
}

// settle fires the debounce timer and applies the resulting action.
func (h *paneHarness) settle() {
	h.clock.fire(false)
	h.drain()
}

func (h *paneHarness) labels() []string {
	items := h.pane.Projection().Items
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Candidate.Label
	}
	return out
}

func (h *paneHarness) selectLabel(label string) {
	h.t.Helper()
	for i, item := range h.pane.Projection().Items {
		if item.Candidate.Label == label {
			h.mustDo(SelectIndexAction{Index: i})
			return
		}
	}
	h.t.Fatalf("label %q not in %v", label, h.labels())
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
