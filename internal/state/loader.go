package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kk-code-lab/rnav/internal/source"
)

// Loader runs candidate enumerations off the UI goroutine.
type Loader interface {
	// Start begins req and returns a function that cancels it. The callback
	// is never invoked for a cancelled load.
	Start(req LoadRequest) (cancel func())
	// Wait blocks until every started load has returned.
	Wait()
}

// LoadRequest describes an enumeration to perform.
type LoadRequest struct {
	Generation uint64
	Scope      source.Scope
	Source     source.Source
	Callback   func(LoadResult)
}

// LoadResult is emitted by a Loader once an enumeration completes.
type LoadResult struct {
	Generation uint64
	Scope      source.Scope
	Candidates []source.Candidate
	Err        error
}

// AsyncLoader runs one goroutine per load. Every load context derives from
// the lifetime context, so cancelling either the load or the lifetime stops
// the enumeration.
type AsyncLoader struct {
	lifetime context.Context
	logger   *slog.Logger

	wg     sync.WaitGroup
	mu     sync.Mutex
	nextID uint64
	jobs   map[uint64]context.CancelFunc
}

// NewAsyncLoader constructs the default goroutine-based loader bound to lifetime.
func NewAsyncLoader(lifetime context.Context, logger *slog.Logger) *AsyncLoader {
	if lifetime == nil {
		lifetime = context.Background()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AsyncLoader{
		lifetime: lifetime,
		logger:   logger,
		jobs:     make(map[uint64]context.CancelFunc),
	}
}

func (l *AsyncLoader) Start(req LoadRequest) func() {
	if req.Source == nil || req.Callback == nil {
		return func() {}
	}

	ctx, cancel := context.WithCancel(l.lifetime)
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.jobs[id] = cancel
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer l.release(id, cancel)

		candidates, err := req.Source.List(ctx, req.Scope)

		if ctx.Err() != nil {
			l.logger.Debug("load cancelled",
				"generation", req.Generation,
				"scope", req.Scope.String(),
			)
			return
		}

		req.Callback(LoadResult{
			Generation: req.Generation,
			Scope:      req.Scope,
			Candidates: candidates,
			Err:        err,
		})
	}()

	return cancel
}

func (l *AsyncLoader) release(id uint64, cancel context.CancelFunc) {
	cancel()
	l.mu.Lock()
	delete(l.jobs, id)
	l.mu.Unlock()
}

func (l *AsyncLoader) pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.jobs)
}

func (l *AsyncLoader) Wait() {
	l.wg.Wait()
}
