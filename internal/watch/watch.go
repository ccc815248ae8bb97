// Package watch turns filesystem changes in the browsed directory into a
// coalesced refresh signal.
package watch

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts such as a build writing many files.
const DefaultDebounce = 250 * time.Millisecond

var ErrClosed = errors.New("watcher closed")

// Watcher watches a single directory at a time. notify runs on a timer
// goroutine with the directory that changed; it must not block.
type Watcher struct {
	fsw      *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration
	notify   func(path string)

	mu     sync.Mutex
	path   string
	timer  *time.Timer
	closed bool

	wg sync.WaitGroup
}

// New starts a watcher. Nothing is watched until Watch is called.
func New(logger *slog.Logger, debounce time.Duration, notify func(path string)) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		logger:   logger,
		debounce: debounce,
		notify:   notify,
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Watch replaces the watched directory with path. Watching the same path
// again is a no-op.
func (w *Watcher) Watch(path string) error {
	path = filepath.Clean(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if path == w.path {
		return nil
	}
	if w.path != "" {
		if err := w.fsw.Remove(w.path); err != nil {
			w.logger.Debug("unwatch failed", "path", w.path, "err", err)
		}
	}
	w.stopTimerLocked()
	w.path = ""
	if err := w.fsw.Add(path); err != nil {
		return err
	}
	w.path = path
	return nil
}

// Path returns the watched directory.
func (w *Watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Close stops watching and waits for the event goroutine to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.stopTimerLocked()
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.path == "" {
		return
	}
	name := filepath.Clean(ev.Name)
	if name != w.path && filepath.Dir(name) != w.path {
		return
	}
	w.stopTimerLocked()
	path := w.path
	w.timer = time.AfterFunc(w.debounce, func() { w.fire(path) })
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	current := !w.closed && w.path == path
	w.timer = nil
	w.mu.Unlock()
	if current && w.notify != nil {
		w.notify(path)
	}
}

func (w *Watcher) stopTimerLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
