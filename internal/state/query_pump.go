package state

import (
	"time"

	"github.com/kk-code-lab/rnav/internal/search"
)

// DefaultQueryDebounce is the quiet interval after the last keystroke before
// the query is scored.
const DefaultQueryDebounce = 150 * time.Millisecond

type stopper interface {
	Stop() bool
}

// QueryPump turns keystroke-rate query changes into at most one filter pass
// per quiet interval (trailing edge). It is owned by the UI goroutine; the
// timer callback only posts the revision it was armed with.
type QueryPump struct {
	delay     time.Duration
	notify    func(revision uint64)
	afterFunc func(time.Duration, func()) stopper

	revision uint64
	text     string
	timer    stopper
}

// NewQueryPump returns a pump that calls notify with the armed revision once
// delay has passed without another change.
func NewQueryPump(delay time.Duration, notify func(revision uint64)) *QueryPump {
	if delay <= 0 {
		delay = DefaultQueryDebounce
	}
	return &QueryPump{
		delay:  delay,
		notify: notify,
		afterFunc: func(d time.Duration, fn func()) stopper {
			return time.AfterFunc(d, fn)
		},
	}
}

// OnQueryChanged records a new query text. A blank query is reported as
// immediate and must be applied by the caller right away; otherwise the
// returned revision is delivered through notify after the quiet interval.
func (p *QueryPump) OnQueryChanged(text string) (revision uint64, immediate bool) {
	p.revision++
	p.text = text
	p.stopTimer()

	if search.IsBlank(text) {
		return p.revision, true
	}

	armed := p.revision
	notify := p.notify
	p.timer = p.afterFunc(p.delay, func() {
		if notify != nil {
			notify(armed)
		}
	})
	return armed, false
}

// Fire reports whether revision is still the latest one, i.e. whether a
// delivered debounce should run a filter pass.
func (p *QueryPump) Fire(revision uint64) bool {
	if revision != p.revision {
		return false
	}
	p.timer = nil
	return true
}

// Stop disarms any pending timer.
func (p *QueryPump) Stop() {
	p.stopTimer()
}

func (p *QueryPump) stopTimer() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}
