// Package event abstracts the host event loop. The core never owns a
// loop; it posts continuations and delayed callbacks onto whatever loop
// the host provides.
package event

import (
	"sync"
	"time"
)

// Loop schedules callbacks onto the thread that owns the core state.
type Loop interface {
	// Post schedules fn to run as soon as possible.
	Post(fn func())
	// PostDelayed schedules fn to run after at least d.
	PostDelayed(d time.Duration, fn func())
}

// ImmediateLoop runs callbacks synchronously on the calling goroutine.
// Suitable for tests and for hosts that drive the core from a single
// goroutine and accept reentrancy.
type ImmediateLoop struct{}

func (ImmediateLoop) Post(fn func()) { fn() }

func (ImmediateLoop) PostDelayed(_ time.Duration, fn func()) { fn() }

// RunLoop is a channel-backed loop for hosts without a native one. All
// posted callbacks run on the goroutine that calls Run.
type RunLoop struct {
	mu      sync.Mutex
	ch      chan func()
	stopped bool
	done    chan struct{}
}

func NewRunLoop() *RunLoop {
	return &RunLoop{ch: make(chan func(), 128), done: make(chan struct{})}
}

// Run processes callbacks until Stop is called.
func (l *RunLoop) Run() {
	for {
		select {
		case fn := <-l.ch:
			fn()
		case <-l.done:
			// Drain what was posted before the stop.
			for {
				select {
				case fn := <-l.ch:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Stop makes Run return after draining already-posted callbacks.
func (l *RunLoop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.stopped {
		l.stopped = true
		close(l.done)
	}
}

func (l *RunLoop) Post(fn func()) {
	l.mu.Lock()
	stopped := l.stopped
	l.mu.Unlock()
	if stopped {
		return
	}
	l.ch <- fn
}

func (l *RunLoop) PostDelayed(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { l.Post(fn) })
}
