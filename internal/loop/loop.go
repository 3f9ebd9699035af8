// Package loop runs posted functions one at a time on a single goroutine.
//
// Everything that mutates playback state is confined to the loop, so the
// state itself needs no locking. Transports post their callbacks here and
// presentation surfaces post their commands here.
package loop

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Do once the loop has been closed.
var ErrClosed = errors.New("loop closed")

// Loop is an unbounded FIFO of functions drained by Run.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}

	done      chan struct{}
	closeOnce sync.Once
}

// New creates an idle loop. Call Run to start draining it.
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Post enqueues fn. It never blocks, so it is safe to call from the loop
// goroutine itself. It returns false if the loop is closed.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do posts fn and waits until it has run. It must not be called from the
// loop goroutine.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	ran := make(chan struct{})
	if !l.Post(func() {
		defer close(ran)
		fn()
	}) {
		return ErrClosed
	}

	select {
	case <-ran:
		return nil
	case <-l.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drains posted functions in order until ctx is cancelled or Close is
// called. It returns ctx.Err() on cancellation and nil on Close.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case <-l.wake:
			for _, fn := range l.take() {
				fn()
			}
		}
	}
}

// Close stops Run. Functions still queued are dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}

// Done is closed when the loop is closed.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) take() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fns := l.pending
	l.pending = nil
	return fns
}
