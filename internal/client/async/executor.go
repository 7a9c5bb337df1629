// Package async provides the execution primitives the client core is built on:
// executors that decide where a continuation runs, a serial Loop that plays the
// role of the single owning context for service state, and Future/Promise for
// results of operations that complete later.
//
// Service state is touched only from functions running on a Loop. Network I/O
// runs on its own goroutines and hands its result back with Future.Then, so a
// completion never re-enters service state concurrently.
package async

import (
	"context"
	"sync"
)

// Executor runs submitted functions. Implementations decide on which goroutine
// and in which order.
type Executor interface {
	Execute(fn func())
}

// ExecutorFunc adapts an ordinary function to the Executor interface.
type ExecutorFunc func(fn func())

// Execute calls f(fn).
func (f ExecutorFunc) Execute(fn func()) { f(fn) }

// Inline runs every function immediately on the calling goroutine.
var Inline Executor = ExecutorFunc(func(fn func()) { fn() })

// Loop is a serial executor: submitted functions run one at a time, in
// submission order, on a single goroutine owned by the Loop.
//
// The queue is unbounded so a function running on the loop may submit more
// work to the same loop without blocking.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

// NewLoop starts a Loop. Call Close to stop it.
func NewLoop() *Loop {
	l := &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go l.run()
	return l
}

// Execute enqueues fn. Work submitted after Close is dropped.
func (l *Loop) Execute(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.signal()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			closed := l.closed
			l.mu.Unlock()
			if closed {
				return
			}
			<-l.wake
			continue
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
	}
}

// Flush blocks until every function submitted before the call has run, or ctx
// is done. It must not be called from the loop goroutine itself.
func (l *Loop) Flush(ctx context.Context) error {
	return Run(ctx, l, func() {})
}

// Close stops accepting work, lets already queued functions finish and waits
// for the loop goroutine to exit. It must not be called from the loop itself.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.signal()
	<-l.done
}

// Run submits fn to exec and waits for it to finish or for ctx to be done.
// When ctx wins, fn may still run later.
func Run(ctx context.Context, exec Executor, fn func()) error {
	finished := make(chan struct{})
	exec.Execute(func() {
		defer close(finished)
		fn()
	})
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
