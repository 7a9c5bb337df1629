package async

import (
	"context"
	"sync"
)

// Future is the read side of a value that becomes available later, together
// with an error. A Future is resolved exactly once.
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	value     T
	err       error
	callbacks []continuation[T]
}

type continuation[T any] struct {
	exec Executor
	fn   func(T, error)
}

// Promise is the write side of a Future.
type Promise[T any] struct {
	f *Future[T]
}

// NewPromise returns an unresolved Promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{f: &Future[T]{done: make(chan struct{})}}
}

// Future returns the Future controlled by p.
func (p *Promise[T]) Future() *Future[T] { return p.f }

// Resolve completes the Future with v and err. Only the first call has an
// effect; it reports whether this call resolved the Future.
func (p *Promise[T]) Resolve(v T, err error) bool {
	f := p.f
	f.mu.Lock()
	select {
	case <-f.done:
		f.mu.Unlock()
		return false
	default:
	}
	f.value, f.err = v, err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, c := range callbacks {
		c.exec.Execute(func() { c.fn(v, err) })
	}
	return true
}

// Fail resolves the Future with the zero value and err.
func (p *Promise[T]) Fail(err error) bool {
	var zero T
	return p.Resolve(zero, err)
}

// Resolved returns an already completed Future.
func Resolved[T any](v T, err error) *Future[T] {
	p := NewPromise[T]()
	p.Resolve(v, err)
	return p.Future()
}

// Failed returns an already completed Future carrying err.
func Failed[T any](err error) *Future[T] {
	var zero T
	return Resolved(zero, err)
}

// Go runs fn on a new goroutine and resolves the returned Future on deliver.
// Continuations registered with Then(Inline, ...) before completion therefore
// run on deliver too.
func Go[T any](ctx context.Context, deliver Executor, fn func(ctx context.Context) (T, error)) *Future[T] {
	p := NewPromise[T]()
	go func() {
		v, err := fn(ctx)
		deliver.Execute(func() { p.Resolve(v, err) })
	}()
	return p.Future()
}

// Done is closed once the Future is resolved.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Result returns the value and error, and whether the Future is resolved.
func (f *Future[T]) Result() (T, error, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		var zero T
		return zero, nil, false
	}
}

// Await blocks until the Future is resolved or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then schedules fn on exec once the Future is resolved. If it already is, fn
// is submitted to exec right away.
func (f *Future[T]) Then(exec Executor, fn func(T, error)) {
	f.mu.Lock()
	select {
	case <-f.done:
		v, err := f.value, f.err
		f.mu.Unlock()
		exec.Execute(func() { fn(v, err) })
		return
	default:
	}
	f.callbacks = append(f.callbacks, continuation[T]{exec: exec, fn: fn})
	f.mu.Unlock()
}

// Forward resolves p with the outcome of f.
func (f *Future[T]) Forward(p *Promise[T]) {
	f.Then(Inline, func(v T, err error) { p.Resolve(v, err) })
}

// Map derives a Future whose value is fn applied to the value of f. Errors
// pass through untouched and fn is not called.
func Map[T, U any](f *Future[T], fn func(T) U) *Future[U] {
	p := NewPromise[U]()
	f.Then(Inline, func(v T, err error) {
		if err != nil {
			p.Fail(err)
			return
		}
		p.Resolve(fn(v), nil)
	})
	return p.Future()
}
