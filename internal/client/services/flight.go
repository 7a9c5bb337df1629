package services

import (
	"context"

	"github.com/dmitrijs2005/imagefeed/internal/client/async"
	"github.com/dmitrijs2005/imagefeed/internal/client/client"
)

// flight tracks the single in-flight request of one kind. Starting a new one
// supersedes the old: its context is cancelled and its future resolves with
// client.ErrSuperseded. The generation lets a completion that arrives after it
// was superseded recognise itself as stale.
//
// A flight is confined to the owning loop.
type flight[T any] struct {
	gen     uint64
	cancel  context.CancelFunc
	promise *async.Promise[T]
}

// begin supersedes any running request and starts tracking a new one.
func (f *flight[T]) begin(ctx context.Context) (context.Context, uint64, *async.Future[T]) {
	f.supersede()
	ctx, cancel := context.WithCancel(ctx)
	f.gen++
	f.cancel = cancel
	f.promise = async.NewPromise[T]()
	return ctx, f.gen, f.promise.Future()
}

func (f *flight[T]) active() bool { return f.promise != nil }

// pending returns the future of the running request, or nil.
func (f *flight[T]) pending() *async.Future[T] {
	if f.promise == nil {
		return nil
	}
	return f.promise.Future()
}

// current reports whether gen identifies the running request.
func (f *flight[T]) current(gen uint64) bool {
	return f.promise != nil && gen == f.gen
}

// finish resolves the running request if gen is still current.
func (f *flight[T]) finish(gen uint64, v T, err error) bool {
	if !f.current(gen) {
		return false
	}
	p, cancel := f.promise, f.cancel
	f.promise, f.cancel = nil, nil
	cancel()
	p.Resolve(v, err)
	return true
}

// supersede cancels the running request, if any.
func (f *flight[T]) supersede() {
	f.gen++
	if f.promise == nil {
		return
	}
	p, cancel := f.promise, f.cancel
	f.promise, f.cancel = nil, nil
	cancel()
	p.Fail(client.ErrSuperseded)
}

// onLoop runs fn on exec and hands its future back through the returned one.
func onLoop[T any](exec async.Executor, fn func() *async.Future[T]) *async.Future[T] {
	p := async.NewPromise[T]()
	exec.Execute(func() { fn().Forward(p) })
	return p.Future()
}
