// Package events provides typed, in-process event channels. Each service owns
// one Bus per event type; observers subscribe with the executor their handler
// must run on and get back a function that ends the subscription.
package events

import (
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/imagefeed/internal/client/async"
)

// Bus fans events of type E out to its subscribers. Events are delivered to
// each subscriber in publish order through the subscriber's executor. Once
// unsubscribe has returned no new delivery starts, including deliveries of
// events still queued on the executor. A delivery already running on another
// goroutine at that moment is not interrupted; subscribers on the same
// executor as the caller of unsubscribe are never in that position.
type Bus[E any] struct {
	mu   sync.Mutex
	subs []*subscription[E]
}

type subscription[E any] struct {
	exec   async.Executor
	fn     func(E)
	active atomic.Bool
}

// Subscribe registers fn to be run on exec for every event published after the
// call. The returned function unsubscribes; calling it more than once is safe.
func (b *Bus[E]) Subscribe(exec async.Executor, fn func(E)) (unsubscribe func()) {
	s := &subscription[E]{exec: exec, fn: fn}
	s.active.Store(true)

	b.mu.Lock()
	b.subs = append(b.subs, s)
	b.mu.Unlock()

	return func() {
		if !s.active.Swap(false) {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, cur := range b.subs {
			if cur == s {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers e to every current subscriber.
func (b *Bus[E]) Publish(e E) {
	b.mu.Lock()
	subs := make([]*subscription[E], len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.exec.Execute(func() {
			if s.active.Load() {
				s.fn(e)
			}
		})
	}
}
