package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoop(t *testing.T) *Loop {
	t.Helper()
	l := NewLoop()
	t.Cleanup(l.Close)
	return l
}

func TestLoop_RunsInSubmissionOrder(t *testing.T) {
	l := newLoop(t)

	var got []int
	for i := 0; i < 100; i++ {
		l.Execute(func() { got = append(got, i) })
	}
	require.NoError(t, l.Flush(context.Background()))

	require.Len(t, got, 100)
	for i, v := range got {
		require.Equal(t, i, v)
	}
}

func TestLoop_ReentrantSubmitDoesNotBlock(t *testing.T) {
	l := newLoop(t)

	var order []string
	l.Execute(func() {
		order = append(order, "outer")
		for i := 0; i < 1000; i++ {
			l.Execute(func() {})
		}
		l.Execute(func() { order = append(order, "inner") })
	})

	require.NoError(t, l.Flush(context.Background()))
	require.Equal(t, []string{"outer", "inner"}, order)
}

func TestLoop_CloseDrainsQueuedWorkAndDropsLaterWork(t *testing.T) {
	l := NewLoop()

	ran := 0
	for i := 0; i < 10; i++ {
		l.Execute(func() { ran++ })
	}
	l.Close()
	require.Equal(t, 10, ran)

	l.Execute(func() { ran++ })
	require.Equal(t, 10, ran)
}

func TestRun_ContextCancelled(t *testing.T) {
	l := newLoop(t)

	release := make(chan struct{})
	l.Execute(func() { <-release })
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := Run(ctx, l, func() {})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPromise_ResolveOnlyOnce(t *testing.T) {
	p := NewPromise[int]()

	require.True(t, p.Resolve(1, nil))
	require.False(t, p.Resolve(2, errors.New("late")))

	v, err, ok := p.Future().Result()
	require.True(t, ok)
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestFuture_ResultBeforeResolve(t *testing.T) {
	p := NewPromise[string]()
	_, _, ok := p.Future().Result()
	require.False(t, ok)
}

func TestFuture_ThenRunsOnExecutor(t *testing.T) {
	l := newLoop(t)
	p := NewPromise[string]()

	var (
		mu  sync.Mutex
		got []string
	)
	done := make(chan struct{})
	p.Future().Then(l, func(v string, err error) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
		close(done)
	})

	p.Resolve("hello", nil)
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"hello"}, got)
}

func TestFuture_ThenAfterResolve(t *testing.T) {
	f := Resolved(42, nil)

	var got int
	f.Then(Inline, func(v int, err error) { got = v })
	require.Equal(t, 42, got)
}

func TestFuture_AwaitHonoursContext(t *testing.T) {
	p := NewPromise[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Future().Await(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGo_DeliversOnExecutor(t *testing.T) {
	l := newLoop(t)

	f := Go(context.Background(), l, func(ctx context.Context) (int, error) {
		return 7, nil
	})

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestMap(t *testing.T) {
	f := Map(Resolved(2, nil), func(v int) string { return "n=" + string(rune('0'+v)) })
	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "n=2", v)

	boom := errors.New("boom")
	called := false
	g := Map(Failed[int](boom), func(v int) int { called = true; return v })
	_, err = g.Await(context.Background())
	require.ErrorIs(t, err, boom)
	require.False(t, called)
}
