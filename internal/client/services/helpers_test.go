package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/imagefeed/internal/client/async"
	"github.com/dmitrijs2005/imagefeed/internal/client/models"
)

const waitFor = 2 * time.Second

func newLoop(t *testing.T) *async.Loop {
	t.Helper()
	loop := async.NewLoop()
	t.Cleanup(loop.Close)
	return loop
}

// settle lets chained continuations (completion -> state -> event) drain.
func settle(t *testing.T, loop *async.Loop) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	for i := 0; i < 4; i++ {
		require.NoError(t, loop.Flush(ctx))
	}
}

func await[T any](t *testing.T, f *async.Future[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	v, err := f.Await(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "future never resolved")
	return v, err
}

func pending[T any](t *testing.T, loop *async.Loop, f *async.Future[T]) {
	t.Helper()
	settle(t, loop)
	_, _, done := f.Result()
	require.False(t, done, "future resolved too early")
}

// ---- fake OAuth ----

type exchangeCall struct {
	ctx  context.Context
	code string
	p    *async.Promise[string]
}

type fakeExchanger struct {
	mu    sync.Mutex
	calls []*exchangeCall
}

func (f *fakeExchanger) Exchange(ctx context.Context, code string) *async.Future[string] {
	c := &exchangeCall{ctx: ctx, code: code, p: async.NewPromise[string]()}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	return c.p.Future()
}

func (f *fakeExchanger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeExchanger) call(t *testing.T, i int) *exchangeCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.Greater(t, len(f.calls), i)
	return f.calls[i]
}

// ---- fake photo API ----

type photosCall struct {
	ctx     context.Context
	token   string
	page    int
	perPage int
	p       *async.Promise[[]models.PhotoResult]
}

type likeCall struct {
	ctx   context.Context
	token string
	id    string
	liked bool
	p     *async.Promise[struct{}]
}

type fakeAPI struct {
	mu      sync.Mutex
	photos  []*photosCall
	likes   []*likeCall
	me      []*async.Promise[models.ProfileResult]
	meToken []string
	users   []*async.Promise[models.UserResult]
	userArg []string
}

func (f *fakeAPI) Photos(ctx context.Context, token string, page, perPage int) *async.Future[[]models.PhotoResult] {
	c := &photosCall{ctx: ctx, token: token, page: page, perPage: perPage, p: async.NewPromise[[]models.PhotoResult]()}
	f.mu.Lock()
	f.photos = append(f.photos, c)
	f.mu.Unlock()
	return c.p.Future()
}

func (f *fakeAPI) SetLike(ctx context.Context, token, id string, liked bool) *async.Future[struct{}] {
	c := &likeCall{ctx: ctx, token: token, id: id, liked: liked, p: async.NewPromise[struct{}]()}
	f.mu.Lock()
	f.likes = append(f.likes, c)
	f.mu.Unlock()
	return c.p.Future()
}

func (f *fakeAPI) Me(_ context.Context, token string) *async.Future[models.ProfileResult] {
	p := async.NewPromise[models.ProfileResult]()
	f.mu.Lock()
	f.me = append(f.me, p)
	f.meToken = append(f.meToken, token)
	f.mu.Unlock()
	return p.Future()
}

func (f *fakeAPI) User(_ context.Context, _ string, username string) *async.Future[models.UserResult] {
	p := async.NewPromise[models.UserResult]()
	f.mu.Lock()
	f.users = append(f.users, p)
	f.userArg = append(f.userArg, username)
	f.mu.Unlock()
	return p.Future()
}

func (f *fakeAPI) photosCalls() []*photosCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*photosCall(nil), f.photos...)
}

func (f *fakeAPI) likeCalls() []*likeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*likeCall(nil), f.likes...)
}

func (f *fakeAPI) meCalls() []*async.Promise[models.ProfileResult] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*async.Promise[models.ProfileResult](nil), f.me...)
}

func (f *fakeAPI) userCalls() []*async.Promise[models.UserResult] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*async.Promise[models.UserResult](nil), f.users...)
}

func results(ids ...string) []models.PhotoResult {
	out := make([]models.PhotoResult, 0, len(ids))
	for _, id := range ids {
		ts := "2016-05-03T11:00:28-04:00"
		out = append(out, models.PhotoResult{
			ID:        id,
			Width:     100,
			Height:    200,
			CreatedAt: &ts,
			URLs:      models.PhotoURLs{Thumb: "thumb/" + id, Regular: "regular/" + id},
		})
	}
	return out
}

func ids(photos []models.Photo) []string {
	out := make([]string, 0, len(photos))
	for _, p := range photos {
		out = append(out, p.ID)
	}
	return out
}

// recorder collects events delivered on the loop.
type recorder[E any] struct {
	mu     sync.Mutex
	events []E
}

func (r *recorder[E]) add(e E) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder[E]) all() []E {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]E(nil), r.events...)
}
