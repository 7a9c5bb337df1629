package services

import (
	"context"
	"slices"
	"sync/atomic"

	"github.com/dmitrijs2005/imagefeed/internal/client/async"
	"github.com/dmitrijs2005/imagefeed/internal/client/client"
	"github.com/dmitrijs2005/imagefeed/internal/client/events"
	"github.com/dmitrijs2005/imagefeed/internal/client/models"
	"github.com/dmitrijs2005/imagefeed/internal/logging"
)

// DefaultPerPage is the page size used when none is configured.
const DefaultPerPage = 10

// TokenSource yields the current bearer token.
type TokenSource interface {
	Token() (string, bool)
}

// FeedAPI is the part of the photo API the feed needs.
type FeedAPI interface {
	Photos(ctx context.Context, token string, page, perPage int) *async.Future[[]models.PhotoResult]
	SetLike(ctx context.Context, token, photoID string, liked bool) *async.Future[struct{}]
}

type feedSnapshot struct {
	photos []models.Photo
	page   int
}

// FeedService pages through the photo feed and keeps the loaded photos in
// arrival order, without duplicates.
type FeedService struct {
	loop    async.Executor
	api     FeedAPI
	tokens  TokenSource
	perPage int
	log     logging.Logger

	// loop-confined
	flight flight[[]models.Photo]
	photos []models.Photo
	index  map[string]int
	page   int

	// epoch counts resets. Likes started in an older epoch must not touch
	// the current collection.
	epoch   uint64
	likeSeq uint64
	likes   map[uint64]context.CancelFunc

	snap atomic.Pointer[feedSnapshot]

	changed events.Bus[FeedChanged]
	updated events.Bus[PhotoUpdated]
	failed  events.Bus[FetchFailed]
}

func NewFeedService(loop async.Executor, api FeedAPI, tokens TokenSource, perPage int, log logging.Logger) *FeedService {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	s := &FeedService{
		loop:    loop,
		api:     api,
		tokens:  tokens,
		perPage: perPage,
		log:     log.With("component", "feed"),
		index:   make(map[string]int),
		likes:   make(map[uint64]context.CancelFunc),
	}
	s.snap.Store(&feedSnapshot{})
	return s
}

// Photos returns a copy of the loaded photos.
func (s *FeedService) Photos() []models.Photo {
	return slices.Clone(s.snap.Load().photos)
}

// Page returns the last successfully loaded page, 0 before the first.
func (s *FeedService) Page() int {
	return s.snap.Load().page
}

// FetchNextPage loads page Page()+1 and resolves with the photos it added.
// While a fetch is running further calls start nothing and return a future
// of the running fetch.
func (s *FeedService) FetchNextPage(ctx context.Context) *async.Future[[]models.Photo] {
	return onLoop(s.loop, func() *async.Future[[]models.Photo] { return s.fetchNextPage(ctx) })
}

// RequestNextPage is the fire-and-forget form of FetchNextPage. Observers
// learn the outcome from FeedChanged or FetchFailed.
func (s *FeedService) RequestNextPage(ctx context.Context) {
	s.FetchNextPage(ctx)
}

func (s *FeedService) fetchNextPage(ctx context.Context) *async.Future[[]models.Photo] {
	if f := s.flight.pending(); f != nil {
		s.log.Debug(ctx, "fetch already running, call dropped", "page", s.page+1)
		return f
	}
	token, ok := s.tokens.Token()
	if !ok {
		return async.Failed[[]models.Photo](client.ErrTokenMissing)
	}

	page := s.page + 1
	reqCtx, gen, fut := s.flight.begin(ctx)
	s.log.Debug(ctx, "fetching page", "page", page, "per_page", s.perPage)

	s.api.Photos(reqCtx, token, page, s.perPage).Then(s.loop, func(res []models.PhotoResult, err error) {
		if !s.flight.current(gen) {
			s.log.Debug(ctx, "stale page dropped", "page", page)
			return
		}
		if err != nil {
			s.log.Warn(ctx, "page fetch failed", "page", page, "error", err)
			s.flight.finish(gen, nil, err)
			s.failed.Publish(FetchFailed{Page: page, Err: err})
			return
		}

		added := s.appendPage(page, res)
		s.log.Debug(ctx, "page loaded", "page", page, "received", len(res), "added", len(added))
		s.flight.finish(gen, added, nil)
	})
	return fut
}

func (s *FeedService) appendPage(page int, res []models.PhotoResult) []models.Photo {
	from := len(s.photos)
	for _, r := range res {
		if _, dup := s.index[r.ID]; dup {
			continue
		}
		s.index[r.ID] = len(s.photos)
		s.photos = append(s.photos, models.PhotoFromResult(r))
	}
	s.page = page
	s.publish()

	added := slices.Clone(s.photos[from:])
	s.changed.Publish(FeedChanged{
		Added:  IndexRange{From: from, To: len(s.photos)},
		Page:   page,
		Photos: added,
	})
	return added
}

// ChangeLike likes or unlikes a photo. The stored photo changes only after the
// server confirms; if it is gone by then the call still succeeds.
//
// A reset cancels running likes. A confirmation that arrives after a reset
// resolves the call but leaves the new collection alone; a failure after a
// reset resolves with client.ErrSuperseded.
func (s *FeedService) ChangeLike(ctx context.Context, photoID string, liked bool) *async.Future[struct{}] {
	return onLoop(s.loop, func() *async.Future[struct{}] {
		token, ok := s.tokens.Token()
		if !ok {
			return async.Failed[struct{}](client.ErrTokenMissing)
		}

		epoch := s.epoch
		reqCtx, cancel := context.WithCancel(ctx)
		s.likeSeq++
		id := s.likeSeq
		s.likes[id] = cancel

		p := async.NewPromise[struct{}]()
		s.api.SetLike(reqCtx, token, photoID, liked).Then(s.loop, func(_ struct{}, err error) {
			cancel()
			delete(s.likes, id)

			if epoch != s.epoch {
				s.log.Debug(ctx, "like result from before reset dropped", "photo", photoID, "error", err)
				if err != nil {
					p.Fail(client.ErrSuperseded)
					return
				}
				p.Resolve(struct{}{}, nil)
				return
			}
			if err != nil {
				s.log.Warn(ctx, "like change failed", "photo", photoID, "liked", liked, "error", err)
				p.Fail(err)
				return
			}
			if i, ok := s.index[photoID]; ok {
				s.photos[i] = s.photos[i].WithLiked(liked)
				s.publish()
				s.updated.Publish(PhotoUpdated{Index: i, Photo: s.photos[i]})
			}
			p.Resolve(struct{}{}, nil)
		})
		return p.Future()
	})
}

// Reset empties the collection, rewinds the cursor and supersedes running
// fetches and likes so their late results are dropped.
func (s *FeedService) Reset() *async.Future[struct{}] {
	return onLoop(s.loop, func() *async.Future[struct{}] {
		s.reset()
		return async.Resolved(struct{}{}, nil)
	})
}

func (s *FeedService) reset() {
	s.flight.supersede()
	s.epoch++
	for _, cancel := range s.likes {
		cancel()
	}
	s.likes = make(map[uint64]context.CancelFunc)
	s.photos = nil
	s.index = make(map[string]int)
	s.page = 0
	s.publish()
	s.changed.Publish(FeedChanged{Reset: true})
}

// publish replaces the snapshot. The photos slice is copied because later
// appends and like updates reuse the backing array.
func (s *FeedService) publish() {
	s.snap.Store(&feedSnapshot{photos: slices.Clone(s.photos), page: s.page})
}

func (s *FeedService) SubscribeChanged(exec async.Executor, fn func(FeedChanged)) func() {
	return s.changed.Subscribe(exec, fn)
}

func (s *FeedService) SubscribePhotoUpdated(exec async.Executor, fn func(PhotoUpdated)) func() {
	return s.updated.Subscribe(exec, fn)
}

func (s *FeedService) SubscribeFetchFailed(exec async.Executor, fn func(FetchFailed)) func() {
	return s.failed.Subscribe(exec, fn)
}
