package services

import (
	"context"
	"sync/atomic"

	"github.com/dmitrijs2005/imagefeed/internal/client/async"
	"github.com/dmitrijs2005/imagefeed/internal/client/client"
	"github.com/dmitrijs2005/imagefeed/internal/client/events"
	"github.com/dmitrijs2005/imagefeed/internal/client/models"
	"github.com/dmitrijs2005/imagefeed/internal/logging"
)

// ProfileAPI fetches the signed-in user.
type ProfileAPI interface {
	Me(ctx context.Context, token string) *async.Future[models.ProfileResult]
}

// ProfileService fetches and caches the profile of the signed-in user. A new
// fetch supersedes a running one.
type ProfileService struct {
	loop async.Executor
	api  ProfileAPI
	log  logging.Logger

	flight  flight[models.Profile]
	current atomic.Pointer[models.Profile]
	changed events.Bus[ProfileChanged]
}

func NewProfileService(loop async.Executor, api ProfileAPI, log logging.Logger) *ProfileService {
	return &ProfileService{loop: loop, api: api, log: log.With("component", "profile")}
}

// Profile returns the cached profile.
func (s *ProfileService) Profile() (models.Profile, bool) {
	p := s.current.Load()
	if p == nil {
		return models.Profile{}, false
	}
	return *p, true
}

func (s *ProfileService) FetchProfile(ctx context.Context, token string) *async.Future[models.Profile] {
	return onLoop(s.loop, func() *async.Future[models.Profile] {
		if token == "" {
			return async.Failed[models.Profile](client.ErrTokenMissing)
		}

		reqCtx, gen, fut := s.flight.begin(ctx)
		s.api.Me(reqCtx, token).Then(s.loop, func(res models.ProfileResult, err error) {
			if !s.flight.current(gen) {
				s.log.Debug(ctx, "stale profile dropped")
				return
			}
			if err != nil {
				s.log.Warn(ctx, "profile fetch failed", "error", err)
				s.flight.finish(gen, models.Profile{}, err)
				return
			}

			p := models.ProfileFromResult(res)
			s.current.Store(&p)
			s.changed.Publish(ProfileChanged{Profile: &p})
			s.flight.finish(gen, p, nil)
		})
		return fut
	})
}

// Clear drops the cached profile and supersedes a running fetch.
func (s *ProfileService) Clear() *async.Future[struct{}] {
	return onLoop(s.loop, func() *async.Future[struct{}] {
		s.clear()
		return async.Resolved(struct{}{}, nil)
	})
}

func (s *ProfileService) clear() {
	s.flight.supersede()
	if s.current.Swap(nil) != nil {
		s.changed.Publish(ProfileChanged{})
	}
}

func (s *ProfileService) Subscribe(exec async.Executor, fn func(ProfileChanged)) func() {
	return s.changed.Subscribe(exec, fn)
}
