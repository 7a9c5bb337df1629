package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/imagefeed/internal/client/async"
	"github.com/dmitrijs2005/imagefeed/internal/client/client"
	"github.com/dmitrijs2005/imagefeed/internal/client/events"
	"github.com/dmitrijs2005/imagefeed/internal/client/models"
	"github.com/dmitrijs2005/imagefeed/internal/logging"
)

var errNoSmallAvatar = errors.New("profile_image.small is empty")

// UserAPI fetches public user records.
type UserAPI interface {
	User(ctx context.Context, token, username string) *async.Future[models.UserResult]
}

// ProfileImageService resolves and caches the small avatar URL of a user.
type ProfileImageService struct {
	loop   async.Executor
	api    UserAPI
	tokens TokenSource
	log    logging.Logger

	flight  flight[string]
	current atomic.Pointer[string]
	changed events.Bus[AvatarChanged]
}

func NewProfileImageService(loop async.Executor, api UserAPI, tokens TokenSource, log logging.Logger) *ProfileImageService {
	return &ProfileImageService{loop: loop, api: api, tokens: tokens, log: log.With("component", "avatar")}
}

// AvatarURL returns the cached avatar URL.
func (s *ProfileImageService) AvatarURL() (string, bool) {
	p := s.current.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

func (s *ProfileImageService) FetchAvatarURL(ctx context.Context, username string) *async.Future[string] {
	return onLoop(s.loop, func() *async.Future[string] {
		token, ok := s.tokens.Token()
		if !ok {
			return async.Failed[string](client.ErrTokenMissing)
		}
		if username == "" {
			return async.Failed[string](fmt.Errorf("%w: empty username", client.ErrInvalidRequest))
		}

		reqCtx, gen, fut := s.flight.begin(ctx)
		s.api.User(reqCtx, token, username).Then(s.loop, func(res models.UserResult, err error) {
			if !s.flight.current(gen) {
				s.log.Debug(ctx, "stale avatar dropped", "username", username)
				return
			}
			if err == nil && res.ProfileImage.Small == "" {
				err = &client.NetworkError{Kind: client.ErrDecoding, Err: errNoSmallAvatar}
			}
			if err != nil {
				s.log.Warn(ctx, "avatar fetch failed", "username", username, "error", err)
				s.flight.finish(gen, "", err)
				return
			}

			url := res.ProfileImage.Small
			s.current.Store(&url)
			s.changed.Publish(AvatarChanged{URL: url})
			s.flight.finish(gen, url, nil)
		})
		return fut
	})
}

// Clear drops the cached URL and supersedes a running fetch.
func (s *ProfileImageService) Clear() *async.Future[struct{}] {
	return onLoop(s.loop, func() *async.Future[struct{}] {
		s.clear()
		return async.Resolved(struct{}{}, nil)
	})
}

func (s *ProfileImageService) clear() {
	s.flight.supersede()
	if s.current.Swap(nil) != nil {
		s.changed.Publish(AvatarChanged{})
	}
}

func (s *ProfileImageService) Subscribe(exec async.Executor, fn func(AvatarChanged)) func() {
	return s.changed.Subscribe(exec, fn)
}
