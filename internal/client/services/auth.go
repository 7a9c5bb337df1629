// Package services holds the stateful parts of the ImageFeed client: sign-in,
// the photo feed, the profile and avatar caches and the session state machine
// that ties them together.
//
// Every service owns its state on a single serial executor (the loop). Public
// methods may be called from any goroutine; they hop onto the loop and return
// a future. Read accessors serve immutable snapshots and never block.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/imagefeed/internal/client/async"
	"github.com/dmitrijs2005/imagefeed/internal/client/client"
	"github.com/dmitrijs2005/imagefeed/internal/client/repositories/tokens"
	"github.com/dmitrijs2005/imagefeed/internal/logging"
)

// CodeExchanger trades an authorization code for an access token.
type CodeExchanger interface {
	Exchange(ctx context.Context, code string) *async.Future[string]
}

// AuthService owns the authorization-code exchange. At most one exchange runs
// at a time; a new code supersedes the running one, and a code equal to the
// one in flight is rejected without a network call.
type AuthService struct {
	loop     async.Executor
	oauth    CodeExchanger
	tokens   tokens.Store
	log      logging.Logger
	flight   flight[string]
	lastCode string
}

func NewAuthService(loop async.Executor, oauth CodeExchanger, store tokens.Store, log logging.Logger) *AuthService {
	return &AuthService{
		loop:   loop,
		oauth:  oauth,
		tokens: store,
		log:    log.With("component", "auth"),
	}
}

// Exchange exchanges code for a token and stores it. Failures leave the token
// store untouched.
func (s *AuthService) Exchange(ctx context.Context, code string) *async.Future[string] {
	return onLoop(s.loop, func() *async.Future[string] { return s.exchange(ctx, code) })
}

func (s *AuthService) exchange(ctx context.Context, code string) *async.Future[string] {
	if code == "" {
		return async.Failed[string](fmt.Errorf("%w: empty authorization code", client.ErrInvalidRequest))
	}
	if s.flight.active() && code == s.lastCode {
		s.log.Debug(ctx, "duplicate authorization code rejected")
		return async.Failed[string](client.ErrCodeReused)
	}

	if s.flight.active() {
		s.log.Debug(ctx, "superseding running exchange")
	}
	reqCtx, gen, fut := s.flight.begin(ctx)
	s.lastCode = code

	s.oauth.Exchange(reqCtx, code).Then(s.loop, func(token string, err error) {
		if !s.flight.current(gen) {
			s.log.Debug(ctx, "stale exchange result dropped")
			return
		}
		s.lastCode = ""

		if err != nil {
			s.log.Warn(ctx, "token exchange failed", "error", err)
			s.flight.finish(gen, "", err)
			return
		}
		if err := s.tokens.Set(reqCtx, token); err != nil {
			s.log.Error(ctx, "failed to store token", "error", err)
			s.flight.finish(gen, "", fmt.Errorf("store token: %w", err))
			return
		}
		s.log.Info(ctx, "signed in")
		s.flight.finish(gen, token, nil)
	})
	return fut
}

// cancel supersedes the running exchange, if any, and releases the code
// guard. Logout calls it in the same loop turn that clears the token.
func (s *AuthService) cancel() {
	s.flight.supersede()
	s.lastCode = ""
}

// IsSuperseded reports whether err only means a newer request took over.
func IsSuperseded(err error) bool {
	return errors.Is(err, client.ErrSuperseded)
}
