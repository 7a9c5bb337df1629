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
	"github.com/dmitrijs2005/imagefeed/internal/client/repositories/tokens"
	"github.com/dmitrijs2005/imagefeed/internal/logging"
)

// State is a step of the session lifecycle.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	FetchingProfile
	FetchingAvatar
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case FetchingProfile:
		return "fetching_profile"
	case FetchingAvatar:
		return "fetching_avatar"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrWrongState rejects an operation that the current session state does not
// allow.
var ErrWrongState = errors.New("operation not allowed in current session state")

// CookieJar is the web session storage cleared on logout.
type CookieJar interface {
	Clear()
}

// SessionDeps are the collaborators of a Session.
type SessionDeps struct {
	Tokens  tokens.Store
	Auth    *AuthService
	Feed    *FeedService
	Profile *ProfileService
	Avatar  *ProfileImageService
	Cookies CookieJar
}

type sessionSnapshot struct {
	state State
	err   error
}

// Session drives startup (token check, profile, avatar) and logout.
//
//	Unauthenticated -> Authenticating -> FetchingProfile -> FetchingAvatar -> Ready
//	FetchingProfile -> Failed -> Authenticating (Retry)
//
// A stored token at Start skips Authenticating. An avatar failure still ends
// in Ready.
type Session struct {
	loop async.Executor
	deps SessionDeps
	log  logging.Logger

	// loop-confined
	gen   uint64
	state State

	snap    atomic.Pointer[sessionSnapshot]
	changed events.Bus[StateChanged]
}

func NewSession(loop async.Executor, deps SessionDeps, log logging.Logger) *Session {
	s := &Session{loop: loop, deps: deps, log: log.With("component", "session")}
	s.snap.Store(&sessionSnapshot{state: Unauthenticated})
	return s
}

// State returns the current state and, in Failed, its reason.
func (s *Session) State() (State, error) {
	snap := s.snap.Load()
	return snap.state, snap.err
}

func (s *Session) Subscribe(exec async.Executor, fn func(StateChanged)) func() {
	return s.changed.Subscribe(exec, fn)
}

// Start bootstraps from a stored token, or moves to Authenticating when there
// is none. It resolves with the state the session settles in. In any state
// other than Unauthenticated it does nothing; Failed is left only by Retry or
// Logout.
func (s *Session) Start(ctx context.Context) *async.Future[State] {
	return onLoop(s.loop, func() *async.Future[State] {
		if s.state != Unauthenticated {
			return async.Resolved(s.state, nil)
		}
		if token, ok := s.deps.Tokens.Token(); ok {
			s.log.Info(ctx, "stored token found")
			return s.bootstrap(ctx, token)
		}
		s.setState(Authenticating, nil)
		return async.Resolved(Authenticating, nil)
	})
}

// Authenticate exchanges code and bootstraps the session. A failed exchange
// leaves the session in Authenticating and returns the error.
func (s *Session) Authenticate(ctx context.Context, code string) *async.Future[State] {
	return onLoop(s.loop, func() *async.Future[State] {
		if s.state != Authenticating {
			return async.Failed[State](fmt.Errorf("%w: authenticate in %s", ErrWrongState, s.state))
		}

		gen := s.gen
		p := async.NewPromise[State]()
		s.deps.Auth.Exchange(ctx, code).Then(s.loop, func(token string, err error) {
			switch {
			case gen != s.gen:
				p.Fail(errSessionReset)
			case err != nil:
				p.Fail(err)
			case s.state != Authenticating:
				p.Resolve(s.state, nil)
			default:
				s.bootstrap(ctx, token).Forward(p)
			}
		})
		return p.Future()
	})
}

// Retry leaves Failed for Authenticating.
func (s *Session) Retry() *async.Future[State] {
	return onLoop(s.loop, func() *async.Future[State] {
		if s.state != Failed {
			return async.Failed[State](fmt.Errorf("%w: retry in %s", ErrWrongState, s.state))
		}
		s.setState(Authenticating, nil)
		return async.Resolved(Authenticating, nil)
	})
}

// Logout cancels running work, clears the token, the feed, the profile and
// avatar caches and the cookies, and ends in Authenticating. The caches are
// cleared even when the token could not be deleted from disk.
//
// The services must share the session's loop: they are cleared in the same
// turn, so no completion can slip in between and repopulate them.
func (s *Session) Logout(ctx context.Context) *async.Future[struct{}] {
	return onLoop(s.loop, func() *async.Future[struct{}] {
		s.gen++

		s.deps.Auth.cancel()
		err := s.deps.Tokens.Clear(ctx)
		if err != nil {
			s.log.Error(ctx, "failed to clear token", "error", err)
		}
		s.deps.Feed.reset()
		s.deps.Profile.clear()
		s.deps.Avatar.clear()
		s.deps.Cookies.Clear()

		s.setState(Unauthenticated, nil)
		s.setState(Authenticating, nil)
		s.log.Info(ctx, "signed out")
		return async.Resolved(struct{}{}, err)
	})
}

// errSessionReset resolves bootstrap steps overtaken by a logout.
var errSessionReset = fmt.Errorf("session reset: %w", client.ErrSuperseded)

func (s *Session) bootstrap(ctx context.Context, token string) *async.Future[State] {
	gen := s.gen
	p := async.NewPromise[State]()
	s.setState(FetchingProfile, nil)

	s.deps.Profile.FetchProfile(ctx, token).Then(s.loop, func(profile models.Profile, err error) {
		if gen != s.gen {
			p.Fail(errSessionReset)
			return
		}
		if err != nil {
			s.setState(Failed, err)
			p.Resolve(Failed, err)
			return
		}

		s.setState(FetchingAvatar, nil)
		s.deps.Avatar.FetchAvatarURL(ctx, profile.Username).Then(s.loop, func(_ string, err error) {
			if gen != s.gen {
				p.Fail(errSessionReset)
				return
			}
			if err != nil {
				s.log.Warn(ctx, "avatar unavailable, continuing", "error", err)
			}
			s.setState(Ready, nil)
			p.Resolve(Ready, nil)
		})
	})
	return p.Future()
}

func (s *Session) setState(to State, err error) {
	from := s.state
	s.state = to
	s.snap.Store(&sessionSnapshot{state: to, err: err})
	s.log.Debug(context.Background(), "state changed", "from", from, "to", to)
	s.changed.Publish(StateChanged{From: from, To: to, Err: err})
}
