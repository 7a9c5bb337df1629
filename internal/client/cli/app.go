package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/imagefeed/internal/client/async"
	"github.com/dmitrijs2005/imagefeed/internal/client/client"
	"github.com/dmitrijs2005/imagefeed/internal/client/config"
	"github.com/dmitrijs2005/imagefeed/internal/client/repositories/tokens"
	"github.com/dmitrijs2005/imagefeed/internal/client/services"
	"github.com/dmitrijs2005/imagefeed/internal/logging"
)

const closeTimeout = 5 * time.Second

// App is the composition root of the client.
type App struct {
	log logging.Logger

	loop    *async.Loop
	db      *sql.DB
	oauth   *client.OAuth
	feed    *services.FeedService
	profile *services.ProfileService
	avatar  *services.ProfileImageService
	session *services.Session

	reader *bufio.Reader
	in     io.Reader
	out    *syncWriter

	unsubscribe []func()
}

// NewApp opens the database and builds every service. in and out are the
// terminal streams; in may be os.Stdin, in which case codes are read without
// echo.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	store, err := tokens.NewSQLiteStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	loop := async.NewLoop()
	cookies := client.NewSessionCookies()
	hc := client.NewStdClient(c.RequestTimeout, cookies)

	api, err := client.NewAPI(c.APIBaseURL, client.NewHTTPClient(hc, loop, log))
	if err != nil {
		loop.Close()
		_ = db.Close()
		return nil, err
	}
	oauth := client.NewOAuth(client.OAuthConfig{
		ClientID:     c.AccessKey,
		ClientSecret: c.SecretKey,
		RedirectURI:  c.RedirectURI,
		AuthorizeURL: c.AuthorizeURL,
		TokenURL:     c.TokenURL,
		Scopes:       c.Scopes,
	}, hc, loop)

	a := &App{
		log:     log.With("component", "cli"),
		loop:    loop,
		db:      db,
		oauth:   oauth,
		feed:    services.NewFeedService(loop, api, store, c.PerPage, log),
		profile: services.NewProfileService(loop, api, log),
		avatar:  services.NewProfileImageService(loop, api, store, log),
		reader:  bufio.NewReader(in),
		in:      in,
		out:     &syncWriter{w: out},
	}
	a.session = services.NewSession(loop, services.SessionDeps{
		Tokens:  store,
		Auth:    services.NewAuthService(loop, oauth, store, log),
		Feed:    a.feed,
		Profile: a.profile,
		Avatar:  a.avatar,
		Cookies: cookies,
	}, log)

	a.subscribe()
	return a, nil
}

func (a *App) subscribe() {
	a.unsubscribe = append(a.unsubscribe,
		a.feed.SubscribeChanged(a.loop, a.onFeedChanged),
		a.feed.SubscribePhotoUpdated(a.loop, a.onPhotoUpdated),
		a.feed.SubscribeFetchFailed(a.loop, a.onFetchFailed),
		a.session.Subscribe(a.loop, a.onStateChanged),
	)
}

// Run starts the session and serves commands until exit or end of input.
func (a *App) Run(ctx context.Context) error {
	a.println("Welcome to ImageFeed CLI (type 'help' for commands)")

	st, err := a.session.Start(ctx).Await(ctx)
	switch {
	case err != nil && st == services.Failed:
		a.println("Could not load your profile:", err)
		a.println("Type 'retry' and then 'login' to sign in again.")
	case err != nil:
		_ = a.report("Startup", err)
	case st == services.Authenticating:
		a.println("Not signed in. Type 'login' to authorize this client.")
	}

	runREPL(ctx, a, a.prompt, a.reader, a.println)
	return nil
}

// Close prints pending events, stops the loop and closes the database.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	_ = a.loop.Flush(ctx)

	for _, u := range a.unsubscribe {
		u()
	}
	a.loop.Close()
	return a.db.Close()
}

func (a *App) isReady() bool {
	st, _ := a.session.State()
	return st == services.Ready
}

func (a *App) prompt() string {
	st, _ := a.session.State()
	if p, ok := a.profile.Profile(); ok && st == services.Ready {
		return fmt.Sprintf("(%s %s)", p.LoginName, st)
	}
	return fmt.Sprintf("(%s)", st)
}

// syncWriter serializes writes from the REPL and from event handlers, which
// run on the loop goroutine.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// report prints a failed command. Superseded requests are not failures.
func (a *App) report(action string, err error) error {
	if err == nil || services.IsSuperseded(err) {
		return nil
	}
	if code, ok := client.StatusCode(err); ok {
		a.printf("%s failed: server answered %d\n", action, code)
	} else if errors.Is(err, client.ErrTokenMissing) {
		a.printf("%s failed: not signed in\n", action)
	} else {
		a.printf("%s failed: %v\n", action, err)
	}
	return err
}
