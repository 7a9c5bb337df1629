package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/imagefeed/internal/client/async"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// NativeRedirectPath is the path the provider redirects to when the redirect
// URI is the out-of-band URN; the authorization code is in its query.
const NativeRedirectPath = "/oauth/authorize/native"

// OAuthConfig holds the application credentials and provider endpoints.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthorizeURL string
	TokenURL     string
	Scopes       []string
}

// OAuth performs the authorization-code flow against the provider.
type OAuth struct {
	cfg       *oauth2.Config
	http      *http.Client
	callbacks async.Executor
}

// NewOAuth builds an OAuth helper. hc carries the session cookie jar and
// timeout; callbacks is where Exchange resolves its futures.
func NewOAuth(c OAuthConfig, hc *http.Client, callbacks async.Executor) *OAuth {
	return &OAuth{
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURI,
			Scopes:       c.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   c.AuthorizeURL,
				TokenURL:  c.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		http:      hc,
		callbacks: callbacks,
	}
}

// NewState returns a random value for the state parameter.
func NewState() string {
	return uuid.NewString()
}

// AuthCodeURL returns the page the user opens to grant access. The provider
// answers with a one-time code.
func (o *OAuth) AuthCodeURL(state string) string {
	return o.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// ExchangeCode trades an authorization code for an access token:
// POST <token url> with client_id, client_secret, redirect_uri, code and
// grant_type=authorization_code.
func (o *OAuth) ExchangeCode(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", invalidRequest(errors.New("empty authorization code"))
	}
	if o.http != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.http)
	}
	tok, err := o.cfg.Exchange(ctx, code)
	if err != nil {
		return "", classifyOAuthError(err)
	}
	return tok.AccessToken, nil
}

// Exchange is the asynchronous form of ExchangeCode.
func (o *OAuth) Exchange(ctx context.Context, code string) *async.Future[string] {
	return async.Go(ctx, o.callbacks, func(ctx context.Context) (string, error) {
		return o.ExchangeCode(ctx, code)
	})
}

// classifyOAuthError maps x/oauth2 failures onto NetworkError kinds. A
// RetrieveError with a non-2xx response is a status failure, with a 2xx
// response it is an error payload in place of a token. A *url.Error or a
// context error means nothing came back. Anything else is an unreadable body.
func classifyOAuthError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.Response == nil {
			return &NetworkError{Kind: ErrNoResponse, Err: err}
		}
		if code := re.Response.StatusCode; code >= 200 && code <= 299 {
			return decodingError(err)
		}
		return &NetworkError{Kind: ErrHTTPStatus, StatusCode: re.Response.StatusCode, Err: err}
	}
	var ue *url.Error
	if errors.As(err, &ue) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return transportError(err)
	}
	return decodingError(err)
}

// CodeFromRedirect extracts the authorization code from the URL the provider
// redirected to. It reports false unless the URL is the native redirect page
// and carries a non-empty code.
func CodeFromRedirect(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Path != NativeRedirectPath {
		return "", false
	}
	code := u.Query().Get("code")
	return code, code != ""
}
