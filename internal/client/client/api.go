package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/imagefeed/internal/client/async"
	"github.com/dmitrijs2005/imagefeed/internal/client/models"
)

// AuthorizationHeader carries the bearer token on authenticated calls.
const AuthorizationHeader = "Authorization"

// API is the photo service REST surface used by the client core.
type API struct {
	http    *HTTPClient
	baseURL *url.URL
}

// NewAPI returns an API rooted at baseURL, e.g. https://api.unsplash.com.
func NewAPI(baseURL string, hc *HTTPClient) (*API, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return &API{http: hc, baseURL: u}, nil
}

// Photos fetches one page of the feed: GET /photos?page=N&per_page=M.
func (a *API) Photos(ctx context.Context, token string, page, perPage int) *async.Future[[]models.PhotoResult] {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	req, err := a.newRequest(ctx, http.MethodGet, "/photos", q, token)
	if err != nil {
		return async.Failed[[]models.PhotoResult](err)
	}
	return SendDecoded[[]models.PhotoResult](ctx, a.http, req)
}

// SetLike likes (POST) or unlikes (DELETE) a photo: /photos/{id}/like.
func (a *API) SetLike(ctx context.Context, token, photoID string, liked bool) *async.Future[struct{}] {
	method := http.MethodDelete
	if liked {
		method = http.MethodPost
	}
	req, err := a.newRequest(ctx, method, "/photos/"+url.PathEscape(photoID)+"/like", nil, token)
	if err != nil {
		return async.Failed[struct{}](err)
	}
	return async.Map(a.http.Send(ctx, req), func([]byte) struct{} { return struct{}{} })
}

// Me fetches the signed-in user: GET /me.
func (a *API) Me(ctx context.Context, token string) *async.Future[models.ProfileResult] {
	req, err := a.newRequest(ctx, http.MethodGet, "/me", nil, token)
	if err != nil {
		return async.Failed[models.ProfileResult](err)
	}
	return SendDecoded[models.ProfileResult](ctx, a.http, req)
}

// User fetches a public user record: GET /users/{username}.
func (a *API) User(ctx context.Context, token, username string) *async.Future[models.UserResult] {
	req, err := a.newRequest(ctx, http.MethodGet, "/users/"+url.PathEscape(username), nil, token)
	if err != nil {
		return async.Failed[models.UserResult](err)
	}
	return SendDecoded[models.UserResult](ctx, a.http, req)
}

func (a *API) newRequest(ctx context.Context, method, path string, query url.Values, token string) (*http.Request, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}
	u := a.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, invalidRequest(err)
	}
	req.Header.Set(AuthorizationHeader, "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}
