package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  string
	auth   string
}

func newAPIServer(t *testing.T, status int, body string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, recorded{
			method: r.Method,
			path:   r.URL.EscapedPath(),
			query:  r.URL.RawQuery,
			auth:   r.Header.Get(AuthorizationHeader),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestAPI(t *testing.T, srv *httptest.Server) *API {
	t.Helper()
	api, err := NewAPI(srv.URL, newTestHTTPClient(srv.Client()))
	require.NoError(t, err)
	return api
}

func TestNewAPI_RejectsRelativeURL(t *testing.T) {
	_, err := NewAPI("/photos", newTestHTTPClient(http.DefaultClient))
	require.Error(t, err)
}

func TestPhotos_BuildsPagedRequest(t *testing.T) {
	srv, calls := newAPIServer(t, http.StatusOK, `[
		{"id":"p1","width":10,"height":20,"created_at":"2016-05-03T11:00:28Z","description":"d","urls":{"thumb":"t1","full":"f1"},"liked_by_user":true}
	]`)
	api := newTestAPI(t, srv)

	got, err := api.Photos(context.Background(), "tok", 3, 10).Await(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, "t1", got[0].URLs.Thumb)
	assert.True(t, got[0].LikedByUser)

	require.Len(t, *calls, 1)
	c := (*calls)[0]
	assert.Equal(t, http.MethodGet, c.method)
	assert.Equal(t, "/photos", c.path)
	assert.Equal(t, "page=3&per_page=10", c.query)
	assert.Equal(t, "Bearer tok", c.auth)
}

func TestSetLike_MethodFollowsLiked(t *testing.T) {
	srv, calls := newAPIServer(t, http.StatusCreated, `{"photo":{}}`)
	api := newTestAPI(t, srv)
	ctx := context.Background()

	_, err := api.SetLike(ctx, "tok", "abc", true).Await(ctx)
	require.NoError(t, err)
	_, err = api.SetLike(ctx, "tok", "abc", false).Await(ctx)
	require.NoError(t, err)

	require.Len(t, *calls, 2)
	assert.Equal(t, http.MethodPost, (*calls)[0].method)
	assert.Equal(t, http.MethodDelete, (*calls)[1].method)
	assert.Equal(t, "/photos/abc/like", (*calls)[0].path)
	assert.Equal(t, "Bearer tok", (*calls)[1].auth)
}

func TestSetLike_EscapesID(t *testing.T) {
	srv, calls := newAPIServer(t, http.StatusOK, `{}`)
	api := newTestAPI(t, srv)

	_, err := api.SetLike(context.Background(), "tok", "a/b", true).Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/photos/a%2Fb/like", (*calls)[0].path)
}

func TestMeAndUser(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/me":
			_, _ = w.Write([]byte(`{"username":"jdoe","first_name":"Jane","last_name":"Doe","bio":"hi"}`))
		case "/users/jdoe":
			_, _ = w.Write([]byte(`{"profile_image":{"small":"s.png","medium":"m.png","large":"l.png"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	api := newTestAPI(t, srv)
	ctx := context.Background()

	me, err := api.Me(ctx, "tok").Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", me.Username)
	require.NotNil(t, me.Bio)
	assert.Equal(t, "hi", *me.Bio)

	u, err := api.User(ctx, "tok", "jdoe").Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s.png", u.ProfileImage.Small)
	assert.EqualValues(t, 2, hits.Load())
}

func TestAPI_EmptyTokenFailsWithoutNetwork(t *testing.T) {
	srv, calls := newAPIServer(t, http.StatusOK, `[]`)
	api := newTestAPI(t, srv)
	ctx := context.Background()

	_, err := api.Photos(ctx, "", 1, 10).Await(ctx)
	require.ErrorIs(t, err, ErrTokenMissing)
	_, err = api.SetLike(ctx, "", "x", true).Await(ctx)
	require.ErrorIs(t, err, ErrTokenMissing)
	_, err = api.Me(ctx, "").Await(ctx)
	require.ErrorIs(t, err, ErrTokenMissing)
	_, err = api.User(ctx, "", "x").Await(ctx)
	require.ErrorIs(t, err, ErrTokenMissing)

	assert.Empty(t, *calls)
}

func TestPhotos_StatusFailure(t *testing.T) {
	srv, _ := newAPIServer(t, http.StatusUnauthorized, `{"errors":["OAuth error"]}`)
	api := newTestAPI(t, srv)

	_, err := api.Photos(context.Background(), "tok", 1, 10).Await(context.Background())
	require.ErrorIs(t, err, ErrHTTPStatus)
	code, _ := StatusCode(err)
	assert.Equal(t, http.StatusUnauthorized, code)
}
