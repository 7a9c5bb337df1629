package client

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCookies_SetAndClear(t *testing.T) {
	u, err := url.Parse("https://unsplash.com/")
	require.NoError(t, err)

	jar := NewSessionCookies()
	jar.SetCookies(u, []*http.Cookie{{Name: "_session", Value: "s1"}})

	got := jar.Cookies(u)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].Value)

	jar.Clear()
	assert.Empty(t, jar.Cookies(u))

	jar.SetCookies(u, []*http.Cookie{{Name: "_session", Value: "s2"}})
	assert.Len(t, jar.Cookies(u), 1, "jar stays usable after Clear")
}

func TestSessionCookies_UsedByHTTPClient(t *testing.T) {
	jar := NewSessionCookies()
	hc := NewStdClient(0, jar)
	assert.Same(t, jar, hc.Jar)
}
