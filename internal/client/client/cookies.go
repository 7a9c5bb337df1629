package client

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
)

// SessionCookies is the cookie jar shared by the authorization step and the
// API client. Clear drops every cookie, which logout relies on.
type SessionCookies struct {
	mu  sync.RWMutex
	jar *cookiejar.Jar
}

// NewSessionCookies returns an empty jar.
func NewSessionCookies() *SessionCookies {
	return &SessionCookies{jar: newJar()}
}

func newJar() *cookiejar.Jar {
	// cookiejar.New only fails on a broken PublicSuffixList; nil options are safe.
	jar, _ := cookiejar.New(nil)
	return jar
}

func (c *SessionCookies) SetCookies(u *url.URL, cookies []*http.Cookie) {
	c.mu.RLock()
	jar := c.jar
	c.mu.RUnlock()
	jar.SetCookies(u, cookies)
}

func (c *SessionCookies) Cookies(u *url.URL) []*http.Cookie {
	c.mu.RLock()
	jar := c.jar
	c.mu.RUnlock()
	return jar.Cookies(u)
}

// Clear forgets all cookies.
func (c *SessionCookies) Clear() {
	c.mu.Lock()
	c.jar = newJar()
	c.mu.Unlock()
}
