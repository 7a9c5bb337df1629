package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/imagefeed/internal/client/async"
	"github.com/dmitrijs2005/imagefeed/internal/logging"
	"github.com/google/uuid"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient sends requests, classifies their outcome into NetworkError kinds
// and decodes JSON bodies. It never retries.
//
// The asynchronous forms (Send, SendDecoded) resolve their futures on the
// callbacks executor, whichever goroutine performed the I/O.
type HTTPClient struct {
	doer      Doer
	callbacks async.Executor
	log       logging.Logger
}

// NewHTTPClient builds an HTTPClient. callbacks is the designated completion
// context, usually the application loop.
func NewHTTPClient(doer Doer, callbacks async.Executor, log logging.Logger) *HTTPClient {
	return &HTTPClient{doer: doer, callbacks: callbacks, log: log.With("component", "http")}
}

// NewStdClient returns the *http.Client used in production: a fixed timeout
// and the session cookie jar shared with the authorization step.
func NewStdClient(timeout time.Duration, jar http.CookieJar) *http.Client {
	return &http.Client{Timeout: timeout, Jar: jar}
}

// Do sends req and returns the body of a 2xx response.
//
// Outcomes:
//   - 2xx: body, nil
//   - other status: ErrHTTPStatus with the code
//   - no response and an error: ErrTransport wrapping the cause (timeouts,
//     DNS, TLS, refused connections and cancelled contexts all land here)
//   - neither response nor error: ErrNoResponse
func (c *HTTPClient) Do(ctx context.Context, req *http.Request) ([]byte, error) {
	reqID := uuid.NewString()
	start := time.Now()

	resp, err := c.doer.Do(req.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		c.log.Debug(ctx, "request failed", "request_id", reqID, "method", req.Method, "path", req.URL.Path, "error", err)
		return nil, transportError(err)
	}
	if resp == nil {
		c.log.Debug(ctx, "request returned nothing", "request_id", reqID, "method", req.Method, "path", req.URL.Path)
		return nil, &NetworkError{Kind: ErrNoResponse}
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "response",
		"request_id", reqID,
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, statusError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}
	return body, nil
}

// Decode sends req through c and unmarshals the JSON body into T.
func Decode[T any](ctx context.Context, c *HTTPClient, req *http.Request) (T, error) {
	var out T
	body, err := c.Do(ctx, req)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, decodingError(err)
	}
	return out, nil
}

// Send is the asynchronous form of Do.
func (c *HTTPClient) Send(ctx context.Context, req *http.Request) *async.Future[[]byte] {
	return async.Go(ctx, c.callbacks, func(ctx context.Context) ([]byte, error) {
		return c.Do(ctx, req)
	})
}

// SendDecoded is the asynchronous form of Decode.
func SendDecoded[T any](ctx context.Context, c *HTTPClient, req *http.Request) *async.Future[T] {
	return async.Go(ctx, c.callbacks, func(ctx context.Context) (T, error) {
		return Decode[T](ctx, c, req)
	})
}
