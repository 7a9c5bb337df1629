package client

import (
	"errors"
	"fmt"
)

var (
	// ErrTokenMissing is returned without any network call when an
	// authenticated operation runs and no bearer token is stored.
	ErrTokenMissing = errors.New("token missing")

	// ErrInvalidRequest reports a request that could not be built locally.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrCodeReused rejects an authorization code that is already being
	// exchanged.
	ErrCodeReused = fmt.Errorf("%w: authorization code already in use", ErrInvalidRequest)

	// Network outcome kinds. A *NetworkError matches exactly one of them.
	ErrTransport  = errors.New("transport error")
	ErrHTTPStatus = errors.New("unexpected http status")
	ErrDecoding   = errors.New("decoding error")
	ErrNoResponse = errors.New("no response")

	// ErrSuperseded resolves a request that was cancelled in favour of a newer
	// one. It is bookkeeping, not a failure to show to the user.
	ErrSuperseded = errors.New("superseded by a newer request")
)

// NetworkError describes a failed exchange with a remote endpoint.
type NetworkError struct {
	// Kind is one of ErrTransport, ErrHTTPStatus, ErrDecoding, ErrNoResponse
	// or ErrInvalidRequest.
	Kind error
	// StatusCode is set for ErrHTTPStatus.
	StatusCode int
	// Err is the underlying cause, if any.
	Err error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Kind == ErrHTTPStatus:
		return fmt.Sprintf("%s: %d", e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.Error()
	}
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is reports whether target is the kind of e.
func (e *NetworkError) Is(target error) bool {
	return e.Kind == target
}

func transportError(err error) error {
	return &NetworkError{Kind: ErrTransport, Err: err}
}

func statusError(code int) error {
	return &NetworkError{Kind: ErrHTTPStatus, StatusCode: code}
}

func decodingError(err error) error {
	return &NetworkError{Kind: ErrDecoding, Err: err}
}

func invalidRequest(err error) error {
	return &NetworkError{Kind: ErrInvalidRequest, Err: err}
}

// StatusCode returns the HTTP status carried by err, if it is an
// ErrHTTPStatus failure.
func StatusCode(err error) (int, bool) {
	var ne *NetworkError
	if errors.As(err, &ne) && ne.Kind == ErrHTTPStatus {
		return ne.StatusCode, true
	}
	return 0, false
}
