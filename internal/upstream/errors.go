package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidQuery = errors.New("invalid pagination parameters")
)

// NetworkError is a transport-level failure: unreachable host, timeout,
// connection reset.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPStatusError reports a non-2xx response.
type HTTPStatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// Unauthorized reports whether the back office rejected the token.
func (e *HTTPStatusError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// NotFound reports a 404 response.
func (e *HTTPStatusError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsNotFound reports whether err is a 404 from the back office.
func IsNotFound(err error) bool {
	var statusErr *HTTPStatusError
	return errors.As(err, &statusErr) && statusErr.NotFound()
}
