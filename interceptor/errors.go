package interceptor

import (
	"errors"
	"fmt"
)

// HTTPError is returned for every non-2xx response and for transport
// failures (Status 0). Message is the user-facing text; the rest is kept so
// callers can attach field-level errors to their own controls.
type HTTPError struct {
	Method        string
	URL           string
	Status        int
	Message       string
	ServerMessage string
	FieldErrors   []string
	Body          []byte
	Authenticated bool // the request carried an Authorization header
	Err           error
}

func (e *HTTPError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.URL, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.URL, e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// AsHTTPError extracts an HTTPError from anywhere in err's chain, including
// the *url.Error wrapper added by http.Client.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// StatusOf returns the HTTP status of err, 0 for transport failures and -1
// when err did not come from the pipeline.
func StatusOf(err error) int {
	if he, ok := AsHTTPError(err); ok {
		return he.Status
	}
	return -1
}
