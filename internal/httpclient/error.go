package httpclient

import (
	"fmt"

	ierr "github.com/factupro/factupro/internal/errors"
)

// Error represents an HTTP client error
type Error struct {
	err        error
	StatusCode int
	Response   []byte
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) Error() string {
	return e.err.Error()
}

// NewError creates a new HTTP client error
func NewError(statusCode int, response []byte) *Error {
	return &Error{
		err: ierr.NewErrorf("http client error: status %d", statusCode).
			WithHint(fmt.Sprintf("Remote server answered with status %d", statusCode)).
			Mark(ierr.ErrHTTPClient),
		StatusCode: statusCode,
		Response:   response,
	}
}

// IsHTTPError checks if an error is an HTTP client error
func IsHTTPError(err error) (*Error, bool) {
	var httpErr *Error
	if ierr.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
