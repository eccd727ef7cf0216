package lhttp

import (
	"fmt"
	"net/http"
)

// HttpError is returned by the client transport. Err is set when the exchange could not be
// completed (DNS, connect, TLS, timeout, request construction). Code and Message are set when a
// response was received with a non-2xx status; Message holds the raw response body.
type HttpError struct {
	Code    int
	Message string
	Err     error
}

func FromError(err error) *HttpError {
	if err == nil {
		return nil
	}

	// Own type
	if herr, ok := err.(*HttpError); ok {
		return herr
	}

	return &HttpError{Err: err}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("got code %d (%s) and message \"%s\"", e.Code, http.StatusText(e.Code), e.Message)
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether the error happened before any response was received.
func (e *HttpError) IsTransport() bool {
	return e != nil && e.Err != nil
}
