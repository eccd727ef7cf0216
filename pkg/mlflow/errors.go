package mlflow

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoActiveRun is returned by the current-run methods when no run id is stored.
var ErrNoActiveRun = errors.New("no active run, call StartRun or SetRunId first")

// TransportError means the request never produced a response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: connection error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPError means the server answered with a status other than 200.
type HTTPError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: invalid status: %d %s, body: %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// BodyError means the server answered 200 but the body is not usable: it is not JSON, it lacks
// the expected top-level key, or the value under that key does not decode.
type BodyError struct {
	Op   string
	Key  string
	Body string
	Err  error
}

func (e *BodyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: invalid response body, expected key %q: %v, body: %s", e.Op, e.Key, e.Err, e.Body)
	}
	return fmt.Sprintf("%s: invalid response body, expected key %q, body: %s", e.Op, e.Key, e.Body)
}

func (e *BodyError) Unwrap() error {
	return e.Err
}

type MissingFieldError struct {
	Key string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q", e.Key)
}

type InvalidEnumError struct {
	Value string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("invalid enum value %q", e.Value)
}

// InvalidFieldError means a field is present but its value cannot be parsed, e.g. a
// non-numeric timestamp.
type InvalidFieldError struct {
	Key   string
	Value string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid value %q for field %q", e.Value, e.Key)
}

type IdentityError struct {
	Reason string
	Err    error
}

func (e *IdentityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *IdentityError) Unwrap() error {
	return e.Err
}
