package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every error returned by a fetch or an accessor wraps exactly one of these.
var (
	// ErrTransport covers connection failures, timeouts and non-2xx statuses.
	ErrTransport = errors.New("transport error")
	// ErrDecode covers malformed gzip streams and invalid UTF-8.
	ErrDecode = errors.New("decode error")
	// ErrParse covers malformed JSON.
	ErrParse = errors.New("parse error")
	// ErrShape covers valid JSON that lacks an expected field, or an empty single result.
	ErrShape = errors.New("shape error")
)

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned %d", e.URL, e.StatusCode)
}

// Is makes errors.Is(err, ErrTransport) hold for status errors.
func (e *StatusError) Is(target error) bool {
	return target == ErrTransport
}

// ShapeError reports a raw record missing a required field.
type ShapeError struct {
	Resource string
	Index    int
	Field    string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s record %d: missing field %q", e.Resource, e.Index, e.Field)
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}
