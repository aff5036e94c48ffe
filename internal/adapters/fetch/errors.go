package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds for fetch errors.
var (
	// ErrTransport reports that no response was obtained.
	ErrTransport = errors.New("transport failed")
	// ErrStatus reports a response with a non-success status.
	ErrStatus = errors.New("unexpected status")
	// ErrNotFound is matched by a StatusError carrying 404.
	ErrNotFound = errors.New("not found")
)

// StatusError carries the status of a non-success response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Is matches ErrStatus, and ErrNotFound for 404.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrStatus:
		return true
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	}
	return false
}
