package gist

import (
	"errors"
	"fmt"
)

// ErrNotFound is used when an id or filename resolves to no known gist or
// file, locally or on the remote side.
var ErrNotFound = errors.New("gist: not found")

// RemoteError is returned by the gateway when a network call fails for any
// reason other than a plain not-found. It always carries the underlying
// cause.
type RemoteError struct {
	Op         string
	GistID     string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.GistID == "" {
		return fmt.Sprintf("gist: %s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("gist: %s %s: %s", e.Op, e.GistID, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// IsRemote reports whether err comes from a failed call to the remote store.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
