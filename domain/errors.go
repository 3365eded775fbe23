package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnknownView indicates a view identifier outside timeline/my_posts.
	ErrUnknownView = errors.New("unknown view")

	// ErrInvalidURI indicates a post identifier that is not a valid AT-URI.
	ErrInvalidURI = errors.New("invalid post uri")
)

// RemoteError wraps any failure of a remote feed call.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
