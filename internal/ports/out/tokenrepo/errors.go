package tokenrepo

import "errors"

var (
	// ErrNotFound indicates the requested token does not exist.
	ErrNotFound = errors.New("verification token not found")
)
