package memberrepo

import "errors"

var (
	// ErrNotFound indicates the requested membership row does not exist.
	ErrNotFound = errors.New("trip member not found")

	// ErrAlreadyMember indicates the user already has a membership row for the trip.
	ErrAlreadyMember = errors.New("user already a trip member")
)
