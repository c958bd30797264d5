package inviterepo

import "errors"

var (
	// ErrNotFound indicates the requested invite does not exist.
	ErrNotFound = errors.New("invite not found")

	// ErrAlreadyExists indicates an invite already exists with the provided ID.
	ErrAlreadyExists = errors.New("invite already exists")

	// ErrDuplicatePending indicates a PENDING invite is already
	// outstanding for the same (trip, receiver) pair.
	ErrDuplicatePending = errors.New("pending invite already outstanding")
)
