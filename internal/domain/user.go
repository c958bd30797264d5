package domain

import "time"

// User is the domain representation of an account.
type User struct {
	ID    UserID
	Name  string
	Email string

	// EmailVerifiedAt is nil until a verification token is consumed.
	EmailVerifiedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsVerified reports whether the user completed email verification.
func (u User) IsVerified() bool { return u.EmailVerifiedAt != nil }

// UserSummary is the public shape of a user safe to embed in responses
// addressed to other users (no email verification state, no timestamps).
type UserSummary struct {
	ID    UserID
	Name  string
	Email string
}

// Identity is the authenticated caller threaded into every application
// service call. It is resolved once per request by the session middleware
// and never read from ambient/global state.
type Identity struct {
	UserID UserID
	Name   string
	Email  string
}
