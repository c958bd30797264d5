package domain

import "time"

// VerificationToken is a single-use email verification token.
//
// At most one actionable token exists per email: issuing a new one
// replaces any outstanding token for the same address. Expired tokens are
// deleted when encountered, never honored.
type VerificationToken struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}

// ExpiredAt reports whether the token is expired at the given instant.
// A token expiring exactly at now is still valid; one millisecond past is
// not.
func (t VerificationToken) ExpiredAt(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
