package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
// It is used for user and trip name normalization.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeEmail lowercases and trims an email address. All stored email
// addresses (users, invite receivers, token identifiers) pass through
// this so that equality checks are plain string comparisons.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
