package domain

// UserID is an internal identifier for a user record.
type UserID string

// TripID is an internal identifier for a trip record.
type TripID string

// MemberID is an internal identifier for a trip membership record.
type MemberID string

// InviteID is an internal identifier for a trip invitation record.
type InviteID string
