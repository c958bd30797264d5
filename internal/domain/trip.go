package domain

import "time"

// TripSummary is the read model embedded in invite listings.
type TripSummary struct {
	ID          TripID
	Name        string
	Description *string
	StartDate   *time.Time // date-only semantics at the edges
	EndDate     *time.Time // date-only semantics at the edges
	Creator     UserSummary
}

// Trip is the domain representation of a trip.
type Trip struct {
	ID        TripID
	CreatorID UserID

	Name        string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TripMember is a membership row joining a user to a trip. The creator is
// not modeled as a member row; creator privileges are checked against
// Trip.CreatorID directly.
type TripMember struct {
	ID      MemberID
	TripID  TripID
	UserID  UserID
	AddedAt time.Time
}
