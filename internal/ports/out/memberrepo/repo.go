package memberrepo

import (
	"context"
	"time"

	"github.com/tripcrew/tripcrew-api/internal/domain"
)

// Member is the persistence shape of a trip membership row.
// The trip creator is not stored as a member row.
type Member struct {
	ID     domain.MemberID
	TripID domain.TripID
	UserID domain.UserID

	AddedAt time.Time
}

// Repository provides access to persisted trip memberships.
//
// Result ordering expectations:
// - ListByTrip returns members ordered by AddedAt ascending.
type Repository interface {
	Add(ctx context.Context, m Member) error

	GetByID(ctx context.Context, id domain.MemberID) (Member, error)
	GetByTripAndUser(ctx context.Context, tripID domain.TripID, userID domain.UserID) (Member, error)

	ListByTrip(ctx context.Context, tripID domain.TripID) ([]Member, error)
	ListByUser(ctx context.Context, userID domain.UserID) ([]Member, error)

	// Delete removes a membership row. Deleting an absent row returns
	// ErrNotFound; concurrent removals must not crash the store.
	Delete(ctx context.Context, id domain.MemberID) error
}
