package inviterepo

import (
	"context"
	"time"

	"github.com/tripcrew/tripcrew-api/internal/domain"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusDeclined Status = "DECLINED"
)

// Invite is the persistence shape of a trip invitation.
// Exactly one of ReceiverID / ReceiverEmail is set; emails are stored lowercased.
type Invite struct {
	ID       domain.InviteID
	TripID   domain.TripID
	SenderID domain.UserID

	ReceiverID    *domain.UserID
	ReceiverEmail *string

	Status    Status
	CreatedAt time.Time
}

// Repository provides access to persisted invitations.
//
// Result ordering expectations:
// - ListPendingForReceiver returns invites ordered by CreatedAt descending.
type Repository interface {
	// Create stores an invite. A PENDING invite already outstanding for
	// the same (trip, receiver) pair is rejected with ErrDuplicatePending.
	Create(ctx context.Context, i Invite) error

	GetByID(ctx context.Context, id domain.InviteID) (Invite, error)

	// ListPendingForReceiver returns PENDING invites addressed to the
	// user by ID or by email, newest first.
	ListPendingForReceiver(ctx context.Context, userID domain.UserID, email string) ([]Invite, error)

	// ListPendingByTrip returns all PENDING invites under a trip.
	ListPendingByTrip(ctx context.Context, tripID domain.TripID) ([]Invite, error)

	// SetStatus transitions an invite's status.
	SetStatus(ctx context.Context, id domain.InviteID, status Status) error

	// Delete hard-deletes an invite. Deleting an absent invite returns
	// ErrNotFound; concurrent deletions must not crash the store.
	Delete(ctx context.Context, id domain.InviteID) error
}
