package domain

import "time"

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "PENDING"
	InviteStatusAccepted InviteStatus = "ACCEPTED"
	InviteStatusDeclined InviteStatus = "DECLINED"
)

// Invite is the domain representation of a trip invitation.
//
// The receiver is addressed either by user ID (registered users) or by
// bare email (users who have not signed up yet). Exactly one of
// ReceiverID / ReceiverEmail is set.
type Invite struct {
	ID       InviteID
	TripID   TripID
	SenderID UserID

	ReceiverID    *UserID
	ReceiverEmail *string

	Status    InviteStatus
	CreatedAt time.Time
}

// AddressedTo reports whether the invite targets the given identity,
// matching by receiver ID or by receiver email (case-insensitive email
// comparison happens at the store; addresses are stored lowercased).
func (i Invite) AddressedTo(id Identity) bool {
	if i.ReceiverID != nil && *i.ReceiverID == id.UserID {
		return true
	}
	if i.ReceiverEmail != nil && *i.ReceiverEmail == id.Email {
		return true
	}
	return false
}

// InviteView is the read model returned by invite listings: the invite
// joined with its trip and sender summaries. Listings never return a view
// with a missing trip or sender; such invites are treated as orphaned and
// skipped.
type InviteView struct {
	ID        InviteID
	Status    InviteStatus
	CreatedAt time.Time

	Trip   TripSummary
	Sender UserSummary
}
