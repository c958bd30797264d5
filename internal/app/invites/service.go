package invites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	clockport "github.com/tripcrew/tripcrew-api/internal/ports/out/clock"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/inviterepo"
	mailerport "github.com/tripcrew/tripcrew-api/internal/ports/out/mailer"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/memberrepo"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/triprepo"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/userrepo"
)

// Service orchestrates the invitation lifecycle: creation, listing,
// accept/decline, and deletion, keeping trip membership and invite state
// consistent. Every operation re-reads current state before mutating;
// there is no in-process caching.
type Service struct {
	invites inviterepo.Repository
	trips   triprepo.Repository
	members memberrepo.Repository
	users   userrepo.Repository
	mail    mailerport.Mailer
	clk     clockport.Clock

	newInviteID func() domain.InviteID
	newMemberID func() domain.MemberID
}

func NewService(invitesRepo inviterepo.Repository, tripsRepo triprepo.Repository, membersRepo memberrepo.Repository, usersRepo userrepo.Repository, m mailerport.Mailer, clk clockport.Clock) *Service {
	return &Service{
		invites: invitesRepo,
		trips:   tripsRepo,
		members: membersRepo,
		users:   usersRepo,
		mail:    m,
		clk:     clk,
		newInviteID: func() domain.InviteID {
			return domain.InviteID(uuid.NewString())
		},
		newMemberID: func() domain.MemberID {
			return domain.MemberID(uuid.NewString())
		},
	}
}

// ListPending returns the caller's PENDING invites, newest first, each
// joined with trip and sender summaries. Invites whose trip or sender no
// longer exists are orphaned and skipped rather than returned partial.
func (s *Service) ListPending(ctx context.Context, identity domain.Identity) ([]domain.InviteView, error) {
	is, err := s.invites.ListPendingForReceiver(ctx, identity.UserID, identity.Email)
	if err != nil {
		return nil, err
	}

	out := make([]domain.InviteView, 0, len(is))
	for _, inv := range is {
		t, err := s.trips.GetByID(ctx, inv.TripID)
		if err != nil {
			if errors.Is(err, triprepo.ErrNotFound) {
				continue
			}
			return nil, err
		}
		sender, err := s.users.GetByID(ctx, inv.SenderID)
		if err != nil {
			if errors.Is(err, userrepo.ErrNotFound) {
				continue
			}
			return nil, err
		}
		creator, err := s.users.GetByID(ctx, t.CreatorID)
		if err != nil {
			if errors.Is(err, userrepo.ErrNotFound) {
				continue
			}
			return nil, err
		}

		out = append(out, domain.InviteView{
			ID:        inv.ID,
			Status:    domain.InviteStatus(inv.Status),
			CreatedAt: inv.CreatedAt,
			Trip: domain.TripSummary{
				ID:          t.ID,
				Name:        t.Name,
				Description: cloneStringPtr(t.Description),
				StartDate:   t.StartDate,
				EndDate:     t.EndDate,
				Creator:     domain.UserSummary{ID: creator.ID, Name: creator.Name, Email: creator.Email},
			},
			Sender: domain.UserSummary{ID: sender.ID, Name: sender.Name, Email: sender.Email},
		})
	}
	return out, nil
}

type CreateInput struct {
	// Exactly one of ReceiverUserID / ReceiverEmail must be set.
	ReceiverUserID *domain.UserID
	ReceiverEmail  *string
}

// Create issues a PENDING invite under a trip. The sender must be the
// trip creator or a member. An email addressing a registered user is
// resolved to that user's ID before storing.
func (s *Service) Create(ctx context.Context, identity domain.Identity, tripID domain.TripID, in CreateInput) (domain.Invite, error) {
	t, err := s.loadTripForParticipant(ctx, identity, tripID)
	if err != nil {
		return domain.Invite{}, err
	}

	if (in.ReceiverUserID == nil) == (in.ReceiverEmail == nil) {
		return domain.Invite{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid receiver", Details: map[string]any{"receiver": "exactly one of userId or email is required"}}
	}

	inv := inviterepo.Invite{
		ID:        s.newInviteID(),
		TripID:    tripID,
		SenderID:  identity.UserID,
		Status:    inviterepo.StatusPending,
		CreatedAt: s.clk.Now(),
	}

	var notifyEmail string
	var notifyName string

	switch {
	case in.ReceiverUserID != nil:
		u, err := s.users.GetByID(ctx, *in.ReceiverUserID)
		if err != nil {
			if errors.Is(err, userrepo.ErrNotFound) {
				return domain.Invite{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid receiver", Details: map[string]any{"userId": "user not found"}}
			}
			return domain.Invite{}, err
		}
		id := u.ID
		inv.ReceiverID = &id
		notifyEmail, notifyName = u.Email, u.Name

	default:
		email := domain.NormalizeEmail(*in.ReceiverEmail)
		if email == "" {
			return domain.Invite{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid receiver", Details: map[string]any{"email": "must be non-empty"}}
		}
		// Resolve registered users so membership checks work by ID.
		if u, err := s.users.GetByEmail(ctx, email); err == nil {
			id := u.ID
			inv.ReceiverID = &id
			notifyEmail, notifyName = u.Email, u.Name
		} else if errors.Is(err, userrepo.ErrNotFound) {
			inv.ReceiverEmail = &email
			notifyEmail = email
		} else {
			return domain.Invite{}, err
		}
	}

	if inv.ReceiverID != nil {
		rid := *inv.ReceiverID
		if rid == identity.UserID {
			return domain.Invite{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "cannot invite yourself"}
		}
		if rid == t.CreatorID {
			return domain.Invite{}, &Error{Status: 400, Code: "ALREADY_MEMBER", Message: "user is already part of this trip"}
		}
		if _, err := s.members.GetByTripAndUser(ctx, tripID, rid); err == nil {
			return domain.Invite{}, &Error{Status: 400, Code: "ALREADY_MEMBER", Message: "user is already part of this trip"}
		} else if !errors.Is(err, memberrepo.ErrNotFound) {
			return domain.Invite{}, err
		}
	}

	if err := s.invites.Create(ctx, inv); err != nil {
		if errors.Is(err, inviterepo.ErrDuplicatePending) {
			return domain.Invite{}, &Error{Status: 409, Code: "DUPLICATE_INVITE", Message: "a pending invite already exists for this receiver"}
		}
		return domain.Invite{}, err
	}

	s.sendInviteMail(ctx, notifyEmail, notifyName, identity.Name, t.Name)

	return toDomainInvite(inv), nil
}

// Accept transitions a PENDING invite addressed to the caller into an
// ACCEPTED one and creates the membership row. An invite not addressed to
// the caller is reported as missing.
func (s *Service) Accept(ctx context.Context, identity domain.Identity, inviteID domain.InviteID) error {
	inv, err := s.loadPendingAddressedTo(ctx, identity, inviteID)
	if err != nil {
		return err
	}

	// The trip must still exist for a membership row to make sense.
	if _, err := s.trips.GetByID(ctx, inv.TripID); err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return errInviteNotFound()
		}
		return err
	}

	m := memberrepo.Member{
		ID:      s.newMemberID(),
		TripID:  inv.TripID,
		UserID:  identity.UserID,
		AddedAt: s.clk.Now(),
	}
	if err := s.members.Add(ctx, m); err != nil && !errors.Is(err, memberrepo.ErrAlreadyMember) {
		return err
	}

	if err := s.invites.SetStatus(ctx, inv.ID, inviterepo.StatusAccepted); err != nil {
		if errors.Is(err, inviterepo.ErrNotFound) {
			// Invite deleted concurrently; membership stands.
			return errInviteNotFound()
		}
		return err
	}
	return nil
}

// Decline transitions a PENDING invite addressed to the caller into a
// DECLINED one. Membership is untouched.
func (s *Service) Decline(ctx context.Context, identity domain.Identity, inviteID domain.InviteID) error {
	inv, err := s.loadPendingAddressedTo(ctx, identity, inviteID)
	if err != nil {
		return err
	}
	if err := s.invites.SetStatus(ctx, inv.ID, inviterepo.StatusDeclined); err != nil {
		if errors.Is(err, inviterepo.ErrNotFound) {
			return errInviteNotFound()
		}
		return err
	}
	return nil
}

// Delete removes an invite under a trip. Preconditions, in order:
// the caller participates in the trip (else the trip is reported
// missing), the invite exists under that trip, and the caller is the
// invite's sender or the trip's creator (else forbidden). The delete is
// hard; no status transition, no notification.
func (s *Service) Delete(ctx context.Context, identity domain.Identity, tripID domain.TripID, inviteID domain.InviteID) error {
	t, err := s.loadTripForParticipant(ctx, identity, tripID)
	if err != nil {
		return err
	}

	inv, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, inviterepo.ErrNotFound) {
			return errInviteNotFound()
		}
		return err
	}
	if inv.TripID != tripID {
		return errInviteNotFound()
	}

	if inv.SenderID != identity.UserID && t.CreatorID != identity.UserID {
		return &Error{Status: 403, Code: "FORBIDDEN", Message: "only the invite sender or the trip creator may delete this invite"}
	}

	if err := s.invites.Delete(ctx, inv.ID); err != nil {
		if errors.Is(err, inviterepo.ErrNotFound) {
			// Concurrent deletion won the race.
			return errInviteNotFound()
		}
		return err
	}
	return nil
}

func (s *Service) loadPendingAddressedTo(ctx context.Context, identity domain.Identity, inviteID domain.InviteID) (inviterepo.Invite, error) {
	inv, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, inviterepo.ErrNotFound) {
			return inviterepo.Invite{}, errInviteNotFound()
		}
		return inviterepo.Invite{}, err
	}
	if inv.Status != inviterepo.StatusPending {
		return inviterepo.Invite{}, errInviteNotFound()
	}
	// An invite addressed to someone else is reported as missing, not
	// forbidden, to avoid leaking its existence.
	if !toDomainInvite(inv).AddressedTo(identity) {
		return inviterepo.Invite{}, errInviteNotFound()
	}
	return inv, nil
}

func (s *Service) loadTripForParticipant(ctx context.Context, identity domain.Identity, tripID domain.TripID) (triprepo.Trip, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return triprepo.Trip{}, errTripNotFound()
		}
		return triprepo.Trip{}, err
	}
	if t.CreatorID == identity.UserID {
		return t, nil
	}
	if _, err := s.members.GetByTripAndUser(ctx, tripID, identity.UserID); err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			// Non-participants get the same 404 as a missing trip.
			return triprepo.Trip{}, errTripNotFound()
		}
		return triprepo.Trip{}, err
	}
	return t, nil
}

func (s *Service) sendInviteMail(ctx context.Context, email, name, senderName, tripName string) {
	if s.mail == nil || email == "" {
		return
	}
	greeting := "Hello,"
	if name != "" {
		greeting = fmt.Sprintf("Hello %s,", name)
	}
	body := fmt.Sprintf("%s\n\n%s invited you to join the trip %q.\nSign in to accept or decline.", greeting, senderName, tripName)
	go func() {
		if err := s.mail.Send(context.WithoutCancel(ctx), email, "Trip invitation", body); err != nil {
			slog.Error("invite mail send failed", "email", email, "error", err)
		}
	}()
}

func errTripNotFound() *Error {
	return &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
}

func errInviteNotFound() *Error {
	return &Error{Status: 404, Code: "INVITE_NOT_FOUND", Message: "invite not found"}
}

func toDomainInvite(i inviterepo.Invite) domain.Invite {
	out := domain.Invite{
		ID:        i.ID,
		TripID:    i.TripID,
		SenderID:  i.SenderID,
		Status:    domain.InviteStatus(i.Status),
		CreatedAt: i.CreatedAt,
	}
	if i.ReceiverID != nil {
		v := *i.ReceiverID
		out.ReceiverID = &v
	}
	if i.ReceiverEmail != nil {
		v := *i.ReceiverEmail
		out.ReceiverEmail = &v
	}
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
