package trips

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	clockport "github.com/tripcrew/tripcrew-api/internal/ports/out/clock"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/memberrepo"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/triprepo"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/userrepo"
)

type Service struct {
	trips   triprepo.Repository
	members memberrepo.Repository
	users   userrepo.Repository
	clk     clockport.Clock

	newTripID func() domain.TripID
}

func NewService(tripsRepo triprepo.Repository, membersRepo memberrepo.Repository, usersRepo userrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		trips:   tripsRepo,
		members: membersRepo,
		users:   usersRepo,
		clk:     clk,
		newTripID: func() domain.TripID {
			return domain.TripID(uuid.NewString())
		},
	}
}

// SetNewTripIDForTest overrides trip ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewTripIDForTest(fn func() domain.TripID) {
	if fn != nil {
		s.newTripID = fn
	}
}

func (s *Service) CreateTrip(ctx context.Context, identity domain.Identity, in CreateTripInput) (domain.Trip, error) {
	name := domain.NormalizeHumanName(in.Name)
	if name == "" {
		return domain.Trip{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid name", Details: map[string]any{"name": "must be non-empty"}}
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return domain.Trip{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid date range", Details: map[string]any{"endDate": "must be on or after startDate"}}
	}

	now := s.clk.Now()
	t := triprepo.Trip{
		ID:          s.newTripID(),
		CreatorID:   identity.UserID,
		Name:        name,
		Description: cloneStringPtr(in.Description),
		StartDate:   cloneTimePtr(in.StartDate),
		EndDate:     cloneTimePtr(in.EndDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.trips.Create(ctx, t); err != nil {
		if errors.Is(err, triprepo.ErrAlreadyExists) {
			// Extremely unlikely (UUID collision); treat as conflict.
			return domain.Trip{}, &Error{Status: 409, Code: "TRIP_ID_CONFLICT", Message: "trip id conflict"}
		}
		return domain.Trip{}, err
	}
	return toDomain(t), nil
}

func (s *Service) GetTrip(ctx context.Context, identity domain.Identity, tripID domain.TripID) (domain.Trip, error) {
	t, err := s.loadTripForParticipant(ctx, identity, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	return toDomain(t), nil
}

// ListMyTrips returns trips the caller created or joined, newest first.
func (s *Service) ListMyTrips(ctx context.Context, identity domain.Identity) ([]domain.Trip, error) {
	created, err := s.trips.ListByCreator(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Trip, 0, len(created))
	seen := make(map[domain.TripID]bool, len(created))
	for _, t := range created {
		out = append(out, toDomain(t))
		seen[t.ID] = true
	}

	memberships, err := s.members.ListByUser(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	for _, m := range memberships {
		if seen[m.TripID] {
			continue
		}
		t, err := s.trips.GetByID(ctx, m.TripID)
		if err != nil {
			if errors.Is(err, triprepo.ErrNotFound) {
				// Membership row outlived its trip; skip defensively.
				continue
			}
			return nil, err
		}
		out = append(out, toDomain(t))
		seen[t.ID] = true
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ListMembers returns the trip roster: creator summary plus member rows,
// visible to the creator and members only.
func (s *Service) ListMembers(ctx context.Context, identity domain.Identity, tripID domain.TripID) (MembersView, error) {
	t, err := s.loadTripForParticipant(ctx, identity, tripID)
	if err != nil {
		return MembersView{}, err
	}

	creator, err := s.users.GetByID(ctx, t.CreatorID)
	if err != nil && !errors.Is(err, userrepo.ErrNotFound) {
		return MembersView{}, err
	}

	ms, err := s.members.ListByTrip(ctx, tripID)
	if err != nil {
		return MembersView{}, err
	}
	view := MembersView{
		Creator: domain.UserSummary{ID: t.CreatorID, Name: creator.Name, Email: creator.Email},
		Members: make([]MemberView, 0, len(ms)),
	}
	for _, m := range ms {
		u, err := s.users.GetByID(ctx, m.UserID)
		if err != nil {
			if errors.Is(err, userrepo.ErrNotFound) {
				// Membership row without a user record; skip defensively.
				continue
			}
			return MembersView{}, err
		}
		view.Members = append(view.Members, MemberView{
			MemberID: m.ID,
			AddedAt:  m.AddedAt,
			User:     domain.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email},
		})
	}
	return view, nil
}

// RemoveMember removes a membership row from a trip. Only the creator may
// remove members; creators cannot remove themselves. The removed member's
// public identity is returned so callers can update state without a
// re-fetch.
func (s *Service) RemoveMember(ctx context.Context, identity domain.Identity, tripID domain.TripID, memberID domain.MemberID) (domain.UserSummary, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.UserSummary{}, errTripNotFound()
		}
		return domain.UserSummary{}, err
	}
	// Membership alone is insufficient here: removal is creator-only.
	// Non-creators get the same 404 as a missing trip to avoid leaking
	// trip existence.
	if t.CreatorID != identity.UserID {
		return domain.UserSummary{}, errTripNotFound()
	}

	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return domain.UserSummary{}, errMemberNotFound()
		}
		return domain.UserSummary{}, err
	}
	if m.TripID != tripID {
		return domain.UserSummary{}, errMemberNotFound()
	}

	if m.UserID == identity.UserID {
		return domain.UserSummary{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "cannot remove yourself from your own trip", Details: map[string]any{"memberId": "refers to the acting user"}}
	}

	removed := domain.UserSummary{ID: m.UserID}
	if u, err := s.users.GetByID(ctx, m.UserID); err == nil {
		removed.Name = u.Name
		removed.Email = u.Email
	} else if !errors.Is(err, userrepo.ErrNotFound) {
		return domain.UserSummary{}, err
	}

	if err := s.members.Delete(ctx, m.ID); err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			// Concurrent removal won the race.
			return domain.UserSummary{}, errMemberNotFound()
		}
		return domain.UserSummary{}, err
	}
	return removed, nil
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
			// Not a participant: report the trip as missing.
			return triprepo.Trip{}, errTripNotFound()
		}
		return triprepo.Trip{}, err
	}
	return t, nil
}

func errTripNotFound() *Error {
	return &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
}

func errMemberNotFound() *Error {
	return &Error{Status: 404, Code: "MEMBER_NOT_FOUND", Message: "trip member not found"}
}

func toDomain(t triprepo.Trip) domain.Trip {
	return domain.Trip{
		ID:          t.ID,
		CreatorID:   t.CreatorID,
		Name:        t.Name,
		Description: cloneStringPtr(t.Description),
		StartDate:   cloneTimePtr(t.StartDate),
		EndDate:     cloneTimePtr(t.EndDate),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
