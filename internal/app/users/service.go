package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	clockport "github.com/tripcrew/tripcrew-api/internal/ports/out/clock"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/inviterepo"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/memberrepo"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/userrepo"
)

const (
	minQueryLen = 2
	searchLimit = 10
)

type Service struct {
	users   userrepo.Repository
	members memberrepo.Repository
	invites inviterepo.Repository
	clk     clockport.Clock

	// SearchLimit bounds search result size. The cap is applied by the
	// store before the membership/invite exclusion filter, so a trip with
	// many existing members or invites can return fewer than SearchLimit
	// results even when more invitable users exist. Known precision
	// limitation; do not reorder without product confirmation.
	SearchLimit int
}

func NewService(usersRepo userrepo.Repository, membersRepo memberrepo.Repository, invitesRepo inviterepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		users:       usersRepo,
		members:     membersRepo,
		invites:     invitesRepo,
		clk:         clk,
		SearchLimit: searchLimit,
	}
}

func (s *Service) GetMe(ctx context.Context, identity domain.Identity) (domain.User, error) {
	u, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, &Error{Status: 404, Code: "USER_NOT_FOUND", Message: "user not found"}
		}
		return domain.User{}, err
	}
	return toDomain(u), nil
}

func (s *Service) UpdateMe(ctx context.Context, identity domain.Identity, in UpdateMeInput) (domain.User, error) {
	u, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, &Error{Status: 404, Code: "USER_NOT_FOUND", Message: "user not found"}
		}
		return domain.User{}, err
	}

	if in.Name.IsSpecified() {
		if in.Name.IsNull() {
			return domain.User{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid name", Details: map[string]any{"name": "cannot be null"}}
		}
		name := domain.NormalizeHumanName(in.Name.Value())
		if name == "" {
			return domain.User{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid name", Details: map[string]any{"name": "must be non-empty"}}
		}
		u.Name = name
	}

	u.UpdatedAt = s.clk.Now()
	if err := s.users.Update(ctx, u); err != nil {
		return domain.User{}, err
	}
	return toDomain(u), nil
}

// Search finds invitable users by a case-insensitive substring match on
// name or email, excluding the caller. A trimmed query shorter than two
// characters short-circuits to an empty result without touching the
// store. When tripID is given, current members and PENDING invite
// recipients are fetched concurrently and excluded in-process.
func (s *Service) Search(ctx context.Context, identity domain.Identity, query string, tripID *domain.TripID) ([]domain.UserSummary, error) {
	q := strings.TrimSpace(query)
	if len([]rune(q)) < minQueryLen {
		return []domain.UserSummary{}, nil
	}

	found, err := s.users.Search(ctx, q, identity.UserID, s.SearchLimit)
	if err != nil {
		return nil, err
	}

	if tripID != nil {
		var (
			members []memberrepo.Member
			pending []inviterepo.Invite
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			members, err = s.members.ListByTrip(gctx, *tripID)
			return err
		})
		g.Go(func() error {
			var err error
			pending, err = s.invites.ListPendingByTrip(gctx, *tripID)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		memberIDs := make(map[domain.UserID]bool, len(members))
		for _, m := range members {
			memberIDs[m.UserID] = true
		}
		invitedIDs := make(map[domain.UserID]bool, len(pending))
		invitedEmails := make(map[string]bool, len(pending))
		for _, inv := range pending {
			if inv.ReceiverID != nil {
				invitedIDs[*inv.ReceiverID] = true
			}
			if inv.ReceiverEmail != nil {
				invitedEmails[*inv.ReceiverEmail] = true
			}
		}

		filtered := found[:0]
		for _, u := range found {
			if memberIDs[u.ID] || invitedIDs[u.ID] || invitedEmails[u.Email] {
				continue
			}
			filtered = append(filtered, u)
		}
		found = filtered
	}

	out := make([]domain.UserSummary, 0, len(found))
	for _, u := range found {
		out = append(out, domain.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return out, nil
}

func toDomain(u userrepo.User) domain.User {
	out := domain.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.EmailVerifiedAt != nil {
		v := *u.EmailVerifiedAt
		out.EmailVerifiedAt = &v
	}
	return out
}
