package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	memclock "github.com/tripcrew/tripcrew-api/internal/adapters/memory/clock"
	meminviterepo "github.com/tripcrew/tripcrew-api/internal/adapters/memory/inviterepo"
	memmemberrepo "github.com/tripcrew/tripcrew-api/internal/adapters/memory/memberrepo"
	memuserrepo "github.com/tripcrew/tripcrew-api/internal/adapters/memory/userrepo"
	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/inviterepo"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/memberrepo"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/userrepo"
)

type fixture struct {
	svc     *Service
	users   *memuserrepo.Repo
	members *memmemberrepo.Repo
	invites *meminviterepo.Repo
	clk     *memclock.ManualClock
}

func newFixture() *fixture {
	users := memuserrepo.NewRepo()
	members := memmemberrepo.NewRepo()
	invites := meminviterepo.NewRepo()
	clk := memclock.NewManualClock(time.Unix(1_000_000, 0).UTC())
	return &fixture{
		svc:     NewService(users, members, invites, clk),
		users:   users,
		members: members,
		invites: invites,
		clk:     clk,
	}
}

func (f *fixture) seedUser(t *testing.T, name, email string) domain.Identity {
	t.Helper()
	id := domain.UserID(uuid.NewString())
	now := f.clk.Now()
	if err := f.users.Create(context.Background(), userrepo.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return domain.Identity{UserID: id, Name: name, Email: email}
}

func assertServiceError(t *testing.T, err error, status int, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %d %s, got nil", status, code)
	}
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != status || ae.Code != code {
		t.Fatalf("err=%v (type=%T), want %d %s", err, err, status, code)
	}
}

func summaryIDs(ss []domain.UserSummary) map[domain.UserID]bool {
	out := make(map[domain.UserID]bool, len(ss))
	for _, s := range ss {
		out[s.ID] = true
	}
	return out
}

func TestService_GetMe(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	alice := f.seedUser(t, "Alice", "alice@example.com")

	u, err := f.svc.GetMe(ctx, alice)
	if err != nil {
		t.Fatalf("GetMe err=%v", err)
	}
	if u.ID != alice.UserID || u.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}

	gone := domain.Identity{UserID: domain.UserID(uuid.NewString())}
	_, err = f.svc.GetMe(ctx, gone)
	assertServiceError(t, err, 404, "USER_NOT_FOUND")
}

func TestService_UpdateMe(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	alice := f.seedUser(t, "Alice", "alice@example.com")

	u, err := f.svc.UpdateMe(ctx, alice, UpdateMeInput{Name: Some("  Alice   Smith ")})
	if err != nil {
		t.Fatalf("UpdateMe err=%v", err)
	}
	if u.Name != "Alice Smith" {
		t.Fatalf("name=%q", u.Name)
	}

	// Omitted name leaves the current value alone.
	u, err = f.svc.UpdateMe(ctx, alice, UpdateMeInput{Name: Unspecified[string]()})
	if err != nil {
		t.Fatalf("UpdateMe err=%v", err)
	}
	if u.Name != "Alice Smith" {
		t.Fatalf("name=%q", u.Name)
	}

	_, err = f.svc.UpdateMe(ctx, alice, UpdateMeInput{Name: Null[string]()})
	assertServiceError(t, err, 400, "VALIDATION_ERROR")

	_, err = f.svc.UpdateMe(ctx, alice, UpdateMeInput{Name: Some("   ")})
	assertServiceError(t, err, 400, "VALIDATION_ERROR")
}

type failingUserRepo struct {
	userrepo.Repository
	t *testing.T
}

func (r failingUserRepo) Search(ctx context.Context, query string, exclude domain.UserID, limit int) ([]userrepo.User, error) {
	r.t.Fatalf("store must not be queried for short queries")
	return nil, nil
}

func TestService_Search_ShortQueryShortCircuits(t *testing.T) {
	t.Parallel()

	f := newFixture()
	alice := f.seedUser(t, "Alice", "alice@example.com")

	// A service whose store panics on Search proves no store access happens.
	svc := NewService(failingUserRepo{t: t}, f.members, f.invites, f.clk)

	for _, q := range []string{"", " ", "a", "  a  "} {
		got, err := svc.Search(context.Background(), alice, q, nil)
		if err != nil {
			t.Fatalf("Search(%q) err=%v", q, err)
		}
		if len(got) != 0 {
			t.Fatalf("Search(%q)=%#v, want empty", q, got)
		}
	}
}

func TestService_Search_ExcludesCaller(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	alice := f.seedUser(t, "Alice Example", "alice@example.com")
	bob := f.seedUser(t, "Bob Example", "bob@example.com")

	got, err := f.svc.Search(ctx, alice, "example", nil)
	if err != nil {
		t.Fatalf("Search err=%v", err)
	}
	ids := summaryIDs(got)
	if ids[alice.UserID] {
		t.Fatalf("caller must be excluded: %#v", got)
	}
	if !ids[bob.UserID] {
		t.Fatalf("expected bob in results: %#v", got)
	}
}

func TestService_Search_TripExclusions(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	alice := f.seedUser(t, "Alice Example", "alice@example.com")
	member := f.seedUser(t, "Mia Example", "mia@example.com")
	invitedByID := f.seedUser(t, "Ivan Example", "ivan@example.com")
	invitedByEmail := f.seedUser(t, "Erin Example", "erin@example.com")
	free := f.seedUser(t, "Frank Example", "frank@example.com")

	tripID := domain.TripID(uuid.NewString())
	now := f.clk.Now()
	if err := f.members.Add(ctx, memberrepo.Member{
		ID:      domain.MemberID(uuid.NewString()),
		TripID:  tripID,
		UserID:  member.UserID,
		AddedAt: now,
	}); err != nil {
		t.Fatalf("seed member: %v", err)
	}
	if err := f.invites.Create(ctx, inviterepo.Invite{
		ID:         domain.InviteID(uuid.NewString()),
		TripID:     tripID,
		SenderID:   alice.UserID,
		ReceiverID: &invitedByID.UserID,
		Status:     inviterepo.StatusPending,
		CreatedAt:  now,
	}); err != nil {
		t.Fatalf("seed invite by id: %v", err)
	}
	email := "erin@example.com"
	if err := f.invites.Create(ctx, inviterepo.Invite{
		ID:            domain.InviteID(uuid.NewString()),
		TripID:        tripID,
		SenderID:      alice.UserID,
		ReceiverEmail: &email,
		Status:        inviterepo.StatusPending,
		CreatedAt:     now,
	}); err != nil {
		t.Fatalf("seed invite by email: %v", err)
	}

	got, err := f.svc.Search(ctx, alice, "example", &tripID)
	if err != nil {
		t.Fatalf("Search err=%v", err)
	}
	ids := summaryIDs(got)
	if ids[member.UserID] || ids[invitedByID.UserID] || ids[invitedByEmail.UserID] {
		t.Fatalf("expected members and invitees excluded: %#v", got)
	}
	if !ids[free.UserID] {
		t.Fatalf("expected uninvited user in results: %#v", got)
	}

	// Without a trip filter, the exclusions do not apply.
	got, err = f.svc.Search(ctx, alice, "example", nil)
	if err != nil {
		t.Fatalf("Search err=%v", err)
	}
	ids = summaryIDs(got)
	if !ids[member.UserID] || !ids[invitedByID.UserID] {
		t.Fatalf("expected no trip exclusions: %#v", got)
	}
}

func TestService_Search_CapAppliedBeforeTripFilter(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	alice := f.seedUser(t, "Alice Caller", "alice@example.com")

	// More matches than the cap, all of them trip members. The store cap
	// fires before the membership filter, so the result is empty even
	// though later-sorted invitable users exist.
	tripID := domain.TripID(uuid.NewString())
	now := f.clk.Now()
	for i := 0; i < 12; i++ {
		member := f.seedUser(t, "Aaa Member", "member"+uuid.NewString()+"@example.com")
		if err := f.members.Add(ctx, memberrepo.Member{
			ID:      domain.MemberID(uuid.NewString()),
			TripID:  tripID,
			UserID:  member.UserID,
			AddedAt: now,
		}); err != nil {
			t.Fatalf("seed member: %v", err)
		}
	}
	f.seedUser(t, "Zzz Free", "zzz@example.com")

	got, err := f.svc.Search(ctx, alice, "example", &tripID)
	if err != nil {
		t.Fatalf("Search err=%v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected capped-then-filtered empty result, got %#v", got)
	}
}
