package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	inviterepoport "github.com/tripcrew/tripcrew-api/internal/ports/out/inviterepo"
	memberrepoport "github.com/tripcrew/tripcrew-api/internal/ports/out/memberrepo"
	tokenrepoport "github.com/tripcrew/tripcrew-api/internal/ports/out/tokenrepo"
	triprepoport "github.com/tripcrew/tripcrew-api/internal/ports/out/triprepo"
	userrepoport "github.com/tripcrew/tripcrew-api/internal/ports/out/userrepo"
)

type CleanupFunc = func()

type UserRepoFactory func(t *testing.T) (userrepoport.Repository, CleanupFunc)
type TokenRepoFactory func(t *testing.T) (tokenrepoport.Repository, CleanupFunc)
type TripRepoFactory func(t *testing.T) (triprepoport.Repository, CleanupFunc)
type MemberRepoFactory func(t *testing.T) (memberrepoport.Repository, CleanupFunc)
type InviteRepoFactory func(t *testing.T) (inviterepoport.Repository, CleanupFunc)

func RunUserRepo(t *testing.T, newRepo UserRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo := open(t, newRepo)

	now := time.Unix(1000, 0).UTC()
	aliceID := seedUser(t, repo, "Alice Johnson", "alice@example.com", now)
	if _, err := repo.GetByID(ctx, aliceID); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u, err := repo.GetByEmail(ctx, "alice@example.com"); err != nil || u.ID != aliceID {
		t.Fatalf("GetByEmail: id=%v err=%v", u.ID, err)
	}
	if _, err := repo.GetByID(ctx, domain.UserID(uuid.NewString())); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}

	// Email uniqueness.
	if err := repo.Create(ctx, userrepoport.User{
		ID:           domain.UserID(uuid.NewString()),
		Name:         "Alice Two",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}); !errors.Is(err, userrepoport.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// Update persists mutated fields.
	u, err := repo.GetByID(ctx, aliceID)
	if err != nil {
		t.Fatalf("GetByID before update: %v", err)
	}
	verifiedAt := now.Add(time.Hour)
	u.EmailVerifiedAt = &verifiedAt
	u.Name = "Alice J"
	u.UpdatedAt = verifiedAt
	if err := repo.Update(ctx, u); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(ctx, aliceID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got.Name != "Alice J" || got.EmailVerifiedAt == nil || !got.EmailVerifiedAt.Equal(verifiedAt) {
		t.Fatalf("update not persisted: %+v", got)
	}

	// Search matches name and email substrings case-insensitively,
	// excludes the given ID, and honors the limit.
	bobID := seedUser(t, repo, "Bob Alicante", "bob@example.com", now)
	nobody := domain.UserID(uuid.NewString())
	res, err := repo.Search(ctx, "alic", nobody, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 matches, got %#v", res)
	}
	res, err = repo.Search(ctx, "ALIC", aliceID, 10)
	if err != nil {
		t.Fatalf("Search excluding: %v", err)
	}
	if len(res) != 1 || res[0].ID != bobID {
		t.Fatalf("expected only bob, got %#v", res)
	}
	res, err = repo.Search(ctx, "alic", nobody, 1)
	if err != nil {
		t.Fatalf("Search limited: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("expected limit 1 respected, got %#v", res)
	}
	res, err = repo.Search(ctx, "example.com", aliceID, 10)
	if err != nil {
		t.Fatalf("Search by email: %v", err)
	}
	if len(res) != 1 || res[0].ID != bobID {
		t.Fatalf("expected email substring match, got %#v", res)
	}
}

func RunTokenRepo(t *testing.T, newRepo TokenRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo := open(t, newRepo)

	exp := time.Unix(5000, 0).UTC()
	first := tokenrepoport.Token{Token: uuid.NewString(), Email: "carol@example.com", ExpiresAt: exp}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetByToken(ctx, first.Token)
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if got.Email != "carol@example.com" || !got.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected token: %+v", got)
	}

	// A new token for the same email replaces the old one.
	second := tokenrepoport.Token{Token: uuid.NewString(), Email: "carol@example.com", ExpiresAt: exp.Add(time.Hour)}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create replacement: %v", err)
	}
	if _, err := repo.GetByToken(ctx, first.Token); !errors.Is(err, tokenrepoport.ErrNotFound) {
		t.Fatalf("expected first token replaced, got %v", err)
	}
	if _, err := repo.GetByToken(ctx, second.Token); err != nil {
		t.Fatalf("GetByToken replacement: %v", err)
	}

	if err := repo.Delete(ctx, second.Token); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, second.Token); !errors.Is(err, tokenrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func RunTripRepo(t *testing.T, newUserRepo UserRepoFactory, newRepo TripRepoFactory) {
	t.Helper()
	ctx := context.Background()

	users := open(t, newUserRepo)
	repo := open(t, newRepo)

	now := time.Unix(2000, 0).UTC()
	creator := seedUser(t, users, "Creator", "creator@example.com", now)

	oldID := domain.TripID(uuid.NewString())
	if err := repo.Create(ctx, triprepoport.Trip{
		ID:        oldID,
		CreatorID: creator,
		Name:      "Older Trip",
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("Create older: %v", err)
	}
	newID := domain.TripID(uuid.NewString())
	desc := "camping weekend"
	start := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 12, 0, 0, 0, 0, time.UTC)
	if err := repo.Create(ctx, triprepoport.Trip{
		ID:          newID,
		CreatorID:   creator,
		Name:        "Newer Trip",
		Description: &desc,
		StartDate:   &start,
		EndDate:     &end,
		CreatedAt:   now.Add(time.Hour),
		UpdatedAt:   now.Add(time.Hour),
	}); err != nil {
		t.Fatalf("Create newer: %v", err)
	}

	if err := repo.Create(ctx, triprepoport.Trip{ID: oldID, CreatorID: creator, Name: "Dup", CreatedAt: now, UpdatedAt: now}); !errors.Is(err, triprepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := repo.GetByID(ctx, newID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Description == nil || *got.Description != desc || got.StartDate == nil || !got.StartDate.Equal(start) {
		t.Fatalf("unexpected trip: %+v", got)
	}
	if _, err := repo.GetByID(ctx, domain.TripID(uuid.NewString())); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// ListByCreator returns newest first.
	ts, err := repo.ListByCreator(ctx, creator)
	if err != nil {
		t.Fatalf("ListByCreator: %v", err)
	}
	if len(ts) != 2 || ts[0].ID != newID || ts[1].ID != oldID {
		t.Fatalf("unexpected ordering: %#v", ts)
	}

	got.Name = "Renamed Trip"
	got.UpdatedAt = now.Add(2 * time.Hour)
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	saved, err := repo.GetByID(ctx, newID)
	if err != nil || saved.Name != "Renamed Trip" {
		t.Fatalf("save not persisted: %+v err=%v", saved, err)
	}
}

func RunMemberRepo(t *testing.T, newUserRepo UserRepoFactory, newTripRepo TripRepoFactory, newRepo MemberRepoFactory) {
	t.Helper()
	ctx := context.Background()

	users := open(t, newUserRepo)
	trips := open(t, newTripRepo)
	repo := open(t, newRepo)

	now := time.Unix(3000, 0).UTC()
	creator := seedUser(t, users, "Creator", "creator@example.com", now)
	userA := seedUser(t, users, "Member A", "member-a@example.com", now)
	userB := seedUser(t, users, "Member B", "member-b@example.com", now)
	tripID := seedTrip(t, trips, creator, "Roster Trip", now)

	firstID := domain.MemberID(uuid.NewString())
	if err := repo.Add(ctx, memberrepoport.Member{ID: firstID, TripID: tripID, UserID: userA, AddedAt: now}); err != nil {
		t.Fatalf("Add a: %v", err)
	}
	secondID := domain.MemberID(uuid.NewString())
	if err := repo.Add(ctx, memberrepoport.Member{ID: secondID, TripID: tripID, UserID: userB, AddedAt: now.Add(time.Minute)}); err != nil {
		t.Fatalf("Add b: %v", err)
	}

	// (trip, user) uniqueness.
	if err := repo.Add(ctx, memberrepoport.Member{ID: domain.MemberID(uuid.NewString()), TripID: tripID, UserID: userA, AddedAt: now}); !errors.Is(err, memberrepoport.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}

	if _, err := repo.GetByID(ctx, firstID); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if m, err := repo.GetByTripAndUser(ctx, tripID, userB); err != nil || m.ID != secondID {
		t.Fatalf("GetByTripAndUser: %+v err=%v", m, err)
	}
	if _, err := repo.GetByTripAndUser(ctx, tripID, domain.UserID(uuid.NewString())); !errors.Is(err, memberrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// ListByTrip returns members oldest first.
	ms, err := repo.ListByTrip(ctx, tripID)
	if err != nil {
		t.Fatalf("ListByTrip: %v", err)
	}
	if len(ms) != 2 || ms[0].ID != firstID || ms[1].ID != secondID {
		t.Fatalf("unexpected ordering: %#v", ms)
	}

	byUser, err := repo.ListByUser(ctx, userA)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(byUser) != 1 || byUser[0].TripID != tripID {
		t.Fatalf("unexpected memberships: %#v", byUser)
	}

	if err := repo.Delete(ctx, firstID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, firstID); !errors.Is(err, memberrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func RunInviteRepo(t *testing.T, newUserRepo UserRepoFactory, newTripRepo TripRepoFactory, newRepo InviteRepoFactory) {
	t.Helper()
	ctx := context.Background()

	users := open(t, newUserRepo)
	trips := open(t, newTripRepo)
	repo := open(t, newRepo)

	now := time.Unix(4000, 0).UTC()
	sender := seedUser(t, users, "Sender", "sender@example.com", now)
	receiver := seedUser(t, users, "Receiver", "receiver@example.com", now)
	tripID := seedTrip(t, trips, sender, "Invite Trip", now)
	email := "dana@example.com"

	byIDInvite := inviterepoport.Invite{
		ID:         domain.InviteID(uuid.NewString()),
		TripID:     tripID,
		SenderID:   sender,
		ReceiverID: &receiver,
		Status:     inviterepoport.StatusPending,
		CreatedAt:  now,
	}
	if err := repo.Create(ctx, byIDInvite); err != nil {
		t.Fatalf("Create by id: %v", err)
	}
	byEmailInvite := inviterepoport.Invite{
		ID:            domain.InviteID(uuid.NewString()),
		TripID:        tripID,
		SenderID:      sender,
		ReceiverEmail: &email,
		Status:        inviterepoport.StatusPending,
		CreatedAt:     now.Add(time.Minute),
	}
	if err := repo.Create(ctx, byEmailInvite); err != nil {
		t.Fatalf("Create by email: %v", err)
	}

	// Duplicate PENDING for the same (trip, receiver) pair is rejected.
	if err := repo.Create(ctx, inviterepoport.Invite{
		ID:         domain.InviteID(uuid.NewString()),
		TripID:     tripID,
		SenderID:   sender,
		ReceiverID: &receiver,
		Status:     inviterepoport.StatusPending,
		CreatedAt:  now,
	}); !errors.Is(err, inviterepoport.ErrDuplicatePending) {
		t.Fatalf("expected ErrDuplicatePending for user receiver, got %v", err)
	}
	if err := repo.Create(ctx, inviterepoport.Invite{
		ID:            domain.InviteID(uuid.NewString()),
		TripID:        tripID,
		SenderID:      sender,
		ReceiverEmail: &email,
		Status:        inviterepoport.StatusPending,
		CreatedAt:     now,
	}); !errors.Is(err, inviterepoport.ErrDuplicatePending) {
		t.Fatalf("expected ErrDuplicatePending for email receiver, got %v", err)
	}

	if got, err := repo.GetByID(ctx, byIDInvite.ID); err != nil || got.ReceiverID == nil || *got.ReceiverID != receiver {
		t.Fatalf("GetByID: %+v err=%v", got, err)
	}

	// Receiver listing matches by ID or email, newest first, PENDING only.
	pending, err := repo.ListPendingForReceiver(ctx, receiver, email)
	if err != nil {
		t.Fatalf("ListPendingForReceiver: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != byEmailInvite.ID || pending[1].ID != byIDInvite.ID {
		t.Fatalf("unexpected pending invites: %#v", pending)
	}
	pending, err = repo.ListPendingForReceiver(ctx, receiver, "other@example.com")
	if err != nil || len(pending) != 1 || pending[0].ID != byIDInvite.ID {
		t.Fatalf("expected only the id-addressed invite: %#v err=%v", pending, err)
	}

	byTrip, err := repo.ListPendingByTrip(ctx, tripID)
	if err != nil || len(byTrip) != 2 {
		t.Fatalf("ListPendingByTrip: %#v err=%v", byTrip, err)
	}

	// Accepting frees the (trip, receiver) pair for a fresh PENDING invite.
	if err := repo.SetStatus(ctx, byIDInvite.ID, inviterepoport.StatusAccepted); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if got, err := repo.GetByID(ctx, byIDInvite.ID); err != nil || got.Status != inviterepoport.StatusAccepted {
		t.Fatalf("status not persisted: %+v err=%v", got, err)
	}
	pending, err = repo.ListPendingForReceiver(ctx, receiver, "unused@example.com")
	if err != nil || len(pending) != 0 {
		t.Fatalf("accepted invite still listed as pending: %#v err=%v", pending, err)
	}
	if err := repo.Create(ctx, inviterepoport.Invite{
		ID:         domain.InviteID(uuid.NewString()),
		TripID:     tripID,
		SenderID:   sender,
		ReceiverID: &receiver,
		Status:     inviterepoport.StatusPending,
		CreatedAt:  now.Add(2 * time.Minute),
	}); err != nil {
		t.Fatalf("Create after accept: %v", err)
	}

	if err := repo.SetStatus(ctx, domain.InviteID(uuid.NewString()), inviterepoport.StatusDeclined); !errors.Is(err, inviterepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown invite, got %v", err)
	}

	if err := repo.Delete(ctx, byEmailInvite.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, byEmailInvite.ID); !errors.Is(err, inviterepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func open[R any](t *testing.T, factory func(t *testing.T) (R, CleanupFunc)) R {
	t.Helper()
	repo, cleanup := factory(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}
	return repo
}

func seedUser(t *testing.T, repo userrepoport.Repository, name, email string, now time.Time) domain.UserID {
	t.Helper()
	id := domain.UserID(uuid.NewString())
	if err := repo.Create(context.Background(), userrepoport.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return id
}

func seedTrip(t *testing.T, repo triprepoport.Repository, creator domain.UserID, name string, now time.Time) domain.TripID {
	t.Helper()
	id := domain.TripID(uuid.NewString())
	if err := repo.Create(context.Background(), triprepoport.Trip{
		ID:        id,
		CreatorID: creator,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed trip %s: %v", name, err)
	}
	return id
}
