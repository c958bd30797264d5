package httpapi

import (
	"bytes"
	"net/http"
	"testing"
)

func (h *harness) createInvite(t *testing.T, token, tripID string, body string) string {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/trips/"+tripID+"/invite", token, bytes.NewBufferString(body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create invite status=%d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		Invite struct {
			ID string `json:"id"`
		} `json:"invite"`
	}
	decodeBody(t, rec, &out)
	return out.Invite.ID
}

func TestInvites_CreateListAccept(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	alice, aliceToken := h.seedVerifiedUser(t, "Alice", "alice@example.com")
	bob, bobToken := h.seedVerifiedUser(t, "Bob", "bob@example.com")

	created := h.createTrip(t, aliceToken, "Summer Camp")
	inviteID := h.createInvite(t, aliceToken, created.ID, `{"userId":"`+string(bob.UserID)+`"}`)

	// Bob sees the pending invite with trip and sender joined in.
	rec := h.do(t, http.MethodGet, "/api/invites", bobToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status=%d body=%s", rec.Code, rec.Body.String())
	}
	var views []inviteViewDTO
	decodeBody(t, rec, &views)
	if len(views) != 1 || views[0].ID != inviteID {
		t.Fatalf("unexpected invites: %+v", views)
	}
	if views[0].Trip.ID != created.ID || views[0].Sender.ID != string(alice.UserID) {
		t.Fatalf("unexpected joins: %+v", views[0])
	}
	if views[0].Status != "PENDING" {
		t.Fatalf("status=%q", views[0].Status)
	}

	rec = h.do(t, http.MethodPost, "/api/invites/"+inviteID+"/accept", bobToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("accept status=%d body=%s", rec.Code, rec.Body.String())
	}

	// Bob can now see the trip.
	rec = h.do(t, http.MethodGet, "/api/trips/"+created.ID, bobToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get trip status=%d body=%s", rec.Code, rec.Body.String())
	}

	// The invite is settled and no longer listed.
	rec = h.do(t, http.MethodGet, "/api/invites", bobToken, nil)
	decodeBody(t, rec, &views)
	if len(views) != 0 {
		t.Fatalf("expected no pending invites: %+v", views)
	}
}

func TestInvites_CreateByEmail(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	_, aliceToken := h.seedVerifiedUser(t, "Alice", "alice@example.com")

	created := h.createTrip(t, aliceToken, "Summer Camp")

	rec := h.do(t, http.MethodPost, "/api/trips/"+created.ID+"/invite", aliceToken,
		bytes.NewBufferString(`{"email":"Newcomer@Example.com"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		Invite struct {
			ReceiverEmail string `json:"receiverEmail"`
		} `json:"invite"`
	}
	decodeBody(t, rec, &out)
	if out.Invite.ReceiverEmail != "newcomer@example.com" {
		t.Fatalf("unexpected receiver email: %+v", out.Invite)
	}
}

func TestInvites_CreateValidation(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	alice, aliceToken := h.seedVerifiedUser(t, "Alice", "alice@example.com")
	bob, _ := h.seedVerifiedUser(t, "Bob", "bob@example.com")

	created := h.createTrip(t, aliceToken, "Summer Camp")

	// Neither or both receiver fields.
	rec := h.do(t, http.MethodPost, "/api/trips/"+created.ID+"/invite", aliceToken, bytes.NewBufferString(`{}`))
	assertErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
	rec = h.do(t, http.MethodPost, "/api/trips/"+created.ID+"/invite", aliceToken,
		bytes.NewBufferString(`{"userId":"`+string(bob.UserID)+`","email":"bob@example.com"}`))
	assertErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	// Self-invite.
	rec = h.do(t, http.MethodPost, "/api/trips/"+created.ID+"/invite", aliceToken,
		bytes.NewBufferString(`{"userId":"`+string(alice.UserID)+`"}`))
	assertErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	// Duplicate pending invite.
	h.createInvite(t, aliceToken, created.ID, `{"userId":"`+string(bob.UserID)+`"}`)
	rec = h.do(t, http.MethodPost, "/api/trips/"+created.ID+"/invite", aliceToken,
		bytes.NewBufferString(`{"userId":"`+string(bob.UserID)+`"}`))
	assertErrorCode(t, rec, http.StatusConflict, "DUPLICATE_INVITE")
}

func TestInvites_Decline(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	_, aliceToken := h.seedVerifiedUser(t, "Alice", "alice@example.com")
	bob, bobToken := h.seedVerifiedUser(t, "Bob", "bob@example.com")

	created := h.createTrip(t, aliceToken, "Summer Camp")
	inviteID := h.createInvite(t, aliceToken, created.ID, `{"userId":"`+string(bob.UserID)+`"}`)

	rec := h.do(t, http.MethodPost, "/api/invites/"+inviteID+"/decline", bobToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("decline status=%d body=%s", rec.Code, rec.Body.String())
	}

	// Declining does not grant access.
	rec = h.do(t, http.MethodGet, "/api/trips/"+created.ID, bobToken, nil)
	assertErrorCode(t, rec, http.StatusNotFound, "TRIP_NOT_FOUND")
}

func TestInvites_AcceptSomeoneElses_404(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	_, aliceToken := h.seedVerifiedUser(t, "Alice", "alice@example.com")
	bob, _ := h.seedVerifiedUser(t, "Bob", "bob@example.com")
	_, carolToken := h.seedVerifiedUser(t, "Carol", "carol@example.com")

	created := h.createTrip(t, aliceToken, "Summer Camp")
	inviteID := h.createInvite(t, aliceToken, created.ID, `{"userId":"`+string(bob.UserID)+`"}`)

	rec := h.do(t, http.MethodPost, "/api/invites/"+inviteID+"/accept", carolToken, nil)
	assertErrorCode(t, rec, http.StatusNotFound, "INVITE_NOT_FOUND")
}

func TestInvites_Delete(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	_, aliceToken := h.seedVerifiedUser(t, "Alice", "alice@example.com")
	bob, bobToken := h.seedVerifiedUser(t, "Bob", "bob@example.com")
	carol, carolToken := h.seedVerifiedUser(t, "Carol", "carol@example.com")
	dave, _ := h.seedVerifiedUser(t, "Dave", "dave@example.com")

	created := h.createTrip(t, aliceToken, "Summer Camp")
	h.addMember(t, created.ID, bob.UserID)
	h.addMember(t, created.ID, carol.UserID)

	inviteID := h.createInvite(t, bobToken, created.ID, `{"userId":"`+string(dave.UserID)+`"}`)

	// A participant who is neither sender nor creator is forbidden.
	rec := h.do(t, http.MethodDelete, "/api/trips/"+created.ID+"/invite/"+inviteID, carolToken, nil)
	assertErrorCode(t, rec, http.StatusForbidden, "FORBIDDEN")

	// The sender deletes their own invite.
	rec = h.do(t, http.MethodDelete, "/api/trips/"+created.ID+"/invite/"+inviteID, bobToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status=%d body=%s", rec.Code, rec.Body.String())
	}

	// A second delete reports the invite missing.
	rec = h.do(t, http.MethodDelete, "/api/trips/"+created.ID+"/invite/"+inviteID, bobToken, nil)
	assertErrorCode(t, rec, http.StatusNotFound, "INVITE_NOT_FOUND")
}
