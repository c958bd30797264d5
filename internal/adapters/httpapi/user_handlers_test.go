package httpapi

import (
	"bytes"
	"net/http"
	"testing"
)

func TestUsers_UpdateMe_TriState(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	_, token := h.seedVerifiedUser(t, "Alice", "alice@example.com")

	// A value updates the name.
	rec := h.do(t, http.MethodPatch, "/api/users/me", token, bytes.NewBufferString(`{"name":"  Alice   Smith "}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status=%d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		User userDTO `json:"user"`
	}
	decodeBody(t, rec, &out)
	if out.User.Name != "Alice Smith" {
		t.Fatalf("name=%q", out.User.Name)
	}

	// Omitting the field leaves it alone.
	rec = h.do(t, http.MethodPatch, "/api/users/me", token, bytes.NewBufferString(`{}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status=%d body=%s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &out)
	if out.User.Name != "Alice Smith" {
		t.Fatalf("name=%q", out.User.Name)
	}

	// Explicit null is rejected.
	rec = h.do(t, http.MethodPatch, "/api/users/me", token, bytes.NewBufferString(`{"name":null}`))
	assertErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestUsers_Search(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	_, aliceToken := h.seedVerifiedUser(t, "Alice Example", "alice@example.com")
	bob, _ := h.seedVerifiedUser(t, "Bob Example", "bob@example.com")

	rec := h.do(t, http.MethodGet, "/api/users/search?q=example", aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search status=%d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		Users []userSummaryDTO `json:"users"`
	}
	decodeBody(t, rec, &out)
	if len(out.Users) != 1 || out.Users[0].ID != string(bob.UserID) {
		t.Fatalf("unexpected users: %+v", out.Users)
	}
}

func TestUsers_Search_ShortQueryEmpty(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	_, token := h.seedVerifiedUser(t, "Alice Example", "alice@example.com")
	h.seedVerifiedUser(t, "Bob Example", "bob@example.com")

	rec := h.do(t, http.MethodGet, "/api/users/search?q=b", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search status=%d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		Users []userSummaryDTO `json:"users"`
	}
	decodeBody(t, rec, &out)
	if len(out.Users) != 0 {
		t.Fatalf("expected empty result: %+v", out.Users)
	}
}

func TestUsers_Search_TripFilterExcludesParticipants(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	_, aliceToken := h.seedVerifiedUser(t, "Alice Example", "alice@example.com")
	bob, _ := h.seedVerifiedUser(t, "Bob Example", "bob@example.com")
	carol, _ := h.seedVerifiedUser(t, "Carol Example", "carol@example.com")

	created := h.createTrip(t, aliceToken, "Summer Camp")
	h.addMember(t, created.ID, bob.UserID)

	rec := h.do(t, http.MethodGet, "/api/users/search?q=example&tripId="+created.ID, aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search status=%d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		Users []userSummaryDTO `json:"users"`
	}
	decodeBody(t, rec, &out)
	if len(out.Users) != 1 || out.Users[0].ID != string(carol.UserID) {
		t.Fatalf("unexpected users: %+v", out.Users)
	}
}
