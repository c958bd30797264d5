package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	memclock "github.com/tripcrew/tripcrew-api/internal/adapters/memory/clock"
	meminviterepo "github.com/tripcrew/tripcrew-api/internal/adapters/memory/inviterepo"
	memmemberrepo "github.com/tripcrew/tripcrew-api/internal/adapters/memory/memberrepo"
	memtokenrepo "github.com/tripcrew/tripcrew-api/internal/adapters/memory/tokenrepo"
	memtriprepo "github.com/tripcrew/tripcrew-api/internal/adapters/memory/triprepo"
	memuserrepo "github.com/tripcrew/tripcrew-api/internal/adapters/memory/userrepo"
	"github.com/tripcrew/tripcrew-api/internal/app/auth"
	"github.com/tripcrew/tripcrew-api/internal/app/invites"
	"github.com/tripcrew/tripcrew-api/internal/app/trips"
	"github.com/tripcrew/tripcrew-api/internal/app/users"
	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/platform/hash"
	"github.com/tripcrew/tripcrew-api/internal/platform/sessions"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/userrepo"
)

// harness wires the full router against in-memory stores with real
// session auth, so tests exercise the same middleware chain as prod.
type harness struct {
	handler  http.Handler
	users    *memuserrepo.Repo
	tokens   *memtokenrepo.Repo
	trips    *memtriprepo.Repo
	members  *memmemberrepo.Repo
	invites  *meminviterepo.Repo
	sessions *sessions.Manager
	authSvc  *auth.Service
	clk      *memclock.ManualClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	userRepo := memuserrepo.NewRepo()
	tokenRepo := memtokenrepo.NewRepo()
	tripRepo := memtriprepo.NewRepo()
	memberRepo := memmemberrepo.NewRepo()
	inviteRepo := meminviterepo.NewRepo()
	clk := memclock.NewManualClock(time.Unix(1_000_000, 0).UTC())

	mgr := sessions.NewManager("test-secret", time.Hour)
	mgr.SetNowForTest(clk.Now)

	authSvc := auth.NewService(userRepo, tokenRepo, nil, clk, 24*time.Hour, "http://localhost:8080")
	tripSvc := trips.NewService(tripRepo, memberRepo, userRepo, clk)
	inviteSvc := invites.NewService(inviteRepo, tripRepo, memberRepo, userRepo, nil, clk)
	userSvc := users.NewService(userRepo, memberRepo, inviteRepo, clk)

	srv := NewServer(authSvc, tripSvc, inviteSvc, userSvc, mgr)
	h := NewRouter(srv, RouterOptions{AuthMiddleware: NewAuthMiddleware(mgr, userRepo)})

	return &harness{
		handler:  h,
		users:    userRepo,
		tokens:   tokenRepo,
		trips:    tripRepo,
		members:  memberRepo,
		invites:  inviteRepo,
		sessions: mgr,
		authSvc:  authSvc,
		clk:      clk,
	}
}

// seedVerifiedUser creates a verified account directly in the store and
// returns its identity plus a valid session token.
func (h *harness) seedVerifiedUser(t *testing.T, name, email string) (domain.Identity, string) {
	t.Helper()

	pw, err := hash.Password("secret123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	now := h.clk.Now()
	verifiedAt := now
	id := domain.UserID(uuid.NewString())
	if err := h.users.Create(context.Background(), userrepo.User{
		ID:              id,
		Name:            name,
		Email:           email,
		PasswordHash:    pw,
		EmailVerifiedAt: &verifiedAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}

	token, err := h.sessions.Issue(id)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	return domain.Identity{UserID: id, Name: name, Email: email}, token
}

func (h *harness) do(t *testing.T, method, path, token string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status=%d body=%s, want %d", rec.Code, rec.Body.String(), status)
	}
	var eb errorBody
	decodeBody(t, rec, &eb)
	if eb.Error.Code != code {
		t.Fatalf("code=%q body=%s, want %q", eb.Error.Code, rec.Body.String(), code)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("status=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
}
