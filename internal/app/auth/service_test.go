package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	memclock "github.com/tripcrew/tripcrew-api/internal/adapters/memory/clock"
	memtokenrepo "github.com/tripcrew/tripcrew-api/internal/adapters/memory/tokenrepo"
	memuserrepo "github.com/tripcrew/tripcrew-api/internal/adapters/memory/userrepo"
)

func newTestService() (*Service, *memclock.ManualClock) {
	clk := memclock.NewManualClock(time.Unix(1_000_000, 0).UTC())
	svc := NewService(memuserrepo.NewRepo(), memtokenrepo.NewRepo(), nil, clk, 24*time.Hour, "http://localhost:8080")
	return svc, clk
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

func TestService_Signup_NormalizesAndCreatesUnverified(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	u, err := svc.Signup(context.Background(), SignupInput{
		Name:     "  Alice   Smith ",
		Email:    "Alice@Example.COM",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Signup err=%v", err)
	}
	if u.Name != "Alice Smith" {
		t.Fatalf("name=%q", u.Name)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("email=%q", u.Email)
	}
	if u.EmailVerifiedAt != nil {
		t.Fatalf("expected unverified account")
	}
}

func TestService_Signup_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Name: "  ", Email: "a@example.com", Password: "secret123"})
	assertServiceError(t, err, 400, "VALIDATION_ERROR")

	_, err = svc.Signup(ctx, SignupInput{Name: "Alice", Email: "not-an-email", Password: "secret123"})
	assertServiceError(t, err, 400, "VALIDATION_ERROR")

	_, err = svc.Signup(ctx, SignupInput{Name: "Alice", Email: "a@example.com", Password: "short"})
	assertServiceError(t, err, 400, "VALIDATION_ERROR")
}

func TestService_Signup_EmailTaken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("first signup err=%v", err)
	}
	// Same address with different casing collides.
	_, err := svc.Signup(ctx, SignupInput{Name: "Other Alice", Email: "ALICE@example.com", Password: "secret123"})
	assertServiceError(t, err, 400, "EMAIL_TAKEN")
}

func TestService_SignupVerifyLogin_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()
	svc.SetTokenGeneratorForTest(func() string { return "tok-1" })

	if _, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("Signup err=%v", err)
	}

	// Unverified accounts cannot log in.
	_, err := svc.Login(ctx, "alice@example.com", "secret123")
	assertServiceError(t, err, 403, "EMAIL_NOT_VERIFIED")

	verified, err := svc.Verify(ctx, "tok-1")
	if err != nil {
		t.Fatalf("Verify err=%v", err)
	}
	if verified.EmailVerifiedAt == nil {
		t.Fatalf("expected verified account")
	}

	u, err := svc.Login(ctx, "Alice@Example.com", "secret123")
	if err != nil {
		t.Fatalf("Login err=%v", err)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("email=%q", u.Email)
	}
}

func TestService_Verify_TokenIsSingleUse(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()
	svc.SetTokenGeneratorForTest(func() string { return "tok-1" })

	if _, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("Signup err=%v", err)
	}
	if _, err := svc.Verify(ctx, "tok-1"); err != nil {
		t.Fatalf("Verify err=%v", err)
	}
	_, err := svc.Verify(ctx, "tok-1")
	assertServiceError(t, err, 404, "TOKEN_NOT_FOUND")
}

func TestService_Verify_ExpiredTokenIsDeleted(t *testing.T) {
	t.Parallel()

	svc, clk := newTestService()
	ctx := context.Background()
	svc.SetTokenGeneratorForTest(func() string { return "tok-1" })

	if _, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("Signup err=%v", err)
	}

	clk.Advance(24*time.Hour + time.Millisecond)

	_, err := svc.Verify(ctx, "tok-1")
	assertServiceError(t, err, 400, "TOKEN_EXPIRED")

	// The expired token was removed, not kept around.
	_, err = svc.Verify(ctx, "tok-1")
	assertServiceError(t, err, 404, "TOKEN_NOT_FOUND")
}

func TestService_Verify_ExactExpiryStillHonored(t *testing.T) {
	t.Parallel()

	svc, clk := newTestService()
	ctx := context.Background()
	svc.SetTokenGeneratorForTest(func() string { return "tok-1" })

	if _, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("Signup err=%v", err)
	}

	clk.Advance(24 * time.Hour)

	if _, err := svc.Verify(ctx, "tok-1"); err != nil {
		t.Fatalf("Verify at exact expiry err=%v", err)
	}
}

func TestService_Verify_UnknownAndMissingToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Verify(ctx, "   ")
	assertServiceError(t, err, 400, "VALIDATION_ERROR")

	_, err = svc.Verify(ctx, "no-such-token")
	assertServiceError(t, err, 404, "TOKEN_NOT_FOUND")
}

func TestService_Signup_ReplacesOutstandingToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	tokens := []string{"tok-1", "tok-2"}
	svc.SetTokenGeneratorForTest(func() string {
		tok := tokens[0]
		tokens = tokens[1:]
		return tok
	})

	if _, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("Signup err=%v", err)
	}
	// A second signup for the same address fails, but the original token
	// remains usable.
	_, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "alice@example.com", Password: "secret123"})
	assertServiceError(t, err, 400, "EMAIL_TAKEN")

	if _, err := svc.Verify(ctx, "tok-1"); err != nil {
		t.Fatalf("Verify err=%v", err)
	}
}

func TestService_Login_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()
	svc.SetTokenGeneratorForTest(func() string { return "tok-1" })

	if _, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("Signup err=%v", err)
	}
	if _, err := svc.Verify(ctx, "tok-1"); err != nil {
		t.Fatalf("Verify err=%v", err)
	}

	_, err := svc.Login(ctx, "alice@example.com", "wrong-password")
	assertServiceError(t, err, 401, "INVALID_CREDENTIALS")

	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assertServiceError(t, err, 401, "INVALID_CREDENTIALS")

	_, err = svc.Login(ctx, "", "")
	assertServiceError(t, err, 400, "VALIDATION_ERROR")
}
