package sessions

import (
	"errors"
	"testing"
	"time"

	"github.com/tripcrew/tripcrew-api/internal/domain"
)

func TestManager_IssueVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	mgr := NewManager("secret", time.Hour)
	userID := domain.UserID("11111111-1111-1111-1111-111111111111")

	token, err := mgr.Issue(userID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != userID {
		t.Fatalf("got=%v want=%v", got, userID)
	}
}

func TestManager_ExpiredToken(t *testing.T) {
	t.Parallel()

	mgr := NewManager("secret", time.Hour)
	start := time.Unix(1_000_000, 0).UTC()
	mgr.SetNowForTest(func() time.Time { return start })

	token, err := mgr.Issue(domain.UserID("u-1"))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	mgr.SetNowForTest(func() time.Time { return start.Add(2 * time.Hour) })
	if _, err := mgr.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestManager_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewManager("secret-a", time.Hour).Issue(domain.UserID("u-1"))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewManager("secret-b", time.Hour).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestManager_GarbageToken(t *testing.T) {
	t.Parallel()

	mgr := NewManager("secret", time.Hour)
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := mgr.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Verify(%q): expected ErrInvalidToken, got %v", tok, err)
		}
	}
}
