package sessions

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tripcrew/tripcrew-api/internal/domain"
)

var ErrInvalidToken = errors.New("invalid session token")

// Manager issues and verifies HS256 session tokens. The subject claim
// carries the user ID; the identity itself is resolved from the user
// store on every request so revoked or mutated accounts are picked up.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// SetNowForTest overrides the time source for deterministic expiry tests.
func (m *Manager) SetNowForTest(now func() time.Time) {
	if now != nil {
		m.now = now
	}
}

// Issue creates a signed session token for the user.
func (m *Manager) Issue(userID domain.UserID) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   string(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify parses and validates a session token, returning the user ID it
// was issued for.
func (m *Manager) Verify(token string) (domain.UserID, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return domain.UserID(claims.Subject), nil
}
