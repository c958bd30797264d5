package tokenrepo

import (
	"context"
	"time"
)

// Token is the persistence shape of an email verification token.
type Token struct {
	// Token is the opaque unique value handed to the user.
	Token string
	// Email identifies the address being verified (stored lowercased).
	Email     string
	ExpiresAt time.Time
}

// Repository provides access to persisted verification tokens.
type Repository interface {
	// Create stores a token, replacing any existing token for the same
	// email so at most one is actionable per address.
	Create(ctx context.Context, t Token) error

	GetByToken(ctx context.Context, token string) (Token, error)

	// Delete removes a token. Deleting an absent token returns
	// ErrNotFound, never an internal failure, so concurrent consumers
	// lose gracefully.
	Delete(ctx context.Context, token string) error
}
