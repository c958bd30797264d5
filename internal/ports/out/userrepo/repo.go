package userrepo

import (
	"context"
	"time"

	"github.com/tripcrew/tripcrew-api/internal/domain"
)

// User is the persistence shape used by the user repository.
// It is an internal record, not an HTTP DTO.
type User struct {
	ID    domain.UserID
	Name  string
	// Email is stored lowercased; uniqueness is enforced by the store.
	Email        string
	PasswordHash string

	// EmailVerifiedAt is nil for unverified accounts.
	EmailVerifiedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted users.
//
// Result ordering expectations:
// - Search returns results in store-default order; callers cap and filter.
type Repository interface {
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error

	GetByID(ctx context.Context, id domain.UserID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)

	// Search matches users by a case-insensitive substring on name or
	// email, excluding the given user ID, capped at limit. Query
	// validation (minimum length) is enforced at the application layer.
	Search(ctx context.Context, query string, exclude domain.UserID, limit int) ([]User, error)
}
