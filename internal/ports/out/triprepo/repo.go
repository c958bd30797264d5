package triprepo

import (
	"context"
	"time"

	"github.com/tripcrew/tripcrew-api/internal/domain"
)

// Trip is the persistence shape used by the trip repository.
// It is not an HTTP DTO.
type Trip struct {
	ID        domain.TripID
	CreatorID domain.UserID

	Name        string
	Description *string

	// StartDate/EndDate carry date-only semantics at the edges; nil means "unknown".
	StartDate *time.Time
	EndDate   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted trips.
//
// Result ordering expectations:
// - ListByCreator returns trips ordered by CreatedAt descending to keep behavior deterministic.
type Repository interface {
	Create(ctx context.Context, t Trip) error
	Save(ctx context.Context, t Trip) error

	GetByID(ctx context.Context, id domain.TripID) (Trip, error)

	// ListByCreator returns trips created by the user, newest first.
	// Trips the user merely joined are resolved by the caller through the
	// member repository.
	ListByCreator(ctx context.Context, creator domain.UserID) ([]Trip, error)
}
