package triprepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/tripcrew/tripcrew-api/internal/adapters/postgres"
	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/triprepo"
)

// Repo is a Postgres implementation of triprepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, t triprepo.Trip) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(t.ID))
	if err != nil {
		return fmt.Errorf("invalid trip id: %w", err)
	}
	creatorID, err := uuid.Parse(string(t.CreatorID))
	if err != nil {
		return fmt.Errorf("invalid creator id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO trips (id, creator_id, name, description, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		id,
		creatorID,
		t.Name,
		t.Description,
		utcPtr(t.StartDate),
		utcPtr(t.EndDate),
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return triprepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) Save(ctx context.Context, t triprepo.Trip) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(t.ID))
	if err != nil {
		return fmt.Errorf("invalid trip id: %w", err)
	}

	ct, err := r.pool.Exec(ctx, `
		UPDATE trips
		SET name = $2,
		    description = $3,
		    start_date = $4,
		    end_date = $5,
		    updated_at = $6
		WHERE id = $1
	`,
		id,
		t.Name,
		t.Description,
		utcPtr(t.StartDate),
		utcPtr(t.EndDate),
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return triprepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (triprepo.Trip, error) {
	if r.pool == nil {
		return triprepo.Trip{}, errors.New("nil postgres pool")
	}
	tid, err := uuid.Parse(string(id))
	if err != nil {
		return triprepo.Trip{}, triprepo.ErrNotFound
	}
	return scanTrip(r.pool.QueryRow(ctx, selectTrip+` WHERE id = $1`, tid))
}

func (r *Repo) ListByCreator(ctx context.Context, creator domain.UserID) ([]triprepo.Trip, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	creatorID, err := uuid.Parse(string(creator))
	if err != nil {
		return []triprepo.Trip{}, nil
	}
	rows, err := r.pool.Query(ctx, selectTrip+`
		WHERE creator_id = $1
		ORDER BY created_at DESC, id
	`, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]triprepo.Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const selectTrip = `
	SELECT id, creator_id, name, description, start_date, end_date, created_at, updated_at
	FROM trips`

func scanTrip(row pgx.Row) (triprepo.Trip, error) {
	var (
		id        uuid.UUID
		creatorID uuid.UUID
		t         triprepo.Trip
	)
	err := row.Scan(&id, &creatorID, &t.Name, &t.Description, &t.StartDate, &t.EndDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return triprepo.Trip{}, triprepo.ErrNotFound
		}
		return triprepo.Trip{}, err
	}
	t.ID = domain.TripID(id.String())
	t.CreatorID = domain.UserID(creatorID.String())
	t.StartDate = utcPtr(t.StartDate)
	t.EndDate = utcPtr(t.EndDate)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
