package memberrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/tripcrew/tripcrew-api/internal/adapters/postgres"
	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/memberrepo"
)

// Repo is a Postgres implementation of memberrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Add(ctx context.Context, m memberrepo.Member) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(m.ID))
	if err != nil {
		return fmt.Errorf("invalid member id: %w", err)
	}
	tripID, err := uuid.Parse(string(m.TripID))
	if err != nil {
		return fmt.Errorf("invalid trip id: %w", err)
	}
	userID, err := uuid.Parse(string(m.UserID))
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO trip_members (id, trip_id, user_id, added_at)
		VALUES ($1, $2, $3, $4)
	`, id, tripID, userID, m.AddedAt.UTC())
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return memberrepo.ErrAlreadyMember
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.MemberID) (memberrepo.Member, error) {
	if r.pool == nil {
		return memberrepo.Member{}, errors.New("nil postgres pool")
	}
	mid, err := uuid.Parse(string(id))
	if err != nil {
		return memberrepo.Member{}, memberrepo.ErrNotFound
	}
	return scanMember(r.pool.QueryRow(ctx, selectMember+` WHERE id = $1`, mid))
}

func (r *Repo) GetByTripAndUser(ctx context.Context, tripID domain.TripID, userID domain.UserID) (memberrepo.Member, error) {
	if r.pool == nil {
		return memberrepo.Member{}, errors.New("nil postgres pool")
	}
	tid, err := uuid.Parse(string(tripID))
	if err != nil {
		return memberrepo.Member{}, memberrepo.ErrNotFound
	}
	uid, err := uuid.Parse(string(userID))
	if err != nil {
		return memberrepo.Member{}, memberrepo.ErrNotFound
	}
	return scanMember(r.pool.QueryRow(ctx, selectMember+` WHERE trip_id = $1 AND user_id = $2`, tid, uid))
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]memberrepo.Member, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	tid, err := uuid.Parse(string(tripID))
	if err != nil {
		return []memberrepo.Member{}, nil
	}
	return r.list(ctx, selectMember+` WHERE trip_id = $1 ORDER BY added_at, id`, tid)
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID) ([]memberrepo.Member, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(userID))
	if err != nil {
		return []memberrepo.Member{}, nil
	}
	return r.list(ctx, selectMember+` WHERE user_id = $1 ORDER BY added_at, id`, uid)
}

func (r *Repo) Delete(ctx context.Context, id domain.MemberID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	mid, err := uuid.Parse(string(id))
	if err != nil {
		return memberrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM trip_members WHERE id = $1`, mid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return memberrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) list(ctx context.Context, query string, arg any) ([]memberrepo.Member, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]memberrepo.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

const selectMember = `
	SELECT id, trip_id, user_id, added_at
	FROM trip_members`

func scanMember(row pgx.Row) (memberrepo.Member, error) {
	var (
		id     uuid.UUID
		tripID uuid.UUID
		userID uuid.UUID
		m      memberrepo.Member
	)
	if err := row.Scan(&id, &tripID, &userID, &m.AddedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return memberrepo.Member{}, memberrepo.ErrNotFound
		}
		return memberrepo.Member{}, err
	}
	m.ID = domain.MemberID(id.String())
	m.TripID = domain.TripID(tripID.String())
	m.UserID = domain.UserID(userID.String())
	m.AddedAt = m.AddedAt.UTC()
	return m, nil
}
