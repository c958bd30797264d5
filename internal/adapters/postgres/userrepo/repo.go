package userrepo

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
	"github.com/tripcrew/tripcrew-api/internal/ports/out/userrepo"
)

// Repo is a Postgres implementation of userrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, u userrepo.User) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(u.ID))
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, email_verified_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		id,
		u.Name,
		u.Email,
		u.PasswordHash,
		utcPtr(u.EmailVerifiedAt),
		u.CreatedAt.UTC(),
		u.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			switch pe.ConstraintName {
			case "users_email_unique":
				return userrepo.ErrEmailTaken
			default:
				return userrepo.ErrAlreadyExists
			}
		}
		return err
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, u userrepo.User) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(u.ID))
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	ct, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $2,
		    email = $3,
		    password_hash = $4,
		    email_verified_at = $5,
		    updated_at = $6
		WHERE id = $1
	`,
		id,
		u.Name,
		u.Email,
		u.PasswordHash,
		utcPtr(u.EmailVerifiedAt),
		u.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return userrepo.ErrEmailTaken
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return userrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (userrepo.User, error) {
	if r.pool == nil {
		return userrepo.User{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return userrepo.User{}, userrepo.ErrNotFound
	}
	return scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE id = $1`, uid))
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (userrepo.User, error) {
	if r.pool == nil {
		return userrepo.User{}, errors.New("nil postgres pool")
	}
	return scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE email = $1`, email))
}

func (r *Repo) Search(ctx context.Context, query string, exclude domain.UserID, limit int) ([]userrepo.User, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	excludeID, err := uuid.Parse(string(exclude))
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	pattern := "%" + escapeLike(query) + "%"

	rows, err := r.pool.Query(ctx, selectUser+`
		WHERE id <> $1 AND (name ILIKE $2 OR email ILIKE $2)
		ORDER BY lower(name), id
		LIMIT $3
	`, excludeID, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]userrepo.User, 0)
	for rows.Next() {
		u, err := scanUserFromRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

const selectUser = `
	SELECT id, name, email, password_hash, email_verified_at, created_at, updated_at
	FROM users`

func scanUser(row pgx.Row) (userrepo.User, error) {
	var (
		id         uuid.UUID
		u          userrepo.User
		verifiedAt *time.Time
	)
	if err := row.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &verifiedAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return userrepo.User{}, userrepo.ErrNotFound
		}
		return userrepo.User{}, err
	}
	u.ID = domain.UserID(id.String())
	if verifiedAt != nil {
		v := verifiedAt.UTC()
		u.EmailVerifiedAt = &v
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func scanUserFromRows(rows pgx.Rows) (userrepo.User, error) {
	return scanUser(rows)
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
