package tokenrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripcrew/tripcrew-api/internal/ports/out/tokenrepo"
)

// Repo is a Postgres implementation of tokenrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, t tokenrepo.Token) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	// One actionable token per email: replace any outstanding one.
	_, err := r.pool.Exec(ctx, `
		INSERT INTO verification_tokens (token, email, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT verification_tokens_email_unique DO UPDATE
		SET token = EXCLUDED.token,
		    expires_at = EXCLUDED.expires_at
	`, t.Token, t.Email, t.ExpiresAt.UTC())
	return err
}

func (r *Repo) GetByToken(ctx context.Context, token string) (tokenrepo.Token, error) {
	if r.pool == nil {
		return tokenrepo.Token{}, errors.New("nil postgres pool")
	}
	var t tokenrepo.Token
	err := r.pool.QueryRow(ctx, `
		SELECT token, email, expires_at
		FROM verification_tokens
		WHERE token = $1
	`, token).Scan(&t.Token, &t.Email, &t.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tokenrepo.Token{}, tokenrepo.ErrNotFound
		}
		return tokenrepo.Token{}, err
	}
	t.ExpiresAt = t.ExpiresAt.UTC()
	return t, nil
}

func (r *Repo) Delete(ctx context.Context, token string) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM verification_tokens WHERE token = $1`, token)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return tokenrepo.ErrNotFound
	}
	return nil
}
