package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema statements are idempotent so Migrate can run on every startup.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		email_verified_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT users_email_unique UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS verification_tokens (
		token TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT verification_tokens_email_unique UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS trips (
		id UUID PRIMARY KEY,
		creator_id UUID NOT NULL REFERENCES users (id),
		name TEXT NOT NULL,
		description TEXT,
		start_date TIMESTAMPTZ,
		end_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS trip_members (
		id UUID PRIMARY KEY,
		trip_id UUID NOT NULL REFERENCES trips (id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users (id),
		added_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT trip_members_trip_user_unique UNIQUE (trip_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS trip_invites (
		id UUID PRIMARY KEY,
		trip_id UUID NOT NULL REFERENCES trips (id) ON DELETE CASCADE,
		sender_id UUID NOT NULL REFERENCES users (id),
		receiver_id UUID REFERENCES users (id),
		receiver_email TEXT,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT trip_invites_receiver_present CHECK (
			(receiver_id IS NULL) <> (receiver_email IS NULL)
		)
	)`,
	// At most one outstanding PENDING invite per (trip, receiver).
	`CREATE UNIQUE INDEX IF NOT EXISTS trip_invites_pending_receiver_id_unique
		ON trip_invites (trip_id, receiver_id)
		WHERE status = 'PENDING' AND receiver_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS trip_invites_pending_receiver_email_unique
		ON trip_invites (trip_id, receiver_email)
		WHERE status = 'PENDING' AND receiver_email IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS trip_invites_receiver_idx
		ON trip_invites (receiver_id, receiver_email) WHERE status = 'PENDING'`,
}

// Migrate applies the schema. Statements are individually idempotent, so
// a partially interrupted run converges on the next startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
