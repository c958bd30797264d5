package inviterepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/tripcrew/tripcrew-api/internal/adapters/postgres"
	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/inviterepo"
)

// Repo is a Postgres implementation of inviterepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, i inviterepo.Invite) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(i.ID))
	if err != nil {
		return fmt.Errorf("invalid invite id: %w", err)
	}
	tripID, err := uuid.Parse(string(i.TripID))
	if err != nil {
		return fmt.Errorf("invalid trip id: %w", err)
	}
	senderID, err := uuid.Parse(string(i.SenderID))
	if err != nil {
		return fmt.Errorf("invalid sender id: %w", err)
	}
	var receiverID *uuid.UUID
	if i.ReceiverID != nil {
		rid, err := uuid.Parse(string(*i.ReceiverID))
		if err != nil {
			return fmt.Errorf("invalid receiver id: %w", err)
		}
		receiverID = &rid
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO trip_invites (id, trip_id, sender_id, receiver_id, receiver_email, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, tripID, senderID, receiverID, i.ReceiverEmail, string(i.Status), i.CreatedAt.UTC())
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			if strings.HasPrefix(pe.ConstraintName, "trip_invites_pending_receiver") {
				return inviterepo.ErrDuplicatePending
			}
			return inviterepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.InviteID) (inviterepo.Invite, error) {
	if r.pool == nil {
		return inviterepo.Invite{}, errors.New("nil postgres pool")
	}
	iid, err := uuid.Parse(string(id))
	if err != nil {
		return inviterepo.Invite{}, inviterepo.ErrNotFound
	}
	return scanInvite(r.pool.QueryRow(ctx, selectInvite+` WHERE id = $1`, iid))
}

func (r *Repo) ListPendingForReceiver(ctx context.Context, userID domain.UserID, email string) ([]inviterepo.Invite, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(userID))
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	return r.list(ctx, selectInvite+`
		WHERE status = 'PENDING' AND (receiver_id = $1 OR receiver_email = $2)
		ORDER BY created_at DESC, id
	`, uid, email)
}

func (r *Repo) ListPendingByTrip(ctx context.Context, tripID domain.TripID) ([]inviterepo.Invite, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	tid, err := uuid.Parse(string(tripID))
	if err != nil {
		return []inviterepo.Invite{}, nil
	}
	return r.list(ctx, selectInvite+`
		WHERE trip_id = $1 AND status = 'PENDING'
		ORDER BY created_at DESC, id
	`, tid)
}

func (r *Repo) SetStatus(ctx context.Context, id domain.InviteID, status inviterepo.Status) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	iid, err := uuid.Parse(string(id))
	if err != nil {
		return inviterepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `UPDATE trip_invites SET status = $2 WHERE id = $1`, iid, string(status))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return inviterepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.InviteID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	iid, err := uuid.Parse(string(id))
	if err != nil {
		return inviterepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM trip_invites WHERE id = $1`, iid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return inviterepo.ErrNotFound
	}
	return nil
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]inviterepo.Invite, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]inviterepo.Invite, 0)
	for rows.Next() {
		i, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

const selectInvite = `
	SELECT id, trip_id, sender_id, receiver_id, receiver_email, status, created_at
	FROM trip_invites`

func scanInvite(row pgx.Row) (inviterepo.Invite, error) {
	var (
		id         uuid.UUID
		tripID     uuid.UUID
		senderID   uuid.UUID
		receiverID *uuid.UUID
		status     string
		i          inviterepo.Invite
	)
	err := row.Scan(&id, &tripID, &senderID, &receiverID, &i.ReceiverEmail, &status, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return inviterepo.Invite{}, inviterepo.ErrNotFound
		}
		return inviterepo.Invite{}, err
	}
	i.ID = domain.InviteID(id.String())
	i.TripID = domain.TripID(tripID.String())
	i.SenderID = domain.UserID(senderID.String())
	if receiverID != nil {
		rid := domain.UserID(receiverID.String())
		i.ReceiverID = &rid
	}
	i.Status = inviterepo.Status(status)
	i.CreatedAt = i.CreatedAt.UTC()
	return i, nil
}
