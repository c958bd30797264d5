package inviterepo

import (
	"context"
	"sort"
	"sync"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/inviterepo"
)

// Repo is an in-memory implementation of inviterepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID map[domain.InviteID]inviterepo.Invite
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.InviteID]inviterepo.Invite),
	}
}

func (r *Repo) Create(ctx context.Context, i inviterepo.Invite) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[i.ID]; ok {
		return inviterepo.ErrAlreadyExists
	}
	for _, existing := range r.byID {
		if existing.TripID != i.TripID || existing.Status != inviterepo.StatusPending {
			continue
		}
		if sameReceiver(existing, i) {
			return inviterepo.ErrDuplicatePending
		}
	}
	r.byID[i.ID] = cloneInvite(i)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.InviteID) (inviterepo.Invite, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return inviterepo.Invite{}, inviterepo.ErrNotFound
	}
	return cloneInvite(i), nil
}

func (r *Repo) ListPendingForReceiver(ctx context.Context, userID domain.UserID, email string) ([]inviterepo.Invite, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]inviterepo.Invite, 0)
	for _, i := range r.byID {
		if i.Status != inviterepo.StatusPending {
			continue
		}
		if (i.ReceiverID != nil && *i.ReceiverID == userID) ||
			(i.ReceiverEmail != nil && *i.ReceiverEmail == email) {
			out = append(out, cloneInvite(i))
		}
	}
	sortInvitesNewestFirst(out)
	return out, nil
}

func (r *Repo) ListPendingByTrip(ctx context.Context, tripID domain.TripID) ([]inviterepo.Invite, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]inviterepo.Invite, 0)
	for _, i := range r.byID {
		if i.TripID == tripID && i.Status == inviterepo.StatusPending {
			out = append(out, cloneInvite(i))
		}
	}
	sortInvitesNewestFirst(out)
	return out, nil
}

func (r *Repo) SetStatus(ctx context.Context, id domain.InviteID, status inviterepo.Status) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[id]
	if !ok {
		return inviterepo.ErrNotFound
	}
	i.Status = status
	r.byID[id] = i
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.InviteID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return inviterepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func sameReceiver(a, b inviterepo.Invite) bool {
	if a.ReceiverID != nil && b.ReceiverID != nil && *a.ReceiverID == *b.ReceiverID {
		return true
	}
	if a.ReceiverEmail != nil && b.ReceiverEmail != nil && *a.ReceiverEmail == *b.ReceiverEmail {
		return true
	}
	return false
}

func sortInvitesNewestFirst(is []inviterepo.Invite) {
	sort.Slice(is, func(i, j int) bool {
		if is[i].CreatedAt.Equal(is[j].CreatedAt) {
			return string(is[i].ID) < string(is[j].ID)
		}
		return is[i].CreatedAt.After(is[j].CreatedAt)
	})
}

func cloneInvite(i inviterepo.Invite) inviterepo.Invite {
	out := i
	if i.ReceiverID != nil {
		v := *i.ReceiverID
		out.ReceiverID = &v
	}
	if i.ReceiverEmail != nil {
		v := *i.ReceiverEmail
		out.ReceiverEmail = &v
	}
	return out
}
