package memberrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/memberrepo"
)

// Repo is an in-memory implementation of memberrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID map[domain.MemberID]memberrepo.Member
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.MemberID]memberrepo.Member),
	}
}

func (r *Repo) Add(ctx context.Context, m memberrepo.Member) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.TripID == m.TripID && existing.UserID == m.UserID {
			return memberrepo.ErrAlreadyMember
		}
	}
	r.byID[m.ID] = m
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.MemberID) (memberrepo.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	if !ok {
		return memberrepo.Member{}, memberrepo.ErrNotFound
	}
	return m, nil
}

func (r *Repo) GetByTripAndUser(ctx context.Context, tripID domain.TripID, userID domain.UserID) (memberrepo.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.byID {
		if m.TripID == tripID && m.UserID == userID {
			return m, nil
		}
	}
	return memberrepo.Member{}, memberrepo.ErrNotFound
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]memberrepo.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]memberrepo.Member, 0)
	for _, m := range r.byID {
		if m.TripID == tripID {
			out = append(out, m)
		}
	}
	sortMembersByAddedAt(out)
	return out, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID) ([]memberrepo.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]memberrepo.Member, 0)
	for _, m := range r.byID {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sortMembersByAddedAt(out)
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.MemberID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return memberrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func sortMembersByAddedAt(ms []memberrepo.Member) {
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].AddedAt.Equal(ms[j].AddedAt) {
			return string(ms[i].ID) < string(ms[j].ID)
		}
		return ms[i].AddedAt.Before(ms[j].AddedAt)
	})
}
