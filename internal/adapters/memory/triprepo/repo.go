package triprepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/triprepo"
)

// Repo is an in-memory implementation of triprepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID map[domain.TripID]triprepo.Trip
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.TripID]triprepo.Trip),
	}
}

func (r *Repo) Create(ctx context.Context, t triprepo.Trip) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[t.ID]; ok {
		return triprepo.ErrAlreadyExists
	}
	r.byID[t.ID] = cloneTrip(t)
	return nil
}

func (r *Repo) Save(ctx context.Context, t triprepo.Trip) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[t.ID]; !ok {
		return triprepo.ErrNotFound
	}
	r.byID[t.ID] = cloneTrip(t)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (triprepo.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return triprepo.Trip{}, triprepo.ErrNotFound
	}
	return cloneTrip(t), nil
}

func (r *Repo) ListByCreator(ctx context.Context, creator domain.UserID) ([]triprepo.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]triprepo.Trip, 0)
	for _, t := range r.byID {
		if t.CreatorID != creator {
			continue
		}
		out = append(out, cloneTrip(t))
	}
	sortTripsNewestFirst(out)
	return out, nil
}

func sortTripsNewestFirst(ts []triprepo.Trip) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].CreatedAt.Equal(ts[j].CreatedAt) {
			return string(ts[i].ID) < string(ts[j].ID)
		}
		return ts[i].CreatedAt.After(ts[j].CreatedAt)
	})
}

func cloneTrip(t triprepo.Trip) triprepo.Trip {
	out := t
	out.Description = cloneStringPtr(t.Description)
	out.StartDate = cloneTimePtr(t.StartDate)
	out.EndDate = cloneTimePtr(t.EndDate)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
