package userrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/userrepo"
)

// Repo is an in-memory implementation of userrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID      map[domain.UserID]userrepo.User
	idByEmail map[string]domain.UserID
}

func NewRepo() *Repo {
	return &Repo{
		byID:      make(map[domain.UserID]userrepo.User),
		idByEmail: make(map[string]domain.UserID),
	}
}

func (r *Repo) Create(ctx context.Context, u userrepo.User) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[u.ID]; ok {
		return userrepo.ErrAlreadyExists
	}
	if _, ok := r.idByEmail[u.Email]; ok {
		return userrepo.ErrEmailTaken
	}

	r.byID[u.ID] = cloneUser(u)
	r.idByEmail[u.Email] = u.ID
	return nil
}

func (r *Repo) Update(ctx context.Context, u userrepo.User) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[u.ID]
	if !ok {
		return userrepo.ErrNotFound
	}
	if existing.Email != u.Email {
		if owner, ok := r.idByEmail[u.Email]; ok && owner != u.ID {
			return userrepo.ErrEmailTaken
		}
		delete(r.idByEmail, existing.Email)
		r.idByEmail[u.Email] = u.ID
	}

	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (userrepo.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return userrepo.User{}, userrepo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (userrepo.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idByEmail[email]
	if !ok {
		return userrepo.User{}, userrepo.ErrNotFound
	}
	u, ok := r.byID[id]
	if !ok {
		return userrepo.User{}, userrepo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *Repo) Search(ctx context.Context, query string, exclude domain.UserID, limit int) ([]userrepo.User, error) {
	_ = ctx
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []userrepo.User{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]userrepo.User, 0)
	for _, u := range r.byID {
		if u.ID == exclude {
			continue
		}
		if !strings.Contains(strings.ToLower(u.Name), q) && !strings.Contains(strings.ToLower(u.Email), q) {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sortUsersByName(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortUsersByName(us []userrepo.User) {
	sort.Slice(us, func(i, j int) bool {
		ni := strings.ToLower(us[i].Name)
		nj := strings.ToLower(us[j].Name)
		if ni == nj {
			return string(us[i].ID) < string(us[j].ID)
		}
		return ni < nj
	})
}

func cloneUser(u userrepo.User) userrepo.User {
	out := u
	if u.EmailVerifiedAt != nil {
		v := *u.EmailVerifiedAt
		out.EmailVerifiedAt = &v
	}
	return out
}
