package tokenrepo

import (
	"context"
	"sync"

	"github.com/tripcrew/tripcrew-api/internal/ports/out/tokenrepo"
)

// Repo is an in-memory implementation of tokenrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byToken      map[string]tokenrepo.Token
	tokenByEmail map[string]string
}

func NewRepo() *Repo {
	return &Repo{
		byToken:      make(map[string]tokenrepo.Token),
		tokenByEmail: make(map[string]string),
	}
}

func (r *Repo) Create(ctx context.Context, t tokenrepo.Token) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	// At most one actionable token per email: a new token replaces any
	// outstanding one for the same address.
	if prev, ok := r.tokenByEmail[t.Email]; ok {
		delete(r.byToken, prev)
	}
	r.byToken[t.Token] = t
	r.tokenByEmail[t.Email] = t.Token
	return nil
}

func (r *Repo) GetByToken(ctx context.Context, token string) (tokenrepo.Token, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byToken[token]
	if !ok {
		return tokenrepo.Token{}, tokenrepo.ErrNotFound
	}
	return t, nil
}

func (r *Repo) Delete(ctx context.Context, token string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byToken[token]
	if !ok {
		return tokenrepo.ErrNotFound
	}
	delete(r.byToken, token)
	if r.tokenByEmail[t.Email] == token {
		delete(r.tokenByEmail, t.Email)
	}
	return nil
}
