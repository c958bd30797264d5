package httpapi

import (
	"net/http"
	"strings"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/platform/sessions"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/userrepo"
)

// NewAuthMiddleware enforces Authorization: Bearer <session token> and
// resolves the caller's identity from the user store, so stale tokens for
// deleted accounts fail closed.
//
// On success, the identity is stored in request context.
func NewAuthMiddleware(mgr *sessions.Manager, users userrepo.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing Authorization header", nil)
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(authz, prefix) {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "malformed Authorization header", nil)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, prefix))
			if raw == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", nil)
				return
			}

			userID, err := mgr.Verify(raw)
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token", nil)
				return
			}
			u, err := users.GetByID(r.Context(), userID)
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token", nil)
				return
			}

			id := domain.Identity{UserID: u.ID, Name: u.Name, Email: u.Email}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// NewDevAuthMiddleware is a local/dev-only auth shim.
//
// It accepts an explicit user ID via X-Debug-User and resolves the
// identity from the user store. If the header is absent, it falls back to
// defaultUserID (if provided).
//
// This is intended for local workflows where issuing session tokens per
// request is overkill. Do NOT use this in production deployments.
func NewDevAuthMiddleware(users userrepo.Repository, defaultUserID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("X-Debug-User"))
			if raw == "" {
				raw = strings.TrimSpace(defaultUserID)
			}
			if raw == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing user (set X-Debug-User)", nil)
				return
			}
			u, err := users.GetByID(r.Context(), domain.UserID(raw))
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "unknown user", nil)
				return
			}
			id := domain.Identity{UserID: u.ID, Name: u.Name, Email: u.Email}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
