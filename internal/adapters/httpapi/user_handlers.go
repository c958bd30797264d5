package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/oapi-codegen/nullable"

	"github.com/tripcrew/tripcrew-api/internal/app/users"
	"github.com/tripcrew/tripcrew-api/internal/domain"
)

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}
	u, err := s.Users.GetMe(r.Context(), identity)
	if err != nil {
		writeUsersServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": userFromDomain(u)})
}

type updateMeRequest struct {
	Name nullable.Nullable[string] `json:"name"`
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}
	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}

	in := users.UpdateMeInput{Name: optionalFromNullable(req.Name)}
	u, err := s.Users.UpdateMe(r.Context(), identity, in)
	if err != nil {
		writeUsersServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": userFromDomain(u)})
}

func (s *Server) handleUserSearch(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}

	q := r.URL.Query().Get("q")
	var tripID *domain.TripID
	if raw := r.URL.Query().Get("tripId"); raw != "" {
		id := domain.TripID(raw)
		tripID = &id
	}

	found, err := s.Users.Search(r.Context(), identity, q, tripID)
	if err != nil {
		writeUsersServiceError(w, r, err)
		return
	}

	out := make([]userSummaryDTO, 0, len(found))
	for _, u := range found {
		out = append(out, userSummaryFromDomain(u))
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}

// optionalFromNullable converts the JSON tri-state (absent, null, value)
// into the app-layer Optional.
func optionalFromNullable[T any](n nullable.Nullable[T]) users.Optional[T] {
	if !n.IsSpecified() {
		return users.Unspecified[T]()
	}
	if n.IsNull() {
		return users.Null[T]()
	}
	v, err := n.Get()
	if err != nil {
		return users.Null[T]()
	}
	return users.Some(v)
}
