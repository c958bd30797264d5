package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tripcrew/tripcrew-api/internal/app/trips"
	"github.com/tripcrew/tripcrew-api/internal/domain"
)

type createTripRequest struct {
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}
	var req createTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}

	t, err := s.Trips.CreateTrip(r.Context(), identity, trips.CreateTripInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		writeTripsServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"trip": tripFromDomain(t)})
}

func (s *Server) handleListMyTrips(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}
	ts, err := s.Trips.ListMyTrips(r.Context(), identity)
	if err != nil {
		writeTripsServiceError(w, r, err)
		return
	}
	out := make([]tripDTO, 0, len(ts))
	for _, t := range ts {
		out = append(out, tripFromDomain(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"trips": out})
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	t, err := s.Trips.GetTrip(r.Context(), identity, tripID)
	if err != nil {
		writeTripsServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trip": tripFromDomain(t)})
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	view, err := s.Trips.ListMembers(r.Context(), identity, tripID)
	if err != nil {
		writeTripsServiceError(w, r, err)
		return
	}
	members := make([]memberDTO, 0, len(view.Members))
	for _, m := range view.Members {
		members = append(members, memberFromView(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"creator": userSummaryFromDomain(view.Creator),
		"members": members,
	})
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	memberID := domain.MemberID(chi.URLParam(r, "memberID"))

	removed, err := s.Trips.RemoveMember(r.Context(), identity, tripID, memberID)
	if err != nil {
		writeTripsServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "member removed",
		"removedMember": userSummaryFromDomain(removed),
	})
}
