package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripcrew/tripcrew-api/internal/app/invites"
	"github.com/tripcrew/tripcrew-api/internal/domain"
)

func (s *Server) handleListInvites(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}
	views, err := s.Invites.ListPending(r.Context(), identity)
	if err != nil {
		writeInvitesServiceError(w, r, err)
		return
	}
	out := make([]inviteViewDTO, 0, len(views))
	for _, v := range views {
		out = append(out, inviteViewFromDomain(v))
	}
	writeJSON(w, http.StatusOK, out)
}

type createInviteRequest struct {
	UserID *string `json:"userId"`
	Email  *string `json:"email"`
}

func (s *Server) handleCreateInvite(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	var req createInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}

	in := invites.CreateInput{ReceiverEmail: req.Email}
	if req.UserID != nil {
		id := domain.UserID(*req.UserID)
		in.ReceiverUserID = &id
	}

	inv, err := s.Invites.Create(r.Context(), identity, tripID, in)
	if err != nil {
		writeInvitesServiceError(w, r, err)
		return
	}

	body := map[string]any{
		"id":        string(inv.ID),
		"tripId":    string(inv.TripID),
		"status":    string(inv.Status),
		"createdAt": inv.CreatedAt,
	}
	if inv.ReceiverID != nil {
		body["receiverId"] = string(*inv.ReceiverID)
	}
	if inv.ReceiverEmail != nil {
		body["receiverEmail"] = *inv.ReceiverEmail
	}
	writeJSON(w, http.StatusCreated, map[string]any{"invite": body})
}

func (s *Server) handleDeleteInvite(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	inviteID := domain.InviteID(chi.URLParam(r, "inviteID"))

	if err := s.Invites.Delete(r.Context(), identity, tripID, inviteID); err != nil {
		writeInvitesServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "invite deleted"})
}

func (s *Server) handleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}
	inviteID := domain.InviteID(chi.URLParam(r, "inviteID"))
	if err := s.Invites.Accept(r.Context(), identity, inviteID); err != nil {
		writeInvitesServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "invite accepted"})
}

func (s *Server) handleDeclineInvite(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}
	inviteID := domain.InviteID(chi.URLParam(r, "inviteID"))
	if err := s.Invites.Decline(r.Context(), identity, inviteID); err != nil {
		writeInvitesServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "invite declined"})
}
