package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/tripcrew/tripcrew-api/internal/app/auth"
	"github.com/tripcrew/tripcrew-api/internal/app/invites"
	"github.com/tripcrew/tripcrew-api/internal/app/trips"
	"github.com/tripcrew/tripcrew-api/internal/app/users"
)

type errorBody struct {
	Error struct {
		Code      string         `json:"code"`
		Message   string         `json:"message"`
		Details   map[string]any `json:"details,omitempty"`
		RequestID string         `json:"requestId,omitempty"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	body.Error.Details = details
	body.Error.RequestID = middleware.GetReqID(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeInternalError logs the full error server-side and returns a
// generic body: internal details never leak to the caller.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal error",
		"method", r.Method,
		"path", r.URL.Path,
		"requestId", middleware.GetReqID(r.Context()),
		"error", err,
	)
	writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
}

// The app packages each carry their own Error type with identical shape;
// these mappers keep the handlers free of repeated errors.As plumbing.

func writeAuthServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *auth.Error
	if errors.As(err, &ae) {
		writeError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}
	writeInternalError(w, r, err)
}

func writeTripsServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *trips.Error
	if errors.As(err, &ae) {
		writeError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}
	writeInternalError(w, r, err)
}

func writeInvitesServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *invites.Error
	if errors.As(err, &ae) {
		writeError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}
	writeInternalError(w, r, err)
}

func writeUsersServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *users.Error
	if errors.As(err, &ae) {
		writeError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}
	writeInternalError(w, r, err)
}
