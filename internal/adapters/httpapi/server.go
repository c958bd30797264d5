package httpapi

import (
	"github.com/tripcrew/tripcrew-api/internal/app/auth"
	"github.com/tripcrew/tripcrew-api/internal/app/invites"
	"github.com/tripcrew/tripcrew-api/internal/app/trips"
	"github.com/tripcrew/tripcrew-api/internal/app/users"
	"github.com/tripcrew/tripcrew-api/internal/platform/sessions"
)

// Server is the HTTP adapter: a thin layer that decodes requests,
// delegates to the application services, and encodes responses.
type Server struct {
	Auth     *auth.Service
	Trips    *trips.Service
	Invites  *invites.Service
	Users    *users.Service
	Sessions *sessions.Manager
}

func NewServer(authSvc *auth.Service, tripsSvc *trips.Service, invitesSvc *invites.Service, usersSvc *users.Service, mgr *sessions.Manager) *Server {
	return &Server{
		Auth:     authSvc,
		Trips:    tripsSvc,
		Invites:  invitesSvc,
		Users:    usersSvc,
		Sessions: mgr,
	}
}
