package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions allows swapping the auth middleware (e.g. a dev shim in
// local workflows and handler tests).
type RouterOptions struct {
	AuthMiddleware func(http.Handler) http.Handler
}

// NewRouter constructs the API HTTP router.
//
// This is intentionally a thin adapter: it wires routes and middleware
// and delegates to the Server handlers.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Baseline production-safe middleware (minimal but useful).
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	// Health and metrics endpoints are deliberately unauthenticated
	// (used for infra checks and scraping).
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/signup", s.handleSignup)
		api.Get("/auth/verify", s.handleVerify)
		api.Post("/auth/login", s.handleLogin)

		api.Group(func(protected chi.Router) {
			if opts.AuthMiddleware != nil {
				protected.Use(opts.AuthMiddleware)
			}

			protected.Get("/users/me", s.handleGetMe)
			protected.Patch("/users/me", s.handleUpdateMe)
			protected.Get("/users/search", s.handleUserSearch)

			protected.Post("/trips", s.handleCreateTrip)
			protected.Get("/trips", s.handleListMyTrips)
			protected.Get("/trips/{tripID}", s.handleGetTrip)
			protected.Get("/trips/{tripID}/members", s.handleListMembers)
			protected.Delete("/trips/{tripID}/members/{memberID}", s.handleRemoveMember)
			protected.Post("/trips/{tripID}/invite", s.handleCreateInvite)
			protected.Delete("/trips/{tripID}/invite/{inviteID}", s.handleDeleteInvite)

			protected.Get("/invites", s.handleListInvites)
			protected.Post("/invites/{inviteID}/accept", s.handleAcceptInvite)
			protected.Post("/invites/{inviteID}/decline", s.handleDeclineInvite)
		})
	})

	return r
}
