// Package server exposes the dashboard over HTTP. The front-end renders
// whatever these JSON endpoints return; all state changes go through
// explicit handlers against the retained view model.
package server

import (
	"net/http"
	"time"

	"ridho_store_admin/internal/dashboard"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const sessionTTL = 12 * time.Hour

type Server struct {
	svc           *dashboard.Service
	sessions      *SessionStore
	adminPassword string
	router        chi.Router
}

func New(svc *dashboard.Service, adminPassword string) *Server {
	s := &Server{
		svc:           svc,
		sessions:      NewSessionStore(sessionTTL),
		adminPassword: adminPassword,
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Post("/login", s.handleLogin)

		api.Group(func(pr chi.Router) {
			pr.Use(s.requireSession)
			pr.Get("/dashboard", s.handleDashboard)
			pr.Get("/orders/pending", s.handlePendingOrders)
			pr.Post("/orders/{key}/complete", s.handleCompleteOrder)
			pr.Get("/vendor/balance", s.handleVendorBalance)
		})
	})

	return r
}
