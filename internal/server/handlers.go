package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ridho_store_admin/internal/dashboard"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type loginRequest struct {
	Password string `json:"password"`
}

type completeRequest struct {
	Modal int64 `json:"modal"`
	Auto  bool  `json:"auto"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The configured secret is compared as-is; there is no lockout or
	// rate limit on this single-operator tool.
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.adminPassword)) != 1 {
		log.Warn().Str("remote", r.RemoteAddr).Msg("Rejected login attempt")
		respondError(w, http.StatusUnauthorized, "password salah")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": s.sessions.Issue()})
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !s.sessions.Valid(token) {
			respondError(w, http.StatusUnauthorized, "login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Snapshot(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to build dashboard snapshot")
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePendingOrders(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Snapshot(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list pending orders")
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"pending": snap.Pending})
}

func (s *Server) handleCompleteOrder(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Modal < 0 {
		respondError(w, http.StatusBadRequest, "modal must not be negative")
		return
	}

	result, err := s.svc.Complete(r.Context(), key, req.Modal, req.Auto)
	if err != nil {
		var dispatchErr *dashboard.DispatchError
		switch {
		case errors.Is(err, dashboard.ErrRowNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, dashboard.ErrInFlight):
			respondError(w, http.StatusConflict, err.Error())
		case errors.As(err, &dispatchErr):
			// The vendor's own words go back to the operator.
			respondError(w, http.StatusBadGateway, dispatchErr.Message)
		default:
			log.Error().Err(err).Str("key", key).Msg("Order completion failed")
			respondError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleVendorBalance(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]int64{"balance": s.svc.VendorBalance(r.Context())})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
