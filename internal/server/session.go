package server

import (
	"encoding/json"
	"net/http"
)

// sessionName is the admin session cookie.
const sessionName = "opsboard_session"

// handleLogin exchanges the shared admin token for a session cookie.
// Real deployments terminate authentication in front of this service;
// the token gate covers direct exposure during development and small
// installs.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.cfg.AdminToken == "" {
		respondError(w, http.StatusNotFound, "login disabled")
		return
	}

	var req struct {
		Token string `json:"token"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token != s.cfg.AdminToken {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	sess, _ := s.sessions.Get(r, sessionName)
	sess.Values["authenticated"] = true
	if req.Email != "" {
		sess.Values["email"] = req.Email
		if s.users != nil {
			if err := s.users.TouchLogin(r.Context(), req.Email); err != nil {
				s.logger.Warn("touch login failed", "email", req.Email, "error", err)
			}
		}
	}
	if err := sess.Save(r, w); err != nil {
		s.logger.Error("save session failed", "error", err)
		respondError(w, http.StatusInternalServerError, "save session failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLogout clears the session cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.sessions.Get(r, sessionName)
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		s.logger.Error("clear session failed", "error", err)
		respondError(w, http.StatusInternalServerError, "clear session failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireSession gates the private API routes. With no admin token
// configured the gate is open (local development).
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AdminToken == "" {
			next.ServeHTTP(w, r)
			return
		}
		sess, _ := s.sessions.Get(r, sessionName)
		if ok, _ := sess.Values["authenticated"].(bool); !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
