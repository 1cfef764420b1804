package http

import (
	"net/http"

	applog "accountbook/internal/log"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, token, err := s.deps.Accounts.Register(r.Context(), sanitizeInput(req.Name), sanitizeInput(req.Email), req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	applog.FromContext(r.Context()).WithComponent(applog.ComponentAuth).
		InfoContext(r.Context(), "User registered", applog.FieldOwner, int64(u.ID))
	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, User: toUserJSON(u)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, token, err := s.deps.Accounts.Login(r.Context(), sanitizeInput(req.Email), req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: toUserJSON(u)})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.deps.Accounts.Profile(r.Context(), session(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserJSON(u))
}

type renameRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sess := session(r)
	if err := s.deps.Accounts.Rename(r.Context(), sess, sanitizeInput(req.Name)); err != nil {
		writeError(w, r, err)
		return
	}
	s.handleProfile(w, r)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.deps.Accounts.Settings(r.Context(), session(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsJSON(settings))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsJSON
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := s.deps.Accounts.UpdateSettings(r.Context(), session(r), req.settings())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsJSON(saved))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	sess := session(r)
	if err := s.deps.Accounts.DeleteAccount(r.Context(), sess); err != nil {
		writeError(w, r, err)
		return
	}
	if s.deps.Categories != nil {
		s.deps.Categories.Forget(sess.Owner)
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Account deleted", applog.FieldOwner, int64(sess.Owner))
	w.WriteHeader(http.StatusNoContent)
}
