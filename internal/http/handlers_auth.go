package http

import (
	"errors"
	"net/http"

	"sheetwallet/internal/auth"
	applog "sheetwallet/internal/log"
	"sheetwallet/internal/validator"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := ParseRequestBody(w, r)
	if err != nil {
		s.writeError(w, r, err, applog.OpLogin, "failed to log in")
		return
	}
	var username, password *string
	if err := body.Strings(map[string]**string{"username": &username, "password": &password}); err != nil {
		s.writeError(w, r, err, applog.OpLogin, "failed to log in")
		return
	}
	req := loginRequest{Username: deref(username), Password: deref(password)}
	if err := validator.Struct(req); err != nil {
		s.writeError(w, r, err, applog.OpLogin, "failed to log in")
		return
	}

	p, err := s.deps.Users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Login rejected", applog.FieldUsername, req.Username, applog.FieldClientIP, s.clientIP.ClientIP(r))
		}
		s.writeError(w, r, err, applog.OpLogin, "failed to log in")
		return
	}

	token, _, err := s.deps.Tokens.Issue(p.Username)
	if err != nil {
		s.writeError(w, r, err, applog.OpLogin, "failed to issue token")
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Login succeeded", applog.FieldUsername, p.Username)
	writeJSON(w, http.StatusOK, nil, map[string]string{
		"token":     token,
		"expiresIn": s.opts.TokenExpiresIn,
	})
}
