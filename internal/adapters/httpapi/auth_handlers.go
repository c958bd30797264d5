package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/tripcrew/tripcrew-api/internal/app/auth"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}

	if _, err := s.Auth.Signup(r.Context(), auth.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		writeAuthServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "signup successful, check your email to verify your account",
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if _, err := s.Auth.Verify(r.Context(), token); err != nil {
		writeAuthServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "email verified"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}

	u, err := s.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthServiceError(w, r, err)
		return
	}

	token, err := s.Sessions.Issue(u.ID)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
